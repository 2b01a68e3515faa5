package console

import (
	"fmt"
	"reflect"
	"strconv"
	"strings"

	"github.com/agentkit-dev/agentkit/pkg/logger"
	"github.com/agentkit-dev/agentkit/pkg/stringutil"
)

var renderLog = logger.New("console:render")

// RenderStruct renders a Go struct as plain text using reflection and struct
// tags:
//   - scalar fields become aligned "Name: value" lines
//   - slices of structs become tables (see RenderTable)
//   - slices of scalars become bullet lists
//   - nested structs become sections with a markdown style heading
//
// Struct tags:
//   - `console:"title:My Title"` sets the heading of a nested section
//   - `console:"header:Column Name"` sets the label or column header
//   - `console:"omitempty"` skips zero values
//   - `console:"maxlen:40"` truncates long values
//   - `console:"-"` skips the field
func RenderStruct(v any) string {
	renderLog.Printf("Rendering struct: type=%T", v)
	var output strings.Builder
	renderValue(reflect.ValueOf(v), "", &output, 0)
	return output.String()
}

func renderValue(val reflect.Value, title string, output *strings.Builder, depth int) {
	for val.Kind() == reflect.Pointer {
		if val.IsNil() {
			return
		}
		val = val.Elem()
	}

	switch val.Kind() {
	case reflect.Struct:
		renderStruct(val, title, output, depth)
	case reflect.Slice, reflect.Array:
		renderSlice(val, title, output, depth)
	}
}

func writeHeading(output *strings.Builder, title string, depth int) {
	if title == "" {
		return
	}
	fmt.Fprintf(output, "%s %s\n\n", strings.Repeat("#", depth+1), title)
}

func renderStruct(val reflect.Value, title string, output *strings.Builder, depth int) {
	typ := val.Type()
	writeHeading(output, title, depth)

	type scalar struct {
		name  string
		value string
	}
	var scalars []scalar
	var nested []func()
	maxNameLen := 0

	for i := range val.NumField() {
		field := val.Field(i)
		fieldType := typ.Field(i)
		if !fieldType.IsExported() {
			continue
		}
		tag := parseConsoleTag(fieldType.Tag.Get("console"))
		if tag.skip || (tag.omitempty && isZeroValue(field)) {
			continue
		}

		name := fieldType.Name
		if tag.header != "" {
			name = tag.header
		}

		inner := field
		if inner.Kind() == reflect.Pointer && !inner.IsNil() {
			inner = inner.Elem()
		}
		switch inner.Kind() {
		case reflect.Struct, reflect.Slice, reflect.Array:
			sectionTitle := tag.title
			if sectionTitle == "" {
				sectionTitle = name
			}
			nested = append(nested, func() { renderValue(field, sectionTitle, output, depth+1) })
		default:
			scalars = append(scalars, scalar{name: name, value: formatFieldValueWithTag(field, tag)})
			maxNameLen = max(maxNameLen, len(name))
		}
	}

	for _, s := range scalars {
		fmt.Fprintf(output, "  %-*s  %s\n", maxNameLen+1, s.name+":", s.value)
	}
	if len(scalars) > 0 {
		output.WriteString("\n")
	}
	for _, render := range nested {
		render()
	}
}

func renderSlice(val reflect.Value, title string, output *strings.Builder, depth int) {
	if val.Len() == 0 {
		return
	}
	writeHeading(output, title, depth)

	elemType := val.Type().Elem()
	for elemType.Kind() == reflect.Pointer {
		elemType = elemType.Elem()
	}

	if elemType.Kind() == reflect.Struct {
		output.WriteString(RenderTable(buildTableConfig(val, elemType), false))
	} else {
		for i := range val.Len() {
			fmt.Fprintf(output, "  • %s\n", formatFieldValue(val.Index(i)))
		}
	}
	output.WriteString("\n")
}

func buildTableConfig(val reflect.Value, elemType reflect.Type) TableConfig {
	var config TableConfig
	var fieldIndices []int
	var fieldTags []consoleTag

	for i := range elemType.NumField() {
		field := elemType.Field(i)
		if !field.IsExported() {
			continue
		}
		tag := parseConsoleTag(field.Tag.Get("console"))
		if tag.skip {
			continue
		}
		header := field.Name
		if tag.header != "" {
			header = tag.header
		}
		config.Headers = append(config.Headers, header)
		fieldIndices = append(fieldIndices, i)
		fieldTags = append(fieldTags, tag)
	}

	for i := range val.Len() {
		elem := val.Index(i)
		for elem.Kind() == reflect.Pointer && !elem.IsNil() {
			elem = elem.Elem()
		}
		if elem.Kind() != reflect.Struct {
			continue
		}
		row := make([]string, len(fieldIndices))
		for j, idx := range fieldIndices {
			row[j] = formatFieldValueWithTag(elem.Field(idx), fieldTags[j])
		}
		config.Rows = append(config.Rows, row)
	}
	return config
}

type consoleTag struct {
	title     string
	header    string
	maxLen    int
	omitempty bool
	skip      bool
}

func parseConsoleTag(tag string) consoleTag {
	var result consoleTag
	if tag == "-" {
		result.skip = true
		return result
	}
	for part := range strings.SplitSeq(tag, ",") {
		part = strings.TrimSpace(part)
		if part == "omitempty" {
			result.omitempty = true
		} else if after, ok := strings.CutPrefix(part, "title:"); ok {
			result.title = after
		} else if after, ok := strings.CutPrefix(part, "header:"); ok {
			result.header = after
		} else if after, ok := strings.CutPrefix(part, "maxlen:"); ok {
			if n, err := strconv.Atoi(after); err == nil {
				result.maxLen = n
			}
		}
	}
	return result
}

func isZeroValue(val reflect.Value) bool {
	if !val.IsValid() {
		return true
	}
	switch val.Kind() {
	case reflect.Array, reflect.Map, reflect.Slice, reflect.String:
		return val.Len() == 0
	case reflect.Interface, reflect.Pointer:
		return val.IsNil()
	}
	return val.IsZero()
}

// formatFieldValue renders a scalar. Empty strings and nil pointers render
// as "-".
func formatFieldValue(val reflect.Value) string {
	for val.Kind() == reflect.Pointer {
		if val.IsNil() {
			return "-"
		}
		val = val.Elem()
	}
	if !val.IsValid() {
		return "-"
	}
	if val.Kind() == reflect.String {
		if val.Len() == 0 {
			return "-"
		}
		return val.String()
	}
	if !val.CanInterface() {
		return val.Type().String()
	}
	return fmt.Sprintf("%v", val.Interface())
}

func formatFieldValueWithTag(val reflect.Value, tag consoleTag) string {
	value := formatFieldValue(val)
	if tag.maxLen > 0 {
		value = stringutil.Truncate(value, tag.maxLen)
	}
	return value
}
