// Package fileutil provides file system helpers for the CLI.
package fileutil

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/agentkit-dev/agentkit/pkg/logger"
)

var log = logger.New("fileutil:fileutil")

// DocumentExtensions are the file extensions treated as agent definitions.
var DocumentExtensions = []string{".json", ".yaml", ".yml"}

// FileExists checks if a file exists and is not a directory.
func FileExists(path string) bool {
	info, err := os.Stat(path)
	if err != nil {
		return false
	}
	return !info.IsDir()
}

// DirExists checks if a directory exists.
func DirExists(path string) bool {
	info, err := os.Stat(path)
	if err != nil {
		return false
	}
	return info.IsDir()
}

// IsDocumentFile reports whether path has one of DocumentExtensions.
func IsDocumentFile(path string) bool {
	return slices.Contains(DocumentExtensions, strings.ToLower(filepath.Ext(path)))
}

// ExpandDocumentPaths resolves CLI arguments into a sorted, de-duplicated list
// of files. Files are taken as given; directories are walked recursively for
// files with a document extension.
func ExpandDocumentPaths(args []string) ([]string, error) {
	seen := make(map[string]bool)
	var out []string
	add := func(p string) {
		if !seen[p] {
			seen[p] = true
			out = append(out, p)
		}
	}

	for _, arg := range args {
		info, err := os.Stat(arg)
		if err != nil {
			return nil, fmt.Errorf("cannot access %s: %w", arg, err)
		}
		if !info.IsDir() {
			add(filepath.Clean(arg))
			continue
		}
		err = filepath.WalkDir(arg, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if !d.IsDir() && IsDocumentFile(path) {
				add(path)
			}
			return nil
		})
		if err != nil {
			return nil, fmt.Errorf("walking %s: %w", arg, err)
		}
	}

	slices.Sort(out)
	log.Printf("Expanded %d arguments into %d document files", len(args), len(out))
	return out, nil
}
