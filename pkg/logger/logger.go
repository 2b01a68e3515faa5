// Package logger provides namespace-scoped debug logging controlled by the
// DEBUG environment variable.
//
// DEBUG syntax follows https://www.npmjs.com/package/debug patterns:
//
//	DEBUG=*                      - enables all loggers
//	DEBUG=validator:*            - enables all loggers in a namespace
//	DEBUG=cli:validate,schema:*  - enables several namespaces
//	DEBUG=validator:*,-validator:secrets - exclusions take precedence
//
// Output goes to stderr so it never mixes with rendered findings on stdout.
package logger

import (
	"fmt"
	"hash/fnv"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/agentkit-dev/agentkit/pkg/timeutil"
	"github.com/agentkit-dev/agentkit/pkg/tty"
)

// Logger is a debug logger bound to one namespace.
type Logger struct {
	namespace string
	enabled   bool
	color     string

	mu      sync.Mutex
	lastLog time.Time
}

var (
	debugEnv    = os.Getenv("DEBUG")
	debugColors = os.Getenv("DEBUG_COLORS") != "0"
	isTTY       = tty.IsStderrTerminal()

	// ANSI 256 colours readable on light and dark backgrounds.
	palette = []string{
		"\033[38;5;33m",
		"\033[38;5;35m",
		"\033[38;5;166m",
		"\033[38;5;125m",
		"\033[38;5;37m",
		"\033[38;5;161m",
		"\033[38;5;136m",
		"\033[38;5;63m",
	}
)

const colorReset = "\033[0m"

// New creates a Logger for namespace. Whether it is enabled is decided once,
// here, from the DEBUG environment variable.
func New(namespace string) *Logger {
	return &Logger{
		namespace: namespace,
		enabled:   computeEnabled(debugEnv, namespace),
		color:     pickColor(namespace),
		lastLog:   time.Now(),
	}
}

// Enabled reports whether this logger writes anything.
func (l *Logger) Enabled() bool {
	return l.enabled
}

// Printf logs a formatted message followed by the time since the previous
// message on this logger.
func (l *Logger) Printf(format string, args ...any) {
	if !l.enabled {
		return
	}
	l.emit(fmt.Sprintf(format, args...))
}

// Print logs its arguments formatted with fmt.Sprint.
func (l *Logger) Print(args ...any) {
	if !l.enabled {
		return
	}
	l.emit(fmt.Sprint(args...))
}

func (l *Logger) emit(message string) {
	l.mu.Lock()
	now := time.Now()
	diff := now.Sub(l.lastLog)
	l.lastLog = now
	l.mu.Unlock()

	name := l.namespace
	if l.color != "" {
		name = l.color + name + colorReset
	}
	fmt.Fprintf(os.Stderr, "%s %s +%s\n", name, message, timeutil.FormatDuration(diff))
}

func pickColor(namespace string) string {
	if !debugColors || !isTTY {
		return ""
	}
	h := fnv.New32a()
	_, _ = h.Write([]byte(namespace))
	return palette[h.Sum32()%uint32(len(palette))]
}

// computeEnabled evaluates a comma separated DEBUG value against namespace.
func computeEnabled(spec, namespace string) bool {
	enabled := false
	for _, pattern := range strings.Split(spec, ",") {
		pattern = strings.TrimSpace(pattern)
		if pattern == "" {
			continue
		}
		if excluded, ok := strings.CutPrefix(pattern, "-"); ok {
			if matchPattern(namespace, excluded) {
				return false
			}
			continue
		}
		if matchPattern(namespace, pattern) {
			enabled = true
		}
	}
	return enabled
}

// matchPattern supports a single '*' wildcard anywhere in pattern.
func matchPattern(namespace, pattern string) bool {
	if pattern == "*" || pattern == namespace {
		return true
	}
	prefix, suffix, found := strings.Cut(pattern, "*")
	if !found {
		return false
	}
	return len(namespace) >= len(prefix)+len(suffix) &&
		strings.HasPrefix(namespace, prefix) &&
		strings.HasSuffix(namespace, suffix)
}
