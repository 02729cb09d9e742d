// Package console provides the leveled, colored output used by the CLI and
// the e2e suite.
package console

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync"

	"github.com/fatih/color"
)

var (
	warnColor    = color.New(color.FgYellow)
	failColor    = color.New(color.FgRed)
	okColor      = color.New(color.FgGreen)
	debugColor   = color.New(color.Faint)
	headingColor = color.New(color.Bold, color.FgCyan)
)

// Logger is the minimal logging surface the packages in this module depend on.
type Logger interface {
	Println(args ...interface{})
	Printf(message string, args ...interface{})
}

type nullLogger struct{}

func (n nullLogger) Println(args ...interface{})                {}
func (n nullLogger) Printf(message string, args ...interface{}) {}

// NullLogger discards everything.
func NullLogger() Logger { return nullLogger{} }

// Console writes to stdout, with failures going to stderr.
type Console struct {
	Verbose bool
	out     io.Writer
	errOut  io.Writer
	lock    sync.Mutex
}

// New creates a Console. Debug output is only printed when verbose is set.
func New(verbose bool) *Console {
	return &Console{Verbose: verbose, out: os.Stdout, errOut: os.Stderr}
}

// NewWithWriters is New with explicit writers, mainly for tests.
func NewWithWriters(verbose bool, out, errOut io.Writer) *Console {
	return &Console{Verbose: verbose, out: out, errOut: errOut}
}

func (c *Console) Println(args ...interface{}) {
	c.write(c.out, nil, strings.TrimRight(fmt.Sprintln(args...), "\r\n"))
}

func (c *Console) Printf(message string, args ...interface{}) {
	c.write(c.out, nil, fmt.Sprintf(message, args...))
}

// Debugf prints only in verbose mode.
func (c *Console) Debugf(message string, args ...interface{}) {
	if !c.Verbose {
		return
	}
	c.write(c.out, debugColor, fmt.Sprintf(message, args...))
}

func (c *Console) Heading(message string, args ...interface{}) {
	c.write(c.out, headingColor, fmt.Sprintf(message, args...))
}

func (c *Console) Warnf(message string, args ...interface{}) {
	c.write(c.out, warnColor, fmt.Sprintf(message, args...))
}

func (c *Console) OKf(message string, args ...interface{}) {
	c.write(c.out, okColor, "✓ "+fmt.Sprintf(message, args...))
}

func (c *Console) Failf(message string, args ...interface{}) {
	c.write(c.errOut, failColor, "✗ "+fmt.Sprintf(message, args...))
}

func (c *Console) write(w io.Writer, col *color.Color, line string) {
	c.lock.Lock()
	defer c.lock.Unlock()
	if col == nil {
		_, _ = fmt.Fprintln(w, line)
		return
	}
	_, _ = col.Fprintln(w, line)
}

type prefixedLogger struct {
	base   Logger
	prefix string
}

// WithPrefix prepends prefix to every message written through the returned Logger.
func WithPrefix(base Logger, prefix string) Logger {
	return prefixedLogger{base, prefix}
}

func (p prefixedLogger) Println(args ...interface{}) {
	p.base.Println(append([]interface{}{p.prefix}, args...)...)
}

func (p prefixedLogger) Printf(message string, args ...interface{}) {
	p.base.Printf(p.prefix+message, args...)
}

// Warn routes through Warnf when the logger supports it, else plain Printf.
func Warn(l Logger, message string, args ...interface{}) {
	if w, ok := l.(interface {
		Warnf(string, ...interface{})
	}); ok {
		w.Warnf(message, args...)
		return
	}
	l.Printf("WARN: "+message, args...)
}
