package output

import (
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/charmbracelet/lipgloss"
	"golang.org/x/term"
)

// ANSI color codes
const (
	colorReset  = "\033[0m"
	colorRed    = "\033[31m"
	colorGreen  = "\033[32m"
	colorYellow = "\033[33m"
	colorBlue   = "\033[34m"
	colorCyan   = "\033[36m"
	colorGray   = "\033[90m"
	colorBold   = "\033[1m"
)

type kind int

const (
	kindSuccess kind = iota
	kindError
	kindWarning
	kindInfo
	kindStep
	kindNotice
)

// mark is the symbol and color a status line starts with. toErr lines go to
// the error writer.
type mark struct {
	symbol string
	color  string
	toErr  bool
}

var marks = map[kind]mark{
	kindSuccess: {"✓", colorGreen, false},
	kindError:   {"✗", colorRed, true},
	kindWarning: {"⚠", colorYellow, true},
	kindInfo:    {"→", colorCyan, false},
	kindStep:    {"▶", colorBlue, false},
	kindNotice:  {"⏸", colorYellow, false},
}

// Printer writes status lines, review panels and tables for the CLI
type Printer struct {
	out      io.Writer
	err      io.Writer
	useColor bool
	renderer *lipgloss.Renderer

	mu sync.Mutex // serialises writes with the spinner
}

// NewPrinter creates a printer on stdout and stderr, with color when stdout
// is a terminal
func NewPrinter() *Printer {
	return NewPrinterWithWriters(os.Stdout, os.Stderr, isTerminal())
}

// NewPrinterWithWriters creates a printer with custom writers (for testing)
func NewPrinterWithWriters(out, err io.Writer, useColor bool) *Printer {
	if err == nil {
		err = out
	}
	return &Printer{
		out:      out,
		err:      err,
		useColor: useColor,
		renderer: lipgloss.NewRenderer(out),
	}
}

// Out returns the writer for regular output
func (p *Printer) Out() io.Writer {
	return p.out
}

func (p *Printer) Success(format string, args ...interface{}) { p.emit(kindSuccess, format, args...) }
func (p *Printer) Error(format string, args ...interface{})   { p.emit(kindError, format, args...) }
func (p *Printer) Warning(format string, args ...interface{}) { p.emit(kindWarning, format, args...) }
func (p *Printer) Info(format string, args ...interface{})    { p.emit(kindInfo, format, args...) }
func (p *Printer) Step(format string, args ...interface{})    { p.emit(kindStep, format, args...) }

// Notice marks a paused or skipped outcome
func (p *Printer) Notice(format string, args ...interface{}) { p.emit(kindNotice, format, args...) }

// Detail prints an indented secondary line
func (p *Printer) Detail(format string, args ...interface{}) {
	message := "  " + fmt.Sprintf(format, args...)
	if p.useColor {
		message = colorGray + message + colorReset
	}
	p.write(p.out, message+"\n")
}

// Print writes a formatted message as is
func (p *Printer) Print(format string, args ...interface{}) {
	p.write(p.out, fmt.Sprintf(format, args...))
}

// Println writes its arguments followed by a newline
func (p *Printer) Println(args ...interface{}) {
	p.write(p.out, fmt.Sprintln(args...))
}

func (p *Printer) emit(k kind, format string, args ...interface{}) {
	m := marks[k]
	w := p.out
	if m.toErr {
		w = p.err
	}

	text := m.symbol + " " + fmt.Sprintf(format, args...)
	if p.useColor {
		text = colorBold + m.color + text + colorReset
	}
	p.write(w, text+"\n")
}

func (p *Printer) write(w io.Writer, s string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	_, _ = io.WriteString(w, s)
}

func isTerminal() bool {
	if os.Getenv("NO_COLOR") != "" {
		return false
	}
	return term.IsTerminal(int(os.Stdout.Fd()))
}

// IsInteractive reports whether f is attached to a terminal
func IsInteractive(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}
