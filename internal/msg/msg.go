package msg

import (
	"fmt"
	"io"
	"os"

	"github.com/fatih/color"
)

// Error reports a fatal-class diagnostic on stderr without terminating.
func Error(format string, a ...any) {
	fmt.Fprint(os.Stderr, color.HiRedString("ERROR"))
	fmt.Fprint(os.Stderr, ": ")
	fmt.Fprintf(os.Stderr, format, a...)
	fmt.Fprint(os.Stderr, "\n")
}

func Warn(format string, a ...any) {
	fmt.Print(color.YellowString("warn"))
	fmt.Print(": ")
	fmt.Printf(format, a...)
	fmt.Print("\n")
}

// Fatal reports the diagnostic and terminates the process with status 1.
// Only command-level code calls this; library code returns errors.
func Fatal(format string, a ...any) {
	Error(format, a...)
	os.Exit(1)
}

func Info(format string, a ...any) {
	fmt.Print(color.HiGreenString("info"))
	fmt.Print(": ")
	fmt.Printf(format, a...)
	fmt.Print("\n")
}

// Stage prints a right-aligned colored verb followed by a message, e.g.
//
//	 Scanning plugins (24 archives)
//	Combining libvlc-full.a
func Stage(verb, format string, a ...any) {
	fmt.Printf("%12s ", color.HiGreenString(verb))
	fmt.Printf(format, a...)
	fmt.Print("\n")
}

// IndentWriter indents every line written through it, used to offset
// subprocess output from the tool's own diagnostics.
type IndentWriter struct {
	Indent    string
	W         io.Writer
	didIndent bool
}

func (w *IndentWriter) Write(p []byte) (n int, err error) {
	start := 0
	for i, c := range p {
		if !w.didIndent {
			if _, err := io.WriteString(w.W, w.Indent); err != nil {
				return start, err
			}
			w.didIndent = true
		}
		if c == '\n' || c == '\r' {
			if _, err := w.W.Write(p[start : i+1]); err != nil {
				return start, err
			}
			start = i + 1
			w.didIndent = false
		}
	}
	if start < len(p) {
		if _, err := w.W.Write(p[start:]); err != nil {
			return start, err
		}
	}
	return len(p), nil
}
