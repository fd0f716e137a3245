package main

import (
	"fmt"
	"io"
	"os"

	"github.com/mattn/go-isatty"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"vrhouse/internal/pipeline"
)

// progressRenderer prints pipeline progress. On a terminal it redraws one
// line in place; otherwise it prints one line per event.
type progressRenderer struct {
	w      io.Writer
	tty    bool
	caser  cases.Caser
	active bool
}

func newProgressRenderer(w io.Writer) *progressRenderer {
	return &progressRenderer{
		w:     w,
		tty:   isTerminal(w),
		caser: cases.Title(language.English),
	}
}

func isTerminal(w io.Writer) bool {
	file, ok := w.(*os.File)
	if !ok {
		return false
	}
	fd := file.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}

// Sink adapts the renderer to pipeline.ProgressFunc.
func (p *progressRenderer) Sink() pipeline.ProgressFunc {
	return p.render
}

func (p *progressRenderer) render(progress float64, message string) {
	if progress < 0 {
		p.finishLine()
		fmt.Fprintf(p.w, "[fail] %s\n", message)
		return
	}
	line := fmt.Sprintf("[%3d%%] %s", int(progress*100+0.5), stageLabel(p.caser, message))
	if !p.tty {
		fmt.Fprintln(p.w, line)
		return
	}
	fmt.Fprintf(p.w, "\r\033[K%s", line)
	p.active = true
	if progress >= pipeline.ProgressDone {
		p.finishLine()
	}
}

func (p *progressRenderer) finishLine() {
	if p.active {
		fmt.Fprintln(p.w)
		p.active = false
	}
}

func stageLabel(caser cases.Caser, message string) string {
	return caser.String(message)
}
