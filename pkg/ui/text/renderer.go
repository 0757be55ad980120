// Package text provides plain text output without any styling
package text

import (
	"fmt"
	"io"

	"github.com/arthur-debert/relink/pkg/errors"
	"github.com/arthur-debert/relink/pkg/ui/display"
)

// Renderer provides plain text output without colors or styling
type Renderer struct {
	output io.Writer
}

// New creates a new text renderer
func New(output io.Writer) *Renderer {
	return &Renderer{output: output}
}

// RenderResult renders a display view as plain lines
func (r *Renderer) RenderResult(result interface{}) error {
	switch v := result.(type) {
	case *display.RelinkView:
		return r.renderRelink(v)
	case *display.ResumeView:
		return r.renderResume(v)
	case *display.JournalList:
		return r.renderJournals(v)
	default:
		_, err := fmt.Fprintf(r.output, "%+v\n", result)
		return err
	}
}

func (r *Renderer) renderRelink(v *display.RelinkView) error {
	w := &writer{out: r.output}
	if v.DryRun {
		w.printf("Dry run: nothing was changed\n")
	}
	for _, s := range v.Sources {
		for _, link := range s.Links {
			w.printf("%s -> %s\n", link, s.Destination)
		}
	}
	if v.DryRun {
		w.printf("Would copy %d file(s) and replace %d link(s)\n", len(v.Sources), v.LinkCount())
	} else {
		w.printf("Copied %d file(s), %d link(s) now point at the copies\n", len(v.Sources), v.LinkCount())
	}
	return w.err
}

func (r *Renderer) renderResume(v *display.ResumeView) error {
	w := &writer{out: r.output}
	w.printf("Resumed %s\n", v.JournalID)
	for _, p := range v.Copied {
		w.printf("copied %s\n", p)
	}
	for _, p := range v.Replaced {
		w.printf("linked %s\n", p)
	}
	if n := len(v.AlreadyDone); n > 0 {
		w.printf("%d link(s) were already in place\n", n)
	}
	return w.err
}

func (r *Renderer) renderJournals(v *display.JournalList) error {
	w := &writer{out: r.output}
	if len(v.Journals) == 0 {
		w.printf("No interrupted runs in %s\n", v.Dir)
		return w.err
	}
	for _, j := range v.Journals {
		w.printf("%s\t%s\t%s\t%d source(s)\t%d pending\n",
			j.ID, j.CreatedAt.Local().Format("2006-01-02 15:04:05"), j.Pattern, j.Sources, j.Pending)
	}
	return w.err
}

// RenderError renders an error as plain text
func (r *Renderer) RenderError(err error) error {
	w := &writer{out: r.output}
	w.printf("Error: %s\n", err.Error())
	if path, ok := errors.GetErrorDetails(err)["path"].(string); ok && path != "" {
		w.printf("  path: %s\n", path)
	}
	return w.err
}

// RenderMessage renders a simple message
func (r *Renderer) RenderMessage(msg string) error {
	_, err := fmt.Fprintln(r.output, msg)
	return err
}

// writer keeps the first write error
type writer struct {
	out io.Writer
	err error
}

func (w *writer) printf(format string, args ...interface{}) {
	if w.err != nil {
		return
	}
	_, w.err = fmt.Fprintf(w.out, format, args...)
}
