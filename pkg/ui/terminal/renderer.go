// Package terminal provides rich terminal output with colors and tables
package terminal

import (
	"fmt"
	"io"
	"strings"

	"github.com/arthur-debert/relink/pkg/errors"
	"github.com/arthur-debert/relink/pkg/ui/display"
	"github.com/arthur-debert/relink/pkg/ui/styles"
	"github.com/pterm/pterm"
)

// Renderer writes styled output with lipgloss and pterm tables
type Renderer struct {
	output io.Writer
}

// New creates a new terminal renderer
func New(w io.Writer) *Renderer {
	return &Renderer{output: w}
}

// RenderResult renders a display view
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
	var b strings.Builder

	if v.DryRun {
		b.WriteString(styles.Render("DryRunBanner", "Dry run: nothing was changed") + "\n\n")
	}

	data := pterm.TableData{{"Path", "Symlink to"}}
	for _, s := range v.Sources {
		for _, link := range s.Links {
			data = append(data, []string{link, s.Destination})
		}
	}
	table, err := pterm.DefaultTable.WithHasHeader().WithData(data).Srender()
	if err != nil {
		return err
	}
	b.WriteString(table + "\n\n")

	copies := len(v.Sources)
	if v.DryRun {
		b.WriteString(styles.Render("Header", fmt.Sprintf(
			"Would copy %d file(s) and replace %d link(s)", copies, v.LinkCount())) + "\n")
	} else {
		b.WriteString(styles.Render("Success", fmt.Sprintf(
			"✓ Copied %d file(s), %d link(s) now point at the copies", copies, v.LinkCount())) + "\n")
	}
	b.WriteString(styles.Render("Muted", fmt.Sprintf(
		"searched %s: %d match(es), %d link(s) found", v.Pattern, v.Visited, v.Attributed)) + "\n")

	_, err = io.WriteString(r.output, b.String())
	return err
}

func (r *Renderer) renderResume(v *display.ResumeView) error {
	var b strings.Builder
	b.WriteString(styles.Render("Success", "✓ Resumed "+v.JournalID) + "\n")
	for _, p := range v.Copied {
		b.WriteString("  copied   " + styles.Render("FilePath", p) + "\n")
	}
	for _, p := range v.Replaced {
		b.WriteString("  linked   " + styles.Render("FilePath", p) + "\n")
	}
	if n := len(v.AlreadyDone); n > 0 {
		b.WriteString(styles.Render("Muted", fmt.Sprintf("  %d link(s) were already in place", n)) + "\n")
	}
	_, err := io.WriteString(r.output, b.String())
	return err
}

func (r *Renderer) renderJournals(v *display.JournalList) error {
	if len(v.Journals) == 0 {
		_, err := fmt.Fprintln(r.output, styles.Render("Muted", "No interrupted runs in "+v.Dir))
		return err
	}

	data := pterm.TableData{{"ID", "Created", "Pattern", "Sources", "Pending"}}
	for _, j := range v.Journals {
		data = append(data, []string{
			j.ID,
			j.CreatedAt.Local().Format("2006-01-02 15:04:05"),
			j.Pattern,
			fmt.Sprint(j.Sources),
			fmt.Sprint(j.Pending),
		})
	}
	table, err := pterm.DefaultTable.WithHasHeader().WithData(data).Srender()
	if err != nil {
		return err
	}
	_, err = fmt.Fprintf(r.output, "%s\n%s\n", table,
		styles.Render("Muted", "finish one with: relink resume <id>"))
	return err
}

// RenderError renders an error with its code and details
func (r *Renderer) RenderError(err error) error {
	var b strings.Builder
	msg := err.Error()
	if code := errors.GetErrorCode(err); code != errors.ErrUnknown {
		msg = fmt.Sprintf("%s [%s]", msg, code)
	}
	b.WriteString(styles.Render("Error", "✗ "+msg) + "\n")
	if path, ok := errors.GetErrorDetails(err)["path"].(string); ok && path != "" {
		b.WriteString(styles.Render("ErrorDetail", "path: "+path) + "\n")
	}
	_, werr := io.WriteString(r.output, b.String())
	return werr
}

// RenderMessage renders a simple message
func (r *Renderer) RenderMessage(msg string) error {
	_, err := fmt.Fprintln(r.output, styles.Render("Header", msg))
	return err
}
