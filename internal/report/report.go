// Package report renders synchronization outcomes and asks for destructive
// change confirmation.
package report

import (
	"bufio"
	"fmt"
	"io"
	"slices"
	"strings"
	"text/tabwriter"

	"github.com/thoreinstein/mcpsync/internal/syncer"
)

// ANSI color codes for terminal output.
const (
	colorReset  = "\033[0m"
	colorBold   = "\033[1m"
	colorRed    = "\033[31m"
	colorGreen  = "\033[32m"
	colorYellow = "\033[33m"
	colorCyan   = "\033[36m"
	colorGray   = "\033[90m"
)

// Status is the overall outcome of one synchronization pass.
type Status string

const (
	// StatusSuccess means every target was written and validated in sync.
	StatusSuccess Status = "SUCCESS"

	// StatusPartialSuccess means every write succeeded but at least one
	// target failed validation.
	StatusPartialSuccess Status = "PARTIAL_SUCCESS"

	// StatusFailed means at least one target could not be written, or the
	// pass was cancelled.
	StatusFailed Status = "FAILED"
)

// DeriveStatus computes the overall status of a pass from its per-target
// results.
func DeriveStatus(results map[string]syncer.SyncResult, validation map[string]syncer.ValidationResult) Status {
	for _, r := range results {
		if !r.Success {
			return StatusFailed
		}
	}
	for _, v := range validation {
		if !v.InSync {
			return StatusPartialSuccess
		}
	}
	return StatusSuccess
}

// Printer renders pass reports to a writer. It implements syncer.Reporter.
type Printer struct {
	w     io.Writer
	color bool
}

// NewPrinter creates a Printer. Set color to false for non-TTY output.
func NewPrinter(w io.Writer, color bool) *Printer {
	return &Printer{w: w, color: color}
}

// Report renders a per-target table and the overall status line.
func (p *Printer) Report(source string, results map[string]syncer.SyncResult, validation map[string]syncer.ValidationResult) {
	fmt.Fprintf(p.w, "\n%sSync from %s%s\n\n", p.paint(colorCyan+colorBold), source, p.paint(colorReset))

	tw := tabwriter.NewWriter(p.w, 0, 0, 2, ' ', 0)
	fmt.Fprintf(tw, "  %sAPP%s\t%sACTION%s\t%sFORMAT%s\t%sSIZE%s\t%sVALIDATION%s\n",
		p.paint(colorBold), p.paint(colorReset),
		p.paint(colorBold), p.paint(colorReset),
		p.paint(colorBold), p.paint(colorReset),
		p.paint(colorBold), p.paint(colorReset),
		p.paint(colorBold), p.paint(colorReset))

	for _, app := range sortedApps(results) {
		r := results[app]
		fmt.Fprintf(tw, "  %s%s%s\t%s%s%s\t%s\t%s\t%s\n",
			p.paint(colorGreen), app, p.paint(colorReset),
			p.paint(actionColor(r.Action)), r.Action, p.paint(colorReset),
			r.Format,
			sizeLabel(r.Size),
			p.validationLabel(validation, app))
	}
	tw.Flush()

	for _, app := range sortedApps(results) {
		if err := results[app].Err; err != nil {
			fmt.Fprintf(p.w, "  %s%s: %v%s\n", p.paint(colorRed), app, err, p.paint(colorReset))
		}
	}

	status := DeriveStatus(results, validation)
	fmt.Fprintf(p.w, "\n%s%s%s\n", p.paint(statusColor(status)), status, p.paint(colorReset))
}

// paint returns the ANSI code when color is enabled, empty otherwise.
func (p *Printer) paint(code string) string {
	if p.color {
		return code
	}
	return ""
}

func (p *Printer) validationLabel(validation map[string]syncer.ValidationResult, app string) string {
	v, ok := validation[app]
	if !ok {
		return p.paint(colorGray) + "-" + p.paint(colorReset)
	}
	if v.InSync {
		return p.paint(colorGreen) + "in sync" + p.paint(colorReset)
	}

	label := v.Reason
	if len(v.MismatchedKeys) > 0 {
		label += ": " + strings.Join(v.MismatchedKeys, ", ")
	}
	return p.paint(colorYellow) + label + p.paint(colorReset)
}

func actionColor(action syncer.SyncAction) string {
	switch action {
	case syncer.ActionCreated, syncer.ActionUpdated:
		return colorGreen
	case syncer.ActionSkipped:
		return colorGray
	case syncer.ActionCancelled:
		return colorYellow
	default:
		return colorRed
	}
}

func statusColor(status Status) string {
	switch status {
	case StatusSuccess:
		return colorGreen + colorBold
	case StatusPartialSuccess:
		return colorYellow + colorBold
	default:
		return colorRed + colorBold
	}
}

func sizeLabel(size int) string {
	if size == 0 {
		return "-"
	}
	return fmt.Sprintf("%d B", size)
}

func sortedApps(results map[string]syncer.SyncResult) []string {
	apps := make([]string, 0, len(results))
	for app := range results {
		apps = append(apps, app)
	}
	slices.Sort(apps)
	return apps
}

// Prompter asks the operator to confirm destructive changes.
// It implements syncer.Confirmer.
type Prompter struct {
	w io.Writer
	r io.Reader
}

// NewPrompter creates a Prompter reading answers from r.
func NewPrompter(w io.Writer, r io.Reader) *Prompter {
	return &Prompter{w: w, r: r}
}

// ConfirmDestructive lists the servers each target would lose and prompts.
// Returns true only if the operator enters "y" or "yes" (case-insensitive).
// A read error, including a closed stdin, counts as "no".
func (p *Prompter) ConfirmDestructive(changes []syncer.DestructiveChange) bool {
	fmt.Fprintf(p.w, "\n%sWarning: this sync removes MCP servers%s\n\n", colorYellow+colorBold, colorReset)
	for _, c := range changes {
		fmt.Fprintf(p.w, "  %s%s%s would lose: %s\n",
			colorBold, c.App, colorReset, strings.Join(c.LostServers, ", "))
		if len(c.RemainingServers) > 0 {
			fmt.Fprintf(p.w, "    after sync: %s\n", strings.Join(c.RemainingServers, ", "))
		}
	}
	fmt.Fprintf(p.w, "\nProceed? [y/N]: ")

	reader := bufio.NewReader(p.r)
	response, err := reader.ReadString('\n')
	if err != nil {
		return false
	}

	response = strings.TrimSpace(strings.ToLower(response))
	return response == "y" || response == "yes"
}
