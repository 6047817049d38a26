package rewrite

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/jedib0t/go-pretty/v6/table"
	"gopkg.in/yaml.v3"
)

// Report formats.
const (
	FormatTable = "table"
	FormatJSON  = "json"
	FormatYAML  = "yaml"
	FormatNone  = "none"
)

// ErrUnknownFormat is returned for report formats other than the ones above.
var ErrUnknownFormat = errors.New("unknown report format")

// Summary aggregates a run.
type Summary struct {
	Files     int   `json:"files" yaml:"files"`
	Changed   int   `json:"changed" yaml:"changed"`
	Unchanged int   `json:"unchanged" yaml:"unchanged"`
	Skipped   int   `json:"skipped" yaml:"skipped"`
	Errors    int   `json:"errors" yaml:"errors"`
	Rewrites  int   `json:"rewrites" yaml:"rewrites"`
	Bytes     int64 `json:"bytes" yaml:"bytes"`
}

// Report is the serialized form of a run.
type Report struct {
	Summary Summary      `json:"summary" yaml:"summary"`
	Files   []FileResult `json:"files" yaml:"files"`
}

// Summarize counts results by outcome.
func Summarize(results []FileResult) Summary {
	summary := Summary{Files: len(results)}

	for idx := range results {
		res := &results[idx]

		summary.Bytes += int64(res.Size)
		summary.Rewrites += len(res.Edits)

		switch {
		case res.Skipped:
			summary.Skipped++
		case res.Err != nil:
			summary.Errors++
		case res.Changed:
			summary.Changed++
		default:
			summary.Unchanged++
		}
	}

	return summary
}

// WriteReport writes results to w in the given format.
func WriteReport(w io.Writer, format string, results []FileResult) error {
	report := Report{Summary: Summarize(results), Files: results}

	switch format {
	case FormatNone:
		return nil
	case FormatTable:
		_, err := io.WriteString(w, renderTable(report)+"\n")
		if err != nil {
			return fmt.Errorf("write table report: %w", err)
		}

		return nil
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")

		err := enc.Encode(report)
		if err != nil {
			return fmt.Errorf("encode json report: %w", err)
		}

		return nil
	case FormatYAML:
		enc := yaml.NewEncoder(w)
		defer enc.Close()

		err := enc.Encode(report)
		if err != nil {
			return fmt.Errorf("encode yaml report: %w", err)
		}

		return nil
	default:
		return fmt.Errorf("%w: %s", ErrUnknownFormat, format)
	}
}

func renderTable(report Report) string {
	tbl := table.NewWriter()
	tbl.SetStyle(table.StyleLight)
	tbl.Style().Options.SeparateRows = false

	tbl.AppendHeader(table.Row{"File", "Language", "Status", "Rewrites", "Size", "Time"})

	for idx := range report.Files {
		res := &report.Files[idx]

		status := res.Status()
		if res.Written {
			status = "written"
		}

		tbl.AppendRow(table.Row{
			res.Path,
			res.Language,
			status,
			strconv.Itoa(len(res.Edits)),
			humanize.Bytes(uint64(res.Size)),
			res.Duration.Round(time.Microsecond).String(),
		})
	}

	summary := report.Summary
	tbl.AppendFooter(table.Row{
		fmt.Sprintf("Total: %d files", summary.Files),
		"",
		fmt.Sprintf("%d changed, %d skipped, %d errors", summary.Changed, summary.Skipped, summary.Errors),
		strconv.Itoa(summary.Rewrites),
		humanize.Bytes(uint64(summary.Bytes)),
		"",
	})

	return tbl.Render()
}
