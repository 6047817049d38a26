package rewrite

import (
	"bytes"
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
	"github.com/sergi/go-diff/diffmatchpatch"
)

// diffContext is the number of unchanged lines shown around each change.
const diffContext = 3

const noNewlineMarker = "\\ No newline at end of file\n"

type diffLine struct {
	text    string
	op      byte
	oldLine int
	newLine int
}

// UnifiedDiff renders the line diff between before and after in unified
// format. Equal inputs produce an empty string.
func UnifiedDiff(path string, before, after []byte) string {
	if bytes.Equal(before, after) {
		return ""
	}

	dmp := diffmatchpatch.New()
	srcChars, dstChars, lineArray := dmp.DiffLinesToChars(string(before), string(after))
	diffs := dmp.DiffCharsToLines(dmp.DiffMain(srcChars, dstChars, false), lineArray)

	lines := flattenDiffs(diffs)

	var out strings.Builder

	fmt.Fprintf(&out, "--- a/%s\n+++ b/%s\n", path, path)

	for _, hunk := range hunks(lines) {
		writeHunk(&out, lines[hunk[0]:hunk[1]])
	}

	return out.String()
}

func flattenDiffs(diffs []diffmatchpatch.Diff) []diffLine {
	var (
		lines            []diffLine
		oldLine, newLine = 1, 1
	)

	for _, diff := range diffs {
		for _, text := range splitLines(diff.Text) {
			entry := diffLine{text: text, oldLine: oldLine, newLine: newLine}

			switch diff.Type {
			case diffmatchpatch.DiffDelete:
				entry.op = '-'
				oldLine++
			case diffmatchpatch.DiffInsert:
				entry.op = '+'
				newLine++
			case diffmatchpatch.DiffEqual:
				entry.op = ' '
				oldLine++
				newLine++
			}

			lines = append(lines, entry)
		}
	}

	return lines
}

func splitLines(text string) []string {
	parts := strings.SplitAfter(text, "\n")
	if len(parts) > 0 && parts[len(parts)-1] == "" {
		parts = parts[:len(parts)-1]
	}

	return parts
}

// hunks returns [start, end) ranges over lines, each covering a run of
// changes plus their context. Runs closer than twice the context are merged.
func hunks(lines []diffLine) [][2]int {
	var ranges [][2]int

	for idx, line := range lines {
		if line.op == ' ' {
			continue
		}

		start := max(idx-diffContext, 0)
		end := min(idx+diffContext+1, len(lines))

		if last := len(ranges) - 1; last >= 0 && start <= ranges[last][1] {
			ranges[last][1] = end

			continue
		}

		ranges = append(ranges, [2]int{start, end})
	}

	return ranges
}

func writeHunk(out *strings.Builder, lines []diffLine) {
	oldStart, newStart := lines[0].oldLine, lines[0].newLine
	oldCount, newCount := 0, 0

	for _, line := range lines {
		if line.op != '+' {
			oldCount++
		}

		if line.op != '-' {
			newCount++
		}
	}

	// Empty ranges point at the line before, as in diff -u.
	if oldCount == 0 {
		oldStart--
	}

	if newCount == 0 {
		newStart--
	}

	fmt.Fprintf(out, "@@ -%d,%d +%d,%d @@\n", oldStart, oldCount, newStart, newCount)

	for _, line := range lines {
		out.WriteByte(line.op)
		out.WriteString(line.text)

		if !strings.HasSuffix(line.text, "\n") {
			out.WriteString("\n" + noNewlineMarker)
		}
	}
}

// WriteDiff writes a unified diff to w, colored when colored is set.
func WriteDiff(w io.Writer, diff string, colored bool) error {
	header := color.New(color.Bold)
	hunk := color.New(color.FgCyan)
	removed := color.New(color.FgRed)
	added := color.New(color.FgGreen)

	for _, c := range []*color.Color{header, hunk, removed, added} {
		if colored {
			c.EnableColor()
		} else {
			c.DisableColor()
		}
	}

	for _, line := range splitLines(diff) {
		var paint *color.Color

		switch {
		case strings.HasPrefix(line, "---"), strings.HasPrefix(line, "+++"):
			paint = header
		case strings.HasPrefix(line, "@@"):
			paint = hunk
		case strings.HasPrefix(line, "-"):
			paint = removed
		case strings.HasPrefix(line, "+"):
			paint = added
		}

		var err error
		if paint == nil {
			_, err = io.WriteString(w, line)
		} else {
			_, err = paint.Fprint(w, strings.TrimSuffix(line, "\n"))
			if err == nil {
				_, err = io.WriteString(w, "\n")
			}
		}

		if err != nil {
			return fmt.Errorf("write diff: %w", err)
		}
	}

	return nil
}
