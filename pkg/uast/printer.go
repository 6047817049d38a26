package uast

import (
	"bytes"
	"errors"
	"fmt"
	"slices"

	"github.com/sheinsight/lockmodule/pkg/uast/pkg/node"
)

// ErrInvalidSpan is returned when a rewritten literal does not map onto the
// source it was parsed from.
var ErrInvalidSpan = errors.New("literal span outside source")

// Edit is one literal replacement applied by Print.
type Edit struct {
	Start  uint   `json:"start"`
	End    uint   `json:"end"`
	Line   uint   `json:"line"`
	Before string `json:"before"`
	After  string `json:"after"`
}

// Print re-emits source with every rewritten module path literal of program
// spliced in place. Literals keep the quote character they were written with.
// A literal whose re-quoted text equals the original produces no edit.
func Print(source []byte, program *node.Node) ([]byte, []Edit, error) {
	edits, err := Edits(source, program)
	if err != nil {
		return nil, nil, err
	}

	if len(edits) == 0 {
		return source, nil, nil
	}

	var out bytes.Buffer

	out.Grow(len(source))

	cursor := uint(0)

	for _, edit := range edits {
		out.Write(source[cursor:edit.Start])
		out.WriteString(edit.After)
		cursor = edit.End
	}

	out.Write(source[cursor:])

	return out.Bytes(), edits, nil
}

// Edits computes the replacements Print would apply, ordered by offset.
func Edits(source []byte, program *node.Node) ([]Edit, error) {
	var edits []Edit

	for _, curr := range program.Find(isRewrittenSource) {
		start, end := curr.Pos.StartOffset, curr.Pos.EndOffset
		if start >= end || end > uint(len(source)) {
			return nil, fmt.Errorf("%w: [%d, %d) in %d bytes", ErrInvalidSpan, start, end, len(source))
		}

		before := string(source[start:end])

		after := Quote(curr.Token, source[start])
		if after == before {
			continue
		}

		edits = append(edits, Edit{Start: start, End: end, Line: curr.Pos.StartLine, Before: before, After: after})
	}

	slices.SortFunc(edits, func(left, right Edit) int {
		return int(left.Start) - int(right.Start)
	})

	for idx := 1; idx < len(edits); idx++ {
		if edits[idx].Start < edits[idx-1].End {
			return nil, fmt.Errorf("%w: overlapping literals at %d", ErrInvalidSpan, edits[idx].Start)
		}
	}

	return edits, nil
}

func isRewrittenSource(curr *node.Node) bool {
	return curr.Type == node.UASTLiteral &&
		curr.HasAnyRole(node.RoleSource) &&
		curr.Pos != nil &&
		curr.IsRewritten()
}
