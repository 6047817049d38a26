// Package uast parses JavaScript and TypeScript sources into the canonical
// program tree and prints rewritten trees back to source.
package uast

import (
	"context"
	"errors"
	"fmt"
	"sync"

	sitter "github.com/alexaandru/go-tree-sitter-bare"

	"github.com/sheinsight/lockmodule/pkg/uast/pkg/node"
)

// Sentinel errors for parser operations.
var (
	ErrUnsupportedLanguage  = errors.New("no parser found for file")
	ErrSyntax               = errors.New("syntax error")
	errLanguageNotAvailable = errors.New("tree-sitter language not available")
	errNoRootNode           = errors.New("parser: no root node")
	errPoolType             = errors.New("parser: pool returned unexpected type")
)

// Parser turns source files into program trees. It is safe for concurrent
// use: every grammar keeps a pool of tree-sitter parsers.
type Parser struct {
	mu    sync.Mutex
	pools map[string]*sync.Pool
}

// NewParser creates a Parser for the supported grammars.
func NewParser() (*Parser, error) {
	return &Parser{pools: make(map[string]*sync.Pool, len(languageFuncs))}, nil
}

// IsSupported returns true if a grammar applies to the given filename.
func (parser *Parser) IsSupported(filename string) bool {
	return DetectLanguage(filename, nil) != ""
}

// GetLanguage returns the grammar name for the given file, or "".
func (parser *Parser) GetLanguage(filename string, content []byte) string {
	return DetectLanguage(filename, content)
}

// Parse parses a file and returns its program tree. The grammar is picked
// from the file name and content.
func (parser *Parser) Parse(ctx context.Context, filename string, content []byte) (*node.Node, error) {
	lang := DetectLanguage(filename, content)
	if lang == "" {
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedLanguage, filename)
	}

	return parser.ParseLanguage(ctx, lang, content)
}

// ParseLanguage parses content with the named grammar.
func (parser *Parser) ParseLanguage(ctx context.Context, lang string, content []byte) (*node.Node, error) {
	pool, err := parser.pool(lang)
	if err != nil {
		return nil, err
	}

	tsParser, ok := pool.Get().(*sitter.Parser)
	if !ok {
		return nil, errPoolType
	}

	defer pool.Put(tsParser)

	tree, err := tsParser.ParseString(ctx, nil, content)
	if err != nil {
		return nil, fmt.Errorf("parser: failed to parse: %w", err)
	}
	defer tree.Close()

	root := tree.RootNode()
	if root.IsNull() {
		return nil, errNoRootNode
	}

	if root.HasError() {
		point := firstErrorPoint(root)

		return nil, fmt.Errorf("%w at line %d, column %d", ErrSyntax, point.Row+1, point.Column+1)
	}

	conv := &converter{source: content}
	program := conv.convert(root)
	program.Props = map[string]string{node.PropLanguage: lang}

	return program, nil
}

// firstErrorPoint returns the start of the first ERROR or MISSING node below
// root in document order, or the start of root when none is found.
func firstErrorPoint(root sitter.Node) sitter.Point {
	stack := []sitter.Node{root}

	for len(stack) > 0 {
		curr := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		if curr.IsError() || curr.IsMissing() {
			return curr.StartPoint()
		}

		if !curr.HasError() {
			continue
		}

		for idx := int(curr.ChildCount()) - 1; idx >= 0; idx-- {
			stack = append(stack, curr.Child(uint32(idx)))
		}
	}

	return root.StartPoint()
}

func (parser *Parser) pool(lang string) (*sync.Pool, error) {
	parser.mu.Lock()
	defer parser.mu.Unlock()

	if pool, ok := parser.pools[lang]; ok {
		return pool, nil
	}

	tsLang := GetLanguage(lang)
	if tsLang == nil {
		return nil, fmt.Errorf("%w: %s", errLanguageNotAvailable, lang)
	}

	pool := &sync.Pool{
		New: func() any {
			tsParser := sitter.NewParser()
			tsParser.SetLanguage(tsLang)

			return tsParser
		},
	}
	parser.pools[lang] = pool

	return pool, nil
}
