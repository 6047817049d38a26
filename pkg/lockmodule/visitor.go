package lockmodule

import (
	"strings"

	"github.com/sheinsight/lockmodule/pkg/uast/pkg/node"
)

// ImportRewriter rewrites the module path of side-effect-only imports.
// A nil Config leaves every import untouched.
type ImportRewriter struct {
	Config *Config
}

// Visit walks program top-down once and rewrites every eligible import in
// document order. Only nodes of type Import are inspected.
func (rewriter *ImportRewriter) Visit(program *node.Node) {
	program.VisitPreOrder(func(curr *node.Node) {
		if curr.IsImport() {
			rewriter.VisitImport(curr)
		}
	})
}

// VisitImport applies the rewrite to a single import declaration.
func (rewriter *ImportRewriter) VisitImport(importDecl *node.Node) {
	cfg := rewriter.Config
	if cfg == nil || !cfg.Enable {
		return
	}

	if len(importDecl.ImportSpecifiers()) > 0 {
		return
	}

	src := importDecl.ImportSource()
	if src == nil {
		return
	}

	// The replacement is installed even when nothing matched, like a freshly
	// built string literal would be.
	src.SetLiteralValue(rewritePath(src.Token, cfg.Source, cfg.Target))
}

// rewritePath replaces every non-overlapping occurrence of source in path.
// An empty source matches nothing.
func rewritePath(path, source, target string) string {
	if source == "" {
		return path
	}

	return strings.ReplaceAll(path, source, target)
}
