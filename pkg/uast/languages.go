package uast

import (
	"path/filepath"
	"strings"
	"sync"
	"unsafe"

	sitter "github.com/alexaandru/go-tree-sitter-bare"
	"github.com/src-d/enry/v2"

	"github.com/alexaandru/go-sitter-forest/javascript"
	"github.com/alexaandru/go-sitter-forest/tsx"
	"github.com/alexaandru/go-sitter-forest/typescript"
)

// Supported grammar names.
const (
	LangJavaScript = "javascript"
	LangTypeScript = "typescript"
	LangTSX        = "tsx"
)

// languageFuncs maps grammar names to their tree-sitter GetLanguage functions.
//
//nolint:gochecknoglobals // static grammar registry.
var languageFuncs = map[string]func() unsafe.Pointer{
	LangJavaScript: javascript.GetLanguage,
	LangTypeScript: typescript.GetLanguage,
	LangTSX:        tsx.GetLanguage,
}

// extensionLanguages maps lowercase file extensions to grammar names.
//
//nolint:gochecknoglobals // static extension table.
var extensionLanguages = map[string]string{
	".js":  LangJavaScript,
	".mjs": LangJavaScript,
	".cjs": LangJavaScript,
	".jsx": LangJavaScript,
	".ts":  LangTypeScript,
	".mts": LangTypeScript,
	".cts": LangTypeScript,
	".tsx": LangTSX,
}

// enryLanguages maps linguist language names to grammar names.
//
//nolint:gochecknoglobals // static alias table.
var enryLanguages = map[string]string{
	"JavaScript": LangJavaScript,
	"TypeScript": LangTypeScript,
	"TSX":        LangTSX,
}

var languageCache sync.Map

// GetLanguage returns the tree-sitter Language for the given name, or nil if not supported.
func GetLanguage(name string) *sitter.Language {
	if cached, ok := languageCache.Load(name); ok {
		lang, castOK := cached.(*sitter.Language)
		if castOK {
			return lang
		}
	}

	fn, ok := languageFuncs[name]
	if !ok {
		return nil
	}

	lang := sitter.NewLanguage(fn())
	languageCache.Store(name, lang)

	return lang
}

// Extensions returns the file extensions with a known grammar.
func Extensions() []string {
	exts := make([]string, 0, len(extensionLanguages))
	for ext := range extensionLanguages {
		exts = append(exts, ext)
	}

	return exts
}

// DetectLanguage picks a grammar for a file. The extension decides when it is
// known; otherwise enry classifies the file from its name and content.
// It returns "" when no grammar applies.
func DetectLanguage(filename string, content []byte) string {
	ext := strings.ToLower(filepath.Ext(filename))
	if lang, ok := extensionLanguages[ext]; ok {
		return lang
	}

	return enryLanguages[enry.GetLanguage(filepath.Base(filename), content)]
}

// NormalizeLanguage maps user supplied language names ("js", "TypeScript",
// "tsx") to grammar names. It returns "" for unknown names.
func NormalizeLanguage(name string) string {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "js", "jsx", "mjs", "cjs", LangJavaScript:
		return LangJavaScript
	case "ts", "mts", "cts", LangTypeScript:
		return LangTypeScript
	case LangTSX:
		return LangTSX
	default:
		return ""
	}
}
