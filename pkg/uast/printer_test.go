package uast_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sheinsight/lockmodule/pkg/uast"
	"github.com/sheinsight/lockmodule/pkg/uast/pkg/node"
)

func TestPrint_Untouched(t *testing.T) {
	t.Parallel()

	code := "import 'a/b';\nimport x from \"a/c\";\n"
	root := parse(t, "main.js", code)

	out, edits, err := uast.Print([]byte(code), root)
	require.NoError(t, err)
	assert.Empty(t, edits)
	assert.Equal(t, code, string(out))
}

func TestPrint_RewrittenLiteralKeepsQuotes(t *testing.T) {
	t.Parallel()

	code := "import 'a/b';\nimport \"a/c\";\nimport x from 'a/d';\n"
	root := parse(t, "main.js", code)

	decls := imports(root)
	require.Len(t, decls, 3)
	decls[0].ImportSource().SetLiteralValue("x/b")
	decls[1].ImportSource().SetLiteralValue("it's/c")

	out, edits, err := uast.Print([]byte(code), root)
	require.NoError(t, err)
	assert.Equal(t, "import 'x/b';\nimport \"it's/c\";\nimport x from 'a/d';\n", string(out))

	require.Len(t, edits, 2)
	assert.Equal(t, `'a/b'`, edits[0].Before)
	assert.Equal(t, `'x/b'`, edits[0].After)
	assert.Equal(t, uint(1), edits[0].Line)
	assert.Equal(t, uint(2), edits[1].Line)
}

func TestPrint_SameValueProducesNoEdit(t *testing.T) {
	t.Parallel()

	code := `import "a/b";`
	root := parse(t, "main.js", code)

	src := imports(root)[0].ImportSource()
	src.SetLiteralValue(src.Token)

	out, edits, err := uast.Print([]byte(code), root)
	require.NoError(t, err)
	assert.Empty(t, edits)
	assert.Equal(t, code, string(out))
}

func TestPrint_LoneSurrogateLiteralIsNotASource(t *testing.T) {
	t.Parallel()

	code := `import "a/\uD800";`
	root := parse(t, "main.js", code)

	decls := imports(root)
	require.Len(t, decls, 1)
	assert.Nil(t, decls[0].ImportSource())

	out, edits, err := uast.Print([]byte(code), root)
	require.NoError(t, err)
	assert.Empty(t, edits)
	assert.Equal(t, code, string(out))
}

func TestPrint_InvalidSpan(t *testing.T) {
	t.Parallel()

	lit := node.NewBuilder().
		WithType(node.UASTLiteral).
		WithToken("x").
		WithRoles(node.RoleSource).
		WithPosition(node.NewPositions(1, 1, 40, 1, 45, 45)).
		Build()
	root := node.NewBuilder().WithType(node.UASTFile).WithChildren(
		node.NewBuilder().WithType(node.UASTImport).WithChildren(lit).Build(),
	).Build()

	_, _, err := uast.Print([]byte(`import "a";`), root)
	require.ErrorIs(t, err, uast.ErrInvalidSpan)
}
