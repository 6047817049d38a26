package rewrite_test

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sheinsight/lockmodule/pkg/rewrite"
)

func TestUnifiedDiff_Equal(t *testing.T) {
	t.Parallel()

	assert.Empty(t, rewrite.UnifiedDiff("a.js", []byte("x\n"), []byte("x\n")))
}

func TestUnifiedDiff_SingleLine(t *testing.T) {
	t.Parallel()

	before := "import 'a/b';\nconsole.log(1);\n"
	after := "import 'x/b';\nconsole.log(1);\n"

	want := "--- a/main.js\n" +
		"+++ b/main.js\n" +
		"@@ -1,2 +1,2 @@\n" +
		"-import 'a/b';\n" +
		"+import 'x/b';\n" +
		" console.log(1);\n"

	assert.Equal(t, want, rewrite.UnifiedDiff("main.js", []byte(before), []byte(after)))
}

func TestUnifiedDiff_SeparateHunks(t *testing.T) {
	t.Parallel()

	lines := make([]string, 20)
	for idx := range lines {
		lines[idx] = "// line\n"
	}

	lines[0] = "import 'a/top';\n"
	lines[19] = "import 'a/bottom';\n"
	before := strings.Join(lines, "")

	lines[0] = "import 'x/top';\n"
	lines[19] = "import 'x/bottom';\n"
	after := strings.Join(lines, "")

	diff := rewrite.UnifiedDiff("big.js", []byte(before), []byte(after))

	assert.Equal(t, 2, strings.Count(diff, "@@ -"))
	assert.Contains(t, diff, "@@ -1,4 +1,4 @@\n")
	assert.Contains(t, diff, "@@ -17,4 +17,4 @@\n")
}

func TestUnifiedDiff_NoTrailingNewline(t *testing.T) {
	t.Parallel()

	diff := rewrite.UnifiedDiff("a.js", []byte(`import "a";`), []byte(`import "x";`))

	assert.Equal(t, "--- a/a.js\n+++ b/a.js\n@@ -1,1 +1,1 @@\n"+
		"-import \"a\";\n\\ No newline at end of file\n"+
		"+import \"x\";\n\\ No newline at end of file\n", diff)
}

func TestWriteDiff(t *testing.T) {
	t.Parallel()

	diff := rewrite.UnifiedDiff("main.js", []byte("import 'a';\n"), []byte("import 'x';\n"))

	var plain bytes.Buffer

	require.NoError(t, rewrite.WriteDiff(&plain, diff, false))
	assert.Equal(t, diff, plain.String())

	var colored bytes.Buffer

	require.NoError(t, rewrite.WriteDiff(&colored, diff, true))
	assert.Contains(t, colored.String(), "\x1b[31m-import 'a';")
	assert.Contains(t, colored.String(), "\x1b[32m+import 'x';")
	assert.Contains(t, colored.String(), "\x1b[36m@@ -1,1 +1,1 @@")
}
