package javascript

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ZacxDev/nolan-sites/config"
)

func TestCompileJSTarget(t *testing.T) {
	src := filepath.Join(t.TempDir(), "greet.js")
	require.NoError(t, os.WriteFile(src, []byte("const who = 'world';\nconsole.log('hello ' + who);\n"), 0o644))

	outRoot := filepath.Join(t.TempDir(), ".assets")
	emitted, err := CompileJSTarget(map[string]config.JavascriptTarget{
		"greet": {Source: src, OutDir: "static/js"},
	}, outRoot)
	require.NoError(t, err)

	public := emitted["greet"]
	require.True(t, strings.HasPrefix(public, "/static/js/greet_"), public)
	require.True(t, strings.HasSuffix(public, ".js"), public)

	script, err := os.ReadFile(filepath.Join(outRoot, filepath.FromSlash(public)))
	require.NoError(t, err)
	assert.Contains(t, string(script), "hello")
	assert.Contains(t, string(script), "//# sourceMappingURL="+filepath.Base(public)+".map")

	assert.FileExists(t, filepath.Join(outRoot, filepath.FromSlash(public)+".map"))
}

func TestCompileJSTargetError(t *testing.T) {
	_, err := CompileJSTarget(map[string]config.JavascriptTarget{
		"missing": {Source: filepath.Join(t.TempDir(), "nope.js"), OutDir: "static/js"},
	}, t.TempDir())
	assert.Error(t, err)
}
