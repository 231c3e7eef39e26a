package env

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tracehq/trace-cli/internal/crypto"
)

// unset clears names for the duration of the test and restores them afterwards.
func unset(t *testing.T, names ...string) {
	t.Helper()
	for _, name := range names {
		prev, ok := os.LookupEnv(name)
		require.NoError(t, os.Unsetenv(name))
		t.Cleanup(func() {
			if ok {
				os.Setenv(name, prev)
			} else {
				os.Unsetenv(name)
			}
		})
	}
}

const dotenv = `# connection settings
TRACE_TEST_HOST=db.internal
TRACE_TEST_USER="analyst"
TRACE_TEST_KEEP=from-file
`

func TestParse(t *testing.T) {
	vals, err := Parse([]byte(dotenv))
	require.NoError(t, err)
	assert.Equal(t, map[string]string{
		"TRACE_TEST_HOST": "db.internal",
		"TRACE_TEST_USER": "analyst",
		"TRACE_TEST_KEEP": "from-file",
	}, vals)
}

func TestLoadWalksParents(t *testing.T) {
	unset(t, "TRACE_TEST_HOST", "TRACE_TEST_USER", "TRACE_TEST_KEEP")
	t.Setenv("TRACE_TEST_KEEP", "from-env")

	root := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(root, ".env"), []byte(dotenv), 0o600))
	nested := filepath.Join(root, "a", "b")
	require.NoError(t, os.MkdirAll(nested, 0o700))
	t.Chdir(nested)

	path, loaded, err := Load(DefaultFile)
	require.NoError(t, err)
	assert.True(t, loaded)
	want, err := filepath.EvalSymlinks(filepath.Join(root, ".env"))
	require.NoError(t, err)
	got, err := filepath.EvalSymlinks(path)
	require.NoError(t, err)
	assert.Equal(t, want, got)

	assert.Equal(t, "db.internal", os.Getenv("TRACE_TEST_HOST"))
	assert.Equal(t, "analyst", os.Getenv("TRACE_TEST_USER"))
	assert.Equal(t, "from-env", os.Getenv("TRACE_TEST_KEEP"), "existing variables win")
}

func TestLoadNotFound(t *testing.T) {
	t.Chdir(t.TempDir())
	_, loaded, err := Load("does-not-exist.env")
	require.NoError(t, err)
	assert.False(t, loaded)
}

func TestLoadEncrypted(t *testing.T) {
	unset(t, "TRACE_TEST_HOST", "TRACE_TEST_USER", "TRACE_TEST_KEEP")

	sealed, err := crypto.Seal([]byte(dotenv), "pass")
	require.NoError(t, err)
	path := filepath.Join(t.TempDir(), ".env"+SealedSuffix)
	require.NoError(t, os.WriteFile(path, []byte(sealed), 0o600))

	require.Error(t, LoadEncrypted(path, "nope"))
	_, set := os.LookupEnv("TRACE_TEST_HOST")
	assert.False(t, set)

	require.NoError(t, LoadEncrypted(path, "pass"))
	assert.Equal(t, "db.internal", os.Getenv("TRACE_TEST_HOST"))
}

func TestRequired(t *testing.T) {
	unset(t, "TRACE_TEST_MISSING")
	t.Setenv("TRACE_TEST_EMPTY", "")

	_, err := Required("TRACE_TEST_MISSING", "API key")
	require.Error(t, err)
	assert.True(t, IsMissing(err))
	assert.EqualError(t, err, `required environment variable "TRACE_TEST_MISSING" is not set (API key)`)

	v, err := Required("TRACE_TEST_EMPTY", "")
	require.NoError(t, err)
	assert.Empty(t, v)
}

func TestOptionalBoolInt(t *testing.T) {
	unset(t, "TRACE_TEST_UNSET")
	assert.Equal(t, "fallback", Optional("TRACE_TEST_UNSET", "fallback"))
	assert.True(t, Bool("TRACE_TEST_UNSET", true))
	assert.Equal(t, 7, Int("TRACE_TEST_UNSET", 7))

	for _, v := range []string{"true", "1", "YES", "On"} {
		t.Setenv("TRACE_TEST_BOOL", v)
		assert.True(t, Bool("TRACE_TEST_BOOL", false), v)
	}
	t.Setenv("TRACE_TEST_BOOL", "nah")
	assert.False(t, Bool("TRACE_TEST_BOOL", true))

	t.Setenv("TRACE_TEST_INT", " 42 ")
	assert.Equal(t, 42, Int("TRACE_TEST_INT", 0))
	t.Setenv("TRACE_TEST_INT", "forty")
	assert.Equal(t, 3, Int("TRACE_TEST_INT", 3))
}

func TestCheck(t *testing.T) {
	unset(t, "TRACE_TEST_A", "TRACE_TEST_B", "TRACE_TEST_OPT")
	t.Setenv("TRACE_TEST_HOST", "h")

	_, err := Check([]string{"TRACE_TEST_HOST", "TRACE_TEST_A", "TRACE_TEST_B"}, nil)
	var missing *MissingError
	require.ErrorAs(t, err, &missing)
	assert.Equal(t, []string{"TRACE_TEST_A", "TRACE_TEST_B"}, missing.Names)
	assert.Contains(t, err.Error(), "TRACE_TEST_A, TRACE_TEST_B")

	vals, err := Check([]string{"TRACE_TEST_HOST"}, []string{"TRACE_TEST_OPT"})
	require.NoError(t, err)
	assert.Equal(t, map[string]string{"TRACE_TEST_HOST": "h", "TRACE_TEST_OPT": ""}, vals)
}

func TestMaskSecret(t *testing.T) {
	assert.Equal(t, "****1234", MaskSecret("abcd1234", 4))
	assert.Equal(t, "***", MaskSecret("abc", 4))
	assert.Equal(t, "", MaskSecret("", 4))
}

func TestMaskKey(t *testing.T) {
	assert.Equal(t, "(not set)", MaskKey(""))
	assert.Equal(t, "*****", MaskKey("short"))
	assert.Equal(t, "sk_test*****wxyz", MaskKey("sk_test_abcdwxyz"))
}
