package utils_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/KaramelBytes/tabloom-cli/internal/utils"
)

func TestSafeWriteFileReplacesContent(t *testing.T) {
	dir := t.TempDir()
	p := filepath.Join(dir, "out.csv")
	require.NoError(t, utils.SafeWriteFile(p, []byte("first")))
	require.NoError(t, utils.SafeWriteFile(p, []byte("second")))

	b, err := os.ReadFile(p)
	require.NoError(t, err)
	assert.Equal(t, "second", string(b))

	_, err = os.Stat(p + ".tmp")
	assert.True(t, os.IsNotExist(err), "temp file should be renamed away")
}

func TestSafeWriteFileMissingDir(t *testing.T) {
	p := filepath.Join(t.TempDir(), "nope", "out.csv")
	err := utils.SafeWriteFile(p, []byte("x"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "write temp file")
}

func TestEnsureDirAndPrettyJSON(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "a", "b")
	require.NoError(t, utils.EnsureDir(dir))
	info, err := os.Stat(dir)
	require.NoError(t, err)
	assert.True(t, info.IsDir())

	b, err := utils.PrettyJSON(map[string]int{"id": 1})
	require.NoError(t, err)
	assert.Equal(t, "{\n  \"id\": 1\n}", string(b))

	_, err = utils.PrettyJSON(func() {})
	assert.Error(t, err)
}
