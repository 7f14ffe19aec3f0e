package archive

import (
	"archive/tar"
	"context"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zstd"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seedLogs(t *testing.T) (vfsRoot, logRoot string) {
	t.Helper()
	vfsRoot = t.TempDir()
	logRoot = t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(logRoot, "tamad.log"), []byte("boot ok\n"), 0o644))
	require.NoError(t, os.MkdirAll(filepath.Join(logRoot, "old"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(logRoot, "old", "tamad.1.log"), []byte("older\n"), 0o644))
	return vfsRoot, logRoot
}

func tarNames(t *testing.T, r io.Reader) []string {
	t.Helper()
	tr := tar.NewReader(r)
	var names []string
	for {
		hdr, err := tr.Next()
		if err == io.EOF {
			break
		}
		require.NoError(t, err)
		names = append(names, hdr.Name)
	}
	return names
}

func TestPackGzip(t *testing.T) {
	vfsRoot, logRoot := seedLogs(t)
	p := NewProvider(vfsRoot, logRoot)

	result, err := p.Execute(context.Background(), "archive.logs", nil)
	require.NoError(t, err)
	require.True(t, result.Success, "pack: %v", result.Error)
	assert.Equal(t, 2, result.Data["files"])

	f, err := os.Open(result.Data["path"].(string))
	require.NoError(t, err)
	defer f.Close()
	gz, err := gzip.NewReader(f)
	require.NoError(t, err)

	assert.ElementsMatch(t, []string{"tamad.log", "old/tamad.1.log"}, tarNames(t, gz))
}

func TestPackZstd(t *testing.T) {
	vfsRoot, logRoot := seedLogs(t)
	p := NewProvider(vfsRoot, logRoot)

	result, err := p.Execute(context.Background(), "archive.logs",
		map[string]interface{}{"codec": "zstd"})
	require.NoError(t, err)
	require.True(t, result.Success, "pack: %v", result.Error)

	f, err := os.Open(result.Data["path"].(string))
	require.NoError(t, err)
	defer f.Close()
	zr, err := zstd.NewReader(f)
	require.NoError(t, err)
	defer zr.Close()

	assert.Len(t, tarNames(t, zr), 2)
}

func TestPackUnsupportedCodec(t *testing.T) {
	vfsRoot, logRoot := seedLogs(t)
	p := NewProvider(vfsRoot, logRoot)

	result, err := p.Execute(context.Background(), "archive.logs",
		map[string]interface{}{"codec": "lz4"})
	require.NoError(t, err)
	assert.False(t, result.Success)
}

func TestListEmpty(t *testing.T) {
	p := NewProvider(t.TempDir(), t.TempDir())

	result, err := p.Execute(context.Background(), "archive.list", nil)
	require.NoError(t, err)
	require.True(t, result.Success)
	assert.Equal(t, 0, result.Data["count"])
}

func TestListAfterPack(t *testing.T) {
	vfsRoot, logRoot := seedLogs(t)
	p := NewProvider(vfsRoot, logRoot)

	_, err := p.Execute(context.Background(), "archive.logs", nil)
	require.NoError(t, err)

	result, err := p.Execute(context.Background(), "archive.list", nil)
	require.NoError(t, err)
	require.True(t, result.Success)
	assert.Equal(t, 1, result.Data["count"])
}
