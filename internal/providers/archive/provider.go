// Package archive packs the log directory into compressed tarballs stored
// under the VFS root.
package archive

import (
	"archive/tar"
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zstd"

	"github.com/tamaos/tamaos/internal/types"
)

// archiveDir is the subdirectory of the VFS root holding archives.
const archiveDir = "archives"

// Provider implements log archiving.
type Provider struct {
	vfsRoot string
	logRoot string
	now     func() time.Time
}

// NewProvider creates an archive provider reading logRoot and writing
// under vfsRoot.
func NewProvider(vfsRoot, logRoot string) *Provider {
	return &Provider{vfsRoot: vfsRoot, logRoot: logRoot, now: time.Now}
}

// Definition returns service metadata.
func (p *Provider) Definition() types.Service {
	return types.Service{
		ID:          "archive",
		Name:        "Log Archiver",
		Description: "Pack the log directory into tar.gz or tar.zst archives",
		Category:    types.CategorySystem,
		Capabilities: []string{
			"pack",
			"list",
		},
		Tools: []types.Tool{
			{
				ID:          "archive.logs",
				Name:        "Archive Logs",
				Description: "Create a compressed tarball of the log directory",
				Parameters: []types.Parameter{
					{Name: "codec", Type: "string", Description: "gzip (default) or zstd", Required: false},
				},
				Returns: "object",
			},
			{
				ID:          "archive.list",
				Name:        "List Archives",
				Description: "List previously created archives",
				Returns:     "array",
			},
		},
	}
}

// Execute runs an archive operation.
func (p *Provider) Execute(ctx context.Context, toolID string, params map[string]interface{}) (*types.Result, error) {
	switch toolID {
	case "archive.logs":
		return p.pack(ctx, params)
	case "archive.list":
		return p.list()
	default:
		return types.Failure(fmt.Sprintf("unknown tool: %s", toolID)), nil
	}
}

func (p *Provider) pack(ctx context.Context, params map[string]interface{}) (*types.Result, error) {
	codec := "gzip"
	if raw, ok := params["codec"]; ok {
		if s, ok := raw.(string); ok && s != "" {
			codec = s
		}
	}

	ext, ok := map[string]string{"gzip": "tar.gz", "zstd": "tar.zst"}[codec]
	if !ok {
		return types.Failure(fmt.Sprintf("unsupported codec: %s", codec)), nil
	}

	outDir := filepath.Join(p.vfsRoot, archiveDir)
	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return types.Failure(fmt.Sprintf("archive failed: %v", err)), nil
	}

	name := fmt.Sprintf("logs-%s.%s", p.now().UTC().Format("20060102T150405Z"), ext)
	outPath := filepath.Join(outDir, name)

	files, err := p.writeTarball(ctx, outPath, codec)
	if err != nil {
		os.Remove(outPath)
		return types.Failure(fmt.Sprintf("archive failed: %v", err)), nil
	}

	info, err := os.Stat(outPath)
	if err != nil {
		return types.Failure(fmt.Sprintf("archive failed: %v", err)), nil
	}

	return types.Success(map[string]interface{}{
		"path":  outPath,
		"files": files,
		"bytes": info.Size(),
		"codec": codec,
	}), nil
}

func (p *Provider) writeTarball(ctx context.Context, outPath, codec string) (int, error) {
	out, err := os.Create(outPath)
	if err != nil {
		return 0, err
	}
	defer out.Close()

	var compressor io.WriteCloser
	switch codec {
	case "gzip":
		compressor = gzip.NewWriter(out)
	case "zstd":
		zw, err := zstd.NewWriter(out)
		if err != nil {
			return 0, err
		}
		compressor = zw
	}

	tw := tar.NewWriter(compressor)
	files := 0

	walkErr := filepath.WalkDir(p.logRoot, func(path string, d os.DirEntry, err error) error {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}
		if err != nil || d.IsDir() {
			return err
		}

		info, err := d.Info()
		if err != nil {
			return err
		}
		rel, err := filepath.Rel(p.logRoot, path)
		if err != nil {
			return err
		}

		hdr, err := tar.FileInfoHeader(info, "")
		if err != nil {
			return err
		}
		hdr.Name = filepath.ToSlash(rel)
		if err := tw.WriteHeader(hdr); err != nil {
			return err
		}

		f, err := os.Open(path)
		if err != nil {
			return err
		}
		_, err = io.Copy(tw, f)
		f.Close()
		if err != nil {
			return err
		}

		files++
		return nil
	})
	if walkErr != nil {
		tw.Close()
		compressor.Close()
		return files, walkErr
	}

	if err := tw.Close(); err != nil {
		compressor.Close()
		return files, err
	}
	return files, compressor.Close()
}

func (p *Provider) list() (*types.Result, error) {
	outDir := filepath.Join(p.vfsRoot, archiveDir)
	entries, err := os.ReadDir(outDir)
	if err != nil {
		if os.IsNotExist(err) {
			return types.Success(map[string]interface{}{"archives": []interface{}{}, "count": 0}), nil
		}
		return types.Failure(fmt.Sprintf("list failed: %v", err)), nil
	}

	archives := make([]interface{}, 0, len(entries))
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		if !e.IsDir() {
			names = append(names, e.Name())
		}
	}
	sort.Strings(names)
	for _, name := range names {
		info, err := os.Stat(filepath.Join(outDir, name))
		if err != nil {
			continue
		}
		archives = append(archives, map[string]interface{}{
			"name":  name,
			"bytes": info.Size(),
			"mtime": info.ModTime().Unix(),
		})
	}

	return types.Success(map[string]interface{}{"archives": archives, "count": len(archives)}), nil
}
