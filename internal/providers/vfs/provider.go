// Package vfs exposes read-only inspection of the VFS root through the
// service registry. All paths are confined to the configured root.
package vfs

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/charlievieth/fastwalk"
	"github.com/gabriel-vasile/mimetype"

	"github.com/tamaos/tamaos/internal/types"
)

// Provider implements VFS inspection operations.
type Provider struct {
	root string
}

// NewProvider creates a VFS provider rooted at root.
func NewProvider(root string) *Provider {
	return &Provider{root: root}
}

// Definition returns service metadata.
func (p *Provider) Definition() types.Service {
	return types.Service{
		ID:          "vfs",
		Name:        "VFS Inspector",
		Description: "Sandboxed listing, metadata, and search over the VFS root",
		Category:    types.CategoryFilesystem,
		Capabilities: []string{
			"list",
			"stat",
			"glob",
			"find",
			"size",
		},
		Tools: []types.Tool{
			{
				ID:          "vfs.list",
				Name:        "List Directory",
				Description: "List entries of a directory under the VFS root",
				Parameters: []types.Parameter{
					{Name: "path", Type: "string", Description: "Directory path relative to root", Required: false},
				},
				Returns: "array",
			},
			{
				ID:          "vfs.stat",
				Name:        "File Stats",
				Description: "File metadata with MIME type detection",
				Parameters: []types.Parameter{
					{Name: "path", Type: "string", Description: "File path relative to root", Required: true},
				},
				Returns: "object",
			},
			{
				ID:          "vfs.glob",
				Name:        "Glob",
				Description: "Glob with ** patterns (gitignore-style)",
				Parameters: []types.Parameter{
					{Name: "pattern", Type: "string", Description: "Glob pattern (e.g., '**/*.json')", Required: true},
				},
				Returns: "array",
			},
			{
				ID:          "vfs.find",
				Name:        "Find Files",
				Description: "Find files by name pattern (fast recursive walk)",
				Parameters: []types.Parameter{
					{Name: "pattern", Type: "string", Description: "File name pattern (e.g., '*.json')", Required: true},
				},
				Returns: "array",
			},
			{
				ID:          "vfs.size",
				Name:        "Tree Size",
				Description: "Total size in bytes of the VFS root or a subtree",
				Parameters: []types.Parameter{
					{Name: "path", Type: "string", Description: "Subtree path relative to root", Required: false},
				},
				Returns: "object",
			},
		},
	}
}

// Execute runs a VFS operation.
func (p *Provider) Execute(ctx context.Context, toolID string, params map[string]interface{}) (*types.Result, error) {
	switch toolID {
	case "vfs.list":
		return p.list(params)
	case "vfs.stat":
		return p.stat(params)
	case "vfs.glob":
		return p.glob(params)
	case "vfs.find":
		return p.find(ctx, params)
	case "vfs.size":
		return p.size(ctx, params)
	default:
		return types.Failure(fmt.Sprintf("unknown tool: %s", toolID)), nil
	}
}

// resolve confines a relative path to the provider root.
func (p *Provider) resolve(rel string) (string, error) {
	clean := filepath.Clean("/" + rel)
	full := filepath.Join(p.root, clean)
	if full != filepath.Clean(p.root) && !strings.HasPrefix(full, filepath.Clean(p.root)+string(filepath.Separator)) {
		return "", fmt.Errorf("path escapes VFS root: %s", rel)
	}
	return full, nil
}

func optionalPath(params map[string]interface{}) string {
	if raw, ok := params["path"]; ok {
		if s, ok := raw.(string); ok {
			return s
		}
	}
	return "."
}

func (p *Provider) list(params map[string]interface{}) (*types.Result, error) {
	full, err := p.resolve(optionalPath(params))
	if err != nil {
		return types.Failure(err.Error()), nil
	}

	entries, err := os.ReadDir(full)
	if err != nil {
		return types.Failure(fmt.Sprintf("list failed: %v", err)), nil
	}

	items := make([]interface{}, 0, len(entries))
	for _, e := range entries {
		info, err := e.Info()
		if err != nil {
			continue
		}
		items = append(items, map[string]interface{}{
			"name":  e.Name(),
			"dir":   e.IsDir(),
			"size":  info.Size(),
			"mtime": info.ModTime().Unix(),
		})
	}

	return types.Success(map[string]interface{}{"entries": items, "count": len(items)}), nil
}

func (p *Provider) stat(params map[string]interface{}) (*types.Result, error) {
	rel, ok := params["path"].(string)
	if !ok || rel == "" {
		return types.Failure("path parameter required"), nil
	}
	full, err := p.resolve(rel)
	if err != nil {
		return types.Failure(err.Error()), nil
	}

	info, err := os.Stat(full)
	if err != nil {
		return types.Failure(fmt.Sprintf("stat failed: %v", err)), nil
	}

	data := map[string]interface{}{
		"name":  info.Name(),
		"size":  info.Size(),
		"dir":   info.IsDir(),
		"mode":  info.Mode().String(),
		"mtime": info.ModTime().Unix(),
	}
	if !info.IsDir() {
		if mt, err := mimetype.DetectFile(full); err == nil {
			data["mime"] = mt.String()
			data["extension"] = mt.Extension()
		}
	}

	return types.Success(data), nil
}

func (p *Provider) glob(params map[string]interface{}) (*types.Result, error) {
	pattern, ok := params["pattern"].(string)
	if !ok || pattern == "" {
		return types.Failure("pattern parameter required"), nil
	}

	// Glob against a filesystem rooted at p.root: fs paths cannot name
	// anything above the root, so ".." patterns match nothing instead of
	// escaping the sandbox.
	matches, err := doublestar.Glob(os.DirFS(p.root), pattern)
	if err != nil {
		return types.Failure(fmt.Sprintf("glob failed: %v", err)), nil
	}
	sort.Strings(matches)

	return types.Success(map[string]interface{}{"matches": matches, "count": len(matches)}), nil
}

func (p *Provider) find(ctx context.Context, params map[string]interface{}) (*types.Result, error) {
	pattern, ok := params["pattern"].(string)
	if !ok || pattern == "" {
		return types.Failure("pattern parameter required"), nil
	}

	var (
		mu      sync.Mutex
		matches []string
	)
	conf := fastwalk.Config{Follow: false}
	err := fastwalk.Walk(&conf, p.root, func(path string, d os.DirEntry, err error) error {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}
		if err != nil || d.IsDir() {
			return nil
		}

		if ok, _ := filepath.Match(pattern, d.Name()); ok {
			if rel, err := filepath.Rel(p.root, path); err == nil {
				mu.Lock()
				matches = append(matches, rel)
				mu.Unlock()
			}
		}
		return nil
	})
	if err != nil {
		return types.Failure(fmt.Sprintf("find failed: %v", err)), nil
	}
	sort.Strings(matches)

	return types.Success(map[string]interface{}{"matches": matches, "count": len(matches)}), nil
}

func (p *Provider) size(ctx context.Context, params map[string]interface{}) (*types.Result, error) {
	full, err := p.resolve(optionalPath(params))
	if err != nil {
		return types.Failure(err.Error()), nil
	}

	var (
		mu    sync.Mutex
		total int64
		files int64
	)
	conf := fastwalk.Config{Follow: false}
	err = fastwalk.Walk(&conf, full, func(path string, d os.DirEntry, err error) error {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}
		if err != nil || d.IsDir() {
			return nil
		}
		info, err := d.Info()
		if err != nil {
			return nil
		}
		mu.Lock()
		total += info.Size()
		files++
		mu.Unlock()
		return nil
	})
	if err != nil {
		return types.Failure(fmt.Sprintf("size failed: %v", err)), nil
	}

	return types.Success(map[string]interface{}{"bytes": total, "files": files}), nil
}
