// Package state persists device snapshots into the VFS root. JSON is the
// primary format; YAML and TOML exports exist for tooling that prefers
// them.
package state

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/bytedance/sonic"
	"github.com/goccy/go-yaml"
	"github.com/pelletier/go-toml/v2"

	coredevice "github.com/tamaos/tamaos/internal/device"
	"github.com/tamaos/tamaos/internal/types"
)

// stateDir is the subdirectory of the VFS root holding persisted state.
const stateDir = "state"

// Document is the on-disk representation of a device.
type Document struct {
	ID     string  `json:"id" yaml:"id" toml:"id"`
	BornAt string  `json:"born_at" yaml:"born_at" toml:"born_at"`
	Ticks  uint64  `json:"ticks" yaml:"ticks" toml:"ticks"`
	Age    float64 `json:"age" yaml:"age" toml:"age"`
	Stage  string  `json:"stage" yaml:"stage" toml:"stage"`
}

// Provider implements snapshot persistence.
type Provider struct {
	root string
	dev  *coredevice.Device
}

// NewProvider creates a state provider writing under root.
func NewProvider(root string, dev *coredevice.Device) *Provider {
	return &Provider{root: root, dev: dev}
}

// Definition returns service metadata.
func (p *Provider) Definition() types.Service {
	return types.Service{
		ID:          "state",
		Name:        "State Store",
		Description: "Persist and restore device snapshots (json, yaml, toml)",
		Category:    types.CategoryStorage,
		Capabilities: []string{
			"save",
			"load",
			"formats",
		},
		Tools: []types.Tool{
			{
				ID:          "state.save",
				Name:        "Save State",
				Description: "Write the current device state to the VFS",
				Parameters: []types.Parameter{
					{Name: "format", Type: "string", Description: "json (default), yaml, or toml", Required: false},
				},
				Returns: "object",
			},
			{
				ID:          "state.load",
				Name:        "Load State",
				Description: "Restore the device from a persisted state file",
				Parameters: []types.Parameter{
					{Name: "format", Type: "string", Description: "json (default), yaml, or toml", Required: false},
				},
				Returns: "object",
			},
			{
				ID:          "state.formats",
				Name:        "List Formats",
				Description: "Supported persistence formats",
				Returns:     "array",
			},
		},
	}
}

// Execute runs a state operation.
func (p *Provider) Execute(ctx context.Context, toolID string, params map[string]interface{}) (*types.Result, error) {
	switch toolID {
	case "state.save":
		return p.save(params)
	case "state.load":
		return p.load(params)
	case "state.formats":
		return types.Success(map[string]interface{}{"formats": []string{"json", "yaml", "toml"}}), nil
	default:
		return types.Failure(fmt.Sprintf("unknown tool: %s", toolID)), nil
	}
}

func formatParam(params map[string]interface{}) string {
	if raw, ok := params["format"]; ok {
		if s, ok := raw.(string); ok && s != "" {
			return s
		}
	}
	return "json"
}

// Path returns the state file path for a format.
func (p *Provider) Path(format string) string {
	return filepath.Join(p.root, stateDir, "current."+format)
}

func (p *Provider) save(params map[string]interface{}) (*types.Result, error) {
	format := formatParam(params)

	st := p.dev.State()
	doc := Document{
		ID:     st.ID.String(),
		BornAt: st.BornAt.UTC().Format("2006-01-02T15:04:05.000Z07:00"),
		Ticks:  st.Ticks,
		Age:    st.Age,
		Stage:  st.Stage,
	}

	data, err := marshal(format, doc)
	if err != nil {
		return types.Failure(err.Error()), nil
	}

	path := p.Path(format)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return types.Failure(fmt.Sprintf("save failed: %v", err)), nil
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return types.Failure(fmt.Sprintf("save failed: %v", err)), nil
	}

	return types.Success(map[string]interface{}{
		"path":  path,
		"bytes": len(data),
		"age":   doc.Age,
	}), nil
}

func (p *Provider) load(params map[string]interface{}) (*types.Result, error) {
	format := formatParam(params)

	data, err := os.ReadFile(p.Path(format))
	if err != nil {
		return types.Failure(fmt.Sprintf("load failed: %v", err)), nil
	}

	var doc Document
	if err := unmarshal(format, data, &doc); err != nil {
		return types.Failure(err.Error()), nil
	}

	p.dev.Restore(coredevice.Snapshot{Age: doc.Age, Stage: doc.Stage}, doc.Ticks)
	snap := p.dev.Snapshot()

	return types.Success(map[string]interface{}{
		"age":   snap.Age,
		"stage": snap.Stage,
		"ticks": doc.Ticks,
	}), nil
}

func marshal(format string, doc Document) ([]byte, error) {
	switch format {
	case "json":
		return sonic.MarshalIndent(doc, "", "  ")
	case "yaml":
		return yaml.Marshal(doc)
	case "toml":
		return toml.Marshal(doc)
	default:
		return nil, fmt.Errorf("unsupported format: %s", format)
	}
}

func unmarshal(format string, data []byte, doc *Document) error {
	switch format {
	case "json":
		return sonic.Unmarshal(data, doc)
	case "yaml":
		return yaml.Unmarshal(data, doc)
	case "toml":
		return toml.Unmarshal(data, doc)
	default:
		return fmt.Errorf("unsupported format: %s", format)
	}
}
