// Package device exposes the century-life device through the service
// registry.
package device

import (
	"context"
	"fmt"

	coredevice "github.com/tamaos/tamaos/internal/device"
	"github.com/tamaos/tamaos/internal/types"
)

// Provider implements device operations.
type Provider struct {
	dev *coredevice.Device
}

// NewProvider creates a device provider bound to dev.
func NewProvider(dev *coredevice.Device) *Provider {
	return &Provider{dev: dev}
}

// Definition returns service metadata.
func (p *Provider) Definition() types.Service {
	return types.Service{
		ID:          "device",
		Name:        "Century-Life Device",
		Description: "Aging device operations: tick, snapshot, stats, reset",
		Category:    types.CategoryDevice,
		Capabilities: []string{
			"tick",
			"snapshot",
			"stats",
			"reset",
		},
		Tools: []types.Tool{
			{
				ID:          "device.tick",
				Name:        "Tick",
				Description: "Advance device age by dt (default 1.0)",
				Parameters: []types.Parameter{
					{Name: "dt", Type: "number", Description: "Age delta", Required: false},
				},
				Returns: "object",
			},
			{
				ID:          "device.snapshot",
				Name:        "Snapshot",
				Description: "Current age and stage without advancing",
				Returns:     "object",
			},
			{
				ID:          "device.stats",
				Name:        "Stats",
				Description: "Summary statistics over recent tick deltas",
				Returns:     "object",
			},
			{
				ID:          "device.reset",
				Name:        "Reset",
				Description: "Return the device to age zero",
				Returns:     "object",
			},
		},
	}
}

// Execute runs a device operation.
func (p *Provider) Execute(ctx context.Context, toolID string, params map[string]interface{}) (*types.Result, error) {
	switch toolID {
	case "device.tick":
		return p.tick(params)
	case "device.snapshot":
		return snapshotResult(p.dev.Snapshot()), nil
	case "device.stats":
		return p.stats()
	case "device.reset":
		return snapshotResult(p.dev.Reset()), nil
	default:
		return types.Failure(fmt.Sprintf("unknown tool: %s", toolID)), nil
	}
}

func (p *Provider) tick(params map[string]interface{}) (*types.Result, error) {
	dt := 1.0
	if raw, ok := params["dt"]; ok {
		f, ok := raw.(float64)
		if !ok {
			return types.Failure("dt must be a number"), nil
		}
		dt = f
	}
	return snapshotResult(p.dev.Tick(dt)), nil
}

func (p *Provider) stats() (*types.Result, error) {
	s := p.dev.Stats()
	return types.Success(map[string]interface{}{
		"ticks":          s.Ticks,
		"age":            s.Age,
		"uptime_seconds": s.UptimeSec,
		"age_per_second": s.AgePerSec,
		"window_size":    s.WindowSize,
		"mean_delta":     s.MeanDelta,
		"stddev_delta":   s.StdDevDelta,
		"min_delta":      s.MinDelta,
		"max_delta":      s.MaxDelta,
	}), nil
}

func snapshotResult(snap coredevice.Snapshot) *types.Result {
	return types.Success(map[string]interface{}{
		"age":   snap.Age,
		"stage": snap.Stage,
	})
}
