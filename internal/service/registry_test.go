package service

import (
	"context"
	"testing"

	"github.com/tamaos/tamaos/internal/types"
)

type mockProvider struct {
	id string
}

func (m *mockProvider) Definition() types.Service {
	return types.Service{
		ID:           m.id,
		Name:         "Mock Service",
		Description:  "A mock service for testing",
		Category:     types.CategorySystem,
		Capabilities: []string{"read", "write"},
		Tools: []types.Tool{
			{
				ID:          m.id + ".test",
				Name:        "Test Tool",
				Description: "A test tool",
				Returns:     "string",
			},
		},
	}
}

func (m *mockProvider) Execute(ctx context.Context, toolID string, params map[string]interface{}) (*types.Result, error) {
	return types.Success(map[string]interface{}{"result": "ok"}), nil
}

func TestRegister(t *testing.T) {
	r := NewRegistry()
	p := &mockProvider{id: "test"}

	if err := r.Register(p); err != nil {
		t.Fatalf("Register failed: %v", err)
	}

	if _, ok := r.Get("test"); !ok {
		t.Error("Service should be registered")
	}
}

func TestRegisterEmptyID(t *testing.T) {
	r := NewRegistry()
	if err := r.Register(&mockProvider{id: ""}); err == nil {
		t.Error("Register should reject empty service ID")
	}
}

func TestListSorted(t *testing.T) {
	r := NewRegistry()
	r.Register(&mockProvider{id: "zeta"})
	r.Register(&mockProvider{id: "alpha"})

	services := r.List(nil)
	if len(services) != 2 {
		t.Fatalf("Expected 2 services, got %d", len(services))
	}
	if services[0].ID != "alpha" || services[1].ID != "zeta" {
		t.Errorf("List should be sorted by ID, got %s, %s", services[0].ID, services[1].ID)
	}
}

func TestListByCategory(t *testing.T) {
	r := NewRegistry()
	r.Register(&mockProvider{id: "test"})

	cat := types.CategoryDevice
	if got := r.List(&cat); len(got) != 0 {
		t.Errorf("Expected no device services, got %d", len(got))
	}
}

func TestExecuteRouting(t *testing.T) {
	r := NewRegistry()
	r.Register(&mockProvider{id: "test"})

	result, err := r.Execute(context.Background(), "test.test", nil)
	if err != nil {
		t.Fatalf("Execute failed: %v", err)
	}
	if !result.Success {
		t.Error("Execute should succeed")
	}
}

func TestExecuteInvalidToolID(t *testing.T) {
	r := NewRegistry()

	result, err := r.Execute(context.Background(), "nodot", nil)
	if err == nil {
		t.Error("Execute should fail on un-namespaced tool ID")
	}
	if result.Success {
		t.Error("Result should not be success")
	}
}

func TestExecuteUnknownService(t *testing.T) {
	r := NewRegistry()

	if _, err := r.Execute(context.Background(), "ghost.tool", nil); err == nil {
		t.Error("Execute should fail for unknown service")
	}
}

func TestUnregister(t *testing.T) {
	r := NewRegistry()
	r.Register(&mockProvider{id: "test"})
	r.Unregister("test")

	if _, ok := r.Get("test"); ok {
		t.Error("Service should be unregistered")
	}
}

func TestStats(t *testing.T) {
	r := NewRegistry()
	r.Register(&mockProvider{id: "a"})
	r.Register(&mockProvider{id: "b"})

	stats := r.Stats()
	if stats["total_services"].(int) != 2 {
		t.Errorf("Expected 2 services, got %v", stats["total_services"])
	}
	if stats["total_tools"].(int) != 2 {
		t.Errorf("Expected 2 tools, got %v", stats["total_tools"])
	}
}
