// Package types defines the service and tool descriptors shared by the
// registry, providers, and API layer.
package types

// Category represents service categories.
type Category string

const (
	CategoryDevice     Category = "device"
	CategoryFilesystem Category = "filesystem"
	CategoryStorage    Category = "storage"
	CategorySystem     Category = "system"
)

// Service represents a service definition.
type Service struct {
	ID           string   `json:"id"`
	Name         string   `json:"name"`
	Description  string   `json:"description"`
	Category     Category `json:"category"`
	Capabilities []string `json:"capabilities"`
	Tools        []Tool   `json:"tools"`
}

// Tool represents a single operation a service exposes.
type Tool struct {
	ID          string      `json:"id"`
	Name        string      `json:"name"`
	Description string      `json:"description"`
	Parameters  []Parameter `json:"parameters,omitempty"`
	Returns     string      `json:"returns"`
}

// Parameter represents a tool parameter.
type Parameter struct {
	Name        string `json:"name"`
	Type        string `json:"type"`
	Description string `json:"description"`
	Required    bool   `json:"required"`
}

// Result represents a service execution result.
type Result struct {
	Success bool                   `json:"success"`
	Data    map[string]interface{} `json:"data,omitempty"`
	Error   *string                `json:"error,omitempty"`
}

// Failure builds an error result.
func Failure(msg string) *Result {
	return &Result{Success: false, Error: &msg}
}

// Success builds a success result carrying data.
func Success(data map[string]interface{}) *Result {
	return &Result{Success: true, Data: data}
}
