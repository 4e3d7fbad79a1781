// pkg/registry/schema.go
package registry

import "research-crew/internal/tools"

// ToolRegistry is the manifest of tools, roles and job types a deployment
// exposes. It is written as JSON by `research-crew tools`.
type ToolRegistry struct {
	Version     string           `json:"version"`
	LastUpdated string           `json:"lastUpdated"`
	Tools       []tools.Metadata `json:"tools"`
	Roles       []Role           `json:"roles"`
	Activities  []Activity       `json:"activities"`
}

type Role struct {
	Name            string   `json:"name"`
	Goal            string   `json:"goal"`
	AllowDelegation bool     `json:"allowDelegation"`
	Tools           []string `json:"tools"`
}

// Activity is one job type served by the worker manager.
type Activity struct {
	ID          string   `json:"id"`
	DisplayName string   `json:"displayName"`
	Category    string   `json:"category"`
	TaskType    string   `json:"taskType"`
	Role        string   `json:"role,omitempty"`
	Upstream    []string `json:"upstream,omitempty"`
	Tools       []string `json:"tools,omitempty"`
	ErrorCodes  []string `json:"errorCodes"`
}
