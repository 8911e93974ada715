// Package catalog defines the action descriptors, origins, and the ordered
// registry that feed the grouping engine.
package catalog

import (
	"context"
	"encoding/json"
)

// Action is an immutable descriptor of one invokable action.
type Action struct {
	Name         string
	Description  string
	InputSchema  json.RawMessage
	Origin       Origin
	Instructions string // optional usage notes surfaced on activation
}

// Tool is the execution interface behind an action. The grouping engine only
// consumes descriptors; hosts register Tools and derive Actions from them.
type Tool interface {
	Name() string
	Description() string
	InputSchema() json.RawMessage
	Origin() Origin
	Execute(ctx context.Context, input json.RawMessage) (ToolResult, error)
}

// ToolResult represents the result of executing a tool.
type ToolResult struct {
	Content        string // sent to LLM conversation history
	DisplayContent string // shown to user; falls back to Content if empty
	IsError        bool
}

// Display returns the content intended for user display. It returns
// DisplayContent when set, otherwise falls back to Content.
func (r ToolResult) Display() string {
	if r.DisplayContent != "" {
		return r.DisplayContent
	}
	return r.Content
}

// Describe builds the Action descriptor for a tool.
func Describe(t Tool) Action {
	return Action{
		Name:        t.Name(),
		Description: t.Description(),
		InputSchema: t.InputSchema(),
		Origin:      t.Origin(),
	}
}
