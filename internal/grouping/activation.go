package grouping

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/toolshelf/toolshelf/internal/catalog"
)

// ActivationTool is the synthetic catalog.Tool behind a collapsed group's
// activate_<name> entry. Executing it marks the group expanded (visible on
// the next computation) and returns the member list with descriptions.
type ActivationTool struct {
	state *State
	node  *Node
}

var _ catalog.Tool = (*ActivationTool)(nil)

// ActivationTools returns activation tools for every collapsed group in the
// session's current tree.
func ActivationTools(state *State) []catalog.Tool {
	root := state.Root()
	if root == nil {
		return nil
	}
	var tools []catalog.Tool
	for _, e := range root.Entries {
		if e.Group != nil && !e.Group.Expanded {
			tools = append(tools, &ActivationTool{state: state, node: e.Group})
		}
	}
	return tools
}

func (t *ActivationTool) Name() string { return t.node.Name }

func (t *ActivationTool) Description() string { return activationDescription(t.node) }

func (t *ActivationTool) InputSchema() json.RawMessage { return activationSchema }

// Origin is core: activation entries belong to the runtime and must never be
// regrouped into a toolset themselves.
func (t *ActivationTool) Origin() catalog.Origin { return catalog.Core() }

// Execute expands the group and reports its members.
func (t *ActivationTool) Execute(ctx context.Context, input json.RawMessage) (catalog.ToolResult, error) {
	if err := ctx.Err(); err != nil {
		return catalog.ToolResult{}, err
	}
	if !t.state.Activate(t.node.Name) {
		return catalog.ToolResult{
			Content: fmt.Sprintf("Tool group %s is no longer present.", t.node.Name),
			IsError: true,
		}, nil
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "Activated %s. The following %d tools become available on the next turn:\n",
		t.node.Name, len(t.node.Members))
	for _, m := range t.node.Members {
		fmt.Fprintf(&sb, "- %s: %s\n", m.Name, m.Description)
		if m.Instructions != "" {
			fmt.Fprintf(&sb, "  %s\n", m.Instructions)
		}
	}
	return catalog.ToolResult{Content: sb.String()}, nil
}
