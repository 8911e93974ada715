package catalog

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// mockTool implements the Tool interface for testing.
type mockTool struct {
	name        string
	description string
	origin      Origin
}

func (m *mockTool) Name() string                 { return m.name }
func (m *mockTool) Description() string          { return m.description }
func (m *mockTool) InputSchema() json.RawMessage { return json.RawMessage(`{"type":"object"}`) }
func (m *mockTool) Origin() Origin               { return m.origin }
func (m *mockTool) Execute(ctx context.Context, input json.RawMessage) (ToolResult, error) {
	return ToolResult{Content: "ok"}, nil
}

func newMockTool(name string, origin Origin) *mockTool {
	return &mockTool{name: name, description: "A test tool", origin: origin}
}

func TestRegistryRegisterAndGet(t *testing.T) {
	reg := NewRegistry()
	require.NoError(t, reg.Register(newMockTool("test_tool", Core())))

	got, ok := reg.Get("test_tool")
	assert.True(t, ok)
	assert.Equal(t, "test_tool", got.Name())
}

func TestRegistryDuplicateReturnsError(t *testing.T) {
	reg := NewRegistry()
	require.NoError(t, reg.Register(newMockTool("dup_tool", Core())))

	err := reg.Register(newMockTool("dup_tool", Extension("a")))
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "tool already registered: dup_tool")
}

func TestRegistryRegisterNil(t *testing.T) {
	reg := NewRegistry()
	err := reg.Register(nil)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "cannot register nil tool")
}

func TestRegistryUnregister(t *testing.T) {
	reg := NewRegistry()
	require.NoError(t, reg.Register(newMockTool("gone_soon", Core())))
	require.NoError(t, reg.Unregister("gone_soon"))

	_, ok := reg.Get("gone_soon")
	assert.False(t, ok)
	assert.Error(t, reg.Unregister("gone_soon"))
	assert.Zero(t, reg.Len())
}

func TestRegistryActionsPreserveRegistrationOrder(t *testing.T) {
	reg := NewRegistry()
	names := []string{"zeta", "alpha", "mid"}
	for _, n := range names {
		require.NoError(t, reg.Register(newMockTool(n, MCPServer("srv"))))
	}

	actions := reg.Actions()
	require.Len(t, actions, 3)
	for i, n := range names {
		assert.Equal(t, n, actions[i].Name)
	}
}

func TestRegistryActionsCarryOrigin(t *testing.T) {
	reg := NewRegistry()
	require.NoError(t, reg.Register(newMockTool("gh_issues", Extension("github"))))

	actions := reg.Actions()
	require.Len(t, actions, 1)
	key, ok := actions[0].Origin.ToolsetKey()
	assert.True(t, ok)
	assert.Equal(t, "ext:github", key)
}

func TestToolResultDisplayFallsBack(t *testing.T) {
	r := ToolResult{Content: "raw"}
	assert.Equal(t, "raw", r.Display())

	r.DisplayContent = "pretty"
	assert.Equal(t, "pretty", r.Display())
}
