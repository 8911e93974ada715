package grouping

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/toolshelf/toolshelf/internal/catalog"
)

func TestEntrySlots(t *testing.T) {
	assert.Equal(t, 1, bareEntry("a").Slots())
	assert.Equal(t, 1, groupOfSize("activate_g", 7, false).Slots())
	assert.Equal(t, 7, groupOfSize("activate_g", 7, true).Slots())
}

func TestTreeVisibleSlots(t *testing.T) {
	tree := &Tree{Entries: []Entry{
		bareEntry("a"),
		groupOfSize("activate_g", 4, true),
		groupOfSize("activate_h", 9, false),
	}}
	assert.Equal(t, 6, tree.VisibleSlots())
}

func TestTreeExpand(t *testing.T) {
	tree := &Tree{Entries: []Entry{groupOfSize("activate_g", 3, false)}}

	assert.False(t, tree.Expand("activate_missing"))
	assert.True(t, tree.Expand("activate_g"))
	assert.True(t, tree.Find("activate_g").Expanded)
}

func TestTreeMarkUsed(t *testing.T) {
	tree := &Tree{Entries: []Entry{
		bareEntry("solo"),
		groupOfSize("activate_g", 3, true),
		groupOfSize("activate_h", 3, false),
	}}

	assert.True(t, tree.MarkUsed("solo", 2))
	assert.True(t, tree.MarkUsed("activate_h", 3))
	assert.Equal(t, 3, tree.Find("activate_h").LastUsedTurn)

	// Member of an expanded group marks the owning group.
	assert.True(t, tree.MarkUsed("activate_g_tool_1", 4))
	assert.Equal(t, 4, tree.Find("activate_g").LastUsedTurn)

	// Members of collapsed groups are not visible.
	assert.False(t, tree.MarkUsed("activate_h_tool_0", 5))
	assert.False(t, tree.MarkUsed("ghost", 5))
}

func TestTreeVisibleFlattens(t *testing.T) {
	action := catalog.Action{Name: "read_file", Description: "Read a file", InputSchema: []byte(`{"type":"object"}`)}
	tree := &Tree{Entries: []Entry{
		{Action: &action},
		groupOfSize("activate_exp", 2, true),
		{Group: &Node{
			Name:    "activate_col",
			Summary: "Web tools.",
			Members: []catalog.Action{{Name: "fetch"}, {Name: "search"}},
		}},
	}}

	defs := tree.Visible()
	require.Len(t, defs, 4)

	assert.Equal(t, "read_file", defs[0].Name)
	assert.Equal(t, "Read a file", defs[0].Description)

	// Expanded group contributes its members directly.
	assert.Equal(t, "activate_exp_tool_0", defs[1].Name)
	assert.Equal(t, "activate_exp_tool_1", defs[2].Name)

	// Collapsed group contributes one activation entry.
	assert.Equal(t, "activate_col", defs[3].Name)
	assert.Contains(t, defs[3].Description, "Web tools.")
	assert.Contains(t, defs[3].Description, "fetch")
	assert.Contains(t, defs[3].Description, "next turn")
	assert.JSONEq(t, `{"type":"object","properties":{},"additionalProperties":false}`, string(defs[3].InputSchema))
}

func TestActivationDescriptionTruncatesMemberList(t *testing.T) {
	n := groupOfSize("activate_big", 14, false).Group
	n.Summary = "Many tools."
	desc := activationDescription(n)
	assert.Contains(t, desc, "14 tools")
	assert.Contains(t, desc, "and 4 more")
}
