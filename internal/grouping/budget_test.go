package grouping

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/toolshelf/toolshelf/internal/catalog"
)

func groupOfSize(name string, size int, expanded bool) Entry {
	members := make([]catalog.Action, size)
	for i := range members {
		members[i] = catalog.Action{Name: fmt.Sprintf("%s_tool_%d", name, i)}
	}
	return Entry{Group: &Node{Name: name, Members: members, Expanded: expanded}}
}

func totalSlots(entries []Entry) int {
	total := 0
	for _, e := range entries {
		total += e.Slots()
	}
	return total
}

func TestExpandSmallestFirst(t *testing.T) {
	entries := []Entry{
		groupOfSize("activate_big", 8, false),
		groupOfSize("activate_small", 3, false),
		groupOfSize("activate_mid", 5, false),
	}

	// Expanding the smallest (3 slots) brings the total from 3 to 5, meeting
	// the soft target; the others stay collapsed.
	out := expandToFitBudget(entries, 4, 100)
	assert.True(t, out[1].Group.Expanded)
	assert.False(t, out[0].Group.Expanded)
	assert.False(t, out[2].Group.Expanded)
	assert.Equal(t, 5, totalSlots(out))
}

func TestExpandStopsAtHardLimit(t *testing.T) {
	entries := []Entry{
		groupOfSize("activate_huge", 10, false),
		groupOfSize("activate_tiny", 4, false),
	}

	out := expandToFitBudget(entries, 10, 6)
	assert.True(t, out[1].Group.Expanded)
	assert.False(t, out[0].Group.Expanded, "expanding the 10-member group would breach the hard limit")
	assert.Equal(t, 5, totalSlots(out))
}

func TestExpandLeavesSmallestCollapsedWhenItWouldBreach(t *testing.T) {
	entries := []Entry{groupOfSize("activate_only", 20, false)}

	out := expandToFitBudget(entries, 10, 10)
	assert.False(t, out[0].Group.Expanded)
	assert.Equal(t, 1, totalSlots(out))
}

func TestExpandAllWhenBudgetAllows(t *testing.T) {
	entries := []Entry{
		bareEntry("solo"),
		groupOfSize("activate_a", 3, false),
		groupOfSize("activate_b", 4, false),
	}

	out := expandToFitBudget(entries, 50, 100)
	assert.True(t, out[1].Group.Expanded)
	assert.True(t, out[2].Group.Expanded)
	assert.Equal(t, 8, totalSlots(out))
}

func TestCarriedExpansionsCollapsedWhenOverHardLimit(t *testing.T) {
	// Expansion state carried from a previous turn can exceed the ceiling
	// when the limit shrinks; the largest expanded group collapses first.
	entries := []Entry{
		groupOfSize("activate_large", 10, true),
		groupOfSize("activate_small", 3, true),
	}

	out := expandToFitBudget(entries, 0, 8)
	assert.False(t, out[0].Group.Expanded)
	assert.True(t, out[1].Group.Expanded)
	assert.Equal(t, 4, totalSlots(out))
}

func TestHardLimitNeverExceeded(t *testing.T) {
	for _, sizes := range [][]int{
		{2, 2, 2, 2, 2},
		{50},
		{9, 9, 9},
		{3, 7, 12, 30},
	} {
		var entries []Entry
		for i, size := range sizes {
			entries = append(entries, groupOfSize(fmt.Sprintf("activate_g%d", i), size, false))
		}
		out := expandToFitBudget(entries, 100, 20)
		require.LessOrEqual(t, totalSlots(out), 20, "sizes %v", sizes)
	}
}
