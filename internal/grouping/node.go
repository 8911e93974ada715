// Package grouping turns a flat action catalog into a bounded, navigable
// presentation: some actions shown bare, others collapsed into virtual
// groups that must be activated to reveal their members.
package grouping

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/toolshelf/toolshelf/internal/catalog"
	"github.com/toolshelf/toolshelf/internal/provider"
)

// ActivatePrefix marks a virtual group's name as an activation target.
const ActivatePrefix = "activate_"

// Node is a virtual group standing in for a batch of actions. Name is
// globally unique after deduplication. Expanded and LastUsedTurn are the
// mutable fields carried forward across recomputations; LastUsedTurn is
// zero until the group is first used (turns are 1-based).
type Node struct {
	Name           string
	Summary        string
	Members        []catalog.Action
	ToolsetKey     string
	Expanded       bool
	LastUsedTurn   int
	PossiblePrefix string
}

// MemberNames returns the ordered member action names.
func (n *Node) MemberNames() []string {
	names := make([]string, len(n.Members))
	for i, a := range n.Members {
		names[i] = a.Name
	}
	return names
}

// Clone returns a copy of the node sharing the member slice.
func (n *Node) Clone() *Node {
	c := *n
	return &c
}

// Entry is one child of the presentation root: exactly one of Action or
// Group is set.
type Entry struct {
	Action *catalog.Action
	Group  *Node
}

// Name returns the visible name of the entry.
func (e Entry) Name() string {
	if e.Group != nil {
		return e.Group.Name
	}
	if e.Action != nil {
		return e.Action.Name
	}
	return ""
}

// Slots returns the number of visible catalog slots the entry occupies:
// one for a bare action or collapsed group, the member count for an
// expanded group.
func (e Entry) Slots() int {
	if e.Group != nil && e.Group.Expanded {
		return len(e.Group.Members)
	}
	return 1
}

// Tree is the presentation root. The root itself is always expanded; its
// entries mix bare actions and virtual group nodes.
type Tree struct {
	Entries []Entry
}

// VisibleSlots returns the total visible slot count across all entries.
func (t *Tree) VisibleSlots() int {
	total := 0
	for _, e := range t.Entries {
		total += e.Slots()
	}
	return total
}

// Find returns the group node with the given name, or nil.
func (t *Tree) Find(name string) *Node {
	for _, e := range t.Entries {
		if e.Group != nil && e.Group.Name == name {
			return e.Group
		}
	}
	return nil
}

// Expand marks the named group expanded. Returns false if no such group
// exists.
func (t *Tree) Expand(name string) bool {
	if n := t.Find(name); n != nil {
		n.Expanded = true
		return true
	}
	return false
}

// MarkUsed records that the named entry was invoked on the given turn. For a
// member of an expanded group, the owning group is marked. Returns false if
// the name is not visible in the tree.
func (t *Tree) MarkUsed(name string, turn int) bool {
	for _, e := range t.Entries {
		switch {
		case e.Group != nil && e.Group.Name == name:
			e.Group.LastUsedTurn = turn
			return true
		case e.Group != nil && e.Group.Expanded:
			for _, m := range e.Group.Members {
				if m.Name == name {
					e.Group.LastUsedTurn = turn
					return true
				}
			}
		case e.Action != nil && e.Action.Name == name:
			return true
		}
	}
	return false
}

var activationSchema = json.RawMessage(`{"type":"object","properties":{},"additionalProperties":false}`)

// Visible flattens the tree into the invokable entry list for a provider
// request: bare actions and expanded-group members as themselves, collapsed
// groups as activation pseudo-entries.
func (t *Tree) Visible() []provider.ToolDef {
	var defs []provider.ToolDef
	for _, e := range t.Entries {
		switch {
		case e.Action != nil:
			defs = append(defs, actionDef(*e.Action))
		case e.Group != nil && e.Group.Expanded:
			for _, m := range e.Group.Members {
				defs = append(defs, actionDef(m))
			}
		case e.Group != nil:
			defs = append(defs, provider.ToolDef{
				Name:        e.Group.Name,
				Description: activationDescription(e.Group),
				InputSchema: activationSchema,
			})
		}
	}
	return defs
}

func actionDef(a catalog.Action) provider.ToolDef {
	return provider.ToolDef{
		Name:        a.Name,
		Description: a.Description,
		InputSchema: a.InputSchema,
	}
}

func activationDescription(n *Node) string {
	names := n.MemberNames()
	shown := names
	if len(shown) > 10 {
		shown = shown[:10]
	}
	var sb strings.Builder
	fmt.Fprintf(&sb, "%s Contains %d tools (%s", n.Summary, len(names), strings.Join(shown, ", "))
	if len(names) > len(shown) {
		fmt.Fprintf(&sb, ", and %d more", len(names)-len(shown))
	}
	sb.WriteString("). Invoke to make these tools available on the next turn.")
	return sb.String()
}
