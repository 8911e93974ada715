package classifier

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/toolshelf/toolshelf/internal/catalog"
)

// Heuristic is a model-free Classifier that buckets tools by name prefix.
// The CLI uses it when no provider is configured; it is also convenient in
// tests. Division is deterministic for a given toolset.
type Heuristic struct{}

// NewHeuristic creates a prefix-bucketing classifier.
func NewHeuristic() *Heuristic { return &Heuristic{} }

// Divide buckets actions by the token before the first underscore in their
// name. Buckets of one are folded into a shared "misc" group so every group
// has at least two members where possible.
func (h *Heuristic) Divide(ctx context.Context, actions []catalog.Action, previous []Group) ([]Group, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	buckets := make(map[string][]string)
	for _, a := range actions {
		buckets[namePrefix(a.Name)] = append(buckets[namePrefix(a.Name)], a.Name)
	}

	var prefixes []string
	for p := range buckets {
		prefixes = append(prefixes, p)
	}
	sort.Strings(prefixes)

	var groups []Group
	var misc []string
	for _, p := range prefixes {
		members := buckets[p]
		if len(members) < 2 {
			misc = append(misc, members...)
			continue
		}
		groups = append(groups, Group{
			Name:    catalog.Slugify(p) + "_tools",
			Summary: fmt.Sprintf("Tools named %s_*: %s", p, preview(members)),
			Tools:   members,
		})
	}
	if len(misc) > 0 {
		groups = append(groups, Group{
			Name:    "misc_tools",
			Summary: "Tools that fit no shared prefix: " + preview(misc),
			Tools:   misc,
		})
	}

	// A toolset with no shared prefixes yields one bucket; split it in half
	// so the caller always gets a genuine division.
	if len(groups) < 2 {
		names := make([]string, 0, len(actions))
		for _, a := range actions {
			names = append(names, a.Name)
		}
		mid := len(names) / 2
		groups = []Group{
			{Name: "first_half_tools", Summary: "First half of the toolset: " + preview(names[:mid]), Tools: names[:mid]},
			{Name: "second_half_tools", Summary: "Second half of the toolset: " + preview(names[mid:]), Tools: names[mid:]},
		}
	}
	return groups, nil
}

// Summarize lists a few member names as the group summary.
func (h *Heuristic) Summarize(ctx context.Context, actions []catalog.Action) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	names := make([]string, 0, len(actions))
	for _, a := range actions {
		names = append(names, a.Name)
	}
	return fmt.Sprintf("%d tools: %s", len(actions), preview(names)), nil
}

func namePrefix(name string) string {
	if i := strings.IndexByte(name, '_'); i > 0 {
		return name[:i]
	}
	return name
}

func preview(names []string) string {
	const max = 5
	if len(names) <= max {
		return strings.Join(names, ", ")
	}
	return strings.Join(names[:max], ", ") + fmt.Sprintf(", and %d more", len(names)-max)
}
