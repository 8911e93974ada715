package grouping

import (
	"context"
	"log"
	"sort"
	"strings"
	"sync"

	"github.com/sourcegraph/conc/pool"

	"github.com/toolshelf/toolshelf/internal/catalog"
	"github.com/toolshelf/toolshelf/internal/classifier"
)

// Limits holds the thresholds steering the grouping computation.
// StartGroupingAfter is a function so hosts can back it with configuration
// that changes between turns; it is re-read at the start of every
// computation.
type Limits struct {
	StartGroupingAfter      func() int
	MinToolsetSizeToGroup   int
	GroupWithinToolsetLimit int
	HardToolLimit           int
	ExpandUntilCount        int
	ClassifyConcurrency     int
}

// DefaultLimits returns the limits used when a field is left zero.
func DefaultLimits() Limits {
	return Limits{
		StartGroupingAfter:      func() int { return 40 },
		MinToolsetSizeToGroup:   4,
		GroupWithinToolsetLimit: 15,
		HardToolLimit:           100,
		ExpandUntilCount:        64,
		ClassifyConcurrency:     4,
	}
}

// Engine computes the grouped presentation of an action catalog.
type Engine struct {
	classifier classifier.Classifier
	cache      *GroupCache
	limits     Limits
}

// NewEngine creates an engine using the given classifier, cache, and limits.
// Zero limit fields fall back to DefaultLimits.
func NewEngine(c classifier.Classifier, cache *GroupCache, limits Limits) *Engine {
	def := DefaultLimits()
	if limits.StartGroupingAfter == nil {
		limits.StartGroupingAfter = def.StartGroupingAfter
	}
	if limits.MinToolsetSizeToGroup <= 0 {
		limits.MinToolsetSizeToGroup = def.MinToolsetSizeToGroup
	}
	if limits.GroupWithinToolsetLimit <= 0 {
		limits.GroupWithinToolsetLimit = def.GroupWithinToolsetLimit
	}
	if limits.HardToolLimit <= 0 {
		limits.HardToolLimit = def.HardToolLimit
	}
	if limits.ExpandUntilCount <= 0 {
		limits.ExpandUntilCount = def.ExpandUntilCount
	}
	if limits.ClassifyConcurrency <= 0 {
		limits.ClassifyConcurrency = def.ClassifyConcurrency
	}
	if cache == nil {
		cache = NewGroupCache(0)
	}
	return &Engine{classifier: c, cache: cache, limits: limits}
}

// Cache returns the engine's group cache, for snapshot persistence.
func (e *Engine) Cache() *GroupCache { return e.cache }

// segment is a run of the input catalog sharing one fate: a bare action, or
// a whole toolset anchored at its first member's input position.
type segment struct {
	anchor  int
	action  *catalog.Action
	key     string
	origin  catalog.Origin
	members []catalog.Action
}

// ComputeGroups builds a new presentation tree from the catalog. Classifier
// failures and cancellations are isolated per toolset: the affected toolset
// falls back to its subtree in prev, or passes through ungrouped, so the
// returned tree is always complete and valid.
func (e *Engine) ComputeGroups(ctx context.Context, prev *Tree, actions []catalog.Action) *Tree {
	if len(actions) <= e.limits.StartGroupingAfter() {
		entries := make([]Entry, 0, len(actions))
		for i := range actions {
			entries = append(entries, Entry{Action: &actions[i]})
		}
		return &Tree{Entries: entries}
	}

	segments := partition(actions)

	// Classify every toolset large enough to wrap, concurrently. Results and
	// failures are collected per toolset key under the mutex; one toolset's
	// failure never aborts the others.
	var mu sync.Mutex
	grouped := make(map[string][]*Node)
	failed := make(map[string]bool)

	p := pool.New().WithMaxGoroutines(e.limits.ClassifyConcurrency)
	for _, seg := range segments {
		if seg.key == "" || len(seg.members) < e.limits.MinToolsetSizeToGroup {
			continue
		}
		seg := seg
		p.Go(func() {
			nodes, err := e.classifyToolset(ctx, prev, seg)
			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				log.Printf("grouping: classification of toolset %q failed, passing through ungrouped: %v", seg.key, err)
				failed[seg.key] = true
				return
			}
			grouped[seg.key] = nodes
		})
	}
	p.Wait()

	candidates := make([]Entry, 0, len(actions))
	for _, seg := range segments {
		switch {
		case seg.key == "":
			candidates = append(candidates, Entry{Action: seg.action})
		case len(seg.members) < e.limits.MinToolsetSizeToGroup, failed[seg.key]:
			for i := range seg.members {
				candidates = append(candidates, Entry{Action: &seg.members[i]})
			}
		default:
			for _, n := range grouped[seg.key] {
				candidates = append(candidates, Entry{Group: n})
			}
		}
	}

	entries := dedupe(candidates)

	// Carry the mutable fields forward for groups that survived under the
	// same name; everything else starts collapsed and unused.
	if prev != nil {
		for _, ent := range entries {
			if ent.Group == nil {
				continue
			}
			if old := prev.Find(ent.Group.Name); old != nil {
				ent.Group.Expanded = old.Expanded
				ent.Group.LastUsedTurn = old.LastUsedTurn
			}
		}
	}

	entries = expandToFitBudget(entries, e.limits.ExpandUntilCount, e.limits.HardToolLimit)
	return &Tree{Entries: entries}
}

// classifyToolset resolves one toolset to its group nodes, consulting the
// cache before the classifier. On classifier failure or cancellation it
// falls back to the previous tree's nodes for the same toolset; with no
// previous nodes the error is returned and the caller passes the toolset
// through ungrouped. Partial or cancelled results are never cached.
func (e *Engine) classifyToolset(ctx context.Context, prev *Tree, seg segment) ([]*Node, error) {
	names := make([]string, len(seg.members))
	byName := make(map[string]catalog.Action, len(seg.members))
	for i, a := range seg.members {
		names[i] = a.Name
		byName[a.Name] = a
	}

	hash := MembershipHash(names)
	result, hit := e.cache.Get(hash)
	if !hit {
		var err error
		result, err = e.classify(ctx, prev, seg)
		if err != nil {
			if fallback := previousNodes(prev, seg.key); len(fallback) > 0 {
				return fallback, nil
			}
			return nil, err
		}
		e.cache.Put(hash, result)
	}

	prefix := seg.origin.Slug() + "_"
	if len(result.Groups) == 1 {
		prefix = seg.origin.Prefix()
	}

	nodes := make([]*Node, 0, len(result.Groups))
	for _, g := range result.Groups {
		var members []catalog.Action
		for _, name := range g.Tools {
			if a, ok := byName[name]; ok {
				members = append(members, a)
			}
		}
		if len(members) == 0 {
			continue
		}
		nodes = append(nodes, &Node{
			Name:           ActivatePrefix + g.Name,
			Summary:        g.Summary,
			Members:        members,
			ToolsetKey:     seg.key,
			PossiblePrefix: prefix,
		})
	}
	return nodes, nil
}

// classify runs the classifier for one toolset: the summarize path for
// toolsets within the per-toolset limit, the divide path above it.
func (e *Engine) classify(ctx context.Context, prev *Tree, seg segment) (CachedResult, error) {
	if len(seg.members) <= e.limits.GroupWithinToolsetLimit {
		summary, err := e.classifier.Summarize(ctx, seg.members)
		if err != nil {
			return CachedResult{}, err
		}
		names := make([]string, len(seg.members))
		for i, a := range seg.members {
			names[i] = a.Name
		}
		return CachedResult{Groups: []classifier.Group{{
			Name:    seg.origin.Slug() + "_tools",
			Summary: summary,
			Tools:   names,
		}}}, nil
	}

	groups, err := e.classifier.Divide(ctx, seg.members, previousGroups(prev, seg.key))
	if err != nil {
		return CachedResult{}, err
	}
	return CachedResult{Groups: groups}, nil
}

// partition splits the catalog into ordered segments: core actions stand
// alone; each non-core origin's actions collect into one toolset segment
// anchored where the toolset first appears.
func partition(actions []catalog.Action) []segment {
	var segments []segment
	byKey := make(map[string]int)
	for i := range actions {
		a := &actions[i]
		key, ok := a.Origin.ToolsetKey()
		if !ok {
			segments = append(segments, segment{anchor: i, action: a})
			continue
		}
		if idx, exists := byKey[key]; exists {
			segments[idx].members = append(segments[idx].members, *a)
			continue
		}
		byKey[key] = len(segments)
		segments = append(segments, segment{
			anchor:  i,
			key:     key,
			origin:  a.Origin,
			members: []catalog.Action{*a},
		})
	}
	sort.SliceStable(segments, func(i, j int) bool { return segments[i].anchor < segments[j].anchor })
	return segments
}

// previousNodes returns clones of prev's group nodes for the given toolset.
func previousNodes(prev *Tree, key string) []*Node {
	if prev == nil {
		return nil
	}
	var nodes []*Node
	for _, e := range prev.Entries {
		if e.Group != nil && e.Group.ToolsetKey == key {
			nodes = append(nodes, e.Group.Clone())
		}
	}
	return nodes
}

// previousGroups converts prev's nodes for a toolset into the classifier
// hint shape. Node names lose the activation prefix so the hint matches the
// shape the classifier itself produces.
func previousGroups(prev *Tree, key string) []classifier.Group {
	var groups []classifier.Group
	for _, n := range previousNodes(prev, key) {
		groups = append(groups, classifier.Group{
			Name:    strings.TrimPrefix(n.Name, ActivatePrefix),
			Summary: n.Summary,
			Tools:   n.MemberNames(),
		})
	}
	return groups
}
