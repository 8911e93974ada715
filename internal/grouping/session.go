package grouping

import (
	"context"
	"sync"

	"github.com/toolshelf/toolshelf/internal/catalog"
)

// DefaultSessionCapacity bounds the registry when no capacity is configured.
const DefaultSessionCapacity = 3

// State holds one session's grouping state across turns: the current action
// list, the last computed tree, and the turn counter. Callers serialize
// access per session.
type State struct {
	id      string
	engine  *Engine
	actions []catalog.Action
	root    *Tree
	turn    int
}

// ID returns the session ID the state belongs to.
func (s *State) ID() string { return s.id }

// Actions returns the session's current action list.
func (s *State) Actions() []catalog.Action { return s.actions }

// Root returns the last computed tree, or nil before the first computation.
func (s *State) Root() *Tree { return s.root }

// Turn returns the number of computations performed for this session.
func (s *State) Turn() int { return s.turn }

// SetActions replaces the session's action list for the next computation.
func (s *State) SetActions(actions []catalog.Action) { s.actions = actions }

// Compute advances the turn and recomputes the tree from the current action
// list. Group nodes keep their expansion and usage state across calls.
func (s *State) Compute(ctx context.Context) *Tree {
	s.turn++
	s.root = s.engine.ComputeGroups(ctx, s.root, s.actions)
	return s.root
}

// Activate marks the named group expanded. The members become visible on
// the next computation. Returns false if the current tree has no such group.
func (s *State) Activate(name string) bool {
	if s.root == nil {
		return false
	}
	if !s.root.Expand(name) {
		return false
	}
	s.root.MarkUsed(name, s.turn)
	return true
}

// MarkUsed records a tool invocation against the current tree.
func (s *State) MarkUsed(name string) bool {
	if s.root == nil {
		return false
	}
	return s.root.MarkUsed(name, s.turn)
}

// SessionRegistry is a small fixed-capacity LRU of per-session grouping
// state, so expansion and usage state persists turn-to-turn without
// unbounded memory growth across many sessions.
type SessionRegistry struct {
	mu       sync.Mutex
	engine   *Engine
	capacity int
	sessions []*State // most recently used first
}

// NewSessionRegistry creates a registry over the given engine. capacity <= 0
// falls back to DefaultSessionCapacity.
func NewSessionRegistry(engine *Engine, capacity int) *SessionRegistry {
	if capacity <= 0 {
		capacity = DefaultSessionCapacity
	}
	return &SessionRegistry{engine: engine, capacity: capacity}
}

// GetOrCreate returns the state for sessionID, updating its action list in
// place so node identity survives, or creates a fresh state seeded with
// actions. The least recently used session is evicted over capacity.
func (r *SessionRegistry) GetOrCreate(sessionID string, actions []catalog.Action) *State {
	r.mu.Lock()
	defer r.mu.Unlock()

	for i, s := range r.sessions {
		if s.id == sessionID {
			s.actions = actions
			r.sessions = append(r.sessions[:i], r.sessions[i+1:]...)
			r.sessions = append([]*State{s}, r.sessions...)
			return s
		}
	}

	s := &State{id: sessionID, engine: r.engine, actions: actions}
	r.sessions = append([]*State{s}, r.sessions...)
	if len(r.sessions) > r.capacity {
		r.sessions = r.sessions[:r.capacity]
	}
	return s
}

// Len returns the number of retained sessions.
func (r *SessionRegistry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.sessions)
}
