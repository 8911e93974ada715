// Package classifier divides or summarizes toolsets. The grouping engine
// treats implementations as injected collaborators: they may be slow,
// model-backed, and must honor context cancellation.
package classifier

import (
	"context"

	"github.com/toolshelf/toolshelf/internal/catalog"
)

// Group is one named subgroup of a toolset, with an explicit member list.
type Group struct {
	Name    string   `json:"name"`
	Summary string   `json:"summary"`
	Tools   []string `json:"tools"`
}

// Classifier divides a toolset into named subgroups or summarizes it as a
// single group. Failures propagate to the caller; the engine isolates them
// per toolset.
type Classifier interface {
	// Divide splits the toolset into two or more named groups covering every
	// member. previous carries the groups computed for the same toolset on an
	// earlier turn, as a stability hint; it may be nil.
	Divide(ctx context.Context, actions []catalog.Action, previous []Group) ([]Group, error)

	// Summarize produces a one-line summary describing the whole toolset.
	Summarize(ctx context.Context, actions []catalog.Action) (string, error)
}
