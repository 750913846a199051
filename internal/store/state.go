// Package store holds the dashboard's product state in an explicit container.
// Every mutation goes through Dispatch with a named Action; views subscribe to
// be told when to re-render.
package store

import (
	"github.com/yourusername/shopadmin/pkg/catalog"
)

// Status describes the outcome of the last list fetch.
type Status int

const (
	StatusIdle Status = iota
	StatusLoading
	StatusSucceeded
	StatusFailed
)

// String returns idle, loading, succeeded or failed.
func (s Status) String() string {
	switch s {
	case StatusIdle:
		return "idle"
	case StatusLoading:
		return "loading"
	case StatusSucceeded:
		return "succeeded"
	case StatusFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// State is the product slice of the application state. It is a disposable
// projection of the last successful response.
type State struct {
	Items       []catalog.Product
	Status      Status
	Error       string
	TotalPages  int
	CurrentPage int

	// LatestSeq is the sequence number of the most recently issued fetch.
	// Results carrying any other number are stale.
	LatestSeq uint64
}

// InitialState is the state of a fresh store.
func InitialState() State {
	return State{
		Items:       []catalog.Product{},
		Status:      StatusIdle,
		TotalPages:  1,
		CurrentPage: 1,
	}
}

// Snapshot returns a deep copy safe to hand to renderers.
func (s State) Snapshot() State {
	out := s
	out.Items = catalog.CloneProducts(s.Items)
	if out.Items == nil {
		out.Items = []catalog.Product{}
	}
	return out
}

// Find returns the loaded product with the given id.
func (s State) Find(id string) (catalog.Product, bool) {
	for _, p := range s.Items {
		if p.ID == id {
			return p.Clone(), true
		}
	}
	return catalog.Product{}, false
}
