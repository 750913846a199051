package store

import (
	"github.com/yourusername/shopadmin/pkg/catalog"
)

// Action is a discrete, named state transition.
type Action interface {
	Name() string
}

// FetchStarted marks the start of the list fetch numbered Seq.
type FetchStarted struct {
	Seq    uint64
	Page   int
	Filter catalog.Filter
}

// FetchSucceeded carries the page returned for fetch Seq.
type FetchSucceeded struct {
	Seq    uint64
	Result catalog.PageResult
}

// FetchFailed carries the error of fetch Seq.
type FetchFailed struct {
	Seq uint64
	Err error
}

// ProductUpdated replaces a loaded product after a successful update.
type ProductUpdated struct {
	Product catalog.Product
}

// ProductDeleted removes a loaded product after a successful delete.
type ProductDeleted struct {
	ID string
}

func (FetchStarted) Name() string   { return "products/fetch/pending" }
func (FetchSucceeded) Name() string { return "products/fetch/fulfilled" }
func (FetchFailed) Name() string    { return "products/fetch/rejected" }
func (ProductUpdated) Name() string { return "products/update/fulfilled" }
func (ProductDeleted) Name() string { return "products/delete/fulfilled" }

// seqOf returns the sequence number carried by fetch result actions.
func seqOf(a Action) (uint64, bool) {
	switch a := a.(type) {
	case FetchSucceeded:
		return a.Seq, true
	case FetchFailed:
		return a.Seq, true
	}
	return 0, false
}

// stale reports whether a belongs to a fetch that was superseded. A result is
// stale unless it carries the latest sequence number; a start is stale when a
// newer fetch has already started.
func stale(a Action, latest uint64) bool {
	if st, ok := a.(FetchStarted); ok {
		return st.Seq < latest
	}
	if seq, ok := seqOf(a); ok {
		return seq != latest
	}
	return false
}
