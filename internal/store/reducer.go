package store

import (
	"github.com/yourusername/shopadmin/pkg/catalog"
)

// Reduce returns the state that results from applying a to s. It never
// mutates s. Fetch results whose sequence number is not the latest issued,
// and starts older than the latest, are ignored and s is returned unchanged.
func Reduce(s State, a Action) State {
	if stale(a, s.LatestSeq) {
		return s
	}

	switch a := a.(type) {
	case FetchStarted:
		next := s.Snapshot()
		next.Status = StatusLoading
		next.Error = ""
		if a.Seq > next.LatestSeq {
			next.LatestSeq = a.Seq
		}
		return next

	case FetchSucceeded:
		next := s.Snapshot()
		next.Status = StatusSucceeded
		next.Error = ""
		next.Items = catalog.CloneProducts(a.Result.Items)
		if next.Items == nil {
			next.Items = []catalog.Product{}
		}
		next.TotalPages = a.Result.TotalPages
		if next.TotalPages < 1 {
			next.TotalPages = 1
		}
		if a.Result.CurrentPage > 0 {
			next.CurrentPage = a.Result.CurrentPage
		}
		return next

	case FetchFailed:
		next := s.Snapshot()
		next.Status = StatusFailed
		next.Error = "failed to fetch products"
		if a.Err != nil {
			next.Error = a.Err.Error()
		}
		return next

	case ProductUpdated:
		next := s.Snapshot()
		for i := range next.Items {
			if next.Items[i].ID == a.Product.ID {
				next.Items[i] = a.Product.Clone()
				break
			}
		}
		return next

	case ProductDeleted:
		next := s.Snapshot()
		kept := next.Items[:0]
		for _, p := range next.Items {
			if p.ID != a.ID {
				kept = append(kept, p)
			}
		}
		next.Items = kept
		return next
	}

	return s
}
