package dashboard

import (
	"github.com/yourusername/shopadmin/internal/store"
	"github.com/yourusername/shopadmin/pkg/catalog"
)

// ViewState selects what a renderer shows.
type ViewState string

const (
	ViewIdle    ViewState = "idle"
	ViewLoading ViewState = "loading"
	ViewList    ViewState = "list"
	ViewError   ViewState = "error"
)

// Row is one rendered product.
type Row struct {
	Product    catalog.Product
	TotalStock int
	Editing    bool
}

// ViewModel is everything a renderer needs to draw the dashboard.
// It is a deep copy and may be kept by the caller.
type ViewModel struct {
	State      ViewState
	Status     store.Status
	Error      string
	Rows       []Row
	Page       int
	TotalPages int
	HasPrev    bool
	HasNext    bool
	Filter     catalog.Filter

	ConfirmVisible  bool
	PendingDeleteID string

	EditingID string
	Edit      *EditBuffer
}

func viewStateOf(s store.Status) ViewState {
	switch s {
	case store.StatusLoading:
		return ViewLoading
	case store.StatusSucceeded:
		return ViewList
	case store.StatusFailed:
		return ViewError
	default:
		return ViewIdle
	}
}
