// Package dashboard implements the admin product dashboard: paging and
// filtering the product list, deleting with confirmation and inline editing.
// Renderers drive a Controller and draw its ViewModel.
package dashboard

import (
	"context"
	"sync"

	"go.uber.org/zap"

	"github.com/yourusername/shopadmin/internal/store"
	"github.com/yourusername/shopadmin/pkg/catalog"
	"github.com/yourusername/shopadmin/pkg/client"
	apperrors "github.com/yourusername/shopadmin/pkg/errors"
)

// Controller owns the dashboard's UI state and issues the product requests.
// Product data lives in the store; the controller holds only paging, filter,
// delete confirmation and edit state. It is safe for concurrent use, and no
// lock is held while a request is in flight.
type Controller struct {
	api    client.ProductAPI
	store  *store.Store
	logger *zap.Logger
	config Config

	mu              sync.Mutex
	page            int
	filter          catalog.Filter
	pendingDeleteID string
	confirmVisible  bool
	editingID       string
	edit            *EditBuffer
}

// New creates a controller over api and s.
func New(api client.ProductAPI, s *store.Store, logger *zap.Logger, opts ...Option) *Controller {
	cfg := defaultConfig()
	for _, opt := range opts {
		opt(&cfg)
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Controller{
		api:    api,
		store:  s,
		logger: logger.Named("dashboard"),
		config: cfg,
		page:   cfg.InitialPage,
	}
}

// Store returns the state container the controller dispatches to.
func (c *Controller) Store() *store.Store {
	return c.store
}

// Mount fetches the current page with the current filters.
func (c *Controller) Mount(ctx context.Context) error {
	c.mu.Lock()
	page, filter := c.page, c.filter.Clone()
	c.mu.Unlock()
	return c.fetch(ctx, page, filter)
}

// Refresh refetches the current page. It behaves like Mount.
func (c *Controller) Refresh(ctx context.Context) error {
	return c.Mount(ctx)
}

// GoToPage moves to page n and fetches it. Pages outside 1..totalPages are
// ignored and GoToPage reports false without fetching.
func (c *Controller) GoToPage(ctx context.Context, n int) bool {
	total := c.store.State().TotalPages
	if n < 1 || n > total {
		return false
	}

	c.mu.Lock()
	c.page = n
	filter := c.filter.Clone()
	c.mu.Unlock()

	_ = c.fetch(ctx, n, filter)
	return true
}

// NextPage goes to the page after the current one.
func (c *Controller) NextPage(ctx context.Context) bool {
	return c.GoToPage(ctx, c.currentPage()+1)
}

// PrevPage goes to the page before the current one.
func (c *Controller) PrevPage(ctx context.Context) bool {
	return c.GoToPage(ctx, c.currentPage()-1)
}

// SetFilters replaces the filter set. A different set resets to page 1 and
// fetches; an equal set is ignored and SetFilters reports false.
func (c *Controller) SetFilters(ctx context.Context, f catalog.Filter) bool {
	f = f.Normalize()

	c.mu.Lock()
	if c.filter.Equal(f) {
		c.mu.Unlock()
		return false
	}
	c.filter = f
	c.page = 1
	c.mu.Unlock()

	_ = c.fetch(ctx, 1, f.Clone())
	return true
}

// RequestDelete asks for confirmation before deleting id.
func (c *Controller) RequestDelete(id string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.pendingDeleteID = id
	c.confirmVisible = true
}

// CancelDelete dismisses the confirmation without a request.
func (c *Controller) CancelDelete() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.clearDeleteLocked()
}

// ConfirmDelete deletes the pending product. The confirmation is cleared
// whether or not the request succeeds; failures are logged and returned.
func (c *Controller) ConfirmDelete(ctx context.Context) error {
	c.mu.Lock()
	id, visible := c.pendingDeleteID, c.confirmVisible
	c.mu.Unlock()

	if !visible || id == "" {
		c.logger.Warn("delete confirmed with nothing pending")
		return apperrors.ErrNoPendingDelete
	}

	err := store.DeleteProduct(ctx, c.store, c.api, id)

	c.mu.Lock()
	if c.pendingDeleteID == id {
		c.clearDeleteLocked()
	}
	c.mu.Unlock()

	if err != nil {
		c.logger.Error("error deleting product", zap.String("id", id), zap.Error(err))
		return err
	}
	c.logger.Info("product deleted", zap.String("id", id))
	return nil
}

// StartEdit opens an edit session seeded from p. Any other session is
// replaced.
func (c *Controller) StartEdit(p catalog.Product) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.editingID = p.ID
	c.edit = newEditBuffer(p)
}

// StartEditByID opens an edit session for a product on the loaded page.
func (c *Controller) StartEditByID(id string) error {
	p, ok := c.store.State().Find(id)
	if !ok {
		return apperrors.ErrProductNotLoaded
	}
	c.StartEdit(p)
	return nil
}

// UpdateEditField sets one field of the edit buffer. The sizes field is
// parsed from "size,stock" lines.
func (c *Controller) UpdateEditField(name, value string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.edit == nil {
		return apperrors.ErrNoEditSession
	}
	return c.edit.set(name, value, c.config.StrictSizes)
}

// SubmitEdit sends the edit buffer as an update of id. On success the
// session is closed and the current page is fetched again. On failure the
// error is logged and the session stays open.
func (c *Controller) SubmitEdit(ctx context.Context, id string) error {
	c.mu.Lock()
	if c.edit == nil || (id != "" && id != c.editingID) {
		c.mu.Unlock()
		return apperrors.ErrNoEditSession
	}
	if id == "" {
		id = c.editingID
	}
	p, err := c.edit.product(id)
	c.mu.Unlock()
	if err != nil {
		c.logger.Error("error updating product", zap.String("id", id), zap.Error(err))
		return err
	}

	if _, err := store.UpdateProduct(ctx, c.store, c.api, id, p); err != nil {
		c.logger.Error("error updating product", zap.String("id", id), zap.Error(err))
		return err
	}

	c.mu.Lock()
	if c.editingID == id {
		c.editingID = ""
		c.edit = nil
	}
	page, filter := c.page, c.filter.Clone()
	c.mu.Unlock()

	_ = c.fetch(ctx, page, filter)
	return nil
}

// CancelEdit discards the edit session.
func (c *Controller) CancelEdit() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.editingID = ""
	c.edit = nil
}

// View returns the current view model.
func (c *Controller) View() ViewModel {
	st := c.store.State()

	c.mu.Lock()
	defer c.mu.Unlock()

	rows := make([]Row, 0, len(st.Items))
	for _, p := range st.Items {
		rows = append(rows, Row{
			Product:    p,
			TotalStock: p.TotalStock(),
			Editing:    c.edit != nil && p.ID == c.editingID,
		})
	}

	page := c.page
	return ViewModel{
		State:           viewStateOf(st.Status),
		Status:          st.Status,
		Error:           st.Error,
		Rows:            rows,
		Page:            page,
		TotalPages:      st.TotalPages,
		HasPrev:         page > 1,
		HasNext:         page < st.TotalPages,
		Filter:          c.filter.Clone(),
		ConfirmVisible:  c.confirmVisible,
		PendingDeleteID: c.pendingDeleteID,
		EditingID:       c.editingID,
		Edit:            c.edit.Clone(),
	}
}

func (c *Controller) currentPage() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.page
}

func (c *Controller) clearDeleteLocked() {
	c.pendingDeleteID = ""
	c.confirmVisible = false
}

func (c *Controller) fetch(ctx context.Context, page int, filter catalog.Filter) error {
	err := store.FetchProducts(ctx, c.store, c.api, page, filter)
	if err != nil {
		c.logger.Error("error fetching products",
			zap.Int("page", page),
			zap.Strings("category", filter.Categories),
			zap.Strings("size", filter.Sizes),
			zap.Error(err))
	}
	return err
}
