package dashboard

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/yourusername/shopadmin/internal/store"
	"github.com/yourusername/shopadmin/pkg/catalog"
	"github.com/yourusername/shopadmin/pkg/client"
	apperrors "github.com/yourusername/shopadmin/pkg/errors"
)

func seed(n int) []catalog.Product {
	out := make([]catalog.Product, 0, n)
	for i := 1; i <= n; i++ {
		category := "coats"
		if i%2 == 0 {
			category = "beds"
		}
		out = append(out, catalog.Product{
			ID:       fmt.Sprintf("p%02d", i),
			Name:     fmt.Sprintf("Product %d", i),
			Price:    float64(i) * 1.5,
			Category: category,
			Sizes:    []catalog.SizeStock{{Size: "S", Stock: 3}, {Size: "M", Stock: 2}},
		})
	}
	return out
}

func newTestController(t *testing.T, api *client.MockAPI, opts ...Option) (*Controller, *observer.ObservedLogs) {
	t.Helper()
	core, logs := observer.New(zapcore.DebugLevel)
	c := New(api, store.New(), zap.New(core), opts...)
	return c, logs
}

func TestMountFetchesInitialPage(t *testing.T) {
	api := client.NewMockAPI(4, seed(10)...)
	c, _ := newTestController(t, api, WithInitialPage(2))

	require.NoError(t, c.Mount(context.Background()))

	v := c.View()
	assert.Equal(t, ViewList, v.State)
	assert.Equal(t, 2, v.Page)
	assert.Equal(t, 3, v.TotalPages)
	assert.True(t, v.HasPrev)
	assert.True(t, v.HasNext)
	require.Len(t, v.Rows, 4)
	assert.Equal(t, "p05", v.Rows[0].Product.ID)
	assert.Equal(t, 5, v.Rows[0].TotalStock)
}

func TestGoToPage(t *testing.T) {
	api := client.NewMockAPI(4, seed(10)...)
	c, _ := newTestController(t, api)
	require.NoError(t, c.Mount(context.Background()))

	_, before, _, _ := api.Calls()
	assert.False(t, c.GoToPage(context.Background(), 0))
	assert.False(t, c.GoToPage(context.Background(), 4))
	_, after, _, _ := api.Calls()
	assert.Equal(t, before, after, "out-of-range pages must not fetch")
	assert.Equal(t, 1, c.View().Page)

	f := catalog.Filter{Categories: []string{"beds"}}
	require.True(t, c.SetFilters(context.Background(), f))
	require.True(t, c.GoToPage(context.Background(), 2))

	reqs := api.PageRequests()
	last := reqs[len(reqs)-1]
	assert.Equal(t, 2, last.Page)
	assert.True(t, last.Filter.Equal(f), "filters are unchanged by paging")
	_, calls, _, _ := api.Calls()
	assert.Equal(t, before+2, calls)
}

func TestNextPrevPage(t *testing.T) {
	api := client.NewMockAPI(5, seed(10)...)
	c, _ := newTestController(t, api)
	require.NoError(t, c.Mount(context.Background()))

	assert.False(t, c.PrevPage(context.Background()))
	assert.True(t, c.NextPage(context.Background()))
	assert.False(t, c.NextPage(context.Background()))
	assert.Equal(t, 2, c.View().Page)
	assert.True(t, c.PrevPage(context.Background()))
	assert.Equal(t, 1, c.View().Page)
}

func TestSetFiltersResetsPage(t *testing.T) {
	api := client.NewMockAPI(2, seed(10)...)
	c, _ := newTestController(t, api)
	require.NoError(t, c.Mount(context.Background()))
	require.True(t, c.GoToPage(context.Background(), 3))

	f := catalog.Filter{Categories: []string{"coats"}, Sizes: []string{"S"}}
	require.True(t, c.SetFilters(context.Background(), f))
	assert.Equal(t, 1, c.View().Page)

	_, calls, _, _ := api.Calls()
	assert.False(t, c.SetFilters(context.Background(), catalog.Filter{Sizes: []string{"S", "S"}, Categories: []string{" coats"}}))
	_, again, _, _ := api.Calls()
	assert.Equal(t, calls, again)
}

func TestOverlappingFetchesLatestWins(t *testing.T) {
	api := client.NewMockAPI(4, seed(8)...)
	c, _ := newTestController(t, api)
	require.NoError(t, c.Mount(context.Background()))

	release := make(chan struct{})
	held := make(chan struct{})
	var once sync.Once
	api.BeforeListPage = func(ctx context.Context, page int, _ catalog.Filter) {
		if page == 1 {
			once.Do(func() { close(held) })
			<-release
		}
	}

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		assert.True(t, c.GoToPage(context.Background(), 1))
	}()

	<-held
	require.True(t, c.GoToPage(context.Background(), 2))
	close(release)
	wg.Wait()

	v := c.View()
	assert.Equal(t, ViewList, v.State)
	assert.Equal(t, store.StatusSucceeded, v.Status)
	assert.Equal(t, 2, v.Page)
	require.Len(t, v.Rows, 4)
	assert.Equal(t, "p05", v.Rows[0].Product.ID)
}

func TestFetchFailureShowsError(t *testing.T) {
	api := client.NewMockAPI(2)
	api.SetError(client.OpPage, errors.New("connection refused"))
	c, logs := newTestController(t, api)

	require.Error(t, c.Mount(context.Background()))

	v := c.View()
	assert.Equal(t, ViewError, v.State)
	assert.Equal(t, "connection refused", v.Error)
	assert.Equal(t, 1, logs.FilterMessage("error fetching products").Len())
}

func TestDeleteConfirmationRoundTrip(t *testing.T) {
	api := client.NewMockAPI(10, seed(3)...)
	c, _ := newTestController(t, api)
	require.NoError(t, c.Mount(context.Background()))

	c.RequestDelete("p02")
	v := c.View()
	assert.True(t, v.ConfirmVisible)
	assert.Equal(t, "p02", v.PendingDeleteID)
	assert.Len(t, v.Rows, 3, "requesting a delete does not touch the list")

	c.CancelDelete()
	v = c.View()
	assert.False(t, v.ConfirmVisible)
	assert.Empty(t, v.PendingDeleteID)
	assert.Len(t, v.Rows, 3)
	_, _, _, deletes := api.Calls()
	assert.Zero(t, deletes)
}

func TestConfirmDelete(t *testing.T) {
	api := client.NewMockAPI(10, seed(3)...)
	c, _ := newTestController(t, api)
	require.NoError(t, c.Mount(context.Background()))

	c.RequestDelete("p02")
	require.NoError(t, c.ConfirmDelete(context.Background()))

	v := c.View()
	assert.False(t, v.ConfirmVisible)
	assert.Len(t, v.Rows, 2)
	_, ok := api.Product("p02")
	assert.False(t, ok)
}

func TestConfirmDeleteFailureClearsConfirmation(t *testing.T) {
	api := client.NewMockAPI(10, seed(3)...)
	api.SetError(client.OpDelete, errors.New("forbidden"))
	c, logs := newTestController(t, api)
	require.NoError(t, c.Mount(context.Background()))

	c.RequestDelete("p01")
	require.Error(t, c.ConfirmDelete(context.Background()))

	v := c.View()
	assert.False(t, v.ConfirmVisible)
	assert.Empty(t, v.PendingDeleteID)
	assert.Len(t, v.Rows, 3)
	assert.Equal(t, 1, logs.FilterMessage("error deleting product").Len())
	_, _, _, deletes := api.Calls()
	assert.Equal(t, 1, deletes, "no retry")
}

func TestConfirmDeleteWithNothingPending(t *testing.T) {
	api := client.NewMockAPI(10, seed(1)...)
	c, _ := newTestController(t, api)

	err := c.ConfirmDelete(context.Background())
	assert.ErrorIs(t, err, apperrors.ErrNoPendingDelete)
	_, _, _, deletes := api.Calls()
	assert.Zero(t, deletes)
}

func TestStartEditSeedsBuffer(t *testing.T) {
	api := client.NewMockAPI(10)
	c, _ := newTestController(t, api)

	p := catalog.Product{ID: "x", Name: "Coat", Price: 12.5, Sizes: []catalog.SizeStock{{Size: "L", Stock: 1}}}
	c.StartEdit(p)
	p.Sizes[0].Stock = 100

	v := c.View()
	require.NotNil(t, v.Edit)
	assert.Equal(t, "x", v.EditingID)
	assert.Equal(t, "Coat", v.Edit.Name)
	assert.Equal(t, "12.5", v.Edit.Price)
	assert.Empty(t, v.Edit.Description)
	assert.Empty(t, v.Edit.Offer)
	assert.Equal(t, []catalog.SizeStock{{Size: "L", Stock: 1}}, v.Edit.Sizes)
	assert.Equal(t, "L,1", v.Edit.SizesText)
}

func TestStartEditByID(t *testing.T) {
	api := client.NewMockAPI(10, seed(2)...)
	c, _ := newTestController(t, api)

	assert.ErrorIs(t, c.StartEditByID("p01"), apperrors.ErrProductNotLoaded)
	require.NoError(t, c.Mount(context.Background()))
	require.NoError(t, c.StartEditByID("p01"))

	v := c.View()
	assert.True(t, v.Rows[0].Editing)
	assert.False(t, v.Rows[1].Editing)
}

func TestUpdateEditField(t *testing.T) {
	api := client.NewMockAPI(10)
	c, _ := newTestController(t, api)

	assert.ErrorIs(t, c.UpdateEditField(FieldName, "x"), apperrors.ErrNoEditSession)

	c.StartEdit(catalog.Product{ID: "x"})
	require.NoError(t, c.UpdateEditField(FieldName, "Parka"))
	require.NoError(t, c.UpdateEditField(FieldSizes, "S,5\nM,bad\nL"))
	assert.ErrorIs(t, c.UpdateEditField("colour", "red"), apperrors.ErrUnknownField)

	v := c.View()
	assert.Equal(t, "Parka", v.Edit.Name)
	assert.Equal(t, []catalog.SizeStock{{Size: "S", Stock: 5}, {Size: "M", Stock: 0}, {Size: "L", Stock: 0}}, v.Edit.Sizes)
}

func TestUpdateEditFieldStrictSizes(t *testing.T) {
	api := client.NewMockAPI(10)
	c, _ := newTestController(t, api, WithStrictSizes(true))
	c.StartEdit(catalog.Product{ID: "x", Sizes: []catalog.SizeStock{{Size: "S", Stock: 1}}})

	err := c.UpdateEditField(FieldSizes, "S,5\nM,bad")
	assert.ErrorIs(t, err, apperrors.ErrInvalidSizes)
	assert.Equal(t, []catalog.SizeStock{{Size: "S", Stock: 1}}, c.View().Edit.Sizes)
}

func TestSubmitEditSuccessRefetchesOnce(t *testing.T) {
	api := client.NewMockAPI(10, seed(3)...)
	c, _ := newTestController(t, api)
	require.NoError(t, c.Mount(context.Background()))
	require.NoError(t, c.StartEditByID("p02"))
	require.NoError(t, c.UpdateEditField(FieldPrice, "99.9"))
	require.NoError(t, c.UpdateEditField(FieldSizes, "XL,4"))

	_, before, _, _ := api.Calls()
	require.NoError(t, c.SubmitEdit(context.Background(), "p02"))
	_, after, updates, _ := api.Calls()

	assert.Equal(t, before+1, after)
	assert.Equal(t, 1, updates)

	sent := api.Updates()
	require.Len(t, sent, 1)
	assert.Equal(t, 99.9, sent[0].Price)
	assert.Equal(t, []catalog.SizeStock{{Size: "XL", Stock: 4}}, sent[0].Sizes)

	v := c.View()
	assert.Nil(t, v.Edit)
	assert.Empty(t, v.EditingID)
	assert.Equal(t, 4, v.Rows[1].TotalStock)
}

func TestSubmitEditFailureKeepsSession(t *testing.T) {
	api := client.NewMockAPI(10, seed(3)...)
	api.SetError(client.OpUpdate, errors.New("500"))
	c, logs := newTestController(t, api)
	require.NoError(t, c.Mount(context.Background()))
	require.NoError(t, c.StartEditByID("p01"))

	_, before, _, _ := api.Calls()
	require.Error(t, c.SubmitEdit(context.Background(), "p01"))
	_, after, _, _ := api.Calls()

	assert.Equal(t, before, after, "no refetch after a failed submit")
	assert.Equal(t, "p01", c.View().EditingID)
	assert.Equal(t, 1, logs.FilterMessage("error updating product").Len())
}

func TestSubmitEditInvalidPrice(t *testing.T) {
	api := client.NewMockAPI(10, seed(1)...)
	c, _ := newTestController(t, api)
	require.NoError(t, c.Mount(context.Background()))
	require.NoError(t, c.StartEditByID("p01"))
	require.NoError(t, c.UpdateEditField(FieldPrice, "cheap"))

	assert.ErrorIs(t, c.SubmitEdit(context.Background(), "p01"), apperrors.ErrInvalidPrice)
	_, _, updates, _ := api.Calls()
	assert.Zero(t, updates)
	assert.NotNil(t, c.View().Edit)
}

func TestSubmitEditWrongID(t *testing.T) {
	api := client.NewMockAPI(10, seed(2)...)
	c, _ := newTestController(t, api)
	require.NoError(t, c.Mount(context.Background()))
	require.NoError(t, c.StartEditByID("p01"))

	assert.ErrorIs(t, c.SubmitEdit(context.Background(), "p02"), apperrors.ErrNoEditSession)
}

func TestCancelEdit(t *testing.T) {
	api := client.NewMockAPI(10, seed(2)...)
	c, _ := newTestController(t, api)
	require.NoError(t, c.Mount(context.Background()))
	require.NoError(t, c.StartEditByID("p01"))
	c.CancelEdit()

	v := c.View()
	assert.Nil(t, v.Edit)
	assert.False(t, v.Rows[0].Editing)
}
