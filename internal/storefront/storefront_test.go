package storefront

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/yourusername/shopadmin/pkg/catalog"
	"github.com/yourusername/shopadmin/pkg/client"
)

func TestMountFetchesOnce(t *testing.T) {
	api := client.NewMockAPI(10,
		catalog.Product{ID: "a", Name: "Alpha"},
		catalog.Product{ID: "b", Name: "Beta"},
	)
	l := New(api, zap.NewNop())
	assert.False(t, l.Mounted())

	l.Mount(context.Background())
	l.Mount(context.Background())

	assert.True(t, l.Mounted())
	assert.Len(t, l.Products(), 2)
	listAll, listPage, _, _ := api.Calls()
	assert.Equal(t, 1, listAll)
	assert.Zero(t, listPage)
}

func TestMountFailureLogsOnce(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/product", r.URL.Path)
		assert.Empty(t, r.URL.RawQuery)
		http.Error(w, "nope", http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	api, err := client.New(srv.URL)
	require.NoError(t, err)

	core, logs := observer.New(zapcore.DebugLevel)
	l := New(api, zap.New(core))
	l.Mount(context.Background())
	l.Mount(context.Background())

	assert.Empty(t, l.Products())
	assert.NotNil(t, l.Products())
	entries := logs.FilterMessage("error fetching products").All()
	require.Len(t, entries, 1)
	assert.Equal(t, zapcore.ErrorLevel, entries[0].Level)

	loggedErr, ok := entries[0].ContextMap()["error"]
	require.True(t, ok)
	assert.Contains(t, loggedErr, "503")
}

func TestMountTransportFailure(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	api, err := client.New(url)
	require.NoError(t, err)

	core, logs := observer.New(zapcore.DebugLevel)
	l := New(api, zap.New(core))
	l.Mount(context.Background())

	assert.Empty(t, l.Products())
	assert.Equal(t, 1, logs.Len())
}

func TestProductsIsCopy(t *testing.T) {
	api := client.NewMockAPI(10, catalog.Product{ID: "a", Name: "Alpha"})
	l := New(api, nil)
	l.Mount(context.Background())

	got := l.Products()
	got[0].Name = "changed"
	assert.Equal(t, "Alpha", l.Products()[0].Name)
}
