package client

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yourusername/shopadmin/pkg/catalog"
	apperrors "github.com/yourusername/shopadmin/pkg/errors"
)

type recordedRequest struct {
	op  string
	err error
}

type fakeRecorder struct {
	mu   sync.Mutex
	reqs []recordedRequest
}

func (r *fakeRecorder) RecordRequest(op string, _ time.Duration, err error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.reqs = append(r.reqs, recordedRequest{op: op, err: err})
}

func newTestClient(t *testing.T, handler http.Handler, opts ...Option) *HTTPClient {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	c, err := New(srv.URL, opts...)
	require.NoError(t, err)
	return c
}

func TestListAll(t *testing.T) {
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/api/product", r.URL.Path)
		assert.Empty(t, r.URL.RawQuery)
		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, `[{"_id":"a","name":"Coat","price":10,"sizes":[{"size":"S","stock":2}]}]`)
	}))

	products, err := c.ListAll(context.Background())
	require.NoError(t, err)
	require.Len(t, products, 1)
	assert.Equal(t, "a", products[0].ID)
	assert.Equal(t, 2, products[0].TotalStock())
}

func TestListAllNullBodyIsEmpty(t *testing.T) {
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, "null")
	}))

	products, err := c.ListAll(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, products)
	assert.Empty(t, products)
}

func TestListPageSendsFilter(t *testing.T) {
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/product/page", r.URL.Path)
		q := r.URL.Query()
		assert.Equal(t, "2", q.Get("page"))
		assert.Equal(t, []string{"beds", "coats"}, q["category"])
		assert.Equal(t, []string{"M"}, q["size"])
		_, _ = io.WriteString(w, `{"items":[{"_id":"b","name":"Bed","price":5,"sizes":[]}],"totalPages":4,"currentPage":2}`)
	}))

	res, err := c.ListPage(context.Background(), 2, catalog.Filter{
		Categories: []string{"coats", "beds"},
		Sizes:      []string{"M"},
	})
	require.NoError(t, err)
	assert.Equal(t, 4, res.TotalPages)
	assert.Equal(t, 2, res.CurrentPage)
	require.Len(t, res.Items, 1)
	assert.Equal(t, "Bed", res.Items[0].Name)
}

func TestUpdateSendsFullBody(t *testing.T) {
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPut, r.Method)
		assert.Equal(t, "/api/product/a%2Fb", r.URL.EscapedPath())
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))

		var body map[string]interface{}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "a/b", body["_id"])
		assert.Equal(t, "Coat", body["name"])
		assert.Equal(t, []interface{}{map[string]interface{}{"size": "S", "stock": float64(3)}}, body["sizes"])

		_ = json.NewEncoder(w).Encode(body)
	}))

	updated, err := c.Update(context.Background(), "a/b", catalog.Product{
		Name:  "Coat",
		Price: 12,
		Sizes: []catalog.SizeStock{{Size: "S", Stock: 3}},
	})
	require.NoError(t, err)
	assert.Equal(t, "a/b", updated.ID)
	assert.Equal(t, 3, updated.TotalStock())
}

func TestUpdateSendsClearedFields(t *testing.T) {
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var body map[string]interface{}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		for _, field := range []string{"description", "category", "offer", "image", "imageOne", "imageTwo"} {
			v, ok := body[field]
			if assert.True(t, ok, "body is missing %q", field) {
				assert.Equal(t, "", v, field)
			}
		}
		assert.Equal(t, []interface{}{}, body["sizes"])
		w.WriteHeader(http.StatusNoContent)
	}))

	_, err := c.Update(context.Background(), "p1", catalog.Product{Name: "x", Price: 1})
	require.NoError(t, err)
}

func TestUpdateAcknowledgementBody(t *testing.T) {
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, `{"message":"updated"}`)
	}))

	updated, err := c.Update(context.Background(), "x", catalog.Product{Name: "Hat"})
	require.NoError(t, err)
	assert.Equal(t, "x", updated.ID)
	assert.Equal(t, "Hat", updated.Name)
	assert.NotNil(t, updated.Sizes)
}

func TestDelete(t *testing.T) {
	var gotMethod, gotPath string
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotMethod, gotPath = r.Method, r.URL.Path
		w.WriteHeader(http.StatusNoContent)
	}))

	require.NoError(t, c.Delete(context.Background(), "p1"))
	assert.Equal(t, http.MethodDelete, gotMethod)
	assert.Equal(t, "/api/product/p1", gotPath)
}

func TestNonSuccessStatus(t *testing.T) {
	rec := &fakeRecorder{}
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "no such product", http.StatusNotFound)
	}), WithRecorder(rec))

	err := c.Delete(context.Background(), "missing")
	require.Error(t, err)
	assert.True(t, apperrors.IsNotFound(err))
	assert.True(t, apperrors.IsUnexpectedStatus(err))

	var se *apperrors.StatusError
	require.True(t, errors.As(err, &se))
	assert.Equal(t, OpDelete, se.Op)
	assert.Equal(t, "no such product", se.Body)

	require.Len(t, rec.reqs, 1)
	assert.Equal(t, OpDelete, rec.reqs[0].op)
	assert.Error(t, rec.reqs[0].err)
}

func TestDecodeError(t *testing.T) {
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, `{not json`)
	}))

	_, err := c.ListAll(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, apperrors.ErrDecode)
}

func TestTransportError(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	c, err := New(url)
	require.NoError(t, err)

	_, err = c.ListAll(context.Background())
	require.Error(t, err)
	assert.True(t, apperrors.IsTransport(err))
}

func TestTimeout(t *testing.T) {
	release := make(chan struct{})
	defer close(release)

	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}), WithTimeout(20*time.Millisecond))

	_, err := c.ListAll(context.Background())
	require.Error(t, err)
	assert.True(t, apperrors.IsTransport(err))
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestNewValidatesConfig(t *testing.T) {
	_, err := New("")
	assert.Error(t, err)

	_, err = New("localhost:3000/no-scheme")
	assert.Error(t, err)

	_, err = New("http://localhost:3000", WithTimeout(-time.Second))
	assert.Error(t, err)

	_, err = New("http://localhost:3000/", WithListPath("/v2/products"), WithPagePath("/v2/products/page"))
	assert.NoError(t, err)
}
