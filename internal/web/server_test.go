package web

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yourusername/shopadmin/configs"
	"github.com/yourusername/shopadmin/internal/metrics"
	"github.com/yourusername/shopadmin/pkg/catalog"
	"github.com/yourusername/shopadmin/pkg/client"
)

func init() {
	gin.SetMode(gin.TestMode)
}

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
			Offer:    "10",
			Sizes:    []catalog.SizeStock{{Size: "S", Stock: 3}, {Size: "M", Stock: 2}},
		})
	}
	return out
}

// browser keeps the session cookie between requests.
type browser struct {
	t      *testing.T
	h      http.Handler
	cookie *http.Cookie
}

func (b *browser) do(req *http.Request) *httptest.ResponseRecorder {
	b.t.Helper()
	if b.cookie != nil {
		req.AddCookie(b.cookie)
	}
	w := httptest.NewRecorder()
	b.h.ServeHTTP(w, req)
	for _, c := range w.Result().Cookies() {
		if c.Name == sessionCookie {
			b.cookie = c
		}
	}
	return w
}

func (b *browser) get(path string) *httptest.ResponseRecorder {
	return b.do(httptest.NewRequest(http.MethodGet, path, nil))
}

func (b *browser) post(path string, form url.Values) *httptest.ResponseRecorder {
	b.t.Helper()
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	w := b.do(req)
	require.Equal(b.t, http.StatusSeeOther, w.Code, path)
	require.Equal(b.t, dashboardPath, w.Header().Get("Location"))
	return w
}

func newTestServer(t *testing.T, api client.ProductAPI) (*Server, *metrics.Metrics) {
	t.Helper()
	cfg := configs.DefaultConfig()
	m := metrics.NewDefault()
	s, err := NewServer(cfg, api, nil, m)
	require.NoError(t, err)
	return s, m
}

func TestStorefrontFetchesOncePerSession(t *testing.T) {
	api := client.NewMockAPI(5, seed(3)...)
	s, _ := newTestServer(t, api)
	b := &browser{t: t, h: s.Handler()}

	w := b.get("/")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Product 1")
	assert.Contains(t, w.Body.String(), "$4.5")
	require.NotNil(t, b.cookie)

	b.get("/")
	listAll, _, _, _ := api.Calls()
	assert.Equal(t, 1, listAll)

	other := &browser{t: t, h: s.Handler()}
	other.get("/")
	listAll, _, _, _ = api.Calls()
	assert.Equal(t, 2, listAll)
	assert.Equal(t, 2, s.sessions.len())
}

func TestStorefrontFailureRendersEmptyList(t *testing.T) {
	api := client.NewMockAPI(5, seed(3)...)
	api.SetError(client.OpList, assert.AnError)
	s, _ := newTestServer(t, api)
	b := &browser{t: t, h: s.Handler()}

	w := b.get("/")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "No products available.")
}

func TestDashboardMountsOnce(t *testing.T) {
	api := client.NewMockAPI(2, seed(5)...)
	s, _ := newTestServer(t, api)
	b := &browser{t: t, h: s.Handler()}

	w := b.get("/admin")
	require.Equal(t, http.StatusOK, w.Code)
	body := w.Body.String()
	assert.Contains(t, body, "Product 1")
	assert.Contains(t, body, "Product 2")
	assert.NotContains(t, body, "Product 3")
	assert.Contains(t, body, "Page 1 of 3")
	assert.Contains(t, body, "Stock: <b>5</b>")

	b.get("/admin")
	_, listPage, _, _ := api.Calls()
	assert.Equal(t, 1, listPage)
}

func TestDashboardShowsFetchError(t *testing.T) {
	api := client.NewMockAPI(2, seed(5)...)
	api.SetError(client.OpPage, fmt.Errorf("backend exploded"))
	s, _ := newTestServer(t, api)
	b := &browser{t: t, h: s.Handler()}

	w := b.get("/admin")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "backend exploded")
}

func TestPaging(t *testing.T) {
	api := client.NewMockAPI(2, seed(5)...)
	s, _ := newTestServer(t, api)
	b := &browser{t: t, h: s.Handler()}
	b.get("/admin")

	b.post("/admin/page", url.Values{"page": {"next"}})
	reqs := api.PageRequests()
	require.Len(t, reqs, 2)
	assert.Equal(t, 2, reqs[1].Page)

	b.post("/admin/page", url.Values{"page": {"3"}})
	b.post("/admin/page", url.Values{"page": {"9"}})
	b.post("/admin/page", url.Values{"page": {"prev"}})
	reqs = api.PageRequests()
	require.Len(t, reqs, 4)
	assert.Equal(t, 3, reqs[2].Page)
	assert.Equal(t, 2, reqs[3].Page)

	w := b.get("/admin")
	assert.Contains(t, w.Body.String(), "Page 2 of 3")

	req := httptest.NewRequest(http.MethodPost, "/admin/page", strings.NewReader("page=abc"))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	assert.Equal(t, http.StatusBadRequest, b.do(req).Code)
}

func TestFilters(t *testing.T) {
	api := client.NewMockAPI(2, seed(5)...)
	s, _ := newTestServer(t, api)
	b := &browser{t: t, h: s.Handler()}
	b.get("/admin")
	b.post("/admin/page", url.Values{"page": {"2"}})

	b.post("/admin/filters", url.Values{"category": {"coats"}, "size": {"S", "M"}})
	reqs := api.PageRequests()
	last := reqs[len(reqs)-1]
	assert.Equal(t, 1, last.Page)
	assert.Equal(t, []string{"coats"}, last.Filter.Categories)
	assert.Equal(t, []string{"M", "S"}, last.Filter.Sizes)

	b.post("/admin/filters", url.Values{"category": {"coats"}, "size": {"M", "S"}})
	assert.Len(t, api.PageRequests(), len(reqs))

	w := b.get("/admin")
	assert.Contains(t, w.Body.String(), `value="coats" checked`)
}

func TestDeleteFlow(t *testing.T) {
	api := client.NewMockAPI(5, seed(3)...)
	s, _ := newTestServer(t, api)
	b := &browser{t: t, h: s.Handler()}
	b.get("/admin")

	b.post("/admin/products/p01/delete", nil)
	w := b.get("/admin")
	assert.Contains(t, w.Body.String(), "Delete this product?")

	b.post("/admin/delete/cancel", nil)
	w = b.get("/admin")
	assert.NotContains(t, w.Body.String(), "Delete this product?")
	_, _, _, deletes := api.Calls()
	assert.Zero(t, deletes)

	b.post("/admin/products/p01/delete", nil)
	b.post("/admin/delete/confirm", nil)
	_, _, _, deletes = api.Calls()
	assert.Equal(t, 1, deletes)
	_, ok := api.Product("p01")
	assert.False(t, ok)

	w = b.get("/admin")
	assert.NotContains(t, w.Body.String(), "Product 1<")
	assert.NotContains(t, w.Body.String(), "Delete this product?")
}

func TestEditFlow(t *testing.T) {
	api := client.NewMockAPI(5, seed(3)...)
	s, _ := newTestServer(t, api)
	b := &browser{t: t, h: s.Handler()}
	b.get("/admin")

	b.post("/admin/products/p02/edit", nil)
	w := b.get("/admin")
	body := w.Body.String()
	assert.Contains(t, body, `action="/admin/products/p02/save"`)
	assert.Contains(t, body, `value="Product 2"`)
	assert.Contains(t, body, "S,3\nM,2")

	b.post("/admin/products/p02/save", url.Values{
		"name":  {"Raincoat"},
		"price": {"12.5"},
		"sizes": {"S,1\nM,bad\nL,4"},
	})
	updates := api.Updates()
	require.Len(t, updates, 1)
	assert.Equal(t, "Raincoat", updates[0].Name)
	assert.Equal(t, 12.5, updates[0].Price)
	assert.Equal(t, 5, updates[0].TotalStock())
	assert.Equal(t, catalog.Offer("10"), updates[0].Offer)

	w = b.get("/admin")
	assert.NotContains(t, w.Body.String(), `action="/admin/products/p02/save"`)
	assert.Contains(t, w.Body.String(), "Raincoat")
}

func TestEditWithInvalidPriceKeepsForm(t *testing.T) {
	api := client.NewMockAPI(5, seed(3)...)
	s, _ := newTestServer(t, api)
	b := &browser{t: t, h: s.Handler()}
	b.get("/admin")

	b.post("/admin/products/p01/edit", nil)
	b.post("/admin/products/p01/save", url.Values{"price": {"cheap"}})
	_, _, updates, _ := api.Calls()
	assert.Zero(t, updates)

	w := b.get("/admin")
	assert.Contains(t, w.Body.String(), `value="cheap"`)

	b.post("/admin/edit/cancel", nil)
	w = b.get("/admin")
	assert.NotContains(t, w.Body.String(), `action="/admin/products/p01/save"`)
}

func TestEditUnknownProductIsIgnored(t *testing.T) {
	api := client.NewMockAPI(5, seed(3)...)
	s, _ := newTestServer(t, api)
	b := &browser{t: t, h: s.Handler()}
	b.get("/admin")

	b.post("/admin/products/p99/edit", nil)
	w := b.get("/admin")
	assert.NotContains(t, w.Body.String(), `class="edit-form"`)
}

func TestMetricsAndHealth(t *testing.T) {
	api := client.NewMockAPI(5, seed(3)...)
	s, m := newTestServer(t, api)
	m.RecordRequest(client.OpPage, time.Millisecond, nil)

	w := httptest.NewRecorder()
	s.Handler().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `shopadmin_requests_total{service="web",op="page"} 1`)

	w = httptest.NewRecorder()
	s.Handler().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, w.Result().Cookies())
}

func TestUnknownSessionCookieIsReplaced(t *testing.T) {
	api := client.NewMockAPI(5, seed(3)...)
	s, _ := newTestServer(t, api)
	b := &browser{t: t, h: s.Handler(), cookie: &http.Cookie{Name: sessionCookie, Value: "forged"}}

	b.get("/")
	require.NotNil(t, b.cookie)
	assert.NotEqual(t, "forged", b.cookie.Value)
	assert.True(t, b.cookie.HttpOnly)
}

func TestSessionStoreExpiresIdleSessions(t *testing.T) {
	now := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	st := newSessionStore(time.Minute, func(id string) *session { return &session{id: id} })
	st.now = func() time.Time { return now }

	a, created := st.acquire("")
	require.True(t, created)
	again, created := st.acquire(a.id)
	assert.False(t, created)
	assert.Same(t, a, again)

	now = now.Add(2 * time.Minute)
	b, created := st.acquire(a.id)
	assert.True(t, created)
	assert.NotEqual(t, a.id, b.id)
	assert.Equal(t, 1, st.len())
}
