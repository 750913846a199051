package catalogsvc

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"net/http"
	"testing"

	"github.com/aws/aws-lambda-go/events"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yourusername/shopadmin/pkg/catalog"
)

func newTestLambda() (*LambdaHandler, *MemoryStorage) {
	storage := NewMemoryStorage(0, fixture()...)
	svc := NewProductService(storage, WithPageSize(2))
	return NewLambdaHandler(svc, nil), storage
}

func invoke(t *testing.T, h *LambdaHandler, req events.APIGatewayProxyRequest) events.APIGatewayProxyResponse {
	t.Helper()
	resp, err := h.Handle(context.Background(), req)
	require.NoError(t, err)
	assert.Equal(t, "application/json", resp.Headers["Content-Type"])
	return resp
}

func TestLambdaListAll(t *testing.T) {
	h, _ := newTestLambda()
	resp := invoke(t, h, events.APIGatewayProxyRequest{HTTPMethod: http.MethodGet, Path: "/api/product/"})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var items []catalog.Product
	require.NoError(t, json.Unmarshal([]byte(resp.Body), &items))
	assert.Len(t, items, 4)
}

func TestLambdaListPageUsesMultiValueQuery(t *testing.T) {
	h, _ := newTestLambda()
	resp := invoke(t, h, events.APIGatewayProxyRequest{
		HTTPMethod: http.MethodGet,
		Path:       "/api/product/page",
		MultiValueQueryStringParameters: map[string][]string{
			"category": {"coats", "beds"},
			"size":     {"L"},
		},
		QueryStringParameters: map[string]string{"page": "1", "category": "beds"},
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var page catalog.PageResult
	require.NoError(t, json.Unmarshal([]byte(resp.Body), &page))
	assert.Equal(t, []string{"Anorak", "Bed"}, names(page.Items))
	assert.Equal(t, 1, page.TotalPages)
}

func TestLambdaListPageRejectsBadPage(t *testing.T) {
	h, _ := newTestLambda()
	resp := invoke(t, h, events.APIGatewayProxyRequest{
		HTTPMethod:            http.MethodGet,
		Path:                  "/api/product/page",
		QueryStringParameters: map[string]string{"page": "zero"},
	})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestLambdaItemRoutes(t *testing.T) {
	h, storage := newTestLambda()

	resp := invoke(t, h, events.APIGatewayProxyRequest{HTTPMethod: http.MethodGet, Path: "/api/product/1"})
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, resp.Body, `"name":"Bed"`)

	body := base64.StdEncoding.EncodeToString([]byte(`{"name":"Cot","price":30}`))
	resp = invoke(t, h, events.APIGatewayProxyRequest{
		HTTPMethod: http.MethodPut, Path: "/api/product/1", Body: body, IsBase64Encoded: true,
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	p, err := storage.Get(context.Background(), "1")
	require.NoError(t, err)
	assert.Equal(t, "Cot", p.Name)

	resp = invoke(t, h, events.APIGatewayProxyRequest{HTTPMethod: http.MethodDelete, Path: "/api/product/1"})
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	resp = invoke(t, h, events.APIGatewayProxyRequest{HTTPMethod: http.MethodDelete, Path: "/api/product/1"})
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.Contains(t, resp.Body, `"error"`)

	resp = invoke(t, h, events.APIGatewayProxyRequest{HTTPMethod: http.MethodPatch, Path: "/api/product/2"})
	assert.Equal(t, http.StatusMethodNotAllowed, resp.StatusCode)
}

func TestLambdaCreate(t *testing.T) {
	h, _ := newTestLambda()
	resp := invoke(t, h, events.APIGatewayProxyRequest{
		HTTPMethod: http.MethodPost, Path: "/api/product", Body: `{"name":"Ball","price":2}`,
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	resp = invoke(t, h, events.APIGatewayProxyRequest{
		HTTPMethod: http.MethodPost, Path: "/api/product", Body: `{"name":" "}`,
	})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp = invoke(t, h, events.APIGatewayProxyRequest{
		HTTPMethod: http.MethodPost, Path: "/api/product", Body: `nope`,
	})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestLambdaUnknownRoute(t *testing.T) {
	h, _ := newTestLambda()
	for _, path := range []string{"/", "/api/orders", "/api/product/1/images"} {
		resp := invoke(t, h, events.APIGatewayProxyRequest{HTTPMethod: http.MethodGet, Path: path})
		assert.Equal(t, http.StatusNotFound, resp.StatusCode, path)
	}
}
