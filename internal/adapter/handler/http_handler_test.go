package handler

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rl1809/vending-machine/internal/adapter/storage"
	"github.com/rl1809/vending-machine/internal/core/service"
)

func newTestMux(t *testing.T) *http.ServeMux {
	t.Helper()

	svc := service.NewVendingService(storage.NewMemoryAdapter(), 0)
	mux := http.NewServeMux()
	NewHTTPHandler(svc).Register(mux)
	return mux
}

func doRequest(t *testing.T, mux *http.ServeMux, method, path, sender, body string) *httptest.ResponseRecorder {
	t.Helper()

	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if sender != "" {
		req.Header.Set(SenderHeader, sender)
	}
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)
	return rec
}

func decodeExecute(t *testing.T, rec *httptest.ResponseRecorder) ExecuteHTTPResponse {
	t.Helper()

	var resp ExecuteHTTPResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	return resp
}

func TestHTTP_FullFlow(t *testing.T) {
	mux := newTestMux(t)

	rec := doRequest(t, mux, http.MethodPost, "/api/instantiate", "owner", `{"chocolate":10,"water":20,"chips":30}`)
	require.Equal(t, http.StatusOK, rec.Code)
	resp := decodeExecute(t, rec)
	assert.True(t, resp.Success)
	assert.Equal(t, []service.Attribute{{Key: "method", Value: "instantiate"}, {Key: "owner", Value: "owner"}}, resp.Attributes)

	rec = doRequest(t, mux, http.MethodPost, "/api/execute", "user", `{"get_item":{"item_type":"chocolate"}}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, []service.Attribute{{Key: "method", Value: "get_item"}}, decodeExecute(t, rec).Attributes)

	rec = doRequest(t, mux, http.MethodPost, "/api/execute", "owner", `{"refill":{"chocolate":1,"water":0,"chips":0}}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, []service.Attribute{{Key: "method", Value: "refill"}}, decodeExecute(t, rec).Attributes)

	rec = doRequest(t, mux, http.MethodGet, "/api/items_count", "", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"chocolate":10,"water":20,"chips":30}`, rec.Body.String())

	rec = doRequest(t, mux, http.MethodPost, "/api/query", "", `{"items_count":{}}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"chocolate":10,"water":20,"chips":30}`, rec.Body.String())
}

func TestHTTP_ErrorStatuses(t *testing.T) {
	mux := newTestMux(t)

	rec := doRequest(t, mux, http.MethodGet, "/api/items_count", "", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = doRequest(t, mux, http.MethodPost, "/api/instantiate", "owner", `{"chocolate":0,"water":0,"chips":1}`)
	require.Equal(t, http.StatusOK, rec.Code)

	tests := []struct {
		name    string
		path    string
		sender  string
		body    string
		status  int
		message string
	}{
		{"reinstantiate", "/api/instantiate", "owner", `{"chocolate":1,"water":1,"chips":1}`, http.StatusConflict, "inventory already initialized"},
		{"out of stock", "/api/execute", "user", `{"get_item":{"item_type":"water"}}`, http.StatusGone, "the requested item 'Water' is out of stock"},
		{"unauthorized", "/api/execute", "user", `{"refill":{"chocolate":1,"water":0,"chips":0}}`, http.StatusForbidden, "unauthorized access: only the contract owner can perform this action"},
		{"zero refill", "/api/execute", "user", `{"refill":{"chocolate":0,"water":0,"chips":0}}`, http.StatusBadRequest, "refill amounts must be greater than zero"},
		{"overflow", "/api/execute", "owner", `{"refill":{"chocolate":0,"water":0,"chips":4294967295}}`, http.StatusUnprocessableEntity, "refill would overflow item counter"},
		{"no variant", "/api/execute", "owner", `{}`, http.StatusBadRequest, "invalid message: no execute variant set"},
		{"refill without sender", "/api/execute", "", `{"refill":{"chocolate":0,"water":0,"chips":1}}`, http.StatusBadRequest, "missing sender"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := doRequest(t, mux, http.MethodPost, tt.path, tt.sender, tt.body)
			assert.Equal(t, tt.status, rec.Code)

			resp := decodeExecute(t, rec)
			assert.False(t, resp.Success)
			assert.Equal(t, tt.message, resp.Message)
		})
	}
}

func TestHTTP_AnonymousGetItem(t *testing.T) {
	mux := newTestMux(t)

	rec := doRequest(t, mux, http.MethodPost, "/api/instantiate", "owner", `{"chocolate":0,"water":1,"chips":0}`)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = doRequest(t, mux, http.MethodPost, "/api/execute", "", `{"get_item":{"item_type":"water"}}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, []service.Attribute{{Key: "method", Value: "get_item"}}, decodeExecute(t, rec).Attributes)

	rec = doRequest(t, mux, http.MethodGet, "/api/items_count", "", "")
	assert.JSONEq(t, `{"chocolate":0,"water":0,"chips":0}`, rec.Body.String())
}

func TestHTTP_RejectsMalformedBodies(t *testing.T) {
	mux := newTestMux(t)

	for _, body := range []string{
		`not json`,
		`{"get_item":{"item_type":"soda"}}`,
		`{"get_item":{"item_type":"chips"},"extra":true}`,
	} {
		rec := doRequest(t, mux, http.MethodPost, "/api/execute", "user", body)
		assert.Equal(t, http.StatusBadRequest, rec.Code, body)
	}
}

func TestHTTP_MethodNotAllowed(t *testing.T) {
	mux := newTestMux(t)

	rec := doRequest(t, mux, http.MethodGet, "/api/execute", "user", "")
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)

	rec = doRequest(t, mux, http.MethodPost, "/api/items_count", "", "")
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}
