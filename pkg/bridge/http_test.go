package bridge

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newRegistryTestServer(reg *Registry) http.Handler {
	r := chi.NewRouter()
	RegisterRoutes(r, reg, zap.NewNop())
	return r
}

func TestRegistryHTTP_RegisterListRemove(t *testing.T) {
	reg := NewRegistry()
	handler := newRegistryTestServer(reg)

	body := `{"address":"0xABC","chain":"Base","name":"Acme Bridge","counterpart_chains":["ethereum"]}`
	req := httptest.NewRequest(http.MethodPost, "/registry/contracts", bytes.NewBufferString(body))
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	require.Equal(t, http.StatusCreated, rec.Code)

	var created Contract
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &created))
	assert.Equal(t, "0xabc", created.Address)
	assert.Equal(t, TypeThirdParty, created.Type)

	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/registry/contracts?chain=base", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	var listed []Contract
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &listed))
	require.Len(t, listed, 1)
	assert.Equal(t, "Acme Bridge", listed[0].Name)

	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodDelete, "/registry/contracts/base/0xABC", nil))
	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.False(t, reg.IsBridgeContract("0xabc", "base"))

	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodDelete, "/registry/contracts/base/0xABC", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestRegistryHTTP_RejectsInvalidContract(t *testing.T) {
	handler := newRegistryTestServer(NewRegistry())

	tests := map[string]string{
		"{invalid":                      "invalid JSON",
		`{"chain":"base","name":"x"}`:   "address is required",
		`{"address":"0x1","name":"x"}`:  "chain is required",
		`{"address":"0x1","chain":"b"}`: "name is required",
		`{"address":"0x1","chain":"b","name":"x","bridge_type":"other"}`: "bridge_type must be canonical or third_party",
	}
	for body, want := range tests {
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/registry/contracts", bytes.NewBufferString(body)))
		require.Equal(t, http.StatusBadRequest, rec.Code, body)

		var got struct {
			Error string `json:"error"`
		}
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
		assert.Equal(t, want, got.Error)
	}
}

func TestRegistryHTTP_Stats(t *testing.T) {
	handler := newRegistryTestServer(NewRegistry(DefaultContracts()...))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/registry/stats", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	var stats RegistryStats
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &stats))
	assert.Equal(t, len(DefaultContracts()), stats.TotalContracts)
	assert.Equal(t, 2, stats.TotalChains)
}
