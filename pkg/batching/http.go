package batching

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	apphttp "github.com/chainsafe/bridgewatch/pkg/app/http"
)

// Controller is the part of the Batcher exposed over HTTP
type Controller interface {
	GetStats() Stats
	ForceFlushAll() []*AlertBatch
}

// HTTP provides operational endpoints for the batcher
type HTTP struct {
	batcher Controller
	logger  *zap.Logger
}

type flushResponse struct {
	Flushed int           `json:"flushed"`
	Batches []*AlertBatch `json:"batches"`
}

// RegisterRoutes registers batching endpoints on the given chi router
func RegisterRoutes(r chi.Router, batcher Controller, logger *zap.Logger) {
	h := &HTTP{batcher: batcher, logger: logger}

	r.Route("/batches", func(r chi.Router) {
		r.Get("/stats", apphttp.HandleError(h.stats))
		r.Post("/flush", apphttp.HandleError(h.flush))
	})
}

func (h *HTTP) stats(w http.ResponseWriter, _ *http.Request) error {
	apphttp.WriteJSON(w, http.StatusOK, h.batcher.GetStats())
	return nil
}

func (h *HTTP) flush(w http.ResponseWriter, _ *http.Request) error {
	batches := h.batcher.ForceFlushAll()
	h.logger.Info("Batches flushed on request", zap.Int("count", len(batches)))
	apphttp.WriteJSON(w, http.StatusOK, flushResponse{Flushed: len(batches), Batches: batches})
	return nil
}
