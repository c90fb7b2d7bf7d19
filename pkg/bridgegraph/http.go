package bridgegraph

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	apperrors "github.com/chainsafe/bridgewatch/pkg/app/errors"
	apphttp "github.com/chainsafe/bridgewatch/pkg/app/http"
)

// HTTP serves read-only queries over the bridge graph
type HTTP struct {
	store  Store
	logger *zap.Logger
}

// RegisterRoutes registers bridge graph endpoints on the given chi router
func RegisterRoutes(r chi.Router, store Store, logger *zap.Logger) {
	h := &HTTP{
		store:  store,
		logger: logger,
	}

	r.Route("/graph", func(r chi.Router) {
		r.Get("/links", apphttp.HandleError(h.links))
		r.Get("/paths", apphttp.HandleError(h.paths))
		r.Get("/stats", apphttp.HandleError(h.stats))
	})
}

func (h *HTTP) links(w http.ResponseWriter, r *http.Request) error {
	q := r.URL.Query()
	address := q.Get("address")
	if address == "" {
		return apperrors.BadRequestError(nil, "address is required")
	}
	direction := DirectionBoth
	if raw := q.Get("direction"); raw != "" {
		direction = Direction(raw)
		if !direction.Valid() {
			return apperrors.BadRequestError(nil, "direction must be outgoing, incoming or both")
		}
	}
	limit, err := apphttp.QueryInt(r, "limit", DefaultLinkLimit)
	if err != nil {
		return err
	}

	links, err := h.store.GetLinksForAddress(r.Context(), address, direction, limit)
	if err != nil {
		h.logger.Error("Failed to get bridge links", zap.String("address", address), zap.Error(err))
		return apperrors.TransientStoreError(err, "bridge graph unavailable")
	}
	apphttp.WriteJSON(w, http.StatusOK, links)
	return nil
}

func (h *HTTP) paths(w http.ResponseWriter, r *http.Request) error {
	q := r.URL.Query()
	address := q.Get("address")
	toChain := q.Get("to_chain")
	if address == "" || toChain == "" {
		return apperrors.BadRequestError(nil, "address and to_chain are required")
	}
	maxHops, err := apphttp.QueryInt(r, "max_hops", 3)
	if err != nil {
		return err
	}

	paths, err := h.store.FindCrossChainPath(r.Context(), address, q.Get("from_chain"), toChain, maxHops)
	if err != nil {
		h.logger.Error("Failed to find cross-chain paths", zap.String("address", address), zap.Error(err))
		return apperrors.TransientStoreError(err, "bridge graph unavailable")
	}
	apphttp.WriteJSON(w, http.StatusOK, paths)
	return nil
}

func (h *HTTP) stats(w http.ResponseWriter, r *http.Request) error {
	stats, err := h.store.GetStatistics(r.Context())
	if err != nil {
		h.logger.Error("Failed to get bridge statistics", zap.Error(err))
		return apperrors.TransientStoreError(err, "bridge graph unavailable")
	}
	apphttp.WriteJSON(w, http.StatusOK, stats)
	return nil
}
