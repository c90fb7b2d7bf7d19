package bridge

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	apperrors "github.com/chainsafe/bridgewatch/pkg/app/errors"
	apphttp "github.com/chainsafe/bridgewatch/pkg/app/http"
)

// HTTP exposes the registry for operators
type HTTP struct {
	registry *Registry
	logger   *zap.Logger
}

// RegisterRoutes registers bridge registry endpoints on the given chi router
func RegisterRoutes(r chi.Router, registry *Registry, logger *zap.Logger) {
	h := &HTTP{
		registry: registry,
		logger:   logger,
	}

	r.Route("/registry", func(r chi.Router) {
		r.Get("/contracts", apphttp.HandleError(h.listContracts))
		r.Post("/contracts", apphttp.HandleError(h.registerContract))
		r.Delete("/contracts/{chain}/{address}", apphttp.HandleError(h.removeContract))
		r.Get("/stats", apphttp.HandleError(h.stats))
	})
}

func (h *HTTP) listContracts(w http.ResponseWriter, r *http.Request) error {
	var contracts []Contract
	if chain := r.URL.Query().Get("chain"); chain != "" {
		contracts = h.registry.GetContractsByChain(chain)
	} else {
		contracts = h.registry.All()
	}
	if contracts == nil {
		contracts = []Contract{}
	}
	apphttp.WriteJSON(w, http.StatusOK, contracts)
	return nil
}

func (h *HTTP) registerContract(w http.ResponseWriter, r *http.Request) error {
	var c Contract
	if err := apphttp.DecodeJSON(r, &c); err != nil {
		return err
	}
	if err := validateContract(c); err != nil {
		return apperrors.ValidationError(err)
	}

	h.registry.Register(c)
	h.logger.Info("Bridge contract registered",
		zap.String("chain", NormalizeChain(c.Chain)),
		zap.String("address", NormalizeAddress(c.Address)),
		zap.String("name", c.Name))

	stored, _ := h.registry.GetContract(c.Address, c.Chain)
	apphttp.WriteJSON(w, http.StatusCreated, stored)
	return nil
}

func (h *HTTP) removeContract(w http.ResponseWriter, r *http.Request) error {
	chain := chi.URLParam(r, "chain")
	address := chi.URLParam(r, "address")
	if !h.registry.Remove(address, chain) {
		return apperrors.ResourceNotFoundError(nil, "bridge contract not found")
	}

	h.logger.Info("Bridge contract removed", zap.String("chain", chain), zap.String("address", address))
	w.WriteHeader(http.StatusNoContent)
	return nil
}

func (h *HTTP) stats(w http.ResponseWriter, _ *http.Request) error {
	apphttp.WriteJSON(w, http.StatusOK, h.registry.Stats())
	return nil
}

func validateContract(c Contract) error {
	switch {
	case NormalizeAddress(c.Address) == "":
		return errors.New("address is required")
	case NormalizeChain(c.Chain) == "":
		return errors.New("chain is required")
	case c.Name == "":
		return errors.New("name is required")
	case c.Type != "" && c.Type != TypeCanonical && c.Type != TypeThirdParty:
		return errors.New("bridge_type must be canonical or third_party")
	}
	return nil
}
