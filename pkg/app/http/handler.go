// Package http provides HTTP utilities including chi-compatible error handling
package http

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"

	apperrors "github.com/chainsafe/bridgewatch/pkg/app/errors"
)

// maxBodySize bounds request bodies read by DecodeJSON.
const maxBodySize = 1 << 20

// HandlerFunc defines a function that returns an error for clean error handling
type HandlerFunc func(http.ResponseWriter, *http.Request) error

// HandleError adapts an error-returning handler to http.HandlerFunc. Errors are rendered
// by WriteError.
//
//	r.Post("/rules", apphttp.HandleError(h.createRule))
func HandleError(h HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := h(w, r); err != nil {
			WriteError(w, err)
		}
	}
}

// ErrorBody is the JSON body of every non-2xx API response.
type ErrorBody struct {
	Error string `json:"error"`
	Code  int    `json:"code"`
	Kind  string `json:"kind"`
}

// WriteError renders err as an ErrorBody. Errors outside the service taxonomy are reported
// as internal without leaking their text.
func WriteError(w http.ResponseWriter, err error) {
	var svcErr *apperrors.ServiceError
	if !errors.As(err, &svcErr) {
		svcErr = &apperrors.ServiceError{Category: apperrors.CategoryGeneralError, Message: "Unexpected Service Error"}
	}
	status := svcErr.StatusCode()
	WriteJSON(w, status, &ErrorBody{
		Error: svcErr.Message,
		Code:  status,
		Kind:  svcErr.Category.Kind(),
	})
}

// WriteJSON writes data as a JSON response with the given status
func WriteJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

// DecodeJSON reads a size-limited request body into dst
func DecodeJSON(r *http.Request, dst any) error {
	body, err := io.ReadAll(io.LimitReader(r.Body, maxBodySize))
	if err != nil {
		return apperrors.BadRequestError(err, "failed to read request")
	}
	if err := json.Unmarshal(body, dst); err != nil {
		return apperrors.BadRequestError(err, "invalid JSON")
	}
	return nil
}

// QueryInt parses an optional integer query parameter.
// A present but non-numeric value is rejected.
func QueryInt(r *http.Request, name string, fallback int) (int, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return fallback, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, apperrors.BadRequestError(err, "invalid "+name+": must be an integer")
	}
	return v, nil
}
