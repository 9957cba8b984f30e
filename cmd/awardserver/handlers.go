package main

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strconv"

	"award-watch/pkg/domain"
	"award-watch/pkg/ingest"
)

// handlers is the thin request/response mapping over the ingestion
// service. All domain logic lives below this layer.
type handlers struct {
	service *ingest.Service
}

type response struct {
	Success bool   `json:"success"`
	Error   string `json:"error,omitempty"`
	URL     string `json:"url,omitempty"`
	Data    any    `json:"data,omitempty"`
}

func (h *handlers) handleIngest(w http.ResponseWriter, r *http.Request) {
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	persist := r.URL.Query().Get("persist") == "true"

	summary, _, err := h.service.Ingest(r.Context(), limit, persist)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, response{Success: true, Data: summary})
}

func (h *handlers) handleRender(w http.ResponseWriter, r *http.Request) {
	url := r.URL.Query().Get("url")
	if url == "" {
		writeError(w, &domain.ValidationError{Field: "url", Msg: "query parameter is required"})
		return
	}

	page, err := h.service.RenderPage(r.Context(), url)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, response{Success: true, URL: url, Data: page})
}

func (h *handlers) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, response{Success: true})
}

// writeError maps the error taxonomy onto HTTP statuses and the
// structured failure envelope.
func writeError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	resp := response{Error: err.Error()}

	var validationErr *domain.ValidationError
	var renderErr *domain.RenderError
	var networkErr *domain.NetworkError
	switch {
	case errors.As(err, &validationErr):
		status = http.StatusBadRequest
	case errors.As(err, &renderErr):
		status = http.StatusBadGateway
		resp.URL = renderErr.URL
	case errors.As(err, &networkErr):
		status = http.StatusBadGateway
		resp.URL = networkErr.URL
	}

	writeJSON(w, status, resp)
}

func writeJSON(w http.ResponseWriter, status int, resp response) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(resp); err != nil {
		log.Printf("Failed to encode response: %v", err)
	}
}
