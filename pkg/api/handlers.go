package api

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/rs/zerolog/log"

	"github.com/yourusername/bgagents/pkg/agent"
)

// maxBodySize bounds request bodies.
const maxBodySize = 1 << 20

// writeJSON writes a JSON response with the given status code.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Debug().Err(err).Msg("write-response")
	}
}

// writeError writes err as an ErrorResponse.
func writeError(w http.ResponseWriter, err error) {
	status, code := errorStatus(err)
	if status >= http.StatusInternalServerError {
		log.Error().Err(err).Str("code", code).Msg("request-failed")
	}
	writeJSON(w, status, ErrorResponse{Error: err.Error(), Code: code})
}

func decode(w http.ResponseWriter, r *http.Request, v any) error {
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodySize)).Decode(v); err != nil {
		return fmt.Errorf("%w: %v", errInvalidJSON, err)
	}
	return nil
}

// serve runs one JSON request on a slot of lane l.
func serve[Req, Resp any](h *Handlers, l Lane, fn func(*http.Request, Req) (Resp, error)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		release, err := h.acquire(r.Context(), l)
		if err != nil {
			writeError(w, err)
			return
		}
		defer release()

		var req Req
		if err := decode(w, r, &req); err != nil {
			writeError(w, err)
			return
		}
		resp, err := fn(r, req)
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, resp)
	}
}

// Health handles GET /api/health.
func (h *Handlers) Health(w http.ResponseWriter, r *http.Request) {
	resp := HealthResponse{
		Status:  "ok",
		Version: h.version,
		Agents:  agent.Kinds,
	}
	if h.pool != nil {
		st := h.pool.Stats()
		resp.Pool = &st
	}
	if h.cache != nil {
		st := h.cache.Stats()
		resp.Cache = &CacheResponse{Lookups: st.Lookups, Hits: st.Hits, Adds: st.Adds, HitRate: st.HitRate}
	}
	writeJSON(w, http.StatusOK, resp)
}

// Evaluate handles POST /api/evaluate.
func (h *Handlers) Evaluate(w http.ResponseWriter, r *http.Request) {
	serve(h, Fast, func(_ *http.Request, req EvaluateRequest) (EvaluateResponse, error) {
		return h.evaluate(req)
	})(w, r)
}

// Move handles POST /api/move.
func (h *Handlers) Move(w http.ResponseWriter, r *http.Request) {
	serve(h, Fast, func(_ *http.Request, req MoveRequest) (MoveResponse, error) {
		return h.move(req)
	})(w, r)
}

// Match handles POST /api/match.
func (h *Handlers) Match(w http.ResponseWriter, r *http.Request) {
	serve(h, Slow, func(r *http.Request, req MatchRequest) (MatchResponse, error) {
		if err := h.normalize(&req); err != nil {
			return MatchResponse{}, err
		}
		return h.playSeries(r.Context(), req, nil)
	})(w, r)
}
