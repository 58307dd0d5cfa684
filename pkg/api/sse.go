package api

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"github.com/rs/zerolog/log"
)

// MatchStream handles GET /api/match/stream?x=...&o=...&seed=...&depth=...
// by playing one game and sending a "turn" event per turn, then "result"
// with the GameResponse and finally "done".
func (h *Handlers) MatchStream(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		writeJSON(w, http.StatusInternalServerError, ErrorResponse{Error: "streaming not supported", Code: "INTERNAL"})
		return
	}

	req, err := matchQuery(r.URL.Query())
	if err == nil {
		err = h.normalize(&req)
	}
	if err != nil {
		writeError(w, err)
		return
	}

	release, err := h.acquire(r.Context(), Slow)
	if err != nil {
		writeError(w, err)
		return
	}
	defer release()

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.WriteHeader(http.StatusOK)

	resp, err := h.playGame(r.Context(), req, func(t TurnResponse) {
		writeSSEEvent(w, "turn", t)
		flusher.Flush()
	})
	if err != nil {
		_, code := errorStatus(err)
		writeSSEEvent(w, "error", ErrorResponse{Error: err.Error(), Code: code})
		flusher.Flush()
		return
	}
	writeSSEEvent(w, "result", resp)
	writeSSEEvent(w, "done", nil)
	flusher.Flush()
}

func matchQuery(q url.Values) (MatchRequest, error) {
	req := MatchRequest{X: q.Get("x"), O: q.Get("o")}
	var err error
	if req.Depth, err = intParam(q, "depth"); err != nil {
		return req, err
	}
	if req.MaxTurns, err = intParam(q, "max_turns"); err != nil {
		return req, err
	}
	if s := q.Get("seed"); s != "" {
		if req.Seed, err = strconv.ParseUint(s, 10, 64); err != nil {
			return req, fmt.Errorf("%w: seed: %v", errInvalidQuery, err)
		}
	}
	return req, nil
}

func intParam(q url.Values, name string) (int, error) {
	s := q.Get(name)
	if s == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("%w: %s: %v", errInvalidQuery, name, err)
	}
	return n, nil
}

// writeSSEEvent writes one Server-Sent Event; nil data sends the event
// name alone.
func writeSSEEvent(w http.ResponseWriter, event string, data any) {
	fmt.Fprintf(w, "event: %s\n", event)
	if data != nil {
		if b, err := json.Marshal(data); err != nil {
			log.Error().Err(err).Str("event", event).Msg("sse-encode")
		} else {
			fmt.Fprintf(w, "data: %s\n", b)
		}
	}
	fmt.Fprint(w, "\n")
}
