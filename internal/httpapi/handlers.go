package httpapi

import (
	"context"
	"crypto/rand"
	"encoding/json"
	"errors"
	"math/big"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/DoyleJ11/lane-arena/internal/engine"
	"github.com/DoyleJ11/lane-arena/internal/hub"
	"github.com/DoyleJ11/lane-arena/internal/match"
	"github.com/DoyleJ11/lane-arena/internal/results"
	"github.com/DoyleJ11/lane-arena/internal/store"
	"github.com/DoyleJ11/lane-arena/internal/types"
)

func GenerateCode() (string, error) {
	const charset = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

	code := make([]byte, 6)
	for i := range code {
		num, err := rand.Int(rand.Reader, big.NewInt(int64(len(charset))))
		if err != nil {
			return "", err
		}
		code[i] = charset[num.Int64()]
	}
	return string(code), nil
}

type CreateGameRequest struct {
	ID     string         `json:"id,omitempty"`
	Roster []engine.Entry `json:"roster"`
	Start  *bool          `json:"start,omitempty"`
}

type CreateGameResponse struct {
	ID      string `json:"id"`
	Started bool   `json:"started"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, err error) {
	writeJSON(w, status, types.ErrorMessage(err))
}

// hubError writes the response for a failed hub request.
func hubError(w http.ResponseWriter, err error) {
	if errors.Is(err, hub.ErrClosed) {
		writeError(w, http.StatusServiceUnavailable, err)
		return
	}
	writeError(w, http.StatusInternalServerError, err)
}

// lookup writes the error response itself and returns nil when the match
// cannot be served.
func lookup(w http.ResponseWriter, r *http.Request, h *hub.Hub) *match.Match {
	mt, err := h.Match(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		hubError(w, err)
		return nil
	}
	if mt == nil {
		writeError(w, http.StatusNotFound, store.ErrGameNotFound)
	}
	return mt
}

// CreateGame builds a game from a roster, registers its match and, unless
// told otherwise, starts it.
func CreateGame(h *hub.Hub, autoStart bool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req CreateGameRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, types.ErrMalformed)
			return
		}
		if req.ID == "" {
			code, err := GenerateCode()
			if err != nil {
				http.Error(w, "failed to generate code", http.StatusInternalServerError)
				return
			}
			req.ID = code
		}

		s, err := h.Engine().NewGame(req.ID, req.Roster)
		if err != nil {
			writeError(w, http.StatusBadRequest, err)
			return
		}
		mt, err := h.Create(r.Context(), s)
		if errors.Is(err, store.ErrGameExists) {
			writeError(w, http.StatusConflict, err)
			return
		}
		if err != nil {
			hubError(w, err)
			return
		}

		start := autoStart
		if req.Start != nil {
			start = *req.Start
		}
		if start {
			if err := mt.Start(r.Context()); err != nil {
				writeError(w, http.StatusInternalServerError, err)
				return
			}
		}
		writeJSON(w, http.StatusCreated, CreateGameResponse{ID: req.ID, Started: start})
	}
}

func ListGames(h *hub.Hub) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ids, err := h.List(r.Context())
		if err != nil {
			hubError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, struct {
			Games []string `json:"games"`
		}{Games: ids})
	}
}

func StartGame(h *hub.Hub) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		mt := lookup(w, r, h)
		if mt == nil {
			return
		}
		err := mt.Start(r.Context())
		switch {
		case errors.Is(err, engine.ErrAlreadyStarted):
			writeError(w, http.StatusConflict, err)
		case err != nil:
			writeError(w, http.StatusInternalServerError, err)
		default:
			w.WriteHeader(http.StatusNoContent)
		}
	}
}

func DeleteGame(h *hub.Hub) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		err := h.Remove(r.Context(), chi.URLParam(r, "id"))
		switch {
		case errors.Is(err, store.ErrGameNotFound):
			writeError(w, http.StatusNotFound, err)
		case err != nil:
			hubError(w, err)
		default:
			w.WriteHeader(http.StatusNoContent)
		}
	}
}

// GameView returns the filtered view of ?player=.
func GameView(h *hub.Hub) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		mt := lookup(w, r, h)
		if mt == nil {
			return
		}
		v, err := mt.View(r.Context(), r.URL.Query().Get("player"))
		switch {
		case errors.Is(err, match.ErrPlayerNotFound), errors.Is(err, match.ErrClosed):
			writeError(w, http.StatusNotFound, err)
		case err != nil:
			writeError(w, http.StatusInternalServerError, err)
		default:
			writeJSON(w, http.StatusOK, v)
		}
	}
}

type resultGetter interface {
	Get(ctx context.Context, gameID string) (engine.Summary, error)
}

func GameResult(rs resultGetter) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sum, err := rs.Get(r.Context(), chi.URLParam(r, "id"))
		switch {
		case errors.Is(err, results.ErrNotFound):
			writeError(w, http.StatusNotFound, err)
		case err != nil:
			writeError(w, http.StatusInternalServerError, err)
		default:
			writeJSON(w, http.StatusOK, sum)
		}
	}
}

func MapInfo(h *hub.Hub) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, h.Engine().Map().Zones())
	}
}

func Schema(w http.ResponseWriter, r *http.Request) {
	data, err := types.Schema()
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	w.Header().Set("Content-Type", "application/schema+json")
	_, _ = w.Write(data)
}

func Healthz(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
}
