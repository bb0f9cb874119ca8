package handler

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/goccy/go-json"

	"github.com/league-stats/internal/domain"
	"github.com/league-stats/internal/websocket"
)

// GameService is the import side of the API
type GameService interface {
	ImportGame(ctx context.Context, req domain.ImportRequest) (*domain.ImportResult, error)
	GetGame(ctx context.Context, gameID int64) (*domain.Game, error)
	LinkGame(ctx context.Context, gameID, externalMatchID int64) error
}

// BoardService is the query side of the stat boards
type BoardService interface {
	GetTopN(ctx context.Context, metric domain.StatMetric, n int) ([]domain.BoardEntry, error)
	GetAccountRank(ctx context.Context, metric domain.StatMetric, accountID string) (*domain.BoardEntry, error)
	GetCount(ctx context.Context, metric domain.StatMetric) (int64, error)
}

// Handler provides HTTP handlers for the game import API
type Handler struct {
	games  GameService
	boards BoardService
	hub    *websocket.Hub
	logger *slog.Logger
}

// NewHandler creates a new HTTP handler
func NewHandler(games GameService, boards BoardService, hub *websocket.Hub, logger *slog.Logger) *Handler {
	return &Handler{
		games:  games,
		boards: boards,
		hub:    hub,
		logger: logger,
	}
}

// APIResponse represents a standard API response
type APIResponse struct {
	Success bool   `json:"success"`
	Data    any    `json:"data,omitempty"`
	Error   string `json:"error,omitempty"`
}

// ImportSummary is returned for a completed import
type ImportSummary struct {
	Game          domain.Game `json:"game"`
	Players       int         `json:"players"`
	Events        int         `json:"events"`
	StoreActions  int         `json:"store_actions"`
	SkillLevelUps int         `json:"skill_level_ups"`
	GoldSamples   int         `json:"gold_samples"`
	NewAccounts   int         `json:"new_accounts"`
}

// LinkRequest binds an imported game to a league match
type LinkRequest struct {
	ExternalMatchID int64 `json:"external_match_id"`
}

// Router creates and configures the HTTP router
func (h *Handler) Router() http.Handler {
	r := chi.NewRouter()

	// Middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Compress(5))
	r.Use(corsMiddleware)

	r.Get("/health", h.HealthCheck)
	r.Get("/ready", h.ReadyCheck)

	r.Get("/ws", h.HandleWebSocket)

	r.Route("/api/v1", func(r chi.Router) {
		r.Route("/games", func(r chi.Router) {
			r.Post("/import", h.ImportGame)
			r.Get("/{gameID}", h.GetGame)
			r.Put("/{gameID}/link", h.LinkGame)
		})

		r.Route("/boards/{metric}", func(r chi.Router) {
			r.Get("/top", h.GetTop)
			r.Get("/count", h.GetCount)
			r.Get("/accounts/{accountID}", h.GetAccountRank)
		})

		r.Get("/ws/stats", h.GetWebSocketStats)
	})

	return r
}

// corsMiddleware adds CORS headers
func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Accept, Authorization, Content-Type, X-Request-ID")

		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}

// writeJSON writes a JSON response
func (h *Handler) writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

// writeSuccess writes a successful JSON response
func (h *Handler) writeSuccess(w http.ResponseWriter, data any) {
	h.writeJSON(w, http.StatusOK, APIResponse{
		Success: true,
		Data:    data,
	})
}

// writeError writes an error JSON response
func (h *Handler) writeError(w http.ResponseWriter, status int, err error) {
	h.writeJSON(w, status, APIResponse{
		Success: false,
		Error:   err.Error(),
	})
}

// statusFor maps service errors onto HTTP status codes
func statusFor(err error) int {
	switch {
	case errors.Is(err, domain.ErrInvalidRequest), errors.Is(err, domain.ErrInvalidInput):
		return http.StatusBadRequest
	case domain.IsNotFoundError(err):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrGameAlreadyImported):
		return http.StatusConflict
	case errors.Is(err, domain.ErrVendorUnavailable):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

// writeServiceError writes err with its mapped status; internal errors are logged and masked
func (h *Handler) writeServiceError(w http.ResponseWriter, r *http.Request, msg string, err error) {
	status := statusFor(err)
	if status == http.StatusInternalServerError {
		h.logger.Error(msg, "error", err, "request_id", middleware.GetReqID(r.Context()))
		h.writeError(w, status, domain.ErrInternalError)
		return
	}
	h.writeError(w, status, err)
}

func gameIDParam(r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "gameID"), 10, 64)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}

func metricParam(r *http.Request) (domain.StatMetric, bool) {
	return domain.ParseStatMetric(chi.URLParam(r, "metric"))
}

// HandleWebSocket handles WebSocket upgrade requests
func (h *Handler) HandleWebSocket(w http.ResponseWriter, r *http.Request) {
	websocket.ServeWs(h.hub, h.logger, w, r)
}

// GetWebSocketStats returns WebSocket connection statistics
func (h *Handler) GetWebSocketStats(w http.ResponseWriter, r *http.Request) {
	h.writeSuccess(w, map[string]any{
		"total_connections": h.hub.GetTotalConnections(),
	})
}

// HealthCheck returns service health status
func (h *Handler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	h.writeSuccess(w, map[string]string{"status": "healthy"})
}

// ReadyCheck returns service readiness status
func (h *Handler) ReadyCheck(w http.ResponseWriter, r *http.Request) {
	h.writeSuccess(w, map[string]string{"status": "ready"})
}

// ImportGame imports one vendor match synchronously
func (h *Handler) ImportGame(w http.ResponseWriter, r *http.Request) {
	var req domain.ImportRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, http.StatusBadRequest, domain.ErrInvalidRequest)
		return
	}
	if req.RequestID == "" {
		req.RequestID = middleware.GetReqID(r.Context())
	}

	result, err := h.games.ImportGame(r.Context(), req)
	if err != nil {
		h.writeServiceError(w, r, "failed to import game", err)
		return
	}

	h.writeJSON(w, http.StatusCreated, APIResponse{
		Success: true,
		Data: ImportSummary{
			Game:          result.Game,
			Players:       len(result.Players),
			Events:        len(result.Events),
			StoreActions:  len(result.StoreActions),
			SkillLevelUps: len(result.SkillLevelUps),
			GoldSamples:   len(result.GoldSamples),
			NewAccounts:   len(result.NewAccounts),
		},
	})
}

// GetGame returns an imported game by id
func (h *Handler) GetGame(w http.ResponseWriter, r *http.Request) {
	gameID, ok := gameIDParam(r)
	if !ok {
		h.writeError(w, http.StatusBadRequest, domain.ErrInvalidRequest)
		return
	}

	game, err := h.games.GetGame(r.Context(), gameID)
	if err != nil {
		h.writeServiceError(w, r, "failed to get game", err)
		return
	}

	h.writeSuccess(w, game)
}

// LinkGame attaches a league match id to an imported game
func (h *Handler) LinkGame(w http.ResponseWriter, r *http.Request) {
	gameID, ok := gameIDParam(r)
	if !ok {
		h.writeError(w, http.StatusBadRequest, domain.ErrInvalidRequest)
		return
	}
	var req LinkRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, http.StatusBadRequest, domain.ErrInvalidRequest)
		return
	}

	if err := h.games.LinkGame(r.Context(), gameID, req.ExternalMatchID); err != nil {
		h.writeServiceError(w, r, "failed to link game", err)
		return
	}

	h.writeSuccess(w, map[string]any{
		"game_id":           gameID,
		"external_match_id": req.ExternalMatchID,
	})
}

// GetTop returns the top N accounts of a stat board
func (h *Handler) GetTop(w http.ResponseWriter, r *http.Request) {
	metric, ok := metricParam(r)
	if !ok {
		h.writeError(w, http.StatusBadRequest, domain.ErrInvalidRequest)
		return
	}

	limit := 0
	if limitStr := r.URL.Query().Get("limit"); limitStr != "" {
		if l, err := strconv.Atoi(limitStr); err == nil && l > 0 {
			limit = l
		}
	}

	entries, err := h.boards.GetTopN(r.Context(), metric, limit)
	if err != nil {
		h.writeServiceError(w, r, "failed to get top", err)
		return
	}

	h.writeSuccess(w, entries)
}

// GetCount returns how many accounts a stat board ranks
func (h *Handler) GetCount(w http.ResponseWriter, r *http.Request) {
	metric, ok := metricParam(r)
	if !ok {
		h.writeError(w, http.StatusBadRequest, domain.ErrInvalidRequest)
		return
	}

	count, err := h.boards.GetCount(r.Context(), metric)
	if err != nil {
		h.writeServiceError(w, r, "failed to count board", err)
		return
	}

	h.writeSuccess(w, map[string]any{"metric": metric, "accounts": count})
}

// GetAccountRank returns an account's rank on a stat board
func (h *Handler) GetAccountRank(w http.ResponseWriter, r *http.Request) {
	metric, ok := metricParam(r)
	accountID := chi.URLParam(r, "accountID")
	if !ok || accountID == "" {
		h.writeError(w, http.StatusBadRequest, domain.ErrInvalidRequest)
		return
	}

	entry, err := h.boards.GetAccountRank(r.Context(), metric, accountID)
	if err != nil {
		h.writeServiceError(w, r, "failed to get account rank", err)
		return
	}

	h.writeSuccess(w, entry)
}
