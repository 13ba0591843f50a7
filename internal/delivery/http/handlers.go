package http

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/a-h/templ"
	"github.com/gorilla/websocket"
	"github.com/mmuslimabdulj/roomchat/internal/auth"
	"github.com/mmuslimabdulj/roomchat/internal/delivery/ws"
	"github.com/mmuslimabdulj/roomchat/internal/domain"
	"github.com/mmuslimabdulj/roomchat/internal/middleware"
	"github.com/mmuslimabdulj/roomchat/internal/usecase"
)

// Deps are the collaborators the HTTP layer is built from
type Deps struct {
	Accounts       *usecase.AccountService
	Rooms          *usecase.RoomService
	Hub            *ws.Hub
	Identity       *auth.IdentityProvider
	Sessions       *auth.SessionManager
	Tokens         *auth.TokenIssuer
	AllowedOrigins []string
	Logger         *slog.Logger
}

type Handler struct {
	accounts *usecase.AccountService
	rooms    *usecase.RoomService
	hub      *ws.Hub
	identity *auth.IdentityProvider
	sessions *auth.SessionManager
	tokens   *auth.TokenIssuer
	origins  []string
	upgrader websocket.Upgrader
	logger   *slog.Logger
}

func NewHandler(d Deps) *Handler {
	h := &Handler{
		accounts: d.Accounts,
		rooms:    d.Rooms,
		hub:      d.Hub,
		identity: d.Identity,
		sessions: d.Sessions,
		tokens:   d.Tokens,
		origins:  d.AllowedOrigins,
		logger:   d.Logger.With("component", "http"),
	}
	h.upgrader = websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin: func(r *http.Request) bool {
			return h.isOriginAllowed(r.Header.Get("Origin"))
		},
	}
	return h
}

// isOriginAllowed checks if the origin is in the allowed list
func (h *Handler) isOriginAllowed(origin string) bool {
	// Empty origin is allowed (non-browser clients)
	if origin == "" {
		return true
	}

	for _, allowed := range h.origins {
		if allowed == "*" || strings.EqualFold(origin, allowed) {
			return true
		}
	}
	return false
}

// Routes builds the full router: request logging and security headers on
// everything, per-route IP rate limits, and authentication where required.
func (h *Handler) Routes(limits *middleware.Limiters) http.Handler {
	mux := http.NewServeMux()

	page := middleware.RequireUser(h.identity)
	api := middleware.RequireAPIUser(h.identity)
	limit := func(l *middleware.IPRateLimiter, next http.HandlerFunc) http.HandlerFunc {
		return middleware.RateLimitFunc(l, next)
	}

	// Pages
	mux.HandleFunc("GET /{$}", middleware.NoCache(h.HandleHome))
	mux.HandleFunc("GET /register", h.HandleRegisterPage)
	mux.HandleFunc("POST /register", limit(limits.Strict, h.HandleRegister))
	mux.HandleFunc("GET /login", h.HandleLoginPage)
	mux.HandleFunc("POST /login", limit(limits.Strict, h.HandleLogin))
	mux.HandleFunc("GET /logout", h.HandleLogout)
	mux.HandleFunc("GET /create", page(h.HandleCreatePage))
	mux.HandleFunc("POST /create", limit(limits.API, page(h.HandleCreate)))
	mux.HandleFunc("POST /join", limit(limits.API, page(h.HandleJoin)))
	mux.HandleFunc("GET /chat/{id}", middleware.NoCache(page(h.HandleChat)))

	// WebSocket
	mux.HandleFunc("GET /ws", limit(limits.WebSocket, h.HandleWebSocket))

	// JSON API
	mux.HandleFunc("POST /api/register", limit(limits.Strict, h.HandleAPIRegister))
	mux.HandleFunc("POST /api/login", limit(limits.Strict, h.HandleAPILogin))
	mux.HandleFunc("GET /api/rooms", limit(limits.API, api(h.HandleAPIListRooms)))
	mux.HandleFunc("POST /api/rooms", limit(limits.API, api(h.HandleAPICreateRoom)))
	mux.HandleFunc("POST /api/rooms/{id}/join", limit(limits.API, api(h.HandleAPIJoinRoom)))

	mux.HandleFunc("GET /healthz", h.HandleHealth)

	return middleware.RequestLogger(h.logger)(middleware.SecurityHeaders(mux))
}

// HandleHealth reports liveness and the number of live connections
func (h *Handler) HandleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status":       "ok",
		"connections":  h.hub.ClientCount(),
		"active_rooms": len(h.hub.ActiveRooms()),
	})
}

func (h *Handler) render(w http.ResponseWriter, r *http.Request, status int, c templ.Component) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if err := c.Render(r.Context(), w); err != nil {
		middleware.LoggerFrom(r.Context()).Error("render page", "path", r.URL.Path, "error", err)
	}
}

// currentUser returns the signed-in user on public pages, or nil
func (h *Handler) currentUser(r *http.Request) *domain.User {
	if user, ok := middleware.UserFrom(r.Context()); ok {
		return user
	}
	user, err := h.identity.Identify(r)
	if err != nil {
		return nil
	}
	return user
}

func pathID(r *http.Request) (uint64, bool) {
	id, err := strconv.ParseUint(r.PathValue("id"), 10, 64)
	return id, err == nil && id != 0
}

// userMessage turns a service error into text safe to show the user
func userMessage(err error) string {
	switch {
	case errors.Is(err, domain.ErrInvalidInput):
		msg := strings.TrimPrefix(err.Error(), domain.ErrInvalidInput.Error()+": ")
		if msg == "" {
			return "Invalid input"
		}
		return strings.ToUpper(msg[:1]) + msg[1:]
	case errors.Is(err, domain.ErrDuplicateUsername):
		return "Username already taken"
	case errors.Is(err, domain.ErrDuplicateTitle):
		return "Title already taken"
	case errors.Is(err, domain.ErrInvalidCredentials):
		return "Invalid credentials"
	case errors.Is(err, domain.ErrRoomNotFound):
		return "Room not found"
	default:
		return "Something went wrong, please try again"
	}
}

// statusFor maps service errors to HTTP status codes
func statusFor(err error) int {
	switch {
	case errors.Is(err, domain.ErrInvalidInput):
		return http.StatusBadRequest
	case errors.Is(err, domain.ErrDuplicateUsername), errors.Is(err, domain.ErrDuplicateTitle):
		return http.StatusConflict
	case errors.Is(err, domain.ErrInvalidCredentials), errors.Is(err, domain.ErrUnauthenticated):
		return http.StatusUnauthorized
	case errors.Is(err, domain.ErrRoomNotFound), errors.Is(err, domain.ErrUserNotFound):
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
