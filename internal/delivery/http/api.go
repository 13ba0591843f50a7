package http

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/mmuslimabdulj/roomchat/internal/domain"
	"github.com/mmuslimabdulj/roomchat/internal/middleware"
)

type credentialsRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type userResponse struct {
	ID       uint64  `json:"id"`
	Username string  `json:"username"`
	RoomID   *uint64 `json:"room_id,omitempty"`
}

type loginResponse struct {
	Token     string       `json:"token"`
	ExpiresIn int64        `json:"expires_in"`
	User      userResponse `json:"user"`
}

func toUserResponse(u *domain.User) userResponse {
	return userResponse{ID: u.ID, Username: u.Username, RoomID: u.RoomID}
}

func (h *Handler) apiError(w http.ResponseWriter, r *http.Request, op string, err error) {
	h.logFailure(r, op, err)
	status := statusFor(err)
	msg := userMessage(err)
	if status == http.StatusInternalServerError {
		msg = "internal error"
	}
	writeJSON(w, status, map[string]string{"error": msg})
}

func decodeJSON(w http.ResponseWriter, r *http.Request, v any) bool {
	r.Body = http.MaxBytesReader(w, r.Body, 1<<16)
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return false
	}
	return true
}

// HandleAPIRegister creates an account
func (h *Handler) HandleAPIRegister(w http.ResponseWriter, r *http.Request) {
	var req credentialsRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	user, err := h.accounts.Register(r.Context(), req.Username, req.Password)
	if err != nil {
		h.apiError(w, r, "register", err)
		return
	}
	writeJSON(w, http.StatusCreated, toUserResponse(user))
}

// HandleAPILogin exchanges credentials for a bearer token
func (h *Handler) HandleAPILogin(w http.ResponseWriter, r *http.Request) {
	var req credentialsRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	user, err := h.accounts.Login(r.Context(), req.Username, req.Password)
	if err != nil {
		h.apiError(w, r, "login", err)
		return
	}

	token, err := h.tokens.Issue(user.ID, user.Username)
	if err != nil {
		h.apiError(w, r, "issue token", err)
		return
	}
	writeJSON(w, http.StatusOK, loginResponse{
		Token:     token,
		ExpiresIn: int64(h.tokens.TTL() / time.Second),
		User:      toUserResponse(user),
	})
}

func (h *Handler) HandleAPIListRooms(w http.ResponseWriter, r *http.Request) {
	rooms, err := h.rooms.List(r.Context())
	if err != nil {
		h.apiError(w, r, "list rooms", err)
		return
	}
	if rooms == nil {
		rooms = []domain.Room{}
	}
	writeJSON(w, http.StatusOK, rooms)
}

func (h *Handler) HandleAPICreateRoom(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Title string `json:"title"`
	}
	if !decodeJSON(w, r, &req) {
		return
	}

	room, err := h.rooms.Create(r.Context(), req.Title)
	if err != nil {
		h.apiError(w, r, "create room", err)
		return
	}
	writeJSON(w, http.StatusCreated, room)
}

// HandleAPIJoinRoom assigns the room to the caller; the next /ws
// connection lands there
func (h *Handler) HandleAPIJoinRoom(w http.ResponseWriter, r *http.Request) {
	user, _ := middleware.UserFrom(r.Context())
	id, ok := pathID(r)
	if !ok {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "Room not found"})
		return
	}

	room, err := h.rooms.Join(r.Context(), user.ID, id)
	if err != nil {
		h.apiError(w, r, "join room", err)
		return
	}
	writeJSON(w, http.StatusOK, room)
}
