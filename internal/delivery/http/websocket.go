package http

import (
	"errors"
	"net/http"

	"github.com/mmuslimabdulj/roomchat/internal/domain"
	"github.com/mmuslimabdulj/roomchat/internal/middleware"
)

// HandleWebSocket upgrades the request and hands the socket to the hub,
// which binds it to the user's current room or closes it with a reason.
func (h *Handler) HandleWebSocket(w http.ResponseWriter, r *http.Request) {
	logger := middleware.LoggerFrom(r.Context())

	user, err := h.identity.Identify(r)
	if err != nil {
		if !errors.Is(err, domain.ErrUnauthenticated) {
			logger.Error("identify websocket user", "error", err)
		}
		user = nil
	}

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		// Upgrade has already written the HTTP error
		logger.Debug("websocket upgrade failed", "error", err)
		return
	}

	client, err := h.hub.Connect(r.Context(), conn, user)
	if err != nil {
		return
	}

	go client.WritePump()
	go client.ReadPump()
}
