package http

import (
	"net/http"
	"net/url"
	"strconv"

	"github.com/mmuslimabdulj/roomchat/internal/middleware"
	"github.com/mmuslimabdulj/roomchat/view/pages"
)

// HandleHome lists every room
func (h *Handler) HandleHome(w http.ResponseWriter, r *http.Request) {
	rooms, err := h.rooms.List(r.Context())
	if err != nil {
		middleware.LoggerFrom(r.Context()).Error("list rooms", "error", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}
	h.render(w, r, http.StatusOK, pages.Home(h.currentUser(r), rooms, r.URL.Query().Get("error")))
}

func (h *Handler) HandleRegisterPage(w http.ResponseWriter, r *http.Request) {
	h.render(w, r, http.StatusOK, pages.Register(pages.CredentialsForm{}))
}

// HandleRegister creates the account and sends the user to the login page
func (h *Handler) HandleRegister(w http.ResponseWriter, r *http.Request) {
	username, password := r.PostFormValue("username"), r.PostFormValue("password")

	if _, err := h.accounts.Register(r.Context(), username, password); err != nil {
		h.logFailure(r, "register", err)
		form := pages.CredentialsForm{Username: username, Error: userMessage(err)}
		h.render(w, r, statusFor(err), pages.Register(form))
		return
	}
	http.Redirect(w, r, "/login", http.StatusSeeOther)
}

func (h *Handler) HandleLoginPage(w http.ResponseWriter, r *http.Request) {
	h.render(w, r, http.StatusOK, pages.Login(pages.CredentialsForm{}))
}

// HandleLogin starts a cookie session
func (h *Handler) HandleLogin(w http.ResponseWriter, r *http.Request) {
	username, password := r.PostFormValue("username"), r.PostFormValue("password")

	user, err := h.accounts.Login(r.Context(), username, password)
	if err != nil {
		h.logFailure(r, "login", err)
		form := pages.CredentialsForm{Username: username, Error: userMessage(err)}
		h.render(w, r, statusFor(err), pages.Login(form))
		return
	}

	if err := h.sessions.Login(w, r, user.ID); err != nil {
		middleware.LoggerFrom(r.Context()).Error("save session", "user_id", user.ID, "error", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

func (h *Handler) HandleLogout(w http.ResponseWriter, r *http.Request) {
	if err := h.sessions.Logout(w, r); err != nil {
		middleware.LoggerFrom(r.Context()).Warn("clear session", "error", err)
	}
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

func (h *Handler) HandleCreatePage(w http.ResponseWriter, r *http.Request) {
	h.render(w, r, http.StatusOK, pages.CreateRoom(h.currentUser(r), "", ""))
}

// HandleCreate creates a room and joins the creator to it
func (h *Handler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	title := r.PostFormValue("title")

	room, err := h.rooms.Create(r.Context(), title)
	if err != nil {
		h.logFailure(r, "create room", err)
		h.render(w, r, statusFor(err), pages.CreateRoom(h.currentUser(r), title, userMessage(err)))
		return
	}
	h.joinAndOpen(w, r, room.ID)
}

// HandleJoin assigns the posted room to the user and opens the chat
func (h *Handler) HandleJoin(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseUint(r.PostFormValue("room_id"), 10, 64)
	if err != nil || id == 0 {
		redirectHome(w, r, "Room not found")
		return
	}
	h.joinAndOpen(w, r, id)
}

func (h *Handler) joinAndOpen(w http.ResponseWriter, r *http.Request, id uint64) {
	user := h.currentUser(r)
	room, err := h.rooms.Join(r.Context(), user.ID, id)
	if err != nil {
		h.logFailure(r, "join room", err)
		redirectHome(w, r, userMessage(err))
		return
	}
	http.Redirect(w, r, "/chat/"+strconv.FormatUint(room.ID, 10), http.StatusSeeOther)
}

// HandleChat renders the chat window. Users not yet in the room get a
// join form instead, since joining changes state and only happens on POST.
func (h *Handler) HandleChat(w http.ResponseWriter, r *http.Request) {
	user := h.currentUser(r)
	id, ok := pathID(r)
	if !ok {
		redirectHome(w, r, "Room not found")
		return
	}

	room, err := h.rooms.Get(r.Context(), id)
	if err != nil {
		h.logFailure(r, "load room", err)
		redirectHome(w, r, userMessage(err))
		return
	}
	if user.CurrentRoom() != id {
		h.render(w, r, http.StatusOK, pages.JoinRoom(user, room))
		return
	}
	h.render(w, r, http.StatusOK, pages.Chat(user, room))
}

func redirectHome(w http.ResponseWriter, r *http.Request, msg string) {
	http.Redirect(w, r, "/?error="+url.QueryEscape(msg), http.StatusSeeOther)
}

// logFailure logs expected user errors at debug and everything else at error
func (h *Handler) logFailure(r *http.Request, op string, err error) {
	logger := middleware.LoggerFrom(r.Context())
	if statusFor(err) == http.StatusInternalServerError {
		logger.Error(op+" failed", "error", err)
		return
	}
	logger.Debug(op+" rejected", "error", err)
}
