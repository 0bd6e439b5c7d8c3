package handlers

import (
	"errors"
	"net/http"
	"strings"

	"kicks/internal/auth"
	"kicks/internal/models"
	"kicks/internal/storage"

	"go.uber.org/zap"
)

type signInRequest struct {
	User models.Credentials `json:"user"`
}

type signUpRequest struct {
	User models.SignUpParams `json:"user"`
}

// GetSession returns the signed-in user, or null.
func (h *Handlers) GetSession(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, models.SessionPayload{User: GetUserFromContext(r)})
}

// SignIn checks credentials, rotates the user's session token and sets the
// session cookie.
func (h *Handlers) SignIn(w http.ResponseWriter, r *http.Request) {
	var req signInRequest
	if err := decodeJSON(r, &req); err != nil {
		writeErrors(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	email := models.NormalizeEmail(req.User.Email)
	if email == "" || req.User.Password == "" {
		writeErrors(w, http.StatusUnauthorized, "Invalid email or password")
		return
	}

	user, err := h.db.GetUserByEmail(email)
	if err != nil && !errors.Is(err, storage.ErrNotFound) {
		h.serverError(w, "get user by email", err)
		return
	}
	if err != nil || !auth.CheckPassword(req.User.Password, user.PasswordHash) {
		writeErrors(w, http.StatusUnauthorized, "Invalid email or password")
		return
	}

	if err := h.startSession(w, user); err != nil {
		h.serverError(w, "start session", err)
		return
	}

	h.logger.Info("user signed in", zap.Int64("user_id", user.ID))
	writeJSON(w, http.StatusOK, models.SessionPayload{User: user})
}

// SignOut rotates the user's session token so the current cookie stops
// working, and clears the cookie.
func (h *Handlers) SignOut(w http.ResponseWriter, r *http.Request) {
	user := GetUserFromContext(r)

	token, err := auth.GenerateSessionToken()
	if err != nil {
		h.serverError(w, "generate session token", err)
		return
	}
	if err := h.db.EndSession(user.ID, token); err != nil {
		h.serverError(w, "end session", err)
		return
	}

	h.clearSessionCookie(w)
	writeJSON(w, http.StatusOK, models.SessionPayload{})
}

// SignUp creates an account and signs it in.
func (h *Handlers) SignUp(w http.ResponseWriter, r *http.Request) {
	var req signUpRequest
	if err := decodeJSON(r, &req); err != nil {
		writeErrors(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	params := req.User
	params.Name = strings.TrimSpace(params.Name)
	params.Email = models.NormalizeEmail(params.Email)
	if errs := params.Validate(); len(errs) > 0 {
		writeErrors(w, http.StatusUnprocessableEntity, errs...)
		return
	}

	hash, err := auth.HashPassword(params.Password)
	if err != nil {
		h.serverError(w, "hash password", err)
		return
	}
	token, err := auth.GenerateSessionToken()
	if err != nil {
		h.serverError(w, "generate session token", err)
		return
	}

	user, err := h.db.CreateUser(params.Name, params.Email, hash, token)
	if errors.Is(err, storage.ErrEmailTaken) {
		writeErrors(w, http.StatusUnprocessableEntity, "Email has already been taken")
		return
	}
	if err != nil {
		h.serverError(w, "create user", err)
		return
	}

	if err := h.startSession(w, user); err != nil {
		h.serverError(w, "start session", err)
		return
	}

	h.logger.Info("user signed up", zap.Int64("user_id", user.ID))
	writeJSON(w, http.StatusCreated, models.SessionPayload{User: user})
}

// ShowUser returns a user with the projects they backed and created, and the
// rewards and backings linking them.
func (h *Handlers) ShowUser(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "id")
	if !ok {
		writeErrors(w, http.StatusNotFound, "User not found")
		return
	}

	user, err := h.db.GetUserByID(id)
	if errors.Is(err, storage.ErrNotFound) {
		writeErrors(w, http.StatusNotFound, "User not found")
		return
	}
	if err != nil {
		h.serverError(w, "get user", err)
		return
	}

	backed, err := h.db.BackedProjects(id)
	if err != nil {
		h.serverError(w, "list backed projects", err)
		return
	}
	created, err := h.db.ProjectsByUser(id)
	if err != nil {
		h.serverError(w, "list created projects", err)
		return
	}
	rewards, err := h.db.RewardsBackedByUser(id)
	if err != nil {
		h.serverError(w, "list backed rewards", err)
		return
	}
	backings, err := h.db.BackingsByUser(id)
	if err != nil {
		h.serverError(w, "list backings", err)
		return
	}

	writeJSON(w, http.StatusOK, models.UserPayload{
		User:            *user,
		BackedProjects:  byID(backed),
		CreatedProjects: byID(created),
		Rewards:         byID(rewards),
		Backings:        byID(backings),
	})
}

// byID keys records by their ID, the shape the client store merges.
func byID[T interface{ EntityID() int64 }](records []T) map[int64]T {
	m := make(map[int64]T, len(records))
	for _, rec := range records {
		m[rec.EntityID()] = rec
	}
	return m
}
