package user

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"feedback-service/internal/authz"
	"feedback-service/internal/events"
	"feedback-service/internal/feedback"
	"feedback-service/internal/httputil"
	"feedback-service/internal/metrics"
	"feedback-service/internal/session"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
)

type Handler struct {
	service   Service
	feedback  feedback.Service
	sessions  session.Store
	validator *validator.Validate
	logger    *slog.Logger
	metrics   *metrics.Metrics
	publisher events.Publisher
}

func NewHandler(service Service, fb feedback.Service, sessions session.Store, logger *slog.Logger, m *metrics.Metrics, publisher events.Publisher) *Handler {
	return &Handler{
		service:   service,
		feedback:  fb,
		sessions:  sessions,
		validator: validator.New(),
		logger:    logger,
		metrics:   m,
		publisher: publisher,
	}
}

// RegisterAuthRoutes mounts the anonymous credential endpoints.
func (h *Handler) RegisterAuthRoutes(r chi.Router) {
	r.Post("/auth/register", h.Register)
	r.Post("/auth/login", h.Login)
	r.Post("/auth/logout", h.Logout)
}

// RegisterRoutes mounts the profile endpoints. The router is expected to
// already carry the session middleware.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Get("/users/{username}", h.Profile)
	r.Delete("/users/{username}", h.DeleteAccount)
}

// Register creates a new account and establishes a session.
func (h *Handler) Register(w http.ResponseWriter, r *http.Request) {
	var req RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.logger.Error("failed to decode request", "error", err)
		httputil.RespondWithError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if err := h.validator.Struct(req); err != nil {
		h.logger.Warn("validation failed", "error", err)
		httputil.RespondWithError(w, http.StatusBadRequest, err.Error())
		return
	}

	u, err := h.service.Register(r.Context(), req)
	if err != nil {
		if errors.Is(err, ErrUsernameTaken) {
			httputil.RespondWithError(w, http.StatusConflict, err.Error())
			return
		}
		h.logger.Error("registration failed", "error", err)
		httputil.RespondWithError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	token, err := h.sessions.Create(r.Context(), u.Username)
	if err != nil {
		h.logger.Error("failed to create session", "error", err)
		httputil.RespondWithError(w, http.StatusInternalServerError, "internal server error")
		return
	}
	session.SetCookie(w, token)

	h.logger.Info("user registered", "username", u.Username)
	h.metrics.RecordUserRegistered(r.Context())
	h.publish(events.UserRegistered(u.Username))

	httputil.RespondWithJSON(w, http.StatusCreated, u)
}

// Login verifies credentials and establishes a session.
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.logger.Error("failed to decode request", "error", err)
		httputil.RespondWithError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if err := h.validator.Struct(req); err != nil {
		h.logger.Warn("validation failed", "error", err)
		httputil.RespondWithError(w, http.StatusBadRequest, err.Error())
		return
	}

	u, err := h.service.Authenticate(r.Context(), req.Username, req.Password)
	if err != nil {
		if errors.Is(err, ErrInvalidCredentials) {
			h.metrics.RecordLoginFailed(r.Context())
			httputil.RespondWithError(w, http.StatusUnauthorized, err.Error())
			return
		}
		h.logger.Error("login failed", "error", err)
		httputil.RespondWithError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	token, err := h.sessions.Create(r.Context(), u.Username)
	if err != nil {
		h.logger.Error("failed to create session", "error", err)
		httputil.RespondWithError(w, http.StatusInternalServerError, "internal server error")
		return
	}
	session.SetCookie(w, token)

	h.logger.Info("user logged in", "username", u.Username)
	h.metrics.RecordLoginSucceeded(r.Context())

	httputil.RespondWithJSON(w, http.StatusOK, u)
}

// Logout drops the server-side session and clears the cookie. It succeeds
// whether or not a valid session was presented.
func (h *Handler) Logout(w http.ResponseWriter, r *http.Request) {
	if cookie, err := r.Cookie(session.CookieName); err == nil {
		if err := h.sessions.Delete(r.Context(), cookie.Value); err != nil {
			h.logger.Error("failed to delete session", "error", err)
		}
	}
	session.ClearCookie(w)

	w.WriteHeader(http.StatusNoContent)
}

// Profile returns the user together with all feedback they own.
func (h *Handler) Profile(w http.ResponseWriter, r *http.Request) {
	username := chi.URLParam(r, "username")
	actor, _ := session.Username(r.Context())

	if err := authz.Authorize(actor, username); err != nil {
		httputil.RespondWithError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	u, err := h.service.Get(r.Context(), username)
	if err != nil {
		h.handleServiceError(w, err)
		return
	}

	list, err := h.feedback.ListForUser(r.Context(), username)
	if err != nil {
		h.handleServiceError(w, err)
		return
	}

	h.metrics.RecordProfileViewed(r.Context())

	httputil.RespondWithJSON(w, http.StatusOK, ProfileResponse{User: u, Feedback: list})
}

// DeleteAccount removes the user and cascades to their feedback, then ends
// the session.
func (h *Handler) DeleteAccount(w http.ResponseWriter, r *http.Request) {
	username := chi.URLParam(r, "username")
	actor, _ := session.Username(r.Context())

	if err := authz.Authorize(actor, username); err != nil {
		httputil.RespondWithError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	if err := h.service.Delete(r.Context(), username); err != nil {
		h.handleServiceError(w, err)
		return
	}

	if cookie, err := r.Cookie(session.CookieName); err == nil {
		if err := h.sessions.Delete(r.Context(), cookie.Value); err != nil {
			h.logger.Error("failed to delete session", "error", err)
		}
	}
	session.ClearCookie(w)

	h.logger.Info("account deleted", "username", username)
	h.metrics.RecordUserDeleted(r.Context())
	h.publish(events.UserDeleted(username))

	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) handleServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ErrUserNotFound):
		h.logger.Info("user not found")
		httputil.RespondWithError(w, http.StatusNotFound, "user not found")
	case errors.Is(err, authz.ErrUnauthorized):
		httputil.RespondWithError(w, http.StatusUnauthorized, "unauthorized")
	default:
		h.logger.Error("user operation failed", "error", err)
		httputil.RespondWithError(w, http.StatusInternalServerError, "internal server error")
	}
}

func (h *Handler) publish(event events.Event) {
	if h.publisher == nil {
		return
	}
	if err := h.publisher.Publish(event); err != nil {
		h.logger.Warn("failed to publish event", "type", event.Type, "error", err)
	}
}
