package feedback

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"feedback-service/internal/authz"
	"feedback-service/internal/events"
	"feedback-service/internal/httputil"
	"feedback-service/internal/metrics"
	"feedback-service/internal/session"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
)

type Handler struct {
	service   Service
	validator *validator.Validate
	logger    *slog.Logger
	metrics   *metrics.Metrics
	publisher events.Publisher
}

func NewHandler(service Service, logger *slog.Logger, m *metrics.Metrics, publisher events.Publisher) *Handler {
	return &Handler{
		service:   service,
		validator: validator.New(),
		logger:    logger,
		metrics:   m,
		publisher: publisher,
	}
}

// RegisterRoutes mounts the feedback endpoints. The router is expected to
// already carry the session middleware.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Post("/users/{username}/feedback", h.Create)
	r.Get("/feedback/{id}", h.Get)
	r.Put("/feedback/{id}", h.Update)
	r.Delete("/feedback/{id}", h.Delete)
}

// Create inserts a new feedback entry owned by the username in the URL.
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	owner := chi.URLParam(r, "username")
	actor, _ := session.Username(r.Context())

	var req CreateRequest
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

	created, err := h.service.Create(r.Context(), actor, owner, req)
	if err != nil {
		h.handleServiceError(w, r, err)
		return
	}

	h.metrics.RecordFeedbackCreated(r.Context())
	h.publish(events.FeedbackCreated(created.Username, created.ID))

	httputil.RespondWithJSON(w, http.StatusCreated, created)
}

// Get returns a single feedback entry to its owner.
func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r)
	if err != nil {
		httputil.RespondWithError(w, http.StatusBadRequest, "invalid feedback id")
		return
	}
	actor, _ := session.Username(r.Context())

	f, err := h.service.Get(r.Context(), actor, id)
	if err != nil {
		h.handleServiceError(w, r, err)
		return
	}

	httputil.RespondWithJSON(w, http.StatusOK, f)
}

// Update mutates title and content of an existing entry in place.
func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r)
	if err != nil {
		httputil.RespondWithError(w, http.StatusBadRequest, "invalid feedback id")
		return
	}
	actor, _ := session.Username(r.Context())

	var req UpdateRequest
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

	updated, err := h.service.Update(r.Context(), actor, id, req)
	if err != nil {
		h.handleServiceError(w, r, err)
		return
	}

	h.metrics.RecordFeedbackUpdated(r.Context())
	h.publish(events.FeedbackUpdated(updated.Username, updated.ID))

	httputil.RespondWithJSON(w, http.StatusOK, updated)
}

// Delete removes an entry. Deleting an id that is already gone responds
// 204 as well, so delete is idempotent from the caller's viewpoint.
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r)
	if err != nil {
		httputil.RespondWithError(w, http.StatusBadRequest, "invalid feedback id")
		return
	}
	actor, _ := session.Username(r.Context())

	if err := h.service.Delete(r.Context(), actor, id); err != nil {
		if errors.Is(err, ErrFeedbackNotFound) {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		h.handleServiceError(w, r, err)
		return
	}

	h.metrics.RecordFeedbackDeleted(r.Context())
	h.publish(events.FeedbackDeleted(actor, id))

	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) handleServiceError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, authz.ErrUnauthorized):
		h.logger.Warn("unauthorized feedback access", "path", r.URL.Path)
		httputil.RespondWithError(w, http.StatusUnauthorized, "unauthorized")
	case errors.Is(err, ErrFeedbackNotFound):
		h.logger.Info("feedback not found")
		httputil.RespondWithError(w, http.StatusNotFound, "feedback not found")
	case errors.Is(err, ErrOwnerMissing):
		h.logger.Warn("feedback owner missing")
		httputil.RespondWithError(w, http.StatusConflict, "owner does not exist")
	default:
		h.logger.Error("feedback operation failed", "error", err)
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

func parseID(r *http.Request) (int64, error) {
	return strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
}
