// Package handlers contains the HTTP handler implementations for the
// notification endpoints. Each endpoint is a thin instantiation of the
// same pattern: decode the JSON payload, validate it, hand a typed
// request to the orchestrator, and write the legacy response shape.
package handlers

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"kudosnotify/internal/core"
	"kudosnotify/internal/notify"
)

// Notifier is the orchestration contract used by every endpoint.
// Mirrors the concrete notify.Service method relevant to this handler.
type Notifier interface {
	Notify(ctx context.Context, req notify.Request) (*notify.Result, error)
}

// --- Request Models ---

// KudosEmailRequest is the request body for POST /send-kudos-email.
type KudosEmailRequest struct {
	KudosID string `json:"kudosId" validate:"required"`
}

// RewardStatusEmailRequest is the request body for
// POST /send-reward-status-email.
type RewardStatusEmailRequest struct {
	UserID     string `json:"userId" validate:"required"`
	Status     string `json:"status" validate:"required"`
	AdminNotes string `json:"adminNotes"`
}

// AdminNotificationRequest is the request body for
// POST /send-admin-notification.
type AdminNotificationRequest struct {
	RewardID string `json:"rewardId" validate:"required"`
	UserID   string `json:"userId" validate:"required"`
}

// SendEmailRequest is the request body for POST /send-email.
type SendEmailRequest struct {
	To   string `json:"to" validate:"required,email"`
	Type string `json:"type" validate:"required,oneof=kudos reward_status"`
}

// NotificationEmailRequest is the request body for
// POST /send-notification-email. RewardID and UserID are optional; when
// both accompany a reward_status send, the admin fan-out is chained.
type NotificationEmailRequest struct {
	To       string `json:"to" validate:"required,email"`
	Type     string `json:"type" validate:"required,oneof=kudos reward_status"`
	RewardID string `json:"rewardId"`
	UserID   string `json:"userId"`
}

// --- Handler ---

// NotificationHandler serves the five notification endpoints.
type NotificationHandler struct {
	notifier  Notifier
	validator *core.Validator
	logger    *slog.Logger
}

// NewNotificationHandler creates a NotificationHandler.
func NewNotificationHandler(notifier Notifier, validator *core.Validator, logger *slog.Logger) *NotificationHandler {
	return &NotificationHandler{
		notifier:  notifier,
		validator: validator,
		logger:    logger,
	}
}

// RegisterRoutes mounts the notification endpoints. OPTIONS preflight is
// handled by the CORS middleware before routing.
func (h *NotificationHandler) RegisterRoutes(r chi.Router) {
	r.Post("/send-kudos-email", h.HandleKudosEmail)
	r.Post("/send-reward-status-email", h.HandleRewardStatusEmail)
	r.Post("/send-admin-notification", h.HandleAdminNotification)
	r.Post("/send-email", h.HandleSendEmail)
	r.Post("/send-notification-email", h.HandleNotificationEmail)
}

// HandleKudosEmail emails the receiver of a kudos.
func (h *NotificationHandler) HandleKudosEmail(w http.ResponseWriter, r *http.Request) {
	var req KudosEmailRequest
	if err := h.decode(w, r, &req); err != nil {
		core.Error(w, r, h.logger, err)
		return
	}

	h.logger.Info("processing kudos email", "kudos_id", req.KudosID)

	if _, err := h.notifier.Notify(r.Context(), notify.Request{
		Kind:    notify.KindKudos,
		KudosID: req.KudosID,
	}); err != nil {
		core.Error(w, r, h.logger, err)
		return
	}

	core.Success(w, r)
}

// HandleRewardStatusEmail emails a claimant about their reward resolution.
func (h *NotificationHandler) HandleRewardStatusEmail(w http.ResponseWriter, r *http.Request) {
	var req RewardStatusEmailRequest
	if err := h.decode(w, r, &req); err != nil {
		core.Error(w, r, h.logger, err)
		return
	}

	h.logger.Info("processing reward status email",
		"user_id", req.UserID,
		"status", req.Status,
	)

	if _, err := h.notifier.Notify(r.Context(), notify.Request{
		Kind:       notify.KindRewardStatus,
		UserID:     req.UserID,
		Status:     req.Status,
		AdminNotes: req.AdminNotes,
	}); err != nil {
		core.Error(w, r, h.logger, err)
		return
	}

	core.Success(w, r)
}

// HandleAdminNotification fans a claim alert out to the reward's company
// admins. Individual send failures inside the fan-out do not fail the
// request; only entity resolution failures do.
func (h *NotificationHandler) HandleAdminNotification(w http.ResponseWriter, r *http.Request) {
	var req AdminNotificationRequest
	if err := h.decode(w, r, &req); err != nil {
		core.Error(w, r, h.logger, err)
		return
	}

	h.logger.Info("processing admin notification",
		"reward_id", req.RewardID,
		"user_id", req.UserID,
	)

	if _, err := h.notifier.Notify(r.Context(), notify.Request{
		Kind:     notify.KindAdminClaim,
		RewardID: req.RewardID,
		UserID:   req.UserID,
	}); err != nil {
		core.Error(w, r, h.logger, err)
		return
	}

	core.Success(w, r)
}

// HandleSendEmail sends a generic notification email to an explicit
// address and passes the provider receipt through to the caller.
func (h *NotificationHandler) HandleSendEmail(w http.ResponseWriter, r *http.Request) {
	var req SendEmailRequest
	if err := h.decode(w, r, &req); err != nil {
		core.Error(w, r, h.logger, err)
		return
	}

	h.logger.Info("processing generic email", "to", req.To, "type", req.Type)

	result, err := h.notifier.Notify(r.Context(), notify.Request{
		Kind:      notify.KindGeneric,
		To:        req.To,
		EmailType: req.Type,
	})
	if err != nil {
		core.Error(w, r, h.logger, err)
		return
	}

	h.writeReceipt(w, r, result)
}

// HandleNotificationEmail sends a generic notification email and, for
// reward claims, chains the admin fan-out.
func (h *NotificationHandler) HandleNotificationEmail(w http.ResponseWriter, r *http.Request) {
	var req NotificationEmailRequest
	if err := h.decode(w, r, &req); err != nil {
		core.Error(w, r, h.logger, err)
		return
	}

	h.logger.Info("processing notification email",
		"to", req.To,
		"type", req.Type,
	)

	result, err := h.notifier.Notify(r.Context(), notify.Request{
		Kind:      notify.KindGeneric,
		To:        req.To,
		EmailType: req.Type,
		RewardID:  req.RewardID,
		UserID:    req.UserID,
	})
	if err != nil {
		core.Error(w, r, h.logger, err)
		return
	}

	h.writeReceipt(w, r, result)
}

// decode parses and validates a request payload.
func (h *NotificationHandler) decode(w http.ResponseWriter, r *http.Request, dst interface{}) error {
	if err := core.DecodeJSON(w, r, dst); err != nil {
		return err
	}
	return h.validator.ValidateStruct(dst)
}

// writeReceipt passes the provider receipt body through when available,
// falling back to the plain success body.
func (h *NotificationHandler) writeReceipt(w http.ResponseWriter, r *http.Request, result *notify.Result) {
	if result != nil && result.Receipt != nil && len(result.Receipt.Raw) > 0 {
		core.JSONRaw(w, http.StatusOK, result.Receipt.Raw)
		return
	}
	core.Success(w, r)
}
