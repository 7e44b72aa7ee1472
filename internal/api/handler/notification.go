package handler

import (
	"net/http"

	"github.com/tekashi/storefront/internal/api/request"
	"github.com/tekashi/storefront/internal/api/response"
	"github.com/tekashi/storefront/internal/core"
	"github.com/tekashi/storefront/internal/model"
)

type Notification struct {
	svc *core.NotificationService
}

func NewNotification(svc *core.NotificationService) *Notification {
	return &Notification{svc: svc}
}

type unreadResponse struct {
	Items []model.Notification `json:"items"`
	Count int                  `json:"count"`
}

func notificationFilter(r *http.Request) core.NotificationFilter {
	nf := core.NotificationFilter{
		Kind:     r.URL.Query().Get("kind"),
		Category: r.URL.Query().Get("category"),
	}
	if unread := request.QueryBool(r, "unread"); unread != nil {
		nf.UnreadOnly = *unread
	}
	return nf
}

// List godoc
//
//	@Summary		List the caller's notifications
//	@Description	Expired notifications are hidden. Ordered by priority, newest first.
//	@Tags			Notifications
//	@Security		BearerAuth
//	@Param			unread query bool false "Unread only"
//	@Param			kind query string false "Kind"
//	@Param			category query string false "Category"
//	@Param			limit query int false "Page size" default(50)
//	@Param			cursor query string false "Pagination cursor"
//	@Success		200 {object} response.PaginatedResponse{items=[]model.Notification}
//	@Router			/notifications [get]
func (h *Notification) List(w http.ResponseWriter, r *http.Request) {
	c, ok := claims(w, r)
	if !ok {
		return
	}
	h.list(w, r, c.Sub)
}

func (h *Notification) list(w http.ResponseWriter, r *http.Request, userID string) {
	params := request.ParseListParams(r, "priority")
	items, hasMore, err := h.svc.List(r.Context(), userID, notificationFilter(r), params)
	if err != nil {
		response.WriteServiceError(w, err)
		return
	}
	writePage(w, params, items, hasMore)
}

// Unread godoc
//
//	@Summary		Unread notifications and their count
//	@Tags			Notifications
//	@Security		BearerAuth
//	@Success		200 {object} unreadResponse
//	@Router			/notifications/unread [get]
func (h *Notification) Unread(w http.ResponseWriter, r *http.Request) {
	c, ok := claims(w, r)
	if !ok {
		return
	}
	params := request.ParseListParams(r, "priority")
	items, _, err := h.svc.List(r.Context(), c.Sub, core.NotificationFilter{UnreadOnly: true}, params)
	if err != nil {
		response.WriteServiceError(w, err)
		return
	}
	count, err := h.svc.UnreadCount(r.Context(), c.Sub)
	if err != nil {
		response.WriteServiceError(w, err)
		return
	}
	if items == nil {
		items = []model.Notification{}
	}
	response.WriteJSON(w, http.StatusOK, unreadResponse{Items: items, Count: count})
}

// Stats godoc
//
//	@Summary		The caller's notification statistics
//	@Tags			Notifications
//	@Security		BearerAuth
//	@Success		200 {object} model.NotificationStats
//	@Router			/notifications/stats [get]
func (h *Notification) Stats(w http.ResponseWriter, r *http.Request) {
	c, ok := claims(w, r)
	if !ok {
		return
	}
	h.stats(w, r, c.Sub)
}

func (h *Notification) stats(w http.ResponseWriter, r *http.Request, userID string) {
	st, err := h.svc.Stats(r.Context(), userID)
	if err != nil {
		response.WriteServiceError(w, err)
		return
	}
	response.WriteJSON(w, http.StatusOK, st)
}

// Get godoc
//
//	@Summary		Get a notification
//	@Tags			Notifications
//	@Security		BearerAuth
//	@Param			id path string true "Notification ID"
//	@Success		200 {object} model.Notification
//	@Failure		404 {object} response.ErrorResponse
//	@Router			/notifications/{id} [get]
func (h *Notification) Get(w http.ResponseWriter, r *http.Request) {
	c, ok := claims(w, r)
	if !ok {
		return
	}
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	n, err := h.svc.Get(r.Context(), c.Sub, id)
	if err != nil {
		response.WriteServiceError(w, err)
		return
	}
	response.WriteJSON(w, http.StatusOK, n)
}

// MarkRead godoc
//
//	@Summary		Mark a notification read
//	@Tags			Notifications
//	@Security		BearerAuth
//	@Param			id path string true "Notification ID"
//	@Success		204
//	@Router			/notifications/{id}/read [post]
func (h *Notification) MarkRead(w http.ResponseWriter, r *http.Request) {
	c, ok := claims(w, r)
	if !ok {
		return
	}
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	if err := h.svc.MarkRead(r.Context(), c.Sub, id); err != nil {
		response.WriteServiceError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// MarkAllRead godoc
//
//	@Summary		Mark every notification read
//	@Tags			Notifications
//	@Security		BearerAuth
//	@Success		200 {object} map[string]int64
//	@Router			/notifications/read-all [post]
func (h *Notification) MarkAllRead(w http.ResponseWriter, r *http.Request) {
	c, ok := claims(w, r)
	if !ok {
		return
	}
	n, err := h.svc.MarkAllRead(r.Context(), c.Sub)
	if err != nil {
		response.WriteServiceError(w, err)
		return
	}
	response.WriteJSON(w, http.StatusOK, map[string]int64{"updated": n})
}

// Click godoc
//
//	@Summary		Record a click on a notification
//	@Tags			Notifications
//	@Security		BearerAuth
//	@Param			id path string true "Notification ID"
//	@Success		200 {object} model.Notification
//	@Router			/notifications/{id}/click [post]
func (h *Notification) Click(w http.ResponseWriter, r *http.Request) {
	c, ok := claims(w, r)
	if !ok {
		return
	}
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	n, err := h.svc.Click(r.Context(), c.Sub, id)
	if err != nil {
		response.WriteServiceError(w, err)
		return
	}
	response.WriteJSON(w, http.StatusOK, n)
}

// Delete godoc
//
//	@Summary		Delete a notification
//	@Tags			Notifications
//	@Security		BearerAuth
//	@Param			id path string true "Notification ID"
//	@Success		204
//	@Router			/notifications/{id} [delete]
func (h *Notification) Delete(w http.ResponseWriter, r *http.Request) {
	c, ok := claims(w, r)
	if !ok {
		return
	}
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	if err := h.svc.Delete(r.Context(), c.Sub, id); err != nil {
		response.WriteServiceError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// DeleteAll godoc
//
//	@Summary		Delete every notification of the caller
//	@Tags			Notifications
//	@Security		BearerAuth
//	@Success		200 {object} map[string]int64
//	@Router			/notifications [delete]
func (h *Notification) DeleteAll(w http.ResponseWriter, r *http.Request) {
	c, ok := claims(w, r)
	if !ok {
		return
	}
	n, err := h.svc.DeleteAll(r.Context(), c.Sub)
	if err != nil {
		response.WriteServiceError(w, err)
		return
	}
	response.WriteJSON(w, http.StatusOK, map[string]int64{"deleted": n})
}

// Create godoc
//
//	@Summary		Send a notification to a user
//	@Tags			Notifications
//	@Security		BearerAuth
//	@Param			body body request.CreateNotification true "Notification"
//	@Success		201 {object} model.Notification
//	@Router			/admin/notifications [post]
func (h *Notification) Create(w http.ResponseWriter, r *http.Request) {
	var req request.CreateNotification
	if !decode(w, r, &req) {
		return
	}

	n := &model.Notification{
		UserID:     req.UserID,
		Title:      req.Title,
		Message:    req.Message,
		Kind:       req.Kind,
		Category:   req.Category,
		Priority:   req.Priority,
		ActionURL:  req.ActionURL,
		ActionText: req.ActionText,
		ExpiresAt:  req.ExpiresAt,
	}
	if err := h.svc.Create(r.Context(), n); err != nil {
		response.WriteServiceError(w, err)
		return
	}
	response.WriteJSON(w, http.StatusCreated, n)
}

// Bulk godoc
//
//	@Summary		Send one notification to many users
//	@Tags			Notifications
//	@Security		BearerAuth
//	@Param			body body request.BulkNotification true "Notification and recipients"
//	@Success		201 {object} map[string]any
//	@Router			/admin/notifications/bulk [post]
func (h *Notification) Bulk(w http.ResponseWriter, r *http.Request) {
	var req request.BulkNotification
	if !decode(w, r, &req) {
		return
	}

	groupID, n, err := h.svc.BulkCreate(r.Context(), req.UserIDs, model.Notification{
		Title:      req.Title,
		Message:    req.Message,
		Kind:       req.Kind,
		Category:   req.Category,
		Priority:   req.Priority,
		ActionURL:  req.ActionURL,
		ActionText: req.ActionText,
		ExpiresAt:  req.ExpiresAt,
	})
	if err != nil {
		response.WriteServiceError(w, err)
		return
	}
	response.WriteJSON(w, http.StatusCreated, map[string]any{"group_id": groupID, "created": n})
}

// ForUser godoc
//
//	@Summary		List a user's notifications
//	@Tags			Notifications
//	@Security		BearerAuth
//	@Param			userId path string true "User ID"
//	@Success		200 {object} response.PaginatedResponse{items=[]model.Notification}
//	@Router			/admin/notifications/user/{userId} [get]
func (h *Notification) ForUser(w http.ResponseWriter, r *http.Request) {
	userID, ok := pathID(w, r, "userId")
	if !ok {
		return
	}
	h.list(w, r, userID)
}

// GlobalStats godoc
//
//	@Summary		Notification statistics across all users
//	@Tags			Notifications
//	@Security		BearerAuth
//	@Success		200 {object} model.NotificationStats
//	@Router			/admin/notifications/stats [get]
func (h *Notification) GlobalStats(w http.ResponseWriter, r *http.Request) {
	h.stats(w, r, "")
}
