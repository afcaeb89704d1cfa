package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"memberflow_backend/internal/domain/entity"
	"memberflow_backend/internal/shared/httperr"
)

// NotificationUsecase defines the notification operations the handler
// consumes.
type NotificationUsecase interface {
	Save(ctx context.Context, n *entity.Notification) (*entity.Notification, error)
	Update(ctx context.Context, n *entity.Notification) (*entity.Notification, error)
	FindByID(ctx context.Context, id uint) (*entity.Notification, error)
	FindAll(ctx context.Context) ([]*entity.Notification, error)
	FindAllByUserID(ctx context.Context, userID uint) ([]*entity.Notification, error)
	AddNotificationToUser(ctx context.Context, notificationID, userID uint) (*entity.Notification, error)
	RemoveNotificationFromUser(ctx context.Context, notificationID, userID uint) (*entity.Notification, error)
	DeleteByID(ctx context.Context, id uint) error
}

// NotificationHandler handles the HTTP requests for notifications.
type NotificationHandler struct {
	notifications NotificationUsecase
}

func NewNotificationHandler(notifications NotificationUsecase) *NotificationHandler {
	return &NotificationHandler{notifications: notifications}
}

func (h *NotificationHandler) Create(c *gin.Context) {
	var n entity.Notification
	if err := c.ShouldBindJSON(&n); err != nil {
		c.JSON(http.StatusBadRequest, httperr.ErrorResponse{Error: "invalid request"})
		return
	}
	saved, err := h.notifications.Save(c.Request.Context(), &n)
	if err != nil {
		httperr.Write(c, err)
		return
	}
	c.JSON(http.StatusCreated, saved)
}

func (h *NotificationHandler) Get(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	n, err := h.notifications.FindByID(c.Request.Context(), id)
	if err != nil {
		httperr.Write(c, err)
		return
	}
	c.JSON(http.StatusOK, n)
}

// Update merges a notification by id.
func (h *NotificationHandler) Update(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	var n entity.Notification
	if err := c.ShouldBindJSON(&n); err != nil {
		c.JSON(http.StatusBadRequest, httperr.ErrorResponse{Error: "invalid request"})
		return
	}
	n.ID = id
	updated, err := h.notifications.Update(c.Request.Context(), &n)
	if err != nil {
		httperr.Write(c, err)
		return
	}
	c.JSON(http.StatusOK, updated)
}

func (h *NotificationHandler) List(c *gin.Context) {
	out, err := h.notifications.FindAll(c.Request.Context())
	if err != nil {
		httperr.Write(c, err)
		return
	}
	c.JSON(http.StatusOK, out)
}

func (h *NotificationHandler) ListByUser(c *gin.Context) {
	userID, ok := parseID(c, "id")
	if !ok {
		return
	}
	out, err := h.notifications.FindAllByUserID(c.Request.Context(), userID)
	if err != nil {
		httperr.Write(c, err)
		return
	}
	c.JSON(http.StatusOK, out)
}

func (h *NotificationHandler) AddToUser(c *gin.Context) {
	notificationID, ok := parseID(c, "id")
	if !ok {
		return
	}
	userID, ok := parseID(c, "userId")
	if !ok {
		return
	}
	n, err := h.notifications.AddNotificationToUser(c.Request.Context(), notificationID, userID)
	if err != nil {
		httperr.Write(c, err)
		return
	}
	c.JSON(http.StatusOK, n)
}

func (h *NotificationHandler) RemoveFromUser(c *gin.Context) {
	notificationID, ok := parseID(c, "id")
	if !ok {
		return
	}
	userID, ok := parseID(c, "userId")
	if !ok {
		return
	}
	n, err := h.notifications.RemoveNotificationFromUser(c.Request.Context(), notificationID, userID)
	if err != nil {
		httperr.Write(c, err)
		return
	}
	c.JSON(http.StatusOK, n)
}

func (h *NotificationHandler) Delete(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	if err := h.notifications.DeleteByID(c.Request.Context(), id); err != nil {
		httperr.Write(c, err)
		return
	}
	c.JSON(http.StatusOK, httperr.MessageResponse{Message: "deleted"})
}
