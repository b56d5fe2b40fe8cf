package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson"

	"github.com/harentsoaR/gym-api/internal/apperr"
	"github.com/harentsoaR/gym-api/internal/store"
)

type updateMyNotificationRequest struct {
	Read *bool `json:"read"`
}

// GetMyBills lists the bills owned by the caller.
func (h *Handler) GetMyBills(c *gin.Context) {
	account, err := caller(c)
	if err != nil {
		h.fail(c, err)
		return
	}
	bills, err := h.Store.Bills.List(c.Request.Context(), store.Filter{"member": account.ID})
	if err != nil {
		h.fail(c, apperr.Server(err, "Server error fetching bills"))
		return
	}
	views, err := h.billViews(c.Request.Context(), bills)
	if err != nil {
		h.fail(c, apperr.Server(err, "Server error fetching bills"))
		return
	}
	c.JSON(http.StatusOK, views)
}

// GetMyNotifications lists the notifications addressed to the caller.
func (h *Handler) GetMyNotifications(c *gin.Context) {
	account, err := caller(c)
	if err != nil {
		h.fail(c, err)
		return
	}
	notifications, err := h.Store.Notifications.List(c.Request.Context(), store.Filter{"member": account.ID})
	if err != nil {
		h.fail(c, apperr.Server(err, "Server error fetching notifications"))
		return
	}
	views, err := h.notificationViews(c.Request.Context(), notifications)
	if err != nil {
		h.fail(c, apperr.Server(err, "Server error fetching notifications"))
		return
	}
	c.JSON(http.StatusOK, views)
}

// UpdateMyNotification flips the read flag of one of the caller's
// notifications. Nothing else about the notification can be changed here.
func (h *Handler) UpdateMyNotification(c *gin.Context) {
	account, err := caller(c)
	if err != nil {
		h.fail(c, err)
		return
	}
	id, err := parseID(c, "Notification")
	if err != nil {
		h.fail(c, err)
		return
	}
	var req updateMyNotificationRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.Read == nil {
		h.fail(c, apperr.Validation("Invalid update data provided"))
		return
	}

	ctx := c.Request.Context()
	notification, err := h.Store.Notifications.Get(ctx, id)
	if err != nil {
		h.fail(c, apperr.FromStore(err, "Notification"))
		return
	}
	if notification.Member != account.ID {
		h.fail(c, apperr.Forbidden("Not authorized to update this notification"))
		return
	}

	updated, err := h.Store.Notifications.Update(ctx, id, bson.M{"read": *req.Read})
	if err != nil {
		h.fail(c, apperr.FromStore(err, "Notification"))
		return
	}
	c.JSON(http.StatusOK, updated)
}
