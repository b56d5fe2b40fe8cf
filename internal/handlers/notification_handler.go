package handlers

import (
	"context"
	"strings"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/harentsoaR/gym-api/internal/models"
)

type createNotificationRequest struct {
	MemberID string `json:"memberId" binding:"required"`
	Message  string `json:"message" binding:"required,notblank"`
	Type     string `json:"type"`
}

type updateNotificationRequest struct {
	Message *string `json:"message" binding:"omitempty,notblank"`
	Type    *string `json:"type" binding:"omitempty,notblank"`
	Read    *bool   `json:"read"`
}

type notificationView struct {
	models.Notification
	Member *models.UserSummary `json:"member"`
}

func (h *Handler) notificationResource() *resource[models.Notification, createNotificationRequest, updateNotificationRequest] {
	return &resource[models.Notification, createNotificationRequest, updateNotificationRequest]{
		h:      h,
		entity: "Notification",
		coll:   h.Store.Notifications,
		build:  h.buildNotification,
		patch:  patchNotification,
		present: func(c *gin.Context, docs []models.Notification) ([]any, error) {
			return h.notificationViews(c.Request.Context(), docs)
		},
		created: h.notificationCreated,
	}
}

// RegisterNotifications mounts the admin notification routes on g.
func (h *Handler) RegisterNotifications(g *gin.RouterGroup) {
	h.notificationResource().register(g)
}

const recipientKey = "notificationRecipient"

func (h *Handler) buildNotification(c *gin.Context, req *createNotificationRequest) (*models.Notification, error) {
	member, err := h.nonAdminAccount(c.Request.Context(), req.MemberID)
	if err != nil {
		return nil, err
	}
	c.Set(recipientKey, member)

	kind := strings.TrimSpace(req.Type)
	if kind == "" {
		kind = models.DefaultNotificationType
	}
	return &models.Notification{
		Base:    models.NewBase(h.now()),
		Member:  member.ID,
		Message: req.Message,
		Type:    kind,
	}, nil
}

func (h *Handler) notificationCreated(c *gin.Context, n *models.Notification) {
	member, ok := c.Get(recipientKey)
	if !ok {
		return
	}
	h.NotificationSvc.Deliver(member.(*models.User), n)
}

func patchNotification(_ *gin.Context, req *updateNotificationRequest) (bson.M, error) {
	set := bson.M{}
	if req.Message != nil {
		set["message"] = *req.Message
	}
	if req.Type != nil {
		set["type"] = strings.TrimSpace(*req.Type)
	}
	if req.Read != nil {
		set["read"] = *req.Read
	}
	return set, nil
}

func (h *Handler) notificationViews(ctx context.Context, notifications []models.Notification) ([]any, error) {
	ids := make([]primitive.ObjectID, len(notifications))
	for i := range notifications {
		ids[i] = notifications[i].Member
	}
	owners, err := h.accountSummaries(ctx, ids)
	if err != nil {
		return nil, err
	}
	out := make([]any, len(notifications))
	for i := range notifications {
		view := notificationView{Notification: notifications[i]}
		if owner, ok := owners[notifications[i].Member]; ok {
			view.Member = &owner
		}
		out[i] = view
	}
	return out, nil
}
