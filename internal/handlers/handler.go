package handlers

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/harentsoaR/gym-api/internal/apperr"
	"github.com/harentsoaR/gym-api/internal/middleware"
	"github.com/harentsoaR/gym-api/internal/models"
	"github.com/harentsoaR/gym-api/internal/services"
	"github.com/harentsoaR/gym-api/internal/store"
	"github.com/harentsoaR/gym-api/internal/utils"
)

// Options carries the configuration values handlers need.
type Options struct {
	BcryptCost       int
	AllowAdminSignup bool
	ExposeStack      bool
}

// Handler is the toolbox every route method hangs off.
type Handler struct {
	Store           *store.Store
	Tokens          *utils.JWTManager
	NotificationSvc *services.NotificationService

	opts Options
	now  func() time.Time
}

func NewHandler(s *store.Store, tokens *utils.JWTManager, notificationSvc *services.NotificationService, opts Options) *Handler {
	return &Handler{
		Store:           s,
		Tokens:          tokens,
		NotificationSvc: notificationSvc,
		opts:            opts,
		now:             func() time.Time { return time.Now().UTC() },
	}
}

func (h *Handler) fail(c *gin.Context, err error) {
	apperr.Write(c, err, h.opts.ExposeStack)
}

// bindJSON decodes and validates the request body into req.
func bindJSON(c *gin.Context, req any) error {
	if err := c.ShouldBindJSON(req); err != nil {
		return apperr.Validation("%s", validationMessage(err))
	}
	return nil
}

// parseID reads the :id path parameter. A malformed id cannot name an
// existing document, so it is reported as not found.
func parseID(c *gin.Context, entity string) (primitive.ObjectID, error) {
	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		return primitive.NilObjectID, apperr.NotFound("%s not found (Invalid ID format)", entity)
	}
	return id, nil
}

// caller returns the authenticated account. Routes using it are always
// mounted behind AuthMiddleware.
func caller(c *gin.Context) (*models.User, error) {
	account, ok := middleware.CurrentAccount(c)
	if !ok {
		return nil, apperr.Unauthenticated("Not authorized")
	}
	return account, nil
}

// nonAdminAccount resolves a memberId field of a bill or notification. Only
// Member and User accounts may own those documents.
func (h *Handler) nonAdminAccount(ctx context.Context, raw string) (*models.User, error) {
	id, err := primitive.ObjectIDFromHex(strings.TrimSpace(raw))
	if err != nil {
		return nil, apperr.Validation("Invalid member ID format")
	}
	account, err := h.Store.Users.Get(ctx, id)
	if errors.Is(err, store.ErrNotFound) {
		return nil, apperr.NotFound("Member not found")
	}
	if err != nil {
		return nil, apperr.FromStore(err, "Member")
	}
	if account.Role == models.RoleAdmin {
		return nil, apperr.Validation("Invalid or non-member user ID provided")
	}
	return account, nil
}

// accountSummaries loads the accounts referenced by ids, keyed by id.
func (h *Handler) accountSummaries(ctx context.Context, ids []primitive.ObjectID) (map[primitive.ObjectID]models.UserSummary, error) {
	out := make(map[primitive.ObjectID]models.UserSummary, len(ids))
	if len(ids) == 0 {
		return out, nil
	}
	users, err := h.Store.Users.List(ctx, store.Filter{"_id": store.Filter{"$in": uniqueIDs(ids)}})
	if err != nil {
		return nil, err
	}
	for i := range users {
		out[users[i].ID] = users[i].Summary()
	}
	return out, nil
}

func uniqueIDs(ids []primitive.ObjectID) []primitive.ObjectID {
	seen := make(map[primitive.ObjectID]struct{}, len(ids))
	out := make([]primitive.ObjectID, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}

// parseDate accepts "2006-01-02" or an RFC 3339 timestamp.
func parseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if t, err := time.Parse(time.DateOnly, s); err == nil {
		return t, nil
	}
	return time.Parse(time.RFC3339, s)
}
