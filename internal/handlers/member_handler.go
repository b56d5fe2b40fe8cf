package handlers

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/harentsoaR/gym-api/internal/apperr"
	"github.com/harentsoaR/gym-api/internal/membership"
	"github.com/harentsoaR/gym-api/internal/models"
	"github.com/harentsoaR/gym-api/internal/store"
	"github.com/harentsoaR/gym-api/internal/utils"
)

type createMemberRequest struct {
	Username string `json:"username" binding:"required,notblank"`
	Password string `json:"password" binding:"required,min=6"`
	Role     string `json:"role" binding:"omitempty,role"`
}

type updateMemberRequest struct {
	Username *string `json:"username" binding:"omitempty,notblank"`
	Role     *string `json:"role" binding:"omitempty,role"`
	Password *string `json:"password" binding:"omitempty,min=6"`
}

type assignPackageRequest struct {
	PackageID string `json:"packageId" binding:"required"`
	// StartDate defaults to now only when absent; an explicit value must parse.
	StartDate *string `json:"startDate"`
}

// memberView is an account with its current fee package expanded.
type memberView struct {
	models.User
	CurrentMembership *models.FeePackageSummary `json:"currentMembership"`
}

func (h *Handler) memberViews(ctx context.Context, users []models.User) ([]memberView, error) {
	var ids []primitive.ObjectID
	for i := range users {
		if users[i].CurrentMembership != nil {
			ids = append(ids, *users[i].CurrentMembership)
		}
	}
	packages := map[primitive.ObjectID]models.FeePackageSummary{}
	if len(ids) > 0 {
		found, err := h.Store.FeePackages.List(ctx, store.Filter{"_id": store.Filter{"$in": uniqueIDs(ids)}})
		if err != nil {
			return nil, err
		}
		for i := range found {
			packages[found[i].ID] = found[i].Summary()
		}
	}

	out := make([]memberView, len(users))
	for i := range users {
		out[i] = memberView{User: users[i]}
		if ref := users[i].CurrentMembership; ref != nil {
			if p, ok := packages[*ref]; ok {
				out[i].CurrentMembership = &p
			}
		}
	}
	return out, nil
}

// CreateMember lets an admin create an account; the role defaults to Member.
func (h *Handler) CreateMember(c *gin.Context) {
	var req createMemberRequest
	if err := bindJSON(c, &req); err != nil {
		h.fail(c, err)
		return
	}
	role := models.RoleMember
	if req.Role != "" {
		role = models.Role(req.Role)
	}

	user, err := h.newAccount(req.Username, req.Password, role)
	if err != nil {
		h.fail(c, err)
		return
	}
	if err := h.Store.Users.Insert(c.Request.Context(), user); err != nil {
		h.fail(c, userStoreError(err))
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"id":        user.ID,
		"username":  user.Username,
		"role":      user.Role,
		"createdAt": user.CreatedAt,
	})
}

// GetMembers lists every account except the caller's own.
func (h *Handler) GetMembers(c *gin.Context) {
	account, err := caller(c)
	if err != nil {
		h.fail(c, err)
		return
	}
	users, err := h.Store.Users.List(c.Request.Context(), store.Filter{"_id": store.Filter{"$ne": account.ID}})
	if err != nil {
		h.fail(c, apperr.Server(err, "Server error fetching members"))
		return
	}
	views, err := h.memberViews(c.Request.Context(), users)
	if err != nil {
		h.fail(c, apperr.Server(err, "Server error fetching members"))
		return
	}
	c.JSON(http.StatusOK, views)
}

func (h *Handler) GetMember(c *gin.Context) {
	id, err := parseID(c, "User")
	if err != nil {
		h.fail(c, err)
		return
	}
	user, err := h.Store.Users.Get(c.Request.Context(), id)
	if err != nil {
		h.fail(c, apperr.FromStore(err, "User"))
		return
	}
	views, err := h.memberViews(c.Request.Context(), []models.User{*user})
	if err != nil {
		h.fail(c, apperr.Server(err, "Server error fetching member"))
		return
	}
	c.JSON(http.StatusOK, views[0])
}

// UpdateMember overwrites username, role and password when supplied. The
// password is re-hashed only when a new one is given.
func (h *Handler) UpdateMember(c *gin.Context) {
	id, err := parseID(c, "User")
	if err != nil {
		h.fail(c, err)
		return
	}
	var req updateMemberRequest
	if err := bindJSON(c, &req); err != nil {
		h.fail(c, err)
		return
	}

	set := bson.M{}
	if req.Username != nil {
		set["username"] = strings.TrimSpace(*req.Username)
	}
	if req.Role != nil {
		set["role"] = models.Role(*req.Role)
	}
	if req.Password != nil {
		hashedPassword, err := utils.HashPassword(*req.Password, h.opts.BcryptCost)
		if err != nil {
			h.fail(c, apperr.Server(err, "Failed to hash password"))
			return
		}
		set["password"] = hashedPassword
	}
	if len(set) == 0 {
		h.fail(c, apperr.Validation("No fields to update"))
		return
	}

	user, err := h.Store.Users.Update(c.Request.Context(), id, set)
	if err != nil {
		if errors.Is(err, store.ErrDuplicate) {
			h.fail(c, apperr.Conflict("Username already exists"))
			return
		}
		h.fail(c, apperr.FromStore(err, "User"))
		return
	}
	views, err := h.memberViews(c.Request.Context(), []models.User{*user})
	if err != nil {
		h.fail(c, apperr.Server(err, "Server error updating member"))
		return
	}
	c.JSON(http.StatusOK, views[0])
}

// DeleteMember removes an account. Admins cannot delete themselves here.
func (h *Handler) DeleteMember(c *gin.Context) {
	account, err := caller(c)
	if err != nil {
		h.fail(c, err)
		return
	}
	id, err := parseID(c, "User")
	if err != nil {
		h.fail(c, err)
		return
	}
	if id == account.ID {
		h.fail(c, apperr.Validation("Cannot delete your own account via this route"))
		return
	}
	if err := h.Store.Users.Delete(c.Request.Context(), id); err != nil {
		h.fail(c, apperr.FromStore(err, "User"))
		return
	}
	log.Info().Str("user_id", id.Hex()).Str("by", account.ID.Hex()).Msg("account deleted")
	c.JSON(http.StatusOK, gin.H{"message": "User removed"})
}

// AssignPackage sets an account's fee package and membership window in one
// document update and makes the account a Member.
func (h *Handler) AssignPackage(c *gin.Context) {
	id, err := parseID(c, "Member")
	if err != nil {
		h.fail(c, err)
		return
	}
	var req assignPackageRequest
	if err := bindJSON(c, &req); err != nil {
		h.fail(c, err)
		return
	}
	ctx := c.Request.Context()

	member, err := h.Store.Users.Get(ctx, id)
	if err != nil {
		h.fail(c, apperr.FromStore(err, "Member"))
		return
	}
	if member.Role == models.RoleAdmin {
		h.fail(c, apperr.Validation("Cannot assign a membership to an Admin account"))
		return
	}

	packageID, err := primitive.ObjectIDFromHex(strings.TrimSpace(req.PackageID))
	if err != nil {
		h.fail(c, apperr.NotFound("Fee package not found (Invalid ID format)"))
		return
	}
	feePackage, err := h.Store.FeePackages.Get(ctx, packageID)
	if err != nil {
		h.fail(c, apperr.FromStore(err, "Fee package"))
		return
	}

	start := h.now()
	if req.StartDate != nil {
		if start, err = membership.ParseStartDate(*req.StartDate); err != nil {
			h.fail(c, apperr.Validation("Invalid start date: %q", *req.StartDate))
			return
		}
	}
	end, err := membership.ComputeEndDate(start, feePackage.Duration)
	switch {
	case errors.Is(err, membership.ErrInvalidStartDate):
		h.fail(c, apperr.Validation("Invalid start date: %q", start.Format(time.RFC3339)))
		return
	case errors.Is(err, membership.ErrEndDateOutOfRange):
		h.fail(c, apperr.Validation("Membership end date is out of range for package duration: %s", feePackage.Duration))
		return
	case err != nil:
		h.fail(c, apperr.Validation("Invalid package duration format: %s", feePackage.Duration))
		return
	}

	updated, err := h.Store.Users.Update(ctx, member.ID, bson.M{
		"currentMembership":   feePackage.ID,
		"membershipStartDate": start,
		"membershipEndDate":   end,
		"role":                models.RoleMember,
	})
	if err != nil {
		h.fail(c, apperr.FromStore(err, "Member"))
		return
	}
	log.Info().
		Str("user_id", updated.ID.Hex()).
		Str("package_id", feePackage.ID.Hex()).
		Time("end", end).
		Msg("membership assigned")

	summary := feePackage.Summary()
	c.JSON(http.StatusOK, gin.H{
		"id":                  updated.ID,
		"username":            updated.Username,
		"role":                updated.Role,
		"currentMembership":   summary,
		"membershipStartDate": start,
		"membershipEndDate":   end,
		"message":             "Membership assigned successfully to " + updated.Username,
	})
}
