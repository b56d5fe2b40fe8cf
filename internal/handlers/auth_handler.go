// internal/handlers/auth_handler.go
package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/harentsoaR/gym-api/internal/apperr"
	"github.com/harentsoaR/gym-api/internal/models"
	"github.com/harentsoaR/gym-api/internal/store"
	"github.com/harentsoaR/gym-api/internal/utils"
)

type SignupRequest struct {
	Username string `json:"username" binding:"required,notblank"`
	Password string `json:"password" binding:"required,min=6"`
	Role     string `json:"role" binding:"omitempty,role"`
}

type SigninRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// AuthResponse is returned by signup and signin.
type AuthResponse struct {
	ID       string      `json:"id"`
	Username string      `json:"username"`
	Role     models.Role `json:"role"`
	Token    string      `json:"token"`
}

// Signup registers a new account and logs it in.
func (h *Handler) Signup(c *gin.Context) {
	var req SignupRequest
	if err := bindJSON(c, &req); err != nil {
		h.fail(c, err)
		return
	}

	role := models.RoleUser
	if req.Role != "" {
		role = models.Role(req.Role)
	}
	if role == models.RoleAdmin && !h.opts.AllowAdminSignup {
		h.fail(c, apperr.Forbidden("Cannot sign up as Admin"))
		return
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
	log.Info().Str("user_id", user.ID.Hex()).Str("role", string(user.Role)).Msg("account registered")

	h.respondWithToken(c, http.StatusCreated, user)
}

// Signin exchanges a username and password for a bearer token.
func (h *Handler) Signin(c *gin.Context) {
	var req SigninRequest
	if err := bindJSON(c, &req); err != nil {
		h.fail(c, err)
		return
	}

	users, err := h.Store.Users.List(c.Request.Context(), store.Filter{"username": strings.TrimSpace(req.Username)})
	if err != nil {
		h.fail(c, apperr.Server(err, "Server error"))
		return
	}
	if len(users) == 0 || !utils.CheckPasswordHash(req.Password, users[0].Password) {
		log.Info().Str("username", req.Username).Msg("signin rejected")
		h.fail(c, apperr.Unauthenticated("Invalid username or password"))
		return
	}

	h.respondWithToken(c, http.StatusOK, &users[0])
}

// GetProfile returns the caller's own account with its membership expanded.
func (h *Handler) GetProfile(c *gin.Context) {
	account, err := caller(c)
	if err != nil {
		h.fail(c, err)
		return
	}
	user, err := h.Store.Users.Get(c.Request.Context(), account.ID)
	if err != nil {
		h.fail(c, apperr.FromStore(err, "User"))
		return
	}
	views, err := h.memberViews(c.Request.Context(), []models.User{*user})
	if err != nil {
		h.fail(c, apperr.Server(err, "Server error loading profile"))
		return
	}
	c.JSON(http.StatusOK, views[0])
}

func (h *Handler) newAccount(username, password string, role models.Role) (*models.User, error) {
	hashedPassword, err := utils.HashPassword(password, h.opts.BcryptCost)
	if err != nil {
		return nil, apperr.Server(err, "Failed to hash password")
	}
	return &models.User{
		Base:     models.NewBase(h.now()),
		Username: strings.TrimSpace(username),
		Password: hashedPassword,
		Role:     role,
	}, nil
}

func (h *Handler) respondWithToken(c *gin.Context, status int, user *models.User) {
	token, err := h.Tokens.GenerateJWT(user.ID.Hex())
	if err != nil {
		h.fail(c, apperr.Server(err, "Could not generate token"))
		return
	}
	c.JSON(status, AuthResponse{
		ID:       user.ID.Hex(),
		Username: user.Username,
		Role:     user.Role,
		Token:    token,
	})
}

func userStoreError(err error) error {
	e := apperr.FromStore(err, "User")
	if e.Kind == apperr.KindConflict {
		return apperr.Conflict("User already exists")
	}
	return e
}
