package middleware

import (
	"errors"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/harentsoaR/gym-api/internal/apperr"
	"github.com/harentsoaR/gym-api/internal/models"
	"github.com/harentsoaR/gym-api/internal/store"
	"github.com/harentsoaR/gym-api/internal/utils"
)

const accountKey = "account"

// AuthMiddleware resolves the bearer token to an account and stores it, with
// the password hash cleared, on the gin context.
func AuthMiddleware(tokens *utils.JWTManager, users store.Collection[models.User], exposeStack bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			apperr.Write(c, apperr.Unauthenticated("Not authorized, no token"), exposeStack)
			return
		}
		tokenString, ok := strings.CutPrefix(authHeader, "Bearer ")
		if !ok || strings.TrimSpace(tokenString) == "" {
			apperr.Write(c, apperr.Unauthenticated("Not authorized, no token"), exposeStack)
			return
		}

		claims, err := tokens.ValidateJWT(strings.TrimSpace(tokenString))
		if err != nil {
			log.Debug().Err(err).Str("request_id", c.GetString(requestIDKey)).Msg("token rejected")
			apperr.Write(c, apperr.Unauthenticated("Not authorized, token failed"), exposeStack)
			return
		}
		id, err := primitive.ObjectIDFromHex(claims.UserID)
		if err != nil {
			apperr.Write(c, apperr.Unauthenticated("Not authorized, token failed"), exposeStack)
			return
		}

		account, err := users.Get(c.Request.Context(), id)
		if errors.Is(err, store.ErrNotFound) {
			apperr.Write(c, apperr.Unauthenticated("Not authorized, user not found"), exposeStack)
			return
		}
		if err != nil {
			apperr.Write(c, apperr.Server(err, "Server error resolving account"), exposeStack)
			return
		}
		account.Password = ""

		c.Set(accountKey, account)
		c.Next()
	}
}

// RequireRole lets the request through only when the authenticated account
// holds role. It must run after AuthMiddleware.
func RequireRole(role models.Role, exposeStack bool) gin.HandlerFunc {
	if !role.Valid() {
		panic("middleware: RequireRole with unknown role " + string(role))
	}
	return func(c *gin.Context) {
		account, ok := CurrentAccount(c)
		if !ok {
			apperr.Write(c, apperr.Unauthenticated("Not authorized"), exposeStack)
			return
		}
		if account.Role.Valid() && account.Role == role {
			c.Next()
			return
		}
		apperr.Write(c, apperr.Forbidden("Not authorized as %s", roleLabel(role)), exposeStack)
	}
}

func roleLabel(r models.Role) string {
	switch r {
	case models.RoleAdmin:
		return "an admin"
	case models.RoleMember:
		return "a member"
	default:
		return "a user"
	}
}

// CurrentAccount returns the account AuthMiddleware attached.
func CurrentAccount(c *gin.Context) (*models.User, bool) {
	v, ok := c.Get(accountKey)
	if !ok {
		return nil, false
	}
	account, ok := v.(*models.User)
	return account, ok && account != nil
}
