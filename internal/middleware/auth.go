package middleware

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/oggyb/elite-connect/internal/app"
	"github.com/oggyb/elite-connect/internal/db"
	"github.com/oggyb/elite-connect/internal/logger"
	"github.com/oggyb/elite-connect/internal/repository"
	"github.com/oggyb/elite-connect/internal/respond"
)

const userKey = "auth.user"

// Auth gates a route group behind a Bearer session token.
//
// Behavior:
//   - Missing or malformed Authorization header → 401 "Authentication required".
//   - Bad signature or expired token → 403 "Invalid or expired token".
//   - Token subject not found → 403 "Invalid token".
//   - Otherwise the identity is attached to the request for CurrentUser.
func Auth(a *app.AppContext) gin.HandlerFunc {
	users := repository.NewUserRepository(a.DB)

	return func(c *gin.Context) {
		ctx := c.Request.Context()
		log := logger.FromContext(ctx, a.Logger)

		header := c.GetHeader("Authorization")
		token, ok := strings.CutPrefix(header, "Bearer ")
		if !ok || strings.TrimSpace(token) == "" {
			log.Warn("auth rejected", "reason", "missing bearer token", "path", c.Request.URL.Path)
			respond.Fail(c, http.StatusUnauthorized, "Authentication required")
			return
		}

		userID, err := a.Tokens.Parse(strings.TrimSpace(token))
		if err != nil {
			log.Warn("auth rejected", "reason", "token verification failed", "err", err)
			respond.Fail(c, http.StatusForbidden, "Invalid or expired token")
			return
		}

		user, err := users.FindByID(ctx, userID)
		if errors.Is(err, gorm.ErrRecordNotFound) {
			log.Warn("auth rejected", "reason", "unknown identity", "user_id", userID)
			respond.Fail(c, http.StatusForbidden, "Invalid token")
			return
		} else if err != nil {
			respond.Error(c, a.Logger, err)
			return
		}

		c.Set(userKey, user)
		c.Request = c.Request.WithContext(logger.WithUserID(ctx, respond.FormatID(user.ID)))
		c.Next()
	}
}

// CurrentUser returns the identity attached by Auth. It panics on routes
// that are not behind the gate.
func CurrentUser(c *gin.Context) *db.User {
	return c.MustGet(userKey).(*db.User)
}
