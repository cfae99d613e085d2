package middleware

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"go-admin-boilerplate/internal/domain"
	resp "go-admin-boilerplate/internal/transport/http/response"
)

const (
	KeyUser   = "user"
	KeyUserID = "userId"
)

// UserResolver 由 service.AuthService 实现
type UserResolver interface {
	CurrentUser(ctx context.Context, sessionID string) (*domain.User, error)
}

// SessionAuth 会话鉴权：cookie → 会话存储 → 用户。过期/缺失一律 401，
// 不区分原因
func SessionAuth(cookieName string, resolver UserResolver) gin.HandlerFunc {
	return func(c *gin.Context) {
		sid, _ := c.Cookie(cookieName)
		u, err := resolver.CurrentUser(c.Request.Context(), sid)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusOK, resp.Error(resp.CodeServerError, "internal error"))
			return
		}
		if u == nil {
			c.AbortWithStatusJSON(http.StatusOK, resp.Error(resp.CodeUnauthorized, "unauthorized"))
			return
		}
		c.Set(KeyUser, u)
		c.Set(KeyUserID, u.ID)
		c.Next()
	}
}

// RequirePermission 403 固定文案，不暴露缺的是哪个权限
func RequirePermission(action domain.Action) gin.HandlerFunc {
	return func(c *gin.Context) {
		u := CurrentUser(c)
		if u == nil {
			c.AbortWithStatusJSON(http.StatusOK, resp.Error(resp.CodeUnauthorized, "unauthorized"))
			return
		}
		if !u.Can(action) {
			c.AbortWithStatusJSON(http.StatusOK, resp.Error(resp.CodeForbidden, "forbidden"))
			return
		}
		c.Next()
	}
}

// CurrentUser 从上下文取已鉴权用户；匿名返回 nil
func CurrentUser(c *gin.Context) *domain.User {
	v, ok := c.Get(KeyUser)
	if !ok {
		return nil
	}
	u, _ := v.(*domain.User)
	return u
}
