package router

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	ginzap "github.com/gin-contrib/zap"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"go-admin-boilerplate/internal/domain"
	"go-admin-boilerplate/internal/service"
	mdw "go-admin-boilerplate/internal/transport/http/middleware"
)

type CookieOpts struct {
	Name   string
	MaxAge int // 秒，与会话超时一致
	Secure bool
}

type Deps struct {
	Log    *zap.Logger
	Auth   *service.AuthService
	Users  *service.UserService
	Roles  *service.RoleService
	Cookie CookieOpts
}

func NewAPIEngine(d Deps) *gin.Engine {
	r := gin.New()

	r.Use(
		mdw.RequestID(),
		mdw.RateLimit(200, 400),
		mdw.ConcurrencyLimit(300),
		mdw.MaxBodyBytes(1<<20),
		mdw.Timeout(10*time.Second),
		ginzap.RecoveryWithZap(d.Log, true),
		mdw.Metrics(),
		mdw.AccessLog(d.Log),
		cors.Default(),
	)

	// 健康检查
	r.GET("/health", func(c *gin.Context) { c.JSON(http.StatusOK, gin.H{"ok": 1}) })

	api := r.Group("/api/v1")

	// 公共入口单独再压一层每 IP 限速，防撞库
	public := api.Group("/auth", mdw.RateLimitPerIP(5, 10))
	mountAuthActions(public, d)

	// 鉴权分组
	authed := api.Group("", mdw.SessionAuth(d.Cookie.Name, d.Auth))
	mountMeAction(authed, d)

	// 管理接口：分组先要求查看权限，更改类动作再各自加码
	users := authed.Group("/users", mdw.RequirePermission(domain.ActionViewUsers))
	mountUserActions(users, d)

	roles := authed.Group("/roles", mdw.RequirePermission(domain.ActionViewRoles))
	mountRoleActions(roles, d)

	return r
}
