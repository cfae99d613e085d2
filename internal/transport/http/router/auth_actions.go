package router

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"go-admin-boilerplate/internal/domain"
	httpez "go-admin-boilerplate/internal/transport/http/ez"
	mdw "go-admin-boilerplate/internal/transport/http/middleware"
)

type userOut struct {
	ID        string `json:"id"`
	Email     string `json:"email"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Active    bool   `json:"active"`
	Role      string `json:"role"`
}

func toUserOut(u *domain.User) userOut {
	out := userOut{
		ID: u.ID, Email: u.Email,
		FirstName: u.FirstName, LastName: u.LastName,
		Active: u.Active,
	}
	if u.Role != nil {
		out.Role = u.Role.Name
	}
	return out
}

func mountAuthActions(g *gin.RouterGroup, d Deps) {
	ez := httpez.New(g)

	// POST /auth/login
	type loginIn struct {
		Email    string `json:"email"    binding:"required,email"`
		Password string `json:"password" binding:"required"`
	}
	httpez.RegisterAction[loginIn, userOut](ez, httpez.Action[loginIn, userOut]{
		Method: http.MethodPost,
		Path:   "/login",
		Binder: httpez.BindJSON,
		Handler: func(c *gin.Context, in *loginIn) (userOut, error) {
			sess, u, err := d.Auth.Login(c.Request.Context(), in.Email, in.Password)
			if err != nil {
				return userOut{}, err
			}
			c.SetCookie(d.Cookie.Name, sess.ID, d.Cookie.MaxAge, "/", "", d.Cookie.Secure, true)
			return toUserOut(u), nil
		},
	})

	// POST /auth/logout —— 幂等，匿名调用也成功
	httpez.RegisterAction[struct{}, gin.H](ez, httpez.Action[struct{}, gin.H]{
		Method: http.MethodPost,
		Path:   "/logout",
		Binder: httpez.BindNone,
		Handler: func(c *gin.Context, _ *struct{}) (gin.H, error) {
			sid, _ := c.Cookie(d.Cookie.Name)
			if err := d.Auth.Logout(c.Request.Context(), sid); err != nil {
				return nil, httpez.Internal("logout failed", err)
			}
			c.SetCookie(d.Cookie.Name, "", -1, "/", "", d.Cookie.Secure, true)
			return gin.H{"ok": 1}, nil
		},
	})

	// POST /auth/password-reset —— 无论邮箱是否存在都回 ok
	type resetReqIn struct {
		Email string `json:"email" binding:"required,email"`
	}
	httpez.RegisterAction[resetReqIn, gin.H](ez, httpez.Action[resetReqIn, gin.H]{
		Method: http.MethodPost,
		Path:   "/password-reset",
		Binder: httpez.BindJSON,
		Handler: func(c *gin.Context, in *resetReqIn) (gin.H, error) {
			if err := d.Auth.RequestReset(c.Request.Context(), in.Email); err != nil {
				return nil, httpez.Internal("reset request failed", err)
			}
			return gin.H{"ok": 1}, nil
		},
	})

	// POST /auth/password-reset/complete
	type resetDoneIn struct {
		Token    string `json:"token"    binding:"required"`
		Password string `json:"password" binding:"required"`
	}
	httpez.RegisterAction[resetDoneIn, gin.H](ez, httpez.Action[resetDoneIn, gin.H]{
		Method: http.MethodPost,
		Path:   "/password-reset/complete",
		Binder: httpez.BindJSON,
		Handler: func(c *gin.Context, in *resetDoneIn) (gin.H, error) {
			if err := d.Auth.CompleteReset(c.Request.Context(), in.Token, in.Password); err != nil {
				return nil, err
			}
			return gin.H{"ok": 1}, nil
		},
	})
}

func mountMeAction(g *gin.RouterGroup, d Deps) {
	ez := httpez.New(g)

	httpez.RegisterAction[struct{}, userOut](ez, httpez.Action[struct{}, userOut]{
		Method: http.MethodGet,
		Path:   "/me",
		Binder: httpez.BindNone,
		Handler: func(c *gin.Context, _ *struct{}) (userOut, error) {
			u := mdw.CurrentUser(c)
			if u == nil {
				return userOut{}, httpez.Unauthorized("unauthorized")
			}
			return toUserOut(u), nil
		},
	})
}
