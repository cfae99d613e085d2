package ez

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"go-admin-boilerplate/internal/domain"
	mdw "go-admin-boilerplate/internal/transport/http/middleware"
	resp "go-admin-boilerplate/internal/transport/http/response"
)

type EZ struct{ g *gin.RouterGroup }

func New(g *gin.RouterGroup) EZ { return EZ{g: g} }

// 绑定方式
type Binder string

const (
	BindJSON  Binder = "json"  // 从 JSON 绑定
	BindQuery Binder = "query" // 从 URL ?a=b 绑定
	BindNone  Binder = "none"  // 不绑定，自己从 c.Param / c.PostForm 取
)

// AErr 处理器内直接指定业务码用
type AErr struct {
	Code int
	Msg  string
	Err  error
}

func (e *AErr) Error() string {
	if e.Msg != "" {
		return e.Msg
	}
	if e.Err != nil {
		return e.Err.Error()
	}
	return "action error"
}

func BadRequest(msg string) error   { return &AErr{Code: resp.CodeBadRequest, Msg: msg} }
func Unauthorized(msg string) error { return &AErr{Code: resp.CodeUnauthorized, Msg: msg} }
func Forbidden(msg string) error    { return &AErr{Code: resp.CodeForbidden, Msg: msg} }
func NotFound(msg string) error     { return &AErr{Code: resp.CodeNotFound, Msg: msg} }
func Internal(msg string, err error) error {
	return &AErr{Code: resp.CodeServerError, Msg: msg, Err: err}
}

// Action 非 CRUD 一行注册：I 入参，O 出参
type Action[I any, O any] struct {
	Method     string        // "GET" | "POST" | "PUT" | "DELETE"
	Path       string        // 例："/auth/login"、"/users/:id/toggle-active"
	Binder     Binder        // 绑定方式
	Permission domain.Action // 非空则要求已登录用户持有该动作授权
	Handler    func(c *gin.Context, in *I) (O, error)
}

// RegisterAction 注册动作接口；错误统一走 mapError
func RegisterAction[I any, O any](e EZ, a Action[I, O]) {
	h := func(c *gin.Context) {
		// 1) 授权（登录由分组上的 SessionAuth 保证）
		if a.Permission != "" {
			u := mdw.CurrentUser(c)
			if u == nil {
				c.JSON(http.StatusOK, resp.Error(resp.CodeUnauthorized, "unauthorized"))
				return
			}
			if !u.Can(a.Permission) {
				// 固定文案，不说缺哪个权限
				c.JSON(http.StatusOK, resp.Error(resp.CodeForbidden, "forbidden"))
				return
			}
		}

		// 2) 绑定入参
		var in I
		var bindErr error
		switch a.Binder {
		case BindJSON:
			bindErr = c.ShouldBindJSON(&in)
		case BindQuery:
			bindErr = c.ShouldBindQuery(&in)
		default: // BindNone
		}
		if bindErr != nil {
			c.JSON(http.StatusOK, resp.Error(resp.CodeBadRequest, bindErr.Error()))
			return
		}

		// 3) 执行 + 统一错误映射
		out, err := a.Handler(c, &in)
		if err != nil {
			code, msg := mapError(err)
			c.JSON(http.StatusOK, resp.Error(code, msg))
			return
		}
		c.JSON(http.StatusOK, resp.OK(out))
	}

	switch strings.ToUpper(a.Method) {
	case http.MethodGet:
		e.g.GET(a.Path, h)
	case http.MethodPut:
		e.g.PUT(a.Path, h)
	case http.MethodDelete:
		e.g.DELETE(a.Path, h)
	default: // 默认 POST
		e.g.POST(a.Path, h)
	}
}

// mapError 领域错误 → 业务码；没列进来的按服务端意外处理，不外漏细节
func mapError(err error) (int, string) {
	var ae *AErr
	if errors.As(err, &ae) {
		return ae.Code, ae.Error()
	}
	var pv *domain.PolicyViolation
	if errors.As(err, &pv) {
		return resp.CodeBadRequest, strings.Join(pv.Rules, " ")
	}
	switch {
	case errors.Is(err, domain.ErrAuthenticationFailed):
		// 三种失败原因对外同一个说法
		return resp.CodeUnauthorized, "invalid email or password"
	case errors.Is(err, domain.ErrInvalidOrExpiredToken):
		return resp.CodeBadRequest, "invalid or expired token"
	case errors.Is(err, domain.ErrRoleInUse):
		return resp.CodeBadRequest, "role still has users assigned"
	case errors.Is(err, domain.ErrRoleProtected):
		return resp.CodeBadRequest, "system role cannot be changed this way"
	case errors.Is(err, domain.ErrEmailTaken):
		return resp.CodeBadRequest, "email already in use"
	case errors.Is(err, domain.ErrRoleNameTaken):
		return resp.CodeBadRequest, "role name already in use"
	case errors.Is(err, domain.ErrNotFound):
		return resp.CodeNotFound, "not found"
	default:
		return resp.CodeServerError, "internal error"
	}
}
