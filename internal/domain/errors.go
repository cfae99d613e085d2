package domain

import (
	"errors"
	"strings"
)

// 对外只暴露这几类结果；登录失败的三种原因刻意不区分
var (
	ErrAuthenticationFailed  = errors.New("authentication failed")
	ErrInvalidOrExpiredToken = errors.New("invalid or expired token")
	ErrRoleInUse             = errors.New("role is assigned to users")
	ErrRoleProtected         = errors.New("system role cannot be modified this way")
	ErrEmailTaken            = errors.New("email already in use")
	ErrRoleNameTaken         = errors.New("role name already in use")
	ErrNotFound              = errors.New("not found")
)

// PolicyViolation 密码不满足配置规则；Rules 面向本人展示，无泄露问题
type PolicyViolation struct {
	Rules []string
}

func (e *PolicyViolation) Error() string {
	return "password policy violation: " + strings.Join(e.Rules, "; ")
}
