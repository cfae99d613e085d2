package domain

import "fmt"

// Action 动作标识：一个可被授权控制的操作
type Action string

const (
	ActionViewUsers        Action = "view_users"
	ActionCreateOrEditUser Action = "create_or_edit_user"
	ActionToggleUserActive Action = "toggle_user_active"
	ActionViewRoles        Action = "view_roles"
	ActionCreateOrEditRole Action = "create_or_edit_role"
	ActionDeleteRole       Action = "delete_role"
)

// AllActions 当前应用定义的全量动作（系统角色对账以此为准）
func AllActions() []Action {
	return []Action{
		ActionViewUsers,
		ActionCreateOrEditUser,
		ActionToggleUserActive,
		ActionViewRoles,
		ActionCreateOrEditRole,
		ActionDeleteRole,
	}
}

// ParseAction 拒绝未知动作，避免拼错的字符串静默通过/拒绝
func ParseAction(s string) (Action, error) {
	for _, a := range AllActions() {
		if string(a) == s {
			return a, nil
		}
	}
	return "", fmt.Errorf("unknown action %q", s)
}
