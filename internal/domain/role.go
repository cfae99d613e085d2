package domain

import (
	"database/sql/driver"
	"fmt"
	"strings"
	"time"
)

// 系统内置角色名（种子创建，受保护）
const (
	RoleSystemAdmin = "System Admin"
	RoleDefault     = "Default Role"
)

type Role struct {
	ID          string     `gorm:"primaryKey;size:36" json:"id"`
	Name        string     `gorm:"uniqueIndex;size:64;not null" json:"name"`
	Description string     `gorm:"size:255" json:"description"`
	Actions     ActionList `gorm:"type:text" json:"actions"`
	System      bool       `gorm:"not null;default:false" json:"system"`
	CreatedAt   time.Time  `json:"createdAt"`
	UpdatedAt   time.Time  `json:"updatedAt"`
}

func (Role) TableName() string { return "roles" }

// HasAction 平铺集合成员判断，角色之间没有继承
func (r *Role) HasAction(a Action) bool {
	for _, x := range r.Actions {
		if x == a {
			return true
		}
	}
	return false
}

// ActionList 以逗号串存一列，动作名里不含逗号
type ActionList []Action

func (l ActionList) Value() (driver.Value, error) {
	parts := make([]string, 0, len(l))
	for _, a := range l {
		parts = append(parts, string(a))
	}
	return strings.Join(parts, ","), nil
}

func (l *ActionList) Scan(src any) error {
	var s string
	switch v := src.(type) {
	case nil:
		*l = nil
		return nil
	case string:
		s = v
	case []byte:
		s = string(v)
	default:
		return fmt.Errorf("cannot scan %T into ActionList", src)
	}
	if s == "" {
		*l = ActionList{}
		return nil
	}
	out := make(ActionList, 0, 4)
	for _, p := range strings.Split(s, ",") {
		out = append(out, Action(p))
	}
	*l = out
	return nil
}

type RoleRepository interface {
	Create(r *Role) error
	FindByID(id string) (*Role, error)
	FindByName(name string) (*Role, error)
	List() ([]Role, error)
	Update(r *Role) error
	Delete(id string) error
	CountUsers(roleID string) (int64, error)
}
