package domain

import "time"

type User struct {
	ID           string    `gorm:"primaryKey;size:36" json:"id"`
	Email        string    `gorm:"uniqueIndex;size:191;not null" json:"email"`
	FirstName    string    `gorm:"size:64" json:"firstName"`
	LastName     string    `gorm:"size:64" json:"lastName"`
	Active       bool      `gorm:"not null;default:true" json:"active"`
	RoleID       string    `gorm:"size:36;not null" json:"roleId"`
	Role         *Role     `gorm:"foreignKey:RoleID" json:"role,omitempty"`
	PasswordHash string    `gorm:"size:191;not null" json:"-"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

func (User) TableName() string { return "users" }

// Can 授权判定：停用账号无任何权限；其余看角色动作集合
func (u *User) Can(a Action) bool {
	if u == nil || !u.Active {
		return false
	}
	if u.Role == nil {
		return false
	}
	return u.Role.HasAction(a)
}

type UserRepository interface {
	Create(u *User) error
	FindByID(id string) (*User, error)
	FindByEmail(email string) (*User, error)
	List(offset, limit int, q string) ([]User, int64, error)
	Update(u *User) error
}
