package model

import "time"

// Role 使用者角色
type Role string

const (
	RoleUser      Role = "user"
	RoleOrganizer Role = "organizer"
	RoleAdmin     Role = "admin"
)

// IsValid 驗證角色是否有效
func (r Role) IsValid() bool {
	switch r {
	case RoleUser, RoleOrganizer, RoleAdmin:
		return true
	}
	return false
}

// User 使用者模型
type User struct {
	ID           int        `json:"id" db:"id"`
	Name         string     `json:"name" db:"name"`
	Email        string     `json:"email" db:"email"`
	PasswordHash string     `json:"-" db:"password_hash"`
	Role         Role       `json:"role" db:"role"`
	CreatedAt    time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at" db:"updated_at"`
	DeletedAt    *time.Time `json:"deleted_at,omitempty" db:"deleted_at"`
}

// Principal 已驗證的請求主體，由 auth middleware 注入
type Principal struct {
	UserID int
	Role   Role
}

// CanManageEvent 活動的 organizer 或 admin 才能變更活動
func (p Principal) CanManageEvent(e *Event) bool {
	return e.OrganizerID == p.UserID || p.Role == RoleAdmin
}

// CanViewRegistration 報名者本人、活動 organizer 或 admin 可查看報名
func (p Principal) CanViewRegistration(r *Registration, e *Event) bool {
	return r.UserID == p.UserID || p.CanManageEvent(e)
}
