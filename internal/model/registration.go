package model

import "time"

// RegistrationStatus 報名狀態類型
type RegistrationStatus string

const (
	RegistrationStatusPending   RegistrationStatus = "pending"
	RegistrationStatusConfirmed RegistrationStatus = "confirmed"
	RegistrationStatusCancelled RegistrationStatus = "cancelled"
	RegistrationStatusAttended  RegistrationStatus = "attended"
	RegistrationStatusNoShow    RegistrationStatus = "no_show"
)

// IsValid 驗證狀態是否有效
func (s RegistrationStatus) IsValid() bool {
	switch s {
	case RegistrationStatusPending, RegistrationStatusConfirmed, RegistrationStatusCancelled,
		RegistrationStatusAttended, RegistrationStatusNoShow:
		return true
	}
	return false
}

// IsActive 非 cancelled 的報名才計入 registered_count
func (s RegistrationStatus) IsActive() bool {
	return s != RegistrationStatusCancelled
}

// CounterDelta 計算狀態轉換對 registered_count 的影響。
// 只有跨越 cancelled 邊界的轉換會改變計數，
// 所有調整計數的路徑都必須經過這裡。
func CounterDelta(old, new RegistrationStatus) int {
	switch {
	case !old.IsActive() && new.IsActive():
		return 1
	case old.IsActive() && !new.IsActive():
		return -1
	default:
		return 0
	}
}

// Registration 報名模型
type Registration struct {
	ID               int                `json:"id" db:"id"`
	UserID           int                `json:"user_id" db:"user_id"`
	EventID          int                `json:"event_id" db:"event_id"`
	Status           RegistrationStatus `json:"status" db:"status"`
	RegistrationDate time.Time          `json:"registration_date" db:"registration_date"`
	Notes            *string            `json:"notes,omitempty" db:"notes"`
	UpdatedAt        *time.Time         `json:"updated_at,omitempty" db:"updated_at"`
}
