package model

import (
	"time"

	"github.com/google/uuid"
)

// EventStatus 活動狀態類型
type EventStatus string

const (
	EventStatusDraft     EventStatus = "draft"
	EventStatusPublished EventStatus = "published"
	EventStatusCancelled EventStatus = "cancelled"
	EventStatusCompleted EventStatus = "completed"
)

// IsValid 驗證狀態是否有效
func (s EventStatus) IsValid() bool {
	switch s {
	case EventStatusDraft, EventStatusPublished, EventStatusCancelled, EventStatusCompleted:
		return true
	}
	return false
}

// EventAction 活動狀態機的動作
type EventAction string

const (
	EventActionPublish  EventAction = "publish"
	EventActionCancel   EventAction = "cancel"
	EventActionComplete EventAction = "complete"
)

// eventTransitions 狀態機轉換表：(當前狀態, 動作) -> 下一個狀態。
// cancelled 與 completed 為終態，不在表內。
var eventTransitions = map[EventStatus]map[EventAction]EventStatus{
	EventStatusDraft: {
		EventActionPublish: EventStatusPublished,
		EventActionCancel:  EventStatusCancelled,
	},
	EventStatusPublished: {
		EventActionCancel:   EventStatusCancelled,
		EventActionComplete: EventStatusCompleted,
	},
}

// Apply 套用動作並回傳下一個狀態；不允許的轉換回傳 false
func (s EventStatus) Apply(action EventAction) (EventStatus, bool) {
	next, ok := eventTransitions[s][action]
	return next, ok
}

// Event 活動模型
type Event struct {
	ID              int         `json:"id" db:"id"`
	EventID         uuid.UUID   `json:"event_id" db:"event_id"`
	Title           string      `json:"title" db:"title"`
	Description     string      `json:"description" db:"description"`
	StartDate       time.Time   `json:"start_date" db:"start_date"`
	EndDate         time.Time   `json:"end_date" db:"end_date"`
	Capacity        int         `json:"capacity" db:"capacity"`
	RegisteredCount int         `json:"registered_count" db:"registered_count"`
	ImageURL        *string     `json:"image_url,omitempty" db:"image_url"`
	Status          EventStatus `json:"status" db:"status"`
	OrganizerID     int         `json:"organizer_id" db:"organizer_id"`
	LocationID      int         `json:"location_id" db:"location_id"`
	CategoryID      int         `json:"category_id" db:"category_id"`
	CreatedAt       time.Time   `json:"created_at" db:"created_at"`
	UpdatedAt       *time.Time  `json:"updated_at,omitempty" db:"updated_at"`
}

// HasEnded 檢查活動是否已結束
func (e *Event) HasEnded(now time.Time) bool {
	return e.EndDate.Before(now)
}

// IsOpenForRegistration 檢查活動是否可報名
func (e *Event) IsOpenForRegistration(now time.Time) bool {
	return e.Status == EventStatusPublished && !e.HasEnded(now)
}

// IsFull 檢查活動是否額滿
func (e *Event) IsFull() bool {
	return e.RegisteredCount >= e.Capacity
}

type UpdateEventParams struct {
	Title       *string
	Description *string
	StartDate   *time.Time
	EndDate     *time.Time
	Capacity    *int
	ImageURL    *string
	LocationID  *int
	CategoryID  *int
}

// EventFilter 列表查詢條件
type EventFilter struct {
	Search     *string
	Status     *EventStatus
	CategoryID *int
	LocationID *int
	From       *time.Time
	To         *time.Time
}

// EventStats 活動統計
type EventStats struct {
	TotalEvents        int     `json:"total_events"`
	ActiveEvents       int     `json:"active_events"`
	TotalRegistrations int     `json:"total_registrations"`
	AverageOccupancy   float64 `json:"average_occupancy"`
}
