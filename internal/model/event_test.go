package model

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestEventStatus_Apply(t *testing.T) {
	tests := []struct {
		name    string
		from    EventStatus
		action  EventAction
		want    EventStatus
		allowed bool
	}{
		{"draft can publish", EventStatusDraft, EventActionPublish, EventStatusPublished, true},
		{"draft can cancel", EventStatusDraft, EventActionCancel, EventStatusCancelled, true},
		{"draft cannot complete", EventStatusDraft, EventActionComplete, "", false},
		{"published can cancel", EventStatusPublished, EventActionCancel, EventStatusCancelled, true},
		{"published can complete", EventStatusPublished, EventActionComplete, EventStatusCompleted, true},
		{"published cannot publish again", EventStatusPublished, EventActionPublish, "", false},
		{"cancelled is terminal", EventStatusCancelled, EventActionPublish, "", false},
		{"completed is terminal", EventStatusCompleted, EventActionCancel, "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			next, ok := tt.from.Apply(tt.action)
			assert.Equal(t, tt.allowed, ok)
			if tt.allowed {
				assert.Equal(t, tt.want, next)
			}
		})
	}
}

func TestEvent_IsOpenForRegistration(t *testing.T) {
	now := time.Now().UTC()

	t.Run("published and not ended", func(t *testing.T) {
		event := &Event{Status: EventStatusPublished, EndDate: now.Add(time.Hour)}
		assert.True(t, event.IsOpenForRegistration(now))
	})

	t.Run("draft", func(t *testing.T) {
		event := &Event{Status: EventStatusDraft, EndDate: now.Add(time.Hour)}
		assert.False(t, event.IsOpenForRegistration(now))
	})

	t.Run("published but ended", func(t *testing.T) {
		event := &Event{Status: EventStatusPublished, EndDate: now.Add(-time.Hour)}
		assert.False(t, event.IsOpenForRegistration(now))
	})
}

func TestEvent_IsFull(t *testing.T) {
	assert.False(t, (&Event{Capacity: 2, RegisteredCount: 1}).IsFull())
	assert.True(t, (&Event{Capacity: 2, RegisteredCount: 2}).IsFull())
}
