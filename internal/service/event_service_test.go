package service

import (
	"context"
	"testing"
	"time"

	"eventify/internal/cache"
	"eventify/internal/model"
	"eventify/internal/repository"
	apperrors "eventify/pkg/app_errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestEventService() EventService {
	eventRepo := repository.NewEventRepository(testDB)
	locationRepo := repository.NewLocationRepository(testDB)
	categoryRepo := repository.NewCategoryRepository(testDB)
	statsCache := cache.NewEventStatsCache(testRedis)
	return NewEventService(testDB, eventRepo, locationRepo, categoryRepo, statsCache)
}

func TestEventService_Create(t *testing.T) {
	ctx := context.Background()

	newEvent := func(locationID, categoryID int) *model.Event {
		start := time.Now().UTC().Add(24 * time.Hour)
		return &model.Event{
			Title:       "Go Meetup",
			Description: "Monthly meetup",
			StartDate:   start,
			EndDate:     start.Add(2 * time.Hour),
			Capacity:    50,
			LocationID:  locationID,
			CategoryID:  categoryID,
		}
	}

	t.Run("Success - created as draft with zero count", func(t *testing.T) {
		setupTestWithTruncate(t)
		svc := newTestEventService()

		organizerID := createTestUser(t, "Org", "org@example.com", model.RoleOrganizer)
		locationID := createTestLocation(t, "Hall A")
		categoryID := createTestCategory(t, "Tech")

		created, err := svc.Create(ctx, newEvent(locationID, categoryID), organizerID)

		require.NoError(t, err)
		assert.Equal(t, model.EventStatusDraft, created.Status)
		assert.Equal(t, 0, created.RegisteredCount)
		assert.Equal(t, organizerID, created.OrganizerID)
		assert.NotEmpty(t, created.EventID)
	})

	t.Run("Failed - non-positive capacity", func(t *testing.T) {
		setupTestWithTruncate(t)
		svc := newTestEventService()

		organizerID := createTestUser(t, "Org", "org@example.com", model.RoleOrganizer)
		locationID := createTestLocation(t, "Hall A")
		categoryID := createTestCategory(t, "Tech")

		event := newEvent(locationID, categoryID)
		event.Capacity = 0

		_, err := svc.Create(ctx, event, organizerID)

		assert.ErrorIs(t, err, apperrors.ErrInvalidInput)
	})

	t.Run("Failed - end date not after start date", func(t *testing.T) {
		setupTestWithTruncate(t)
		svc := newTestEventService()

		organizerID := createTestUser(t, "Org", "org@example.com", model.RoleOrganizer)
		locationID := createTestLocation(t, "Hall A")
		categoryID := createTestCategory(t, "Tech")

		event := newEvent(locationID, categoryID)
		event.EndDate = event.StartDate

		_, err := svc.Create(ctx, event, organizerID)

		assert.ErrorIs(t, err, apperrors.ErrInvalidInput)
	})

	t.Run("Failed - unknown location", func(t *testing.T) {
		setupTestWithTruncate(t)
		svc := newTestEventService()

		organizerID := createTestUser(t, "Org", "org@example.com", model.RoleOrganizer)
		categoryID := createTestCategory(t, "Tech")

		_, err := svc.Create(ctx, newEvent(999, categoryID), organizerID)

		assert.ErrorIs(t, err, apperrors.ErrLocationNotFound)
	})

	t.Run("Failed - unknown category", func(t *testing.T) {
		setupTestWithTruncate(t)
		svc := newTestEventService()

		organizerID := createTestUser(t, "Org", "org@example.com", model.RoleOrganizer)
		locationID := createTestLocation(t, "Hall A")

		_, err := svc.Create(ctx, newEvent(locationID, 999), organizerID)

		assert.ErrorIs(t, err, apperrors.ErrCategoryNotFound)
	})
}

func TestEventService_Update(t *testing.T) {
	ctx := context.Background()

	t.Run("Success - partial update", func(t *testing.T) {
		setupTestWithTruncate(t)
		svc := newTestEventService()

		organizerID := createTestUser(t, "Org", "org@example.com", model.RoleOrganizer)
		eventID := createTestEvent(t, testEventParams{
			OrganizerID: organizerID, Capacity: 10, Status: model.EventStatusDraft, EndDate: futureEnd(),
		})

		title := "Updated Title"
		capacity := 20
		updated, err := svc.Update(ctx, eventID, model.UpdateEventParams{Title: &title, Capacity: &capacity},
			model.Principal{UserID: organizerID, Role: model.RoleOrganizer})

		require.NoError(t, err)
		assert.Equal(t, "Updated Title", updated.Title)
		assert.Equal(t, 20, updated.Capacity)
		assert.Equal(t, model.EventStatusDraft, updated.Status)
	})

	t.Run("Failed - capacity below registered count", func(t *testing.T) {
		setupTestWithTruncate(t)
		svc := newTestEventService()

		organizerID := createTestUser(t, "Org", "org@example.com", model.RoleOrganizer)
		eventID := createTestEvent(t, testEventParams{
			OrganizerID: organizerID, Capacity: 20, RegisteredCount: 10,
			Status: model.EventStatusPublished, EndDate: futureEnd(),
		})

		capacity := 5
		_, err := svc.Update(ctx, eventID, model.UpdateEventParams{Capacity: &capacity},
			model.Principal{UserID: organizerID, Role: model.RoleOrganizer})

		assert.ErrorIs(t, err, apperrors.ErrCapacityBelowRegistered)
	})

	t.Run("Success - capacity equal to registered count", func(t *testing.T) {
		setupTestWithTruncate(t)
		svc := newTestEventService()

		organizerID := createTestUser(t, "Org", "org@example.com", model.RoleOrganizer)
		eventID := createTestEvent(t, testEventParams{
			OrganizerID: organizerID, Capacity: 20, RegisteredCount: 10,
			Status: model.EventStatusPublished, EndDate: futureEnd(),
		})

		capacity := 10
		updated, err := svc.Update(ctx, eventID, model.UpdateEventParams{Capacity: &capacity},
			model.Principal{UserID: organizerID, Role: model.RoleOrganizer})

		require.NoError(t, err)
		assert.Equal(t, 10, updated.Capacity)
		assert.Equal(t, 10, updated.RegisteredCount)
	})

	t.Run("Failed - other organizer is forbidden", func(t *testing.T) {
		setupTestWithTruncate(t)
		svc := newTestEventService()

		organizerID := createTestUser(t, "Org", "org@example.com", model.RoleOrganizer)
		otherID := createTestUser(t, "Other", "other@example.com", model.RoleOrganizer)
		eventID := createTestEvent(t, testEventParams{
			OrganizerID: organizerID, Capacity: 10, Status: model.EventStatusDraft, EndDate: futureEnd(),
		})

		title := "Hijacked"
		_, err := svc.Update(ctx, eventID, model.UpdateEventParams{Title: &title},
			model.Principal{UserID: otherID, Role: model.RoleOrganizer})

		assert.ErrorIs(t, err, apperrors.ErrForbidden)
	})

	t.Run("Success - admin can update any event", func(t *testing.T) {
		setupTestWithTruncate(t)
		svc := newTestEventService()

		organizerID := createTestUser(t, "Org", "org@example.com", model.RoleOrganizer)
		adminID := createTestUser(t, "Admin", "admin@example.com", model.RoleAdmin)
		eventID := createTestEvent(t, testEventParams{
			OrganizerID: organizerID, Capacity: 10, Status: model.EventStatusDraft, EndDate: futureEnd(),
		})

		title := "Admin Edit"
		updated, err := svc.Update(ctx, eventID, model.UpdateEventParams{Title: &title},
			model.Principal{UserID: adminID, Role: model.RoleAdmin})

		require.NoError(t, err)
		assert.Equal(t, "Admin Edit", updated.Title)
	})

	t.Run("Failed - event not found", func(t *testing.T) {
		setupTestWithTruncate(t)
		svc := newTestEventService()

		adminID := createTestUser(t, "Admin", "admin@example.com", model.RoleAdmin)

		title := "Nope"
		_, err := svc.Update(ctx, 999, model.UpdateEventParams{Title: &title},
			model.Principal{UserID: adminID, Role: model.RoleAdmin})

		assert.ErrorIs(t, err, apperrors.ErrEventNotFound)
	})
}

func TestEventService_Delete(t *testing.T) {
	ctx := context.Background()

	t.Run("Success - no registrations", func(t *testing.T) {
		setupTestWithTruncate(t)
		svc := newTestEventService()

		organizerID := createTestUser(t, "Org", "org@example.com", model.RoleOrganizer)
		eventID := createTestEvent(t, testEventParams{
			OrganizerID: organizerID, Capacity: 10, Status: model.EventStatusDraft, EndDate: futureEnd(),
		})

		err := svc.Delete(ctx, eventID, model.Principal{UserID: organizerID, Role: model.RoleOrganizer})

		require.NoError(t, err)
		_, err = svc.GetByID(ctx, eventID)
		assert.ErrorIs(t, err, apperrors.ErrEventNotFound)
	})

	t.Run("Failed - has registrations", func(t *testing.T) {
		setupTestWithTruncate(t)
		svc := newTestEventService()

		organizerID := createTestUser(t, "Org", "org@example.com", model.RoleOrganizer)
		userID := createTestUser(t, "Alice", "alice@example.com", model.RoleUser)
		eventID := createTestEvent(t, testEventParams{
			OrganizerID: organizerID, Capacity: 10, RegisteredCount: 1,
			Status: model.EventStatusPublished, EndDate: futureEnd(),
		})
		createTestRegistration(t, userID, eventID, model.RegistrationStatusConfirmed)

		err := svc.Delete(ctx, eventID, model.Principal{UserID: organizerID, Role: model.RoleOrganizer})

		assert.ErrorIs(t, err, apperrors.ErrEventHasRegistrations)
	})

	t.Run("Failed - other organizer is forbidden", func(t *testing.T) {
		setupTestWithTruncate(t)
		svc := newTestEventService()

		organizerID := createTestUser(t, "Org", "org@example.com", model.RoleOrganizer)
		otherID := createTestUser(t, "Other", "other@example.com", model.RoleOrganizer)
		eventID := createTestEvent(t, testEventParams{
			OrganizerID: organizerID, Capacity: 10, Status: model.EventStatusDraft, EndDate: futureEnd(),
		})

		err := svc.Delete(ctx, eventID, model.Principal{UserID: otherID, Role: model.RoleOrganizer})

		assert.ErrorIs(t, err, apperrors.ErrForbidden)
	})
}

func TestEventService_StatusTransitions(t *testing.T) {
	ctx := context.Background()

	t.Run("Publish - draft to published", func(t *testing.T) {
		setupTestWithTruncate(t)
		svc := newTestEventService()

		organizerID := createTestUser(t, "Org", "org@example.com", model.RoleOrganizer)
		eventID := createTestEvent(t, testEventParams{
			OrganizerID: organizerID, Capacity: 10, Status: model.EventStatusDraft, EndDate: futureEnd(),
		})
		principal := model.Principal{UserID: organizerID, Role: model.RoleOrganizer}

		updated, err := svc.Publish(ctx, eventID, principal)

		require.NoError(t, err)
		assert.Equal(t, model.EventStatusPublished, updated.Status)

		// publish 不可重複
		_, err = svc.Publish(ctx, eventID, principal)
		assert.ErrorIs(t, err, apperrors.ErrInvalidStatusTransition)
	})

	t.Run("Cancel - published to cancelled, registrations untouched", func(t *testing.T) {
		setupTestWithTruncate(t)
		svc := newTestEventService()

		organizerID := createTestUser(t, "Org", "org@example.com", model.RoleOrganizer)
		userID := createTestUser(t, "Alice", "alice@example.com", model.RoleUser)
		eventID := createTestEvent(t, testEventParams{
			OrganizerID: organizerID, Capacity: 10, RegisteredCount: 1,
			Status: model.EventStatusPublished, EndDate: futureEnd(),
		})
		createTestRegistration(t, userID, eventID, model.RegistrationStatusConfirmed)
		principal := model.Principal{UserID: organizerID, Role: model.RoleOrganizer}

		updated, err := svc.Cancel(ctx, eventID, principal)

		require.NoError(t, err)
		assert.Equal(t, model.EventStatusCancelled, updated.Status)
		assert.Equal(t, 1, getEventRegisteredCount(t, eventID))
		assert.Equal(t, 1, countActiveRegistrations(t, eventID))
	})

	t.Run("Cancel - draft to cancelled", func(t *testing.T) {
		setupTestWithTruncate(t)
		svc := newTestEventService()

		organizerID := createTestUser(t, "Org", "org@example.com", model.RoleOrganizer)
		eventID := createTestEvent(t, testEventParams{
			OrganizerID: organizerID, Capacity: 10, Status: model.EventStatusDraft, EndDate: futureEnd(),
		})
		principal := model.Principal{UserID: organizerID, Role: model.RoleOrganizer}

		updated, err := svc.Cancel(ctx, eventID, principal)

		require.NoError(t, err)
		assert.Equal(t, model.EventStatusCancelled, updated.Status)

		// cancelled 為終態，不可再 publish
		_, err = svc.Publish(ctx, eventID, principal)
		assert.ErrorIs(t, err, apperrors.ErrInvalidStatusTransition)
	})

	t.Run("Terminal states reject every action", func(t *testing.T) {
		setupTestWithTruncate(t)
		svc := newTestEventService()

		organizerID := createTestUser(t, "Org", "org@example.com", model.RoleOrganizer)
		principal := model.Principal{UserID: organizerID, Role: model.RoleOrganizer}

		for _, status := range []model.EventStatus{model.EventStatusCancelled, model.EventStatusCompleted} {
			eventID := createTestEvent(t, testEventParams{
				OrganizerID: organizerID, Capacity: 10, Status: status, EndDate: futureEnd(),
			})

			_, err := svc.Publish(ctx, eventID, principal)
			assert.ErrorIs(t, err, apperrors.ErrInvalidStatusTransition)
			_, err = svc.Cancel(ctx, eventID, principal)
			assert.ErrorIs(t, err, apperrors.ErrInvalidStatusTransition)
			_, err = svc.Complete(ctx, eventID, principal)
			assert.ErrorIs(t, err, apperrors.ErrInvalidStatusTransition)
		}
	})

	t.Run("Complete - published to completed", func(t *testing.T) {
		setupTestWithTruncate(t)
		svc := newTestEventService()

		organizerID := createTestUser(t, "Org", "org@example.com", model.RoleOrganizer)
		eventID := createTestEvent(t, testEventParams{
			OrganizerID: organizerID, Capacity: 10, Status: model.EventStatusPublished, EndDate: futureEnd(),
		})

		updated, err := svc.Complete(ctx, eventID, model.Principal{UserID: organizerID, Role: model.RoleOrganizer})

		require.NoError(t, err)
		assert.Equal(t, model.EventStatusCompleted, updated.Status)
	})

	t.Run("Failed - other organizer cannot transition", func(t *testing.T) {
		setupTestWithTruncate(t)
		svc := newTestEventService()

		organizerID := createTestUser(t, "Org", "org@example.com", model.RoleOrganizer)
		otherID := createTestUser(t, "Other", "other@example.com", model.RoleOrganizer)
		eventID := createTestEvent(t, testEventParams{
			OrganizerID: organizerID, Capacity: 10, Status: model.EventStatusDraft, EndDate: futureEnd(),
		})

		_, err := svc.Publish(ctx, eventID, model.Principal{UserID: otherID, Role: model.RoleOrganizer})

		assert.ErrorIs(t, err, apperrors.ErrForbidden)
	})
}

func TestEventService_List(t *testing.T) {
	setupTestWithTruncate(t)
	svc := newTestEventService()
	ctx := context.Background()

	organizerID := createTestUser(t, "Org", "org@example.com", model.RoleOrganizer)
	publishedID := createTestEvent(t, testEventParams{
		OrganizerID: organizerID, Capacity: 10, Status: model.EventStatusPublished, EndDate: futureEnd(),
	})
	createTestEvent(t, testEventParams{
		OrganizerID: organizerID, Capacity: 10, Status: model.EventStatusDraft, EndDate: futureEnd(),
	})

	t.Run("no filter returns all", func(t *testing.T) {
		events, err := svc.List(ctx, model.EventFilter{})
		require.NoError(t, err)
		assert.Len(t, events, 2)
	})

	t.Run("filter by status", func(t *testing.T) {
		status := model.EventStatusPublished
		events, err := svc.List(ctx, model.EventFilter{Status: &status})
		require.NoError(t, err)
		require.Len(t, events, 1)
		assert.Equal(t, publishedID, events[0].ID)
	})
}

func TestEventService_GetStats(t *testing.T) {
	setupTestWithTruncate(t)
	svc := newTestEventService()
	ctx := context.Background()

	organizerID := createTestUser(t, "Org", "org@example.com", model.RoleOrganizer)
	userID := createTestUser(t, "Alice", "alice@example.com", model.RoleUser)
	publishedID := createTestEvent(t, testEventParams{
		OrganizerID: organizerID, Capacity: 10, RegisteredCount: 1,
		Status: model.EventStatusPublished, EndDate: futureEnd(),
	})
	createTestEvent(t, testEventParams{
		OrganizerID: organizerID, Capacity: 10, Status: model.EventStatusDraft, EndDate: futureEnd(),
	})
	createTestRegistration(t, userID, publishedID, model.RegistrationStatusConfirmed)

	stats, err := svc.GetStats(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, stats.TotalEvents)
	assert.Equal(t, 1, stats.ActiveEvents)
	assert.Equal(t, 1, stats.TotalRegistrations)

	// 第二次走快取，新增活動後統計值不變
	createTestEvent(t, testEventParams{
		OrganizerID: organizerID, Capacity: 10, Status: model.EventStatusPublished, EndDate: futureEnd(),
	})

	cached, err := svc.GetStats(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, cached.TotalEvents)

	// Update 會使快取失效，之後的統計反映最新資料
	capacity := 4
	_, err = svc.Update(ctx, publishedID, model.UpdateEventParams{Capacity: &capacity},
		model.Principal{UserID: organizerID, Role: model.RoleOrganizer})
	require.NoError(t, err)

	fresh, err := svc.GetStats(ctx)
	require.NoError(t, err)
	assert.Equal(t, 3, fresh.TotalEvents)
	assert.InDelta(t, 25.0/3, fresh.AverageOccupancy, 0.01)
}
