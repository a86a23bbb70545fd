package repository

import (
	"context"
	"errors"
	"os"
	"testing"
	"time"

	"anoa.com/advisoryhub/internal/entity"
	"anoa.com/advisoryhub/pkg/apperror"
	"anoa.com/advisoryhub/pkg/database"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func TestCheckChanges(t *testing.T) {
	assert.NoError(t, CheckChanges(Changes{ColumnNotes: "x", ColumnStatus: entity.StatusCompleted}))

	for _, col := range []string{"id", "created_at", "version", "password"} {
		err := CheckChanges(Changes{col: "x"})
		assert.True(t, errors.Is(err, apperror.ErrInvalidInput), col)
	}
}

func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := os.Getenv("TEST_DATABASE_URL")
	if dsn == "" {
		t.Skip("TEST_DATABASE_URL not set")
	}
	db, err := database.Connect(database.Config{DSN: dsn})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&entity.Advisory{}))
	t.Cleanup(func() {
		db.Exec("DELETE FROM advisories")
	})
	return db
}

func newAdvisory(student, teacher uuid.UUID, at time.Time) *entity.Advisory {
	return &entity.Advisory{
		StudentID:       student,
		TeacherID:       teacher,
		Subject:         "Calculus",
		Topic:           "Derivatives",
		ScheduledAt:     at,
		DurationMinutes: 60,
		Type:            entity.AdvisoryIndividual,
		Location:        "Room 201",
	}
}

func TestAdvisoryRepositoryPostgres(t *testing.T) {
	db := openTestDB(t)
	repo := NewAdvisoryRepository(db)
	ctx := context.Background()

	s1, s2, t1 := uuid.New(), uuid.New(), uuid.New()
	base := time.Date(2024, 12, 15, 14, 0, 0, 0, time.UTC)

	first := newAdvisory(s1, t1, base)
	require.NoError(t, repo.Create(ctx, first))
	assert.NotEqual(t, uuid.Nil, first.ID)
	assert.Equal(t, entity.StatusScheduled, first.Status)
	assert.Equal(t, 1, first.Version)

	second := newAdvisory(s2, t1, base.Add(24*time.Hour))
	second.Topic = "Integrals"
	require.NoError(t, repo.Create(ctx, second))

	t.Run("round trip", func(t *testing.T) {
		got, err := repo.FindByID(ctx, first.ID)
		require.NoError(t, err)
		assert.Equal(t, first.StudentID, got.StudentID)
		assert.Equal(t, first.Subject, got.Subject)
		assert.True(t, first.ScheduledAt.Equal(got.ScheduledAt))
		assert.Equal(t, first.DurationMinutes, got.DurationMinutes)
	})

	t.Run("filters and default order", func(t *testing.T) {
		all, err := repo.FindAll(ctx, Filter{TeacherID: &t1})
		require.NoError(t, err)
		require.Len(t, all, 2)
		assert.Equal(t, second.ID, all[0].ID)

		mine, err := repo.FindAll(ctx, Filter{StudentID: &s1})
		require.NoError(t, err)
		require.Len(t, mine, 1)
		assert.Equal(t, first.ID, mine[0].ID)

		found, err := repo.FindAll(ctx, Filter{TeacherID: &t1, Search: "integ"})
		require.NoError(t, err)
		require.Len(t, found, 1)
		assert.Equal(t, second.ID, found[0].ID)
	})

	t.Run("optimistic update", func(t *testing.T) {
		updated, err := repo.Update(ctx, first.ID, 1, Changes{ColumnNotes: "bring exercises"})
		require.NoError(t, err)
		assert.Equal(t, 2, updated.Version)
		assert.Equal(t, "bring exercises", updated.Notes)
		assert.True(t, first.CreatedAt.Equal(updated.CreatedAt))

		_, err = repo.Update(ctx, first.ID, 1, Changes{ColumnNotes: "stale"})
		assert.True(t, errors.Is(err, apperror.ErrConflict))

		_, err = repo.Update(ctx, uuid.New(), 1, Changes{ColumnNotes: "missing"})
		assert.True(t, errors.Is(err, apperror.ErrNotFound))
	})

	t.Run("count by status", func(t *testing.T) {
		counts, err := repo.CountByStatus(ctx, Filter{TeacherID: &t1})
		require.NoError(t, err)
		assert.Equal(t, int64(2), counts[entity.StatusScheduled])
	})

	t.Run("delete", func(t *testing.T) {
		require.NoError(t, repo.Delete(ctx, second.ID))
		assert.True(t, errors.Is(repo.Delete(ctx, second.ID), apperror.ErrNotFound))

		_, err := repo.FindByID(ctx, second.ID)
		assert.True(t, errors.Is(err, apperror.ErrNotFound))
	})
}
