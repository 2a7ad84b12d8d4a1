package store

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) *SQLStore {
	t.Helper()
	s, err := NewSQLStore(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func testReading(id, userID, url string, createdAt time.Time) *Reading {
	return &Reading{
		ID:        id,
		UserID:    userID,
		URL:       url,
		Title:     "Title " + id,
		Summary:   "summary " + id,
		Content:   "content " + id,
		CreatedAt: createdAt,
	}
}

func TestCreateAndGetReading(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	now := time.Now().UTC().Truncate(time.Second)
	reading := testReading("r1", "user_1", "https://example.com/a", now)
	reading.OGImage = "https://example.com/og.png"
	require.NoError(t, s.CreateReading(ctx, reading))

	got, err := s.GetReadingByID(ctx, "user_1", "r1")
	require.NoError(t, err)
	assert.Equal(t, "https://example.com/a", got.URL)
	assert.Equal(t, "Title r1", got.Title)
	assert.Equal(t, "https://example.com/og.png", got.OGImage)
	assert.Empty(t, got.Favicon)
	assert.False(t, got.IsRead)
	assert.True(t, got.CreatedAt.Equal(now))

	byURL, err := s.GetReadingByURL(ctx, "user_1", "https://example.com/a")
	require.NoError(t, err)
	assert.Equal(t, "r1", byURL.ID)
}

func TestGetReadingScopedToOwner(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.CreateReading(ctx, testReading("r1", "user_1", "https://example.com/a", time.Now())))

	_, err := s.GetReadingByID(ctx, "user_2", "r1")
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = s.GetReadingByURL(ctx, "user_2", "https://example.com/a")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestCreateReadingDuplicateURL(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.CreateReading(ctx, testReading("r1", "user_1", "https://example.com/a", time.Now())))

	err := s.CreateReading(ctx, testReading("r2", "user_1", "https://example.com/a", time.Now()))
	assert.ErrorIs(t, err, ErrAlreadyExists)

	// same URL is fine for a different owner
	require.NoError(t, s.CreateReading(ctx, testReading("r3", "user_2", "https://example.com/a", time.Now())))
}

func TestListReadingsNewestFirst(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	base := time.Now().UTC().Truncate(time.Second)
	require.NoError(t, s.CreateReading(ctx, testReading("r1", "user_1", "https://example.com/a", base.Add(-2*time.Hour))))
	require.NoError(t, s.CreateReading(ctx, testReading("r2", "user_1", "https://example.com/b", base)))
	require.NoError(t, s.CreateReading(ctx, testReading("r3", "user_1", "https://example.com/c", base.Add(-time.Hour))))
	require.NoError(t, s.CreateReading(ctx, testReading("r4", "user_2", "https://example.com/d", base)))

	readings, err := s.ListReadingsByUserID(ctx, "user_1")
	require.NoError(t, err)
	require.Len(t, readings, 3)
	assert.Equal(t, "r2", readings[0].ID)
	assert.Equal(t, "r3", readings[1].ID)
	assert.Equal(t, "r1", readings[2].ID)
}

func TestToggleReadingRead(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.CreateReading(ctx, testReading("r1", "user_1", "https://example.com/a", time.Now())))

	toggled, err := s.ToggleReadingRead(ctx, "user_1", "r1")
	require.NoError(t, err)
	assert.True(t, toggled.IsRead)

	toggled, err = s.ToggleReadingRead(ctx, "user_1", "r1")
	require.NoError(t, err)
	assert.False(t, toggled.IsRead)

	_, err = s.ToggleReadingRead(ctx, "user_2", "r1")
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = s.ToggleReadingRead(ctx, "user_1", "missing")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestDeleteReading(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.CreateReading(ctx, testReading("r1", "user_1", "https://example.com/a", time.Now())))

	assert.ErrorIs(t, s.DeleteReading(ctx, "user_2", "r1"), ErrNotFound)
	require.NoError(t, s.DeleteReading(ctx, "user_1", "r1"))
	assert.ErrorIs(t, s.DeleteReading(ctx, "user_1", "r1"), ErrNotFound)

	_, err := s.GetReadingByID(ctx, "user_1", "r1")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestListReadingsMissingEmbedding(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	base := time.Now().UTC().Truncate(time.Second)
	require.NoError(t, s.CreateReading(ctx, testReading("r1", "user_1", "https://example.com/a", base.Add(-time.Hour))))
	require.NoError(t, s.CreateReading(ctx, testReading("r2", "user_1", "https://example.com/b", base)))

	readings, err := s.ListReadingsMissingEmbedding(ctx, 10)
	require.NoError(t, err)
	require.Len(t, readings, 2)
	assert.Equal(t, "r1", readings[0].ID, "oldest first")

	readings, err = s.ListReadingsMissingEmbedding(ctx, 1)
	require.NoError(t, err)
	assert.Len(t, readings, 1)
}

func TestVectorText(t *testing.T) {
	assert.Equal(t, "[]", vectorText(nil))
	assert.Equal(t, "[1,0.5,-0.25]", vectorText([]float32{1, 0.5, -0.25}))
}

func TestNewStoreRejectsUnknownDSN(t *testing.T) {
	_, err := NewStore("postgres://localhost/db")
	assert.Error(t, err)
}
