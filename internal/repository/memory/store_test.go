package memory

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/SARVESHVARADKAR123/bottle/internal/domain"
	"github.com/SARVESHVARADKAR123/bottle/internal/repository"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newMessage(t *testing.T, id, session string, created time.Time) *domain.Message {
	t.Helper()
	m, err := domain.NewMessage(id, session, "a message long enough", "", domain.Presentation{BottleStyle: 1}, "", domain.DefaultLimits, created)
	require.NoError(t, err)
	return m
}

func TestStore_InsertMessage_UniqueSession(t *testing.T) {
	ctx := context.Background()
	s := NewStore()
	now := time.Now()

	require.NoError(t, s.InsertMessage(ctx, nil, newMessage(t, "m1", "s1", now)))
	err := s.InsertMessage(ctx, nil, newMessage(t, "m2", "s1", now))
	assert.ErrorIs(t, err, domain.ErrDuplicateSubmission)

	has, err := s.SessionHasMessage(ctx, "s1")
	require.NoError(t, err)
	assert.True(t, has)
}

func TestStore_InsertMessage_Concurrent(t *testing.T) {
	ctx := context.Background()
	s := NewStore()
	now := time.Now()

	const writers = 20
	var (
		wg        sync.WaitGroup
		mu        sync.Mutex
		successes int
		dupes     int
	)
	for i := range writers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			err := s.InsertMessage(ctx, nil, newMessage(t, fmt.Sprintf("m%d", i), "same-session", now))
			mu.Lock()
			defer mu.Unlock()
			switch {
			case err == nil:
				successes++
			case assert.ErrorIs(t, err, domain.ErrDuplicateSubmission):
				dupes++
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, successes)
	assert.Equal(t, writers-1, dupes)
	n, _ := s.CountMessages(ctx)
	assert.EqualValues(t, 1, n)
}

func TestStore_MarkRead_Concurrent(t *testing.T) {
	ctx := context.Background()
	s := NewStore()
	require.NoError(t, s.InsertMessage(ctx, nil, newMessage(t, "m1", "owner", time.Now())))

	var wg sync.WaitGroup
	for i := range 50 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := s.MarkRead(ctx, "m1", fmt.Sprintf("reader-%d", i%10))
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	m, err := s.GetMessageForUpdate(ctx, nil, "m1")
	require.NoError(t, err)
	assert.Len(t, m.ReadBy, 10)

	_, err = s.MarkRead(ctx, "missing", "reader")
	assert.ErrorIs(t, err, domain.ErrMessageNotFound)
}

func TestStore_ReturnsCopies(t *testing.T) {
	ctx := context.Background()
	s := NewStore()
	require.NoError(t, s.InsertMessage(ctx, nil, newMessage(t, "m1", "owner", time.Now())))

	got, err := s.MarkRead(ctx, "m1", "r1")
	require.NoError(t, err)
	got.ReadBy = append(got.ReadBy, "tampered")

	again, err := s.GetMessageForUpdate(ctx, nil, "m1")
	require.NoError(t, err)
	assert.Equal(t, []string{"r1"}, again.ReadBy)
}

func TestStore_ListMessages_Order(t *testing.T) {
	ctx := context.Background()
	s := NewStore()
	base := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)

	require.NoError(t, s.InsertMessage(ctx, nil, newMessage(t, "b", "s2", base.Add(time.Hour))))
	require.NoError(t, s.InsertMessage(ctx, nil, newMessage(t, "a", "s1", base)))
	require.NoError(t, s.InsertMessage(ctx, nil, newMessage(t, "c", "s3", base.Add(2*time.Hour))))

	oldest, err := s.ListMessages(ctx, repository.ListOptions{Status: domain.StatusPending})
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b", "c"}, ids(oldest))

	newest, err := s.ListMessages(ctx, repository.ListOptions{NewestFirst: true})
	require.NoError(t, err)
	assert.Equal(t, []string{"c", "b", "a"}, ids(newest))
}

func TestStore_DeleteMessage_FreesSession(t *testing.T) {
	ctx := context.Background()
	s := NewStore()
	require.NoError(t, s.InsertMessage(ctx, nil, newMessage(t, "m1", "s1", time.Now())))

	require.NoError(t, s.DeleteMessage(ctx, nil, "m1"))
	assert.ErrorIs(t, s.DeleteMessage(ctx, nil, "m1"), domain.ErrMessageNotFound)

	has, _ := s.SessionHasMessage(ctx, "s1")
	assert.False(t, has)
}

func TestStore_Moderators(t *testing.T) {
	ctx := context.Background()
	s := NewStore()

	require.NoError(t, s.CreateModerator(ctx, nil, &domain.Moderator{ID: "1", Username: "keeper"}))
	assert.ErrorIs(t, s.CreateModerator(ctx, nil, &domain.Moderator{ID: "2", Username: "keeper"}), domain.ErrModeratorExists)

	n, err := s.CountModeratorsForUpdate(ctx, nil)
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	_, err = s.GetModeratorByUsername(ctx, "nobody")
	assert.ErrorIs(t, err, domain.ErrModeratorNotFound)
}

func ids(ms []*domain.Message) []string {
	out := make([]string, len(ms))
	for i, m := range ms {
		out[i] = m.ID
	}
	return out
}
