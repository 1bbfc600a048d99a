package application

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/SARVESHVARADKAR123/bottle/internal/domain"
	"github.com/SARVESHVARADKAR123/bottle/internal/repository/memory"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestSelectNext(t *testing.T) {
	ctx := context.Background()

	t.Run("Requires a session", func(t *testing.T) {
		s, _ := newTestService(t, Options{})
		_, err := s.SelectNext(ctx, SelectNextQuery{})
		assert.ErrorIs(t, err, domain.ErrValidation)
	})

	t.Run("Exhausted when only pending messages exist", func(t *testing.T) {
		s, _ := newTestService(t, Options{})
		submit(t, s, "other")

		_, err := s.SelectNext(ctx, SelectNextQuery{SessionID: "me"})
		assert.ErrorIs(t, err, domain.ErrNoMessagesAvailable)
	})

	t.Run("Unread messages come before read ones", func(t *testing.T) {
		s, _ := newTestService(t, Options{})
		first := approve(t, s, "a")
		second := approve(t, s, "b")

		got1, err := s.SelectNext(ctx, SelectNextQuery{SessionID: "me"})
		require.NoError(t, err)
		got2, err := s.SelectNext(ctx, SelectNextQuery{SessionID: "me"})
		require.NoError(t, err)

		assert.ElementsMatch(t, []string{first.ID, second.ID}, []string{got1.ID, got2.ID})
	})

	t.Run("Repeated selections never duplicate readers", func(t *testing.T) {
		s, store := newTestService(t, Options{})
		msg := approve(t, s, "a")

		for range 5 {
			got, err := s.SelectNext(ctx, SelectNextQuery{SessionID: "me"})
			require.NoError(t, err)
			assert.Equal(t, msg.ID, got.ID)
		}

		stored, err := store.GetMessageForUpdate(ctx, nil, msg.ID)
		require.NoError(t, err)
		assert.Equal(t, []string{"me"}, stored.ReadBy)
	})

	t.Run("Own message only as fallback", func(t *testing.T) {
		s, _ := newTestService(t, Options{})
		own := approve(t, s, "me")

		got, err := s.SelectNext(ctx, SelectNextQuery{SessionID: "me"})
		require.NoError(t, err)
		assert.Equal(t, own.ID, got.ID)

		_, err = s.SelectNext(ctx, SelectNextQuery{SessionID: "me", ExcludeMessageID: own.ID})
		assert.ErrorIs(t, err, domain.ErrNoMessagesAvailable)
	})

	t.Run("Explicit force own wins over fresh messages", func(t *testing.T) {
		s, _ := newTestService(t, Options{})
		own := approve(t, s, "me")
		approve(t, s, "other")

		got, err := s.SelectNext(ctx, SelectNextQuery{SessionID: "me", ForceOwnMessage: ptr(true), PreviousMessageID: own.ID})
		require.NoError(t, err)
		assert.Equal(t, own.ID, got.ID)
	})

	t.Run("Rejected and deleted messages leave selection", func(t *testing.T) {
		s, _ := newTestService(t, Options{})
		kept := approve(t, s, "a")
		gone := approve(t, s, "b")
		rejected := submit(t, s, "c")

		_, err := s.Moderate(ctx, ModerateCommand{MessageID: rejected.ID, Status: "rejected", ModeratorID: "mod"})
		require.NoError(t, err)
		require.NoError(t, s.DeleteMessage(ctx, gone.ID, "mod"))

		for range 4 {
			got, err := s.SelectNext(ctx, SelectNextQuery{SessionID: "me"})
			require.NoError(t, err)
			assert.Equal(t, kept.ID, got.ID)
		}

		pending, err := s.ListPending(ctx)
		require.NoError(t, err)
		assert.Empty(t, pending)
	})
}

func TestSelectNext_FetchCadence(t *testing.T) {
	ctx := context.Background()

	counter := &mockCounter{}
	counter.On("NextFetch", mock.Anything, "me").Return(int64(5), nil).Once()
	counter.On("NextFetch", mock.Anything, "me").Return(int64(6), nil).Once()

	s, _ := newTestService(t, Options{FetchCounter: counter, OwnMessageEvery: 6})
	own := approve(t, s, "me")
	fresh := approve(t, s, "other")

	got, err := s.SelectNext(ctx, SelectNextQuery{SessionID: "me"})
	require.NoError(t, err)
	assert.Equal(t, fresh.ID, got.ID)

	got, err = s.SelectNext(ctx, SelectNextQuery{SessionID: "me"})
	require.NoError(t, err)
	assert.Equal(t, own.ID, got.ID)

	// An explicit value skips the counter entirely.
	got, err = s.SelectNext(ctx, SelectNextQuery{SessionID: "me", ForceOwnMessage: ptr(false)})
	require.NoError(t, err)
	assert.Equal(t, fresh.ID, got.ID)

	counter.AssertExpectations(t)
}

func TestSelectNext_OmittedFlagKeepsTierOrder(t *testing.T) {
	ctx := context.Background()

	counter := &mockCounter{}
	s, _ := newTestService(t, Options{FetchCounter: counter})
	own := approve(t, s, "me")
	for i := range 10 {
		approve(t, s, fmt.Sprintf("other-%d", i))
	}

	for fetch := 1; fetch <= 6; fetch++ {
		got, err := s.SelectNext(ctx, SelectNextQuery{SessionID: "me"})
		require.NoError(t, err)
		assert.NotEqual(t, own.ID, got.ID, "fetch %d", fetch)
		assert.Equal(t, 1, got.ReadCount(), "fetch %d", fetch)
	}

	counter.AssertNotCalled(t, "NextFetch", mock.Anything, mock.Anything)
}

func TestSelectNext_CounterFailureIsIgnored(t *testing.T) {
	counter := &mockCounter{}
	counter.On("NextFetch", mock.Anything, "me").Return(int64(0), errors.New("redis down"))

	s, _ := newTestService(t, Options{FetchCounter: counter, OwnMessageEvery: 6})
	fresh := approve(t, s, "other")

	got, err := s.SelectNext(context.Background(), SelectNextQuery{SessionID: "me"})
	require.NoError(t, err)
	assert.Equal(t, fresh.ID, got.ID)
}

// vanishingStore deletes the first message it is asked to mark read, as if a
// moderator removed it between query and update.
type vanishingStore struct {
	*memory.Store
	vanished int
}

func (v *vanishingStore) MarkRead(ctx context.Context, id, sessionID string) (*domain.Message, error) {
	if v.vanished == 0 {
		v.vanished++
		_ = v.Store.DeleteMessage(ctx, nil, id)
		return nil, domain.ErrMessageNotFound
	}
	return v.Store.MarkRead(ctx, id, sessionID)
}

func TestSelectNext_RetriesWhenMessageVanishes(t *testing.T) {
	ctx := context.Background()
	base, _ := newTestService(t, Options{})
	a := approve(t, base, "a")
	b := approve(t, base, "b")

	store := &vanishingStore{Store: base.repo.(*memory.Store)}
	s := New(store, store, nil, Options{})

	got, err := s.SelectNext(ctx, SelectNextQuery{SessionID: "me"})
	require.NoError(t, err)
	assert.Contains(t, []string{a.ID, b.ID}, got.ID)
	assert.Equal(t, 1, store.vanished)
}
