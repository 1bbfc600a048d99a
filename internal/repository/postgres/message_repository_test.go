package postgres

import (
	"context"
	"errors"
	"testing"

	"github.com/SARVESHVARADKAR123/bottle/internal/domain"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildFilter(t *testing.T) {
	tests := []struct {
		name      string
		filter    domain.MessageFilter
		wantWhere string
		wantArgs  int
	}{
		{
			name:      "Empty filter",
			filter:    domain.MessageFilter{},
			wantWhere: "",
			wantArgs:  0,
		},
		{
			name:      "Status only",
			filter:    domain.MessageFilter{Status: domain.StatusPending},
			wantWhere: " WHERE status = $1",
			wantArgs:  1,
		},
		{
			name: "Unread by anyone from others",
			filter: domain.MessageFilter{
				Status:     domain.StatusApproved,
				SessionID:  "s1",
				Owner:      domain.OwnedByOthers,
				Read:       domain.ReadByNobody,
				ExcludeIDs: []string{"a", "b"},
			},
			wantWhere: " WHERE status = $1 AND NOT (id = ANY($2)) AND session_id <> $3 AND cardinality(read_by) = 0",
			wantArgs:  3,
		},
		{
			name: "Unread by session",
			filter: domain.MessageFilter{
				Status:    domain.StatusApproved,
				SessionID: "s1",
				Owner:     domain.OwnedByOthers,
				Read:      domain.UnreadBySession,
			},
			wantWhere: " WHERE status = $1 AND session_id <> $2 AND NOT ($3 = ANY(read_by))",
			wantArgs:  3,
		},
		{
			name: "Own message",
			filter: domain.MessageFilter{
				Status:    domain.StatusApproved,
				SessionID: "s1",
				Owner:     domain.OwnedBySession,
			},
			wantWhere: " WHERE status = $1 AND session_id = $2",
			wantArgs:  2,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			where, args := buildFilter(tt.filter)
			assert.Equal(t, tt.wantWhere, where)
			assert.Len(t, args, tt.wantArgs)
		})
	}
}

func TestIsUniqueViolation(t *testing.T) {
	err := &pq.Error{Code: "23505", Constraint: "messages_session_id_key"}

	assert.True(t, isUniqueViolation(err, "messages_session_id_key"))
	assert.False(t, isUniqueViolation(err, "moderators_username_key"))
	assert.False(t, isUniqueViolation(errors.New("boom"), "messages_session_id_key"))
}

func TestStoreErr(t *testing.T) {
	assert.NoError(t, storeErr("op", nil))
	assert.ErrorIs(t, storeErr("op", errors.New("connection refused")), domain.ErrStoreUnavailable)

	err := storeErr("get message", &pq.Error{Code: "40P01"})
	assert.ErrorIs(t, err, domain.ErrStoreUnavailable)
	var pgErr *pq.Error
	require.ErrorAs(t, err, &pgErr)
	assert.Equal(t, pq.ErrorCode("40P01"), pgErr.Code)

	assert.ErrorIs(t, storeErr("query messages", context.DeadlineExceeded), context.DeadlineExceeded)
}
