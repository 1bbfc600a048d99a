package selection

import (
	"context"
	"fmt"

	"github.com/SARVESHVARADKAR123/bottle/internal/domain"
)

// Tier names, also used as metric labels.
const (
	TierForcedOwn       = "forced_own"
	TierUnreadByAnyone  = "unread_by_anyone"
	TierUnreadBySession = "unread_by_session"
	TierLeastRead       = "least_read"
	TierOwnFallback     = "own_fallback"
)

// Finder is the query capability the policy needs from a message store.
type Finder interface {
	FindMessages(ctx context.Context, filter domain.MessageFilter) ([]*domain.Message, error)
}

type Tier struct {
	Name   string
	Filter domain.MessageFilter
	Sample Sampler
}

type Request struct {
	SessionID         string
	ExcludeMessageID  string
	PreviousMessageID string
	ForceOwnMessage   bool
}

type Result struct {
	Message *domain.Message
	Tier    string
}

// Tiers returns the selection policy for req in priority order.
func Tiers(req Request) []Tier {
	excluded := excludeIDs(req.ExcludeMessageID, req.PreviousMessageID)

	base := func(owner domain.Ownership, read domain.ReadState) domain.MessageFilter {
		return domain.MessageFilter{
			Status:     domain.StatusApproved,
			SessionID:  req.SessionID,
			Owner:      owner,
			Read:       read,
			ExcludeIDs: excluded,
		}
	}

	tiers := make([]Tier, 0, 5)

	if req.ForceOwnMessage {
		// previousMessageID does not apply here, the own message may repeat.
		tiers = append(tiers, Tier{
			Name: TierForcedOwn,
			Filter: domain.MessageFilter{
				Status:     domain.StatusApproved,
				SessionID:  req.SessionID,
				Owner:      domain.OwnedBySession,
				ExcludeIDs: excludeIDs(req.ExcludeMessageID),
			},
			Sample: PickFirst,
		})
	}

	return append(tiers,
		Tier{Name: TierUnreadByAnyone, Filter: base(domain.OwnedByOthers, domain.ReadByNobody), Sample: PickUniform},
		Tier{Name: TierUnreadBySession, Filter: base(domain.OwnedByOthers, domain.UnreadBySession), Sample: PickUniform},
		Tier{Name: TierLeastRead, Filter: base(domain.OwnedByOthers, domain.ReadAny), Sample: PickLeastRead},
		Tier{Name: TierOwnFallback, Filter: base(domain.OwnedBySession, domain.ReadAny), Sample: PickFirst},
	)
}

// Choose evaluates tiers in order and samples from the first one with
// candidates. Later tiers are never queried once a tier matches.
func Choose(ctx context.Context, store Finder, tiers []Tier, rng Rand) (*Result, error) {
	for _, tier := range tiers {
		candidates, err := store.FindMessages(ctx, tier.Filter)
		if err != nil {
			return nil, fmt.Errorf("tier %s: %w", tier.Name, err)
		}
		if len(candidates) == 0 {
			continue
		}

		return &Result{
			Message: tier.Sample(candidates, rng),
			Tier:    tier.Name,
		}, nil
	}

	return nil, domain.ErrNoMessagesAvailable
}

func excludeIDs(ids ...string) []string {
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if id != "" {
			out = append(out, id)
		}
	}
	return out
}
