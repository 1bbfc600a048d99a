package domain

import "slices"

type Ownership int

const (
	AnyOwner Ownership = iota
	OwnedByOthers
	OwnedBySession
)

type ReadState int

const (
	ReadAny ReadState = iota
	ReadByNobody
	UnreadBySession
)

// MessageFilter is the predicate the selection tiers hand to a message store.
// SessionID is the requesting session; Owner and Read are evaluated against it.
type MessageFilter struct {
	Status     Status
	SessionID  string
	Owner      Ownership
	Read       ReadState
	ExcludeIDs []string
}

func (f MessageFilter) Matches(m *Message) bool {
	if f.Status != "" && m.Status != f.Status {
		return false
	}
	if slices.Contains(f.ExcludeIDs, m.ID) {
		return false
	}

	switch f.Owner {
	case OwnedByOthers:
		if m.SessionID == f.SessionID {
			return false
		}
	case OwnedBySession:
		if m.SessionID != f.SessionID {
			return false
		}
	}

	switch f.Read {
	case ReadByNobody:
		return len(m.ReadBy) == 0
	case UnreadBySession:
		return !m.IsReadBy(f.SessionID)
	}
	return true
}
