package timeline

import (
	"github.com/freshell/timecode/core/clock"
)

// SessionStatus is a read-only summary of a live session.
type SessionStatus struct {
	SessionID  string `json:"session_id"`
	Label      string `json:"label,omitempty"`
	CreatedAt  string `json:"created_at_utc"`
	NextSeq    int64  `json:"next_seq"`
	OpenEvents int    `json:"open_events"`
	ElapsedMS  int64  `json:"elapsed_ms"`
}

// Status reports the current session without touching the write path.
func Status(timelinePath string) (SessionStatus, error) {
	state, err := LoadState(timelinePath)
	if err != nil {
		return SessionStatus{}, err
	}
	return SessionStatus{
		SessionID:  state.SessionID,
		Label:      state.Label,
		CreatedAt:  state.CreatedAtUTC,
		NextSeq:    state.NextSeq,
		OpenEvents: len(state.OpenEvents),
		ElapsedMS:  clock.ElapsedMS(state.StartMonotonicNS),
	}, nil
}
