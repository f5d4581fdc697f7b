package guest

import (
	"context"
)

type sessionKey struct{}

// session carries a host failure across the guest's frames for one call.
// The firewall stores the recovered panic value here; Call re-raises it
// after the guest unwinds. Single-threaded per call chain, so no locking.
type session struct {
	pending any
	set     bool
}

func withSession(ctx context.Context) (context.Context, *session) {
	s := &session{}
	return context.WithValue(ctx, sessionKey{}, s), s
}

func sessionFrom(ctx context.Context) *session {
	s, _ := ctx.Value(sessionKey{}).(*session)
	return s
}

// take returns the stashed failure, consuming it.
func (s *session) take() (any, bool) {
	if s == nil || !s.set {
		return nil, false
	}
	v := s.pending
	s.pending = nil
	s.set = false
	return v, true
}

func (s *session) stash(v any) {
	s.pending = v
	s.set = true
}
