package session

import (
	"time"

	"github.com/coldiron/betacraft/internal/wire"
)

// startPeriodicTasks starts the keepalive (5s) and time-sync (10s) loops
// (spec.md §4.2 step 9, §4.9). Both stop, idempotently, when the
// session's context is cancelled at disconnect.
func (s *Session) startPeriodicTasks() {
	go s.keepAliveLoop()
	go s.timeSyncLoop()
}

func (s *Session) keepAliveLoop() {
	t := time.NewTicker(5 * time.Second)
	defer t.Stop()
	for {
		select {
		case <-s.ctx.Done():
			return
		case <-t.C:
			if err := s.WritePacket(&wire.KeepAlive{}); err != nil {
				return
			}
		}
	}
}

func (s *Session) timeSyncLoop() {
	t := time.NewTicker(10 * time.Second)
	defer t.Stop()
	for {
		select {
		case <-s.ctx.Done():
			return
		case <-t.C:
			if err := s.WritePacket(&wire.TimeUpdate{Time: s.bus.Time()}); err != nil {
				return
			}
		}
	}
}
