package monitoring

import (
	"log"
	"time"

	"github.com/robfig/cron/v3"

	"tasktrack/internal/services"
)

// SessionReaper periodically deletes expired session rows so the sessions
// table doesn't accumulate dead logins.
type SessionReaper struct {
	sessionSvc services.SessionServiceProvider
	schedule   cron.Schedule
	nextRun    time.Time
	ticker     *time.Ticker
	done       chan bool
}

// NewSessionReaper creates a reaper from a standard 5-field cron spec.
func NewSessionReaper(sessionSvc services.SessionServiceProvider, cronSpec string) (*SessionReaper, error) {
	schedule, err := cron.ParseStandard(cronSpec)
	if err != nil {
		return nil, err
	}
	return &SessionReaper{
		sessionSvc: sessionSvc,
		schedule:   schedule,
		nextRun:    schedule.Next(time.Now()),
		done:       make(chan bool),
	}, nil
}

// Run starts the reaper's ticking loop.
func (s *SessionReaper) Run() {
	log.Println("Starting session reaper...")
	s.ticker = time.NewTicker(1 * time.Minute)
	defer s.ticker.Stop()

	// Run once immediately on start
	s.reap()

	for {
		select {
		case <-s.done:
			log.Println("Stopping session reaper.")
			return
		case <-s.ticker.C:
			now := time.Now()
			if now.After(s.nextRun) {
				s.reap()
				s.nextRun = s.schedule.Next(now)
			}
		}
	}
}

// Stop halts the reaper.
func (s *SessionReaper) Stop() {
	s.done <- true
}

func (s *SessionReaper) reap() {
	purged, err := s.sessionSvc.PurgeExpired(time.Now())
	if err != nil {
		log.Printf("Session reaper: failed to purge expired sessions: %v", err)
		return
	}
	if purged > 0 {
		log.Printf("Session reaper: purged %d expired session(s)", purged)
	}
}
