package zmanim

import (
	"context"
	"log"
	"sync"
	"time"

	"github.com/tushy123/minyan-now/config"
)

// Service keeps the prayer windows for the configured home location fresh.
// A window set is scoped to one (location, date, timezone) tuple; the service
// checks once per minute whether the local date has rolled over and refetches
// when it has. When the upstream is unreachable the static defaults are
// served and the degraded flag is raised instead of failing callers.
type Service struct {
	cfg    *config.ZmanimConfig
	client *Client

	mu       sync.RWMutex
	windows  Windows
	date     string
	degraded bool
}

// NewService creates a window refresh service for the configured location.
func NewService(cfg *config.ZmanimConfig) *Service {
	return &Service{
		cfg:      cfg,
		client:   NewClient(cfg.URL, cfg.Timeout),
		windows:  DefaultWindows(),
		degraded: true, // until the first successful fetch
	}
}

// Windows returns the current window set and whether it is a degraded
// (static fallback) set.
func (s *Service) Windows() (Windows, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.windows, s.degraded
}

// Run refreshes immediately and then once per minute until ctx is done.
// Within a day the refresh is a no-op unless the last fetch was degraded.
func (s *Service) Run(ctx context.Context) {
	log.Println("Starting zmanim refresh service...")
	s.refresh(ctx)

	ticker := time.NewTicker(time.Minute)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			log.Println("Zmanim refresh service shutting down.")
			return
		case <-ticker.C:
			s.refresh(ctx)
		}
	}
}

func (s *Service) refresh(ctx context.Context) {
	today := s.localDate()

	s.mu.RLock()
	current, degraded := s.date, s.degraded
	s.mu.RUnlock()
	if current == today && !degraded {
		return
	}

	windows, ok := s.fetchWindows(ctx, today)

	s.mu.Lock()
	s.windows = windows
	s.date = today
	s.degraded = !ok
	s.mu.Unlock()
}

// fetchWindows resolves the day's windows, falling back to the static set on
// any upstream failure.
func (s *Service) fetchWindows(ctx context.Context, date string) (Windows, bool) {
	timeout := s.cfg.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	fetchCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	resp, err := s.client.Fetch(fetchCtx, s.cfg.Lat, s.cfg.Lng, s.cfg.Timezone, date)
	if err != nil {
		log.Printf("Zmanim fetch failed, serving static defaults: %v", err)
		return DefaultWindows(), false
	}
	return ResolveWindows(resp.Times), true
}

// localDate formats today's date in the configured timezone.
func (s *Service) localDate() string {
	loc, err := time.LoadLocation(s.cfg.Timezone)
	if err != nil {
		log.Printf("Warning: failed to load timezone %q: %v. Using UTC.", s.cfg.Timezone, err)
		loc = time.UTC
	}
	return time.Now().In(loc).Format("2006-01-02")
}
