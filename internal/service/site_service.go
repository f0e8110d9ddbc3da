package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/ranganmag-api/internal/config"
	"github.com/ranganmag-api/internal/models"
	"github.com/rs/zerolog"
)

var errNoRegenerator = errors.New("no site regenerator configured")

// siteService is the concrete implementation of SiteService. A single worker
// drains a one-slot queue, so any burst of triggers collapses into at most
// one pending run behind the one in progress.
type siteService struct {
	cfg    config.SiteConfig
	regen  Regenerator
	queue  chan string
	log    zerolog.Logger
	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
	mu     sync.Mutex

	statusMu sync.Mutex
	status   models.SiteStatus
}

// NewSiteService creates a SiteService; call Start to run its worker
func NewSiteService(cfg config.SiteConfig, log zerolog.Logger) SiteService {
	if cfg.RetryAttempts < 1 {
		cfg.RetryAttempts = 1
	}
	return &siteService{
		cfg:   cfg,
		queue: make(chan string, 1),
		log:   log.With().Str("service", "site").Logger(),
	}
}

// SetRegenerator sets the regenerator used by the worker
func (s *siteService) SetRegenerator(regen Regenerator) {
	s.mu.Lock()
	s.regen = regen
	s.mu.Unlock()
}

// Start launches the background worker
func (s *siteService) Start(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.cancel != nil {
		return
	}
	s.ctx, s.cancel = context.WithCancel(ctx)

	s.wg.Add(1)
	go s.loop()

	s.log.Info().Bool("enabled", s.cfg.Enabled).Msg("Site regeneration worker started")
}

// Stop cancels the worker and waits for the current run to return
func (s *siteService) Stop() {
	s.mu.Lock()
	cancel := s.cancel
	s.cancel = nil
	s.mu.Unlock()

	if cancel == nil {
		return
	}
	cancel()
	s.wg.Wait()
	s.log.Info().Msg("Site regeneration worker stopped")
}

func (s *siteService) Trigger(reason string) bool {
	if !s.cfg.Enabled {
		return false
	}

	s.statusMu.Lock()
	defer s.statusMu.Unlock()

	select {
	case s.queue <- reason:
		s.status.Pending = true
		s.status.LastReason = reason
		return true
	default:
		return false
	}
}

func (s *siteService) Status() models.SiteStatus {
	s.statusMu.Lock()
	defer s.statusMu.Unlock()
	st := s.status
	return st
}

func (s *siteService) loop() {
	defer s.wg.Done()
	for {
		select {
		case <-s.ctx.Done():
			return
		case reason := <-s.queue:
			s.run(reason)
		}
	}
}

func (s *siteService) run(reason string) {
	started := time.Now().UTC()
	s.statusMu.Lock()
	s.status.Pending = len(s.queue) > 0
	s.status.Running = true
	s.statusMu.Unlock()

	log := s.log.With().Str("reason", reason).Logger()
	log.Info().Msg("Regenerating static site")

	var err error
	for attempt := 1; attempt <= s.cfg.RetryAttempts; attempt++ {
		if err = s.attempt(); err == nil {
			break
		}
		log.Warn().Err(err).Int("attempt", attempt).Int("max_attempts", s.cfg.RetryAttempts).Msg("Site regeneration attempt failed")
		if attempt == s.cfg.RetryAttempts || errors.Is(err, errNoRegenerator) {
			break
		}
		select {
		case <-time.After(s.cfg.RetryDelay):
		case <-s.ctx.Done():
			err = fmt.Errorf("site regeneration cancelled: %w", s.ctx.Err())
			attempt = s.cfg.RetryAttempts
		}
	}

	finished := time.Now().UTC()
	s.statusMu.Lock()
	s.status.Running = false
	s.status.Runs++
	s.status.LastRunAt = &started
	if err != nil {
		s.status.Failures++
		s.status.LastError = err.Error()
	} else {
		s.status.LastSuccessAt = &finished
		s.status.LastError = ""
	}
	s.statusMu.Unlock()

	if err != nil {
		log.Error().Err(err).Msg("Site regeneration failed")
		return
	}
	log.Info().Dur("duration", finished.Sub(started)).Msg("Static site regenerated")
}

// attempt runs the regenerator once, converting panics into errors
func (s *siteService) attempt() (err error) {
	s.mu.Lock()
	regen := s.regen
	s.mu.Unlock()
	if regen == nil {
		return errNoRegenerator
	}

	ctx := s.ctx
	if s.cfg.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.cfg.Timeout)
		defer cancel()
	}

	// Panic recovery - a panicking regenerator fails the attempt, not the worker
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("site regeneration panicked: %v", r)
		}
	}()

	return regen.Regenerate(ctx)
}
