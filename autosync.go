package techmarket

import (
	"context"

	"github.com/agentstation/techmarket/pkg/errors"
)

// AutoSyncOn starts syncing with the remote catalog in the background, once
// right away and then every configured interval. Calling it again restarts
// the schedule.
func (s *Service) AutoSyncOn() error {
	if s.syncer == nil {
		return &errors.ConfigError{Component: "remote", Message: "auto sync needs a remote catalog"}
	}
	interval := s.options.autoSyncInterval
	if interval <= 0 {
		return &errors.ValidationError{
			Field:   "autoSyncInterval",
			Value:   interval,
			Message: "sync interval must be positive",
		}
	}

	// Stop any running loop before starting a new one
	if err := s.AutoSyncOff(); err != nil {
		return err
	}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})

	s.mu.Lock()
	s.syncCancel = cancel
	s.syncDone = done
	s.mu.Unlock()

	go func() {
		defer close(done)
		// Run only returns once ctx is canceled
		_ = s.syncer.Run(ctx, interval)
	}()

	s.logger.Info().Dur("interval", interval).Msg("Auto sync started")
	return nil
}

// AutoSyncOff stops background syncing and waits for a running pass to end.
func (s *Service) AutoSyncOff() error {
	s.mu.Lock()
	cancel, done := s.syncCancel, s.syncDone
	s.syncCancel, s.syncDone = nil, nil
	s.mu.Unlock()

	if cancel == nil {
		return nil
	}
	cancel()
	<-done
	return nil
}
