package session

import (
	"context"
	"time"

	otellogger "github.com/octabyte/salon-gommon/otel/logger"
	"github.com/octabyte/salon-gommon/utils"
	"go.uber.org/zap"
)

// startLoopLocked (re)starts the expiry watcher. Caller holds writeMu.
func (s *Store) startLoopLocked() {
	s.stopLoopLocked()
	if s.closed {
		return
	}

	ctx, cancel := context.WithCancel(context.Background())
	s.loopCancel = cancel

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		s.refreshLoop(ctx)
	}()
}

// stopLoopLocked cancels the watcher without waiting for it, so it is safe
// to call from the loop itself. Caller holds writeMu.
func (s *Store) stopLoopLocked() {
	if s.loopCancel != nil {
		s.loopCancel()
		s.loopCancel = nil
	}
}

func (s *Store) refreshLoop(ctx context.Context) {
	ticker := time.NewTicker(s.cfg.RefreshInterval)
	defer ticker.Stop()

	s.checkExpiry(ctx)
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.checkExpiry(ctx)
		}
	}
}

// checkExpiry refreshes a token that is about to expire and logs out when the
// token cannot be decoded.
func (s *Store) checkExpiry(ctx context.Context) {
	if ctx.Err() != nil {
		return
	}

	s.mu.RLock()
	token := s.session.AccessToken
	authenticated := s.state == StateAuthenticated
	gen := s.generation
	s.mu.RUnlock()

	if !authenticated {
		return
	}

	claims, err := utils.ParseTokenClaims(token)
	if err != nil {
		otellogger.WarnCtx(ctx, "cannot decode access token, logging out", zap.Error(err))
		s.logoutIf(ctx, gen)
		return
	}

	remaining := time.Duration(utils.SecondsUntil(claims.ExpiresAt.Unix(), s.cfg.Now())) * time.Second
	if remaining >= s.cfg.NearExpiry {
		return
	}

	otellogger.InfoCtx(ctx, "access token near expiry, refreshing", zap.Duration("remaining", remaining))
	s.RefreshAccessToken(ctx)
}
