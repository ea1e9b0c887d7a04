// Package session owns the dashboard's authentication state: the token pair,
// the signed-in user, their durable mirror and the refresh loop.
package session

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/octabyte/salon-gommon/enums"
	"github.com/octabyte/salon-gommon/models"
	otellogger "github.com/octabyte/salon-gommon/otel/logger"
	"github.com/octabyte/salon-gommon/otel/metrics"
	"github.com/octabyte/salon-gommon/storage"
	"github.com/octabyte/salon-gommon/utils"
	"go.uber.org/zap"
)

const (
	DefaultRefreshInterval = 5 * time.Minute
	DefaultNearExpiry      = 300 * time.Second
)

var ErrNotAuthenticated = errors.New("session: not authenticated")

// Refresher calls the backend refresh endpoint.
type Refresher interface {
	Refresh(ctx context.Context, refreshToken string, userID int64) (*models.Session, error)
}

type Config struct {
	RefreshInterval time.Duration
	NearExpiry      time.Duration
	// Now is the clock used for expiry checks.
	Now func() time.Time
}

type Store struct {
	storage   storage.Storage
	refresher Refresher
	cfg       Config
	validate  *validator.Validate

	// writeMu serialises every mutation together with its persistence so
	// storage always mirrors the last applied state. mu guards the fields.
	writeMu sync.Mutex
	mu      sync.RWMutex
	state   State
	session models.Session
	// generation changes on login and logout; work started under an older
	// generation must not touch the current session.
	generation uint64

	refreshMu sync.Mutex

	initOnce   sync.Once
	ready      chan struct{}
	loopCancel context.CancelFunc
	closed     bool
	wg         sync.WaitGroup
}

func NewStore(store storage.Storage, refresher Refresher, cfg Config) *Store {
	if cfg.RefreshInterval <= 0 {
		cfg.RefreshInterval = DefaultRefreshInterval
	}
	if cfg.NearExpiry <= 0 {
		cfg.NearExpiry = DefaultNearExpiry
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}

	return &Store{
		storage:   store,
		refresher: refresher,
		cfg:       cfg,
		validate:  validator.New(validator.WithRequiredStructEnabled()),
		state:     StateUninitialized,
		ready:     make(chan struct{}),
	}
}

// Init starts restoring the persisted session in the background. Only the
// first call has an effect.
func (s *Store) Init(ctx context.Context) {
	s.initOnce.Do(func() {
		s.mu.Lock()
		if s.state == StateUninitialized {
			s.state = StateRestoring
		}
		gen := s.generation
		s.mu.Unlock()

		s.wg.Add(1)
		go func() {
			defer s.wg.Done()
			defer close(s.ready)
			s.restore(context.WithoutCancel(ctx), gen)
		}()
	})
}

// Ready is closed once restoring has finished.
func (s *Store) Ready() <-chan struct{} {
	return s.ready
}

// IsLoading is true until the persisted session has been restored. An
// anonymous state is not final while it is true.
func (s *Store) IsLoading() bool {
	select {
	case <-s.ready:
		return false
	default:
		return true
	}
}

func (s *Store) Wait(ctx context.Context) error {
	select {
	case <-s.ready:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Guard waits for restoring to finish and reports whether a protected
// screen may be shown.
func (s *Store) Guard(ctx context.Context) error {
	if err := s.Wait(ctx); err != nil {
		return err
	}
	if !s.IsAuthenticated() {
		return ErrNotAuthenticated
	}
	return nil
}

func (s *Store) restore(ctx context.Context, gen uint64) {
	restored, ok, err := s.load(ctx)

	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	if s.currentGeneration() != gen {
		// A login or logout won the race; its state stands.
		return
	}

	if err != nil {
		otellogger.WarnCtx(ctx, "persisted session is corrupt, purging", zap.Error(err))
		s.purge(ctx)
		s.setAnonymous()
		return
	}
	if !ok {
		s.setAnonymous()
		return
	}

	s.mu.Lock()
	s.session = restored
	s.state = StateAuthenticated
	s.mu.Unlock()

	otellogger.InfoCtx(ctx, "session restored", zap.Int64("user_id", restored.User.ID))
	s.startLoopLocked()
}

// load reads the three keys. ok is false when no session was persisted.
func (s *Store) load(ctx context.Context) (models.Session, bool, error) {
	var restored models.Session

	accessToken, err := s.get(ctx, enums.StorageKeyAccessToken)
	if err != nil {
		return restored, false, err
	}
	refreshToken, err := s.get(ctx, enums.StorageKeyRefreshToken)
	if err != nil {
		return restored, false, err
	}
	rawUser, err := s.get(ctx, enums.StorageKeyUser)
	if err != nil {
		return restored, false, err
	}

	if accessToken == "" || rawUser == "" {
		return restored, false, nil
	}

	var user models.User
	if err := utils.BytesToStruct([]byte(rawUser), &user); err != nil {
		return restored, false, fmt.Errorf("decode user: %w", err)
	}
	if err := s.validate.Struct(user); err != nil {
		return restored, false, fmt.Errorf("invalid user: %w", err)
	}

	restored = models.Session{AccessToken: accessToken, RefreshToken: refreshToken, User: user}
	return restored, true, nil
}

// get maps ErrNotFound to "".
func (s *Store) get(ctx context.Context, key string) (string, error) {
	value, err := s.storage.Get(ctx, key)
	if errors.Is(err, storage.ErrNotFound) {
		return "", nil
	}
	return value, err
}

// Login adopts sess and persists it. Persistence failures are logged; the
// in-memory session is adopted regardless.
func (s *Store) Login(ctx context.Context, sess models.Session) error {
	if err := s.validate.Struct(sess); err != nil {
		return fmt.Errorf("session: invalid login data: %w", err)
	}

	rawUser, err := utils.StructToBytes(sess.User)
	if err != nil {
		return fmt.Errorf("session: encode user: %w", err)
	}

	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	for _, kv := range [][2]string{
		{enums.StorageKeyAccessToken, sess.AccessToken},
		{enums.StorageKeyRefreshToken, sess.RefreshToken},
		{enums.StorageKeyUser, string(rawUser)},
	} {
		if err := s.storage.Set(ctx, kv[0], kv[1]); err != nil {
			otellogger.ErrorCtx(ctx, "failed to persist session", err, zap.String("key", kv[0]))
		}
	}

	s.mu.Lock()
	s.session = sess
	s.state = StateAuthenticated
	s.generation++
	s.mu.Unlock()

	otellogger.InfoCtx(ctx, "logged in", zap.Int64("user_id", sess.User.ID))
	s.startLoopLocked()
	return nil
}

// Logout clears memory and storage. It is a no-op when not authenticated.
func (s *Store) Logout(ctx context.Context) {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()
	s.logoutLocked(ctx)
}

func (s *Store) logoutLocked(ctx context.Context) {
	s.mu.Lock()
	if s.state != StateAuthenticated {
		s.mu.Unlock()
		return
	}
	userID := s.session.User.ID
	s.session = models.Session{}
	s.state = StateAnonymous
	s.generation++
	s.mu.Unlock()

	// ctx may belong to the refresh loop, which stopLoopLocked cancels.
	s.purge(context.WithoutCancel(ctx))
	s.stopLoopLocked()
	otellogger.InfoCtx(ctx, "logged out", zap.Int64("user_id", userID))
}

// logoutIf logs out only if no login/logout happened since gen was read.
func (s *Store) logoutIf(ctx context.Context, gen uint64) {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()
	if s.currentGeneration() == gen {
		s.logoutLocked(ctx)
	}
}

func (s *Store) purge(ctx context.Context) {
	err := s.storage.Delete(ctx, enums.StorageKeyAccessToken, enums.StorageKeyRefreshToken, enums.StorageKeyUser)
	if err != nil {
		otellogger.ErrorCtx(ctx, "failed to purge persisted session", err)
	}
}

func (s *Store) setAnonymous() {
	s.mu.Lock()
	s.session = models.Session{}
	s.state = StateAnonymous
	s.mu.Unlock()
}

// RefreshAccessToken exchanges the refresh token for a new pair. It returns
// false without side effects when there is nothing to refresh with, and
// logs out on any failure.
func (s *Store) RefreshAccessToken(ctx context.Context) bool {
	return s.refresh(ctx, s.AccessToken())
}

// RefreshRejected is RefreshAccessToken for a caller whose request carrying
// rejected was refused. When the session already holds a different access
// token it reports success without another rotation.
func (s *Store) RefreshRejected(ctx context.Context, rejected string) bool {
	return s.refresh(ctx, rejected)
}

// refresh rotates the token pair unless the access token no longer equals
// observed, in which case someone else already did.
func (s *Store) refresh(ctx context.Context, observed string) bool {
	s.refreshMu.Lock()
	defer s.refreshMu.Unlock()

	s.mu.RLock()
	current := s.session
	authenticated := s.state == StateAuthenticated
	gen := s.generation
	s.mu.RUnlock()

	if current.RefreshToken == "" || current.User.ID == 0 {
		otellogger.DebugCtx(ctx, "no refresh token or user id, skipping refresh")
		metrics.RecordTokenRefresh(ctx, "skipped")
		return false
	}
	if authenticated && observed != "" && current.AccessToken != observed {
		metrics.RecordTokenRefresh(ctx, "coalesced")
		return true
	}

	next, err := s.refresher.Refresh(ctx, current.RefreshToken, current.User.ID)
	if err == nil {
		_, err = utils.ParseTokenClaims(next.AccessToken)
	}
	if err != nil {
		otellogger.ErrorCtx(ctx, "token refresh failed, logging out", err, zap.Int64("user_id", current.User.ID))
		metrics.RecordTokenRefresh(ctx, "failed")
		s.logoutIf(ctx, gen)
		return false
	}

	refreshToken := next.RefreshToken
	if refreshToken == "" {
		refreshToken = current.RefreshToken
	}

	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	if s.currentGeneration() != gen {
		otellogger.InfoCtx(ctx, "discarding refresh result for a session that has ended")
		metrics.RecordTokenRefresh(ctx, "discarded")
		return false
	}

	if err := s.storage.Set(ctx, enums.StorageKeyAccessToken, next.AccessToken); err != nil {
		otellogger.ErrorCtx(ctx, "failed to persist access token", err)
	}
	if err := s.storage.Set(ctx, enums.StorageKeyRefreshToken, refreshToken); err != nil {
		otellogger.ErrorCtx(ctx, "failed to persist refresh token", err)
	}

	s.mu.Lock()
	s.session.AccessToken = next.AccessToken
	s.session.RefreshToken = refreshToken
	s.mu.Unlock()

	otellogger.InfoCtx(ctx, "access token refreshed", zap.Int64("user_id", current.User.ID))
	metrics.RecordTokenRefresh(ctx, "success")
	return true
}

// Close stops the refresh loop and waits for background work to finish.
// The session itself is left as is.
func (s *Store) Close() {
	s.writeMu.Lock()
	s.closed = true
	s.stopLoopLocked()
	s.writeMu.Unlock()

	s.wg.Wait()
}

func (s *Store) currentGeneration() uint64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.generation
}

func (s *Store) State() State {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state
}

func (s *Store) IsAuthenticated() bool {
	return s.State() == StateAuthenticated
}

func (s *Store) AccessToken() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.session.AccessToken
}

func (s *Store) RefreshToken() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.session.RefreshToken
}

// User returns the signed-in user, ok is false when anonymous.
func (s *Store) User() (models.User, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.session.User, s.state == StateAuthenticated
}

func (s *Store) Snapshot() (models.Session, State) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.session, s.state
}
