package core

import (
	"context"
	"time"

	"github.com/JonMunkholm/iatacodes/internal/logging"
	"github.com/google/uuid"
)

// DefaultQueryTimeout bounds a single store call when no timeout is configured.
const DefaultQueryTimeout = 10 * time.Second

// Observer is notified after every service operation. The metrics package
// implements it; a nil Observer is allowed.
type Observer interface {
	ObserveOperation(entity, op string, err error)
}

// Service provides the core business logic for the reference datasets.
// It is safe for concurrent use; the only shared state is the store.
type Service struct {
	store        Store
	now          func() time.Time
	queryTimeout time.Duration
	formatter    *Formatter
	observer     Observer
	exports      *ExportLimiter
}

// Option configures a Service.
type Option func(*Service)

// WithClock overrides the time source used for created_at/updated_at and
// export file names.
func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

// WithQueryTimeout bounds every store call. Non-positive values are ignored.
func WithQueryTimeout(d time.Duration) Option {
	return func(s *Service) {
		if d > 0 {
			s.queryTimeout = d
		}
	}
}

// WithFormatter sets the locale used by Export.
func WithFormatter(f *Formatter) Option {
	return func(s *Service) {
		if f != nil {
			s.formatter = f
		}
	}
}

// WithObserver registers an operation observer.
func WithObserver(o Observer) Option {
	return func(s *Service) { s.observer = o }
}

// WithExportLimiter bounds concurrent exports. Without it exports are
// unbounded.
func WithExportLimiter(l *ExportLimiter) Option {
	return func(s *Service) { s.exports = l }
}

// NewService creates a new Service on top of store.
func NewService(store Store, opts ...Option) *Service {
	s := &Service{
		store:        store,
		now:          time.Now,
		queryTimeout: DefaultQueryTimeout,
		formatter:    DefaultFormatter(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Formatter returns the locale used for exports.
func (s *Service) Formatter() *Formatter {
	return s.formatter
}

// DrainExports waits for in-flight exports to finish.
func (s *Service) DrainExports(ctx context.Context) error {
	if s.exports == nil {
		return nil
	}
	return s.exports.WaitForDrain(ctx)
}

// Ping checks the store connection.
func (s *Service) Ping(ctx context.Context) error {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()
	return s.store.Ping(ctx)
}

// timestamp returns the current time in UTC at the precision every store
// keeps, so the value handed back equals the value persisted.
func (s *Service) timestamp() time.Time {
	return s.now().UTC().Truncate(time.Microsecond)
}

// NextUpdatedAt returns the updated_at a store should persist when a row last
// stamped prev is modified at now. The result is always after prev, even when
// the clock has stepped backwards.
func NextUpdatedAt(prev, now time.Time) time.Time {
	if now.After(prev) {
		return now
	}
	return prev.Add(time.Microsecond)
}

func (s *Service) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, s.queryTimeout)
}

func (s *Service) observe(entity, op string, err error) {
	if s.observer != nil {
		s.observer.ObserveOperation(entity, op, err)
	}
}

// audit writes one structured line per successful mutation.
func (s *Service) audit(ctx context.Context, action, entity string, id uuid.UUID) {
	md := RequestMetadataFromContext(ctx)
	logging.WithFields(ctx,
		"action", action,
		"entity", entity,
		"id", id.String(),
		"ip", md.IPAddress,
		"user_agent", md.UserAgent,
	).Info("record " + action)
}

// parseID turns a path identifier into a UUID. A malformed id can never match
// a row, so it is a client error rather than a miss.
func parseID(entity, id string) (uuid.UUID, error) {
	uid, err := uuid.Parse(id)
	if err != nil {
		return uuid.Nil, ValidationError{Field: "id", Value: id, Message: "invalid " + entity + " ID"}
	}
	return uid, nil
}
