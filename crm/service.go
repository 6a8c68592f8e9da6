// ABOUTME: CRM service wiring the entity store, integrity checks, and merge rules together
// ABOUTME: Every caller surface (MCP, CLI, TUI, import) goes through this type
package crm

import (
	"database/sql"
	"io"
	"time"

	"github.com/charmbracelet/log"
)

// Service owns no state beyond its injected dependencies.
type Service struct {
	db    *sql.DB
	now   func() time.Time
	newID IDGenerator
	log   *log.Logger
}

type Option func(*Service)

// WithClock overrides the time source used for timestamps.
func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

func WithIDGenerator(gen IDGenerator) Option {
	return func(s *Service) { s.newID = gen }
}

func WithLogger(l *log.Logger) Option {
	return func(s *Service) { s.log = l }
}

func NewService(database *sql.DB, opts ...Option) *Service {
	s := &Service{
		db:    database,
		now:   time.Now,
		newID: UUIDGenerator(),
		log:   log.New(io.Discard),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// DB exposes the underlying handle for read-only helpers such as the graph generator.
func (s *Service) DB() *sql.DB { return s.db }

func (s *Service) timestamp() time.Time {
	return s.now().UTC()
}

// Now is the service clock in UTC.
func (s *Service) Now() time.Time { return s.timestamp() }
