// Package provider owns the construction and caching of the application's
// expensive dependencies: the database handle, the AI generator, and the
// publisher. Each dependency is built lazily on first request and then
// reused for the life of the process; a construction failure is cached too,
// so a misconfigured dependency fails fast and consistently instead of being
// rebuilt per request.
//
// Tests and alternate wiring inject substitutes through the With* options,
// which bypass construction entirely.
package provider

import (
	"context"
	"sync"

	"gorm.io/gorm"

	"github.com/arielbeck/go-halakha-backend/internal/adapters/ai"
	"github.com/arielbeck/go-halakha-backend/internal/adapters/publish"
	"github.com/arielbeck/go-halakha-backend/internal/config"
	"github.com/arielbeck/go-halakha-backend/internal/repo"
)

// Provider hands out process-wide dependency singletons.
type Provider struct {
	cfg config.Config

	dbOnce sync.Once
	db     *gorm.DB
	dbErr  error

	genOnce sync.Once
	gen     ai.Generator
	genErr  error

	pubOnce sync.Once
	pub     publish.Publisher
	pubErr  error
}

// Option overrides one dependency, replacing its construction path.
type Option func(*Provider)

// WithDB injects a database handle.
func WithDB(db *gorm.DB) Option {
	return func(p *Provider) {
		p.dbOnce.Do(func() { p.db = db })
	}
}

// WithGenerator injects an AI generator.
func WithGenerator(g ai.Generator) Option {
	return func(p *Provider) {
		p.genOnce.Do(func() { p.gen = g })
	}
}

// WithPublisher injects a publisher.
func WithPublisher(pub publish.Publisher) Option {
	return func(p *Provider) {
		p.pubOnce.Do(func() { p.pub = pub })
	}
}

// New builds a provider for the given configuration. Nothing is constructed
// until the corresponding getter is first called.
func New(cfg config.Config, opts ...Option) *Provider {
	p := &Provider{cfg: cfg}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// DB returns the shared database handle, opening and migrating it on first
// use. Repeated calls return the same handle (or the same error).
func (p *Provider) DB() (*gorm.DB, error) {
	p.dbOnce.Do(func() {
		p.db, p.dbErr = repo.Open(p.cfg.DB, p.cfg.OTEL.Enabled)
		if p.dbErr == nil {
			p.dbErr = repo.AutoMigrate(p.db)
		}
	})
	return p.db, p.dbErr
}

// newGenerator is a construction seam for tests.
var newGenerator = func(ctx context.Context, cfg config.AIConfig) (ai.Generator, error) {
	return ai.NewGemini(ctx, cfg)
}

// Generator returns the shared AI generator. The instance outlives the first
// caller, so construction runs on a context detached from that caller's
// deadline and cancellation; otherwise a short-lived probe context could
// cache a spurious failure for the life of the process.
func (p *Provider) Generator(ctx context.Context) (ai.Generator, error) {
	p.genOnce.Do(func() {
		p.gen, p.genErr = newGenerator(context.WithoutCancel(ctx), p.cfg.AI)
	})
	return p.gen, p.genErr
}

// Publisher returns the shared publisher.
func (p *Provider) Publisher() (publish.Publisher, error) {
	p.pubOnce.Do(func() {
		p.pub, p.pubErr = publish.NewNotion(p.cfg.Publish)
	})
	return p.pub, p.pubErr
}

// Close releases held resources. Only the database holds any; dependencies
// never constructed are not touched.
func (p *Provider) Close() error {
	if p.db == nil {
		return nil
	}
	sqlDB, err := p.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
