package authlink

import (
	"errors"
	"net/url"
	"os"

	"github.com/redis/go-redis/v9"

	internalaudit "github.com/ebbhq/authlink/internal/audit"
)

// Builder wires the engine's explicit dependencies. There is no ambient
// fallback: redis and a directory are always required, and production mode
// additionally requires a transport. A Builder is single-use.
type Builder struct {
	config    Config
	redis     *redis.Client
	directory Directory
	transport Transport
	auditSink AuditSink

	built bool
}

// New returns a Builder primed with [DefaultConfig].
func New() *Builder {
	return &Builder{
		config: DefaultConfig(),
	}
}

// WithConfig replaces the builder's configuration.
func (b *Builder) WithConfig(cfg Config) *Builder {
	b.config = cfg
	return b
}

// WithRedis sets the redis client backing the challenge store.
func (b *Builder) WithRedis(client *redis.Client) *Builder {
	b.redis = client
	return b
}

// WithDirectory sets the user directory consulted by Resolve and Notify.
func (b *Builder) WithDirectory(dir Directory) *Builder {
	b.directory = dir
	return b
}

// WithTransport sets the outbound delivery channel used in production mode.
func (b *Builder) WithTransport(t Transport) *Builder {
	b.transport = t
	return b
}

// WithAuditSink sets the sink receiving audit events.
func (b *Builder) WithAuditSink(sink AuditSink) *Builder {
	b.auditSink = sink
	return b
}

// WithMetricsEnabled toggles the in-process counters.
func (b *Builder) WithMetricsEnabled(enabled bool) *Builder {
	b.config.Metrics.Enabled = enabled
	return b
}

// Build validates the configuration and dependencies and assembles the
// Engine.
func (b *Builder) Build() (*Engine, error) {
	if b.built {
		return nil, errors.New("builder already used")
	}

	cfg := b.config

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if b.redis == nil {
		return nil, errors.New("redis client required")
	}
	if b.directory == nil {
		return nil, errors.New("directory required")
	}
	if cfg.Mode == ModeProduction && b.transport == nil {
		return nil, errors.New("production mode requires a transport")
	}
	if cfg.Mode == ModeDiagnostic && cfg.Notify.DiagnosticWriter == nil {
		cfg.Notify.DiagnosticWriter = os.Stderr
	}

	issuerURL, err := url.Parse(cfg.Issuer)
	if err != nil {
		return nil, errors.New("Issuer must be an absolute URL")
	}

	engine := &Engine{
		config:     cfg,
		issuerHost: issuerURL.Host,
		directory:  b.directory,
		transport:  b.transport,
	}
	engine.challenges = newChallengeStore(b.redis, cfg.Challenge.RedisPrefix)
	engine.audit = internalaudit.NewDispatcher(internalaudit.Config{
		Enabled:    cfg.Audit.Enabled,
		BufferSize: cfg.Audit.BufferSize,
		DropIfFull: cfg.Audit.DropIfFull,
	}, b.auditSink)
	engine.metrics = NewMetrics(cfg.Metrics)

	b.built = true

	return engine, nil
}
