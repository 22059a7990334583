package authlink

import (
	"errors"
	"io"
	"net/url"
	"os"
	"strings"
	"time"
)

// DeploymentMode selects the delivery channel used by Notify.
type DeploymentMode uint8

const (
	// ModeDiagnostic writes the verification link and full authentication
	// context to a local writer. No external I/O; intended for development
	// and interactive debugging.
	ModeDiagnostic DeploymentMode = iota
	// ModeProduction delivers the verification link through the configured
	// Transport with a per-call correlation identifier.
	ModeProduction
)

func (m DeploymentMode) String() string {
	switch m {
	case ModeDiagnostic:
		return "diagnostic"
	case ModeProduction:
		return "production"
	default:
		return "unknown"
	}
}

// Config defines the engine configuration. Instances are intended to be
// populated during initialization and then treated as immutable.
type Config struct {
	// Issuer is the base URL verification links are built against.
	Issuer string

	Mode DeploymentMode

	Challenge ChallengeConfig
	Notify    NotifyConfig
	Audit     AuditConfig
	Metrics   MetricsConfig
}

/*
====================================
CHALLENGE CONFIG
====================================
*/

// ChallengeConfig controls the ephemeral challenge store.
type ChallengeConfig struct {
	// RedisPrefix namespaces challenge keys.
	RedisPrefix string
	// TTL bounds the lifetime of a stored challenge. Expired ids behave as
	// never-set on read.
	TTL time.Duration
}

/*
====================================
NOTIFY CONFIG
====================================
*/

// NotifyConfig controls outbound verification messages.
type NotifyConfig struct {
	// From is the sender address for production deliveries.
	From string
	// SubjectLine is the message subject for production deliveries.
	SubjectLine string
	// DiagnosticWriter receives the link and context in ModeDiagnostic.
	// Defaults to os.Stderr.
	DiagnosticWriter io.Writer
}

/*
====================================
AUDIT CONFIG
====================================
*/

// AuditConfig controls the async audit dispatcher.
type AuditConfig struct {
	Enabled    bool
	BufferSize int
	DropIfFull bool
}

/*
====================================
METRICS CONFIG
====================================
*/

// MetricsConfig controls the in-process counters.
type MetricsConfig struct {
	Enabled bool
}

// DefaultConfig returns the baseline configuration: diagnostic mode,
// 20 minute challenge TTL, audit and metrics enabled.
func DefaultConfig() Config {
	return Config{
		Issuer: "http://localhost:3000",
		Mode:   ModeDiagnostic,
		Challenge: ChallengeConfig{
			RedisPrefix: "alc",
			TTL:         20 * time.Minute,
		},
		Notify: NotifyConfig{
			From:             "no-reply@localhost",
			SubjectLine:      "Verify your email address",
			DiagnosticWriter: os.Stderr,
		},
		Audit: AuditConfig{
			Enabled:    true,
			BufferSize: 256,
			DropIfFull: true,
		},
		Metrics: MetricsConfig{
			Enabled: true,
		},
	}
}

// Validate reports the first configuration problem found, or nil.
func (c Config) Validate() error {
	issuer := strings.TrimSpace(c.Issuer)
	if issuer == "" {
		return errors.New("Issuer is required")
	}
	u, err := url.Parse(issuer)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return errors.New("Issuer must be an absolute URL")
	}
	if strings.HasSuffix(u.Path, "/") {
		return errors.New("Issuer must not end with a slash")
	}

	switch c.Mode {
	case ModeDiagnostic, ModeProduction:
	default:
		return errors.New("Mode must be ModeDiagnostic or ModeProduction")
	}

	if c.Challenge.RedisPrefix == "" {
		return errors.New("Challenge.RedisPrefix is required")
	}
	if strings.ContainsAny(c.Challenge.RedisPrefix, ": ") {
		return errors.New("Challenge.RedisPrefix must not contain ':' or spaces")
	}
	if c.Challenge.TTL <= 0 {
		return errors.New("Challenge.TTL must be positive")
	}

	if c.Mode == ModeProduction {
		if strings.TrimSpace(c.Notify.From) == "" {
			return errors.New("Notify.From is required in production mode")
		}
		if strings.TrimSpace(c.Notify.SubjectLine) == "" {
			return errors.New("Notify.SubjectLine is required in production mode")
		}
	}

	if c.Audit.Enabled && c.Audit.BufferSize < 0 {
		return errors.New("Audit.BufferSize must not be negative")
	}

	return nil
}
