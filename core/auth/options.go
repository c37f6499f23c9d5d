package auth

import (
	"golang.org/x/crypto/bcrypt"

	"github.com/kochabx/authkit/core/auth/session"
	"github.com/kochabx/authkit/log"
)

// Option configures a Service.
type Option func(*options)

type options struct {
	keys             session.Keyspace
	logger           *log.Logger
	metrics          *Metrics
	auditor          Auditor
	bcryptCost       int
	openRegistration bool
}

func defaultOptions() *options {
	return &options{
		logger:     log.G,
		auditor:    NopAuditor{},
		bcryptCost: bcrypt.DefaultCost,
	}
}

// WithKeyspace prefixes every store key.
func WithKeyspace(keys session.Keyspace) Option {
	return func(o *options) {
		o.keys = keys
	}
}

// WithLogger sets the service logger. Defaults to log.G.
func WithLogger(logger *log.Logger) Option {
	return func(o *options) {
		if logger != nil {
			o.logger = logger
		}
	}
}

// WithMetrics records operation counts and latency.
func WithMetrics(m *Metrics) Option {
	return func(o *options) {
		o.metrics = m
	}
}

// WithAuditor publishes audit events.
func WithAuditor(a Auditor) Option {
	return func(o *options) {
		if a != nil {
			o.auditor = a
		}
	}
}

// WithBcryptCost sets the bcrypt cost for new password hashes.
func WithBcryptCost(cost int) Option {
	return func(o *options) {
		o.bcryptCost = cost
	}
}

// WithOpenRegistration allows anonymous sign-up through Register.
func WithOpenRegistration(enabled bool) Option {
	return func(o *options) {
		o.openRegistration = enabled
	}
}
