// Package record gates trace recording. A Session bundles one trace
// context with one step-definition registry behind a boolean switch: when
// recording is off, Enter and Exit are no-ops, no context ever becomes
// active, and step calls pass straight through to their computation. The
// normal/recording split is an explicit dispatch on the active context —
// implementations are never swapped at runtime.
package record

import (
	"github.com/joydddd/cutlass/internal/graph"
	"github.com/joydddd/cutlass/internal/steps"
)

// Session is one recording session.
type Session struct {
	enabled bool
	ctx     *graph.Context
	reg     *steps.Registry
}

// NewSession creates a session. Context options (such as a logger) apply to
// the session's trace context.
func NewSession(enabled bool, opts ...graph.Option) *Session {
	return &Session{
		enabled: enabled,
		ctx:     graph.NewContext(opts...),
		reg:     steps.NewRegistry(),
	}
}

// Enabled reports whether recording is switched on at all.
func (s *Session) Enabled() bool { return s.enabled }

// Context returns the session's trace context.
func (s *Session) Context() *graph.Context { return s.ctx }

// Registry returns the session's step-definition registry.
func (s *Session) Registry() *steps.Registry { return s.reg }

// Enter activates the session's context. A no-op when recording is off.
func (s *Session) Enter() {
	if s.enabled {
		s.ctx.Enter()
	}
}

// Exit deactivates the session's context. A no-op when recording is off.
func (s *Session) Exit() error {
	if !s.enabled {
		return nil
	}
	return s.ctx.Exit()
}

// Run executes fn between Enter and Exit. The exit error is surfaced only
// when fn itself succeeded.
func (s *Session) Run(fn func() error) error {
	s.Enter()
	err := fn()
	if exitErr := s.Exit(); err == nil {
		err = exitErr
	}
	return err
}
