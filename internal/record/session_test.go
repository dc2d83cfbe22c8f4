package record_test

import (
	"errors"
	"testing"

	"github.com/joydddd/cutlass/internal/graph"
	"github.com/joydddd/cutlass/internal/record"
)

func TestDisabledSessionNeverActivates(t *testing.T) {
	sess := record.NewSession(false)
	sess.Enter()
	if graph.Current() != nil {
		t.Error("a disabled session must not activate its context")
	}
	if err := sess.Exit(); err != nil {
		t.Errorf("Exit on a disabled session: %v", err)
	}
}

func TestEnabledSessionActivatesContext(t *testing.T) {
	sess := record.NewSession(true)
	sess.Enter()
	if graph.Current() != sess.Context() {
		t.Error("Enter should make the session's context current")
	}
	if err := sess.Exit(); err != nil {
		t.Fatalf("Exit: %v", err)
	}
	if graph.Current() != nil {
		t.Error("Exit should deactivate the context")
	}
}

func TestRunBalancesEnterExit(t *testing.T) {
	sess := record.NewSession(true)
	err := sess.Run(func() error {
		if graph.Current() != sess.Context() {
			t.Error("fn should run with the context active")
		}
		return nil
	})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if graph.Current() != nil {
		t.Error("Run should deactivate the context on return")
	}
}

func TestRunSurfacesFnError(t *testing.T) {
	sess := record.NewSession(true)
	boom := errors.New("boom")
	if err := sess.Run(func() error { return boom }); !errors.Is(err, boom) {
		t.Errorf("Run = %v, want the fn error", err)
	}
	if graph.Current() != nil {
		t.Error("Run should exit the context even when fn fails")
	}
}
