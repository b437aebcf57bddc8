//go:build integration

package integration

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/alexisbeaulieu97/cgwt/internal/bus"
	"github.com/alexisbeaulieu97/cgwt/internal/mux"
	"github.com/alexisbeaulieu97/cgwt/internal/orchestrator"
)

// TestScenario_ShutdownIdempotence is spec §8 end-to-end scenario 6: calling
// shutdown twice is safe, and afterwards listSessions reports nothing under
// the cgwt- prefix, driven against a real (fake, recording) tmux binary.
func TestScenario_ShutdownIdempotence(t *testing.T) {
	t.Parallel()

	invocations := filepath.Join(t.TempDir(), "invocations.log")
	withFakeTmuxOnPath(t, fakeTmux(t, invocations))

	repoRoot := t.TempDir()

	driver := mux.New("tmux")
	b := bus.New(repoRoot, "cgwt-myapp-supervisor", nil)

	o := orchestrator.New(driver, nil, b, nil)

	if err := o.Initialize(context.Background(), repoRoot); err != nil {
		t.Fatalf("Initialize() error = %v", err)
	}

	if err := o.Shutdown(context.Background()); err != nil {
		t.Fatalf("first Shutdown() error = %v", err)
	}

	if err := o.Shutdown(context.Background()); err != nil {
		t.Fatalf("second Shutdown() error = %v", err)
	}

	sessions, err := driver.ListSessions(context.Background(), orchestrator.SessionPrefix)
	if err != nil {
		t.Fatalf("ListSessions() error = %v", err)
	}

	if len(sessions) != 0 {
		t.Errorf("ListSessions() returned %d sessions after shutdown, want 0", len(sessions))
	}
}
