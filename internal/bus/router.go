package bus

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/gofrs/flock"

	cerrors "github.com/alexisbeaulieu97/cgwt/internal/errors"
	"github.com/alexisbeaulieu97/cgwt/internal/logging"
)

// lockFileName is the advisory lock file guarding a messages root's
// outbox-to-inbox rename step, so two router ticks never interleave.
const lockFileName = ".router.lock"

// lockWait bounds how long a single tick waits to acquire the router lock
// before giving up and trying again on the next tick.
const lockWait = 2 * time.Second

// Router delivers messages from every known instance's outbox into the
// inbox of each intended recipient. It is a standalone type: no other cgwt
// package constructs or ticks one, so routing happens only where a caller
// creates a Router with NewRouter and calls Tick with the known instances.
// A Bus with no Router driving it degenerates to a per-instance journal: Send
// still appends to the outbox, but nothing moves those entries onward.
type Router struct {
	Root   string // <repo>/.cgwt/messages
	Logger *logging.Logger
}

// NewRouter creates a Router rooted at the same messages directory as the
// Bus instances it routes between.
func NewRouter(root string, logger *logging.Logger) *Router {
	return &Router{Root: root, Logger: logger}
}

// Tick performs one delivery pass: for every known instance's outbox, it
// resolves each message's recipient set against knownInstances (the
// broadcast sentinel means "every other known instance") and renames the
// message file into each recipient's inbox.
func (r *Router) Tick(ctx context.Context, knownInstances []string) error {
	if err := os.MkdirAll(r.Root, 0o755); err != nil {
		return cerrors.NewBusError("ensure-messages-root", err)
	}

	lock := flock.New(filepath.Join(r.Root, lockFileName))

	lockCtx, cancel := context.WithTimeout(ctx, lockWait)
	defer cancel()

	locked, err := lock.TryLockContext(lockCtx, 50*time.Millisecond)
	if err != nil {
		return cerrors.NewBusError("acquire-router-lock", err)
	}

	if !locked {
		// Another tick is in progress; this one simply skips and waits for
		// the next.
		return nil
	}

	defer lock.Unlock() //nolint:errcheck // best-effort release, file remains for the next tick

	for _, from := range knownInstances {
		if err := r.routeOutbox(from, knownInstances); err != nil {
			if r.Logger != nil {
				r.Logger.Warn("failed to route outbox", "instance", from, "err", err)
			}
		}
	}

	return nil
}

func (r *Router) routeOutbox(from string, knownInstances []string) error {
	outbox := filepath.Join(r.Root, from, "outbox")

	entries, err := os.ReadDir(outbox)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}

		return cerrors.NewBusError("read-outbox", err)
	}

	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".json") {
			continue
		}

		recipients := r.recipientsFor(from, entry.Name(), knownInstances)
		srcPath := filepath.Join(outbox, entry.Name())

		if err := r.deliverTo(srcPath, entry.Name(), recipients); err != nil {
			if r.Logger != nil {
				r.Logger.Warn("failed to deliver message", "message", entry.Name(), "err", err)
			}
		}
	}

	return nil
}

// recipientsFor reads the message file's addressing field without fully
// decoding the payload; it relies on the on-disk JSON having a "to" field
// matching domain.Message's encoding: either the literal string "broadcast"
// or a list of instance ids.
func (r *Router) recipientsFor(from, fileName string, knownInstances []string) []string {
	data, err := os.ReadFile(filepath.Join(r.Root, from, "outbox", fileName))
	if err != nil {
		return nil
	}

	var envelope struct {
		To json.RawMessage `json:"to"`
	}

	if err := json.Unmarshal(data, &envelope); err != nil {
		return nil
	}

	var broadcast string
	if err := json.Unmarshal(envelope.To, &broadcast); err == nil {
		if broadcast != "broadcast" {
			return nil
		}

		recipients := make([]string, 0, len(knownInstances))

		for _, id := range knownInstances {
			if id != from {
				recipients = append(recipients, id)
			}
		}

		return recipients
	}

	var to []string
	if err := json.Unmarshal(envelope.To, &to); err != nil {
		return nil
	}

	return to
}

// deliverTo renames the outbox file into each recipient's inbox. The same
// file cannot be renamed to more than one destination, so every recipient
// but the last receives a copy and the last takes the rename; with a single
// recipient (the common case) this is a pure rename.
func (r *Router) deliverTo(srcPath, fileName string, recipients []string) error {
	if len(recipients) == 0 {
		// No known recipient yet (e.g. a worker session still starting up);
		// leave the message in the outbox for the next tick.
		return nil
	}

	for i, recipient := range recipients {
		inbox := filepath.Join(r.Root, recipient, "inbox")
		if err := os.MkdirAll(inbox, 0o755); err != nil {
			return cerrors.NewBusError("ensure-inbox", err)
		}

		dest := filepath.Join(inbox, fileName)

		if i == len(recipients)-1 {
			return os.Rename(srcPath, dest)
		}

		if err := copyFile(srcPath, dest); err != nil {
			return err
		}
	}

	return nil
}

func copyFile(src, dest string) error {
	data, err := os.ReadFile(src)
	if err != nil {
		return err
	}

	tmp := dest + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil { //nolint:gosec // messages are plain-text task notes, not secrets
		return err
	}

	return os.Rename(tmp, dest)
}
