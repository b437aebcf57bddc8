// Package bus implements a filesystem-backed message queue between a
// supervisor instance and its worker instances, one inbox/outbox/processed
// directory triad per instance under <repo>/.cgwt/messages.
package bus

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/google/uuid"

	"github.com/alexisbeaulieu97/cgwt/internal/domain"
	cerrors "github.com/alexisbeaulieu97/cgwt/internal/errors"
	"github.com/alexisbeaulieu97/cgwt/internal/logging"
	"github.com/alexisbeaulieu97/cgwt/internal/ports"
)

// MessagesDirName is the directory under the repo root holding the bus's
// per-instance inbox/outbox/processed trees.
const MessagesDirName = ".cgwt/messages"

// DefaultPollMillis is the fallback poll period used when no fsnotify watch
// could be established and the caller did not request a specific period.
const DefaultPollMillis = 2000

// DefaultRetention is how long a processed message is kept before Cleanup
// removes it.
const DefaultRetention = 24 * time.Hour

// Compile-time check that Bus implements ports.MessageBus.
var _ ports.MessageBus = (*Bus)(nil)

// Bus is a filesystem-backed message queue bound to one instance.
type Bus struct {
	InstanceID string
	Root       string // <repo>/.cgwt/messages
	Retention  time.Duration
	Logger     *logging.Logger

	mu     sync.Mutex
	cancel context.CancelFunc
}

// New creates a Bus rooted at <repoRoot>/.cgwt/messages, bound to instanceID.
func New(repoRoot, instanceID string, logger *logging.Logger) *Bus {
	return &Bus{
		InstanceID: instanceID,
		Root:       filepath.Join(repoRoot, MessagesDirName),
		Retention:  DefaultRetention,
		Logger:     logger,
	}
}

func (b *Bus) inboxDir() string     { return filepath.Join(b.Root, b.InstanceID, "inbox") }
func (b *Bus) outboxDir() string    { return filepath.Join(b.Root, b.InstanceID, "outbox") }
func (b *Bus) processedDir() string { return filepath.Join(b.Root, b.InstanceID, "processed") }

// ensureDirs creates the instance's inbox/outbox/processed directories if
// they do not already exist.
func (b *Bus) ensureDirs() error {
	for _, dir := range []string{b.inboxDir(), b.outboxDir(), b.processedDir()} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return cerrors.NewBusError("ensure-dirs", err)
		}
	}

	return nil
}

// Send enqueues a message to target in this instance's outbox. The Router
// is responsible for moving it into the recipients' inboxes.
func (b *Bus) Send(ctx context.Context, target domain.MessageTarget, kind domain.MessageKind, content string, metadata map[string]string) error {
	if err := b.ensureDirs(); err != nil {
		return err
	}

	now := time.Now()
	suffix := strings.ReplaceAll(uuid.NewString(), "-", "")[:9]

	msg := domain.Message{
		ID:        now.UTC().Format("2006-01-02T15:04:05.000000000Z07:00") + "-" + suffix,
		From:      b.InstanceID,
		Broadcast: target.Broadcast,
		To:        target.Instances,
		Kind:      kind,
		Content:   content,
		Timestamp: now,
		Metadata:  metadata,
	}

	payload, err := json.Marshal(msg)
	if err != nil {
		return cerrors.NewBusError("marshal", err)
	}

	fileName := fmt.Sprintf("%s-%s.json", now.UTC().Format("20060102T150405.000000000"), suffix)
	finalPath := filepath.Join(b.outboxDir(), fileName)
	tmpPath := finalPath + ".tmp"

	if err := os.WriteFile(tmpPath, payload, 0o644); err != nil { //nolint:gosec // messages are plain-text task notes, not secrets
		return cerrors.NewBusError("write", err)
	}

	if err := os.Rename(tmpPath, finalPath); err != nil {
		_ = os.Remove(tmpPath)
		return cerrors.NewBusError("rename", err)
	}

	return nil
}

// Pending returns every inbox message addressed to this instance, in
// filename (chronological) order, moving each one to processed/ as it is
// read.
func (b *Bus) Pending(ctx context.Context) ([]domain.Message, error) {
	if err := b.ensureDirs(); err != nil {
		return nil, err
	}

	entries, err := os.ReadDir(b.inboxDir())
	if err != nil {
		return nil, cerrors.NewBusError("read-inbox", err)
	}

	names := make([]string, 0, len(entries))

	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".json") {
			continue
		}

		names = append(names, entry.Name())
	}

	sort.Strings(names)

	messages := make([]domain.Message, 0, len(names))

	for _, name := range names {
		path := filepath.Join(b.inboxDir(), name)

		data, err := os.ReadFile(path)
		if err != nil {
			if b.Logger != nil {
				b.Logger.Warn("failed to read bus message", "path", path, "err", err)
			}

			continue
		}

		var msg domain.Message
		if err := json.Unmarshal(data, &msg); err != nil {
			if b.Logger != nil {
				b.Logger.Warn("failed to decode bus message", "path", path, "err", err)
			}

			continue
		}

		if !msg.AddressedTo(b.InstanceID) {
			continue
		}

		messages = append(messages, msg)

		dest := filepath.Join(b.processedDir(), name)
		if err := os.Rename(path, dest); err != nil && b.Logger != nil {
			b.Logger.Warn("failed to archive bus message", "path", path, "err", err)
		}
	}

	return messages, nil
}

// StartWatching begins delivering BusEvents for new inbox messages. It
// prefers an fsnotify watch on inbox/; if that cannot be established it
// falls back to a ticker poll at periodMs (DefaultPollMillis if <= 0).
func (b *Bus) StartWatching(ctx context.Context, periodMs int) (<-chan ports.BusEvent, error) {
	if err := b.ensureDirs(); err != nil {
		return nil, err
	}

	if periodMs <= 0 {
		periodMs = DefaultPollMillis
	}

	watchCtx, cancel := context.WithCancel(ctx)

	b.mu.Lock()
	b.cancel = cancel
	b.mu.Unlock()

	events := make(chan ports.BusEvent, 16)

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		if b.Logger != nil {
			b.Logger.Warn("fsnotify unavailable, falling back to poll", "err", err)
		}

		go b.pollLoop(watchCtx, events, time.Duration(periodMs)*time.Millisecond)

		return events, nil
	}

	if err := watcher.Add(b.inboxDir()); err != nil {
		_ = watcher.Close()

		if b.Logger != nil {
			b.Logger.Warn("fsnotify watch failed, falling back to poll", "err", err)
		}

		go b.pollLoop(watchCtx, events, time.Duration(periodMs)*time.Millisecond)

		return events, nil
	}

	go b.watchLoop(watchCtx, watcher, events)

	return events, nil
}

// StopWatching stops a prior StartWatching call. It is a no-op if no watch
// is active.
func (b *Bus) StopWatching() {
	b.mu.Lock()
	cancel := b.cancel
	b.cancel = nil
	b.mu.Unlock()

	if cancel != nil {
		cancel()
	}
}

func (b *Bus) watchLoop(ctx context.Context, watcher *fsnotify.Watcher, events chan<- ports.BusEvent) {
	defer watcher.Close()
	defer close(events)

	for {
		select {
		case <-ctx.Done():
			return
		case evt, ok := <-watcher.Events:
			if !ok {
				return
			}

			if evt.Op&(fsnotify.Create|fsnotify.Rename) == 0 {
				continue
			}

			b.emitForNewFile(evt.Name, events)
		case err, ok := <-watcher.Errors:
			if !ok {
				return
			}

			if b.Logger != nil {
				b.Logger.Warn("fsnotify watch error", "err", err)
			}
		}
	}
}

func (b *Bus) pollLoop(ctx context.Context, events chan<- ports.BusEvent, period time.Duration) {
	defer close(events)

	ticker := time.NewTicker(period)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			messages, err := b.Pending(ctx)
			if err != nil {
				if b.Logger != nil {
					b.Logger.Warn("poll of inbox failed", "err", err)
				}

				continue
			}

			for _, msg := range messages {
				emit(events, msg)
			}
		}
	}
}

// emitForNewFile reads and decodes a freshly-created inbox entry and emits
// events for it without consuming it — consumption happens via Pending.
func (b *Bus) emitForNewFile(path string, events chan<- ports.BusEvent) {
	if !strings.HasSuffix(path, ".json") {
		return
	}

	data, err := os.ReadFile(path)
	if err != nil {
		// File may have already been renamed away by a concurrent Pending
		// call; this is expected and not worth logging.
		return
	}

	var msg domain.Message
	if err := json.Unmarshal(data, &msg); err != nil {
		if b.Logger != nil {
			b.Logger.Warn("failed to decode watched bus message", "path", path, "err", err)
		}

		return
	}

	if !msg.AddressedTo(b.InstanceID) {
		return
	}

	emit(events, msg)
}

func emit(events chan<- ports.BusEvent, msg domain.Message) {
	events <- ports.BusEvent{Kind: ports.BusEventMessage, Message: msg}
	events <- ports.BusEvent{Kind: ports.BusEventKindTag, Message: msg}
}

// Cleanup removes processed/ entries older than the retention window.
func (b *Bus) Cleanup(ctx context.Context) error {
	retention := b.Retention
	if retention <= 0 {
		retention = DefaultRetention
	}

	entries, err := os.ReadDir(b.processedDir())
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}

		return cerrors.NewBusError("read-processed", err)
	}

	cutoff := time.Now().Add(-retention)

	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}

		info, err := entry.Info()
		if err != nil {
			continue
		}

		if info.ModTime().Before(cutoff) {
			path := filepath.Join(b.processedDir(), entry.Name())
			if err := os.Remove(path); err != nil && b.Logger != nil {
				b.Logger.Warn("failed to remove expired processed message", "path", path, "err", err)
			}
		}
	}

	return nil
}
