// Package mux drives an external terminal multiplexer (tmux by default) as
// the transport for supervisor/worker session panes.
package mux

import (
	"bufio"
	"context"
	"errors"
	"os"
	"os/exec"
	"strconv"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/alexisbeaulieu97/cgwt/internal/domain"
	cerrors "github.com/alexisbeaulieu97/cgwt/internal/errors"
	"github.com/alexisbeaulieu97/cgwt/internal/ports"
)

// DefaultTimeout is the default deadline applied to multiplexer subprocess
// calls that have no caller-supplied deadline.
const DefaultTimeout = 10 * time.Second

// DefaultAssistantMatch is the default substring used to detect a running
// assistant process in a pane's foreground command.
const DefaultAssistantMatch = "claude"

// Compile-time check that Driver implements ports.MultiplexerDriver.
var _ ports.MultiplexerDriver = (*Driver)(nil)

// Driver implements ports.MultiplexerDriver over the tmux CLI.
type Driver struct {
	Bin            string
	DefaultTimeout time.Duration
	AssistantMatch string
}

// New creates a Driver. bin defaults to "tmux" when empty.
func New(bin string) *Driver {
	if bin == "" {
		bin = "tmux"
	}

	return &Driver{
		Bin:            bin,
		DefaultTimeout: DefaultTimeout,
		AssistantMatch: DefaultAssistantMatch,
	}
}

// Available reports whether the configured multiplexer binary is on PATH.
func (d *Driver) Available(ctx context.Context) bool {
	_, err := exec.LookPath(d.Bin)
	return err == nil
}

// InsideMultiplexer reports whether the current process is itself running
// inside a multiplexer session.
func (d *Driver) InsideMultiplexer() bool {
	return os.Getenv("TMUX") != ""
}

// SessionName derives the deterministic session name for a branch.
func (d *Driver) SessionName(project, branch string) string {
	return domain.NewSessionName(project, branch)
}

// CreateDetached starts a new detached session if one by this name does not
// already exist.
func (d *Driver) CreateDetached(ctx context.Context, name, cwd string, command []string) error {
	if d.hasSession(ctx, name) {
		return nil
	}

	args := []string{"new-session", "-d", "-s", name, "-c", cwd}
	if len(command) > 0 {
		args = append(args, command...)
	}

	_, err := d.run(ctx, args...)

	return err
}

// Attach attaches (or switches the client to, if already inside a
// multiplexer) the named session.
func (d *Driver) Attach(ctx context.Context, name string) error {
	if d.InsideMultiplexer() {
		_, err := d.run(ctx, "switch-client", "-t", name)
		return err
	}

	cmd := exec.CommandContext(ctx, d.Bin, "attach-session", "-t", name) //nolint:gosec // multiplexer binary is configured, args are separate parameters
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr

	if err := cmd.Run(); err != nil {
		return cerrors.NewMultiplexerError("attach-session", "", err)
	}

	return nil
}

// Launch creates (if needed) and attaches a session, per opts. For a
// supervisor session with known children, it fans out one split-window call
// per child via errgroup so panes can be opened concurrently.
func (d *Driver) Launch(ctx context.Context, opts ports.LaunchOptions) error {
	if err := d.CreateDetached(ctx, opts.SessionName, opts.WorkingDir, opts.Command); err != nil {
		return err
	}

	if len(opts.ChildSessionNames) > 0 {
		g, gctx := errgroup.WithContext(ctx)

		for _, childName := range opts.ChildSessionNames {
			childName := childName

			g.Go(func() error {
				return d.SplitPane(gctx, ports.SplitOptions{
					SessionName: opts.SessionName,
					WorkingDir:  opts.WorkingDir,
					Command:     []string{d.Bin, "attach-session", "-t", childName},
				})
			})
		}

		if err := g.Wait(); err != nil {
			return err
		}
	}

	return d.Attach(ctx, opts.SessionName)
}

// SplitPane splits a new pane in the named session's active window and runs
// command in it.
func (d *Driver) SplitPane(ctx context.Context, opts ports.SplitOptions) error {
	args := []string{"split-window", "-t", opts.SessionName}
	if opts.Horizontal {
		args = append(args, "-h")
	}

	if opts.Percentage > 0 {
		args = append(args, "-p", strconv.Itoa(opts.Percentage))
	}

	if opts.WorkingDir != "" {
		args = append(args, "-c", opts.WorkingDir)
	}

	if len(opts.Command) > 0 {
		args = append(args, opts.Command...)
	}

	_, err := d.run(ctx, args...)

	return err
}

// ListSessions enumerates all live sessions with the given prefix.
func (d *Driver) ListSessions(ctx context.Context, prefix string) ([]ports.SessionInfo, error) {
	result, err := d.run(ctx, "list-sessions", "-F", "#{session_name}\t#{session_created}\t#{session_attached}\t#{session_windows}")
	if err != nil {
		var cgwtErr *cerrors.CgwtError
		if errors.As(err, &cgwtErr) && cgwtErr.Code == cerrors.ErrMultiplexer {
			// tmux exits non-zero with "no server running" when nothing is
			// up; treat that the same as an empty session list.
			return nil, nil
		}

		return nil, err
	}

	var sessions []ports.SessionInfo

	scanner := bufio.NewScanner(strings.NewReader(result))
	for scanner.Scan() {
		fields := strings.Split(scanner.Text(), "\t")
		if len(fields) != 4 {
			continue
		}

		name := fields[0]
		if prefix != "" && !strings.HasPrefix(name, prefix) {
			continue
		}

		attached := fields[2] != "0"
		windows, _ := strconv.Atoi(fields[3])

		sessions = append(sessions, ports.SessionInfo{
			Name:             name,
			Attached:         attached,
			Windows:          windows,
			AssistantRunning: d.assistantRunning(ctx, name),
		})
	}

	return sessions, nil
}

// assistantRunning checks whether any pane in the named session has a
// foreground process matching AssistantMatch.
func (d *Driver) assistantRunning(ctx context.Context, sessionName string) bool {
	match := d.AssistantMatch
	if match == "" {
		match = DefaultAssistantMatch
	}

	result, err := d.run(ctx, "list-panes", "-t", sessionName, "-F", "#{pane_current_command}")
	if err != nil {
		return false
	}

	scanner := bufio.NewScanner(strings.NewReader(result))
	for scanner.Scan() {
		if strings.Contains(scanner.Text(), match) {
			return true
		}
	}

	return false
}

// ShutdownAll kills every live session whose name has the given prefix.
// Missing sessions are not an error.
func (d *Driver) ShutdownAll(ctx context.Context, prefix string) error {
	sessions, err := d.ListSessions(ctx, prefix)
	if err != nil {
		return err
	}

	for _, s := range sessions {
		if _, err := d.run(ctx, "kill-session", "-t", s.Name); err != nil {
			var cgwtErr *cerrors.CgwtError
			if errors.As(err, &cgwtErr) && cgwtErr.Code == cerrors.ErrMultiplexer {
				continue
			}

			return err
		}
	}

	return nil
}

func (d *Driver) hasSession(ctx context.Context, name string) bool {
	_, err := d.run(ctx, "has-session", "-t", name)
	return err == nil
}

// run executes a multiplexer subcommand, applying DefaultTimeout when ctx
// has no deadline of its own. It mirrors gitx.Engine.RunCommand's TERM-then-
// KILL-after-2s shutdown semantics.
func (d *Driver) run(ctx context.Context, args ...string) (string, error) {
	if _, ok := ctx.Deadline(); !ok {
		timeout := d.DefaultTimeout
		if timeout <= 0 {
			timeout = DefaultTimeout
		}

		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	cmd := exec.CommandContext(ctx, d.Bin, args...) //nolint:gosec // multiplexer binary is configured, args are separate parameters
	cmd.WaitDelay = 2 * time.Second

	var stdout, stderr strings.Builder
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()
	if err != nil {
		if ctx.Err() != nil {
			return "", cerrors.NewTimeout(d.Bin+" "+strings.Join(args, " "), d.DefaultTimeout)
		}

		return "", cerrors.NewMultiplexerError(strings.Join(args, " "), strings.TrimSpace(stderr.String()), err)
	}

	return stdout.String(), nil
}
