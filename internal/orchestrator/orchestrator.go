// Package orchestrator drives one supervisor multiplexer session and one
// worker session per workspace branch, reconciling its view of live
// sessions against the multiplexer on every List call.
package orchestrator

import (
	"context"
	"path/filepath"
	"sync"

	"github.com/alexisbeaulieu97/cgwt/internal/domain"
	cerrors "github.com/alexisbeaulieu97/cgwt/internal/errors"
	"github.com/alexisbeaulieu97/cgwt/internal/logging"
	"github.com/alexisbeaulieu97/cgwt/internal/ports"
)

// SessionPrefix is the prefix every cgwt-managed multiplexer session name
// carries, used to scope ListSessions/ShutdownAll calls to this tool's own
// sessions.
const SessionPrefix = "cgwt-"

// Compile-time check that Orchestrator implements ports.SessionAttachmentChecker.
var _ ports.SessionAttachmentChecker = (*Orchestrator)(nil)

// OrchestratorView is the reconciled state returned by List: the supervisor
// plus every known child, each with multiplexer-derived status.
type OrchestratorView struct {
	Supervisor *domain.InstanceRecord
	Children   []domain.InstanceRecord
}

// Orchestrator supervises one project's fleet of multiplexer sessions.
type Orchestrator struct {
	mux    ports.MultiplexerDriver
	wsm    ports.WorkspaceManager
	bus    ports.MessageBus
	logger *logging.Logger

	mu         sync.Mutex
	project    string
	storePath  string
	supervisor *domain.InstanceRecord
	children   map[string]domain.InstanceRecord // keyed by branch
}

// New creates an Orchestrator bound to the given ports. wsm may be nil at
// construction time to break the Orchestrator/WorkspaceManager wiring cycle
// (WorkspaceManager depends on Orchestrator as its SessionAttachmentChecker);
// callers that construct both from the same App container set it
// afterwards via SetWorkspaceManager.
func New(mux ports.MultiplexerDriver, wsm ports.WorkspaceManager, bus ports.MessageBus, logger *logging.Logger) *Orchestrator {
	return &Orchestrator{
		mux:      mux,
		wsm:      wsm,
		bus:      bus,
		logger:   logger,
		children: make(map[string]domain.InstanceRecord),
	}
}

// SetWorkspaceManager late-binds the WorkspaceManager dependency. See New's
// doc comment for why this exists.
func (o *Orchestrator) SetWorkspaceManager(wsm ports.WorkspaceManager) {
	o.mu.Lock()
	defer o.mu.Unlock()

	o.wsm = wsm
}

// Initialize binds the orchestrator to a shared store at repoPath, creating
// the supervisor session (detached) if it does not already exist.
func (o *Orchestrator) Initialize(ctx context.Context, repoPath string) error {
	o.mu.Lock()
	o.project = domain.Slug(filepath.Base(repoPath))
	o.storePath = repoPath
	o.mu.Unlock()

	name := domain.SupervisorSessionName(o.project)

	if err := o.mux.CreateDetached(ctx, name, repoPath, nil); err != nil {
		return err
	}

	o.mu.Lock()
	o.supervisor = &domain.InstanceRecord{
		Role:        domain.RoleSupervisor,
		SessionName: name,
		Status:      domain.StatusDetached,
	}
	o.mu.Unlock()

	return nil
}

// EnsureChildFor creates (if needed) the worker session for ws's branch.
// Failures are logged and swallowed: one workspace's session failing to
// start must not block the rest of the fleet from coming up.
func (o *Orchestrator) EnsureChildFor(ctx context.Context, ws domain.Workspace) error {
	o.mu.Lock()
	project := o.project
	o.mu.Unlock()

	name := domain.NewSessionName(project, ws.Branch)

	if err := o.mux.CreateDetached(ctx, name, ws.AbsolutePath, nil); err != nil {
		if o.logger != nil {
			o.logger.Warn("failed to create session for workspace", "branch", ws.Branch, "err", err)
		}

		return nil
	}

	o.mu.Lock()
	o.children[ws.Branch] = domain.InstanceRecord{
		Role:          domain.RoleWorker,
		SessionName:   name,
		Branch:        ws.Branch,
		WorkspacePath: ws.AbsolutePath,
		Status:        domain.StatusDetached,
	}
	o.mu.Unlock()

	return nil
}

// List reconciles the orchestrator's known children against the
// multiplexer's live session list. Children whose session is no longer
// present are evicted and left out of the view, keeping children a subset of
// WorkspaceManager.List().
func (o *Orchestrator) List(ctx context.Context) (OrchestratorView, error) {
	sessions, err := o.mux.ListSessions(ctx, SessionPrefix)
	if err != nil {
		return OrchestratorView{}, err
	}

	live := make(map[string]ports.SessionInfo, len(sessions))
	for _, s := range sessions {
		live[s.Name] = s
	}

	o.mu.Lock()
	defer o.mu.Unlock()

	if o.supervisor != nil {
		if info, ok := live[o.supervisor.SessionName]; ok {
			o.supervisor.Status = statusFor(info)
		} else {
			o.supervisor.Status = domain.StatusAbsent
		}
	}

	children := make([]domain.InstanceRecord, 0, len(o.children))

	for branch, child := range o.children {
		info, ok := live[child.SessionName]
		if !ok {
			delete(o.children, branch)
			continue
		}

		child.Status = statusFor(info)
		o.children[branch] = child
		children = append(children, child)
	}

	view := OrchestratorView{Children: children}
	if o.supervisor != nil {
		supervisor := *o.supervisor
		view.Supervisor = &supervisor
	}

	return view, nil
}

func statusFor(info ports.SessionInfo) domain.StatusKind {
	if info.Attached {
		return domain.StatusAttached
	}

	return domain.StatusDetached
}

// RemoveChildForWorkspace tears down the worker session for branch and,
// when alsoRemoveWorkspace is set, also removes the underlying worktree via
// WorkspaceManager.
func (o *Orchestrator) RemoveChildForWorkspace(ctx context.Context, branch string, alsoRemoveWorkspace bool) error {
	o.mu.Lock()
	child, ok := o.children[branch]
	storePath := o.storePath
	o.mu.Unlock()

	if ok {
		if _, err := o.mux.ListSessions(ctx, child.SessionName); err == nil {
			if err := o.mux.ShutdownAll(ctx, child.SessionName); err != nil {
				return err
			}
		}

		o.mu.Lock()
		delete(o.children, branch)
		o.mu.Unlock()
	}

	if alsoRemoveWorkspace {
		if err := o.wsm.Remove(ctx, storePath, branch, false); err != nil {
			return err
		}
	}

	return nil
}

// Broadcast enqueues content as a task message addressed to every other
// known instance, sent from the supervisor.
func (o *Orchestrator) Broadcast(ctx context.Context, content string, exceptSender string) error {
	if o.bus == nil {
		return cerrors.NewBusError("broadcast", nil)
	}

	return o.bus.Send(ctx, domain.ToAll(), domain.MessageKindTask, content, nil)
}

// Shutdown stops the bus watcher and tears down every cgwt session managed
// by this orchestrator. It is idempotent.
func (o *Orchestrator) Shutdown(ctx context.Context) error {
	if o.bus != nil {
		o.bus.StopWatching()
	}

	return o.mux.ShutdownAll(ctx, SessionPrefix)
}

// Attach switches the multiplexer client to the worker session for branch.
func (o *Orchestrator) Attach(ctx context.Context, branch string) error {
	o.mu.Lock()
	project := o.project
	o.mu.Unlock()

	return o.mux.Attach(ctx, domain.NewSessionName(project, branch))
}

// AttachSupervisor switches the multiplexer client to the supervisor session.
func (o *Orchestrator) AttachSupervisor(ctx context.Context) error {
	o.mu.Lock()
	supervisor := o.supervisor
	o.mu.Unlock()

	if supervisor == nil {
		return cerrors.NewInternalError("supervisor session not initialized", nil)
	}

	return o.mux.Attach(ctx, supervisor.SessionName)
}

// IsAttached implements ports.SessionAttachmentChecker: it reports whether
// branch currently has a live, attached multiplexer session, re-deriving
// from the multiplexer rather than trusting cached state.
func (o *Orchestrator) IsAttached(ctx context.Context, branch string) (bool, error) {
	o.mu.Lock()
	project := o.project
	o.mu.Unlock()

	name := domain.NewSessionName(project, branch)

	sessions, err := o.mux.ListSessions(ctx, name)
	if err != nil {
		return false, err
	}

	for _, s := range sessions {
		if s.Name == name {
			return s.Attached, nil
		}
	}

	return false, nil
}
