// Package domain contains the core data model for cgwt.
//
// Domain types are pure data with no external dependencies, making them safe
// to use across all layers of the architecture.
package domain

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strings"
	"time"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// DirectoryKind classifies the current working directory for AppController.
type DirectoryKind string

// Directory kinds, per the classification table.
const (
	DirEmpty             DirectoryKind = "empty"
	DirPlainRepo         DirectoryKind = "plain_repo"
	DirSharedStoreParent DirectoryKind = "shared_store_parent"
	DirWorkspace         DirectoryKind = "workspace"
	DirNonRepo           DirectoryKind = "non_repo"
)

// DirectoryState is the result of classifying a directory.
type DirectoryState struct {
	Kind DirectoryKind
	Path string

	// Populated when Kind is DirPlainRepo or DirWorkspace.
	CurrentBranch string
	RemoteURL     string

	// Populated when Kind is DirSharedStoreParent or DirWorkspace.
	StorePath string
}

// Repository describes a shared git object store.
type Repository struct {
	StorePath     string
	DefaultBranch string
	Remotes       []string
	Branches      []string
}

// Workspace is a single branch's worktree against a shared store.
type Workspace struct {
	RepositoryID string
	Branch       string
	AbsolutePath string
	Head         string

	// LastActivity records the most recent moment the orchestrator observed
	// assistant output in this workspace's session pane. Zero if never observed.
	LastActivity time.Time
}

// RoleKind distinguishes the supervisor instance from worker instances.
type RoleKind string

// Instance roles.
const (
	RoleSupervisor RoleKind = "supervisor"
	RoleWorker     RoleKind = "worker"
)

// StatusKind is the lifecycle state of a multiplexer-backed instance.
type StatusKind string

// Instance statuses, always re-derived from the multiplexer rather than stored.
const (
	StatusAbsent   StatusKind = "absent"
	StatusDetached StatusKind = "detached"
	StatusAttached StatusKind = "attached"
	StatusStopped  StatusKind = "stopped"
)

// InstanceRecord describes one multiplexer session: the supervisor, or a
// worker bound to a single workspace branch.
type InstanceRecord struct {
	Role          RoleKind
	SessionName   string
	Branch        string
	WorkspacePath string
	Status        StatusKind
}

// MessageKind identifies the purpose of a bus message.
type MessageKind string

// Message kinds.
const (
	MessageKindTask   MessageKind = "task"
	MessageKindStatus MessageKind = "status"
	MessageKindResult MessageKind = "result"
	MessageKindError  MessageKind = "error"
)

// Broadcast is a wildcard spelling of "every other known instance". No cgwt
// code reads it: MessageTarget marks a broadcast with its Broadcast field, and
// the wire format uses the literal "broadcast" (see Message).
const Broadcast = "*"

// MessageTarget is either a broadcast (Broadcast set) or a list of explicit
// instance ids.
type MessageTarget struct {
	Broadcast bool
	Instances []string
}

// ToInstance builds a MessageTarget addressed to one or more explicit instances.
func ToInstance(ids ...string) MessageTarget {
	return MessageTarget{Instances: ids}
}

// ToAll builds the broadcast MessageTarget.
func ToAll() MessageTarget {
	return MessageTarget{Broadcast: true}
}

// Message is one entry on the filesystem-backed bus. On the wire (see
// MarshalJSON) the kind travels as "type" and Broadcast/To collapse into a
// single "to" field: either the literal string "broadcast" or a list of
// instance ids.
type Message struct {
	ID        string
	From      string
	Broadcast bool
	To        []string
	Kind      MessageKind
	Content   string
	Timestamp time.Time
	Metadata  map[string]string
}

// messageWire is the on-disk JSON shape of a Message.
type messageWire struct {
	ID        string            `json:"id"`
	From      string            `json:"from"`
	To        json.RawMessage   `json:"to"`
	Type      MessageKind       `json:"type"`
	Content   string            `json:"content"`
	Timestamp time.Time         `json:"timestamp"`
	Metadata  map[string]string `json:"metadata,omitempty"`
}

// broadcastTo is the literal "to" value used for a broadcast message.
const broadcastTo = "broadcast"

// MarshalJSON encodes Broadcast/To as a single "to" field and Kind as "type".
func (m Message) MarshalJSON() ([]byte, error) {
	var to any
	if m.Broadcast {
		to = broadcastTo
	} else {
		to = m.To
	}

	toJSON, err := json.Marshal(to)
	if err != nil {
		return nil, fmt.Errorf("marshal message \"to\": %w", err)
	}

	return json.Marshal(messageWire{
		ID:        m.ID,
		From:      m.From,
		To:        toJSON,
		Type:      m.Kind,
		Content:   m.Content,
		Timestamp: m.Timestamp,
		Metadata:  m.Metadata,
	})
}

// UnmarshalJSON decodes the unified "to" field back into Broadcast/To.
func (m *Message) UnmarshalJSON(data []byte) error {
	var wire messageWire
	if err := json.Unmarshal(data, &wire); err != nil {
		return err
	}

	*m = Message{
		ID:        wire.ID,
		From:      wire.From,
		Kind:      wire.Type,
		Content:   wire.Content,
		Timestamp: wire.Timestamp,
		Metadata:  wire.Metadata,
	}

	return m.unmarshalTo(wire.To)
}

// unmarshalTo parses the wire "to" value, which is either the literal string
// "broadcast" or a JSON array of instance ids.
func (m *Message) unmarshalTo(raw json.RawMessage) error {
	if len(raw) == 0 {
		return nil
	}

	var asString string
	if err := json.Unmarshal(raw, &asString); err == nil {
		m.Broadcast = asString == broadcastTo
		return nil
	}

	var asList []string
	if err := json.Unmarshal(raw, &asList); err != nil {
		return fmt.Errorf("decode message \"to\": %w", err)
	}

	m.To = asList

	return nil
}

// AddressedTo reports whether the message is meant for the given instance id.
func (m Message) AddressedTo(instanceID string) bool {
	if m.Broadcast {
		return m.From != instanceID
	}

	for _, id := range m.To {
		if id == instanceID {
			return true
		}
	}

	return false
}

const sessionNamePrefix = "cgwt-"
const sessionNameMaxLen = 50
const supervisorSlug = "supervisor"

var (
	slugDisallowed = regexp.MustCompile(`[^a-z0-9_-]+`)
	slugDashes     = regexp.MustCompile(`-+`)
)

// Slug normalizes arbitrary text (a branch name, a project name) into the
// lowercase [a-z0-9_-] alphabet used for session names and workspace
// directory names. Unicode is first decomposed and stripped of diacritics and
// non-ASCII runes so e.g. "café" becomes "cafe" rather than producing mojibake.
func Slug(s string) string {
	ascii, _, err := transform.String(transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC), s)
	if err != nil {
		ascii = s
	}

	lower := strings.ToLower(ascii)
	lower = strings.ReplaceAll(lower, "/", "-")
	lower = slugDisallowed.ReplaceAllString(lower, "-")
	lower = slugDashes.ReplaceAllString(lower, "-")

	return strings.Trim(lower, "-")
}

// NewSessionName derives the deterministic multiplexer session name for a
// branch of a given project: "cgwt-<project>-<branch>", slugged and
// truncated to 50 characters. The supervisor session for a project uses the
// literal branch slug "supervisor".
func NewSessionName(project, branch string) string {
	name := sessionNamePrefix + Slug(project) + "-" + Slug(branch)
	if len(name) > sessionNameMaxLen {
		name = name[:sessionNameMaxLen]
	}

	return strings.TrimRight(name, "-")
}

// SupervisorSessionName derives the deterministic session name for a
// project's supervisor instance.
func SupervisorSessionName(project string) string {
	return NewSessionName(project, supervisorSlug)
}

// SanitizeBranchDir converts a branch name into a workspace directory name.
// Unlike Slug/NewSessionName, directory names are not length-truncated: the
// filesystem, not the multiplexer, is the only consumer.
func SanitizeBranchDir(branch string) string {
	s := Slug(branch)
	if s == "" {
		s = "branch"
	}

	return s
}
