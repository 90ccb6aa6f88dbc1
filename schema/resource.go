package schema

import (
	"strings"
	"time"
)

// Resource id prefixes, one per variant.
const (
	commitPrefix  = "commit:"
	threadPrefix  = "thread:"
	messagePrefix = "msg:"
	bugPrefix     = "bug:"
)

// ResourceRef is the generic handle for a classified event.
type ResourceRef struct {
	ID       string         `json:"id"`
	Category ActionCategory `json:"category"`
}

// Resource is the closed set of events the engine classifies:
// Commit, Thread, Bug and Message.
type Resource interface {
	Ref() ResourceRef
	isResource()
}

// ChangeStatus is the name-status letter git reports for a path.
type ChangeStatus string

// Change statuses. Renames are recorded as copies.
const (
	StatusAdded    ChangeStatus = "A"
	StatusModified ChangeStatus = "M"
	StatusDeleted  ChangeStatus = "D"
	StatusCopied   ChangeStatus = "C"
)

// FileChange is one path touched by a commit.
type FileChange struct {
	Path     string       `json:"path"`
	Status   ChangeStatus `json:"status"`
	CopyFrom string       `json:"copy_from,omitempty"`
	IsDir    bool         `json:"is_dir,omitempty"`
}

// IsCopy reports whether the path was copied or renamed from another one.
func (f FileChange) IsCopy() bool {
	return f.CopyFrom != "" || f.Status == StatusCopied
}

// Commit is a project version.
type Commit struct {
	Hash          string       `json:"hash"`
	Parent        string       `json:"parent,omitempty"` // first parent, empty for a root commit
	Committer     string       `json:"committer"`        // developer id (e-mail)
	CommitterName string       `json:"committer_name"`
	Date          time.Time    `json:"date"`
	Message       string       `json:"message"`
	Files         []FileChange `json:"files"`
}

// Ref implements Resource.
func (c Commit) Ref() ResourceRef {
	return ResourceRef{ID: CommitResourceID(c.Hash), Category: CommitCategory}
}

func (Commit) isResource() {}

// Message is a single mailing-list message.
type Message struct {
	ID      string    `json:"id"`
	Sender  string    `json:"sender"`
	Subject string    `json:"subject,omitempty"`
	Parent  string    `json:"parent,omitempty"`
	Depth   int       `json:"depth"`
	Arrival time.Time `json:"arrival"`
}

// Ref implements Resource.
func (m Message) Ref() ResourceRef {
	return ResourceRef{ID: MessageResourceID(m.ID), Category: MailCategory}
}

func (Message) isResource() {}

// Thread is an append-only mailing-list thread.
type Thread struct {
	ID       string    `json:"id"`
	Messages []Message `json:"messages"`
}

// Ref implements Resource.
func (t Thread) Ref() ResourceRef {
	return ResourceRef{ID: threadPrefix + t.ID, Category: MailCategory}
}

func (Thread) isResource() {}

// Bug is a bug-tracker report.
type Bug struct {
	ID       string    `json:"id"`
	Reporter string    `json:"reporter"`
	Summary  string    `json:"summary,omitempty"`
	Opened   time.Time `json:"opened"`
}

// Ref implements Resource.
func (b Bug) Ref() ResourceRef {
	return ResourceRef{ID: BugResourceID(b.ID), Category: BugCategory}
}

func (Bug) isResource() {}

// CommitResourceID returns the ledger resource id of a commit hash.
func CommitResourceID(hash string) string { return commitPrefix + hash }

// MessageResourceID returns the ledger resource id of a message id.
func MessageResourceID(id string) string { return messagePrefix + id }

// BugResourceID returns the ledger resource id of a bug id.
func BugResourceID(id string) string { return bugPrefix + id }

// CategoryOfResourceID infers the category from a prefixed resource id.
func CategoryOfResourceID(id string) (ActionCategory, bool) {
	switch {
	case strings.HasPrefix(id, commitPrefix):
		return CommitCategory, true
	case strings.HasPrefix(id, messagePrefix), strings.HasPrefix(id, threadPrefix):
		return MailCategory, true
	case strings.HasPrefix(id, bugPrefix):
		return BugCategory, true
	default:
		return "", false
	}
}

// DiffChunk is one hunk of a textual diff, starting at its @@ header.
type DiffChunk struct {
	Text string `msgpack:"text" json:"text"`
}
