package history

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/udithaR/Alitheia-Core/schema"
)

// Archive is an exported mailing-list and bug-tracker snapshot.
type Archive struct {
	Threads []schema.Thread `json:"threads"`
	Bugs    []schema.Bug    `json:"bugs"`
}

// LoadArchive reads and validates a JSON archive file.
func LoadArchive(path string) (*Archive, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read archive: %w", err)
	}
	return ParseArchive(data)
}

// ParseArchive decodes and validates archive JSON.
func ParseArchive(data []byte) (*Archive, error) {
	var a Archive
	if err := json.Unmarshal(data, &a); err != nil {
		return nil, fmt.Errorf("failed to decode archive: %w", err)
	}
	if err := a.validate(); err != nil {
		return nil, err
	}
	return &a, nil
}

func (a *Archive) validate() error {
	var errs []error
	threads := make(map[string]struct{}, len(a.Threads))
	messages := make(map[string]struct{})
	for i, t := range a.Threads {
		if t.ID == "" {
			errs = append(errs, fmt.Errorf("thread #%d has no id", i))
			continue
		}
		if _, dup := threads[t.ID]; dup {
			errs = append(errs, fmt.Errorf("duplicate thread %q", t.ID))
		}
		threads[t.ID] = struct{}{}
		for _, m := range t.Messages {
			switch {
			case m.ID == "":
				errs = append(errs, fmt.Errorf("thread %q has a message without id", t.ID))
			case m.Sender == "":
				errs = append(errs, fmt.Errorf("message %q has no sender", m.ID))
			case m.Depth < 0:
				errs = append(errs, fmt.Errorf("message %q has negative depth", m.ID))
			}
			if _, dup := messages[m.ID]; dup && m.ID != "" {
				errs = append(errs, fmt.Errorf("duplicate message %q", m.ID))
			}
			messages[m.ID] = struct{}{}
		}
	}
	bugs := make(map[string]struct{}, len(a.Bugs))
	for i, b := range a.Bugs {
		if b.ID == "" {
			errs = append(errs, fmt.Errorf("bug #%d has no id", i))
			continue
		}
		if _, dup := bugs[b.ID]; dup {
			errs = append(errs, fmt.Errorf("duplicate bug %q", b.ID))
		}
		bugs[b.ID] = struct{}{}
	}
	if len(errs) > 0 {
		return fmt.Errorf("invalid archive: %w", errors.Join(errs...))
	}
	return nil
}

// Resources lists the ledger references of every message and bug.
func (a *Archive) Resources() []schema.ResourceRef {
	var refs []schema.ResourceRef
	for _, t := range a.Threads {
		for _, m := range t.Messages {
			refs = append(refs, m.Ref())
		}
	}
	for _, b := range a.Bugs {
		refs = append(refs, b.Ref())
	}
	return refs
}
