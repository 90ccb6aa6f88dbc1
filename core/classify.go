package core

import (
	"context"
	"errors"
	"fmt"

	log "github.com/sirupsen/logrus"
	"github.com/udithaR/Alitheia-Core/internal/contract"
	"github.com/udithaR/Alitheia-Core/schema"
)

// newFileActions maps an added file's type onto its action. Source files are
// credited through the text branch.
var newFileActions = map[schema.FileType]schema.ActionType{
	schema.DocFile:         schema.NewDocFile,
	schema.TranslationFile: schema.NewTranslationFile,
	schema.BinaryFile:      schema.NewBinaryFile,
}

// CommitClassifier derives the actions of a single commit.
type CommitClassifier struct {
	Threshold int
	Files     contract.FileClassifier
	Diffs     contract.DiffProvider
	Lines     contract.LineCounter
}

// CommitClassification is the outcome of classifying one commit.
// Warnings holds the files whose line attribution was skipped.
type CommitClassification struct {
	Actions  []schema.Action
	Warnings []error
}

// NewCommitClassifier validates the threshold and returns a classifier.
func NewCommitClassifier(threshold int, files contract.FileClassifier, diffs contract.DiffProvider, lines contract.LineCounter) (*CommitClassifier, error) {
	if threshold <= 0 {
		return nil, contract.NewConfigurationError("oversized-commit-threshold",
			fmt.Errorf("must be positive, got %d", threshold))
	}
	if files == nil {
		return nil, contract.NewConfigurationError("file classifier", errors.New("not configured"))
	}
	return &CommitClassifier{Threshold: threshold, Files: files, Diffs: diffs, Lines: lines}, nil
}

// Classify returns the actions of c credited to its committer. A missing
// line counter aborts the whole commit; a failed read of one file only
// drops the line credit of that file.
func (cc *CommitClassifier) Classify(ctx context.Context, c schema.Commit) (CommitClassification, error) {
	var out CommitClassification
	resourceID := schema.CommitResourceID(c.Hash)
	dev := c.Committer
	if cc.Lines == nil {
		return out, contract.NewMissingDependencyError("line count", resourceID, errors.New("no line counter available"))
	}

	credit := func(t schema.ActionType) {
		out.Actions = append(out.Actions, schema.NewAction(dev, resourceID, t, 1))
	}

	if IsEmptyMessage(c.Message) {
		credit(schema.EmptyCommit)
	} else {
		if IsDefectReference(c.Message) {
			credit(schema.BugLinkedCommit)
		}
		if IsCommendation(c.Message) {
			credit(schema.Commendation)
		}
	}

	files := 0
	for _, f := range c.Files {
		if !f.IsDir {
			files++
		}
	}
	if files > cc.Threshold {
		credit(schema.OversizedCommit)
	}

	for _, f := range c.Files {
		if f.IsDir {
			if f.Status == schema.StatusAdded {
				credit(schema.NewDirectory)
			}
			continue
		}
		if f.IsCopy() {
			log.WithFields(log.Fields{"resource": resourceID, "path": f.Path}).Debug("Ignoring copied file")
			continue
		}

		fileType := cc.Files.Classify(f.Path)
		if cc.Files.IsText(f.Path) {
			if f.Status == schema.StatusAdded {
				credit(schema.NewSourceFile)
			}
			lines, err := cc.lineActions(ctx, c, f)
			switch {
			case contract.KindOf(err) == contract.KindMissingDependency:
				return CommitClassification{}, err
			case err != nil:
				out.Warnings = append(out.Warnings, err)
			default:
				out.Actions = append(out.Actions, lines...)
			}
		}

		if f.Status == schema.StatusAdded {
			if t, ok := newFileActions[fileType]; ok {
				credit(t)
			}
		}
	}
	return out, nil
}

// lineActions computes the line credit of one text file.
func (cc *CommitClassifier) lineActions(ctx context.Context, c schema.Commit, f schema.FileChange) ([]schema.Action, error) {
	resourceID := schema.CommitResourceID(c.Hash)
	switch f.Status {
	case schema.StatusAdded:
		n, err := cc.Lines.LineCount(ctx, f.Path, c.Hash)
		if err != nil {
			return nil, lineCountError(resourceID, f.Path, err)
		}
		return LineAttribution{Added: n}.Actions(c.Committer, resourceID), nil

	case schema.StatusDeleted:
		if c.Parent == "" {
			return nil, contract.NewRepositoryAccessError("line count", resourceID, fmt.Errorf("%s: deleted without a parent revision", f.Path))
		}
		n, err := cc.Lines.LineCount(ctx, f.Path, c.Parent)
		if err != nil {
			return nil, lineCountError(resourceID, f.Path, err)
		}
		return LineAttribution{Removed: n}.Actions(c.Committer, resourceID), nil

	default:
		if c.Parent == "" {
			return nil, contract.NewRepositoryAccessError("diff", resourceID, fmt.Errorf("%s: modified without a parent revision", f.Path))
		}
		if cc.Diffs == nil {
			return nil, contract.NewRepositoryAccessError("diff", resourceID, errors.New("no diff provider available"))
		}
		chunks, err := cc.Diffs.Diff(ctx, f.Path, c.Parent, c.Hash)
		if err != nil {
			return nil, contract.NewRepositoryAccessError("diff", resourceID, fmt.Errorf("%s: %w", f.Path, err))
		}
		return AttributeLines(CountDiffLines(chunks)).Actions(c.Committer, resourceID), nil
	}
}

// lineCountError keeps missing dependencies fatal for the commit and turns
// every other failure into a per-file repository access error.
func lineCountError(resourceID, path string, err error) error {
	if contract.KindOf(err) == contract.KindMissingDependency {
		return err
	}
	return contract.NewRepositoryAccessError("line count", resourceID, fmt.Errorf("%s: %w", path, err))
}
