package core

import (
	"context"
	"slices"

	"github.com/udithaR/Alitheia-Core/internal/contract"
	"github.com/udithaR/Alitheia-Core/schema"
)

// AnalyzeThread derives the mail actions of a thread of project that may
// have grown since it was last seen. Messages that already carry actions are left
// alone, except that the closing credit moves from the previous closer to
// the new last message.
func AnalyzeThread(ctx context.Context, r contract.LedgerReader, project string, t schema.Thread) ([]schema.Action, error) {
	if len(t.Messages) == 0 {
		return nil, nil
	}
	msgs := slices.Clone(t.Messages)
	slices.SortStableFunc(msgs, func(a, b schema.Message) int {
		return a.Arrival.Compare(b.Arrival)
	})
	last := msgs[len(msgs)-1]

	var actions []schema.Action

	// The root never closes its own thread, so a single-message thread
	// has no closer to look for.
	for i := len(msgs) - 1; i > 0; i-- {
		closes, err := r.ResourceTotal(ctx, project, schema.MessageResourceID(msgs[i].ID), schema.ThreadClosed)
		if err != nil {
			return nil, err
		}
		if closes <= 0 {
			continue
		}
		if msgs[i].ID != last.ID {
			actions = append(actions, schema.NewAction(msgs[i].Sender, schema.MessageResourceID(msgs[i].ID), schema.ThreadClosed, -1))
		}
		break
	}

	firstReply := ""
	for _, m := range msgs {
		if m.Depth == 1 {
			firstReply = m.ID
			break
		}
	}

	for _, m := range msgs {
		resourceID := schema.MessageResourceID(m.ID)
		touched, err := r.Exists(ctx, project, resourceID, schema.MailCategory)
		if err != nil {
			return nil, err
		}
		if touched {
			continue
		}
		credit := func(at schema.ActionType) {
			actions = append(actions, schema.NewAction(m.Sender, resourceID, at, 1))
		}

		if m.Depth == 0 && m.Parent == "" {
			credit(schema.ThreadStarted)
		} else {
			if m.ID == firstReply {
				credit(schema.FirstReply)
			}
			if m.ID == last.ID {
				credit(schema.ThreadClosed)
			}
		}
		credit(schema.MessageSent)
	}
	return actions, nil
}
