package workflow

import (
	"context"
	"sync"

	"labconsole/internal/core/domain/model/draft"
	"labconsole/internal/core/domain/model/laborder"
	"labconsole/internal/core/ports"
	"labconsole/internal/pkg/errs"

	"golang.org/x/sync/singleflight"
)

// DraftResultStore holds the draft set of one loaded order and commits single rows.
//
// Edits replace the whole set under a lock with a copy in which only the edited
// row differs, so concurrent edits of different rows never lose each other.
// Commits read one row and never modify the set: a failed commit leaves the
// draft exactly as the user left it.
type DraftResultStore struct {
	mu     sync.RWMutex
	drafts draft.Set

	results  ports.TestResultRepository
	notifier ports.Notifier

	inflight singleflight.Group
}

// NewDraftResultStore initializes one draft per test of order.
func NewDraftResultStore(order *laborder.LabOrder, results ports.TestResultRepository, notifier ports.Notifier) *DraftResultStore {
	return &DraftResultStore{
		drafts:   draft.Initialize(order),
		results:  results,
		notifier: notifier,
	}
}

// Drafts returns the current draft set.
func (s *DraftResultStore) Drafts() draft.Set {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.drafts
}

// Draft returns the current draft of one row.
func (s *DraftResultStore) Draft(orderTestID int64) (draft.TestDraft, error) {
	d, ok := s.Drafts().Get(orderTestID)
	if !ok {
		return draft.TestDraft{}, errs.NewObjectNotFoundError("orderTestId", orderTestID)
	}
	return d, nil
}

// UpdateField sets one field of one row and returns the resulting set.
func (s *DraftResultStore) UpdateField(orderTestID int64, field draft.Field, value string) (draft.Set, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	next, err := s.drafts.Update(orderTestID, field, value)
	if err != nil {
		return draft.Set{}, err
	}
	s.drafts = next
	return next, nil
}

// Commit persists the current draft of one row with exactly one call to the
// result repository. The outcome is signalled through the notifier; there is
// no rollback and no retry.
//
// Concurrent commits of an identical draft share one call. A commit issued
// after a further edit of the row always makes its own call.
func (s *DraftResultStore) Commit(ctx context.Context, orderTestID int64) error {
	d, err := s.Draft(orderTestID)
	if err != nil {
		return err
	}

	detached := context.WithoutCancel(ctx)
	_, err, _ = s.inflight.Do("commit:"+d.Fingerprint(), func() (any, error) {
		return nil, s.results.UpdateResult(detached, d)
	})
	if err != nil {
		notifyFailure(ctx, s.notifier, ActionCommitDraft, msgResultUpdateFailed)
		return err
	}

	notifySuccess(ctx, s.notifier, ActionCommitDraft, msgResultUpdated)
	return nil
}
