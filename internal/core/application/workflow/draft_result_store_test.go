package workflow_test

import (
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"labconsole/internal/core/application/workflow"
	"labconsole/internal/core/domain/model/draft"
	"labconsole/internal/core/domain/model/laborder"
	"labconsole/internal/core/ports"
	"labconsole/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestDraftResultStore_Initialize(t *testing.T) {
	order := newLabOrder(t, laborder.Pending, 1, 2, 3)
	store := workflow.NewDraftResultStore(order, new(MockResultRepository), workflow.NewNotificationFeed(0, nil))

	drafts := store.Drafts()

	require.Equal(t, 3, drafts.Len())
	for _, row := range order.Tests() {
		d, err := store.Draft(row.ID())
		require.NoError(t, err)
		assert.Equal(t, row.Result(), d.Result())
		assert.Empty(t, d.Result().Notes)
	}
}

func TestDraftResultStore_CommitScenario(t *testing.T) {
	ctx := t.Context()
	order := newLabOrder(t, laborder.Pending, 1)
	results := new(MockResultRepository)
	feed := workflow.NewNotificationFeed(0, nil)
	store := workflow.NewDraftResultStore(order, results, feed)

	results.On("UpdateResult", mock.Anything, mock.MatchedBy(func(d draft.TestDraft) bool {
		return d.OrderTestID() == 1 && d.Result().Value == "5.2"
	})).Return(nil).Once()

	before := store.Drafts()
	_, err := store.UpdateField(1, draft.FieldResultValue, "5.2")
	require.NoError(t, err)
	require.NoError(t, store.Commit(ctx, 1))

	results.AssertExpectations(t)
	d, err := store.Draft(1)
	require.NoError(t, err)
	assert.Equal(t, "5.2", d.Result().Value)
	assert.Equal(t, before.IDs(), store.Drafts().IDs())

	n := lastNotification(t, feed.List())
	assert.Equal(t, ports.NotificationSuccess, n.Level)
	assert.Equal(t, "Test result updated", n.Message)
	assert.Equal(t, workflow.ActionCommitDraft, n.Action)
}

func TestDraftResultStore_CommitFailureKeepsDraft(t *testing.T) {
	ctx := t.Context()
	results := new(MockResultRepository)
	feed := workflow.NewNotificationFeed(0, nil)
	store := workflow.NewDraftResultStore(newLabOrder(t, laborder.Pending, 1, 2), results, feed)

	_, err := store.UpdateField(1, draft.FieldNotes, "repeat sample")
	require.NoError(t, err)
	results.On("UpdateResult", mock.Anything, mock.Anything).Return(errors.New("status 500")).Once()

	err = store.Commit(ctx, 1)

	require.Error(t, err)
	results.AssertExpectations(t)
	d, _ := store.Draft(1)
	assert.Equal(t, "repeat sample", d.Result().Notes)

	n := lastNotification(t, feed.List())
	assert.Equal(t, ports.NotificationError, n.Level)
	assert.Equal(t, "Failed to update test result", n.Message)
}

func TestDraftResultStore_CommitOnePersistenceCallPerInvocation(t *testing.T) {
	ctx := t.Context()
	results := new(MockResultRepository)
	store := workflow.NewDraftResultStore(newLabOrder(t, laborder.Pending, 1, 2), results, workflow.NewNotificationFeed(0, nil))

	results.On("UpdateResult", mock.Anything, mock.MatchedBy(func(d draft.TestDraft) bool {
		return d.OrderTestID() == 2
	})).Return(nil).Twice()

	require.NoError(t, store.Commit(ctx, 2))
	require.NoError(t, store.Commit(ctx, 2))

	results.AssertExpectations(t)
	results.AssertNumberOfCalls(t, "UpdateResult", 2)
}

func TestDraftResultStore_CommitUnknownRow(t *testing.T) {
	results := new(MockResultRepository)
	store := workflow.NewDraftResultStore(newLabOrder(t, laborder.Pending, 1), results, workflow.NewNotificationFeed(0, nil))

	err := store.Commit(t.Context(), 42)

	require.ErrorIs(t, err, errs.ErrObjectNotFound)
	results.AssertNotCalled(t, "UpdateResult", mock.Anything, mock.Anything)
}

func TestDraftResultStore_ConcurrentEditsAreRowIsolated(t *testing.T) {
	const rows = 25
	ids := make([]int64, 0, rows)
	for i := int64(1); i <= rows; i++ {
		ids = append(ids, i)
	}
	store := workflow.NewDraftResultStore(newLabOrder(t, laborder.Pending, ids...), new(MockResultRepository), workflow.NewNotificationFeed(0, nil))

	var wg sync.WaitGroup
	for _, id := range ids {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := store.UpdateField(id, draft.FieldResultValue, fmt.Sprintf("v%d", id))
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	for _, id := range ids {
		d, err := store.Draft(id)
		require.NoError(t, err)
		assert.Equal(t, fmt.Sprintf("v%d", id), d.Result().Value)
	}
}

func TestDraftResultStore_DuplicateConcurrentCommitsShareOneCall(t *testing.T) {
	ctx := t.Context()
	results := new(MockResultRepository)
	feed := workflow.NewNotificationFeed(0, nil)
	store := workflow.NewDraftResultStore(newLabOrder(t, laborder.Pending, 1), results, feed)

	entered := make(chan struct{})
	release := make(chan struct{})
	results.On("UpdateResult", mock.Anything, mock.Anything).Run(func(mock.Arguments) {
		close(entered)
		<-release
	}).Return(nil).Once()

	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		assert.NoError(t, store.Commit(ctx, 1))
	}()
	<-entered
	go func() {
		defer wg.Done()
		assert.NoError(t, store.Commit(ctx, 1))
	}()
	time.Sleep(50 * time.Millisecond)
	close(release)
	wg.Wait()

	results.AssertNumberOfCalls(t, "UpdateResult", 1)
	assert.Len(t, feed.List(), 2, "every caller is notified")
}

func TestDraftResultStore_UpdateFieldErrors(t *testing.T) {
	store := workflow.NewDraftResultStore(newLabOrder(t, laborder.Pending, 1), new(MockResultRepository), workflow.NewNotificationFeed(0, nil))

	_, err := store.UpdateField(9, draft.FieldNotes, "x")
	require.ErrorIs(t, err, errs.ErrObjectNotFound)

	_, err = store.UpdateField(1, draft.Field("status"), "completed")
	require.ErrorIs(t, err, errs.ErrValueIsInvalid)

	d, _ := store.Draft(1)
	assert.True(t, d.Result().IsEmpty())
}
