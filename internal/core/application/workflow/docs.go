// Package workflow implements the review and finalization workflow of one lab order.
//
// A Workspace owns a loaded order and four cooperating components:
//   - DraftResultStore keeps one editable draft per test row and commits single rows
//   - HistoryCache fetches the history of a test row once and keeps it for the workspace
//   - OrderStatusController finalizes the order and persists it
//   - DocumentDeliveryCoordinator triggers report, invoice and scan actions
//
// The components never block each other. Remote calls run detached from the
// caller's context cancellation: once issued they finish or fail on their own.
// Every outcome is surfaced through a ports.Notifier.
package workflow
