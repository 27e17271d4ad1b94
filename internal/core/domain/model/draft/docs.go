// Package draft models the editable, uncommitted copies of test results.
//
// A Set holds exactly one TestDraft per OrderTest of a loaded order. Both types
// are immutable: every edit returns a new value, so a row can never observe an
// edit made to another row and readers never see a half-applied update.
package draft
