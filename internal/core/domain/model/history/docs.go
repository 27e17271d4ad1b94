// Package history holds previously recorded results for a (patient, test) pair
// and derives the trend shown next to a test row.
package history
