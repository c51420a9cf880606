// Package activity records and browses the console's audit trail.
//
// Recording is best effort: Record never returns an error and Dispatch never
// blocks the caller. Entries are attributed to the acting identity when one is
// available and to the system otherwise.
package activity
