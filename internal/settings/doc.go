// Package settings loads, edits and persists the console settings.
//
// Every domain (theme, display, security, ...) has a Schema declaring its
// keys, their kind and default. A Reconciler merges the stored records over
// those defaults and hands out a working set and a snapshot. A Synchronizer
// writes a working set back, either incrementally or by replacing the whole
// domain, and advances the snapshot once every store call has succeeded.
package settings
