// Package notify defines the user-notification capability consumed by
// long-running jobs.
//
// The core never blocks on a notifier and never fails because of one. Nop
// suits headless use; Slog routes notifications into structured logs. The
// package also renders the standard completion summary for a tree
// enrichment run, truncating long unresolved lists the way the interactive
// tools do.
package notify
