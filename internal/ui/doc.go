// Package ui implements an interactive terminal review of a reconciliation run using bubbletea's Elm architecture.
//
// The TUI has three views:
//  1. [LoadingView] : Monitor catalog loading and matching through progress updates
//  2. [ListView] : Browse manifest entries, filtered to all, unmatched, or assumed merged
//  3. [DetailView] : Inspect one entry, the catalog item it resolved to and where matching stopped
//
// The (view) [Model] implements the standard Init/Update/View pattern, receiving messages via the [Msg] union type.
// Progress updates flow through a channel from the [tasks.Engine], so the terminal stays responsive while the
// libraries are fetched.
//
// Keyboard navigation uses vim-style bindings (j/k, enter, esc, f, r, q) with contextual help displayed via charmbracelet/bubbles/help.
package ui
