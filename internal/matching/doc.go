// Package matching resolves manifest entries to catalog items.
//
// # Title comparison
//
// [Cascade] turns a title into progressively looser forms. [CompareTitles] compares a manifest title
// with a catalog title form by form and stops at the first [Stage] that accepts the pair, so the
// result records how loose the match had to be. Two literal alias pairs are checked before the cascade.
//
// # Resolution
//
// Movies match by exact title or the reboot alias. Series entries resolve series → season → episode,
// recording the [Step] that failed. The previous entry's [Result] is passed in explicitly so a
// two-part story shipped as one file can be [AssumedMerged] into its first half.
//
// # Reconciliation
//
// [Reconcile] walks the manifest in order and returns a [Report]: the ordered ids for the playlist,
// per-entry results, counts, and one [Diagnostic] for each unmatched or merged entry.
package matching
