// Package models defines the data types shared across jellytrek.
//
// The package contains two categories of types:
//
// 1. Catalog DTOs: the Jellyfin library as jellytrek sees it
//   - [RawItem] : one item exactly as returned by the items endpoint
//   - [Movie], [Series], [Season], [Episode] : the typed catalog tree
//   - [Playlist], [PlaylistEntry] : an existing playlist and its ordered entries
//   - [PlaylistDiffPlan] : the append/move plan for growing a playlist
//
// 2. Persistent Entities: database-backed records
//   - [Session] : a Jellyfin login (user, token, device id) for one server
//
// Persistent entities implement [Model]; the [Repository] interface defines the data access operations.
package models
