// Package services defines the media server interfaces used by the playlist engine and implements them for Jellyfin.
//
// # Interfaces
//
// The engine only depends on narrow interfaces so tests can swap in fakes:
//   - [CatalogProvider] : libraries and their flat item lists
//   - [PlaylistProvider] : an existing playlist's entries in order
//   - [PlaylistMutator] : create, append and move
//   - [Authenticator] : username/password login
//
// [MediaServer] combines all four.
//
// # Jellyfin Implementation
//
// [JellyfinService] talks to the Jellyfin REST API. Every request carries the X-Emby-Authorization header
// built by [JellyfinService.AuthorizationHeader]; the token part is added once a session exists.
// Jellyfin allows one access token per device id, so [NewDeviceID] makes a new id for each login.
//
// GET requests are retried with exponential backoff (retry-go) on transport errors, 429 and 5xx.
// POST requests are never retried and pass through a token bucket limiter (golang.org/x/time/rate).
//
// # Error Handling
//
// Services use sentinel errors from the shared package:
//   - [shared.ErrNotAuthenticated] : no session, or the server answered 401
//   - [shared.ErrInvalidCredentials] : login rejected
//   - [shared.ErrServiceUnavailable] : 429 or 5xx after all attempts
//   - [shared.ErrAPIRequest] : any other failed request
//   - [shared.ErrLibraryNotFound], [shared.ErrPlaylistNotFound] : lookups by name
package services
