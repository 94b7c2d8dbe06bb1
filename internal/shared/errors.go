package shared

import "fmt"

var (
	// Manifest errors (fatal to loading)
	ErrUnknownSeries = fmt.Errorf("unknown series code")
	ErrMalformedRow  = fmt.Errorf("malformed manifest row")

	// Playlist growth errors (fatal to update-playlist)
	ErrShrinkingPlaylist = fmt.Errorf("desired playlist is not longer than the existing one")
	ErrCountMismatch     = fmt.Errorf("new item count does not match the length difference")

	// Configuration errors
	ErrMissingConfig      = fmt.Errorf("configuration not found")
	ErrInvalidConfig      = fmt.Errorf("invalid configuration")
	ErrMissingCredentials = fmt.Errorf("missing credentials")
	ErrInvalidCredentials = fmt.Errorf("invalid credentials")

	// Authentication errors
	ErrNotAuthenticated = fmt.Errorf("not authenticated")
	ErrSessionNotFound  = fmt.Errorf("session not found")

	// API and service errors
	ErrAPIRequest         = fmt.Errorf("API request failed")
	ErrServiceUnavailable = fmt.Errorf("service unavailable")
	ErrLibraryNotFound    = fmt.Errorf("library not found")
	ErrEmptyLibrary       = fmt.Errorf("library has no items")
	ErrPlaylistNotFound   = fmt.Errorf("playlist not found")
	ErrEmptyPlaylist      = fmt.Errorf("no matched items to put in playlist")

	// Concurrency
	ErrLocked = fmt.Errorf("another jellytrek process holds the lock")

	// Input validation errors
	ErrMissingArgument = fmt.Errorf("missing required argument")
	ErrInvalidArgument = fmt.Errorf("invalid argument")
)
