// package services defines the media server interfaces the playlist engine depends on
//
// Jellyfin (REST API)
package services

import (
	"context"

	"github.com/wkelton/jellytrek/internal/models"
)

// CatalogProvider exposes the media server's libraries as flat item lists.
type CatalogProvider interface {
	// FetchLibraries lists the user's top-level views.
	FetchLibraries(ctx context.Context) ([]models.Library, error)

	// FetchLibraryTree returns every item below the named library, in server order.
	// Returns [shared.ErrLibraryNotFound] when no library has that name.
	FetchLibraryTree(ctx context.Context, library string) ([]models.RawItem, error)
}

// PlaylistProvider reads playlists.
type PlaylistProvider interface {
	// FetchPlaylist finds a playlist by name and returns its entries in playlist order.
	// Returns [shared.ErrPlaylistNotFound] when absent.
	FetchPlaylist(ctx context.Context, name string) (*models.Playlist, error)
}

// PlaylistMutator changes playlists.
type PlaylistMutator interface {
	// CreatePlaylist creates a video playlist holding ids in order and returns its id.
	CreatePlaylist(ctx context.Context, name string, ids []string) (string, error)

	// Append adds ids to the end of the playlist, in order.
	Append(ctx context.Context, playlistID string, ids []string) error

	// Move moves the playlist entry to index. entryID is the playlist entry id, not the item id.
	Move(ctx context.Context, playlistID, entryID string, index int) error
}

// Authenticator exchanges a username and password for an access token.
type Authenticator interface {
	AuthenticateByName(ctx context.Context, username, password string) (*AuthResult, error)
}

// MediaServer is everything the CLI needs from a media server.
type MediaServer interface {
	CatalogProvider
	PlaylistProvider
	PlaylistMutator
	Authenticator
}

// AuthResult is the outcome of a successful login.
type AuthResult struct {
	UserID   string
	UserName string
	Token    string
	DeviceID string
}
