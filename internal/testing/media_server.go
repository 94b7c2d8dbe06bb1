package testing

import (
	"context"
	"fmt"
	"slices"
	"sync"

	"github.com/wkelton/jellytrek/internal/models"
	"github.com/wkelton/jellytrek/internal/services"
	"github.com/wkelton/jellytrek/internal/shared"
)

var _ services.MediaServer = (*MockMediaServer)(nil)

type mockLibrary struct {
	id    string
	name  string
	items []models.RawItem
}

// MockMediaServer is an in-memory [services.MediaServer].
//
// Playlists behave like Jellyfin's: appended items get fresh entry ids and Move works on entry ids.
type MockMediaServer struct {
	mu        sync.Mutex
	libraries []mockLibrary
	playlists []*models.Playlist
	users     map[string]string
	errs      map[string]error
	nextID    int

	// Calls records each method invocation as "Method arg..." in order.
	Calls []string

	// Credentials holds the last user id, token and device id passed to SetCredentials.
	Credentials [3]string
}

// NewMockMediaServer creates an empty server.
func NewMockMediaServer() *MockMediaServer {
	return &MockMediaServer{users: map[string]string{}, errs: map[string]error{}}
}

// AddLibrary registers a library and its flat item list.
func (m *MockMediaServer) AddLibrary(name string, items ...models.RawItem) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.libraries = append(m.libraries, mockLibrary{id: "lib-" + name, name: name, items: items})
}

// AddPlaylist registers an existing playlist holding itemIDs in order.
func (m *MockMediaServer) AddPlaylist(name string, itemIDs ...string) *models.Playlist {
	m.mu.Lock()
	defer m.mu.Unlock()
	pl := &models.Playlist{ID: m.newID("playlist"), Name: name}
	for _, id := range itemIDs {
		pl.Entries = append(pl.Entries, m.newEntry(id))
	}
	m.playlists = append(m.playlists, pl)
	return pl
}

// AddUser allows username to log in with password.
func (m *MockMediaServer) AddUser(username, password string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.users[username] = password
}

// Fail makes the named method return err until cleared with a nil err.
func (m *MockMediaServer) Fail(method string, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err == nil {
		delete(m.errs, method)
		return
	}
	m.errs[method] = err
}

// PlaylistItemIDs returns the item ids of the named playlist, or nil.
func (m *MockMediaServer) PlaylistItemIDs(name string) []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	if pl := m.playlistByName(name); pl != nil {
		return pl.ItemIDs()
	}
	return nil
}

func (m *MockMediaServer) newID(prefix string) string {
	m.nextID++
	return fmt.Sprintf("%s-%d", prefix, m.nextID)
}

func (m *MockMediaServer) newEntry(itemID string) models.PlaylistEntry {
	return models.PlaylistEntry{ItemID: itemID, EntryID: m.newID("entry"), Name: m.itemName(itemID)}
}

func (m *MockMediaServer) itemName(id string) string {
	for _, lib := range m.libraries {
		for _, item := range lib.items {
			if item.ID == id {
				return item.Name
			}
		}
	}
	return id
}

func (m *MockMediaServer) playlistByName(name string) *models.Playlist {
	for _, pl := range m.playlists {
		if pl.Name == name {
			return pl
		}
	}
	return nil
}

func (m *MockMediaServer) playlistByID(id string) *models.Playlist {
	for _, pl := range m.playlists {
		if pl.ID == id {
			return pl
		}
	}
	return nil
}

func (m *MockMediaServer) record(method string, args ...any) error {
	call := method
	for _, arg := range args {
		call += fmt.Sprintf(" %v", arg)
	}
	m.Calls = append(m.Calls, call)
	return m.errs[method]
}

func (m *MockMediaServer) FetchLibraries(ctx context.Context) ([]models.Library, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.record("FetchLibraries"); err != nil {
		return nil, err
	}
	out := make([]models.Library, 0, len(m.libraries))
	for _, lib := range m.libraries {
		out = append(out, models.Library{ID: lib.id, Name: lib.name})
	}
	return out, nil
}

func (m *MockMediaServer) FetchLibraryTree(ctx context.Context, library string) ([]models.RawItem, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.record("FetchLibraryTree", library); err != nil {
		return nil, err
	}
	for _, lib := range m.libraries {
		if lib.name == library {
			return slices.Clone(lib.items), nil
		}
	}
	return nil, fmt.Errorf("%w: %q", shared.ErrLibraryNotFound, library)
}

func (m *MockMediaServer) FetchPlaylist(ctx context.Context, name string) (*models.Playlist, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.record("FetchPlaylist", name); err != nil {
		return nil, err
	}
	pl := m.playlistByName(name)
	if pl == nil {
		return nil, fmt.Errorf("%w: %q", shared.ErrPlaylistNotFound, name)
	}
	return &models.Playlist{ID: pl.ID, Name: pl.Name, Entries: slices.Clone(pl.Entries)}, nil
}

func (m *MockMediaServer) CreatePlaylist(ctx context.Context, name string, ids []string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.record("CreatePlaylist", name, ids); err != nil {
		return "", err
	}
	pl := &models.Playlist{ID: m.newID("playlist"), Name: name}
	for _, id := range ids {
		pl.Entries = append(pl.Entries, m.newEntry(id))
	}
	m.playlists = append(m.playlists, pl)
	return pl.ID, nil
}

func (m *MockMediaServer) Append(ctx context.Context, playlistID string, ids []string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.record("Append", playlistID, ids); err != nil {
		return err
	}
	pl := m.playlistByID(playlistID)
	if pl == nil {
		return fmt.Errorf("%w: %q", shared.ErrPlaylistNotFound, playlistID)
	}
	for _, id := range ids {
		pl.Entries = append(pl.Entries, m.newEntry(id))
	}
	return nil
}

func (m *MockMediaServer) Move(ctx context.Context, playlistID, entryID string, index int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.record("Move", playlistID, entryID, index); err != nil {
		return err
	}
	pl := m.playlistByID(playlistID)
	if pl == nil {
		return fmt.Errorf("%w: %q", shared.ErrPlaylistNotFound, playlistID)
	}

	from := slices.IndexFunc(pl.Entries, func(e models.PlaylistEntry) bool { return e.EntryID == entryID })
	if from < 0 {
		return fmt.Errorf("%w: no entry %q", shared.ErrInvalidArgument, entryID)
	}
	entry := pl.Entries[from]
	pl.Entries = slices.Delete(pl.Entries, from, from+1)
	index = min(max(index, 0), len(pl.Entries))
	pl.Entries = slices.Insert(pl.Entries, index, entry)
	return nil
}

func (m *MockMediaServer) AuthenticateByName(ctx context.Context, username, password string) (*services.AuthResult, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.record("AuthenticateByName", username); err != nil {
		return nil, err
	}
	if want, ok := m.users[username]; !ok || want != password {
		return nil, fmt.Errorf("%w: invalid username or password", shared.ErrInvalidCredentials)
	}
	return &services.AuthResult{
		UserID:   "user-" + username,
		UserName: username,
		Token:    "token-" + username,
		DeviceID: "mock-device",
	}, nil
}

// SetCredentials records the session the caller selected.
func (m *MockMediaServer) SetCredentials(userID, token, deviceID string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Credentials = [3]string{userID, token, deviceID}
}
