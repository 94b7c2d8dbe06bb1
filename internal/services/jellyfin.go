// Jellyfin REST API implementation of [MediaServer]
//
// Endpoint reference: https://api.jellyfin.org
package services

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/avast/retry-go/v4"
	"github.com/charmbracelet/log"
	"github.com/wkelton/jellytrek/internal/models"
	"github.com/wkelton/jellytrek/internal/shared"
	"golang.org/x/time/rate"
)

const (
	defaultClientName  = "jellytrek"
	ClientVersion      = "0.0.1"
	authorizationKey   = "X-Emby-Authorization"
	maxDeviceIDLength  = 255
	defaultRetryDelay  = 300 * time.Millisecond
	defaultRetries     = 3
	defaultMutationRPS = 5.0
)

type itemsResponse struct {
	Items            []models.RawItem `json:"Items"`
	TotalRecordCount int              `json:"TotalRecordCount"`
}

type authenticateRequest struct {
	Username string `json:"Username"`
	Pw       string `json:"Pw"`
}

type authenticateResponse struct {
	User struct {
		ID   string `json:"Id"`
		Name string `json:"Name"`
	} `json:"User"`
	AccessToken string `json:"AccessToken"`
}

type createPlaylistRequest struct {
	Name      string   `json:"Name"`
	UserID    string   `json:"UserId"`
	Ids       []string `json:"Ids"`
	MediaType string   `json:"MediaType"`
}

type createPlaylistResponse struct {
	ID string `json:"Id"`
}

// JellyfinService implements [MediaServer] over the Jellyfin REST API.
//
// GET requests are retried with exponential backoff on transport errors, 429 and 5xx responses.
// Every other method waits on a rate limiter and is sent exactly once.
type JellyfinService struct {
	baseURL    string
	clientName string
	device     string
	deviceID   string
	userID     string
	token      string
	libraries  shared.LibrariesConfig
	httpClient *http.Client
	attempts   uint
	retryDelay time.Duration
	limiter    *rate.Limiter
	logger     *log.Logger
}

// NewJellyfinService creates a client for the server in cfg.
//
// A nil httpClient gets one with the configured timeout. An empty device id is replaced with a fresh one from [NewDeviceID].
func NewJellyfinService(cfg shared.JellyfinConfig, libraries shared.LibrariesConfig, httpClient *http.Client) *JellyfinService {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: cfg.Timeout()}
	}

	hostname, err := os.Hostname()
	if err != nil || hostname == "" {
		hostname = "unknown"
	}

	s := &JellyfinService{
		baseURL:    strings.TrimRight(cfg.URL, "/"),
		clientName: cfg.ClientName,
		device:     hostname,
		deviceID:   cfg.DeviceID,
		userID:     cfg.UserID,
		token:      cfg.Token,
		libraries:  libraries,
		httpClient: httpClient,
		attempts:   cfg.RetryAttempts,
		retryDelay: defaultRetryDelay,
	}

	if s.clientName == "" {
		s.clientName = defaultClientName
	}
	if s.deviceID == "" {
		s.deviceID = NewDeviceID(hostname, time.Now())
	}
	if s.attempts == 0 {
		s.attempts = defaultRetries
	}
	mutationRate := cfg.MutationRate
	if mutationRate <= 0 {
		mutationRate = defaultMutationRPS
	}
	s.limiter = rate.NewLimiter(rate.Limit(mutationRate), 1)

	return s
}

// NewDeviceID builds a device id from the hostname and a nanosecond timestamp, capped at 255 characters.
//
// Jellyfin keeps one access token per device id, so each login gets a new one.
func NewDeviceID(hostname string, now time.Time) string {
	timestamp := strconv.FormatInt(now.UnixNano(), 10)
	maxHostname := maxDeviceIDLength - len(timestamp) - 1
	if len(hostname) > maxHostname-1 {
		hostname = hostname[:maxHostname-1]
	}
	return hostname + "-" + timestamp
}

// SetLogger sets the logger used to report retries.
func (s *JellyfinService) SetLogger(logger *log.Logger) { s.logger = logger }

// SetCredentials replaces the session used for authenticated requests.
func (s *JellyfinService) SetCredentials(userID, token, deviceID string) {
	s.userID = userID
	s.token = token
	if deviceID != "" {
		s.deviceID = deviceID
	}
}

// SetRetryDelay changes the initial backoff between GET attempts.
func (s *JellyfinService) SetRetryDelay(d time.Duration) { s.retryDelay = d }

// BaseURL returns the server address without a trailing slash.
func (s *JellyfinService) BaseURL() string { return s.baseURL }

// DeviceID returns the device id sent with every request.
func (s *JellyfinService) DeviceID() string { return s.deviceID }

// UserID returns the id of the authenticated user.
func (s *JellyfinService) UserID() string { return s.userID }

// AuthorizationHeader renders the MediaBrowser authorization header. The token is included only once known.
func (s *JellyfinService) AuthorizationHeader() string {
	parts := []string{
		fmt.Sprintf("Client=%q", s.clientName),
		fmt.Sprintf("Version=%q", ClientVersion),
		fmt.Sprintf("Device=%q", s.device),
		fmt.Sprintf("DeviceId=%q", s.deviceID),
	}
	if s.token != "" {
		parts = append(parts, fmt.Sprintf("Token=%q", s.token))
	}
	return "MediaBrowser " + strings.Join(parts, ", ")
}

// retryableError marks a failure another attempt may fix.
type retryableError struct{ err error }

func (e retryableError) Error() string { return e.err.Error() }
func (e retryableError) Unwrap() error { return e.err }

func isRetryable(err error) bool {
	var re retryableError
	return errors.As(err, &re)
}

func (s *JellyfinService) doRequest(ctx context.Context, method, endpoint string, query url.Values, body, result any) error {
	if method != http.MethodGet {
		if err := s.limiter.Wait(ctx); err != nil {
			return err
		}
		return s.send(ctx, method, endpoint, query, body, result)
	}

	return retry.Do(
		func() error { return s.send(ctx, method, endpoint, query, body, result) },
		retry.Context(ctx),
		retry.Attempts(s.attempts),
		retry.Delay(s.retryDelay),
		retry.DelayType(retry.BackOffDelay),
		retry.LastErrorOnly(true),
		retry.RetryIf(isRetryable),
		retry.OnRetry(func(n uint, err error) {
			if s.logger != nil {
				s.logger.Warn("retrying request", "endpoint", endpoint, "attempt", n+1, "error", err)
			}
		}),
	)
}

func (s *JellyfinService) send(ctx context.Context, method, endpoint string, query url.Values, body, result any) error {
	apiURL := s.baseURL + endpoint
	if len(query) > 0 {
		apiURL += "?" + query.Encode()
	}

	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to encode request: %w", err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, apiURL, reader)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set(authorizationKey, s.AuthorizationHeader())
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := s.httpClient.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		return retryableError{fmt.Errorf("%w: %s %s: %v", shared.ErrAPIRequest, method, endpoint, err)}
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusUnauthorized:
		return fmt.Errorf("%w: %s %s: %s", shared.ErrNotAuthenticated, method, endpoint, resp.Status)
	case resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500:
		return retryableError{fmt.Errorf("%w: %s %s: %s", shared.ErrServiceUnavailable, method, endpoint, resp.Status)}
	case resp.StatusCode < 200 || resp.StatusCode >= 300:
		return fmt.Errorf("%w: %s %s: %s", shared.ErrAPIRequest, method, endpoint, resp.Status)
	}

	if result == nil || resp.StatusCode == http.StatusNoContent {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(result); err != nil {
		return fmt.Errorf("%w: failed to decode response: %v", shared.ErrAPIRequest, err)
	}
	return nil
}

func (s *JellyfinService) requireUser() error {
	if s.userID == "" || s.token == "" {
		return fmt.Errorf("%w: missing user id or token, run login first", shared.ErrNotAuthenticated)
	}
	return nil
}

// AuthenticateByName logs in and keeps the returned user id and token for later requests.
//
// Calls POST /Users/AuthenticateByName. A 401 means the username or password is wrong.
func (s *JellyfinService) AuthenticateByName(ctx context.Context, username, password string) (*AuthResult, error) {
	if username == "" {
		return nil, fmt.Errorf("%w: username", shared.ErrMissingCredentials)
	}

	s.token = ""
	var resp authenticateResponse
	err := s.doRequest(ctx, http.MethodPost, "/Users/AuthenticateByName", nil, authenticateRequest{Username: username, Pw: password}, &resp)
	if errors.Is(err, shared.ErrNotAuthenticated) {
		return nil, fmt.Errorf("%w: invalid username or password", shared.ErrInvalidCredentials)
	}
	if err != nil {
		return nil, err
	}
	if resp.AccessToken == "" || resp.User.ID == "" {
		return nil, fmt.Errorf("%w: login response has no token", shared.ErrAPIRequest)
	}

	s.userID, s.token = resp.User.ID, resp.AccessToken
	return &AuthResult{
		UserID:   resp.User.ID,
		UserName: resp.User.Name,
		Token:    resp.AccessToken,
		DeviceID: s.deviceID,
	}, nil
}

func (s *JellyfinService) userItems(ctx context.Context, query url.Values) ([]models.RawItem, error) {
	if err := s.requireUser(); err != nil {
		return nil, err
	}
	var resp itemsResponse
	if err := s.doRequest(ctx, http.MethodGet, "/Users/"+url.PathEscape(s.userID)+"/Items", query, nil, &resp); err != nil {
		return nil, err
	}
	return resp.Items, nil
}

// FetchLibraries lists the user's top-level views.
//
// Calls GET /Users/{userId}/Items.
func (s *JellyfinService) FetchLibraries(ctx context.Context) ([]models.Library, error) {
	items, err := s.userItems(ctx, nil)
	if err != nil {
		return nil, err
	}

	libraries := make([]models.Library, 0, len(items))
	for _, item := range items {
		libraries = append(libraries, models.Library{ID: item.ID, Name: item.Name})
	}
	return libraries, nil
}

func (s *JellyfinService) findLibrary(ctx context.Context, name string) (*models.Library, error) {
	libraries, err := s.FetchLibraries(ctx)
	if err != nil {
		return nil, err
	}
	for _, lib := range libraries {
		if lib.Name == name {
			return &lib, nil
		}
	}
	return nil, fmt.Errorf("%w: %q", shared.ErrLibraryNotFound, name)
}

// FetchLibraryTree returns every item below the named library.
//
// Calls GET /Users/{userId}/Items?ParentId={libraryId}&Recursive=true.
func (s *JellyfinService) FetchLibraryTree(ctx context.Context, library string) ([]models.RawItem, error) {
	lib, err := s.findLibrary(ctx, library)
	if err != nil {
		return nil, err
	}
	return s.userItems(ctx, url.Values{"ParentId": {lib.ID}, "Recursive": {"true"}})
}

// FetchPlaylist finds the playlist called name in the playlists library and reads its entries.
//
// Calls GET /Playlists/{playlistId}/Items?UserId={userId}. Entries carry the PlaylistItemId needed by [JellyfinService.Move].
func (s *JellyfinService) FetchPlaylist(ctx context.Context, name string) (*models.Playlist, error) {
	candidates, err := s.FetchLibraryTree(ctx, s.libraries.Playlists)
	if err != nil {
		return nil, err
	}

	var playlist *models.Playlist
	for _, item := range candidates {
		if item.Name == name {
			playlist = &models.Playlist{ID: item.ID, Name: item.Name}
			break
		}
	}
	if playlist == nil {
		return nil, fmt.Errorf("%w: %q", shared.ErrPlaylistNotFound, name)
	}

	var resp itemsResponse
	endpoint := "/Playlists/" + url.PathEscape(playlist.ID) + "/Items"
	if err := s.doRequest(ctx, http.MethodGet, endpoint, url.Values{"UserId": {s.userID}}, nil, &resp); err != nil {
		return nil, err
	}

	playlist.Entries = make([]models.PlaylistEntry, 0, len(resp.Items))
	for _, item := range resp.Items {
		playlist.Entries = append(playlist.Entries, models.PlaylistEntry{ItemID: item.ID, EntryID: item.PlaylistItemID, Name: item.Name})
	}
	return playlist, nil
}

// CreatePlaylist creates a video playlist holding ids in order.
//
// Calls POST /Playlists.
func (s *JellyfinService) CreatePlaylist(ctx context.Context, name string, ids []string) (string, error) {
	if err := s.requireUser(); err != nil {
		return "", err
	}

	var resp createPlaylistResponse
	req := createPlaylistRequest{Name: name, UserID: s.userID, Ids: ids, MediaType: models.MediaTypeVideo}
	if err := s.doRequest(ctx, http.MethodPost, "/Playlists", nil, req, &resp); err != nil {
		return "", err
	}
	return resp.ID, nil
}

// Append adds ids to the end of the playlist.
//
// Calls POST /Playlists/{playlistId}/Items?Ids=a,b&UserId={userId}.
func (s *JellyfinService) Append(ctx context.Context, playlistID string, ids []string) error {
	if err := s.requireUser(); err != nil {
		return err
	}
	if len(ids) == 0 {
		return nil
	}

	query := url.Values{"Ids": {strings.Join(ids, ",")}, "UserId": {s.userID}}
	return s.doRequest(ctx, http.MethodPost, "/Playlists/"+url.PathEscape(playlistID)+"/Items", query, nil, nil)
}

// Move moves a playlist entry to index.
//
// Calls POST /Playlists/{playlistId}/Items/{playlistItemId}/Move/{index}.
func (s *JellyfinService) Move(ctx context.Context, playlistID, entryID string, index int) error {
	if err := s.requireUser(); err != nil {
		return err
	}
	if entryID == "" {
		return fmt.Errorf("%w: empty playlist entry id", shared.ErrInvalidArgument)
	}

	endpoint := fmt.Sprintf("/Playlists/%s/Items/%s/Move/%d", url.PathEscape(playlistID), url.PathEscape(entryID), index)
	return s.doRequest(ctx, http.MethodPost, endpoint, nil, nil, nil)
}
