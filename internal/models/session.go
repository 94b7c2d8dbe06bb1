package models

import (
	"fmt"
	"strings"
	"time"
)

// Model is implemented by every persisted entity.
type Model interface {
	ID() string           // ID returns the unique identifier for this model
	CreatedAt() time.Time // CreatedAt returns when this model was created
	UpdatedAt() time.Time // UpdatedAt returns when this model was last updated
	Validate() error      // Validate checks if the model's data is valid and returns an error if not
}

// Repository defines the data access operations for a [Model].
type Repository[T Model] interface {
	Create(model T) error                      // Create inserts a new model into the database
	Get(id string) (T, error)                  // Get retrieves a model by its ID
	Delete(id string) error                    // Delete removes a model from the database by its ID
	List(criteria map[string]any) ([]T, error) // List retrieves all models matching the given criteria
}

var _ Model = (*Session)(nil)

// Session is a successful Jellyfin login: the access token and the device id it was issued to.
type Session struct {
	id        string
	sequence  int
	serverURL string
	userID    string
	userName  string
	token     string
	deviceID  string
	createdAt time.Time
	updatedAt time.Time
	deletedAt *time.Time
}

// NewSession creates an unsaved [Session]. The server URL is stored without a trailing slash.
func NewSession(serverURL, userID, userName, token, deviceID string) *Session {
	now := time.Now()
	return &Session{
		serverURL: strings.TrimRight(serverURL, "/"),
		userID:    userID,
		userName:  userName,
		token:     token,
		deviceID:  deviceID,
		createdAt: now,
		updatedAt: now,
	}
}

func (s *Session) ID() string            { return s.id }
func (s *Session) Sequence() int         { return s.sequence }
func (s *Session) ServerURL() string     { return s.serverURL }
func (s *Session) UserID() string        { return s.userID }
func (s *Session) UserName() string      { return s.userName }
func (s *Session) Token() string         { return s.token }
func (s *Session) DeviceID() string      { return s.deviceID }
func (s *Session) CreatedAt() time.Time  { return s.createdAt }
func (s *Session) UpdatedAt() time.Time  { return s.updatedAt }
func (s *Session) DeletedAt() *time.Time { return s.deletedAt }

func (s *Session) SetID(id string)           { s.id = id }
func (s *Session) SetSequence(seq int)       { s.sequence = seq }
func (s *Session) SetCreatedAt(t time.Time)  { s.createdAt = t }
func (s *Session) SetUpdatedAt(t time.Time)  { s.updatedAt = t }
func (s *Session) SetDeletedAt(t *time.Time) { s.deletedAt = t }

// Validate checks that the session can authenticate requests.
func (s *Session) Validate() error {
	switch {
	case s.serverURL == "":
		return fmt.Errorf("server url is required")
	case s.userID == "":
		return fmt.Errorf("user id is required")
	case s.token == "":
		return fmt.Errorf("token is required")
	case s.deviceID == "":
		return fmt.Errorf("device id is required")
	}
	return nil
}
