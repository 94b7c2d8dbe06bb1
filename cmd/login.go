package main

import (
	"context"
	"fmt"
	"time"

	"github.com/urfave/cli/v3"

	"github.com/wkelton/jellytrek/internal/models"
	"github.com/wkelton/jellytrek/internal/shared"
)

type sessionView struct {
	ID        string    `json:"id"`
	ServerURL string    `json:"server_url"`
	UserID    string    `json:"user_id"`
	UserName  string    `json:"user_name"`
	DeviceID  string    `json:"device_id"`
	CreatedAt time.Time `json:"created_at"`
}

func newSessionView(s *models.Session) sessionView {
	return sessionView{
		ID:        s.ID(),
		ServerURL: s.ServerURL(),
		UserID:    s.UserID(),
		UserName:  s.UserName(),
		DeviceID:  s.DeviceID(),
		CreatedAt: s.CreatedAt(),
	}
}

// Login authenticates with a username and password and stores the returned session.
func (r *Runner) Login(ctx context.Context, cmd *cli.Command) error {
	username := cmd.String("username")
	if username == "" {
		return fmt.Errorf("%w: --username", shared.ErrMissingArgument)
	}

	r.logger.Info("logging in", "server", r.config.Jellyfin.URL, "user", username)

	auth, err := r.server.AuthenticateByName(ctx, username, cmd.String("password"))
	if err != nil {
		return err
	}

	sessions, err := r.sessionRepository()
	if err != nil {
		return err
	}

	session := models.NewSession(r.config.Jellyfin.URL, auth.UserID, auth.UserName, auth.Token, auth.DeviceID)
	if err := sessions.Create(session); err != nil {
		return fmt.Errorf("failed to store session: %w", err)
	}
	r.logger.Debug("stored session", "session", session.ID(), "device", auth.DeviceID)

	if cmd.Bool("json") {
		return r.writeJSON(newSessionView(session), true)
	}
	return r.writePlain("✓ Logged in as %s (user id %s)\n", auth.UserName, auth.UserID)
}

// SessionsList prints the stored sessions for the configured server, or all of them with --all.
func (r *Runner) SessionsList(ctx context.Context, cmd *cli.Command) error {
	sessions, err := r.sessionRepository()
	if err != nil {
		return err
	}

	criteria := map[string]any{}
	if !cmd.Bool("all") {
		criteria["server_url"] = r.config.Jellyfin.URL
	}

	list, err := sessions.List(criteria)
	if err != nil {
		return err
	}

	views := make([]sessionView, len(list))
	for i, s := range list {
		views[i] = newSessionView(s)
	}

	if cmd.Bool("json") {
		return r.writeJSON(views, true)
	}
	if len(views) == 0 {
		return r.writePlain("No stored sessions. Run `jellytrek login` first.\n")
	}

	rows := make([][]string, len(views))
	for i, v := range views {
		rows[i] = []string{v.ID, v.UserName, v.ServerURL, v.DeviceID, v.CreatedAt.Format(time.DateTime)}
	}
	return r.writeTable([]string{"ID", "User", "Server", "Device", "Created"}, rows, nil)
}

// SessionsDelete forgets one stored session.
func (r *Runner) SessionsDelete(ctx context.Context, cmd *cli.Command) error {
	id := cmd.StringArg("id")
	if id == "" {
		return fmt.Errorf("%w: session id", shared.ErrMissingArgument)
	}

	sessions, err := r.sessionRepository()
	if err != nil {
		return err
	}
	if err := sessions.Delete(id); err != nil {
		return err
	}
	return r.writePlain("✓ Deleted session %s\n", id)
}
