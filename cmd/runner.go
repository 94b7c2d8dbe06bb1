package main

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"

	"github.com/charmbracelet/log"
	"github.com/urfave/cli/v3"

	"github.com/wkelton/jellytrek/internal/repositories"
	"github.com/wkelton/jellytrek/internal/services"
	"github.com/wkelton/jellytrek/internal/shared"
	"github.com/wkelton/jellytrek/internal/tasks"
)

// credentialSetter is implemented by servers that accept a stored session.
type credentialSetter interface {
	SetCredentials(userID, token, deviceID string)
}

// Runner holds all dependencies for CLI commands and provides methods for each command action.
type Runner struct {
	config     *shared.Config
	configPath string
	server     services.MediaServer
	httpClient *http.Client
	db         *sql.DB
	sessions   *repositories.SessionRepository
	logger     *log.Logger
	output     io.Writer
	engine     *tasks.PlaylistEngine
	openURL    func(string) error
}

// RunnerOpts contains configuration options for creating a Runner.
type RunnerOpts struct {
	Config     *shared.Config
	ConfigPath string
	Server     services.MediaServer // defaults to a [services.JellyfinService] for Config
	HTTPClient *http.Client
	DB         *sql.DB // opened from Config on first use when nil
	Logger     *log.Logger
	Output     io.Writer
	OpenURL    func(string) error // defaults to [shared.OpenBrowser]
}

// NewRunner creates a new Runner with the provided configuration
func NewRunner(opts RunnerOpts) *Runner {
	if opts.Config == nil {
		opts.Config = shared.DefaultConfig()
	}
	if opts.Logger == nil {
		opts.Logger = shared.NewLogger(nil)
	}
	if opts.Output == nil {
		opts.Output = os.Stdout
	}
	if opts.OpenURL == nil {
		opts.OpenURL = shared.OpenBrowser
	}
	if opts.HTTPClient == nil {
		opts.HTTPClient = &http.Client{Timeout: opts.Config.Jellyfin.Timeout()}
	}
	if opts.Server == nil {
		jellyfin := services.NewJellyfinService(opts.Config.Jellyfin, opts.Config.Libraries, opts.HTTPClient)
		jellyfin.SetLogger(opts.Logger)
		opts.Server = jellyfin
	}

	r := &Runner{
		config:     opts.Config,
		configPath: opts.ConfigPath,
		server:     opts.Server,
		httpClient: opts.HTTPClient,
		db:         opts.DB,
		logger:     opts.Logger,
		output:     opts.Output,
		openURL:    opts.OpenURL,
	}
	if opts.DB != nil {
		r.sessions = repositories.NewSessionRepository(opts.DB)
	}
	r.engine = tasks.NewPlaylistEngine(r.server, r.server, r.server, r.config.Libraries, r.logger)
	return r
}

// SetLogger replaces the logger used by the runner, the engine and the Jellyfin client.
func (r *Runner) SetLogger(logger *log.Logger) {
	r.logger = logger
	if jellyfin, ok := r.server.(*services.JellyfinService); ok {
		jellyfin.SetLogger(logger)
	}
	r.engine = tasks.NewPlaylistEngine(r.server, r.server, r.server, r.config.Libraries, logger)
}

// Close releases the session database when the runner opened it.
func (r *Runner) Close() error {
	if r.db == nil {
		return nil
	}
	err := r.db.Close()
	r.db, r.sessions = nil, nil
	return err
}

func (r *Runner) register() []*cli.Command {
	commands := []*cli.Command{}
	for _, fn := range [](func(*Runner) *cli.Command){
		setupCommand, loginCommand, sessionsCommand, checkVideosCommand, checkPlaylistCommand,
		createPlaylistCommand, updatePlaylistCommand, reviewCommand,
	} {
		commands = append(commands, fn(r))
	}

	return commands
}

// sessionRepository opens the configured database on first use.
func (r *Runner) sessionRepository() (*repositories.SessionRepository, error) {
	if r.sessions != nil {
		return r.sessions, nil
	}

	db, err := shared.OpenDatabase(r.config.Database)
	if err != nil {
		return nil, fmt.Errorf("failed to open session store: %w", err)
	}
	r.db = db
	r.sessions = repositories.NewSessionRepository(db)
	return r.sessions, nil
}

// authenticate selects the credentials for Jellyfin requests.
//
// Precedence: --user-id/--token flags, then the config file, then the newest stored session for the server.
func (r *Runner) authenticate(cmd *cli.Command) error {
	setter, ok := r.server.(credentialSetter)
	if !ok {
		return nil
	}

	if userID, token := cmd.String("user-id"), cmd.String("token"); userID != "" && token != "" {
		r.logger.Debug("using credentials from flags", "user_id", userID)
		setter.SetCredentials(userID, token, "")
		return nil
	}

	if cfg := r.config.Jellyfin; cfg.UserID != "" && cfg.Token != "" {
		r.logger.Debug("using credentials from config", "user_id", cfg.UserID)
		setter.SetCredentials(cfg.UserID, cfg.Token, cfg.DeviceID)
		return nil
	}

	sessions, err := r.sessionRepository()
	if err != nil {
		return err
	}
	session, err := sessions.Latest(r.config.Jellyfin.URL)
	if errors.Is(err, shared.ErrSessionNotFound) {
		return fmt.Errorf("%w: run `jellytrek login` or set [jellyfin] user_id and token", shared.ErrNotAuthenticated)
	}
	if err != nil {
		return err
	}

	r.logger.Debug("using stored session", "user", session.UserName(), "session", session.ID())
	setter.SetCredentials(session.UserID(), session.Token(), session.DeviceID())
	return nil
}

// lock takes the mutation lock kept next to the database.
func (r *Runner) lock() (func(), error) {
	lock, err := shared.AcquireLock(shared.LockPath(r.config.Database.Path))
	if err != nil {
		return nil, err
	}
	return func() {
		if err := lock.Unlock(); err != nil {
			r.logger.Warn("failed to release lock", "error", err)
		}
	}, nil
}

// progress starts a goroutine printing engine updates to the log. The returned func closes the channel.
func (r *Runner) progress() (chan tasks.ProgressUpdate, func()) {
	ch := make(chan tasks.ProgressUpdate, 50)
	done := make(chan struct{})
	go func() {
		defer close(done)
		for update := range ch {
			switch update.Phase {
			case tasks.MatchEntries, tasks.MoveItems:
				r.logger.Debug(update.Message, "phase", update.Phase)
			default:
				r.logger.Info(update.Message, "phase", update.Phase)
			}
		}
	}()
	return ch, func() {
		close(ch)
		<-done
	}
}

func (r *Runner) writeJSON(data any, pretty bool) error {
	var output []byte
	var err error

	if pretty {
		output, err = json.MarshalIndent(data, "", "  ")
	} else {
		output, err = json.Marshal(data)
	}

	if err != nil {
		return fmt.Errorf("failed to marshal JSON: %w", err)
	}

	if _, err := r.output.Write(output); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}

	if _, err := r.output.Write([]byte("\n")); err != nil {
		return fmt.Errorf("failed to write newline: %w", err)
	}

	return nil
}

func (r *Runner) writePlain(format string, args ...any) error {
	text := fmt.Sprintf(format, args...)
	if _, err := r.output.Write([]byte(text)); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

func (r *Runner) writePlainHeader(title string) {
	r.writePlain("═══════════════════════════════════════\n")
	r.writePlain("%v\n", title)
	r.writePlain("═══════════════════════════════════════\n")
}
