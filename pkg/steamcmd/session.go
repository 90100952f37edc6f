package steamcmd

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

// AnonymousUser is the username used until [Session.Login] is called
const AnonymousUser = "anonymous"

const (
	// exitCodeFirstRun is returned by a freshly installed steamcmd after it updates itself.  It is harmless.
	exitCodeFirstRun = 7
	// exitCodeTimeout is returned when a download times out
	exitCodeTimeout = 10
	// exitCodeAssert is returned when steamcmd aborts on an internal assert, typically after a timed out download
	exitCodeAssert = 134
)

// redacted replaces the password in logged command lines
const redacted = "*****"

// Opts are optional parameters supplied to [New]
type Opts struct {
	// DownloadDir receives the installer archive.  Defaults to the current working directory.
	DownloadDir string
	HttpClient  *http.Client
	Logger      *slog.Logger
	// Platform overrides the detected GOOS
	Platform string
	Prompter Prompter
	Runner   Runner
	// Url overrides the platform's installer url
	Url string
}

// Session wraps a steamcmd installation directory.
// A session is not safe for concurrent use.
type Session struct {
	archive     string
	downloadDir string
	exe         string
	httpClient  *http.Client
	id          string
	installDir  string
	logger      *slog.Logger
	password    string
	platform    string
	prompter    Prompter
	runner      Runner
	url         string
	username    string
}

// Creates a [Session] for the given installation directory.
// Returns an error if the installation directory does not exist.
// Returns an error if the current platform is not supported.
func New(installDir string, opts Opts) (*Session, error) {
	fail := func(err error) (*Session, error) {
		return nil, err
	}

	stat, err := os.Stat(installDir)
	if err != nil || !stat.IsDir() {
		return fail(fmt.Errorf("%w: no valid directory found at %s", ErrInstall, installDir))
	}

	platform, info, err := lookupPlatform(opts.Platform)
	if err != nil {
		return fail(err)
	}

	id := uuid.NewString()
	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{}))
	}
	logger = logger.With("session", id)

	httpClient := opts.HttpClient
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	prompter := opts.Prompter
	if prompter == nil {
		prompter = &TerminalPrompter{}
	}
	runner := opts.Runner
	if runner == nil {
		runner = &ShellRunner{Logger: logger}
	}
	url := opts.Url
	if url == "" {
		url = info.Url
	}

	return &Session{
		archive:     "steamcmd" + info.ArchiveExtension,
		downloadDir: opts.DownloadDir,
		exe:         filepath.Join(installDir, "steamcmd"+info.Extension),
		httpClient:  httpClient,
		id:          id,
		installDir:  installDir,
		logger:      logger,
		platform:    platform,
		prompter:    prompter,
		runner:      runner,
		url:         url,
		username:    AnonymousUser,
	}, nil
}

// Returns the path to the steamcmd executable
func (s *Session) Exe() string {
	return s.exe
}

// Returns the installation directory
func (s *Session) InstallDir() string {
	return s.installDir
}

// Returns the username used to log in
func (s *Session) Username() string {
	return s.username
}

// Returns the unique id attached to this session's log records
func (s *Session) Id() string {
	return s.id
}

// Stores credentials and performs a login-only invocation of steamcmd.
// An empty username or password is prompted for.
// Returns an error if prompting fails or steamcmd fails.
func (s *Session) Login(ctx context.Context, username string, password string) (int, error) {
	var err error
	if username == "" {
		username, err = s.prompter.Username()
		if err != nil {
			return 0, err
		}
	}
	if password == "" {
		password, err = s.prompter.Password()
		if err != nil {
			return 0, err
		}
	}
	s.SetCredentials(username, password)
	s.logger.Info("login", "user", s.username)
	return s.Execute(ctx, NewCommand(), 1)
}

// Stores credentials for subsequent executions without invoking steamcmd.
// An empty username resets the session to [AnonymousUser].
func (s *Session) SetCredentials(username string, password string) {
	if username == "" {
		username = AnonymousUser
	}
	s.username = username
	s.password = password
}

// Assembles the full command line.  Also returns a copy with the password redacted for logging.
func (s *Session) cmdLine(cmd *Command) (string, string) {
	if cmd == nil {
		cmd = NewCommand()
	}
	build := func(password string) string {
		parts := []string{s.exe, "+login", s.username}
		if password != "" {
			parts = append(parts, password)
		}
		if rendered := cmd.String(); rendered != "" {
			parts = append(parts, rendered)
		}
		parts = append(parts, "+quit")
		return strings.Join(parts, " ")
	}
	logged := ""
	if s.password != "" {
		logged = redacted
	}
	return build(s.password), build(logged)
}

// Runs a command, retrying timeouts and asserts until maxTries attempts have been made.
// Returns stdout when output is captured (i.e. not attached).
func (s *Session) run(ctx context.Context, cmd *Command, maxTries int, attach bool) (string, error) {
	cmdLine, logged := s.cmdLine(cmd)
	for tries := maxTries; ; tries-- {
		if tries <= 0 {
			return "", fmt.Errorf("%w: consider increasing max tries for particularly large downloads", ErrDownload)
		}

		s.logger.Info("run steamcmd", "command", logged, "tries", tries)
		output, err := s.runner.RunCommand(ctx, cmdLine, CmdOpts{Attach: attach})
		if err == nil {
			return output, nil
		}

		code, ok := exitCode(err)
		if !ok {
			return output, fmt.Errorf("%w: %w", ErrSteamCmd, err)
		}
		switch code {
		case exitCodeTimeout:
			s.logger.Warn("download timeout, retrying", "code", code, "tries", tries-1)
		case exitCodeAssert:
			s.logger.Warn("steamcmd errored, retrying", "code", code, "tries", tries-1)
		default:
			return output, &ExitError{Code: code}
		}
	}
}

// Executes a command between a login and a quit directive.
// Exit codes 10 (download timeout) and 134 (internal assert) are retried until maxTries attempts have been made.
// Returns the exit code (0) on success.
// Returns [ErrDownload] if the tries are exhausted - including when maxTries is 0 to begin with.
// Returns an [ExitError] for any other non-zero exit code.
func (s *Session) Execute(ctx context.Context, cmd *Command, maxTries int) (int, error) {
	_, err := s.run(ctx, cmd, maxTries, true)
	if err != nil {
		var exitErr *ExitError
		if errors.As(err, &exitErr) {
			return exitErr.Code, err
		}
		return 0, err
	}
	return 0, nil
}

// Installs or updates an app, optionally into a custom directory.
// Returns an error if steamcmd fails.
func (s *Session) AppUpdate(ctx context.Context, appId int, opts AppUpdateOpts) (int, error) {
	cmd := NewCommand()
	if opts.InstallDir != "" {
		cmd.ForceInstallDir(opts.InstallDir)
	}
	cmd.AppUpdate(appId, opts)
	s.logger.Info("app update", "app", appId, "dir", opts.InstallDir, "validate", opts.Validate, "beta", opts.Beta)
	return s.Execute(ctx, cmd, 1)
}

// defaultWorkshopTries is the number of attempts made by [Session.WorkshopUpdate] when unset.
// Large workshop downloads regularly time out.
const defaultWorkshopTries = 5

// WorkshopUpdateOpts are optional parameters supplied to [Session.WorkshopUpdate]
type WorkshopUpdateOpts struct {
	InstallDir string
	MaxTries   int
	Validate   bool
}

// Downloads or updates a workshop item, optionally into a custom directory.
// Returns an error if steamcmd fails.
func (s *Session) WorkshopUpdate(ctx context.Context, appId int, workshopId int, opts WorkshopUpdateOpts) (int, error) {
	maxTries := opts.MaxTries
	if maxTries == 0 {
		maxTries = defaultWorkshopTries
	}
	cmd := NewCommand()
	if opts.InstallDir != "" {
		cmd.ForceInstallDir(opts.InstallDir)
	}
	cmd.WorkshopDownloadItem(appId, workshopId, opts.Validate)
	s.logger.Info("workshop update", "app", appId, "item", workshopId, "dir", opts.InstallDir, "validate", opts.Validate)
	return s.Execute(ctx, cmd, maxTries)
}
