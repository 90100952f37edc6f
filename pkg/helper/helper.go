package helper

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/benfiola/steamcmd-wrapper/pkg/steamcmd"
)

// A Helper exposes steamcmd sessions as a command line tool.
type Helper struct {
	Config  Config
	Context context.Context
	Logger  *slog.Logger
	// SessionOpts are passed to every [steamcmd.New] call.  The logger is always overwritten by [Helper.Logger].
	SessionOpts steamcmd.Opts
	Stdout      io.Writer
	Version     string
}

// Initializes the helper - parsing configuration, setting struct member defaults and validating others.
// This is called automatically if [Helper.Run] is called.  Otherwise, it is expected that this function is called prior to calling any [Helper] methods.
// Returns an error if the environment cannot be parsed or invalid arguments are provided to the [Helper].
func (h *Helper) Initialize() error {
	err := parseConfig(&h.Config)
	if err != nil {
		return err
	}
	if h.Context == nil {
		h.Context = context.Background()
	}
	if h.Logger == nil {
		h.Logger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: h.Config.LogLevel}))
	}
	if h.Stdout == nil {
		h.Stdout = os.Stdout
	}
	if h.Version == "" {
		return fmt.Errorf("version must be defined")
	}
	return nil
}

// Creates a [steamcmd.Session] for the configured installation directory, carrying configured credentials.
// Returns an error if the session cannot be created.
func (h *Helper) NewSession() (*steamcmd.Session, error) {
	opts := h.SessionOpts
	opts.Logger = h.Logger
	if opts.DownloadDir == "" {
		opts.DownloadDir = h.Config.DownloadDir
	}
	session, err := steamcmd.New(h.Config.InstallDir, opts)
	if err != nil {
		return nil, err
	}
	if h.Config.Username != "" {
		session.SetCredentials(h.Config.Username, h.Config.Password)
	}
	return session, nil
}

// Runs the helper with the provided arguments.
// Returns an error on failure.
func (h *Helper) main(args ...string) error {
	err := h.Initialize()
	if err != nil {
		return err
	}

	root := h.rootCommand()
	if len(args) > 0 {
		args = args[1:]
	}
	root.SetArgs(args)
	return root.ExecuteContext(h.Context)
}

// Runs the helper with the process arguments, and exits on completion.
// Exits with status code 0 on success.
// Exits with status code 1 on failure.
func (h *Helper) Run() {
	err := h.main(os.Args...)

	code := 0
	if err != nil {
		code = 1
		logger := h.Logger
		if logger == nil {
			logger = slog.Default()
		}
		logger.Error("helper failed", "error", err.Error())
	}

	os.Exit(code)
}
