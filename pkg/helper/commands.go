package helper

import (
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/benfiola/steamcmd-wrapper/pkg/steamcmd"
	"github.com/spf13/cobra"
)

// Builds the command tree exposed by the helper
func (h *Helper) rootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:           "steamcmd-wrapper",
		Short:         "Install steamcmd and run steamcmd commands",
		SilenceErrors: true,
		SilenceUsage:  true,
	}
	root.SetOut(h.Stdout)
	root.AddCommand(
		h.installCommand(),
		h.loginCommand(),
		h.appUpdateCommand(),
		h.workshopUpdateCommand(),
		h.runCommand(),
		h.appInfoCommand(),
		h.versionCommand(),
	)
	return root
}

// Parses a positional numeric id
func parseId(name string, value string) (int, error) {
	id, err := strconv.Atoi(value)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q: %w", name, value, err)
	}
	return id, nil
}

// Installs steamcmd.  An existing installation is not an error.
func (h *Helper) installCommand() *cobra.Command {
	force := false
	cmd := &cobra.Command{
		Use:   "install",
		Short: "Download and install steamcmd into the install directory",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			session, err := h.NewSession()
			if err != nil {
				return err
			}
			err = session.Install(cmd.Context(), force)
			if steamcmd.IsAlreadyInstalled(err) {
				h.Logger.Info("steamcmd already installed", "exe", session.Exe())
				return nil
			}
			return err
		},
	}
	cmd.Flags().BoolVar(&force, "force", false, "reinstall even if steamcmd is present")
	return cmd
}

// Logs in, prompting for missing credentials.  Steamcmd caches the login for later runs.
func (h *Helper) loginCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "login [username]",
		Short: "Log in to steam (prompts for missing credentials)",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			session, err := h.NewSession()
			if err != nil {
				return err
			}
			username := h.Config.Username
			if len(args) > 0 {
				username = args[0]
			}
			_, err = session.Login(cmd.Context(), username, h.Config.Password)
			return err
		},
	}
}

// Installs or updates an app
func (h *Helper) appUpdateCommand() *cobra.Command {
	opts := steamcmd.AppUpdateOpts{}
	cmd := &cobra.Command{
		Use:   "app-update <app-id>",
		Short: "Install or update an app",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			appId, err := parseId("app id", args[0])
			if err != nil {
				return err
			}
			session, err := h.NewSession()
			if err != nil {
				return err
			}
			_, err = session.AppUpdate(cmd.Context(), appId, opts)
			return err
		},
	}
	cmd.Flags().StringVar(&opts.InstallDir, "dir", "", "directory the app is installed into")
	cmd.Flags().BoolVar(&opts.Validate, "validate", false, "validate installed files")
	cmd.Flags().StringVar(&opts.Beta, "beta", "", "beta branch")
	cmd.Flags().StringVar(&opts.BetaPassword, "beta-password", "", "beta branch password")
	return cmd
}

// Downloads or updates a workshop item
func (h *Helper) workshopUpdateCommand() *cobra.Command {
	opts := steamcmd.WorkshopUpdateOpts{}
	cmd := &cobra.Command{
		Use:   "workshop-update <app-id> <workshop-id>",
		Short: "Download or update a workshop item",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			appId, err := parseId("app id", args[0])
			if err != nil {
				return err
			}
			workshopId, err := parseId("workshop id", args[1])
			if err != nil {
				return err
			}
			if !cmd.Flags().Changed("tries") {
				opts.MaxTries = h.Config.MaxTries
			}
			session, err := h.NewSession()
			if err != nil {
				return err
			}
			_, err = session.WorkshopUpdate(cmd.Context(), appId, workshopId, opts)
			return err
		},
	}
	cmd.Flags().StringVar(&opts.InstallDir, "dir", "", "directory the item is downloaded into")
	cmd.Flags().BoolVar(&opts.Validate, "validate", false, "validate downloaded files")
	cmd.Flags().IntVar(&opts.MaxTries, "tries", 0, "attempts before giving up on timeouts (defaults to STEAMCMD_MAX_TRIES)")
	return cmd
}

// Runs arbitrary steamcmd directives with a single login
func (h *Helper) runCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "run <directive>...",
		Short: "Run steamcmd directives (e.g. '+app_update 740 validate') with a single login",
		Args:  cobra.MinimumNArgs(1),
		// directives such as '-beta' must not be mistaken for flags
		DisableFlagParsing: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			session, err := h.NewSession()
			if err != nil {
				return err
			}
			command := steamcmd.NewCommand()
			for _, arg := range args {
				command.Custom(arg)
			}
			_, err = session.Execute(cmd.Context(), command, h.Config.MaxTries)
			return err
		},
	}
}

// Prints app info as JSON, or the manifest id of a depot branch
func (h *Helper) appInfoCommand() *cobra.Command {
	branch := ""
	depot := ""
	cmd := &cobra.Command{
		Use:   "app-info <app-id>",
		Short: "Print app info as JSON (or a depot's manifest id with --depot)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			appId, err := parseId("app id", args[0])
			if err != nil {
				return err
			}
			session, err := h.NewSession()
			if err != nil {
				return err
			}
			appInfo, err := session.AppInfo(cmd.Context(), appId)
			if err != nil {
				return err
			}
			if depot != "" {
				manifestId, err := steamcmd.ManifestId(appInfo, depot, branch)
				if err != nil {
					return err
				}
				fmt.Fprintln(h.Stdout, manifestId)
				return nil
			}
			data, err := json.MarshalIndent(appInfo, "", "  ")
			if err != nil {
				return err
			}
			fmt.Fprintln(h.Stdout, string(data))
			return nil
		},
	}
	cmd.Flags().StringVar(&depot, "depot", "", "print the manifest id of this depot")
	cmd.Flags().StringVar(&branch, "branch", "public", "branch used with --depot")
	return cmd
}
