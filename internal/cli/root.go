package cli

import (
	"errors"
	"fmt"
	"io"

	"github.com/ecruz165/ansible-scaffold/internal/branding"
	"github.com/ecruz165/ansible-scaffold/internal/config"
	"github.com/ecruz165/ansible-scaffold/internal/logging"
	"github.com/ecruz165/ansible-scaffold/internal/scaffold"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	buildVersion string
	buildCommit  string
	buildDate    string
)

// errUsage is returned when the command is not given exactly one project name.
var errUsage = errors.New("expected exactly one project name")

type rootOptions struct {
	fs         afero.Fs
	viper      *viper.Viper
	configFile string
	dryRun     bool
}

func newRootCmd(fsys afero.Fs) *cobra.Command {
	opts := &rootOptions{fs: fsys, viper: viper.New()}

	cmd := &cobra.Command{
		Use:   branding.CLIName() + " <project_name>",
		Short: branding.Description(),
		Long: branding.DisplayName() + ` creates a standard Ansible project skeleton: per-environment
inventories, group and host variables, a site playbook, the common and
webserver roles, an ansible.cfg and a README.`,
		Version:       buildVersion,
		SilenceUsage:  true,
		SilenceErrors: true,
		Args: func(cmd *cobra.Command, args []string) error {
			if len(args) != 1 {
				return errUsage
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCreate(cmd.OutOrStdout(), opts, args[0])
		},
	}

	cmd.SetVersionTemplate(fmt.Sprintf("%s version {{.Version}} (commit: %s, built: %s)\n",
		branding.CLIName(), buildCommit, buildDate))

	flags := cmd.Flags()
	flags.StringVar(&opts.configFile, "config", "", "Config file (default: "+config.FilePath()+")")
	flags.BoolVar(&opts.dryRun, "dry-run", false, "List the directories and files without writing them")
	flags.String("log-level", config.DefaultLogLevel, "Diagnostic log level: debug, info, warn, error")
	_ = opts.viper.BindPFlag(config.KeyLogLevel, flags.Lookup("log-level"))

	return cmd
}

func runCreate(out io.Writer, opts *rootOptions, projectName string) error {
	settings, err := config.Load(opts.viper, opts.configFile)
	if err != nil {
		return err
	}

	logger, err := logging.New(settings.LogLevel)
	if err != nil {
		return fmt.Errorf("creating logger: %w", err)
	}
	defer func() { _ = logger.Sync() }()

	result, err := scaffold.CreateProject(out, projectName, scaffold.Options{
		Fs:       opts.fs,
		DirMode:  settings.DirMode,
		FileMode: settings.FileMode,
		DryRun:   opts.dryRun,
		Logger:   logger,
	})
	if err != nil {
		return err
	}

	if result.DryRun {
		printPlan(out, result)
	}
	return nil
}

func printPlan(out io.Writer, result *scaffold.Result) {
	fmt.Fprintf(out, "Dry run: nothing written to %s/\n", result.BasePath)
	fmt.Fprintln(out, "Directories:")
	for _, d := range result.Directories {
		fmt.Fprintf(out, "  %s/\n", d)
	}
	fmt.Fprintln(out, "Files:")
	for _, f := range result.Files {
		fmt.Fprintf(out, "  %s\n", f)
	}
}

// usage returns the one-line invocation hint printed on argument errors.
func usage() string {
	return fmt.Sprintf("Usage: %s <project_name>", branding.CLIName())
}

// execute runs cmd and reports failures: argument errors print the usage line
// to stdout, everything else is printed to stderr.
func execute(cmd *cobra.Command) error {
	err := cmd.Execute()
	if err == nil {
		return nil
	}
	if errors.Is(err, errUsage) {
		fmt.Fprintln(cmd.OutOrStdout(), usage())
		return err
	}
	fmt.Fprintf(cmd.ErrOrStderr(), "Error: %v\n", err)
	return err
}

// Execute runs the root command with build info injected via ldflags.
func Execute(version, commit, date string) error {
	buildVersion = version
	buildCommit = commit
	buildDate = date
	return execute(newRootCmd(afero.NewOsFs()))
}
