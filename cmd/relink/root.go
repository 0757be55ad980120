package relink

import (
	"fmt"

	"github.com/arthur-debert/relink/internal/version"
	"github.com/arthur-debert/relink/pkg/config"
	"github.com/arthur-debert/relink/pkg/core"
	"github.com/arthur-debert/relink/pkg/filesystem"
	"github.com/arthur-debert/relink/pkg/logging"
	"github.com/arthur-debert/relink/pkg/paths"
	"github.com/arthur-debert/relink/pkg/types"
	"github.com/arthur-debert/relink/pkg/ui"
	"github.com/arthur-debert/relink/pkg/ui/display"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

// app holds the flags and the state every command shares
type app struct {
	verbosity       int
	dryRun          bool
	configFile      string
	format          string
	workDir         string
	absolute        bool
	mergeDuplicates bool

	fs    types.FS
	paths paths.Paths
	cfg   *config.Config
}

// NewRootCmd creates and returns the root command
func NewRootCmd() *cobra.Command {
	initTemplateFormatting()

	a := &app{fs: filesystem.NewOS()}

	rootCmd := &cobra.Command{
		Use:     "relink [flags] <search-pattern> <source-path>... <destination>",
		Short:   MsgRootShort,
		Long:    MsgRootLong,
		Example: MsgRootExample,
		Version: version.Version,
		Args:    cobra.MinimumNArgs(3),
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.setup(cmd)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runRelink(cmd, args)
		},
		SilenceUsage:      true,
		SilenceErrors:     true,
		DisableAutoGenTag: true,
	}

	// Global flags
	rootCmd.PersistentFlags().CountVarP(&a.verbosity, "verbose", "v", MsgFlagVerbose)
	rootCmd.PersistentFlags().StringVar(&a.configFile, "config", "", MsgFlagConfig)
	rootCmd.PersistentFlags().StringVar(&a.format, "format", "auto", MsgFlagFormat)
	rootCmd.PersistentFlags().StringVarP(&a.workDir, "work-dir", "C", "", MsgFlagWorkDir)

	// Run flags
	rootCmd.Flags().BoolVar(&a.dryRun, "dry-run", false, MsgFlagDryRun)
	rootCmd.Flags().BoolVar(&a.absolute, "absolute", false, MsgFlagAbsolute)
	rootCmd.Flags().BoolVar(&a.mergeDuplicates, "merge-duplicates", false, MsgFlagMerge)

	rootCmd.SetHelpCommand(&cobra.Command{Hidden: true})
	rootCmd.AddGroup(&cobra.Group{ID: "journal", Title: "JOURNAL:"})
	rootCmd.AddGroup(&cobra.Group{ID: "misc", Title: "MISC:"})
	rootCmd.SetUsageTemplate(MsgUsageTemplate)

	rootCmd.AddCommand(newResumeCmd(a))
	rootCmd.AddCommand(newJournalsCmd(a))
	rootCmd.AddCommand(newGenConfigCmd(a))
	rootCmd.AddCommand(newVersionCmd())
	rootCmd.AddCommand(newCompletionCmd())
	rootCmd.AddCommand(newManCmd(a))

	return rootCmd
}

// setup resolves paths, loads the configuration and starts logging
func (a *app) setup(cmd *cobra.Command) error {
	p, err := paths.New(a.workDir)
	if err != nil {
		logging.Setup(logging.Options{Verbosity: a.verbosity, Console: cmd.ErrOrStderr()})
		return err
	}
	a.paths = p

	overrides := map[string]interface{}{}
	if a.absolute {
		overrides["relocate.relative_links"] = false
	}
	if a.mergeDuplicates {
		overrides["sources.duplicate_policy"] = string(config.DuplicateMerge)
	}

	cfg, err := config.Load(config.LoadOptions{
		UserConfigPath:    p.UserConfigPath(),
		ConfigFile:        a.configFile,
		ProjectConfigPath: p.ProjectConfigPath(),
		Overrides:         overrides,
	})
	if err != nil {
		logging.Setup(logging.Options{Verbosity: a.verbosity, Console: cmd.ErrOrStderr()})
		return err
	}
	a.cfg = cfg

	logging.Setup(logging.Options{
		Verbosity: a.verbosity,
		LogFile:   cfg.Logging.File,
		FilePath:  p.LogFilePath(),
		Console:   cmd.ErrOrStderr(),
	})
	logging.LogCommand(cmd.CommandPath(), cmd.Flags().Args())
	log.Debug().Str("command", cmd.Name()).Str("workDir", p.WorkDir()).Msg("Command started")
	return nil
}

// renderer builds the renderer selected by --format for cmd's output
func (a *app) renderer(cmd *cobra.Command) (ui.Renderer, error) {
	format, err := ui.ParseFormat(a.format)
	if err != nil {
		return nil, err
	}
	return ui.NewRenderer(format, cmd.OutOrStdout())
}

func (a *app) runRelink(cmd *cobra.Command, args []string) error {
	logger := logging.GetLogger("cmd.relink")

	pattern := args[0]
	destination := args[len(args)-1]
	sources := args[1 : len(args)-1]

	store, err := core.JournalStore(a.fs, a.paths, a.cfg)
	if err != nil {
		return err
	}

	result, err := core.Relink(core.RelinkOptions{
		Pattern:     pattern,
		Sources:     sources,
		Destination: destination,
		WorkDir:     a.paths.WorkDir(),
		DryRun:      a.dryRun,
		FileSystem:  a.fs,
		Config:      a.cfg,
		Store:       store,
	})
	if err != nil {
		if result != nil && result.JournalID != "" {
			fmt.Fprintf(cmd.ErrOrStderr(), MsgResumeHint, result.JournalID)
		}
		return err
	}

	logger.Info().
		Int("sources", len(result.Plans)).
		Bool("dryRun", result.DryRun).
		Msg("Relink command finished")

	r, err := a.renderer(cmd)
	if err != nil {
		return err
	}
	return r.RenderResult(display.FromRelink(result))
}
