package relink

import (
	"fmt"
	"os"

	"github.com/arthur-debert/relink/internal/version"
	"github.com/arthur-debert/relink/pkg/config"
	"github.com/arthur-debert/relink/pkg/core"
	"github.com/arthur-debert/relink/pkg/errors"
	"github.com/arthur-debert/relink/pkg/filesystem"
	"github.com/arthur-debert/relink/pkg/ui/display"
	"github.com/spf13/cobra"
	"github.com/spf13/cobra/doc"
)

func newResumeCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:     "resume [journal-id]",
		Short:   MsgResumeShort,
		Long:    MsgResumeLong,
		GroupID: "journal",
		Args:    cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := core.JournalStore(a.fs, a.paths, a.cfg)
			if err != nil {
				return err
			}

			id := ""
			if len(args) == 1 {
				id = args[0]
			}
			result, err := core.Resume(core.ResumeOptions{ID: id, FileSystem: a.fs, Store: store})
			if err != nil {
				return err
			}

			r, err := a.renderer(cmd)
			if err != nil {
				return err
			}
			return r.RenderResult(display.FromResume(result))
		},
	}
}

func newJournalsCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:     "journals",
		Short:   MsgJournalsShort,
		GroupID: "journal",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			r, err := a.renderer(cmd)
			if err != nil {
				return err
			}

			store, err := core.JournalStore(a.fs, a.paths, a.cfg)
			if err != nil {
				return err
			}
			if store == nil {
				return r.RenderMessage(MsgJournalsDisabled)
			}

			journals, err := core.ListJournals(store)
			if err != nil {
				return err
			}
			return r.RenderResult(display.FromJournals(store.Dir(), journals))
		},
	}
}

func newGenConfigCmd(a *app) *cobra.Command {
	var write, user bool

	cmd := &cobra.Command{
		Use:     "gen-config",
		Short:   MsgGenConfigShort,
		GroupID: "misc",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			content := config.GenerateConfigContent()
			if !write {
				_, err := fmt.Fprint(cmd.OutOrStdout(), content)
				return err
			}

			target := a.paths.ProjectConfigPath()
			if user {
				target = a.paths.UserConfigPath()
			}
			if _, err := a.fs.Lstat(target); err == nil {
				return errors.Newf(errors.ErrInvalidInput, MsgErrConfigExists, target).WithDetail("path", target)
			} else if !os.IsNotExist(err) {
				return errors.IO(err, "stat", target)
			}
			if err := filesystem.AtomicWriteFile(a.fs, target, []byte(content), 0644); err != nil {
				return errors.IO(err, "write", target)
			}
			_, err := fmt.Fprintf(cmd.OutOrStdout(), MsgConfigWritten, target)
			return err
		},
	}

	cmd.Flags().BoolVarP(&write, "write", "w", false, MsgFlagWrite)
	cmd.Flags().BoolVar(&user, "user", false, MsgFlagUser)
	return cmd
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "version",
		Short:   MsgVersionShort,
		GroupID: "misc",
		Args:    cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "relink version %s\n", version.Version)
			fmt.Fprintf(out, "  commit: %s\n", version.Commit)
			fmt.Fprintf(out, "  built:  %s\n", version.Date)
		},
	}
}

func newCompletionCmd() *cobra.Command {
	return &cobra.Command{
		Use:                   "completion [bash|zsh|fish|powershell]",
		Short:                 MsgCompletionShort,
		Long:                  MsgCompletionLong,
		GroupID:               "misc",
		DisableFlagsInUseLine: true,
		ValidArgs:             []string{"bash", "zsh", "fish", "powershell"},
		Args:                  cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			switch args[0] {
			case "bash":
				return cmd.Root().GenBashCompletionV2(out, true)
			case "zsh":
				return cmd.Root().GenZshCompletion(out)
			case "fish":
				return cmd.Root().GenFishCompletion(out, true)
			default:
				return cmd.Root().GenPowerShellCompletionWithDesc(out)
			}
		},
	}
}

func newManCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:     "man [dir]",
		Short:   MsgManShort,
		GroupID: "misc",
		Args:    cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dir := "."
			if len(args) == 1 {
				dir = args[0]
			}
			dir, err := a.paths.NormalizePath(dir)
			if err != nil {
				return err
			}
			if err := a.fs.MkdirAll(dir, 0755); err != nil {
				return errors.IO(err, "mkdir", dir)
			}
			if err := doc.GenManTree(cmd.Root(), ManHeader(), dir); err != nil {
				return err
			}
			_, err = fmt.Fprintf(cmd.OutOrStdout(), MsgManWritten, dir)
			return err
		},
	}
}

// ManHeader is the header shared by every generated man page
func ManHeader() *doc.GenManHeader {
	return &doc.GenManHeader{
		Title:   "RELINK",
		Section: "1",
		Source:  "relink " + version.Version,
		Manual:  "relink manual",
	}
}
