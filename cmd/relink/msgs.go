package relink

import (
	_ "embed"
	"strings"
)

// Short messages (one-liners)
const (
	// Command descriptions
	MsgRootShort       = "Replace hard links with symlinks to a single copy"
	MsgResumeShort     = "Finish an interrupted run from its journal"
	MsgJournalsShort   = "List journals of interrupted runs"
	MsgGenConfigShort  = "Print or write the default configuration"
	MsgVersionShort    = "Print version information"
	MsgCompletionShort = "Generate shell completion script"
	MsgManShort        = "Generate man pages"

	// Status messages
	MsgResumeHint       = "Some changes were made before the failure. Run `relink resume %s` to finish.\n"
	MsgJournalsDisabled = "Journaling is disabled (journal.enabled = false)."
	MsgConfigWritten    = "Wrote %s\n"
	MsgManWritten       = "Wrote man pages to %s\n"
	MsgUsageHint        = "Run 'relink --help' for usage."

	// Error messages
	MsgErrConfigExists = "%s already exists"

	// Flag descriptions
	MsgFlagVerbose  = "Increase verbosity (-v INFO, -vv DEBUG, -vvv TRACE)"
	MsgFlagDryRun   = "Show the plan without changing anything"
	MsgFlagConfig   = "Config file to use instead of the user config"
	MsgFlagFormat   = "Output format: auto, term, text or json"
	MsgFlagWorkDir  = "Resolve relative paths against this directory"
	MsgFlagAbsolute = "Point symlinks at the destination by absolute path"
	MsgFlagMerge    = "Treat sources that are hard links of each other as one"
	MsgFlagWrite    = "Write the config to ./.relink.toml instead of stdout"
	MsgFlagUser     = "With --write, write the user config file instead"
)

// Long messages from embedded files
var (
	//go:embed msgs/root-long.txt
	msgRootLongRaw string
	MsgRootLong    = strings.TrimSpace(msgRootLongRaw)

	//go:embed msgs/root-example.txt
	msgRootExampleRaw string
	MsgRootExample    = strings.TrimRight(msgRootExampleRaw, "\n")

	//go:embed msgs/resume-long.txt
	msgResumeLongRaw string
	MsgResumeLong    = strings.TrimSpace(msgResumeLongRaw)

	//go:embed msgs/usage-template.txt
	msgUsageTemplateRaw string
	MsgUsageTemplate    = strings.TrimSpace(msgUsageTemplateRaw)

	//go:embed msgs/completion-long.txt
	msgCompletionLongRaw string
	MsgCompletionLong    = strings.TrimSpace(msgCompletionLongRaw)
)
