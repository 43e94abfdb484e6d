// Package cli provides the Cobra command structure for bigmd.
package cli

import (
	"github.com/spf13/cobra"
)

// BuildInfo holds build-time version information.
type BuildInfo struct {
	Version string
	Commit  string
	Date    string
}

// NewRootCommand creates the root bigmd command.
func NewRootCommand(info BuildInfo) *cobra.Command {
	opts := &viewOptions{}

	rootCmd := &cobra.Command{
		Use:   "bigmd [file]",
		Short: "A terminal Markdown viewer with big headers and inline images",
		Long: `bigmd reads Markdown from a file or stdin and renders it in the
terminal: headers scaled up through the text-sizing protocol, images
inlined through kitty, iTerm2 or sixel graphics, with a character-art
fallback everywhere else.

Capabilities are probed once at startup. Scroll with vim-style keys,
search with /, and cycle hyperlinks with n/N (Enter opens the selected
link in the browser).`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) > 0 {
				opts.path = args[0]
			}
			return runView(cmd, opts)
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	flags := rootCmd.Flags()
	flags.BoolVarP(&opts.watch, "watch", "w", false, "reload when the file changes")
	flags.StringVar(&opts.overrideProtocol, "override-protocol", "",
		"skip probing and force a protocol: kitty, iterm2, sixel, textsize, textart")
	flags.BoolVar(&opts.noCapChecks, "no-cap-checks", false,
		"skip the capability probe and render with text art")
	flags.BoolVar(&opts.printConfig, "print-config", false,
		"print the default configuration and exit")
	flags.StringVar(&opts.configPath, "config", "", "path to config file")
	flags.StringVar(&opts.logFile, "log", "", "append structured logs to this file")
	flags.BoolVar(&opts.debug, "debug", false, "enable debug logging")

	rootCmd.AddCommand(newVersionCommand(info))

	return rootCmd
}
