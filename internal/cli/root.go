package cli

import (
	"encoding/json"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/yanqian/content-digest/internal/bootstrap"
)

// ServicesFactory builds the core services. The returned cleanup releases
// cache connections.
type ServicesFactory func(verbose bool) (*bootstrap.Services, func(), error)

type rootOptions struct {
	configPath string
	verbose    bool
	factory    ServicesFactory
}

// NewRootCmd assembles the digest command tree.
func NewRootCmd(factory ServicesFactory) *cobra.Command {
	opts := &rootOptions{factory: factory}
	root := &cobra.Command{
		Use:   "digest",
		Short: "Summarize text, web pages, PDFs and videos from the terminal",
		Long: `digest runs the content summarization pipeline once and prints the result as JSON.

Failures are reported inside the result, never as a crash: a page that cannot
be fetched still prints a summary object with "failed": true.`,
		SilenceErrors: true,
		SilenceUsage:  true,
	}
	root.PersistentFlags().StringVar(&opts.configPath, "config", "", "config file (default: configs/config.yaml)")
	root.PersistentFlags().BoolVarP(&opts.verbose, "verbose", "v", false, "verbose logging to stderr")

	root.AddCommand(
		newSummarizeCmd(opts),
		newTrustCmd(opts),
		newChatCmd(opts),
	)
	return root
}

// services applies --config and builds the core.
func (o *rootOptions) services() (*bootstrap.Services, func(), error) {
	if o.configPath != "" {
		if err := os.Setenv("CONFIG_PATH", o.configPath); err != nil {
			return nil, nil, err
		}
	}
	return o.factory(o.verbose)
}

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func joinArgs(args []string) string {
	return strings.TrimSpace(strings.Join(args, " "))
}
