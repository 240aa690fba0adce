package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/yanqian/content-digest/internal/domain/content"
	"github.com/yanqian/content-digest/internal/domain/converse"
)

func newSummarizeCmd(opts *rootOptions) *cobra.Command {
	var (
		kindName string
		timeout  time.Duration
	)
	cmd := &cobra.Command{
		Use:   "summarize <input>",
		Short: "Summarize text, a web page, a PDF file or a video",
		Long: `Summarize extracts text from the input and summarizes it.

Example:
  digest summarize "Long article text..."
  digest summarize --kind webpage https://example.com/story
  digest summarize --kind document ./report.pdf
  digest summarize --kind video https://youtu.be/dQw4w9WgXcQ
  cat notes.txt | digest summarize -`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			kind, err := content.ParseSourceKind(kindName)
			if err != nil {
				return err
			}
			in, err := readInput(cmd.InOrStdin(), kind, args)
			if err != nil {
				return err
			}

			svc, cleanup, err := opts.services()
			if err != nil {
				return fmt.Errorf("build services: %w", err)
			}
			defer cleanup()

			ctx, cancel := context.WithTimeout(cmd.Context(), timeout)
			defer cancel()
			return printJSON(cmd.OutOrStdout(), svc.Pipeline.Run(ctx, kind, in))
		},
	}
	cmd.Flags().StringVarP(&kindName, "kind", "k", string(content.KindPlainText), "input kind: text, webpage, document or video")
	cmd.Flags().DurationVar(&timeout, "timeout", 5*time.Minute, "overall timeout")
	return cmd
}

func newTrustCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "trust <text>",
		Short: "Classify whether a news text looks trustworthy",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, cleanup, err := opts.services()
			if err != nil {
				return fmt.Errorf("build services: %w", err)
			}
			defer cleanup()
			return printJSON(cmd.OutOrStdout(), svc.Trust.Classify(cmd.Context(), joinArgs(args)))
		},
	}
}

func newChatCmd(opts *rootOptions) *cobra.Command {
	var contextText string
	cmd := &cobra.Command{
		Use:   "chat <message>",
		Short: "Ask the assistant a single question",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, cleanup, err := opts.services()
			if err != nil {
				return fmt.Errorf("build services: %w", err)
			}
			defer cleanup()
			reply := svc.Chat.Reply(cmd.Context(), joinArgs(args), contextText)
			return printJSON(cmd.OutOrStdout(), converse.Response{Response: reply})
		},
	}
	cmd.Flags().StringVar(&contextText, "context", "", "text the answer should be based on")
	return cmd
}

// readInput reads a file for documents and stdin for "-"; other input is taken verbatim.
func readInput(stdin io.Reader, kind content.SourceKind, args []string) (content.RawInput, error) {
	if kind == content.KindDocument {
		path := args[0]
		data, err := os.ReadFile(path)
		if err != nil {
			return content.RawInput{}, fmt.Errorf("read document: %w", err)
		}
		return content.RawInput{Data: data, Filename: filepath.Base(path)}, nil
	}
	if len(args) == 1 && args[0] == "-" {
		data, err := io.ReadAll(stdin)
		if err != nil {
			return content.RawInput{}, fmt.Errorf("read stdin: %w", err)
		}
		return content.RawInput{Text: string(data)}, nil
	}
	return content.RawInput{Text: joinArgs(args)}, nil
}
