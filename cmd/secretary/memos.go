package main

import (
	"fmt"
	"io"
	"mime"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/hray3182/secretary/internal/assistant"
	"github.com/hray3182/secretary/internal/format"
	"github.com/hray3182/secretary/internal/models"
	"github.com/spf13/cobra"
)

func newMemosCmd(opts *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "memos",
		Aliases: []string{"memo", "m"},
		Short:   "Manage voice memos",
	}
	cmd.AddCommand(
		newMemoListCmd(opts),
		newMemoRecentCmd(opts),
		newMemoSearchCmd(opts),
		newMemoAddCmd(opts),
		newMemoAttachCmd(opts),
		newMemoDeleteCmd(opts),
	)
	return cmd
}

func newMemoListCmd(opts *rootOptions) *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List all memos, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := opts.openApp(cmd.Context())
			if err != nil {
				return err
			}
			defer a.Close()

			memos := a.Memos.Recent(cmd.Context(), -1)
			if asJSON {
				return writeJSON(cmd.OutOrStdout(), memos)
			}
			printMemos(cmd.OutOrStdout(), memos)
			return nil
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "Output in JSON format")
	return cmd
}

func newMemoRecentCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "recent [n]",
		Short: "Show the n most recent memos",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			n := assistant.RecentMemos
			if len(args) == 1 {
				v, err := strconv.Atoi(args[0])
				if err != nil || v < 1 {
					return fmt.Errorf("invalid count %q", args[0])
				}
				n = v
			}

			a, err := opts.openApp(cmd.Context())
			if err != nil {
				return err
			}
			defer a.Close()

			printMemos(cmd.OutOrStdout(), a.Memos.Recent(cmd.Context(), n))
			return nil
		},
	}
}

func newMemoSearchCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "search <query...>",
		Short: "Find memos whose title or content contains the query",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := opts.openApp(cmd.Context())
			if err != nil {
				return err
			}
			defer a.Close()

			printMemos(cmd.OutOrStdout(), a.Memos.Search(cmd.Context(), strings.Join(args, " ")))
			return nil
		},
	}
}

func newMemoAddCmd(opts *rootOptions) *cobra.Command {
	var title string

	cmd := &cobra.Command{
		Use:   "add <content...>",
		Short: "Save a memo",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := opts.openApp(cmd.Context())
			if err != nil {
				return err
			}
			defer a.Close()

			now := a.Now()
			content := strings.Join(args, " ")
			if title == "" {
				title = assistant.GenerateMemoTitle(content, now)
			}

			m := &models.VoiceMemo{Title: title, Content: content, CreatedAt: now}
			if err := a.Memos.Create(cmd.Context(), m); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Created %s: %s\n", m.ID, m.Title)
			return nil
		},
	}

	cmd.Flags().StringVar(&title, "title", "", "Title (derived from content when empty)")
	return cmd
}

func newMemoAttachCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "attach <id> <audio-file>",
		Short: "Attach a recording to a memo",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			audio, err := os.ReadFile(args[1])
			if err != nil {
				return fmt.Errorf("failed to read audio: %w", err)
			}
			mimeType := mime.TypeByExtension(filepath.Ext(args[1]))
			if mimeType == "" {
				mimeType = "application/octet-stream"
			}

			a, err := opts.openApp(cmd.Context())
			if err != nil {
				return err
			}
			defer a.Close()

			m, err := a.Memos.AttachAudio(cmd.Context(), args[0], mimeType, audio)
			if err != nil {
				return fmt.Errorf("failed to attach audio to memo %s: %w", args[0], err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Attached %d bytes (%s) to %s\n", len(audio), mimeType, m.ID)
			return nil
		},
	}
}

func newMemoDeleteCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a memo",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := opts.openApp(cmd.Context())
			if err != nil {
				return err
			}
			defer a.Close()

			deleted, err := a.Memos.Delete(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			if !deleted {
				return fmt.Errorf("memo %s not found", args[0])
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Deleted %s\n", args[0])
			return nil
		},
	}
}

func printMemos(w io.Writer, memos []*models.VoiceMemo) {
	if len(memos) == 0 {
		fmt.Fprintln(w, "No memos.")
		return
	}

	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tCREATED\tTITLE\tCONTENT\tAUDIO")
	for _, m := range memos {
		audio := ""
		if m.HasAudio() {
			audio = "yes"
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n", m.ID, m.CreatedAt.Format("2006-01-02 15:04"), m.Title, format.Truncate(m.Content, 40), audio)
	}
	tw.Flush()
}
