package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/hray3182/secretary/internal/models"
	"github.com/hray3182/secretary/internal/nlp"
	"github.com/spf13/cobra"
)

func newSchedulesCmd(opts *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "schedules",
		Aliases: []string{"schedule", "s"},
		Short:   "Manage schedules",
	}
	cmd.AddCommand(
		newScheduleListCmd(opts),
		newScheduleAddCmd(opts),
		newScheduleUpdateCmd(opts),
		newScheduleDeleteCmd(opts),
	)
	return cmd
}

func newScheduleListCmd(opts *rootOptions) *cobra.Command {
	var asJSON bool
	var days int

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List schedules ordered by date",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := opts.openApp(cmd.Context())
			if err != nil {
				return err
			}
			defer a.Close()

			schedules := a.Schedules.Sorted(cmd.Context(), a.Location)
			if cmd.Flags().Changed("days") {
				schedules = a.Schedules.Upcoming(cmd.Context(), a.Now(), days)
			}

			if asJSON {
				return writeJSON(cmd.OutOrStdout(), schedules)
			}
			printSchedules(cmd.OutOrStdout(), schedules)
			return nil
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "Output in JSON format")
	cmd.Flags().IntVar(&days, "days", 7, "Only schedules from today through this many days ahead")
	return cmd
}

func newScheduleAddCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:     "add <utterance...>",
		Short:   "Add a schedule from free text, e.g. \"내일 오후 3시 치과\"",
		Args:    cobra.MinimumNArgs(1),
		Example: `  secretary schedules add 금요일 7시 30분 저녁 약속`,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := opts.openApp(cmd.Context())
			if err != nil {
				return err
			}
			defer a.Close()

			now := a.Now()
			draft := nlp.ParseSchedule(strings.Join(args, " "), now)
			s := &models.Schedule{
				Title:       draft.Title,
				Description: draft.Description,
				Date:        draft.Date,
				Time:        draft.Time,
				CreatedAt:   now,
			}
			if err := a.Schedules.Create(cmd.Context(), s); err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Created %s: %s %s %s\n", s.ID, s.Date, s.Time, s.Title)
			return nil
		},
	}
}

func newScheduleUpdateCmd(opts *rootOptions) *cobra.Command {
	var title, date, clock, description string

	cmd := &cobra.Command{
		Use:   "update <id>",
		Short: "Change fields of a schedule",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var update models.ScheduleUpdate
			flags := cmd.Flags()
			if flags.Changed("title") {
				update.Title = &title
			}
			if flags.Changed("description") {
				update.Description = &description
			}
			if flags.Changed("date") {
				if _, err := time.Parse(models.DateLayout, date); err != nil {
					return fmt.Errorf("invalid --date %q, want YYYY-MM-DD", date)
				}
				update.Date = &date
			}
			if flags.Changed("time") {
				if _, err := time.Parse(models.TimeLayout, clock); err != nil {
					return fmt.Errorf("invalid --time %q, want HH:MM", clock)
				}
				update.Time = &clock
			}
			if update == (models.ScheduleUpdate{}) {
				return fmt.Errorf("nothing to update, pass at least one of --title, --date, --time, --description")
			}

			a, err := opts.openApp(cmd.Context())
			if err != nil {
				return err
			}
			defer a.Close()

			s, err := a.Schedules.Update(cmd.Context(), args[0], update)
			if err != nil {
				return fmt.Errorf("failed to update schedule %s: %w", args[0], err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Updated %s: %s %s %s\n", s.ID, s.Date, s.Time, s.Title)
			return nil
		},
	}

	cmd.Flags().StringVar(&title, "title", "", "New title")
	cmd.Flags().StringVar(&date, "date", "", "New date (YYYY-MM-DD)")
	cmd.Flags().StringVar(&clock, "time", "", "New time (HH:MM)")
	cmd.Flags().StringVar(&description, "description", "", "New description")
	return cmd
}

func newScheduleDeleteCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a schedule",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := opts.openApp(cmd.Context())
			if err != nil {
				return err
			}
			defer a.Close()

			deleted, err := a.Schedules.Delete(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			if !deleted {
				return fmt.Errorf("schedule %s not found", args[0])
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Deleted %s\n", args[0])
			return nil
		},
	}
}

func printSchedules(w io.Writer, schedules []*models.Schedule) {
	if len(schedules) == 0 {
		fmt.Fprintln(w, "No schedules.")
		return
	}

	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tDATE\tTIME\tTITLE")
	for _, s := range schedules {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", s.ID, s.Date, s.Time, s.Title)
	}
	tw.Flush()
}

func writeJSON(w io.Writer, v any) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(v)
}
