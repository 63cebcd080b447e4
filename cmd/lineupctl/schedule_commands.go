package main

import (
	"fmt"
	"strconv"
	"time"

	"github.com/spf13/cobra"
)

func newChannelsCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "channels",
		Short: "List live channels",
		RunE: func(cmd *cobra.Command, args []string) error {
			mods, err := ctx.load()
			if err != nil {
				return err
			}
			channels, err := mods.schedule.Service().ListChannels(cmd.Context())
			if err != nil {
				return err
			}
			if ctx.jsonOutput() {
				return writeJSON(cmd, channels)
			}

			rows := make([][]string, 0, len(channels))
			for _, ch := range channels {
				rows = append(rows, []string{ch.ID, ch.Name, yesNo(ch.IsOriginal), strconv.Itoa(len(ch.Schedule)), strconv.FormatInt(ch.Revision, 10)})
			}
			printTable(cmd, []string{"ID", "Name", "Original", "Slots", "Revision"}, rows, []columnAlignment{alignLeft, alignLeft, alignLeft, alignRight, alignRight})
			return nil
		},
	}
}

func newGuideCommand(ctx *commandContext) *cobra.Command {
	var window time.Duration

	cmd := &cobra.Command{
		Use:   "guide <channel-id>",
		Short: "Show a channel's program guide",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			mods, err := ctx.load()
			if err != nil {
				return err
			}
			if window <= 0 {
				return fmt.Errorf("--window must be positive")
			}
			from := time.Now()
			entries, err := mods.schedule.Service().Guide(cmd.Context(), args[0], from, from.Add(window))
			if err != nil {
				return err
			}
			if ctx.jsonOutput() {
				return writeJSON(cmd, entries)
			}

			rows := make([][]string, 0, len(entries))
			for _, e := range entries {
				title := e.ContentID
				if e.Asset != nil {
					title = e.Asset.Title
				}
				rows = append(rows, []string{clock(e.StartTime), clock(e.EndTime), title, strconv.Itoa(len(e.AdLocations))})
			}
			printTable(cmd, []string{"Start", "End", "Title", "Ad breaks"}, rows, []columnAlignment{alignLeft, alignLeft, alignLeft, alignRight})
			return nil
		},
	}
	cmd.Flags().DurationVar(&window, "window", 24*time.Hour, "How far ahead to show")
	return cmd
}
