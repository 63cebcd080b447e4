package main

import (
	"fmt"

	"github.com/mantonx/lineup/internal/modules/catalogmodule/core/filters"
	"github.com/mantonx/lineup/internal/modules/catalogmodule/models"
	"github.com/spf13/cobra"
)

func newAssetsCommand(ctx *commandContext) *cobra.Command {
	assetsCmd := &cobra.Command{
		Use:   "assets",
		Short: "Inspect catalog assets",
	}
	assetsCmd.AddCommand(newAssetsListCommand(ctx))
	return assetsCmd
}

func newAssetsListCommand(ctx *commandContext) *cobra.Command {
	var (
		filter      filters.AssetFilter
		contentType string
		premiumOnly bool
	)

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List assets",
		RunE: func(cmd *cobra.Command, args []string) error {
			mods, err := ctx.load()
			if err != nil {
				return err
			}
			filter.ContentType = models.ContentType(contentType)
			if premiumOnly {
				filter.Premium = &premiumOnly
			}

			assets, err := mods.catalog.Service().ListAssets(cmd.Context(), filter)
			if err != nil {
				return err
			}
			if ctx.jsonOutput() {
				return writeJSON(cmd, assets)
			}

			rows := make([][]string, 0, len(assets))
			for _, a := range assets {
				rows = append(rows, []string{a.ID, a.Title, string(a.ContentType), yesNo(a.IsPremium), yesNo(a.IsClip), yesNo(a.EligibleForLive)})
			}
			printTable(cmd, []string{"ID", "Title", "Type", "Premium", "Clip", "Live"}, rows, nil)
			return nil
		},
	}

	cmd.Flags().StringVar(&filter.Section, "kind", "", "Section: films, videos, podcasts, clips or live")
	cmd.Flags().StringVar(&contentType, "type", "", "Content type")
	cmd.Flags().StringVarP(&filter.Query, "query", "q", "", "Title substring")
	cmd.Flags().BoolVar(&premiumOnly, "premium", false, "Only premium assets")
	cmd.Flags().IntVar(&filter.Limit, "limit", 0, "Maximum number of assets")
	return cmd
}

func newClipsCommand(ctx *commandContext) *cobra.Command {
	clipsCmd := &cobra.Command{
		Use:   "clips",
		Short: "Manage clips derived from assets",
	}
	clipsCmd.AddCommand(&cobra.Command{
		Use:   "generate <asset-id>",
		Short: "Generate the standard clip set for an asset",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			mods, err := ctx.load()
			if err != nil {
				return err
			}
			result, err := mods.catalog.Service().GenerateClips(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			if ctx.jsonOutput() {
				return writeJSON(cmd, result)
			}

			rows := make([][]string, 0, len(result.Created)+len(result.Failed))
			for _, clip := range result.Created {
				rows = append(rows, []string{clip.ID, clip.ClipCaption, "created"})
			}
			for _, f := range result.Failed {
				rows = append(rows, []string{"", string(f.Variant), "failed: " + f.Error})
			}
			printTable(cmd, []string{"ID", "Caption", "Status"}, rows, nil)
			fmt.Fprintf(cmd.OutOrStdout(), "%d clip(s) created for %s\n", result.Count(), result.SourceID)
			return nil
		},
	})
	return clipsCmd
}
