package main

import (
	"strconv"

	"github.com/spf13/cobra"
)

func newRailsCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "rails",
		Short: "Show the non-empty brand rails",
		RunE: func(cmd *cobra.Command, args []string) error {
			mods, err := ctx.load()
			if err != nil {
				return err
			}
			rails, err := mods.brands.Service().Rails(cmd.Context())
			if err != nil {
				return err
			}
			if ctx.jsonOutput() {
				return writeJSON(cmd, rails)
			}

			rows := make([][]string, 0, len(rails))
			for _, r := range rails {
				rows = append(rows, []string{r.Brand.ID, r.Brand.Name, strconv.Itoa(len(r.Films)), strconv.Itoa(len(r.Series)), strconv.Itoa(len(r.Clips))})
			}
			right := []columnAlignment{alignLeft, alignLeft, alignRight, alignRight, alignRight}
			printTable(cmd, []string{"ID", "Brand", "Films", "Series", "Clips"}, rows, right)
			return nil
		},
	}
}
