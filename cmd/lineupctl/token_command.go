package main

import (
	"fmt"
	"strings"

	"github.com/mantonx/lineup/internal/types"
	"github.com/spf13/cobra"
)

func newTokenCommand(ctx *commandContext) *cobra.Command {
	tokenCmd := &cobra.Command{
		Use:   "token",
		Short: "Work with bearer tokens",
	}

	var (
		subject string
		role    string
		premium bool
	)
	issueCmd := &cobra.Command{
		Use:   "issue",
		Short: "Sign a bearer token with the configured secret",
		RunE: func(cmd *cobra.Command, args []string) error {
			if strings.TrimSpace(subject) == "" {
				return fmt.Errorf("--subject is required")
			}
			mods, err := ctx.load()
			if err != nil {
				return err
			}
			token, err := mods.identity.Service().IssueToken(subject, types.Role(role), premium)
			if err != nil {
				return err
			}
			if ctx.jsonOutput() {
				return writeJSON(cmd, map[string]string{"subject": subject, "role": role, "token": token})
			}
			fmt.Fprintln(cmd.OutOrStdout(), token)
			return nil
		},
	}
	issueCmd.Flags().StringVar(&subject, "subject", "", "User id the token is issued for")
	issueCmd.Flags().StringVar(&role, "role", string(types.RoleUser), "Role hint: user, admin or masterAdmin")
	issueCmd.Flags().BoolVar(&premium, "premium", false, "Mark the subject as a premium subscriber")

	tokenCmd.AddCommand(issueCmd)
	return tokenCmd
}
