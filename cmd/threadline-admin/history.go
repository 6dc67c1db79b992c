package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

var (
	historyUsername string
	historyLimit    int
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Show a user's most recently logged outfits",
	Long: `Show logged outfits, newest first.

Examples:
  threadline-admin history --username alice
  threadline-admin history -u bob -n 5`,
	RunE: runHistory,
}

func init() {
	historyCmd.Flags().StringVarP(&historyUsername, "username", "u", "", "User whose history to show")
	historyCmd.Flags().IntVarP(&historyLimit, "limit", "n", 15, "Maximum number of outfits to show")
	_ = historyCmd.MarkFlagRequired("username")
}

func runHistory(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	store, err := openStore(ctx)
	if err != nil {
		return err
	}
	defer store.Close(ctx)

	outfits, err := store.RecentOutfits(ctx, historyUsername, historyLimit)
	if err != nil {
		return err
	}
	if len(outfits) == 0 {
		fmt.Fprintf(cmd.OutOrStdout(), "No outfits logged for %s.\n", historyUsername)
		return nil
	}
	for _, o := range outfits {
		fmt.Fprintf(cmd.OutOrStdout(), "%s  %s  %s\n",
			o.DateWorn.Format("2006-01-02 15:04"), o.ID, strings.Join(o.ClothingIDs, ","))
	}
	return nil
}
