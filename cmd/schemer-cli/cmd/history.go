package cmd

import (
	"context"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"schemer/internal/application/commands"
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "List saved revisions (sqlite backend)",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()
		limit, _ := cmd.Flags().GetInt("limit")
		h, err := GetHistory()
		if err != nil {
			return err
		}
		infos, err := commands.NewHistoryCommand(h, limit).Execute(ctx)
		if err != nil {
			return err
		}
		if len(infos) == 0 {
			fmt.Println("No saved revisions")
			return nil
		}
		for _, s := range infos {
			fmt.Printf("%s %s  %d entities, %d links\n",
				info.Sprintf("%4d", s.ID),
				subtle.Sprint(s.SavedAt.Local().Format("2006-01-02 15:04:05")),
				s.Entities, s.Links)
		}
		return nil
	},
}

var restoreCmd = &cobra.Command{
	Use:   "restore <revision>",
	Short: "Save a past revision as the current diagram",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()
		id, err := strconv.ParseInt(args[0], 10, 64)
		if err != nil {
			return fmt.Errorf("invalid revision %q", args[0])
		}
		h, err := GetHistory()
		if err != nil {
			return err
		}
		result, err := commands.NewRestoreCommand(GetRepo(), h, id).Execute(ctx)
		if err != nil {
			return err
		}
		brand.Println(result.Message)
		return nil
	},
}

func init() {
	historyCmd.Flags().IntP("limit", "n", 20, "number of revisions to show")

	rootCmd.AddCommand(historyCmd, restoreCmd)
}
