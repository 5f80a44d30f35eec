package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var dumpsCmd = &cobra.Command{
	Use:   "dumps",
	Short: "List stored dumps, newest first",
	RunE: func(cmd *cobra.Command, args []string) error {
		st, err := initStore()
		if err != nil {
			return err
		}
		defer st.Close()

		infos, err := st.ListDumps(cmd.Context())
		if err != nil {
			return err
		}
		if len(infos) == 0 {
			fmt.Fprintln(os.Stdout, "no dumps stored")
			return nil
		}

		for _, info := range infos {
			fmt.Fprintf(os.Stdout, "%-40s %-20s %s\n",
				info.Name, "r/"+info.Subreddit, info.SavedAt.Format("2006-01-02 15:04"))
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(dumpsCmd)
}
