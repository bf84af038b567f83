package cmd

import (
	"context"

	"github.com/fairjournal/journalfs/pkg/web"
	"github.com/spf13/cobra"
)

var userCmd = &cobra.Command{
	Use:   "user",
	Short: "Commands to inspect users",
}

var userSequence = &cobra.Command{
	Use:     "sequence",
	Short:   "Print the sequence number of the last update applied for a user",
	Long:    "Print the sequence number of the last update applied for a user. The next update must carry this number plus one.",
	Example: `% journalfs user sequence --address 3b6a27bcceb6a42d62a3a8d02a6f0d73653215771de243a63ac048a18b59da29`,
	Run: func(cmd *cobra.Command, args []string) {
		id, err := web.NewClient(journalFlags.root.server).LastSequence(context.Background(), journalFlags.user.address)
		if err != nil {
			wrapFatalln("get last sequence", err)
			return
		}
		outLogger.Println(id)
	},
}

func init() {
	requireFlags(userSequence, addAddressFlag(userSequence))
	userCmd.AddCommand(userSequence)
	rootCmd.AddCommand(userCmd)
}
