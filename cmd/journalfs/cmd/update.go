package cmd

import (
	"context"
	"io"
	"os"

	"github.com/fairjournal/journalfs/pkg/model"
	"github.com/fairjournal/journalfs/pkg/web"
	"github.com/spf13/cobra"
)

var updateCmd = &cobra.Command{
	Use:   "update",
	Short: "Commands to manage updates",
	Long: `Commands to manage updates.

An update is a batch of actions (addUser, addDirectory, addFile) signed by its author,
with a sequence number following the author's last applied update.`,
}

var updateApply = &cobra.Command{
	Use:   "apply",
	Short: "Submit a signed update to a journalfs server",
	Example: `% journalfs update apply --file update.json
% cat update.json | journalfs update apply --file -`,
	Run: func(cmd *cobra.Command, args []string) {
		u, err := readUpdate(journalFlags.update.file)
		if err != nil {
			wrapFatalln("read update", err)
			return
		}
		if err := web.NewClient(journalFlags.root.server).ApplyUpdate(context.Background(), u); err != nil {
			wrapFatalln("apply update", err)
			return
		}
		infoLogger.Printf("update %d applied for %s", u.ID, u.UserAddress)
	},
}

// readUpdate reads an update in its wire format, or wrapped as {"update": ...}
func readUpdate(file string) (*model.Update, error) {
	var (
		content []byte
		err     error
	)
	if file == "-" {
		content, err = io.ReadAll(os.Stdin)
	} else {
		content, err = os.ReadFile(file)
	}
	if err != nil {
		return nil, err
	}

	var wrapped struct {
		Update *model.Update `json:"update"`
	}
	if err := jsonAPI.Unmarshal(content, &wrapped); err == nil && wrapped.Update != nil {
		return wrapped.Update, nil
	}
	return model.UnmarshalUpdate(content)
}

func init() {
	requireFlags(updateApply, addUpdateFileFlag(updateApply))
	updateCmd.AddCommand(updateApply)
	rootCmd.AddCommand(updateCmd)
}
