package cmd

import (
	"context"

	"github.com/fairjournal/journalfs/pkg/core"
	"github.com/fairjournal/journalfs/pkg/model"
	"github.com/gosuri/uitable"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var fsCmd = &cobra.Command{
	Use:   "fs",
	Short: "Commands to maintain the local file systems database",
	Long: `Commands to maintain the local file systems database.

These commands open the database in the data directory: the server must be stopped.`,
}

func withLocalService(run func(context.Context, *core.Service) error) error {
	ctx := context.Background()
	logger := newLogger(journalConfig)
	defer func() { _ = logger.Sync() }()

	svc, err := openService(ctx, journalConfig, logger, nil)
	if err != nil {
		return err
	}
	defer func() {
		if err := svc.Close(); err != nil {
			logger.Warn("close", zap.Error(err))
		}
	}()
	return run(ctx, svc)
}

var fsList = &cobra.Command{
	Use:     "list",
	Short:   "List a directory of a user's file system",
	Aliases: []string{"ls"},
	Example: `% journalfs fs list --address 3b6a... --path /articles`,
	Run: func(cmd *cobra.Command, args []string) {
		err := withLocalService(func(_ context.Context, svc *core.Service) error {
			nodes, err := svc.ListNodes(journalFlags.user.address, journalFlags.fs.path)
			if err != nil {
				return err
			}
			return render(outLogger.Writer(), journalFlags.output.format, nodes, func(t *uitable.Table) {
				t.AddRow(header("PATH", "KIND", "MIME TYPE", "SIZE", "REFERENCE")...)
				for _, node := range nodes {
					t.AddRow(node.Path, node.Kind, node.MimeType, node.Size, node.Reference)
				}
			})
		})
		if err != nil {
			wrapFatalln("list directory", err)
		}
	},
}

var fsHistory = &cobra.Command{
	Use:   "history",
	Short: "List the updates applied for a user",
	Run: func(cmd *cobra.Command, args []string) {
		err := withLocalService(func(_ context.Context, svc *core.Service) error {
			entries, err := svc.History(journalFlags.user.address)
			if err != nil {
				return err
			}
			return render(outLogger.Writer(), journalFlags.output.format, entries, func(t *uitable.Table) {
				t.AddRow(header("ID", "APPLIED AT", "ACTIONS")...)
				for _, entry := range entries {
					t.AddRow(entry.ID, entry.AppliedAt, describeActions(entry.Update))
				}
			})
		})
		if err != nil {
			wrapFatalln("list history", err)
		}
	},
}

func describeActions(u *model.Update) string {
	if u == nil {
		return ""
	}
	var description string
	for i, action := range u.Actions {
		if i > 0 {
			description += ", "
		}
		switch act := action.(type) {
		case model.AddUser:
			description += "addUser"
		case model.AddDirectory:
			description += "addDirectory " + act.Path
		case model.AddFile:
			description += "addFile " + act.Path
		}
	}
	return description
}

var fsReset = &cobra.Command{
	Use:   "reset",
	Short: "Drop all file systems, blob rows and sequence counters",
	Long: `Drop all file systems, blob rows and sequence counters.

Objects in the storage backend are kept: run "journalfs fs reconcile" to remove them.`,
	Run: func(cmd *cobra.Command, args []string) {
		if !journalFlags.fs.force {
			wrapFatalln("reset drops all data: confirm with --force", nil)
			return
		}
		err := withLocalService(func(ctx context.Context, svc *core.Service) error {
			return svc.Reset(ctx)
		})
		if err != nil {
			wrapFatalln("reset", err)
			return
		}
		infoLogger.Println("all file systems dropped")
	},
}

var fsReconcile = &cobra.Command{
	Use:   "reconcile",
	Short: "Align the storage backend with blob rows",
	Long: `Align the storage backend with blob rows.

Objects that no blob refers to are removed from the storage backend.
Blobs whose object is missing from the storage backend are reported.`,
	Run: func(cmd *cobra.Command, args []string) {
		err := withLocalService(func(ctx context.Context, svc *core.Service) error {
			report, err := svc.Reconcile(ctx)
			if err != nil {
				return err
			}
			return render(outLogger.Writer(), journalFlags.output.format, report, func(t *uitable.Table) {
				t.AddRow(bold("CHECKED"), report.Checked)
				t.AddRow(bold("REMOVED"), len(report.Removed))
				for _, handle := range report.Removed {
					t.AddRow("", handle)
				}
				t.AddRow(bold("MISSING"), len(report.Missing))
				for _, sha := range report.Missing {
					t.AddRow("", sha)
				}
			})
		})
		if err != nil {
			wrapFatalln("reconcile", err)
		}
	},
}

func init() {
	requireFlags(fsList, addAddressFlag(fsList))
	addPathFlag(fsList)
	addFormatFlag(fsList)
	fsCmd.AddCommand(fsList)

	requireFlags(fsHistory, addAddressFlag(fsHistory))
	addFormatFlag(fsHistory)
	fsCmd.AddCommand(fsHistory)

	addForceFlag(fsReset)
	fsCmd.AddCommand(fsReset)

	addFormatFlag(fsReconcile)
	fsCmd.AddCommand(fsReconcile)

	rootCmd.AddCommand(fsCmd)
}
