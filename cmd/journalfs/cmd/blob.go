package cmd

import (
	"context"
	"os"
	"path/filepath"

	"github.com/fairjournal/journalfs/pkg/model"
	"github.com/fairjournal/journalfs/pkg/web"
	"github.com/gosuri/uitable"
	"github.com/spf13/cobra"
)

var blobCmd = &cobra.Command{
	Use:   "blob",
	Short: "Commands to manage blobs",
	Long: `Commands to manage blobs.

A blob is the content of a file. Identical contents are stored only once.`,
}

var blobUpload = &cobra.Command{
	Use:   "upload",
	Short: "Upload a file to a journalfs server",
	Long: `Upload a file to a journalfs server.

The returned sha256 is used as the hash of an addFile action.`,
	Example: `% journalfs blob upload --file index.json
REFERENCE  ...
SHA256     ...
MIME TYPE  application/json
SIZE       1234`,
	Run: func(cmd *cobra.Command, args []string) {
		content, err := os.ReadFile(journalFlags.blob.file)
		if err != nil {
			wrapFatalln("read file", err)
			return
		}

		client := web.NewClient(journalFlags.root.server)
		meta, err := client.UploadBlob(context.Background(), filepath.Base(journalFlags.blob.file), content)
		if err != nil {
			wrapFatalln("upload blob", err)
			return
		}

		err = render(outLogger.Writer(), journalFlags.output.format, meta, func(t *uitable.Table) {
			renderBlob(t, meta)
		})
		if err != nil {
			wrapFatalln("print blob", err)
		}
	},
}

func renderBlob(t *uitable.Table, meta model.BlobMetadata) {
	t.AddRow(bold("REFERENCE"), meta.Reference)
	t.AddRow(bold("SHA256"), meta.SHA256)
	t.AddRow(bold("MIME TYPE"), meta.MimeType)
	t.AddRow(bold("SIZE"), meta.Size)
}

func init() {
	requireFlags(blobUpload, addBlobFileFlag(blobUpload))
	addFormatFlag(blobUpload)
	blobCmd.AddCommand(blobUpload)
	rootCmd.AddCommand(blobCmd)
}
