package cmd

import (
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v2"
)

// configCmd represents the config related commands
var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Commands to inspect the configuration",
	Long: `Commands to inspect the journalfs configuration.

The configuration is read from journalfs.yaml, looked up in the current directory, then
$HOME/.journalfs and /etc/journalfs, or from the file named by the JOURNALFS_CONFIG environment variable.
Every key may be overridden by an environment variable, e.g. JOURNALFS_MAX_BLOB_SIZE or JOURNALFS_BACKEND_KIND.`,
}

var configShow = &cobra.Command{
	Use:   "show",
	Short: "Print the effective configuration",
	Example: `% journalfs config show
project_name: fair-journal
max_blob_size: 10MiB
data_dir: .journalfs
...`,
	Run: func(cmd *cobra.Command, args []string) {
		buf, err := yaml.Marshal(journalConfig)
		if err != nil {
			wrapFatalln("marshal configuration", err)
			return
		}
		outLogger.Print(string(buf))
	},
}

func init() {
	configCmd.AddCommand(configShow)
	rootCmd.AddCommand(configCmd)
}
