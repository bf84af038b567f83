package cmd

import (
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var envKeyReplacer = strings.NewReplacer(".", "_", "-", "_")

type flagsT struct {
	root struct {
		server string
	}
	blob struct {
		file string
	}
	update struct {
		file string
	}
	user struct {
		address string
	}
	article struct {
		slug string
	}
	fs struct {
		path  string
		force bool
	}
	output struct {
		format string
	}
}

var journalFlags = flagsT{}

// flags bound to configuration keys are persistent: they apply to every sub command

func addLogLevelFlag(cmd *cobra.Command) string {
	logLevel := "log-level"
	cmd.PersistentFlags().String(logLevel, "info", "The logging level: debug, info, warn or none")
	_ = viper.BindPFlag("log_level", cmd.PersistentFlags().Lookup(logLevel))
	return logLevel
}

func addDataDirFlag(cmd *cobra.Command) string {
	dataDir := "data-dir"
	cmd.PersistentFlags().String(dataDir, ".journalfs", "The directory holding the file systems database")
	_ = viper.BindPFlag("data_dir", cmd.PersistentFlags().Lookup(dataDir))
	return dataDir
}

func addListenFlag(cmd *cobra.Command) string {
	listen := "listen"
	cmd.Flags().String(listen, ":5100", "The address the HTTP server listens on")
	_ = viper.BindPFlag("listen", cmd.Flags().Lookup(listen))
	return listen
}

func addServerFlag(cmd *cobra.Command) string {
	server := "server"
	cmd.PersistentFlags().StringVar(&journalFlags.root.server, server, "http://localhost:5100", "The URL of a running journalfs server")
	return server
}

func addBlobFileFlag(cmd *cobra.Command) string {
	file := "file"
	cmd.Flags().StringVar(&journalFlags.blob.file, file, "", "The file to upload")
	return file
}

func addUpdateFileFlag(cmd *cobra.Command) string {
	file := "file"
	cmd.Flags().StringVar(&journalFlags.update.file, file, "", `A JSON file with a signed update, or "-" for stdin`)
	return file
}

func addAddressFlag(cmd *cobra.Command) string {
	address := "address"
	cmd.Flags().StringVar(&journalFlags.user.address, address, "", "The address of a user: the hex encoded public key")
	return address
}

func addSlugFlag(cmd *cobra.Command) string {
	slug := "slug"
	cmd.Flags().StringVar(&journalFlags.article.slug, slug, "", "The slug of an article")
	return slug
}

func addPathFlag(cmd *cobra.Command) string {
	path := "path"
	cmd.Flags().StringVar(&journalFlags.fs.path, path, "/", "A directory in the user's file system")
	return path
}

func addForceFlag(cmd *cobra.Command) string {
	force := "force"
	cmd.Flags().BoolVar(&journalFlags.fs.force, force, false, "Confirm a destructive operation")
	return force
}

func addFormatFlag(cmd *cobra.Command) string {
	format := "format"
	cmd.Flags().StringVar(&journalFlags.output.format, format, "table", "The output format: table, json or yaml")
	return format
}

func requireFlags(cmd *cobra.Command, flags ...string) {
	for _, flag := range flags {
		if err := cmd.MarkFlagRequired(flag); err != nil {
			wrapFatalln("flag "+flag, err)
		}
	}
}
