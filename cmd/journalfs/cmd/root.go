// Copyright © 2018 One Concern

package cmd

import (
	"fmt"
	"log"
	"os"

	"github.com/fairjournal/journalfs/pkg/config"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

const envConfig = "JOURNALFS_CONFIG"

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "journalfs",
	Short: "journalfs serves per-user file systems built from signed updates",
	Long: `journalfs maintains a virtual file system for each user, built by replaying the signed,
sequenced updates they publish.

File contents are blobs, ingested once per distinct content and stored in a content-addressed
storage network. Articles are the JSON documents published under /articles/<slug>/index-json.

Run "journalfs serve" to expose the HTTP API. Other commands either call a running server
(blob, update, user, article) or work on the local data directory while the server is stopped (fs).
`,
	SilenceUsage: true,
}

var journalConfig config.Config

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		osExit(1)
	}
}

func init() {
	log.SetFlags(0)
	cobra.OnInitialize(initConfig)

	addLogLevelFlag(rootCmd)
	addDataDirFlag(rootCmd)
	addServerFlag(rootCmd)
}

func setDefaults(v *viper.Viper) {
	defaults := config.Default()
	v.SetDefault("project_name", defaults.ProjectName)
	v.SetDefault("max_blob_size", defaults.MaxBlobSize)
	v.SetDefault("data_dir", defaults.DataDir)
	v.SetDefault("storage_timeout", defaults.StorageTimeout)
	v.SetDefault("listen", defaults.Listen)
	v.SetDefault("log_level", defaults.LogLevel)
	v.SetDefault("backend.kind", defaults.Backend.Kind)
	v.SetDefault("backend.path", defaults.Backend.Path)
	v.SetDefault("backend.bucket", "")
	v.SetDefault("backend.region", "")
	v.SetDefault("backend.endpoint", "")
	v.SetDefault("backend.credentials", "")
}

// initConfig reads in config file and ENV variables if set.
func initConfig() {
	setDefaults(viper.GetViper())
	if os.Getenv(envConfig) != "" {
		viper.SetConfigFile(os.Getenv(envConfig))
	} else {
		viper.AddConfigPath(".")
		viper.AddConfigPath("$HOME/.journalfs")
		viper.AddConfigPath("/etc/journalfs")
		viper.SetConfigName("journalfs")
	}

	viper.SetEnvPrefix("journalfs")
	viper.SetEnvKeyReplacer(envKeyReplacer)
	viper.AutomaticEnv() // read in environment variables that match

	// If a config file is found, read it in.
	if err := viper.ReadInConfig(); err == nil {
		infoLogger.Println("Using config file:", viper.ConfigFileUsed())
	}

	cfg, err := loadConfig(viper.GetViper())
	if err != nil {
		wrapFatalln("invalid configuration", err)
		return
	}
	journalConfig = cfg
}

func loadConfig(v *viper.Viper) (config.Config, error) {
	var cfg config.Config
	if err := v.Unmarshal(&cfg); err != nil {
		return cfg, err
	}
	return cfg, cfg.Validate()
}
