package cmd

import (
	"fmt"
	"os"

	"github.com/edisdb/edis/cmd/kv"
	"github.com/edisdb/edis/cmd/serve"
	"github.com/edisdb/edis/cmd/util"
	"github.com/spf13/cobra"
)

const (
	Version = "1.0.0"
)

var (
	// RootCmd represents the base command when called without any subcommands
	RootCmd = &cobra.Command{
		Use:   "edis",
		Short: "a data structure store backed by an on-disk key-value engine",
		Long: fmt.Sprintf(`edis (v%s)

A single-process, sharded key-value store with a Redis-shaped command
surface: strings, hashes, lists, sets, sorted sets, key expiry and
blocking list operations.`, Version),
	}
	versionCmd = &cobra.Command{
		Use:   "version",
		Short: "Print the version number of edis",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("edis v%s\n", Version)
		},
	}
)

func init() {
	// Add Commands
	RootCmd.AddCommand(serve.ServeCmd)
	RootCmd.AddCommand(kv.KeyValueCommands)
	RootCmd.AddCommand(versionCmd)

	// Add Flags
	key := "serializer"
	RootCmd.PersistentFlags().String(key, "json", util.WrapString("serializer to use (json, gob, binary)"))
	key = "transport"
	RootCmd.PersistentFlags().String(key, "http", util.WrapString("transport to use (http, tcp, unix)"))
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the RootCmd.
func Execute() {
	if err := RootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
