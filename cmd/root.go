package cmd

import (
	"fmt"
	"github.com/ValentinKolb/dynoKV/cmd/kv"
	"github.com/ValentinKolb/dynoKV/cmd/serve"
	"github.com/ValentinKolb/dynoKV/cmd/util"
	"github.com/spf13/cobra"
	"os"
)

const (
	Version = "0.1.0"
)

var (

	// RootCmd represents the base command when called without any subcommands
	RootCmd = &cobra.Command{
		Use:   "dyno",
		Short: "lazy connecting client and server for the Dynomite service",
		Long: fmt.Sprintf(`dyno (v%s)

A key-value client for the Dynomite service written in Go. Every caller
session owns one lazily opened connection that is reused until it is
disconnected. The serve command starts a reference server backed by a
local versioned store.`, Version),
	}
	versionCmd = &cobra.Command{
		Use:   "version",
		Short: "Print the version number of dyno",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("dyno v%s\n", Version)
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
	RootCmd.PersistentFlags().String(key, "binary", util.WrapString("serializer to use (json, gob, binary)"))
	key = "transport"
	RootCmd.PersistentFlags().String(key, "tcp", util.WrapString("transport to use (tcp, unix)"))
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the RootCmd.
func Execute() {
	if err := RootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
