package kv

import (
	"github.com/ValentinKolb/dynoKV/cmd/util"
	"github.com/ValentinKolb/dynoKV/rpc/client"
	"github.com/spf13/cobra"
)

var (
	dyno *client.Client

	// KeyValueCommands represents the KV command group
	KeyValueCommands = &cobra.Command{
		Use:                "kv",
		Short:              "Perform key-value operations against a dyno server",
		PersistentPreRunE:  setupKVClient,
		PersistentPostRunE: closeKVClient,
	}
)

func init() {
	// Initialize viper
	cobra.OnInitialize(util.InitConfig)

	// Add common RPC flags to the KV command
	util.SetupRPCClientFlags(KeyValueCommands)

	// Add subcommands
	KeyValueCommands.AddCommand(getCmd)
	KeyValueCommands.AddCommand(putCmd)
	KeyValueCommands.AddCommand(hasCmd)
	KeyValueCommands.AddCommand(removeCmd)
	KeyValueCommands.AddCommand(perfTestCmd)
}

// setupKVClient creates the client. It does not connect yet.
func setupKVClient(cmd *cobra.Command, _ []string) error {
	// Bind command flags to viper
	if err := util.BindCommandFlags(cmd); err != nil {
		return err
	}

	// Get serializer and transport
	s, err := util.GetSerializer()
	if err != nil {
		return err
	}

	t, err := util.GetTransport()
	if err != nil {
		return err
	}

	dyno = client.NewClient(*util.GetClientConfig(), t, s)
	return nil
}

// closeKVClient disconnects all sessions opened by the command
func closeKVClient(_ *cobra.Command, _ []string) error {
	if dyno == nil {
		return nil
	}
	return dyno.Close()
}
