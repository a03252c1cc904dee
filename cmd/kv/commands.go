package kv

import (
	"encoding/hex"
	"fmt"
	"github.com/spf13/cobra"
	"strings"
)

var (
	getCmd = &cobra.Command{
		Use:   "get [key]",
		Short: "Reads the values and the context of a key",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			key := args[0]
			res, err := dyno.Get([]byte(key))
			if err != nil {
				return err
			}

			values := make([]string, len(res.Results))
			for i, v := range res.Results {
				values[i] = string(v)
			}
			fmt.Printf("key=%s, context=%s, values=[%s]\n", key, hex.EncodeToString(res.Context), strings.Join(values, ", "))
			return nil
		},
	}
	putCmd = &cobra.Command{
		Use:   "put [key] [value]",
		Short: "Stores a value for a key",
		Long: `Stores a value for a key.
Without --context the value is written unconditionally. With the (hex encoded)
context returned by get the write is rejected if the key changed in between.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			key := args[0]
			value := args[1]

			ctxHex, _ := cmd.Flags().GetString("context")
			context, err := hex.DecodeString(ctxHex)
			if err != nil {
				return fmt.Errorf("context must be hex encoded: %w", err)
			}

			count, err := dyno.Put([]byte(key), []byte(value), context)
			if err != nil {
				return err
			}
			fmt.Printf("put successfully (count=%d)\n", count)
			return nil
		},
	}
	hasCmd = &cobra.Command{
		Use:   "has [key]",
		Short: "Checks if a key exists",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			key := args[0]
			count, err := dyno.Has([]byte(key))
			if err != nil {
				return err
			}
			fmt.Printf("key=%s, count=%d\n", key, count)
			return nil
		},
	}
	removeCmd = &cobra.Command{
		Use:     "remove [key]",
		Aliases: []string{"del"},
		Short:   "Removes a key",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			key := args[0]
			count, err := dyno.Remove([]byte(key))
			if err != nil {
				return err
			}
			fmt.Printf("removed successfully (count=%d)\n", count)
			return nil
		},
	}
)

func init() {
	putCmd.Flags().String("context", "", "Hex encoded context returned by get")
}
