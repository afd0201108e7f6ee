package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

// pingCmd checks connectivity to the case service.
var pingCmd = &cobra.Command{
	Use:   "ping",
	Short: "Check that the case service is reachable",
	RunE: func(cmd *cobra.Command, args []string) error {
		config := GetConfig()
		client, err := newClient(newLogger(config))
		if err != nil {
			return err
		}

		msg, err := client.Ping(cmd.Context())
		if err != nil {
			return fmt.Errorf("service at %s is not reachable: %w", config.API.URL, err)
		}
		fmt.Println(msg)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(pingCmd)
}
