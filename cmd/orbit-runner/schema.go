package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/lixenwraith/orbit-runner/config"
)

func newSchemaCmd() *cobra.Command {
	var out string
	cmd := &cobra.Command{
		Use:   "schema",
		Short: "Write the configuration JSON schema",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if out == "" {
				data, err := json.MarshalIndent(config.Schema(), "", "  ")
				if err != nil {
					return fmt.Errorf("marshal schema: %w", err)
				}
				_, err = fmt.Fprintln(cmd.OutOrStdout(), string(data))
				return err
			}
			if err := config.WriteSchema(out); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "schema written to %s\n", out)
			return nil
		},
	}
	cmd.Flags().StringVarP(&out, "out", "o", "", "Output path (default: stdout)")
	return cmd
}
