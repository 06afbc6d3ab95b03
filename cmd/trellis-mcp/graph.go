package main

import (
	"github.com/awantoch/trellis-mcp/graph"
	"github.com/awantoch/trellis-mcp/trellis"
	"github.com/awantoch/trellis-mcp/utils"
	"github.com/spf13/cobra"
)

func newGraphCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "graph",
		Short: "Print the configured workflow as a Mermaid diagram",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			if err := cfg.Validate(); err != nil {
				return err
			}
			workflowID, err := cfg.RequireWorkflowID()
			if err != nil {
				return err
			}
			wg, err := trellis.NewClient(cfg).GetWorkflowConfig(cmd.Context(), workflowID)
			if err != nil {
				return err
			}
			diagram, err := graph.ExportMermaid(wg)
			if err != nil {
				return err
			}
			utils.User("%s", diagram)
			return nil
		},
	}
}
