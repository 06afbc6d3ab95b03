package main

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/awantoch/trellis-mcp/api"
	"github.com/awantoch/trellis-mcp/utils"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

func newToolsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "tools",
		Short: "Inspect and call the Trellis tools locally",
	}
	cmd.AddCommand(newToolsListCmd(), newToolsCallCmd())
	return cmd
}

func newToolsListCmd() *cobra.Command {
	var withSchema bool
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List the tool catalogue",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			catalogue := api.Catalogue()
			if withSchema {
				out, err := json.MarshalIndent(catalogue, "", "  ")
				if err != nil {
					return err
				}
				utils.User("%s", out)
				return nil
			}
			for _, t := range catalogue {
				utils.User("%-34s %s", t.Name, t.Title)
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&withSchema, "schema", false, "Print the full catalogue with input schemas as JSON")
	return cmd
}

func newToolsCallCmd() *cobra.Command {
	var (
		rawArgs string
		output  string
	)
	cmd := &cobra.Command{
		Use:   "call <name>",
		Short: "Call one tool against the configured workflow",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			switch output {
			case "json", "yaml":
			default:
				return fmt.Errorf("unsupported output %q (json or yaml)", output)
			}
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			svc, err := newService(cfg)
			if err != nil {
				return err
			}
			env, err := svc.Invoke(cmd.Context(), args[0], []byte(rawArgs))
			if err != nil {
				return err
			}
			if err := printEnvelope(env, output); err != nil {
				return err
			}
			if env.IsError {
				return fmt.Errorf("tool %s failed", args[0])
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&rawArgs, "args", "{}", "Tool arguments as a JSON object")
	cmd.Flags().StringVarP(&output, "output", "o", "json", "Output format: json or yaml")
	return cmd
}

func printEnvelope(env api.Envelope, output string) error {
	if output == "json" {
		out, err := json.MarshalIndent(env, "", "  ")
		if err != nil {
			return err
		}
		utils.User("%s", out)
		return nil
	}
	// Round trip through JSON so yaml sees the same field names.
	data, err := json.Marshal(env)
	if err != nil {
		return err
	}
	var generic map[string]any
	if err := json.Unmarshal(data, &generic); err != nil {
		return err
	}
	out, err := yaml.Marshal(generic)
	if err != nil {
		return err
	}
	utils.User("%s", strings.TrimRight(string(out), "\n"))
	return nil
}
