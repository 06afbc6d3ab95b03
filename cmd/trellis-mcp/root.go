package main

import (
	"github.com/awantoch/trellis-mcp/api"
	"github.com/awantoch/trellis-mcp/config"
	"github.com/awantoch/trellis-mcp/constants"
	"github.com/awantoch/trellis-mcp/trellis"
	"github.com/awantoch/trellis-mcp/utils"
	"github.com/spf13/cobra"
)

var (
	configPath string
	debug      bool
)

// NewRootCmd creates the root 'trellis-mcp' command with all subcommands.
func NewRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "trellis-mcp",
		Short:         "MCP tool server for Trellis workflows",
		SilenceUsage:  true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			if debug {
				utils.SetLevel("debug")
			}
		},
	}
	root.PersistentFlags().StringVarP(&configPath, "config", "c", constants.DefaultConfigPath, "Path to config file")
	root.PersistentFlags().BoolVar(&debug, "debug", false, "Enable debug logging")

	root.AddCommand(
		newServeCmd(),
		newToolsCmd(),
		newGraphCmd(),
		newConfigCmd(),
	)
	return root
}

// loadConfig reads the config and applies the configured log level unless
// --debug already raised it.
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, err
	}
	if debug {
		cfg.Debug = true
	}
	switch {
	case cfg.Debug:
		utils.SetLevel("debug")
	case cfg.Log.Level != "":
		utils.SetLevel(cfg.Log.Level)
	}
	return cfg, nil
}

// newService validates cfg and builds the tool service over the live API.
func newService(cfg *config.Config) (*api.Service, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return api.NewService(cfg, trellis.NewClient(cfg), nil), nil
}
