package main

import (
	"github.com/spf13/cobra"

	"github.com/evolab/taxatree/internal/config"
)

func init() {
	configCmd.AddCommand(configGetCmd)
	configCmd.AddCommand(configSetCmd)
	rootCmd.AddCommand(configCmd)
}

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Get and set global configuration",
	Long: `Manage the global configuration file at ` + "`~/.config/taxatree/config.yml`" + `.

Keys:
  taxonomy_base_url      - taxonomy API base URL
  pubs_base_url          - publication API base URL
  pubs_api_key           - publication API key
  max_retries            - 429 retry bound for both clients
  retry_delay_ms         - fixed delay between 429 retries
  default_taxonomy_type  - descendants, neighbors, or mrca
  default_display_type   - tree, graph, or pack
  theme                  - light or dark
  data_dir               - where saved spores live
  pdf_dir                - where downloaded paper PDFs live`,
}

var configGetCmd = &cobra.Command{
	Use:   "get [key]",
	Short: "Show one config value, or all of them",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runConfigGet,
}

func runConfigGet(cmd *cobra.Command, args []string) error {
	cfg := mustLoadConfig()

	if len(args) == 1 {
		value, err := cfg.Get(args[0])
		if err != nil {
			exitWithError(ExitDataError, "%v", err)
		}
		if !humanOutput {
			return outputJSON(map[string]string{args[0]: value})
		}
		outputHuman("%s\n", value)
		return nil
	}

	values := make(map[string]string, len(config.Keys()))
	for _, key := range config.Keys() {
		v, _ := cfg.Get(key)
		values[key] = v
	}
	if !humanOutput {
		return outputJSON(values)
	}
	for _, key := range config.Keys() {
		outputHuman("%s: %s\n", key, values[key])
	}
	return nil
}

var configSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Set a config value",
	Args:  cobra.ExactArgs(2),
	RunE:  runConfigSet,
}

func runConfigSet(cmd *cobra.Command, args []string) error {
	cfg := mustLoadConfig()

	if err := cfg.Set(args[0], args[1]); err != nil {
		exitWithError(ExitDataError, "%v", err)
	}
	if err := cfg.Save(); err != nil {
		exitWithError(ExitConfigError, "saving config: %v", err)
	}

	if !humanOutput {
		return outputJSON(UpdateResponse{Status: "updated", Key: args[0], Value: args[1]})
	}
	outputHuman("Set %s = %s\n", args[0], args[1])
	return nil
}
