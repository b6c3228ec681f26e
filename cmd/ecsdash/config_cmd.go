// File: cmd/ecsdash/config_cmd.go
package main

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"ecsdash/internal/config"
	"ecsdash/internal/flags"
	"ecsdash/internal/ui/prompt"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

func newConfigCmd() *cobra.Command {
	configCmd := &cobra.Command{
		Use:   "config",
		Short: "Manage configuration settings",
		Long: `Manage the settings stored in the config file. You can set, get, list, and delete configuration values.
Environment variables prefixed with ECSDASH_ (e.g. ECSDASH_BUCKETS_CAP) override the file.`,
	}

	configSetCmd := &cobra.Command{
		Use:   "set [key] [value]",
		Short: "Set a configuration key-value pair",
		Long: fmt.Sprintf(`Sets a configuration value. For example: 'ecsdash config set aws.region eu-west-1'

Supported keys: %s`, strings.Join(config.SupportedKeys(), ", ")),
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := appFromContext(cmd.Context())
			if err != nil {
				return err
			}

			key := strings.ToLower(args[0])
			value := args[1]

			if err := app.ConfigManager.SetValue(key, value); err != nil {
				return fmt.Errorf("error setting configuration: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Configuration set: %s = %s\n", key, value)
			return nil
		},
	}

	configGetCmd := &cobra.Command{
		Use:   "get [key]",
		Short: "Get a configuration value by key",
		Long:  `Retrieves the effective value for a given key, including defaults and environment overrides. For example: 'ecsdash config get buckets.cap'`,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := appFromContext(cmd.Context())
			if err != nil {
				return err
			}

			key := strings.ToLower(args[0])
			value, exists := app.ConfigManager.GetValue(key)
			if !exists {
				return fmt.Errorf("configuration key '%s' not found or not set", key)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s = %v\n", key, value)
			return nil
		},
	}

	var force bool
	configDeleteCmd := &cobra.Command{
		Use:   "delete [key]",
		Short: "Delete a configuration value by key",
		Long:  `Deletes a configuration value from the config file, restoring its default. For example: 'ecsdash config delete gcp.project'`,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := appFromContext(cmd.Context())
			if err != nil {
				return err
			}

			key := strings.ToLower(args[0])

			var prompter prompt.Prompter = prompt.NewStandardPrompter(cmd.InOrStdin(), cmd.OutOrStdout())
			if force {
				prompter = prompt.AutoConfirm{}
			}
			confirmed, err := prompter.Confirm(fmt.Sprintf("This removes '%s' from %s.", key, app.ConfigManager.Path()), key)
			if err != nil {
				return err
			}
			if !confirmed {
				fmt.Fprintln(cmd.OutOrStdout(), "Aborted.")
				return nil
			}

			deleted, err := app.ConfigManager.DeleteValue(key)
			if err != nil {
				return fmt.Errorf("error deleting configuration: %w", err)
			}
			if !deleted {
				return fmt.Errorf("configuration key '%s' not found", key)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Configuration key '%s' deleted\n", key)
			return nil
		},
	}
	configDeleteCmd.Flags().BoolVarP(&force, flags.Force, flags.ForceShort, false, "Delete without asking for confirmation")

	var output string
	configListCmd := &cobra.Command{
		Use:   "list",
		Short: "List all configuration values stored in the config file",
		Long:  `Displays all the key-value pairs currently stored in the config file. Use --output yaml to print them as a YAML document.`,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := appFromContext(cmd.Context())
			if err != nil {
				return err
			}

			settings := app.ConfigManager.GetAllSettings()
			switch output {
			case "yaml":
				return writeYAML(cmd.OutOrStdout(), settings)
			case "", "text":
				writeSettings(cmd.OutOrStdout(), settings)
				return nil
			default:
				return fmt.Errorf("unsupported output format '%s', expected text or yaml", output)
			}
		},
	}
	configListCmd.Flags().StringVarP(&output, flags.Output, flags.OutputShort, "text", "Output format (text or yaml)")

	configPathCmd := &cobra.Command{
		Use:   "path",
		Short: "Print the location of the config file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := appFromContext(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), app.ConfigManager.Path())
			return nil
		},
	}

	configCmd.AddCommand(configSetCmd, configGetCmd, configDeleteCmd, configListCmd, configPathCmd)
	return configCmd
}

func writeSettings(w io.Writer, settings map[string]interface{}) {
	displaySettings := make(map[string]interface{})
	for k, v := range flattenConfigMap(settings) {
		if s, ok := v.(string); ok && s == "" {
			continue
		}
		if v != nil {
			displaySettings[k] = v
		}
	}

	if len(displaySettings) == 0 {
		fmt.Fprintln(w, "No configuration values set. Use 'ecsdash config set <key> <value>'.")
		return
	}

	keys := make([]string, 0, len(displaySettings))
	for k := range displaySettings {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	fmt.Fprintln(w, "Current configuration:")
	for _, k := range keys {
		fmt.Fprintf(w, "  %s = %v\n", k, displaySettings[k])
	}
}

func writeYAML(w io.Writer, settings map[string]interface{}) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(settings); err != nil {
		return fmt.Errorf("error encoding configuration: %w", err)
	}
	return enc.Close()
}

// Recursively flattens a nested map (like Viper's config) into a flat map with dot notation keys
func flattenConfigMap(nestedMap map[string]interface{}) map[string]interface{} {
	flattenedMap := make(map[string]interface{})

	var flatten func(string, interface{})
	flatten = func(prefix string, value interface{}) {
		switch v := value.(type) {
		case map[string]interface{}:
			for k, val := range v {
				newPrefix := k
				if prefix != "" {
					newPrefix = prefix + "." + k
				}
				flatten(newPrefix, val)
			}
		default:
			if prefix != "" {
				flattenedMap[prefix] = value
			}
		}
	}

	flatten("", nestedMap)
	return flattenedMap
}
