package commands

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/teranos/gridsense/am"
	"github.com/teranos/gridsense/display"
	"github.com/teranos/gridsense/errors"
	"github.com/teranos/gridsense/sym"
)

// AmCmd represents the am (configuration) command
var AmCmd = &cobra.Command{
	Use:   "am",
	Short: sym.AM + " Manage gridsense configuration",
	Long: sym.AM + ` am - Manage gridsense configuration ("I am")

Configuration sources (in order of precedence):
1. Command line flags
2. Environment variables (GRIDSENSE_* prefix, e.g. GRIDSENSE_GRID_WIDTH)
3. Project config (nearest ./am.toml, searching up directories)
4. User config (~/.gridsense/am.toml)
5. Default values

Examples:
  gridsense am show                      # Show current configuration
  gridsense am show --format yaml        # Show configuration as YAML
  gridsense am get batch.agents          # Get one value
  gridsense am set grid.density 25       # Write a value to the project am.toml
  gridsense am init --user               # Write defaults to ~/.gridsense/am.toml
  gridsense am where                     # Show where each value came from`,
}

var amShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show current configuration",
	RunE:  runAmShow,
}

var amGetCmd = &cobra.Command{
	Use:   "get <key>",
	Short: "Get a specific configuration value",
	Long:  "Get a specific configuration value using dot notation (e.g., grid.width, batch.agents)",
	Args:  cobra.ExactArgs(1),
	RunE:  runAmGet,
}

var amSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Set a configuration value",
	Long: `Set a configuration value in the project am.toml (or the user config with
--user). Values parse as booleans, integers, floats, comma-separated lists or
plain strings, in that order. The previous file is kept as am.toml.back1.`,
	Args: cobra.ExactArgs(2),
	RunE: runAmSet,
}

var amInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Write the default configuration to am.toml",
	RunE:  runAmInit,
}

var amValidateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate current configuration",
	RunE:  runAmValidate,
}

var amWhereCmd = &cobra.Command{
	Use:   "where",
	Short: "Show where configuration is loaded from",
	RunE:  runAmWhere,
}

var (
	configFormat string
	userScope    bool
)

func init() {
	amShowCmd.Flags().StringVar(&configFormat, "format", "toml", "Output format: toml, json, yaml")
	amSetCmd.Flags().BoolVar(&userScope, "user", false, "Write to ~/.gridsense/am.toml")
	amInitCmd.Flags().BoolVar(&userScope, "user", false, "Write to ~/.gridsense/am.toml")

	AmCmd.AddCommand(amShowCmd)
	AmCmd.AddCommand(amGetCmd)
	AmCmd.AddCommand(amSetCmd)
	AmCmd.AddCommand(amInitCmd)
	AmCmd.AddCommand(amValidateCmd)
	AmCmd.AddCommand(amWhereCmd)
}

func runAmShow(cmd *cobra.Command, args []string) error {
	cfg, err := am.Load()
	if err != nil {
		return errors.Wrap(err, "failed to load config")
	}

	format := configFormat
	if display.ShouldOutputJSON(cmd) {
		format = "json"
	}

	switch format {
	case "json":
		data, err := json.MarshalIndent(cfg, "", "  ")
		if err != nil {
			return errors.Wrap(err, "failed to marshal config to JSON")
		}
		fmt.Println(string(data))

	case "yaml":
		data, err := yaml.Marshal(cfg)
		if err != nil {
			return errors.Wrap(err, "failed to marshal config to YAML")
		}
		fmt.Printf("# gridsense configuration\n%s", string(data))

	case "toml":
		data, err := toml.Marshal(cfg)
		if err != nil {
			return errors.Wrap(err, "failed to marshal config to TOML")
		}
		fmt.Printf("# gridsense configuration\n%s", string(data))

	default:
		return errors.NewInvalidRequestError("unsupported format: %s (supported: toml, json, yaml)", configFormat)
	}
	return nil
}

func runAmGet(cmd *cobra.Command, args []string) error {
	key := args[0]
	if !am.IsSet(key) {
		return errors.WithHint(
			errors.Wrapf(errors.ErrNotFound, "configuration key %q", key),
			"run 'gridsense am show' to list keys")
	}

	value := am.Get(key)
	if display.ShouldOutputJSON(cmd) {
		return display.OutputJSON(map[string]interface{}{"key": key, "value": value})
	}
	fmt.Println(value)
	return nil
}

func runAmSet(cmd *cobra.Command, args []string) error {
	path, err := targetConfigPath()
	if err != nil {
		return err
	}
	value := parseConfigValue(args[1])
	if err := am.SetValue(path, args[0], value); err != nil {
		return err
	}

	// reload so validation sees the new value with every other source applied
	am.Reset()
	cfg, err := am.Load()
	if err != nil {
		return errors.Wrap(err, "failed to reload config")
	}
	if err := cfg.Validate(); err != nil {
		pterm.Warning.Printfln("%s now holds an invalid configuration: %v", path, err)
	}

	fmt.Printf("✓ %s = %v (%s)\n", args[0], value, path)
	return nil
}

func runAmInit(cmd *cobra.Command, args []string) error {
	path, err := targetConfigPath()
	if err != nil {
		return err
	}
	if err := am.WriteDefaults(path); err != nil {
		return err
	}
	fmt.Printf("✓ Wrote default configuration to %s\n", path)
	return nil
}

func runAmValidate(cmd *cobra.Command, args []string) error {
	cfg, err := am.Load()
	if err != nil {
		return errors.Wrap(err, "failed to load config")
	}
	if err := cfg.Validate(); err != nil {
		return errors.Wrap(err, "configuration validation failed")
	}
	fmt.Println("✓ Configuration is valid")
	return nil
}

func runAmWhere(cmd *cobra.Command, args []string) error {
	settings := am.Introspect()
	if display.ShouldOutputJSON(cmd) {
		return display.OutputJSON(settings)
	}

	fmt.Println("Configuration cascade (later overrides earlier):")
	fmt.Println("  1. [DEFAULT]      Built-in defaults")
	fmt.Println("  2. [USER]         ~/.gridsense/am.toml")
	fmt.Println("  3. [PROJECT]      ./am.toml (searches up directories)")
	fmt.Println("  4. [ENVIRONMENT]  GRIDSENSE_* environment variables")
	fmt.Println()

	order := []am.ConfigSource{am.SourceDefault, am.SourceUser, am.SourceProject, am.SourceEnvironment}
	fmt.Println("Active configuration:")
	for _, source := range order {
		var group []am.SettingInfo
		for _, s := range settings {
			if s.Source == source {
				group = append(group, s)
			}
		}
		if len(group) == 0 {
			continue
		}

		fmt.Printf("\n  [%s]\n", strings.ToUpper(string(source)))
		for _, s := range group {
			if source == am.SourceDefault {
				fmt.Printf("    %s = %v\n", s.Key, s.Value)
			} else {
				fmt.Printf("    %s = %v  (%s)\n", s.Key, s.Value, s.SourcePath)
			}
		}
	}
	return nil
}

// targetConfigPath is the user config with --user, otherwise ./am.toml.
func targetConfigPath() (string, error) {
	if userScope {
		path := am.UserConfigPath()
		if path == "" {
			return "", errors.New("cannot locate home directory for user config")
		}
		return path, nil
	}
	wd, err := os.Getwd()
	if err != nil {
		return "", errors.Wrap(err, "failed to get working directory")
	}
	return filepath.Join(wd, "am.toml"), nil
}

func parseConfigValue(raw string) interface{} {
	if b, err := strconv.ParseBool(raw); err == nil {
		return b
	}
	if i, err := strconv.ParseInt(raw, 10, 64); err == nil {
		return i
	}
	if f, err := strconv.ParseFloat(raw, 64); err == nil {
		return f
	}
	if strings.Contains(raw, ",") {
		parts := strings.Split(raw, ",")
		for i := range parts {
			parts[i] = strings.TrimSpace(parts[i])
		}
		return parts
	}
	return raw
}
