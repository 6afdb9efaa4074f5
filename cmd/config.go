package cmd

import (
	"bytes"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"text/template"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/joescharf/modcount/internal/config"
	"github.com/joescharf/modcount/internal/models"
	"github.com/joescharf/modcount/internal/output"
)

var configForce bool

// configDirFunc returns the config directory path, replaceable in tests.
var configDirFunc = defaultConfigDir

func defaultConfigDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", "modcount"), nil
}

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Show or manage configuration",
	Long: `Show or manage modcount configuration.

Running bare 'modcount config' is the same as 'modcount config show'.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return configShowRun()
	},
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Create config file with commented defaults",
	RunE: func(cmd *cobra.Command, args []string) error {
		return configInitRun()
	},
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show effective configuration with sources",
	RunE: func(cmd *cobra.Command, args []string) error {
		return configShowRun()
	},
}

var configEditCmd = &cobra.Command{
	Use:   "edit",
	Short: "Open config file in $EDITOR",
	RunE: func(cmd *cobra.Command, args []string) error {
		return configEditRun()
	},
}

func init() {
	configInitCmd.Flags().BoolVar(&configForce, "force", false, "Overwrite existing config file")
	configCmd.AddCommand(configInitCmd)
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configEditCmd)
	rootCmd.AddCommand(configCmd)
}

// configTemplate is the template for generating config.yaml with comments.
const configTemplate = `# modcount configuration
# See: modcount config show (for effective values and sources)

# Document whose placeholders are rewritten (default: README.md)
document: "{{ .Document }}"

# Placeholder interior layout: "inline" or "block" (default: inline)
layout: "{{ .Layout }}"

# HTTP timeout per request (default: 30s)
timeout: "{{ .Timeout }}"

modrinth:
  base_url: "{{ .ModrinthBaseURL }}"

curseforge:
  base_url: "{{ .CurseForgeBaseURL }}"
  # "api" uses the CurseForge Core API, "scrape" reads the public project page
  strategy: "{{ .Strategy }}"
  # API key; prefer the CURSEFORGE_API_KEY environment variable
  # api_key: ""

# Tracked projects. Placeholders appear in the document as
#   <!-- NAME_START -->...<!-- NAME_END -->
projects:
{{- range .Projects }}
  - name: "{{ .Name }}"
    placeholder: "{{ .Placeholder }}"
    modrinth: "{{ .Modrinth }}"
    curseforge: "{{ .CurseForge }}"
{{- end }}
`

type configTemplateData struct {
	Document          string
	Layout            string
	Timeout           string
	ModrinthBaseURL   string
	CurseForgeBaseURL string
	Strategy          string
	Projects          []models.Project
}

func configFilePath() (string, error) {
	dir, err := configDirFunc()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.yaml"), nil
}

func configInitRun() error {
	cfgPath, err := configFilePath()
	if err != nil {
		return err
	}

	// Check if file already exists
	if _, err := os.Stat(cfgPath); err == nil {
		if !configForce {
			return fmt.Errorf("config file already exists: %s (use --force to overwrite)", cfgPath)
		}
		ui.Warning("Overwriting existing config file")
	}

	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	// Build template data from the effective config
	data := configTemplateData{
		Document:          cfg.Document,
		Layout:            string(cfg.Layout),
		Timeout:           cfg.Timeout.String(),
		ModrinthBaseURL:   cfg.Modrinth.BaseURL,
		CurseForgeBaseURL: cfg.CurseForge.BaseURL,
		Strategy:          cfg.CurseForge.Strategy,
		Projects:          cfg.Projects,
	}

	tmpl, err := template.New("config").Parse(configTemplate)
	if err != nil {
		return fmt.Errorf("template parse error: %w", err)
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return fmt.Errorf("template execute error: %w", err)
	}

	if dryRun {
		ui.DryRunMsg("Would create config file: %s", cfgPath)
		fmt.Fprintln(ui.Out)
		fmt.Fprint(ui.Out, buf.String())
		return nil
	}

	// Create config directory
	dir := filepath.Dir(cfgPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	if err := os.WriteFile(cfgPath, buf.Bytes(), 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	ui.Success("Config file created: %s", cfgPath)
	fmt.Fprintln(ui.Out)
	fmt.Fprint(ui.Out, buf.String())
	return nil
}

// configKeyInfo describes a config key for display purposes.
type configKeyInfo struct {
	Key    string
	EnvVar string
}

var configKeys = []configKeyInfo{
	{Key: "document", EnvVar: "MODCOUNT_DOCUMENT"},
	{Key: "layout", EnvVar: "MODCOUNT_LAYOUT"},
	{Key: "timeout", EnvVar: "MODCOUNT_TIMEOUT"},
	{Key: "user_agent", EnvVar: "MODCOUNT_USER_AGENT"},
	{Key: "modrinth.base_url", EnvVar: "MODCOUNT_MODRINTH_BASE_URL"},
	{Key: "curseforge.base_url", EnvVar: "MODCOUNT_CURSEFORGE_BASE_URL"},
	{Key: "curseforge.strategy", EnvVar: "MODCOUNT_CURSEFORGE_STRATEGY"},
	{Key: "curseforge.api_key", EnvVar: config.APIKeyEnv},
}

func configShowRun() error {
	cfgPath, err := configFilePath()
	if err != nil {
		return err
	}

	// Check if config file exists
	if _, err := os.Stat(cfgPath); err == nil {
		ui.Info("Config file: %s", cfgPath)
	} else {
		ui.Info("Config file: (none)")
	}
	fmt.Fprintln(ui.Out)

	// Read config file values to determine file source
	fileValues := readConfigFileValues(cfgPath)

	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	for _, k := range configKeys {
		val := viper.Get(k.Key)
		if k.Key == "curseforge.api_key" {
			val = cfg.MaskedAPIKey()
		}
		source := detectSource(k.Key, k.EnvVar, fileValues)
		fmt.Fprintf(ui.Out, "  %-22s %v  %s\n", k.Key, val, source)
	}

	fmt.Fprintln(ui.Out)
	ui.Info("Projects:")
	for _, p := range cfg.Projects {
		fmt.Fprintf(ui.Out, "  %-20s %-26s modrinth=%s curseforge=%s\n",
			output.Cyan(p.Name), p.Placeholder, p.Modrinth, p.CurseForge)
	}

	return nil
}

// readConfigFileValues reads the raw YAML file and returns a flat map of keys present in it.
func readConfigFileValues(path string) map[string]bool {
	result := make(map[string]bool)

	data, err := os.ReadFile(path)
	if err != nil {
		return result
	}

	var parsed map[string]any
	if err := yaml.Unmarshal(data, &parsed); err != nil {
		return result
	}

	// Flatten nested keys with dot notation
	flattenKeys("", parsed, result)
	return result
}

// flattenKeys recursively flattens a nested map to dot-notation keys.
func flattenKeys(prefix string, m map[string]any, result map[string]bool) {
	for key, val := range m {
		fullKey := key
		if prefix != "" {
			fullKey = prefix + "." + key
		}
		if nested, ok := val.(map[string]any); ok {
			flattenKeys(fullKey, nested, result)
		} else {
			result[fullKey] = true
		}
	}
}

// detectSource determines where a config value is coming from.
func detectSource(key, envVar string, fileValues map[string]bool) string {
	if _, ok := os.LookupEnv(envVar); ok {
		return fmt.Sprintf("(env: %s)", envVar)
	}
	if fileValues[key] {
		return "(file)"
	}
	return "(default)"
}

func configEditRun() error {
	editor := os.Getenv("EDITOR")
	if editor == "" {
		editor = os.Getenv("VISUAL")
	}
	if editor == "" {
		return fmt.Errorf("$EDITOR is not set — set it to your preferred editor (e.g. export EDITOR=vim)")
	}

	cfgPath, err := configFilePath()
	if err != nil {
		return err
	}

	if _, err := os.Stat(cfgPath); os.IsNotExist(err) {
		return fmt.Errorf("config file not found: %s (run 'modcount config init' first)", cfgPath)
	}

	if dryRun {
		ui.DryRunMsg("Would open %s in %s", cfgPath, editor)
		return nil
	}

	editCmd := exec.Command(editor, cfgPath)
	editCmd.Stdin = os.Stdin
	editCmd.Stdout = os.Stdout
	editCmd.Stderr = os.Stderr
	return editCmd.Run()
}
