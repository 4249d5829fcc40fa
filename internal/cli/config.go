package cli

import (
	"github.com/spf13/cobra"

	"github.com/Talk-Point/gmail-cli/internal/config"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage configuration",
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Create default configuration file",
	RunE:  runConfigInit,
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Display current configuration",
	RunE:  runConfigShow,
}

func init() {
	configCmd.AddCommand(configInitCmd)
	configCmd.AddCommand(configShowCmd)
	rootCmd.AddCommand(configCmd)
}

func runConfigInit(cmd *cobra.Command, args []string) error {
	p := printer()

	path, err := config.Init(configPath)
	if err != nil {
		if path != "" {
			// Existing file is not fatal; point at it instead.
			p.Info("Config file already exists at %s", path)
			p.Info("Use 'gmail config show' to view current configuration")
			if p.JSON {
				return p.PrintJSON(map[string]any{
					"status": "exists",
					"path":   path,
				})
			}
			return nil
		}
		return fail(p, "config_init_failed", err.Error())
	}

	if p.JSON {
		return p.PrintJSON(map[string]any{
			"status": "created",
			"path":   path,
		})
	}
	p.Success("Config file created: %s", path)
	return nil
}

func runConfigShow(cmd *cobra.Command, args []string) error {
	p := printer()

	cfg, err := loadConfig()
	if err != nil {
		return fail(p, "config_invalid", err.Error())
	}

	if p.JSON {
		return p.PrintJSON(cfg)
	}

	p.Plain("[oauth]")
	p.Plain("credentials_path = %q", cfg.OAuth.CredentialsPath)
	p.Plain("redirect_port = %d", cfg.OAuth.RedirectPort)
	p.Plain("")
	p.Plain("[defaults]")
	p.Plain("max_results = %d", cfg.Defaults.MaxResults)
	p.Plain("signature = %t", cfg.Defaults.Signature)
	return nil
}
