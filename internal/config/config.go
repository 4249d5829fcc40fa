package config

// Config represents the application configuration
type Config struct {
	OAuth    OAuthConfig    `toml:"oauth"`
	Defaults DefaultsConfig `toml:"defaults"`
}

// OAuthConfig contains the OAuth client settings
type OAuthConfig struct {
	CredentialsPath string `toml:"credentials_path"`
	RedirectPort    int    `toml:"redirect_port"`
}

// DefaultsConfig contains per-command default behavior
type DefaultsConfig struct {
	MaxResults int  `toml:"max_results"`
	Signature  bool `toml:"signature"`
}

// Default returns a Config with sensible defaults
func Default() *Config {
	return &Config{
		OAuth: OAuthConfig{
			CredentialsPath: "~/.config/gmail-cli/credentials.json",
			RedirectPort:    8089,
		},
		Defaults: DefaultsConfig{
			MaxResults: 20,
			Signature:  true,
		},
	}
}
