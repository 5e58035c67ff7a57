package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	siteerrors "github.com/siteship/siteship-cli/internal/errors"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

// flagKeys maps command-line flag names to settings keys.
var flagKeys = map[string]string{
	"api-url":   "api_url",
	"timeout":   "timeout",
	"netrc":     "netrc",
	"site-file": "site_file",
	"debug":     "debug",
}

// DefaultConfigDir returns ~/.config/siteship.
func DefaultConfigDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".config", "siteship")
}

// DefaultNetrcPath honours $NETRC and falls back to ~/.netrc.
func DefaultNetrcPath() string {
	if p := os.Getenv("NETRC"); p != "" {
		return p
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ".netrc"
	}
	return filepath.Join(home, ".netrc")
}

// Load resolves settings. A missing config.yaml in configDir is not an
// error. Only flags that exist in flags are bound.
func Load(flags *pflag.FlagSet, configDir string) (*Settings, error) {
	v := viper.New()

	v.SetDefault("api_url", DefaultAPIURL)
	v.SetDefault("timeout", 0)
	v.SetDefault("netrc", DefaultNetrcPath())
	v.SetDefault("site_file", DefaultSiteFile)
	v.SetDefault("debug", false)

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	if configDir != "" {
		v.AddConfigPath(configDir)
	}

	v.SetEnvPrefix("SITESHIP")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	if flags != nil {
		for name, key := range flagKeys {
			if f := flags.Lookup(name); f != nil {
				if err := v.BindPFlag(key, f); err != nil {
					return nil, siteerrors.Wrap(siteerrors.ErrTypeConfig, "binding flag "+name, err)
				}
			}
		}
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, siteerrors.Wrap(siteerrors.ErrTypeConfig, "failed to read config file", err)
		}
	}

	var s Settings
	if err := v.Unmarshal(&s); err != nil {
		return nil, siteerrors.Wrap(siteerrors.ErrTypeConfig, "failed to unmarshal settings", err)
	}

	if err := s.Validate(); err != nil {
		return nil, err
	}
	return &s, nil
}

// Validate checks the API URL and normalises it to end with a slash.
func (s *Settings) Validate() error {
	u, err := url.Parse(s.APIURL)
	if err != nil || u.Host == "" || (u.Scheme != "http" && u.Scheme != "https") {
		return siteerrors.New(siteerrors.ErrTypeConfig, fmt.Sprintf("invalid api_url %q", s.APIURL)).
			WithSuggestion("api_url must be an absolute http(s) URL, e.g. " + DefaultAPIURL)
	}
	if !strings.HasSuffix(s.APIURL, "/") {
		s.APIURL += "/"
	}
	if s.Timeout < 0 {
		return siteerrors.New(siteerrors.ErrTypeConfig, "timeout cannot be negative")
	}
	return nil
}

// Render returns the settings as YAML. The timeout is written as a
// duration string so the output can be pasted back into config.yaml.
func (s *Settings) Render() ([]byte, error) {
	view := struct {
		APIURL   string `yaml:"api_url"`
		Timeout  string `yaml:"timeout"`
		Netrc    string `yaml:"netrc"`
		SiteFile string `yaml:"site_file"`
		Debug    bool   `yaml:"debug"`
	}{s.APIURL, s.Timeout.String(), s.Netrc, s.SiteFile, s.Debug}

	out, err := yaml.Marshal(view)
	if err != nil {
		return nil, fmt.Errorf("marshaling settings: %w", err)
	}
	return out, nil
}
