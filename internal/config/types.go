package config

import "time"

// DefaultAPIURL is the deployment API used when nothing else is configured.
const DefaultAPIURL = "https://siteship.sh/api/"

// DefaultSiteFile is the per-project site configuration file.
const DefaultSiteFile = ".siteship"

// Settings holds the effective CLI settings after merging defaults, the
// config file, SITESHIP_* environment variables and command-line flags.
type Settings struct {
	APIURL   string        `mapstructure:"api_url" yaml:"api_url"`
	Timeout  time.Duration `mapstructure:"timeout" yaml:"timeout"`
	Netrc    string        `mapstructure:"netrc" yaml:"netrc"`
	SiteFile string        `mapstructure:"site_file" yaml:"site_file"`
	Debug    bool          `mapstructure:"debug" yaml:"debug"`
}
