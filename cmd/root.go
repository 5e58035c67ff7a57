package cmd

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	"github.com/siteship/siteship-cli/client"
	"github.com/siteship/siteship-cli/internal/archive"
	"github.com/siteship/siteship-cli/internal/config"
	"github.com/siteship/siteship-cli/internal/credentials"
	"github.com/siteship/siteship-cli/internal/logger"
	"github.com/siteship/siteship-cli/internal/siteconfig"
	"github.com/siteship/siteship-cli/internal/workflow"
	"github.com/siteship/siteship-cli/ui"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/term"
)

// version holds the current version of siteship
// This will be set at build time via ldflags
var version = "dev"

// GetVersionString returns a formatted version string
func GetVersionString() string {
	return fmt.Sprintf("siteship version %s", version)
}

// 将外部依赖抽象为可替换的 provider，测试时注入。
var (
	fsProvider         = func() afero.Fs { return afero.NewOsFs() }
	httpClientProvider = func() *http.Client { return &http.Client{} }
	configDirProvider  = config.DefaultConfigDir
	prompterProvider   = defaultPrompterProvider
	now                = time.Now
)

func defaultPrompterProvider(cmd *cobra.Command) workflow.Prompter {
	in, inOK := cmd.InOrStdin().(*os.File)
	out, outOK := cmd.OutOrStdout().(*os.File)
	if inOK && outOK {
		return ui.NewPrompter(in, out)
	}
	return ui.NewLinePrompter(cmd.InOrStdin(), cmd.OutOrStdout())
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

// invocation holds what one command run needs.
type invocation struct {
	settings *config.Settings
	logger   *zap.Logger
	workflow *workflow.Workflow
	ctx      context.Context
	cancel   context.CancelFunc
}

func (i *invocation) close() {
	i.cancel()
	_ = i.logger.Sync()
}

// setup resolves settings and builds the workflow. The site file is only
// opened when withSites is set so that account commands work anywhere.
func setup(cmd *cobra.Command, withSites bool) (*invocation, error) {
	settings, err := config.Load(cmd.Flags(), configDirProvider())
	if err != nil {
		return nil, err
	}

	appLogger, err := logger.New(settings.Debug)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}
	appLogger.Debug("Settings resolved",
		zap.String("api_url", settings.APIURL),
		zap.Duration("timeout", settings.Timeout),
		zap.String("netrc", settings.Netrc),
		zap.String("site_file", settings.SiteFile))

	store, err := credentials.Open(settings.Netrc)
	if err != nil {
		return nil, err
	}
	session, err := workflow.NewSession(store, settings.APIURL)
	if err != nil {
		return nil, err
	}

	fs := fsProvider()
	var sites *siteconfig.Store
	if withSites {
		if sites, err = siteconfig.Open(fs, settings.SiteFile); err != nil {
			return nil, err
		}
	}

	api := client.NewClient(settings.APIURL, httpClientProvider(), appLogger)
	appLogger.Debug("API client ready", zap.String("base_url", api.BaseURL()))
	out := cmd.OutOrStdout()

	wf := workflow.New(workflow.Options{
		Session:  session,
		Sites:    sites,
		API:      func(token string) workflow.API { return api.WithToken(token) },
		Archiver: archive.New(fs, appLogger),
		Prompter: prompterProvider(cmd),
		NewProgress: func() workflow.ProgressReporter {
			return ui.NewUploadProgress(out, isTerminal(out))
		},
		Out:     out,
		Logger:  appLogger,
		Now:     now,
		Timeout: settings.Timeout,
	})

	ctx, cancel := context.WithCancel(cmd.Context())

	return &invocation{
		settings: settings,
		logger:   appLogger,
		workflow: wf,
		ctx:      ctx,
		cancel:   cancel,
	}, nil
}

// NewRootCmd builds the command tree. Running it without a subcommand
// deploys.
func NewRootCmd() *cobra.Command {
	var flagVersion bool
	deployFlags := &deployOptions{}

	rootCmd := &cobra.Command{
		Use:   "siteship",
		Short: "Deploy a static site to siteship.sh",
		Long: `siteship packages a static site directory and uploads it to siteship.sh.

The first deploy creates the site and records it in .siteship; later deploys
from the same directory update it.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		Args:          cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if flagVersion {
				_, _ = fmt.Fprintln(cmd.OutOrStdout(), GetVersionString())
				return nil
			}
			return runDeploy(cmd, deployFlags)
		},
	}

	pf := rootCmd.PersistentFlags()
	pf.Bool("debug", false, "enable debug output for troubleshooting")
	pf.String("api-url", "", "deployment API base URL (default "+config.DefaultAPIURL+")")
	pf.Duration("timeout", 0, "timeout for each API call, e.g. 30s (default no limit)")
	pf.String("netrc", "", "credential file (default $NETRC or ~/.netrc)")
	pf.String("site-file", "", "site configuration file (default "+config.DefaultSiteFile+")")

	rootCmd.Flags().BoolVar(&flagVersion, "version", false, "show version information")
	deployFlags.register(rootCmd)

	rootCmd.AddCommand(
		newDeployCmd(),
		newLoginCmd(),
		newLogoutCmd(),
		newRegisterCmd(),
		newListCmd(),
		newWhoamiCmd(),
		newStatusCmd(),
		newConfigCmd(),
	)
	return rootCmd
}

// ExecuteContext runs the command tree. Cancelling ctx aborts in-flight API
// calls.
func ExecuteContext(ctx context.Context) error { return NewRootCmd().ExecuteContext(ctx) }
