package cmd

import (
	"fmt"

	"github.com/siteship/siteship-cli/internal/config"
	"github.com/siteship/siteship-cli/internal/workflow"
	"github.com/spf13/cobra"
)

type deployOptions struct {
	site   string
	path   string
	domain string
}

func (o *deployOptions) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&o.site, "site", "", "site id to deploy (default the first site in the site file)")
	cmd.Flags().StringVar(&o.path, "path", "", "directory with the site content")
	cmd.Flags().StringVar(&o.domain, "domain", "", "domain to serve the site on")
}

func runDeploy(cmd *cobra.Command, o *deployOptions) error {
	inv, err := setup(cmd, true)
	if err != nil {
		return err
	}
	defer inv.close()

	return inv.workflow.Deploy(inv.ctx, workflow.DeployOptions{Site: o.site, Path: o.path, Domain: o.domain})
}

func newDeployCmd() *cobra.Command {
	o := &deployOptions{}
	cmd := &cobra.Command{
		Use:   "deploy",
		Short: "Upload the site, creating it on first use",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDeploy(cmd, o)
		},
	}
	o.register(cmd)
	return cmd
}

type credentialOptions struct {
	email    string
	password string
}

func (o *credentialOptions) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&o.email, "email", "", "account email (prompted when omitted)")
	cmd.Flags().StringVar(&o.password, "password", "", "account password (prompted when omitted)")
}

func newLoginCmd() *cobra.Command {
	o := &credentialOptions{}
	cmd := &cobra.Command{
		Use:   "login",
		Short: "Log in and store the API token",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			inv, err := setup(cmd, false)
			if err != nil {
				return err
			}
			defer inv.close()
			return inv.workflow.Login(inv.ctx, o.email, o.password)
		},
	}
	o.register(cmd)
	return cmd
}

func newRegisterCmd() *cobra.Command {
	o := &credentialOptions{}
	cmd := &cobra.Command{
		Use:   "register",
		Short: "Create an account and log in",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			inv, err := setup(cmd, false)
			if err != nil {
				return err
			}
			defer inv.close()
			return inv.workflow.Register(inv.ctx, o.email, o.password)
		},
	}
	o.register(cmd)
	return cmd
}

func newLogoutCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Remove the stored API token",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			inv, err := setup(cmd, false)
			if err != nil {
				return err
			}
			defer inv.close()
			return inv.workflow.Logout()
		},
	}
}

func newListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List your sites",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			inv, err := setup(cmd, false)
			if err != nil {
				return err
			}
			defer inv.close()
			return inv.workflow.List(inv.ctx)
		},
	}
}

func newWhoamiCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Show the logged in account",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			inv, err := setup(cmd, false)
			if err != nil {
				return err
			}
			defer inv.close()
			return inv.workflow.Whoami()
		},
	}
}

func newStatusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show the site recorded in the site file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			inv, err := setup(cmd, true)
			if err != nil {
				return err
			}
			defer inv.close()
			return inv.workflow.Status()
		},
	}
}

func newConfigCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "config",
		Short: "Print the effective settings as YAML",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			settings, err := config.Load(cmd.Flags(), configDirProvider())
			if err != nil {
				return err
			}
			out, err := settings.Render()
			if err != nil {
				return err
			}
			_, err = fmt.Fprint(cmd.OutOrStdout(), string(out))
			return err
		},
	}
}
