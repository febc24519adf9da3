package main

import (
	"fmt"
	"os"

	"github.com/cmlabs-hris/hrms-portal/internal/client"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

const appVersion = "0.1.0"

type rootOptions struct {
	apiURL    string
	token     string
	companyID string
}

func (o *rootOptions) client() *client.Client {
	opts := []client.Option{client.WithToken(o.token)}
	if o.companyID != "" {
		opts = append(opts, client.WithCompany(o.companyID))
	}
	return client.New(o.apiURL, opts...)
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func newRootCommand() *cobra.Command {
	opts := &rootOptions{}

	cmd := &cobra.Command{
		Use:           "hrmsctl",
		Short:         "Working days and holiday calendar from the command line",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	cmd.Version = appVersion
	cmd.SetVersionTemplate("hrmsctl v{{.Version}}\n")

	cmd.PersistentFlags().StringVar(&opts.apiURL, "api-url", envOr("HRMS_API_URL", "http://localhost:8080"), "Portal API base URL")
	cmd.PersistentFlags().StringVar(&opts.token, "token", os.Getenv("HRMS_TOKEN"), "Bearer access token")
	cmd.PersistentFlags().StringVar(&opts.companyID, "company", os.Getenv("HRMS_COMPANY_ID"), "Company ID (super admins only)")

	cmd.AddCommand(newWorkdaysCommand(opts))
	cmd.AddCommand(newHolidaysCommand(opts))
	return cmd
}

func main() {
	// A missing .env is fine, flags and the environment still apply.
	_ = godotenv.Load()

	if err := newRootCommand().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
