// File: cmd/ecsdash/buckets_cmd.go
package main

import (
	"fmt"
	"strings"

	"ecsdash/internal/flags"
	"ecsdash/internal/provider/registry"

	"github.com/spf13/cobra"
)

type bucketsFlags struct {
	providersList []string
	limit         int
}

// providerChecker is the part of the provider factory used to validate --providers
type providerChecker interface {
	GetConfiguredProviders() []string
	IsConfigured(providerName string) bool
}

func newBucketsCmd() *cobra.Command {
	cmdFlags := bucketsFlags{}

	bucketsCmd := &cobra.Command{
		Use:   "buckets",
		Short: "Inspect storage buckets",
		Long:  `The buckets command lists the storage buckets of the configured cloud providers.`,
	}

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "List storage buckets with region, versioning and age",
		Long: `Lists the storage buckets of every configured provider and enriches the first
--cap buckets of each with their region, versioning state and age.
Use the --providers flag to specify which providers to query (e.g., --providers gcp,aws).`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := appFromContext(cmd.Context())
			if err != nil {
				return err
			}

			providersToQuery, err := resolveProvidersForList(cmdFlags.providersList, app.ProviderFactory)
			if err != nil {
				return err
			}
			if len(providersToQuery) == 0 {
				fmt.Fprintf(cmd.OutOrStdout(), "No providers configured. Use 'ecsdash config set'. Supported providers: %s\n", strings.Join(registry.GetSupportedProviders(), ", "))
				return nil
			}

			limit := app.Config.Buckets.Cap
			if cmd.Flags().Changed(flags.Cap) {
				limit = cmdFlags.limit
			}
			if limit < 0 {
				return fmt.Errorf("--%s must not be negative, got %d", flags.Cap, limit)
			}

			defer app.BucketService.Close()
			report, err := app.BucketService.ListAllBuckets(cmd.Context(), providersToQuery, limit)
			if err != nil {
				return err
			}

			if report.TotalCount == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No buckets found.")
				return nil
			}
			fmt.Fprintln(cmd.OutOrStdout(), app.BucketFormatter.FormatBucketReport(report.Buckets, report.TotalCount))
			return nil
		},
	}
	listCmd.Flags().StringSliceVarP(&cmdFlags.providersList, flags.Providers, flags.ProvidersShort, []string{}, "Specify providers to query (comma-separated). Defaults to all configured providers.")
	listCmd.Flags().IntVar(&cmdFlags.limit, flags.Cap, 0, "Maximum number of buckets to enrich per provider (default buckets.cap)")

	bucketsCmd.AddCommand(listCmd)
	return bucketsCmd
}

func resolveProvidersForList(requestedProviders []string, providers providerChecker) ([]string, error) {
	if len(requestedProviders) == 0 {
		return providers.GetConfiguredProviders(), nil
	}

	var validatedProviders []string
	var invalidProviders []string
	seen := make(map[string]bool)

	for _, p := range requestedProviders {
		p = strings.ToLower(strings.TrimSpace(p))
		if p == "" || seen[p] {
			continue
		}
		seen[p] = true

		if !registry.IsSupported(p) {
			invalidProviders = append(invalidProviders, p)
			continue
		}
		if !providers.IsConfigured(p) {
			return nil, fmt.Errorf("provider '%s' was requested but is not configured. Use 'ecsdash config set %s.<key> <value>'", p, p)
		}
		validatedProviders = append(validatedProviders, p)
	}

	if len(invalidProviders) > 0 {
		return nil, fmt.Errorf("unsupported providers requested: %v. Supported providers are: %v", invalidProviders, registry.GetSupportedProviders())
	}

	return validatedProviders, nil
}
