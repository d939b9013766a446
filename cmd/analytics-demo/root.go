package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/kbukum/providerkit/analytics"
	"github.com/kbukum/providerkit/analytics/dummy"
	"github.com/kbukum/providerkit/version"
)

const serviceName = "analytics-demo"

func newRootCommand() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:          serviceName,
		Short:        "Run analytics providers selected for a platform",
		SilenceUsage: true,
	}
	rootCmd.AddCommand(newRunCommand(), newServeCommand(), newProvidersCommand(), newVersionCommand())
	return rootCmd
}

func newVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print build information",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintln(cmd.OutOrStdout(), version.Get().String())
		},
	}
}

func newProvidersCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "providers",
		Short: "List the provider types that can appear in a config file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			reg := analytics.NewRegistry()
			if err := dummy.Register(reg, nil, 0); err != nil {
				return err
			}
			for _, typ := range reg.Types() {
				fmt.Fprintln(cmd.OutOrStdout(), typ)
			}
			return nil
		},
	}
}
