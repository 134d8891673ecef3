package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/iliyamo/film-dashboard/internal/config"
)

type versionInfo struct {
	Version string
	Commit  string
}

func newRootCommand(info versionInfo) *cobra.Command {
	var envFiles []string

	cmd := &cobra.Command{
		Use:           "filmdash",
		Short:         "Film catalog dashboard",
		Long:          "Browse, search, filter and append films stored in a document database through a web dashboard.",
		SilenceErrors: true,
		SilenceUsage:  true,

		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			config.LoadDotEnv(envFiles...)
		},
	}

	cmd.PersistentFlags().StringSliceVar(&envFiles, "env-file", nil, "env files to load (default .env, .env.local)")
	cmd.Version = fmt.Sprintf("%s.%s", info.Version, info.Commit)
	return cmd
}

func newVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintln(cmd.OutOrStdout(), cmd.Root().Version)
		},
	}
}
