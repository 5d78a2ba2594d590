package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/genogenov/clip-for-fun/internal/objects"
	"github.com/genogenov/clip-for-fun/internal/version"
)

func socketCmd(g *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "socket",
		Short: "Print the display socket path clip would connect to",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := g.load()
			if err != nil {
				return err
			}
			path, err := cfg.DisplaySocket()
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), path)
			return nil
		},
	}
}

func interfacesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "interfaces",
		Short: "List the interface names resolve accepts",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			for _, iface := range objects.KnownInterfaces() {
				fmt.Fprintln(cmd.OutOrStdout(), iface)
			}
		},
	}
}

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintln(cmd.OutOrStdout(), version.String())
		},
	}
}
