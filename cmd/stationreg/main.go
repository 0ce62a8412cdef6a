package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

func main() {
	root := buildRoot()
	if err := root.Execute(); err != nil {
		_, _ = fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func buildRoot() *cobra.Command {
	g := &GlobalFlags{}

	root := &cobra.Command{
		Use:   "stationreg",
		Short: "Discover and register test-station run records",
		Long: "stationreg maintains a directory of run-record files, one per running\n" +
			"test-station instance, and discovers active stations by scanning it and\n" +
			"probing the recorded process ids.",
		SilenceUsage: true,
	}
	root.PersistentFlags().StringVar(&g.ConfigPath, "config", "", "TOML config file")
	root.PersistentFlags().StringVar(&g.RunDir, "dir", "", "run-record directory (overrides config)")

	root.AddCommand(newListCmd(g))
	root.AddCommand(newShowCmd(g))
	root.AddCommand(newRegisterCmd(g))
	root.AddCommand(newServeCmd(g))
	return root
}
