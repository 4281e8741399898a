package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/GriffinCanCode/DeskOS/internal/infrastructure/config"
)

// options holds flags shared by every command
type options struct {
	configFile string
}

func (o *options) load() (*config.Config, error) {
	return config.LoadFile(o.configFile)
}

func newRootCommand() *cobra.Command {
	opts := &options{}
	root := &cobra.Command{
		Use:           "deskos",
		Short:         "Session state service for the DeskOS desktop",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVarP(&opts.configFile, "config", "c", "", "Path to a YAML config file")

	root.AddCommand(newServeCommand(opts))
	root.AddCommand(newCacheCommand(opts))
	return root
}

func main() {
	if err := newRootCommand().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
