package main

import (
	"context"
	goerrors "errors"
	"fmt"
	"os"
	"os/signal"
	"strings"

	"github.com/mitchellh/go-homedir"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/c0lang/c0/compiler"
)

var (
	version = "dev"
	commit  = "unknown"
	date    = "unknown"
)

func newRootCmd() *cobra.Command {
	var cfgFile string
	cmd := &cobra.Command{
		Use:   "c0c",
		Short: "Compiler for the c0 language",
		Long: `c0c compiles c0 source files into binary modules for the c0 stack machine.

Settings may also be given in $HOME/.c0c.yaml or as C0C_* environment
variables, e.g. C0C_NO_COLOR=1.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if err := initConfig(cfgFile); err != nil {
				return err
			}
			processGlobalFlags()
			return nil
		},
	}
	pf := cmd.PersistentFlags()
	pf.StringVar(&cfgFile, "config", "", "config file (default is $HOME/.c0c.yaml)")
	pf.Bool("no-color", false, "Disable colored output")
	pf.BoolP("verbose", "v", false, "Log compiler events to stderr")
	pf.Int("max-depth", compiler.DefaultMaxDepth, "Maximum nesting depth of blocks and expressions")
	for _, name := range []string{"no-color", "verbose", "max-depth"} {
		if err := viper.BindPFlag(name, pf.Lookup(name)); err != nil {
			fatal(err)
		}
	}

	cmd.AddCommand(
		newBuildCmd(),
		newDisCmd(),
		newTokensCmd(),
		newDumpCmd(),
		newVersionCmd(),
	)
	return cmd
}

// initConfig reads the config file and environment. A missing default
// config file is not an error; a missing explicit one is.
func initConfig(cfgFile string) error {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		home, err := homedir.Dir()
		if err != nil {
			return err
		}
		viper.AddConfigPath(home)
		viper.SetConfigName(".c0c")
		viper.SetConfigType("yaml")
	}
	viper.SetEnvPrefix("c0c")
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.AutomaticEnv()
	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if cfgFile != "" || !goerrors.As(err, &notFound) {
			return fmt.Errorf("reading config: %w", err)
		}
	}
	return nil
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		stop()
		fmt.Fprint(os.Stderr, formatError(err, useColor(os.Stderr)))
		os.Exit(1)
	}
}
