// Copyright © 2024 The XCTLint authors

package cmd

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	cfgFile   string
	colorFlag string
	verbose   bool

	// configErr records a configuration file that exists but could not be
	// read. Commands that need configuration report it as a setup failure.
	configErr error

	logger = logrus.New()
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "xctlint",
	Short: "xctlint checks XCTest test cases for lifecycle hygiene",
	Long: `xctlint checks Swift XCTest test cases for lifecycle hygiene problems:

  - setUp()/tearDown() overrides that do not call super
  - stored properties that tearDown() does not reset to nil
  - shared state that is set up but never torn down

Getting started:
  xctlint lint Tests/                 Lint every .swift file below Tests/
  xctlint lint ./...                  Lint the current directory recursively
  xctlint rules                       List the rules
  xctlint rules xct_reset_shared_state
                                      Show a rule with its examples
  xctlint structure FooTests.swift    Dump the parsed structure as JSON
  xctlint lsp                         Start the language server

Configuration is read from .xctlint.yml in the working directory or your
home directory, or from the file given with --config. Rule sections use the
rule identifier as key:

  only_rules: [xct_missing_super_setup_teardown]
  disabled_rules: [xct_reset_shared_state]
  excluded: [Pods]
  xct_missing_super_setup_teardown:
    severity: error
    test_classes: [BaseTestCase]`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// ExitError carries a process exit status out of a command. A nil Err
// exits silently.
type ExitError struct {
	Code int
	Err  error
}

func (e *ExitError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("exit status %d", e.Code)
	}
	return e.Err.Error()
}

func (e *ExitError) Unwrap() error { return e.Err }

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	err := rootCmd.Execute()
	if err == nil {
		return
	}
	var exit *ExitError
	if errors.As(err, &exit) {
		if exit.Err != nil {
			fmt.Fprintln(os.Stderr, "xctlint:", exit.Err)
		}
		os.Exit(exit.Code)
	}
	fmt.Fprintln(os.Stderr, "xctlint:", err)
	os.Exit(2)
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "",
		"config file (default is .xctlint.yml in the working or home directory)")
	rootCmd.PersistentFlags().StringVar(&colorFlag, "color", "auto",
		`Control colored output: "auto", "always", or "never".`)
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false,
		"Log debug output to stderr.")
}

// initConfig reads in config file and ENV variables if set.
func initConfig() {
	logger.SetOutput(os.Stderr)
	logger.SetLevel(logrus.WarnLevel)
	if verbose {
		logger.SetLevel(logrus.DebugLevel)
	}

	configErr = loadConfig(viper.GetViper(), cfgFile)
	if configErr == nil && viper.ConfigFileUsed() != "" {
		logger.WithField("file", viper.ConfigFileUsed()).Info("using config file")
	}
}

// loadConfig points v at path, or at .xctlint.{yml,yaml} in the working
// and home directories, and reads it. A missing default file is not an
// error.
func loadConfig(v *viper.Viper, path string) error {
	v.SetEnvPrefix("XCTLINT")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName(".xctlint")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		if home, err := os.UserHomeDir(); err == nil {
			v.AddConfigPath(home)
		}
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path == "" && errors.As(err, &notFound) {
			return nil
		}
		return fmt.Errorf("reading config: %w", err)
	}
	return nil
}
