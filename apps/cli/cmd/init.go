package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/abdul-hamid-achik/hitvcr/packages/core/config"
	"github.com/spf13/cobra"
)

var forceInit bool

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Create a hitvcr config file",
	Long: `Create .hitvcr.yml in the current directory with the default
recorder options.

This creates:
  - .hitvcr.yml           - Configuration file
  - testdata/cassettes/   - Default cassette directory

Examples:
  hitvcr init
  hitvcr init --force`,
	Args: usageArgs(cobra.NoArgs),
	RunE: initCommand,
}

func init() {
	initCmd.Flags().BoolVarP(&forceInit, "force", "f", false, "Overwrite an existing config file")
}

// initOptions are the recorder options written by init.
func initOptions() config.Options {
	return config.Options{
		{Name: config.OptionMode, Value: "new_episodes"},
		{Name: config.OptionCassettePath, Value: "testdata/cassettes"},
		{Name: config.OptionRequestMatchers, Value: []any{"method", "url", "body"}},
	}
}

func initCommand(cmd *cobra.Command, args []string) error {
	cwd, err := os.Getwd()
	if err != nil {
		return err
	}

	configFile := filepath.Join(cwd, config.ConfigFilenames[0])
	cassetteDir := filepath.Join(cwd, "testdata", "cassettes")

	if !forceInit {
		if _, err := os.Stat(configFile); err == nil {
			return fmt.Errorf("file already exists: %s (use --force to overwrite)", configFile)
		}
	}

	cfg := config.DefaultConfig()
	cfg.Options = initOptions()
	if err := cfg.SaveConfig(configFile); err != nil {
		return fmt.Errorf("failed to create config file: %w", err)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Created: %s\n", configFile)

	if err := os.MkdirAll(cassetteDir, 0755); err != nil {
		return fmt.Errorf("failed to create cassette directory: %w", err)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Created: %s\n", cassetteDir)

	fmt.Fprintf(cmd.OutOrStdout(), "\nhitvcr initialized!\n")
	fmt.Fprintf(cmd.OutOrStdout(), "Add '// @vcr <cassette>' to a test's doc comment and call listener.Bind(t).\n")

	return nil
}
