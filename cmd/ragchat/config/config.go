package configcmder

import (
	"fmt"

	"github.com/BurntSushi/toml"
	"github.com/spf13/cobra"

	"github.com/papercomputeco/ragchat/cmd/ragchat/cliconfig"
	"github.com/papercomputeco/ragchat/config"
)

const configLongDesc string = `Show the effective configuration.

Settings are layered: built-in defaults, then the config file
(~/.ragchat/config.toml or --config), then a .env file in the working
directory, then RAGCHAT_* environment variables, then flags. The
result is printed as TOML with the token masked. --write saves it to
the config file so later runs pick it up.

Examples:
  ragchat config
  ragchat --url http://10.0.0.5:8000 config --write`

const configShortDesc string = "Show or save the effective configuration"

const maskedToken = "********"

type configCommander struct {
	write bool
}

func NewConfigCmd() *cobra.Command {
	cmder := &configCommander{}

	cmd := &cobra.Command{
		Use:   "config",
		Short: configShortDesc,
		Long:  configLongDesc,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return cmder.run(cmd)
		},
	}

	cmd.Flags().BoolVar(&cmder.write, "write", false, "Save the effective configuration to the config file")

	return cmd
}

func (c *configCommander) run(cmd *cobra.Command) error {
	cfg, err := cliconfig.Resolve(cmd)
	if err != nil {
		return err
	}

	if c.write {
		path, err := cmd.Flags().GetString(cliconfig.FlagConfig)
		if err != nil || path == "" {
			if path, err = config.DefaultPath(); err != nil {
				return err
			}
		}
		if err := cfg.Write(path); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s\n", path)
		return nil
	}

	shown := *cfg
	if shown.Token != "" {
		shown.Token = maskedToken
	}
	return toml.NewEncoder(cmd.OutOrStdout()).Encode(shown)
}
