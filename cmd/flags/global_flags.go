package flags

import "github.com/spf13/cobra"

func RegisterGlobalFlags(cmd *cobra.Command) {
	cmd.PersistentFlags().StringP(Config, "c", "",
		"Path to the gateway's configuration file.\n"+
			"If not provided, the lookup sequence is:\n  1. $PWD\n  2. /etc/gateway/")
	cmd.PersistentFlags().String(EnvironmentConfigPrefix, "GATEWAYCFG_",
		"Prefix for the environment variables to consider for\nloading configuration from")
}
