package cmd

import (
	"github.com/spf13/cobra"

	"github.com/fitlane/gateway/cmd/flags"
	"github.com/fitlane/gateway/cmd/validate"
)

// nolint: gochecknoglobals
var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Commands for validating the gateway's configuration",
	Run: func(cmd *cobra.Command, args []string) {
		cmd.Println(cmd.UsageString())
	},
}

// nolint: gochecknoinits
func init() {
	RootCmd.AddCommand(validateCmd)

	flags.RegisterGlobalFlags(validateCmd)
	validateCmd.AddCommand(validate.NewValidateConfigCommand())
}
