package app

import (
	"github.com/spf13/cobra"
)

var appVersion = "dev"

// SetVersion records the build version reported by 'libcat version'.
func SetVersion(v string) {
	if v != "" {
		appVersion = v
	}
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the libcat version",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			newPrinter(cmd).printf("libcat %s\n", appVersion)
		},
	}
}
