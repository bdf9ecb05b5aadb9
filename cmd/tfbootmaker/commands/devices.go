package commands

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/mik-tf/tfbootmaker/pkg/device"
)

var devicesCmd = &cobra.Command{
	Use:   "devices",
	Short: "List attached block devices",
	RunE:  runDevices,
}

func init() {
	rootCmd.AddCommand(devicesCmd)
}

func runDevices(cmd *cobra.Command, args []string) error {
	return device.ListBlockDevices(os.Stdout)
}
