package commands

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var rootCmd = &cobra.Command{
	Use:   "tfbootmaker",
	Short: "Prepare a USB boot device for a Zero-OS node",
	Long: `tfbootmaker prepares a USB stick that network-boots a Zero-OS node.

The stick is formatted with a FAT32 filesystem and the UEFI boot loader
image (BOOTX64.EFI) for the chosen environment and farm is installed at
EFI/BOOT/BOOTX64.EFI, where the firmware expects it.

Steps performed:
  1. Show the current block device layout
  2. Optionally unmount a stale mount
  3. Ask for the target device, environment and farm ID
  4. Confirm, then format the device with FAT32
  5. Mount it and fetch the boot loader for the selected environment/farm
  6. List the result, unmount, and optionally eject

Type 'exit' at any prompt to quit.

Examples:
  tfbootmaker                 interactive preparation run
  tfbootmaker devices         list attached block devices
  tfbootmaker url mainnet 42  print the download URL for farm 42 on mainnet`,
	SilenceUsage: true,
	RunE:         runPrepare,
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().String("base-url", "https://bootstrap.grid.tf", "Bootstrap server base URL")
	rootCmd.PersistentFlags().String("mirror-bucket", "", "Fetch the boot image from this S3 mirror bucket instead of the bootstrap server")
	rootCmd.PersistentFlags().String("mirror-region", "us-east-1", "S3 mirror region")
	rootCmd.PersistentFlags().String("work-dir", "/tmp/tfbootmaker", "Working directory")
	rootCmd.PersistentFlags().String("mount-path", "/tmp/tfbootmaker/mnt", "Temporary mount point for the target device")
	rootCmd.PersistentFlags().String("fsm-db-path", "/tmp/tfbootmaker/fsm.db", "Pipeline journal path")

	viper.BindPFlag("base-url", rootCmd.PersistentFlags().Lookup("base-url"))
	viper.BindPFlag("mirror-bucket", rootCmd.PersistentFlags().Lookup("mirror-bucket"))
	viper.BindPFlag("mirror-region", rootCmd.PersistentFlags().Lookup("mirror-region"))
	viper.BindPFlag("work-dir", rootCmd.PersistentFlags().Lookup("work-dir"))
	viper.BindPFlag("mount-path", rootCmd.PersistentFlags().Lookup("mount-path"))
	viper.BindPFlag("fsm-db-path", rootCmd.PersistentFlags().Lookup("fsm-db-path"))
}
