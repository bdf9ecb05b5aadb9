package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mik-tf/tfbootmaker/internal/config"
	"github.com/mik-tf/tfbootmaker/pkg/bootstrap"
	"github.com/mik-tf/tfbootmaker/pkg/errors"
)

var urlCmd = &cobra.Command{
	Use:   "url <environment> <farm-id>",
	Short: "Print the boot image download URL for an environment and farm",
	Args:  cobra.ExactArgs(2),
	RunE:  runURL,
}

func init() {
	rootCmd.AddCommand(urlCmd)
}

func runURL(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return errors.Wrap(err, "config load failed")
	}
	if err := cfg.Validate(); err != nil {
		return errors.Wrap(err, "config invalid")
	}

	code, ok := bootstrap.EnvironmentCode(args[0])
	if !ok {
		return fmt.Errorf("invalid environment %q: choose mainnet, devnet, testnet or qanet", args[0])
	}
	if err := bootstrap.ValidateFarmID(args[1]); err != nil {
		return err
	}

	target := bootstrap.Target{Environment: args[0], EnvCode: code, FarmID: args[1]}
	fmt.Println(target.URL(cfg.BaseURL))

	if cfg.MirrorBucket != "" {
		fmt.Printf("mirror: s3://%s/%s\n", cfg.MirrorBucket, target.MirrorKey())
	}
	return nil
}
