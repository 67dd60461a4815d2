package cmd

import (
	"fmt"
	"os"

	"s3bridge/core/credentials"
	"s3bridge/core/logger"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// RootCmd represents the base command when called without any subcommands
var RootCmd = &cobra.Command{
	Use:   "s3bridge",
	Short: "Blocking object operations against S3-compatible storage",
	Long: `s3bridge checks, creates, uploads and downloads objects on any S3-compatible
endpoint (AWS S3, MinIO, ...). Endpoint and credentials come from flags or from
S3_ENDPOINT_URL, AWS_ACCESS_KEY_ID, AWS_SECRET_ACCESS_KEY and AWS_SESSION_TOKEN.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Per-call override flags. Only flags set explicitly count as overrides.
var (
	endpointFlag     string
	accessKeyFlag    string
	secretKeyFlag    string
	sessionTokenFlag string
	regionFlag       string
)

func Execute() {
	if err := RootCmd.Execute(); err != nil {
		// Console encoding with the development preset for readable CLI errors
		cfg := &logger.Config{
			Level:  "debug",
			Format: "console",
		}

		l, logErr := logger.New(cfg)
		if logErr == nil {
			l.Error("command failed", zap.Error(err))
			_ = l.Sync()
		} else {
			fmt.Println(err)
		}
		os.Exit(1)
	}
}

// overridesFromFlags collects the override flags the user actually set.
func overridesFromFlags(cmd *cobra.Command) credentials.Overrides {
	flags := cmd.Flags()
	pick := func(name, value string) *string {
		if !flags.Changed(name) {
			return nil
		}
		return &value
	}
	return credentials.Overrides{
		Endpoint:     pick("endpoint", endpointFlag),
		AccessKey:    pick("access-key", accessKeyFlag),
		SecretKey:    pick("secret-key", secretKeyFlag),
		SessionToken: pick("session-token", sessionTokenFlag),
		Region:       pick("region", regionFlag),
	}
}

func init() {
	pf := RootCmd.PersistentFlags()
	pf.StringVar(&endpointFlag, "endpoint", "", "S3 endpoint URL (default $S3_ENDPOINT_URL, https:// assumed without scheme)")
	pf.StringVar(&accessKeyFlag, "access-key", "", "access key id (default $AWS_ACCESS_KEY_ID)")
	pf.StringVar(&secretKeyFlag, "secret-key", "", "secret access key (default $AWS_SECRET_ACCESS_KEY)")
	pf.StringVar(&sessionTokenFlag, "session-token", "", "session token (default $AWS_SESSION_TOKEN)")
	pf.StringVar(&regionFlag, "region", "", "region (default "+credentials.DefaultRegion+")")
}
