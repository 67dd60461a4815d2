package cmd

import (
	"fmt"
	"io"
	"os"

	"s3bridge/core/credentials"

	"github.com/spf13/cobra"
)

var (
	contentTypeFlag string
	outputFlag      string
)

// existsCmd represents the exists command
var existsCmd = &cobra.Command{
	Use:   "exists BUCKET KEY",
	Short: "Check whether an object exists",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withRuntime(func(rt *runtime) error {
			exists, err := rt.service.ObjectExists(args[0], args[1], overridesFromFlags(cmd))
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), exists)
			return nil
		})
	},
}

// createBucketCmd represents the create-bucket command
var createBucketCmd = &cobra.Command{
	Use:   "create-bucket BUCKET",
	Short: "Create a bucket",
	Long:  `Creates a bucket in the configured region. Creating a bucket that already exists fails.`,
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withRuntime(func(rt *runtime) error {
			created, err := rt.service.CreateBucket(args[0], overridesFromFlags(cmd))
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), created)
			return nil
		})
	},
}

// putCmd represents the put command
var putCmd = &cobra.Command{
	Use:   "put BUCKET KEY [FILE]",
	Short: "Upload an object",
	Long:  `Uploads FILE, or standard input when FILE is omitted or "-", and prints the ETag.`,
	Args:  cobra.RangeArgs(2, 3),
	RunE: func(cmd *cobra.Command, args []string) error {
		data, err := readPayload(cmd, args[2:])
		if err != nil {
			return err
		}

		var contentType *string
		if cmd.Flags().Changed("content-type") {
			contentType = credentials.String(contentTypeFlag)
		}

		return withRuntime(func(rt *runtime) error {
			etag, err := rt.service.PutObject(args[0], args[1], data, overridesFromFlags(cmd), contentType)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), etag)
			return nil
		})
	},
}

// getCmd represents the get command
var getCmd = &cobra.Command{
	Use:   "get BUCKET KEY",
	Short: "Download an object",
	Long:  `Writes the object to standard output, or to the file given with --output.`,
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withRuntime(func(rt *runtime) error {
			data, err := rt.service.GetObject(args[0], args[1], overridesFromFlags(cmd))
			if err != nil {
				return err
			}
			if outputFlag != "" && outputFlag != "-" {
				if err := os.WriteFile(outputFlag, data, 0o644); err != nil {
					return fmt.Errorf("failed to write %s: %w", outputFlag, err)
				}
				return nil
			}
			_, err = cmd.OutOrStdout().Write(data)
			return err
		})
	},
}

func withRuntime(fn func(rt *runtime) error) error {
	rt, err := newRuntime()
	if err != nil {
		return err
	}
	defer rt.close()
	return fn(rt)
}

func readPayload(cmd *cobra.Command, args []string) ([]byte, error) {
	if len(args) == 0 || args[0] == "-" {
		data, err := io.ReadAll(cmd.InOrStdin())
		if err != nil {
			return nil, fmt.Errorf("failed to read stdin: %w", err)
		}
		return data, nil
	}
	data, err := os.ReadFile(args[0])
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", args[0], err)
	}
	return data, nil
}

func init() {
	putCmd.Flags().StringVar(&contentTypeFlag, "content-type", "", "content type stored with the object")
	getCmd.Flags().StringVarP(&outputFlag, "output", "o", "", "write the object to this file instead of stdout")

	RootCmd.AddCommand(existsCmd)
	RootCmd.AddCommand(createBucketCmd)
	RootCmd.AddCommand(putCmd)
	RootCmd.AddCommand(getCmd)
}
