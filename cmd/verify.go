package cmd

import (
	"fmt"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(verifyCmd)
}

var verifyCmd = &cobra.Command{
	Use:   "verify [image]",
	Short: "Check that a finalized image has no trailing space and a readable GPT",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		img, err := openImage(args[0])
		if err != nil {
			return err
		}
		target, err := img.Verify(cmd.Context())
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%s: ok, %d bytes (%s), last sector %d\n",
			img.Path(), target.NewDiskSizeBytes, humanize.IBytes(target.NewDiskSizeBytes), target.LastSector)
		return nil
	},
}
