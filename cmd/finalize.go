package cmd

import (
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var (
	finalizeJSON   bool
	finalizeDryRun bool
	finalizeVerify bool
)

func init() {
	finalizeCmd.Flags().BoolVar(&finalizeJSON, "json", false, "print the report as JSON")
	finalizeCmd.Flags().BoolVarP(&finalizeDryRun, "dry-run", "n", false, "only compute the new size, do not touch the image")
	finalizeCmd.Flags().BoolVar(&finalizeVerify, "verify", true, "verify the partition table and size of the image afterwards")
	rootCmd.AddCommand(finalizeCmd)
}

var finalizeCmd = &cobra.Command{
	Use:     "finalize [image]",
	Aliases: []string{"shrink"},
	Short:   "Finalize an installed image for redistribution",
	Long: `After an operating system has been installed to an image, this command trims
the unused space after the last partition, leaving just enough room for the
secondary GPT, and then regenerates the secondary GPT.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		img, err := openImage(args[0])
		if err != nil {
			return err
		}
		ctx := cmd.Context()

		if finalizeDryRun {
			snapshot, target, err := img.Plan(ctx)
			if err != nil {
				return err
			}
			r := newReport(img.Path(), snapshot, target)
			r.DryRun = true
			return writeReport(cmd.OutOrStdout(), r, finalizeJSON)
		}

		oldSize := imageSize(img.Path())
		snapshot, target, err := img.Finalize(ctx)
		if err != nil {
			return err
		}
		r := newReport(img.Path(), snapshot, target)
		r.OldSizeBytes = oldSize
		r.Shrunk = true
		r.Repaired = true

		if finalizeVerify {
			if _, err := img.Verify(ctx); err != nil {
				return err
			}
			r.Verified = true
			log.Infof("verified %s", img.Path())
		}
		return writeReport(cmd.OutOrStdout(), r, finalizeJSON)
	},
}
