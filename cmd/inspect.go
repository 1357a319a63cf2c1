package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var (
	inspectJSON      bool
	inspectPartition uint32
)

func init() {
	inspectCmd.Flags().BoolVar(&inspectJSON, "json", false, "print the report as JSON")
	inspectCmd.Flags().Uint32VarP(&inspectPartition, "partition", "p", 0, "only print the extent of this partition number")
	rootCmd.AddCommand(inspectCmd)
}

var inspectCmd = &cobra.Command{
	Use:   "inspect [image]",
	Short: "Show the partitions of an image and the size it can be shrunk to",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if inspectPartition > 0 {
			sg, _ := tools()
			info, err := sg.Partition(cmd.Context(), args[0], inspectPartition)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "sector size: %s\n", info.SectorSize)
			fmt.Fprintf(out, "first sector: %s\n", info.FirstSector)
			fmt.Fprintf(out, "last sector: %s\n", info.LastSector)
			fmt.Fprintf(out, "partition size: %s sectors\n", info.PartitionSectors)
			return nil
		}

		image, err := openImage(args[0])
		if err != nil {
			return err
		}
		snapshot, target, err := image.Plan(cmd.Context())
		if err != nil {
			return err
		}
		return writeReport(cmd.OutOrStdout(), newReport(args[0], snapshot, target), inspectJSON)
	},
}
