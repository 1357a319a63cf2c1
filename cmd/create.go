package cmd

import (
	"github.com/Alohamoras/windows-image-builder-take-2/pkg/config"
	"github.com/Alohamoras/windows-image-builder-take-2/pkg/image"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var createImageSize string

func init() {
	createCmd.Flags().StringVarP(&createImageSize, "size", "s", "", "size of the blank image (default "+config.DefaultImageSize+")")
	rootCmd.AddCommand(createCmd)
}

var createCmd = &cobra.Command{
	Use:   "create [image]",
	Short: "Create a blank raw image to install an operating system to",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		size := cfg.ImageSize
		if createImageSize != "" {
			size = createImageSize
		}
		_, qemuImg := tools()
		log.Infof("creating %s blank image %s", size, args[0])
		return image.Create(cmd.Context(), qemuImg, args[0], size)
	},
}
