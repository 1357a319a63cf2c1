package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/Alohamoras/windows-image-builder-take-2/pkg/config"
	"github.com/Alohamoras/windows-image-builder-take-2/pkg/image"
	"github.com/Alohamoras/windows-image-builder-take-2/pkg/qemuimg"
	"github.com/Alohamoras/windows-image-builder-take-2/pkg/sgdisk"
	"github.com/Alohamoras/windows-image-builder-take-2/pkg/toolrun"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var (
	quiet      bool
	verbose    bool
	configPath string
	qemuImgBin string
	sgdiskBin  string

	cfg config.Config
)

func init() {
	rootCmd.PersistentFlags().BoolVarP(&quiet, "quiet", "q", false, "only print errors")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "print every command that is run and its output")
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "path to the config file (default "+config.DefaultPath()+")")
	rootCmd.PersistentFlags().StringVar(&qemuImgBin, "qemu-img", "", "qemu-img binary to use")
	rootCmd.PersistentFlags().StringVar(&sgdiskBin, "sgdisk", "", "sgdisk binary to use")
}

var rootCmd = &cobra.Command{
	Use:   "windows-image-builder",
	Short: "windows-image-builder prepares GPT disk images for redistribution",
	Long: `A simple CLI tool for creating blank disk images and, once an
				  operating system has been installed to them, trimming the
				  unused space after the last partition and repairing the GPT.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if quiet && verbose {
			return fmt.Errorf("--quiet and --verbose cannot be used together")
		}
		setupLogging(quiet, verbose)

		var err error
		if configPath != "" {
			cfg, err = config.Load(configPath, true)
		} else {
			cfg, err = config.Load(config.DefaultPath(), false)
		}
		if err != nil {
			return err
		}
		if qemuImgBin != "" {
			cfg.QemuImg = qemuImgBin
		}
		if sgdiskBin != "" {
			cfg.Sgdisk = sgdiskBin
		}
		log.Debugf("using qemu-img %q, sgdisk %q", cfg.QemuImg, cfg.Sgdisk)
		return nil
	},
}

func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		stop()
		os.Exit(1)
	}
}

func tools() (*sgdisk.Tool, *qemuimg.Tool) {
	runner := toolrun.Exec{}
	return sgdisk.New(runner, cfg.Sgdisk), qemuimg.New(runner, cfg.QemuImg)
}

func openImage(path string) (*image.Image, error) {
	sg, qemuImg := tools()
	return image.New(path, sg, qemuImg, sg)
}
