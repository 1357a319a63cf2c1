// Package qemuimg provides a wrapper around qemu-img.
package qemuimg

import (
	"context"
	"strconv"

	"github.com/Alohamoras/windows-image-builder-take-2/pkg/toolrun"
)

const (
	DefaultBinary = "qemu-img"

	// ShrinkFlag must be passed to resize when the image gets smaller. It is
	// mandatory since QEMU 5.1 and unknown before QEMU 2.11.
	ShrinkFlag = "--shrink"
)

type Tool struct {
	runner toolrun.Runner
	binary string
}

func New(runner toolrun.Runner, binary string) *Tool {
	if binary == "" {
		binary = DefaultBinary
	}
	return &Tool{
		runner: runner,
		binary: binary,
	}
}

// Create allocates a blank raw image. size is anything qemu-img accepts,
// such as "30G".
func (t *Tool) Create(ctx context.Context, path, size string) error {
	_, err := t.runner.Run(ctx, t.binary, "create", "-f", "raw", path, size)
	return err
}

// Resize a raw image to exactly size bytes.
func (t *Tool) Resize(ctx context.Context, path string, size uint64, shrink bool) error {
	_, err := t.runner.Run(ctx, t.binary, resizeArgs(path, size, shrink)...)
	return err
}

func resizeArgs(path string, size uint64, shrink bool) []string {
	args := []string{"resize"}
	if shrink {
		args = append(args, ShrinkFlag)
	}
	return append(args, "-f", "raw", path, strconv.FormatUint(size, 10))
}
