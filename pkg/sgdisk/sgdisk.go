// Package sgdisk inspects and repairs GPT images with sgdisk.
package sgdisk

import (
	"context"
	"fmt"
	"strconv"

	"github.com/Alohamoras/windows-image-builder-take-2/pkg/gpt"
	"github.com/Alohamoras/windows-image-builder-take-2/pkg/table"
	"github.com/Alohamoras/windows-image-builder-take-2/pkg/toolrun"
)

const DefaultBinary = "sgdisk"

// PartitionInformation describes one partition. Values are kept as the
// decimal strings sgdisk printed.
type PartitionInformation struct {
	SectorSize       string
	FirstSector      string
	LastSector       string
	PartitionSectors string
}

type Tool struct {
	runner toolrun.Runner
	binary string
}

// New returns a Tool running binary through runner. An empty binary means
// sgdisk from $PATH.
func New(runner toolrun.Runner, binary string) *Tool {
	if binary == "" {
		binary = DefaultBinary
	}
	return &Tool{
		runner: runner,
		binary: binary,
	}
}

// Print returns the partition table summary of an image (sgdisk -p).
func (t *Tool) Print(ctx context.Context, imagePath string) (string, error) {
	return t.runner.Run(ctx, t.binary, "-p", imagePath)
}

// Info returns the details of a single partition (sgdisk -i).
func (t *Tool) Info(ctx context.Context, imagePath string, partition uint32) (string, error) {
	return t.runner.Run(ctx, t.binary, "-i", strconv.FormatUint(uint64(partition), 10), imagePath)
}

// SectorSize returns the logical sector size of an image as printed by sgdisk.
func (t *Tool) SectorSize(ctx context.Context, imagePath string) (string, error) {
	out, err := t.Print(ctx, imagePath)
	if err != nil {
		return "", fmt.Errorf("running 'sgdisk -p' to get sector size: %w", err)
	}
	return sectorSize(out)
}

func sectorSize(printOutput string) (string, error) {
	size, err := table.Locate(printOutput, "Sector size", 3)
	if err != nil {
		return "", fmt.Errorf("getting sector size from 'sgdisk -p': %w", err)
	}
	return size, nil
}

// Partition looks up the sector size and the extent of partition.
func (t *Tool) Partition(ctx context.Context, imagePath string, partition uint32) (PartitionInformation, error) {
	size, err := t.SectorSize(ctx, imagePath)
	if err != nil {
		return PartitionInformation{}, err
	}

	out, err := t.Info(ctx, imagePath, partition)
	if err != nil {
		return PartitionInformation{}, fmt.Errorf("running 'sgdisk -i %d': %w", partition, err)
	}
	first, err := table.Locate(out, "First sector", 2)
	if err != nil {
		return PartitionInformation{}, fmt.Errorf("getting first sector offset from 'sgdisk -i': %w", err)
	}
	last, err := table.Locate(out, "Last sector", 2)
	if err != nil {
		return PartitionInformation{}, fmt.Errorf("getting last sector offset from 'sgdisk -i': %w", err)
	}
	sectors, err := table.Locate(out, "Partition size", 2)
	if err != nil {
		return PartitionInformation{}, fmt.Errorf("getting partition sector count from 'sgdisk -i': %w", err)
	}

	return PartitionInformation{
		SectorSize:       size,
		FirstSector:      first,
		LastSector:       last,
		PartitionSectors: sectors,
	}, nil
}

// Snapshot reads the sector size and every partition of an image.
// An image without partitions is an error.
func (t *Tool) Snapshot(ctx context.Context, imagePath string) (gpt.Snapshot, error) {
	out, err := t.Print(ctx, imagePath)
	if err != nil {
		return gpt.Snapshot{}, fmt.Errorf("running 'sgdisk -p' to list partitions: %w", err)
	}
	size, err := sectorSize(out)
	if err != nil {
		return gpt.Snapshot{}, err
	}
	logical, err := gpt.ParseSectorSize(size)
	if err != nil {
		return gpt.Snapshot{}, fmt.Errorf("parsing sector size: %w", err)
	}
	records, err := gpt.Scan(out)
	if err != nil {
		return gpt.Snapshot{}, fmt.Errorf("listing partitions of %s: %w", imagePath, err)
	}
	snapshot := gpt.Snapshot{
		SectorSize: logical,
		Records:    records,
	}
	if err := snapshot.Validate(); err != nil {
		return gpt.Snapshot{}, fmt.Errorf("'sgdisk -p' output for %s: %w", imagePath, err)
	}
	return snapshot, nil
}

// Repair relocates the backup GPT structures to the end of the image
// (sgdisk -e).
func (t *Tool) Repair(ctx context.Context, imagePath string) error {
	_, err := t.runner.Run(ctx, t.binary, "-e", imagePath)
	return err
}
