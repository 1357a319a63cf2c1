package image

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/Alohamoras/windows-image-builder-take-2/pkg/gpt"
)

var ErrVerificationFailed = errors.New("image verification failed")

// Inspector reads the partition table of an image.
type Inspector interface {
	Snapshot(ctx context.Context, imagePath string) (gpt.Snapshot, error)
}

// Resizer changes the size of an image. shrink asks the resizer to pass the
// flag that allows it to drop data at the end of the image.
type Resizer interface {
	Resize(ctx context.Context, imagePath string, size uint64, shrink bool) error
}

// Repairer rewrites the secondary GPT at the end of an image.
type Repairer interface {
	Repair(ctx context.Context, imagePath string) error
}

// Creator allocates a blank raw image of a given size.
type Creator interface {
	Create(ctx context.Context, imagePath, size string) error
}

// Create allocates a blank image of size for the installer to write to.
func Create(ctx context.Context, creator Creator, imagePath, size string) error {
	if err := creator.Create(ctx, imagePath, size); err != nil {
		return fmt.Errorf("creating blank image %s: %w", imagePath, err)
	}
	return nil
}

// Image is an installed disk image that is about to be trimmed for
// redistribution. An Image must not be processed from more than one
// goroutine or process at a time.
type Image struct {
	path      string
	inspector Inspector
	resizer   Resizer
	repairer  Repairer
}

// New creates a new Image instance.
// imagePath is the path to an existing raw image file.
// inspector, resizer and repairer are the tools the image is processed with.
func New(imagePath string, inspector Inspector, resizer Resizer, repairer Repairer) (*Image, error) {
	info, err := os.Stat(imagePath)
	if err != nil {
		return nil, fmt.Errorf("opening image file: %w", err)
	}
	if !info.Mode().IsRegular() {
		return nil, fmt.Errorf("opening image file: %s is not a regular file", imagePath)
	}
	return &Image{
		path:      imagePath,
		inspector: inspector,
		resizer:   resizer,
		repairer:  repairer,
	}, nil
}

func (i *Image) Path() string {
	return i.path
}

// Plan inspects the image and computes the size it can be shrunk to.
func (i *Image) Plan(ctx context.Context) (gpt.Snapshot, gpt.ShrinkTarget, error) {
	snapshot, err := i.inspector.Snapshot(ctx, i.path)
	if err != nil {
		return gpt.Snapshot{}, gpt.ShrinkTarget{}, fmt.Errorf("inspecting partition table: %w", err)
	}
	target, err := gpt.PlanSnapshot(snapshot)
	if err != nil {
		return gpt.Snapshot{}, gpt.ShrinkTarget{}, fmt.Errorf("planning shrink of %s: %w", i.path, err)
	}
	return snapshot, target, nil
}

func (i *Image) Shrink(ctx context.Context, target gpt.ShrinkTarget) error {
	return Shrink(ctx, i.resizer, i.path, target)
}

func (i *Image) Repair(ctx context.Context) error {
	return Repair(ctx, i.repairer, i.path)
}

// Verify checks that the image is exactly as large as its partitions plus
// the secondary GPT, and that the partition table the tools report matches
// the one on disk.
func (i *Image) Verify(ctx context.Context) (gpt.ShrinkTarget, error) {
	_, target, err := i.Plan(ctx)
	if err != nil {
		return gpt.ShrinkTarget{}, err
	}
	return target, verify(i.path, target)
}

func verify(imagePath string, target gpt.ShrinkTarget) error {
	file, err := os.Open(imagePath)
	if err != nil {
		return fmt.Errorf("opening image file: %w", err)
	}
	defer file.Close()

	info, err := file.Stat()
	if err != nil {
		return err
	}
	if uint64(info.Size()) != target.NewDiskSizeBytes {
		return fmt.Errorf("%w: %s is %d bytes, want %d", ErrVerificationFailed, imagePath, info.Size(), target.NewDiskSizeBytes)
	}

	sectorSize, err := gpt.DetectSectorSize(file)
	if err != nil {
		return fmt.Errorf("%w: detecting sector size: %v", ErrVerificationFailed, err)
	}
	if sectorSize != target.SectorSize {
		return fmt.Errorf("%w: GPT header found at sector size %d, want %d", ErrVerificationFailed, sectorSize, target.SectorSize)
	}

	native, err := gpt.ReadSnapshot(imagePath, sectorSize)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrVerificationFailed, err)
	}
	nativeTarget, err := gpt.PlanSnapshot(native)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrVerificationFailed, err)
	}
	if nativeTarget.LastSector != target.LastSector {
		return fmt.Errorf("%w: last partition ends at sector %d on disk, tools report %d", ErrVerificationFailed, nativeTarget.LastSector, target.LastSector)
	}
	return nil
}
