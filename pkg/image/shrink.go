package image

import (
	"context"
	"fmt"

	"github.com/Alohamoras/windows-image-builder-take-2/pkg/gpt"
	"github.com/dustin/go-humanize"
	log "github.com/sirupsen/logrus"
)

// ShrinkError is returned when an image could not be resized with or
// without the shrink flag. Err is the error of the second attempt.
type ShrinkError struct {
	Path string
	Size uint64
	Err  error
}

func (e *ShrinkError) Error() string {
	return fmt.Sprintf("shrinking %s to %d bytes: %v", e.Path, e.Size, e.Err)
}

func (e *ShrinkError) Unwrap() error {
	return e.Err
}

// Shrink truncates the image to target.NewDiskSizeBytes.
//
// The resize is first requested with the shrink flag. Tools that predate the
// flag reject it, so a failed first attempt is repeated once without it. If
// that fails too the problem is not the flag and a *ShrinkError is returned.
//
// The secondary GPT is gone afterwards; call Repair.
func Shrink(ctx context.Context, resizer Resizer, imagePath string, target gpt.ShrinkTarget) error {
	if err := resizer.Resize(ctx, imagePath, target.NewDiskSizeBytes, true); err == nil {
		return nil
	}
	if err := resizer.Resize(ctx, imagePath, target.NewDiskSizeBytes, false); err != nil {
		return &ShrinkError{Path: imagePath, Size: target.NewDiskSizeBytes, Err: err}
	}
	return nil
}

// Repair regenerates the secondary GPT at the end of a shrunk image.
func Repair(ctx context.Context, repairer Repairer, imagePath string) error {
	if err := repairer.Repair(ctx, imagePath); err != nil {
		return fmt.Errorf("repairing secondary GPT of %s: %w", imagePath, err)
	}
	return nil
}

// Finalize shrinks the image to the smallest size that keeps every
// partition and repairs its secondary GPT.
func (i *Image) Finalize(ctx context.Context) (gpt.Snapshot, gpt.ShrinkTarget, error) {
	snapshot, target, err := i.Plan(ctx)
	if err != nil {
		return gpt.Snapshot{}, gpt.ShrinkTarget{}, err
	}
	log.Infof("%s: %d partitions, last partition ends at sector %d", i.path, len(snapshot.Records), target.LastSector)

	log.Infof("shrinking %s to %d bytes (%s)", i.path, target.NewDiskSizeBytes, humanize.IBytes(target.NewDiskSizeBytes))
	if err := i.Shrink(ctx, target); err != nil {
		return snapshot, target, err
	}

	log.Infof("repairing secondary GPT of %s", i.path)
	if err := i.Repair(ctx); err != nil {
		return snapshot, target, err
	}
	return snapshot, target, nil
}
