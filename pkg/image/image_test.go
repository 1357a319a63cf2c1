package image

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/Alohamoras/windows-image-builder-take-2/pkg/gpt"
	"github.com/diskfs/go-diskfs"
	diskgpt "github.com/diskfs/go-diskfs/partition/gpt"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// testingImage writes a GPT image whose last partition ends at lastSector
// and which is exactly as large as a shrunk image would be.
func testingImage(t *testing.T, lastSector uint64) string {
	return testingImageWithSectorSize(t, lastSector, diskfs.SectorSize512)
}

func testingImageWithSectorSize(t *testing.T, lastSector uint64, sectorSize diskfs.SectorSize) string {
	t.Helper()
	require := require.New(t)

	path := filepath.Join(t.TempDir(), "windows.raw")
	size := int64((lastSector + gpt.SecondaryGPTSectors) * uint64(sectorSize))
	disk, err := diskfs.Create(path, size, diskfs.Raw, sectorSize)
	require.NoError(err)
	defer disk.File.Close()

	require.NoError(disk.Partition(&diskgpt.Table{
		LogicalSectorSize:  int(sectorSize),
		PhysicalSectorSize: int(sectorSize),
		ProtectiveMBR:      true,
		Partitions: []*diskgpt.Partition{
			{Start: 2048, End: 4095, Type: diskgpt.EFISystemPartition, Name: "EFI system partition"},
			{Start: 4096, End: lastSector, Type: diskgpt.LinuxFilesystem, Name: "data"},
		},
	}))
	return path
}

func TestVerify(t *testing.T) {
	require := require.New(t)

	path := testingImage(t, 8191)
	require.NoError(verify(path, gpt.ShrinkTarget{
		SectorSize:       512,
		LastSector:       8191,
		NewDiskSizeBytes: (8191 + 34) * 512,
	}))
}

func TestVerify4KSectors(t *testing.T) {
	require := require.New(t)

	path := testingImageWithSectorSize(t, 8191, diskfs.SectorSize4k)
	require.NoError(verify(path, gpt.ShrinkTarget{
		SectorSize:       4096,
		LastSector:       8191,
		NewDiskSizeBytes: (8191 + 34) * 4096,
	}))
}

func TestVerifyMismatch(t *testing.T) {
	path := testingImage(t, 8191)

	testCases := map[string]gpt.ShrinkTarget{
		"size": {
			SectorSize:       512,
			LastSector:       8191,
			NewDiskSizeBytes: (8191 + 35) * 512,
		},
		"sector size": {
			SectorSize:       4096,
			LastSector:       8191,
			NewDiskSizeBytes: (8191 + 34) * 512,
		},
		"last sector": {
			SectorSize:       512,
			LastSector:       8190,
			NewDiskSizeBytes: (8191 + 34) * 512,
		},
	}

	for name, target := range testCases {
		t.Run(name, func(t *testing.T) {
			assert.ErrorIs(t, verify(path, target), ErrVerificationFailed)
		})
	}
}

func TestVerifyNotGPT(t *testing.T) {
	require := require.New(t)

	path := filepath.Join(t.TempDir(), "blank.raw")
	require.NoError(os.WriteFile(path, make([]byte, 64*512), 0o644))
	err := verify(path, gpt.ShrinkTarget{SectorSize: 512, LastSector: 30, NewDiskSizeBytes: 64 * 512})
	assert.ErrorIs(t, err, ErrVerificationFailed)
}

func TestImageVerify(t *testing.T) {
	assert := assert.New(t)
	require := require.New(t)

	path := testingImage(t, 8191)
	listing := "Sector size (logical): 512 bytes\n" +
		"Number  Start (sector)    End (sector)  Size       Code  Name\n" +
		"   1            2048            4095   1024.0 KiB  EF00  EFI system partition\n" +
		"   2            4096            8191   2.0 MiB     8300  data\n"
	runner := &testingRunner{outputs: map[string]string{"sgdisk -p " + path: listing}}
	img, err := New(path, inspectorFunc(func(ctx context.Context, imagePath string) (gpt.Snapshot, error) {
		out, err := runner.Run(ctx, "sgdisk", "-p", imagePath)
		if err != nil {
			return gpt.Snapshot{}, err
		}
		records, err := gpt.Scan(out)
		return gpt.Snapshot{SectorSize: 512, Records: records}, err
	}), nil, nil)
	require.NoError(err)

	target, err := img.Verify(context.Background())
	require.NoError(err)
	assert.Equal(uint64(8191), target.LastSector)
	assert.Equal(path, img.Path())
}

type inspectorFunc func(ctx context.Context, imagePath string) (gpt.Snapshot, error)

func (f inspectorFunc) Snapshot(ctx context.Context, imagePath string) (gpt.Snapshot, error) {
	return f(ctx, imagePath)
}
