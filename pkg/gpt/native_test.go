package gpt

import (
	"bytes"
	"io"
	"path/filepath"
	"testing"

	diskgpt "github.com/diskfs/go-diskfs/partition/gpt"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSnapshotFromTable(t *testing.T) {
	assert := assert.New(t)
	require := require.New(t)

	table := &diskgpt.Table{
		LogicalSectorSize:  512,
		PhysicalSectorSize: 512,
		Partitions: []*diskgpt.Partition{
			{Start: 2048, End: 206847, Type: diskgpt.EFISystemPartition},
			{Start: 206848, End: 239615, Type: diskgpt.LinuxFilesystem},
			{Type: diskgpt.Unused},
			{Start: 239616, End: 62912511, Type: diskgpt.LinuxFilesystem},
		},
	}
	snapshot, err := snapshotFromTable(table)
	require.NoError(err)
	assert.Equal(Snapshot{
		SectorSize: 512,
		Records: []PartitionRecord{
			{Index: 1, StartSector: 2048, EndSector: 206847},
			{Index: 2, StartSector: 206848, EndSector: 239615},
			{Index: 4, StartSector: 239616, EndSector: 62912511},
		},
	}, snapshot)
}

func TestReadSnapshotMissingImage(t *testing.T) {
	_, err := ReadSnapshot(filepath.Join(t.TempDir(), "missing.raw"), 512)
	assert.Error(t, err)

	_, err = ReadSnapshot(filepath.Join(t.TempDir(), "missing.raw"), 0)
	assert.ErrorIs(t, err, ErrInvalidSectorSize)
}

func TestDetectSectorSize(t *testing.T) {
	testCases := map[string]struct {
		sectorSize int
		wantErr    bool
	}{
		"512":  {sectorSize: 512},
		"1024": {sectorSize: 1024},
		"4096": {sectorSize: 4096},
		"none": {wantErr: true},
	}

	for name, tc := range testCases {
		t.Run(name, func(t *testing.T) {
			assert := assert.New(t)

			image := make([]byte, 3*4096)
			if tc.sectorSize > 0 {
				copy(image[tc.sectorSize:], "EFI PART")
			}
			size, err := DetectSectorSize(bytes.NewReader(image))
			if tc.wantErr {
				assert.ErrorIs(err, ErrNoGPTHeader)
				assert.ErrorContains(err, "512, 1024, 2048, 4096")
				return
			}
			assert.NoError(err)
			assert.Equal(uint64(tc.sectorSize), size)
		})
	}
}

func TestDetectSectorSizeShortImage(t *testing.T) {
	_, err := DetectSectorSize(bytes.NewReader(make([]byte, 100)))
	assert.ErrorIs(t, err, io.EOF)
	assert.ErrorContains(t, err, "offset 512")
}
