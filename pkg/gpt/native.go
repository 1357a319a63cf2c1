package gpt

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/diskfs/go-diskfs"
	"github.com/diskfs/go-diskfs/partition"
	diskgpt "github.com/diskfs/go-diskfs/partition/gpt"
)

var (
	ErrNotGPT      = errors.New("partition table is not GPT")
	ErrNoGPTHeader = errors.New("no GPT header at LBA 1")
)

// ReadSnapshot reads the partition table of the image at path directly,
// without any external tool. sectorSize is the logical sector size the table
// was written with, see DetectSectorSize.
func ReadSnapshot(path string, sectorSize uint64) (Snapshot, error) {
	if sectorSize == 0 {
		return Snapshot{}, ErrInvalidSectorSize
	}
	disk, err := diskfs.Open(path,
		diskfs.WithOpenMode(diskfs.ReadOnly),
		diskfs.WithSectorSize(diskfs.SectorSize(sectorSize)),
	)
	if err != nil {
		return Snapshot{}, err
	}
	defer disk.File.Close()
	table, err := disk.GetPartitionTable()
	if err != nil {
		return Snapshot{}, fmt.Errorf("reading partition table: %w", err)
	}
	return snapshotFromTable(table)
}

func snapshotFromTable(table partition.Table) (Snapshot, error) {
	gptTable, ok := table.(*diskgpt.Table)
	if !ok {
		return Snapshot{}, ErrNotGPT
	}
	snapshot := Snapshot{SectorSize: uint64(gptTable.LogicalSectorSize)}
	for i, part := range gptTable.Partitions {
		if part == nil || part.Type == diskgpt.Unused {
			continue
		}
		snapshot.Records = append(snapshot.Records, PartitionRecord{
			Index:       uint32(i + 1),
			StartSector: part.Start,
			EndSector:   part.End,
		})
	}
	return snapshot, nil
}

// DetectSectorSize finds the logical sector size of a GPT image. The primary
// header lives in LBA 1, so its signature is looked for at every candidate
// sector size from 512 to 4096 bytes.
func DetectSectorSize(r io.ReaderAt) (uint64, error) {
	signature := make([]byte, len(headerSignature))
	var probed []string
	for size := int64(512); size <= 4096; size *= 2 {
		probed = append(probed, strconv.FormatInt(size, 10))
		if _, err := r.ReadAt(signature, size); err != nil {
			return 0, fmt.Errorf("reading LBA 1 at offset %d: %w", size, err)
		}
		if bytes.Equal(signature, headerSignature) {
			return uint64(size), nil
		}
	}
	return 0, fmt.Errorf("%w: %q not found at offsets %s", ErrNoGPTHeader, headerSignature, strings.Join(probed, ", "))
}

var headerSignature = []byte("EFI PART")
