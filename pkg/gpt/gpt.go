package gpt

import "errors"

// SecondaryGPTSectors is the number of sectors kept after the last
// partition so that a backup GPT header and partition entry array fit.
const SecondaryGPTSectors = 34

var ErrInvalidSectorSize = errors.New("sector size must be greater than zero")

// PartitionRecord is one partition row of a partition table listing.
type PartitionRecord struct {
	Index       uint32
	StartSector uint64
	EndSector   uint64
}

// Snapshot is the sector size and the partitions of an image at the time
// it was inspected.
type Snapshot struct {
	SectorSize uint64
	Records    []PartitionRecord
}

func (s Snapshot) Validate() error {
	if s.SectorSize == 0 {
		return ErrInvalidSectorSize
	}
	if len(s.Records) == 0 {
		return ErrNoPartitionsFound
	}
	return nil
}

// ShrinkTarget is the size an image is shrunk to. LastSector is the highest
// end sector of any partition on the image.
type ShrinkTarget struct {
	SectorSize       uint64
	LastSector       uint64
	NewDiskSizeBytes uint64
}
