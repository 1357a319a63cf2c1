package gpt

import (
	"errors"
	"fmt"
	"math/bits"
)

var ErrNoPartitionsFound = errors.New("no partitions found")

// Plan computes the smallest size an image can be shrunk to without losing
// partition data: everything up to the highest end sector of any partition,
// followed by room for the secondary GPT.
//
// The highest end sector is taken over all records, so neither the number
// of partitions nor their numbering or order matters. An empty table is an
// error, since every image has at least one partition.
func Plan(sectorSize uint64, records []PartitionRecord) (ShrinkTarget, error) {
	if sectorSize == 0 {
		return ShrinkTarget{}, ErrInvalidSectorSize
	}
	if len(records) == 0 {
		return ShrinkTarget{}, ErrNoPartitionsFound
	}

	var lastSector uint64
	for _, record := range records {
		lastSector = max(lastSector, record.EndSector)
	}

	sectors, carry := bits.Add64(lastSector, SecondaryGPTSectors, 0)
	hi, size := bits.Mul64(sectorSize, sectors)
	if carry != 0 || hi != 0 {
		return ShrinkTarget{}, fmt.Errorf("image size for last sector %d with sector size %d overflows", lastSector, sectorSize)
	}

	return ShrinkTarget{
		SectorSize:       sectorSize,
		LastSector:       lastSector,
		NewDiskSizeBytes: size,
	}, nil
}

func PlanSnapshot(s Snapshot) (ShrinkTarget, error) {
	return Plan(s.SectorSize, s.Records)
}
