package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/Alohamoras/windows-image-builder-take-2/api/report"
	"github.com/Alohamoras/windows-image-builder-take-2/pkg/gpt"
	"github.com/dustin/go-humanize"
)

func newReport(path string, snapshot gpt.Snapshot, target gpt.ShrinkTarget) report.Report {
	r := report.Report{
		Image:        path,
		SectorSize:   snapshot.SectorSize,
		Partitions:   make([]report.Partition, 0, len(snapshot.Records)),
		LastSector:   target.LastSector,
		NewSizeBytes: target.NewDiskSizeBytes,
	}
	for _, record := range snapshot.Records {
		r.Partitions = append(r.Partitions, report.Partition{
			Index:       record.Index,
			StartSector: record.StartSector,
			EndSector:   record.EndSector,
		})
	}
	r.OldSizeBytes = imageSize(path)
	return r
}

// imageSize is the size of the file at path, or zero if it cannot be read.
func imageSize(path string) int64 {
	info, err := os.Stat(path)
	if err != nil {
		return 0
	}
	return info.Size()
}

func writeReport(w io.Writer, r report.Report, asJSON bool) error {
	if asJSON {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(r)
	}

	fmt.Fprintf(w, "image: %s\n", r.Image)
	fmt.Fprintf(w, "sector size: %d\n", r.SectorSize)
	fmt.Fprintf(w, "%-8s %16s %16s %12s\n", "number", "start (sector)", "end (sector)", "size")
	for _, p := range r.Partitions {
		size := (p.EndSector - p.StartSector + 1) * r.SectorSize
		fmt.Fprintf(w, "%-8d %16d %16d %12s\n", p.Index, p.StartSector, p.EndSector, humanize.IBytes(size))
	}
	fmt.Fprintf(w, "last sector: %d\n", r.LastSector)
	if r.OldSizeBytes > 0 {
		fmt.Fprintf(w, "original size: %d bytes (%s)\n", r.OldSizeBytes, humanize.IBytes(uint64(r.OldSizeBytes)))
	}
	fmt.Fprintf(w, "minimal size: %d bytes (%s)\n", r.NewSizeBytes, humanize.IBytes(r.NewSizeBytes))
	return nil
}
