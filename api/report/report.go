package report

// Report is the structured output of an inspect or shrink run.
type Report struct {
	Image        string      `json:"image"`
	SectorSize   uint64      `json:"sector_size"`
	Partitions   []Partition `json:"partitions"`
	LastSector   uint64      `json:"last_sector"`
	NewSizeBytes uint64      `json:"new_size_bytes"`
	OldSizeBytes int64       `json:"old_size_bytes,omitempty"`
	DryRun       bool        `json:"dry_run,omitempty"`
	Shrunk       bool        `json:"shrunk"`
	Repaired     bool        `json:"repaired"`
	Verified     bool        `json:"verified"`
}

// Partition is a partition in the report.
type Partition struct {
	Index       uint32 `json:"index"`
	StartSector uint64 `json:"start_sector"`
	EndSector   uint64 `json:"end_sector"`
}
