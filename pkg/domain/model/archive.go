package model

// ExtractionResult represents the outcome of extracting an import archive
type ExtractionResult struct {
	EntryCount  int    // Total number of entries in the archive
	PackagePath string // Relative path of the detected content package, empty if none
}

// Progress is a coarse extraction progress event. Events are emitted when
// completion crosses the next unconsumed multiple of 20%, so a single
// extraction produces at most five of them.
type Progress struct {
	Done    int // Entries materialized so far
	Total   int // Total entries in the archive
	Percent int // Completion percentage at the time of the event
}

// ProgressFunc receives extraction progress events
type ProgressFunc func(Progress)
