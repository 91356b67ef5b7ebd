package renametar

// ProgressEvent represents a progress update during a run.
type ProgressEvent struct {
	// Stage identifies the current phase of the run.
	Stage ProgressStage

	// Path is the original path of the entry just processed, if any.
	Path string

	// BytesDone is the number of input bytes consumed, before decompression.
	BytesDone uint64

	// BytesTotal is the size of the input file.
	// Zero indicates the total is unknown.
	BytesTotal uint64

	// Renamed, Rejected and Skipped count entries processed so far.
	Renamed  int
	Rejected int
	Skipped  int
}

// ProgressStage identifies the current phase of a run.
type ProgressStage uint8

const (
	// StageStreaming indicates entries are being read and renamed.
	StageStreaming ProgressStage = iota

	// StageDraining indicates the input is exhausted and outputs are being flushed.
	StageDraining

	// StageDone indicates the run completed.
	StageDone
)

// String returns the string representation of the stage.
func (s ProgressStage) String() string {
	switch s {
	case StageStreaming:
		return "streaming"
	case StageDraining:
		return "draining"
	case StageDone:
		return "done"
	default:
		return "unknown"
	}
}

// ProgressFunc receives progress updates. It is called synchronously from
// the goroutine running Run and has no influence on naming decisions.
type ProgressFunc func(ProgressEvent)
