package launcher

import "fmt"

// Stage is a state of the launch pipeline. Every run starts at StageStart and
// ends at StageTerminated; a failure moves straight to StageTerminated.
type Stage int

const (
	StageStart Stage = iota
	StageIdentified
	StageLocated
	StageCacheHit
	StageDownloading
	StageDownloaded
	StageUnpacking
	StageUnpacked
	StageDelegating
	StageTerminated
)

var stageNames = [...]string{
	StageStart:       "start",
	StageIdentified:  "identified",
	StageLocated:     "located",
	StageCacheHit:    "cache-hit",
	StageDownloading: "downloading",
	StageDownloaded:  "downloaded",
	StageUnpacking:   "unpacking",
	StageUnpacked:    "unpacked",
	StageDelegating:  "delegating",
	StageTerminated:  "terminated",
}

// String returns the string representation of the stage
func (s Stage) String() string {
	if s < 0 || int(s) >= len(stageNames) {
		return "unknown"
	}
	return stageNames[s]
}

// StageError records the stage the pipeline was in when it failed.
type StageError struct {
	Stage Stage
	Err   error
}

func (e *StageError) Error() string {
	return fmt.Sprintf("%s: %v", e.Stage, e.Err)
}

func (e *StageError) Unwrap() error {
	return e.Err
}
