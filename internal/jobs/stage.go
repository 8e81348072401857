package jobs

import (
	"encoding/json"
	"fmt"
)

// Stage is a job's lifecycle position. Stages only move forward; Error is
// reachable from any non-terminal stage.
type Stage int

const (
	StageInit Stage = iota
	StageUploading
	StageProcessing
	StageZipping
	StageDone
	StageError
)

var stageNames = [...]string{
	StageInit:       "init",
	StageUploading:  "uploading",
	StageProcessing: "processing",
	StageZipping:    "zipping",
	StageDone:       "done",
	StageError:      "error",
}

func (s Stage) String() string {
	if s >= 0 && int(s) < len(stageNames) {
		return stageNames[s]
	}
	return fmt.Sprintf("Stage(%d)", int(s))
}

// Terminal reports whether no further transition is possible.
func (s Stage) Terminal() bool {
	return s == StageDone || s == StageError
}

func (s Stage) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.String())
}

func (s *Stage) UnmarshalJSON(data []byte) error {
	var name string
	if err := json.Unmarshal(data, &name); err != nil {
		return err
	}
	for i, candidate := range stageNames {
		if candidate == name {
			*s = Stage(i)
			return nil
		}
	}
	return fmt.Errorf("unknown stage %q", name)
}

// Snapshot is the progress view published to subscribers.
type Snapshot struct {
	Total      int    `json:"total"`
	Processed  int    `json:"processed"`
	Percent    int    `json:"percent"`
	Stage      Stage  `json:"stage"`
	Message    string `json:"message"`
	ErrorCount int    `json:"error_count"`
}
