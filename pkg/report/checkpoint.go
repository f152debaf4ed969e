package report

import (
	"encoding/gob"
	"os"
)

// Checkpoint holds the state of a guidance run that hit a
// backtrack_limit/time_limit cutover (spec §5 "Cancellation"), ported
// from the teacher's result.Checkpoint: completed-task count plus the
// outcomes accumulated so far. SaveCheckpoint and LoadCheckpoint persist
// it; no command calls them, and guidance.Run always starts from the
// first task.
type Checkpoint struct {
	Outcomes      []Outcome
	CompletedLine int // guidance-file line number of the last completed task
}

func init() {
	gob.Register(Outcome{})
}

// SaveCheckpoint writes run state to path.
func SaveCheckpoint(path string, ckpt *Checkpoint) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	return gob.NewEncoder(f).Encode(ckpt)
}

// LoadCheckpoint loads run state from path.
func LoadCheckpoint(path string) (*Checkpoint, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	var ckpt Checkpoint
	if err := gob.NewDecoder(f).Decode(&ckpt); err != nil {
		return nil, err
	}
	return &ckpt, nil
}
