package game

import (
	"compress/gzip"
	"encoding/gob"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"go.uber.org/zap"
)

// replayVersion is bumped whenever the file layout changes.
const replayVersion = 2

// ErrReplayCorrupt is returned when a stored snapshot no longer matches its
// checksum.
var ErrReplayCorrupt = errors.New("replay is corrupt")

// Replay is a recorded game: the table at game start and after every
// round, in order.
type Replay struct {
	GameID string
	States []*Snapshot

	stopped bool
}

// NewReplay returns an empty replay for a game.
func NewReplay(gameID string) *Replay {
	return &Replay{GameID: gameID}
}

// Len returns the number of snapshots.
func (r *Replay) Len() int {
	return len(r.States)
}

// Seek returns the first snapshot taken in an age and round, or nil.
func (r *Replay) Seek(age, round int) *Snapshot {
	for _, s := range r.States {
		if s.Age == age && s.Round == round {
			return s
		}
	}
	return nil
}

// Final returns the last snapshot, or nil for an empty replay.
func (r *Replay) Final() *Snapshot {
	if len(r.States) == 0 {
		return nil
	}
	return r.States[len(r.States)-1]
}

// replayHeader opens a replay file.
type replayHeader struct {
	GameID   string
	Recorded time.Time
	Version  int
	States   int
}

// replayFrame is one stored snapshot with the checksum taken when it was
// written.
type replayFrame struct {
	State    *Snapshot
	Checksum string
}

func replayPath(directory, gameID string) string {
	return filepath.Join(directory, gameID+".replay")
}

// SaveToFile writes <directory>/<game id>.replay as gzipped gob: a header,
// then one checksummed frame per snapshot.
func (r *Replay) SaveToFile(directory string) error {
	if err := os.MkdirAll(directory, 0755); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}

	file, err := os.Create(replayPath(directory, r.GameID))
	if err != nil {
		return fmt.Errorf("failed to create file: %w", err)
	}
	defer file.Close()

	zw := gzip.NewWriter(file)
	enc := gob.NewEncoder(zw)

	header := replayHeader{
		GameID:   r.GameID,
		Recorded: time.Now(),
		Version:  replayVersion,
		States:   len(r.States),
	}
	if err := enc.Encode(&header); err != nil {
		return fmt.Errorf("failed to encode header: %w", err)
	}

	for i, s := range r.States {
		sum, err := s.ComputeChecksum()
		if err != nil {
			return fmt.Errorf("state %d: %w", i, err)
		}
		if err := enc.Encode(&replayFrame{State: s, Checksum: sum.Hash}); err != nil {
			return fmt.Errorf("failed to encode state %d: %w", i, err)
		}
	}

	if err := zw.Close(); err != nil {
		return fmt.Errorf("failed to flush replay: %w", err)
	}
	return nil
}

// LoadReplayFromFile reads a replay written by SaveToFile. Every snapshot
// is checked against its stored checksum.
func LoadReplayFromFile(directory, gameID string) (*Replay, error) {
	file, err := os.Open(replayPath(directory, gameID))
	if err != nil {
		return nil, fmt.Errorf("failed to open file: %w", err)
	}
	defer file.Close()

	zr, err := gzip.NewReader(file)
	if err != nil {
		return nil, fmt.Errorf("failed to create gzip reader: %w", err)
	}
	defer zr.Close()

	dec := gob.NewDecoder(zr)

	var header replayHeader
	if err := dec.Decode(&header); err != nil {
		return nil, fmt.Errorf("failed to decode header: %w", err)
	}
	if header.Version != replayVersion {
		return nil, fmt.Errorf("unsupported replay version: %d", header.Version)
	}

	replay := NewReplay(header.GameID)
	replay.States = make([]*Snapshot, 0, header.States)
	for i := 0; i < header.States; i++ {
		var frame replayFrame
		if err := dec.Decode(&frame); err != nil {
			return nil, fmt.Errorf("failed to decode state %d: %w", i, err)
		}
		if frame.State == nil {
			return nil, fmt.Errorf("%w: state %d is empty", ErrReplayCorrupt, i)
		}
		ok, err := frame.State.VerifyChecksum(&SnapshotChecksum{Hash: frame.Checksum})
		if err != nil {
			return nil, fmt.Errorf("state %d: %w", i, err)
		}
		if !ok {
			return nil, fmt.Errorf("%w: state %d (age %d, round %d) fails its checksum",
				ErrReplayCorrupt, i, frame.State.Age, frame.State.Round)
		}
		replay.States = append(replay.States, frame.State)
	}
	return replay, nil
}

// ReplayRecorder collects the replays of the games in play, keyed by game
// ID, and stores them under one directory.
type ReplayRecorder struct {
	logger  *zap.Logger
	dir     string
	mu      sync.Mutex
	replays map[string]*Replay
}

// NewReplayRecorder returns a recorder saving to dir.
func NewReplayRecorder(logger *zap.Logger, dir string) *ReplayRecorder {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ReplayRecorder{
		logger:  logger,
		dir:     dir,
		replays: make(map[string]*Replay),
	}
}

// StartRecording starts a fresh replay for a game.
func (rr *ReplayRecorder) StartRecording(gameID string) {
	rr.mu.Lock()
	rr.replays[gameID] = NewReplay(gameID)
	rr.mu.Unlock()

	rr.logger.Debug("started replay recording", zap.String("game_id", gameID))
}

// StopRecording ignores further snapshots; the replay stays in memory
// until saved.
func (rr *ReplayRecorder) StopRecording(gameID string) {
	rr.mu.Lock()
	defer rr.mu.Unlock()

	if replay, ok := rr.replays[gameID]; ok {
		replay.stopped = true
	}
}

// RecordState appends a snapshot to a game being recorded.
func (rr *ReplayRecorder) RecordState(gameID string, snapshot *Snapshot) {
	rr.mu.Lock()
	defer rr.mu.Unlock()

	replay, ok := rr.replays[gameID]
	if !ok || replay.stopped {
		return
	}
	replay.States = append(replay.States, snapshot)
}

// SaveReplay writes a game's replay to disk and drops it from memory.
func (rr *ReplayRecorder) SaveReplay(gameID string) error {
	rr.mu.Lock()
	replay, ok := rr.replays[gameID]
	delete(rr.replays, gameID)
	rr.mu.Unlock()

	if !ok {
		return fmt.Errorf("no replay found for game %s", gameID)
	}
	if err := replay.SaveToFile(rr.dir); err != nil {
		return fmt.Errorf("failed to save replay: %w", err)
	}

	rr.logger.Info("saved replay to disk",
		zap.String("game_id", gameID),
		zap.Int("state_count", replay.Len()),
		zap.String("directory", rr.dir),
	)
	return nil
}

// LoadReplay reads and verifies a saved replay.
func (rr *ReplayRecorder) LoadReplay(gameID string) (*Replay, error) {
	replay, err := LoadReplayFromFile(rr.dir, gameID)
	if err != nil {
		return nil, err
	}

	rr.logger.Info("loaded replay from disk",
		zap.String("game_id", gameID),
		zap.Int("state_count", replay.Len()),
	)
	return replay, nil
}
