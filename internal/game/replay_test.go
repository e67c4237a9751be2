package game

import (
	"compress/gzip"
	"encoding/gob"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

func roundSnapshot(gameID string, age, round int) *Snapshot {
	return &Snapshot{
		GameID: gameID,
		Age:    age,
		Round:  round,
		State:  StateInProgress.String(),
		Players: []PlayerSnapshot{
			{ID: "p1", Name: "Ada", Coins: 3 + round, Buildings: []string{"Altar"}},
			{ID: "p2", Name: "Brin", Seat: 1, Coins: 3},
		},
	}
}

func fullReplay(gameID string) *Replay {
	r := NewReplay(gameID)
	for age := 1; age <= LastAge; age++ {
		for round := 1; round <= 6; round++ {
			r.States = append(r.States, roundSnapshot(gameID, age, round))
		}
	}
	return r
}

// writeFrames stores frames as a replay file without computing checksums.
func writeFrames(t *testing.T, dir, gameID string, version int, frames ...replayFrame) {
	t.Helper()
	file, err := os.Create(replayPath(dir, gameID))
	require.NoError(t, err)
	defer file.Close()

	zw := gzip.NewWriter(file)
	enc := gob.NewEncoder(zw)
	require.NoError(t, enc.Encode(&replayHeader{GameID: gameID, Recorded: time.Now(), Version: version, States: len(frames)}))
	for i := range frames {
		require.NoError(t, enc.Encode(&frames[i]))
	}
	require.NoError(t, zw.Close())
}

func TestReplaySeekAndFinal(t *testing.T) {
	r := fullReplay("game-1")
	assert.Equal(t, 18, r.Len())

	state := r.Seek(2, 3)
	require.NotNil(t, state)
	assert.Equal(t, 2, state.Age)
	assert.Equal(t, 3, state.Round)
	assert.Nil(t, r.Seek(4, 1))

	final := r.Final()
	require.NotNil(t, final)
	assert.Equal(t, 3, final.Age)
	assert.Equal(t, 6, final.Round)
	assert.Nil(t, NewReplay("empty").Final())
}

func TestReplaySaveAndLoad(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "replays")
	r := fullReplay("game-1")
	require.NoError(t, r.SaveToFile(dir))

	_, err := os.Stat(filepath.Join(dir, "game-1.replay"))
	require.NoError(t, err)

	loaded, err := LoadReplayFromFile(dir, "game-1")
	require.NoError(t, err)
	assert.Equal(t, r.GameID, loaded.GameID)
	require.Equal(t, r.Len(), loaded.Len())
	for i, s := range r.States {
		assert.Equal(t, s.Age, loaded.States[i].Age)
		assert.Equal(t, s.Round, loaded.States[i].Round)
		assert.Equal(t, s.Players, loaded.States[i].Players)
	}
}

func TestReplayLoadRejectsTamperedState(t *testing.T) {
	dir := t.TempDir()
	good := roundSnapshot("game-1", 1, 1)
	sum, err := good.ComputeChecksum()
	require.NoError(t, err)

	tampered := roundSnapshot("game-1", 1, 2)
	tampered.Players[0].Coins = 40

	writeFrames(t, dir, "game-1", replayVersion,
		replayFrame{State: good, Checksum: sum.Hash},
		replayFrame{State: tampered, Checksum: sum.Hash},
	)

	_, err = LoadReplayFromFile(dir, "game-1")
	assert.ErrorIs(t, err, ErrReplayCorrupt)
	assert.Contains(t, err.Error(), "state 1")
}

func TestReplayLoadErrors(t *testing.T) {
	dir := t.TempDir()

	_, err := LoadReplayFromFile(dir, "missing")
	assert.Error(t, err)

	writeFrames(t, dir, "old", replayVersion-1)
	_, err = LoadReplayFromFile(dir, "old")
	assert.ErrorContains(t, err, "unsupported replay version")

	require.NoError(t, os.WriteFile(replayPath(dir, "garbage"), []byte("not gzip"), 0o600))
	_, err = LoadReplayFromFile(dir, "garbage")
	assert.Error(t, err)
}

func TestReplayRecorder(t *testing.T) {
	dir := t.TempDir()
	rr := NewReplayRecorder(zaptest.NewLogger(t), dir)

	rr.RecordState("unknown", roundSnapshot("unknown", 1, 1))
	assert.Error(t, rr.SaveReplay("unknown"))

	rr.StartRecording("game-1")
	rr.StartRecording("game-2")
	for round := 1; round <= 3; round++ {
		rr.RecordState("game-1", roundSnapshot("game-1", 1, round))
	}
	rr.RecordState("game-2", roundSnapshot("game-2", 1, 1))

	rr.StopRecording("game-1")
	rr.RecordState("game-1", roundSnapshot("game-1", 1, 4))

	require.NoError(t, rr.SaveReplay("game-1"))
	require.NoError(t, rr.SaveReplay("game-2"))
	assert.Error(t, rr.SaveReplay("game-1"), "a saved replay leaves memory")

	loaded, err := rr.LoadReplay("game-1")
	require.NoError(t, err)
	assert.Equal(t, 3, loaded.Len())
	assert.Equal(t, 3, loaded.Final().Round)

	loaded, err = rr.LoadReplay("game-2")
	require.NoError(t, err)
	assert.Equal(t, 1, loaded.Len())
}
