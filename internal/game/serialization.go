package game

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"sort"
	"strings"
)

// SnapshotChecksum is a digest of a snapshot's table state.
type SnapshotChecksum struct {
	Hash      string // SHA-256 of the canonical representation
	Timestamp string
	Version   int
}

// ComputeChecksum hashes a canonical rendering of the snapshot. The capture
// time is not part of it, so two snapshots of the same table agree.
func (s *Snapshot) ComputeChecksum() (*SnapshotChecksum, error) {
	hash := sha256.New()
	if _, err := hash.Write([]byte(s.canonical())); err != nil {
		return nil, fmt.Errorf("failed to compute hash: %w", err)
	}

	return &SnapshotChecksum{
		Hash:      hex.EncodeToString(hash.Sum(nil)),
		Timestamp: s.Timestamp.UTC().Format("2006-01-02T15:04:05.000Z"),
		Version:   replayVersion,
	}, nil
}

// canonical renders the snapshot line by line. Players keep seat order;
// buildings are sorted since build order does not change the table.
func (s *Snapshot) canonical() string {
	var buf bytes.Buffer

	fmt.Fprintf(&buf, "GAME:%s|%d|%d|%s\n", s.GameID, s.Age, s.Round, s.State)
	buf.WriteString("DISCARD:")
	buf.WriteString(strings.Join(s.Discard, ","))
	buf.WriteString("\n")

	for _, p := range s.Players {
		fmt.Fprintf(&buf, "PLAYER:%s|%s|%d|%d|%d|%d|%d\n",
			p.ID, p.Name, p.Seat, p.Coins, p.Military, p.DefeatsWest, p.DefeatsEast)

		buildings := append([]string(nil), p.Buildings...)
		sort.Strings(buildings)
		buf.WriteString("  BUILT:")
		buf.WriteString(strings.Join(buildings, ","))
		buf.WriteString("\n")

		hand := append([]string(nil), p.Hand...)
		sort.Strings(hand)
		buf.WriteString("  HAND:")
		buf.WriteString(strings.Join(hand, ","))
		buf.WriteString("\n")

		fmt.Fprintf(&buf, "  WONDER:%s|%d|%s\n", p.Wonder, p.WonderSteps, p.CopiedGuild)
	}
	return buf.String()
}

// VerifyChecksum reports whether the snapshot still hashes to expected.
func (s *Snapshot) VerifyChecksum(expected *SnapshotChecksum) (bool, error) {
	computed, err := s.ComputeChecksum()
	if err != nil {
		return false, fmt.Errorf("failed to compute checksum: %w", err)
	}
	return computed.Hash == expected.Hash, nil
}
