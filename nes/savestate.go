package nes

import (
	"bytes"
	"encoding/gob"

	"github.com/55utah/fc-nes/mapper"
)

// saveStateVersion is bumped whenever the shape of SaveState or any of the
// component State structs it embeds changes incompatibly.
const saveStateVersion = 1

// SaveState is a versioned, self-describing snapshot: CPU, PPU, APU, and
// mapper state plus the ROM's MD5 as an identity key, so Restore can
// refuse a state taken against a different ROM.
type SaveState struct {
	Version   int
	RomDigest string

	CPU    CPUState
	PPU    PPUState
	APU    APUState
	Mapper mapper.State
	RAM    [2048]byte
}

// Snapshot captures the entire console for later restoration.
func (console *Console) Snapshot() SaveState {
	return SaveState{
		Version:   saveStateVersion,
		RomDigest: console.Cartridge.Digest,
		CPU:       console.CPU.Snapshot(),
		PPU:       console.PPU.Snapshot(),
		APU:       console.APU.Snapshot(),
		Mapper:    console.Mapper.Snapshot(),
		RAM:       console.RAM,
	}
}

// Restore replaces console's state with a previously captured snapshot. A
// mismatched ROM or unsupported version is a recoverable SaveStateError:
// the console is left running unchanged rather than crashing the
// emulation.
func (console *Console) Restore(s SaveState) error {
	if s.Version != saveStateVersion {
		return &SaveStateError{Kind: SaveStateUnsupportedVersion, Reason: "unsupported save state version"}
	}
	if s.RomDigest != console.Cartridge.Digest {
		return &SaveStateError{Kind: SaveStateMismatchedRom, Reason: "save state was taken against a different ROM"}
	}
	console.CPU.Restore(s.CPU)
	console.PPU.Restore(s.PPU)
	console.APU.Restore(s.APU)
	console.Mapper.Restore(s.Mapper)
	console.RAM = s.RAM
	return nil
}

// EncodeSaveState serializes a snapshot with encoding/gob, the idiomatic
// stdlib choice for a Go-to-Go binary format that needs no schema.
func EncodeSaveState(s SaveState) ([]byte, error) {
	var buf bytes.Buffer
	if err := gob.NewEncoder(&buf).Encode(s); err != nil {
		return nil, &SaveStateError{Kind: SaveStateCorrupt, Reason: err.Error()}
	}
	return buf.Bytes(), nil
}

// DecodeSaveState parses bytes previously produced by EncodeSaveState.
// Truncated or otherwise malformed input surfaces as SaveStateError.Corrupt
// rather than propagating gob's own error type to callers.
func DecodeSaveState(data []byte) (SaveState, error) {
	var s SaveState
	if err := gob.NewDecoder(bytes.NewReader(data)).Decode(&s); err != nil {
		return SaveState{}, &SaveStateError{Kind: SaveStateCorrupt, Reason: "corrupt save state: " + err.Error()}
	}
	return s, nil
}
