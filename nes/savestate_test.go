package nes

import (
	"reflect"
	"testing"

	"github.com/stretchr/testify/assert"
)

// TestSaveStateRoundTrip checks that snapshot, mutate, then restore puts
// the console back exactly where the snapshot was taken.
func TestSaveStateRoundTrip(t *testing.T) {
	console := newTestConsole([]byte{
		0xA9, 0x05, // LDA #$05
		0x85, 0x10, // STA $10
		0xA9, 0x07, // LDA #$07
		0x85, 0x11, // STA $11
	})

	for i := 0; i < 4; i++ {
		console.Step()
	}
	saved := console.Snapshot()

	// Mutate further so restore has something to actually undo.
	for i := 0; i < 4; i++ {
		console.Step()
	}
	assert.NotEqual(t, saved.CPU.PC, console.CPU.PC)

	err := console.Restore(saved)
	assert.NoError(t, err)
	assert.True(t, reflect.DeepEqual(saved, console.Snapshot()))
}

func TestSaveStateEncodeDecodeRoundTrip(t *testing.T) {
	console := newTestConsole([]byte{0xA9, 0x05, 0x85, 0x10})
	console.Step()
	console.Step()

	saved := console.Snapshot()
	blob, err := EncodeSaveState(saved)
	assert.NoError(t, err)

	decoded, err := DecodeSaveState(blob)
	assert.NoError(t, err)
	assert.True(t, reflect.DeepEqual(saved, decoded))
}

func TestRestoreRejectsMismatchedRom(t *testing.T) {
	console := newTestConsole([]byte{0xEA})
	saved := console.Snapshot()
	saved.RomDigest = "not-the-real-digest"

	err := console.Restore(saved)
	assert.Error(t, err)
	var stateErr *SaveStateError
	assert.ErrorAs(t, err, &stateErr)
	assert.Equal(t, SaveStateMismatchedRom, stateErr.Kind)
}

func TestRestoreRejectsUnsupportedVersion(t *testing.T) {
	console := newTestConsole([]byte{0xEA})
	saved := console.Snapshot()
	saved.Version = saveStateVersion + 1

	err := console.Restore(saved)
	assert.Error(t, err)
	var stateErr *SaveStateError
	assert.ErrorAs(t, err, &stateErr)
	assert.Equal(t, SaveStateUnsupportedVersion, stateErr.Kind)
}

func TestDecodeSaveStateRejectsCorruptData(t *testing.T) {
	_, err := DecodeSaveState([]byte{0x01, 0x02, 0x03})
	assert.Error(t, err)
	var stateErr *SaveStateError
	assert.ErrorAs(t, err, &stateErr)
	assert.Equal(t, SaveStateCorrupt, stateErr.Kind)
}
