package nes

import (
	"testing"

	"github.com/55utah/fc-nes/mapper"
	"github.com/stretchr/testify/assert"
)

func TestParseCartridgeRejectsBadMagic(t *testing.T) {
	_, err := ParseCartridge([]byte("not an ines file at all"))
	assert.Error(t, err)
	var romErr *RomError
	assert.ErrorAs(t, err, &romErr)
	assert.Equal(t, RomBadMagic, romErr.Kind)
}

func TestParseCartridgeRejectsTruncatedHeader(t *testing.T) {
	_, err := ParseCartridge([]byte{'N', 'E', 'S', 0x1A})
	assert.Error(t, err)
	var romErr *RomError
	assert.ErrorAs(t, err, &romErr)
	assert.Equal(t, RomTruncatedHeader, romErr.Kind)
}

func TestParseCartridgeReadsHeaderFields(t *testing.T) {
	cart, err := ParseCartridge(buildNROM([]byte{0xEA}))
	assert.NoError(t, err)
	assert.EqualValues(t, 0x4000, len(cart.PRG))
	assert.EqualValues(t, 0x2000, len(cart.CHR))
	assert.EqualValues(t, 0, cart.MapperID)
	assert.Equal(t, mapper.MirrorHorizontal, cart.Mirroring)
	assert.False(t, cart.HasBattery)
	assert.Len(t, cart.Digest, 32) // hex-encoded MD5
}

func TestParseCartridgeRejectsPRGPastEndOfFile(t *testing.T) {
	header := []byte{'N', 'E', 'S', 0x1A, 2, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0}
	_, err := ParseCartridge(append(header, make([]byte, 0x2000)...)) // claims 2 PRG blocks, has half of one
	assert.Error(t, err)
	var romErr *RomError
	assert.ErrorAs(t, err, &romErr)
	assert.Equal(t, RomTruncatedBody, romErr.Kind)
}

// TestParseCartridgeReadsNES20Header exercises the NES 2.0 branch: mapper
// id split across flag 6/7/8, a submapper id, and the plain (non-exponent)
// extended PRG/CHR size fields in byte 9.
func TestParseCartridgeReadsNES20Header(t *testing.T) {
	prg := make([]byte, 0x4000)
	chr := make([]byte, 0x2000)
	header := []byte{
		'N', 'E', 'S', 0x1A,
		1, 1, // PRG/CHR low bytes
		0x10,       // flag6: mapper low nibble = 1
		0x08,       // flag7: NES 2.0 signature (bits 2-3 = 10), mapper high nibble = 0
		0x21,       // flag8: mapper bits 8-11 = 1, submapper = 2
		0x00,       // flag9: PRG/CHR size MSB both 0
		0, 0, 0, 0, // flags 10-13, unused
		0, 0,
	}
	data := append(append([]byte{}, header...), prg...)
	data = append(data, chr...)

	cart, err := ParseCartridge(data)
	assert.NoError(t, err)
	assert.EqualValues(t, 0x101, cart.MapperID) // (1<<8) | 1
	assert.EqualValues(t, 2, cart.SubmapperID)
	assert.EqualValues(t, 0x4000, len(cart.PRG))
	assert.EqualValues(t, 0x2000, len(cart.CHR))
}
