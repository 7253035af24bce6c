package mapper

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func newMMC2Fixture() *mmc2 {
	cart := &Cartridge{
		PRG:      make([]byte, 0x20000), // 128 KiB: fixed region + one switchable bank
		CHR:      make([]byte, 0x20000),
		MapperID: 9,
	}
	for bank := 0; bank < len(cart.CHR)/0x1000; bank++ {
		for i := 0; i < 0x1000; i++ {
			cart.CHR[bank*0x1000+i] = byte(bank)
		}
	}
	return newMMC2(cart)
}

func TestMMC2LatchSelectsOnRead(t *testing.T) {
	m := newMMC2Fixture()
	m.chr1A = 2
	m.chr1B = 5

	assert.EqualValues(t, 2, m.PPURead(0x0000, PPUFetch{Kind: FetchPatternLow}))

	m.PPURead(0x0FE8, PPUFetch{Kind: FetchGeneric})
	assert.EqualValues(t, 1, m.latch1)
	assert.EqualValues(t, 5, m.PPURead(0x0000, PPUFetch{Kind: FetchPatternLow}))

	m.PPURead(0x0FD8, PPUFetch{Kind: FetchGeneric})
	assert.EqualValues(t, 0, m.latch1)
	assert.EqualValues(t, 2, m.PPURead(0x0000, PPUFetch{Kind: FetchPatternLow}))
}

func TestMMC2SecondLatchIndependent(t *testing.T) {
	m := newMMC2Fixture()
	m.chr2A = 3
	m.chr2B = 7

	assert.EqualValues(t, 3, m.PPURead(0x1000, PPUFetch{Kind: FetchPatternHigh}))

	m.PPURead(0x1FE8, PPUFetch{Kind: FetchGeneric})
	assert.EqualValues(t, 1, m.latch2)
	assert.EqualValues(t, 7, m.PPURead(0x1000, PPUFetch{Kind: FetchPatternHigh}))

	m.PPURead(0x1FDF, PPUFetch{Kind: FetchGeneric})
	assert.EqualValues(t, 0, m.latch2)
	assert.EqualValues(t, 3, m.PPURead(0x1000, PPUFetch{Kind: FetchPatternHigh}))
}

func TestMMC2MirroringSelect(t *testing.T) {
	m := newMMC2Fixture()
	m.CPUWrite(0xF000, 0)
	assert.Equal(t, MirrorVertical, m.Mirroring())
	m.CPUWrite(0xF000, 1)
	assert.Equal(t, MirrorHorizontal, m.Mirroring())
}

func TestMMC2SnapshotRestoresLatches(t *testing.T) {
	m := newMMC2Fixture()
	m.PPURead(0x0FE8, PPUFetch{})
	m.PPURead(0x1FE8, PPUFetch{})
	snap := m.Snapshot()

	other := newMMC2Fixture()
	other.Restore(snap)
	assert.EqualValues(t, 1, other.latch1)
	assert.EqualValues(t, 1, other.latch2)
}
