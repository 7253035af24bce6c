package nes

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAPUStatusWriteEnablesChannelsAndClearsLength(t *testing.T) {
	console := newTestConsole([]byte{0xEA})
	apu := console.APU

	apu.pulse1.lengthValue = 5
	apu.writeStatus(0x00) // disable everything
	assert.False(t, apu.pulse1.enabled)
	assert.EqualValues(t, 0, apu.pulse1.lengthValue)

	apu.writeStatus(0x01) // enable pulse1 only
	assert.True(t, apu.pulse1.enabled)
	assert.False(t, apu.triangle.enabled)
}

func TestAPUStatusWriteNeverSetsReadOnlyIRQBits(t *testing.T) {
	console := newTestConsole([]byte{0xEA})
	apu := console.APU
	apu.frameIRQ = 0
	apu.dmcIRQ = 0

	apu.writeStatus(0xFF) // bits 6 and 7 set alongside every enable bit
	assert.EqualValues(t, 0, apu.frameIRQ)
	assert.EqualValues(t, 0, apu.dmcIRQ)
}

func TestAPUStatusReadReportsLengthCountersAndClearsIRQFlags(t *testing.T) {
	console := newTestConsole([]byte{0xEA})
	apu := console.APU
	apu.pulse1.lengthValue = 3
	apu.frameIRQ = 1

	status := apu.readStatus()
	assert.NotZero(t, status&0x01)
	assert.NotZero(t, status&0x40)
	assert.EqualValues(t, 0, apu.frameIRQ)
}

// TestNoiseOutputsEnvelopeVolumeNotEnvelopeDivider guards a real bug:
// output() must return the envelope's current volume level, not its
// internal divider countdown.
func TestNoiseOutputsEnvelopeVolumeNotEnvelopeDivider(t *testing.T) {
	console := newTestConsole([]byte{0xEA})
	n := &console.APU.noise
	n.enabled = true
	n.lengthEnabled = true
	n.lengthValue = 1
	n.shiftRegister = 0 // bit 0 clear -> channel not silenced by the LFSR
	n.envelopeEnabled = true
	n.envelopeVolume = 9
	n.envelopeValue = 2 // divider countdown, must not leak into output()

	assert.EqualValues(t, 9, n.output())
}

// TestOutputWorkProducesSamplesAtRequestedRate checks that over a
// multi-second run the number of samples handed to the host stays within
// one sample of cyclesRun/cpuCyclesPerSample.
func TestOutputWorkProducesSamplesAtRequestedRate(t *testing.T) {
	console := newTestConsole([]byte{0xEA})
	apu := console.APU

	const hostSampleRate = 44100.0
	produced := 0
	apu.SetOutputWork(hostSampleRate, func(float32) { produced++ })

	const seconds = 2
	cycles := int(CPUFrequency * seconds)
	for i := 0; i < cycles; i++ {
		apu.Step()
	}

	want := int(hostSampleRate * seconds)
	diff := produced - want
	if diff < 0 {
		diff = -diff
	}
	assert.LessOrEqual(t, diff, 1)
}

func TestFrameCounterFiveStepModeClocksImmediately(t *testing.T) {
	console := newTestConsole([]byte{0xEA})
	apu := console.APU
	apu.pulse1.enabled = true
	apu.pulse1.lengthEnable = true
	apu.pulse1.lengthValue = 4

	apu.writeFrameCounter(0x80) // 5-step mode clocks length/sweep/envelope now
	assert.EqualValues(t, 3, apu.pulse1.lengthValue)
}
