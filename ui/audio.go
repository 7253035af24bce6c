package ui

import (
	"github.com/55utah/fc-nes/nes"

	"github.com/gordonklaus/portaudio"
)

// Audio bridges the APU's sample callback to a portaudio output stream
// through a buffered channel of 8192 samples, so the emulation goroutine
// does not wait on the audio device directly; its send blocks only while
// that buffer is full.
type Audio struct {
	stream         *portaudio.Stream
	sampleRate     float64
	outputChannels int
	channel        chan float32
}

func NewAudio() *Audio {
	a := Audio{}
	// larger buffer trades latency for fewer underruns
	a.channel = make(chan float32, 8192)
	return &a
}

// RunAudio opens the default output device and wires the console's APU to
// stream samples into it.
func (audio *Audio) RunAudio(console *nes.Console) {
	api, err := portaudio.DefaultHostApi()
	Check(err)

	parameters := portaudio.HighLatencyParameters(nil, api.DefaultOutputDevice)
	stream, err := portaudio.OpenStream(parameters, audio.Callback)
	Check(err)

	audio.stream = stream
	audio.sampleRate = parameters.SampleRate
	audio.outputChannels = parameters.Output.Channels

	console.APU.SetOutputWork(audio.sampleRate, func(f float32) {
		audio.channel <- f
	})

	Check(stream.Start())
}

func (a *Audio) Stop() error {
	return a.stream.Close()
}

// Callback fills out one frame at a time with the oldest queued sample,
// repeated across every output channel of the frame, or silence when the
// channel is empty (an underrun).
func (audio *Audio) Callback(out []float32) {
	var output float32
	for i := range out {
		if i%audio.outputChannels == 0 {
			select {
			case sample := <-audio.channel:
				output = sample
			default:
				output = 0
			}
		}
		out[i] = output
	}
}

func Check(err error) {
	if err != nil {
		panic(err)
	}
}
