package alert

import (
	"fmt"
	"os"
	"sync"
	"time"

	"github.com/faiface/beep"
	"github.com/faiface/beep/effects"
	"github.com/faiface/beep/speaker"
	"github.com/faiface/beep/wav"
)

// the speaker is process global, it is initialized with the sample rate of
// the first sound played
var (
	speakerOnce sync.Once
	speakerRate beep.SampleRate
	speakerErr  error
)

func initSpeaker(rate beep.SampleRate) error {
	speakerOnce.Do(func() {
		speakerRate = rate
		speakerErr = speaker.Init(rate, rate.N(time.Second/10))
	})
	return speakerErr
}

// SoundNotifier plays a WAV file through the default audio device
type SoundNotifier struct {
	path    string
	buffer  *beep.Buffer
	volume  float64
	playing sync.WaitGroup
}

// NewSoundNotifier decodes the WAV file at path into memory. volume is the
// exponent applied with base 2, 0 leaves the sound unchanged.
func NewSoundNotifier(path string, volume float64) (*SoundNotifier, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening sound %s: %w", path, err)
	}
	defer f.Close()

	streamer, format, err := wav.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("decoding sound %s: %w", path, err)
	}
	defer streamer.Close()

	buffer := beep.NewBuffer(format)
	buffer.Append(streamer)

	return &SoundNotifier{
		path:   path,
		buffer: buffer,
		volume: volume,
	}, nil
}

// Len returns the number of samples in the decoded sound
func (n *SoundNotifier) Len() int {
	return n.buffer.Len()
}

// Duration returns the playback length of the decoded sound
func (n *SoundNotifier) Duration() time.Duration {
	return n.buffer.Format().SampleRate.D(n.buffer.Len())
}

// Notify starts playing the sound and returns; Wait blocks until it has
// finished
func (n *SoundNotifier) Notify() error {
	rate := n.buffer.Format().SampleRate
	if err := initSpeaker(rate); err != nil {
		return fmt.Errorf("initializing speaker: %w", err)
	}

	var s beep.Streamer = n.buffer.Streamer(0, n.buffer.Len())
	if rate != speakerRate {
		s = beep.Resample(4, rate, speakerRate, s)
	}

	volume := &effects.Volume{
		Streamer: s,
		Base:     2,
		Volume:   n.volume,
		Silent:   false,
	}

	n.playing.Add(1)
	speaker.Play(beep.Seq(volume, beep.Callback(n.playing.Done)))

	return nil
}

// Wait blocks until every sound started by Notify has finished playing
func (n *SoundNotifier) Wait() {
	n.playing.Wait()
}
