package audio

import (
	"errors"
	"fmt"
	"os"
	"path"
	"path/filepath"
	"sync/atomic"
	"time"

	"github.com/faiface/beep"
	"github.com/faiface/beep/effects"
	"github.com/faiface/beep/mp3"
	"github.com/faiface/beep/speaker"
	"github.com/faiface/beep/vorbis"
)

// Output owns the audio device and the decoded song stream. The only
// state the rest of the program may read from it is the frame counter
// and the sample rate; everything else belongs to the speaker's own
// goroutine.
type Output struct {
	streamer beep.StreamSeekCloser
	format   beep.Format

	frames uint64 // written by the speaker goroutine, read with atomic loads
	done   uint32
}

// countingStreamer decorates the song stream with a monotonic count of
// frames emitted to the device.
type countingStreamer struct {
	inner  beep.Streamer
	frames *uint64
}

func (c *countingStreamer) Stream(samples [][2]float64) (int, bool) {
	n, ok := c.inner.Stream(samples)
	atomic.AddUint64(c.frames, uint64(n))
	return n, ok
}

func (c *countingStreamer) Err() error {
	return c.inner.Err()
}

// Open walks the song directory for an .mp3 or .ogg and decodes it.
// A missing or undecodable song is a startup failure.
func Open(dir string) (*Output, error) {
	var mp3File, oggFile string
	if err := filepath.Walk(dir, func(p string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		switch path.Ext(info.Name()) {
		case ".mp3":
			mp3File = p
		case ".ogg":
			oggFile = p
		}
		return nil
	}); err != nil {
		return nil, fmt.Errorf("unable to walk song directory: %w", err)
	}

	audioFile := mp3File
	if oggFile != "" {
		audioFile = oggFile
	}
	if audioFile == "" {
		return nil, errors.New("unable to find .mp3/.ogg file in given directory")
	}

	f, err := os.Open(audioFile)
	if err != nil {
		return nil, err
	}
	var streamer beep.StreamSeekCloser
	var format beep.Format
	if oggFile != "" {
		streamer, format, err = vorbis.Decode(f)
	} else {
		streamer, format, err = mp3.Decode(f)
	}
	if err != nil {
		return nil, err
	}

	return &Output{streamer: streamer, format: format}, nil
}

// Start initializes the speaker and begins playback after delay. The
// frame counter starts moving with the first real song frame, so the
// delay never shows up as elapsed musical time.
func (o *Output) Start(delay time.Duration, volume float64) error {
	if err := speaker.Init(o.format.SampleRate, o.format.SampleRate.N(time.Second/60)); err != nil {
		return fmt.Errorf("unable to open audio device: %w", err)
	}
	go func() {
		time.Sleep(delay)
		speaker.Play(beep.Seq(
			&countingStreamer{
				inner: &effects.Volume{
					Streamer: o.streamer,
					Base:     2,
					Volume:   volume,
					Silent:   volume <= -10,
				},
				frames: &o.frames,
			},
			beep.Callback(func() {
				atomic.StoreUint32(&o.done, 1)
			}),
		))
	}()
	return nil
}

// Frames is the monotonic count of audio frames emitted so far.
func (o *Output) Frames() uint64 {
	return atomic.LoadUint64(&o.frames)
}

func (o *Output) SampleRate() uint32 {
	return uint32(o.format.SampleRate)
}

// Done reports whether the song has played out.
func (o *Output) Done() bool {
	return atomic.LoadUint32(&o.done) == 1
}

func (o *Output) Close() error {
	return o.streamer.Close()
}
