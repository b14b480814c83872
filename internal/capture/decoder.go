package capture

import (
	"encoding/binary"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-audio/audio"
	"github.com/go-audio/wav"
	"github.com/hajimehoshi/go-mp3"
	"github.com/jfreymuth/oggvorbis"
	"github.com/mewkiz/flac"
)

// monoDecoder yields 16-bit mono samples at the decoder's native rate.
type monoDecoder interface {
	Read(dst []int16) (int, error)
	SampleRate() int
}

var decoderExts = map[string]bool{
	".mp3":  true,
	".wav":  true,
	".flac": true,
	".ogg":  true,
}

// IsSupportedExt reports whether files with ext can be captured.
func IsSupportedExt(ext string) bool {
	return decoderExts[strings.ToLower(ext)]
}

// SupportedExtsList returns a human-readable list of capturable formats.
func SupportedExtsList() string {
	return ".mp3, .wav, .flac, .ogg"
}

// newDecoder picks a decoder by file extension.
func newDecoder(f *os.File) (monoDecoder, error) {
	ext := strings.ToLower(filepath.Ext(f.Name()))
	switch ext {
	case ".mp3":
		return newMP3Decoder(f)
	case ".wav":
		return newWAVDecoder(f)
	case ".flac":
		return newFLACDecoder(f)
	case ".ogg":
		return newOGGDecoder(f)
	default:
		return nil, fmt.Errorf("unsupported format: %s", ext)
	}
}

// mixDown averages interleaved samples of the given bit depth into 16-bit
// mono, returning the number of mono samples written.
func mixDown(dst []int16, interleaved []int, channels, bits int) int {
	if channels < 1 {
		return 0
	}
	frames := len(interleaved) / channels
	if frames > len(dst) {
		frames = len(dst)
	}
	for i := 0; i < frames; i++ {
		sum := 0
		for ch := 0; ch < channels; ch++ {
			sum += to16(interleaved[i*channels+ch], bits)
		}
		dst[i] = int16(sum / channels)
	}
	return frames
}

func to16(s, bits int) int {
	switch {
	case bits == 8:
		// 8-bit PCM is unsigned.
		s = (s - 128) << 8
	case bits > 16:
		s >>= bits - 16
	case bits < 16:
		s <<= 16 - bits
	}
	if s > 32767 {
		return 32767
	}
	if s < -32768 {
		return -32768
	}
	return s
}

// --- MP3 ---

type mp3Decoder struct {
	dec *mp3.Decoder
	raw []byte
}

func newMP3Decoder(r io.Reader) (*mp3Decoder, error) {
	dec, err := mp3.NewDecoder(r)
	if err != nil {
		return nil, fmt.Errorf("decoding MP3: %w", err)
	}
	return &mp3Decoder{dec: dec}, nil
}

// go-mp3 always produces 16-bit little-endian stereo.
func (d *mp3Decoder) Read(dst []int16) (int, error) {
	need := len(dst) * 4
	if cap(d.raw) < need {
		d.raw = make([]byte, need)
	}
	raw := d.raw[:need]
	n, err := io.ReadFull(d.dec, raw)
	frames := n / 4
	for i := 0; i < frames; i++ {
		l := int(int16(binary.LittleEndian.Uint16(raw[i*4:])))
		r := int(int16(binary.LittleEndian.Uint16(raw[i*4+2:])))
		dst[i] = int16(l/2 + r/2)
	}
	if err == io.ErrUnexpectedEOF {
		err = io.EOF
	}
	if frames > 0 && err == io.EOF {
		return frames, nil
	}
	return frames, err
}

func (d *mp3Decoder) SampleRate() int { return d.dec.SampleRate() }

// --- WAV ---

type wavDecoder struct {
	dec      *wav.Decoder
	buf      *audio.IntBuffer
	channels int
	bits     int
	rate     int
}

func newWAVDecoder(r io.ReadSeeker) (*wavDecoder, error) {
	dec := wav.NewDecoder(r)
	if !dec.IsValidFile() {
		return nil, fmt.Errorf("invalid WAV file")
	}
	if err := dec.FwdToPCM(); err != nil {
		return nil, fmt.Errorf("reading WAV PCM data: %w", err)
	}
	channels := int(dec.NumChans)
	if channels < 1 {
		return nil, fmt.Errorf("unsupported channel count: %d", channels)
	}
	return &wavDecoder{
		dec:      dec,
		channels: channels,
		bits:     int(dec.BitDepth),
		rate:     int(dec.SampleRate),
		buf: &audio.IntBuffer{
			Format:         &audio.Format{NumChannels: channels, SampleRate: int(dec.SampleRate)},
			SourceBitDepth: int(dec.BitDepth),
		},
	}, nil
}

func (d *wavDecoder) Read(dst []int16) (int, error) {
	need := len(dst) * d.channels
	if cap(d.buf.Data) < need {
		d.buf.Data = make([]int, need)
	}
	d.buf.Data = d.buf.Data[:need]
	n, err := d.dec.PCMBuffer(d.buf)
	if err != nil {
		return 0, fmt.Errorf("reading WAV samples: %w", err)
	}
	if n == 0 {
		return 0, io.EOF
	}
	return mixDown(dst, d.buf.Data[:n], d.channels, d.bits), nil
}

func (d *wavDecoder) SampleRate() int { return d.rate }

// --- FLAC ---

type flacDecoder struct {
	stream  *flac.Stream
	pending []int16
	scratch []int
}

func newFLACDecoder(r io.Reader) (*flacDecoder, error) {
	stream, err := flac.New(r)
	if err != nil {
		return nil, fmt.Errorf("decoding FLAC: %w", err)
	}
	return &flacDecoder{stream: stream}, nil
}

func (d *flacDecoder) Read(dst []int16) (int, error) {
	if len(d.pending) == 0 {
		frame, err := d.stream.ParseNext()
		if err != nil {
			return 0, err
		}
		channels := len(frame.Subframes)
		if channels == 0 {
			return 0, nil
		}
		nSamples := int(frame.Subframes[0].NSamples)
		if cap(d.scratch) < nSamples*channels {
			d.scratch = make([]int, nSamples*channels)
		}
		interleaved := d.scratch[:nSamples*channels]
		for i := 0; i < nSamples; i++ {
			for ch := 0; ch < channels; ch++ {
				interleaved[i*channels+ch] = int(frame.Subframes[ch].Samples[i])
			}
		}
		mono := make([]int16, nSamples)
		mixDown(mono, interleaved, channels, int(d.stream.Info.BitsPerSample))
		d.pending = mono
	}
	n := copy(dst, d.pending)
	d.pending = d.pending[n:]
	return n, nil
}

func (d *flacDecoder) SampleRate() int { return int(d.stream.Info.SampleRate) }

// --- OGG Vorbis ---

type oggDecoder struct {
	reader  *oggvorbis.Reader
	samples []float32
}

func newOGGDecoder(r io.Reader) (*oggDecoder, error) {
	reader, err := oggvorbis.NewReader(r)
	if err != nil {
		return nil, fmt.Errorf("decoding OGG: %w", err)
	}
	return &oggDecoder{reader: reader}, nil
}

func (d *oggDecoder) Read(dst []int16) (int, error) {
	channels := d.reader.Channels()
	need := len(dst) * channels
	if cap(d.samples) < need {
		d.samples = make([]float32, need)
	}
	samples := d.samples[:need]
	n, err := d.reader.Read(samples)
	frames := n / channels
	for i := 0; i < frames; i++ {
		var sum float32
		for ch := 0; ch < channels; ch++ {
			sum += samples[i*channels+ch]
		}
		s := sum / float32(channels)
		if s > 1 {
			s = 1
		} else if s < -1 {
			s = -1
		}
		dst[i] = int16(s * 32767)
	}
	if frames > 0 && err == io.EOF {
		return frames, nil
	}
	return frames, err
}

func (d *oggDecoder) SampleRate() int { return d.reader.SampleRate() }
