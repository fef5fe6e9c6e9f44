// Package wavfile converts between float sample buffers and PCM WAV files.
package wavfile

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"slices"

	"github.com/go-audio/audio"
	"github.com/go-audio/wav"

	"github.com/Danondso/cuetrack/internal/atomicfile"
)

const (
	// BitDepth is the sample width of every file this package writes.
	BitDepth = 16

	fullScale16 = 32768.0
	halfScale8  = 128.0

	formatPCM        = 1
	formatExtensible = 0xFFFE
)

var (
	// ErrInvalidFile is returned when data is not a RIFF/WAVE file.
	ErrInvalidFile = errors.New("invalid WAV file")
	// ErrUnsupportedFormat is returned for sample widths, channel counts or
	// encodings the decoder does not handle.
	ErrUnsupportedFormat = errors.New("unsupported WAV format")
)

// Header is the subset of the fmt chunk the codec cares about.
type Header struct {
	AudioFormat int
	Channels    int
	SampleRate  int
	BitDepth    int
}

// memFile is a growable in-memory io.WriteSeeker; the encoder seeks back to
// patch chunk sizes once the data is written.
type memFile struct {
	data []byte
	off  int64
}

func (m *memFile) Write(p []byte) (int, error) {
	if end := m.off + int64(len(p)); end > int64(len(m.data)) {
		m.data = slices.Grow(m.data, int(end)-len(m.data))[:end]
	}
	n := copy(m.data[m.off:], p)
	m.off += int64(n)
	return n, nil
}

func (m *memFile) Seek(offset int64, whence int) (int64, error) {
	var base int64
	switch whence {
	case io.SeekStart:
	case io.SeekCurrent:
		base = m.off
	case io.SeekEnd:
		base = int64(len(m.data))
	default:
		return 0, fmt.Errorf("seek: invalid whence %d", whence)
	}
	if base+offset < 0 {
		return 0, fmt.Errorf("seek: negative position %d", base+offset)
	}
	m.off = base + offset
	return m.off, nil
}

// Quantize converts a float sample to 16-bit fixed point, clipping to [-1, 1].
func Quantize(v float64) int {
	if v > 1 {
		v = 1
	} else if v < -1 {
		v = -1
	}
	q := math.Round(v * fullScale16)
	if q > math.MaxInt16 {
		q = math.MaxInt16
	} else if q < math.MinInt16 {
		q = math.MinInt16
	}
	return int(q)
}

func intBuffer(samples []float64, sampleRate int) *audio.IntBuffer {
	buf := &audio.IntBuffer{
		Data: make([]int, len(samples)),
		Format: &audio.Format{
			SampleRate:  sampleRate,
			NumChannels: 1,
		},
		SourceBitDepth: BitDepth,
	}
	for i, v := range samples {
		buf.Data[i] = Quantize(v)
	}
	return buf
}

// Size is the length in bytes of the file Encode produces for n samples.
func Size(n int) int64 {
	return 44 + int64(n)*BitDepth/8
}

// Encode encodes mono float samples as a 16-bit PCM WAV in memory.
func Encode(samples []float64, sampleRate int) ([]byte, error) {
	mf := &memFile{}
	enc := wav.NewEncoder(mf, sampleRate, BitDepth, 1, formatPCM)
	if err := enc.Write(intBuffer(samples, sampleRate)); err != nil {
		return nil, fmt.Errorf("write wav: %w", err)
	}
	if err := enc.Close(); err != nil {
		return nil, fmt.Errorf("close wav encoder: %w", err)
	}
	return mf.data, nil
}

// WriteFile encodes samples to path. The file is written to a temporary name
// in the same directory and renamed into place, so a failed render never
// leaves a partial file at path.
func WriteFile(path string, samples []float64, sampleRate int) error {
	return atomicfile.Write(path, ".cuetrack-*.wav.tmp", func(f *os.File) error {
		enc := wav.NewEncoder(f, sampleRate, BitDepth, 1, formatPCM)
		if err := enc.Write(intBuffer(samples, sampleRate)); err != nil {
			return fmt.Errorf("write wav: %w", err)
		}
		if err := enc.Close(); err != nil {
			return fmt.Errorf("close wav encoder: %w", err)
		}
		return nil
	})
}

// Decode reads a WAV file from bytes and returns mono float samples and the
// file's sample rate. 8-bit unsigned and 16-bit signed mono or stereo input
// is supported; stereo is averaged down to mono.
func Decode(data []byte) ([]float64, int, error) {
	dec := wav.NewDecoder(bytes.NewReader(data))
	if !dec.IsValidFile() {
		return nil, 0, ErrInvalidFile
	}

	h := Header{
		AudioFormat: int(dec.WavAudioFormat),
		Channels:    int(dec.NumChans),
		SampleRate:  int(dec.SampleRate),
		BitDepth:    int(dec.BitDepth),
	}
	if err := h.check(); err != nil {
		return nil, 0, err
	}

	pcmBuf, err := dec.FullPCMBuffer()
	if err != nil {
		return nil, 0, fmt.Errorf("decode wav: %w", err)
	}

	var convert func(int) float64
	switch h.BitDepth {
	case 8:
		convert = func(v int) float64 { return (float64(v) - halfScale8) / halfScale8 }
	case 16:
		convert = func(v int) float64 { return float64(v) / fullScale16 }
	}

	if h.Channels == 1 {
		samples := make([]float64, len(pcmBuf.Data))
		for i, v := range pcmBuf.Data {
			samples[i] = convert(v)
		}
		return samples, h.SampleRate, nil
	}

	frames := len(pcmBuf.Data) / 2
	samples := make([]float64, frames)
	for i := 0; i < frames; i++ {
		l := convert(pcmBuf.Data[2*i])
		r := convert(pcmBuf.Data[2*i+1])
		samples[i] = (l + r) / 2
	}
	return samples, h.SampleRate, nil
}

// ReadFile decodes the WAV file at path. See Decode.
func ReadFile(path string) ([]float64, int, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, 0, err
	}
	samples, sr, err := Decode(data)
	if err != nil {
		return nil, 0, fmt.Errorf("%s: %w", path, err)
	}
	return samples, sr, nil
}

func (h Header) check() error {
	if h.AudioFormat != formatPCM && h.AudioFormat != formatExtensible {
		return fmt.Errorf("%w: audio format %d", ErrUnsupportedFormat, h.AudioFormat)
	}
	if h.BitDepth != 8 && h.BitDepth != 16 {
		return fmt.Errorf("%w: %d-bit samples", ErrUnsupportedFormat, h.BitDepth)
	}
	if h.Channels != 1 && h.Channels != 2 {
		return fmt.Errorf("%w: %d channels", ErrUnsupportedFormat, h.Channels)
	}
	return nil
}

// ReadHeader reads the canonical 44-byte WAV header from data without
// decoding samples.
func ReadHeader(data []byte) (Header, error) {
	if len(data) < 44 {
		return Header{}, fmt.Errorf("%w: data too short for WAV header", ErrInvalidFile)
	}

	r := bytes.NewReader(data)

	// read wraps binary.Read to capture the first error.
	var firstErr error
	read := func(v interface{}) {
		if firstErr != nil {
			return
		}
		firstErr = binary.Read(r, binary.LittleEndian, v)
	}

	var riffID [4]byte
	var fileSize uint32
	var waveID [4]byte
	read(&riffID)
	read(&fileSize)
	read(&waveID)
	if firstErr != nil {
		return Header{}, fmt.Errorf("read RIFF header: %w", firstErr)
	}
	if string(riffID[:]) != "RIFF" || string(waveID[:]) != "WAVE" {
		return Header{}, fmt.Errorf("%w: not a RIFF/WAVE file", ErrInvalidFile)
	}

	var fmtID [4]byte
	var fmtSize uint32
	var audioFormat, numChannels uint16
	var sr, byteRate uint32
	var blockAlign, bitsPerSample uint16
	read(&fmtID)
	read(&fmtSize)
	read(&audioFormat)
	read(&numChannels)
	read(&sr)
	read(&byteRate)
	read(&blockAlign)
	read(&bitsPerSample)
	if firstErr != nil {
		return Header{}, fmt.Errorf("read WAV format: %w", firstErr)
	}
	if string(fmtID[:]) != "fmt " {
		return Header{}, fmt.Errorf("%w: expected fmt chunk, got %q", ErrInvalidFile, fmtID[:])
	}

	return Header{
		AudioFormat: int(audioFormat),
		Channels:    int(numChannels),
		SampleRate:  int(sr),
		BitDepth:    int(bitsPerSample),
	}, nil
}
