package media

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"strings"

	ffmpeg "github.com/u2takey/ffmpeg-go"
)

// Canonical waveform format
const (
	SampleRate    = 16000
	Channels      = 1
	BitsPerSample = 16
)

// ErrDecode is returned when the input cannot be decoded or no decoder is available
var ErrDecode = errors.New("media decode failed")

// SupportedExtensions lists the upload containers the decoder is expected to handle
var SupportedExtensions = []string{"mp3", "mp4", "wav", "m4a", "aac", "ogg", "flac"}

// IsSupportedExtension reports whether a file name has one of SupportedExtensions
func IsSupportedExtension(name string) bool {
	dot := strings.LastIndex(name, ".")
	if dot < 0 {
		return false
	}
	ext := strings.ToLower(name[dot+1:])
	for _, e := range SupportedExtensions {
		if ext == e {
			return true
		}
	}
	return false
}

// Waveform is a decoded canonical waveform on disk. Close removes it.
type Waveform struct {
	Path        string
	SampleRate  int
	Channels    int
	DurationMs  int64
	DurationSec int
}

// Close removes the scratch file
func (w *Waveform) Close() error {
	if w == nil || w.Path == "" {
		return nil
	}
	err := os.Remove(w.Path)
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}
	return err
}

// Decoder converts arbitrary audio and video into 16 kHz mono 16-bit PCM WAV via ffmpeg
type Decoder struct {
	ffmpegPath string
	tempDir    string
}

// NewDecoder creates a decoder using the given ffmpeg binary. An empty tempDir uses os.TempDir.
func NewDecoder(ffmpegPath, tempDir string) *Decoder {
	if ffmpegPath == "" {
		ffmpegPath = "ffmpeg"
	}
	return &Decoder{ffmpegPath: ffmpegPath, tempDir: tempDir}
}

// Available resolves the ffmpeg binary
func (d *Decoder) Available() (string, error) {
	path, err := exec.LookPath(d.ffmpegPath)
	if err != nil {
		return "", fmt.Errorf("%w: ffmpeg not found: %w", ErrDecode, err)
	}
	return path, nil
}

// Decode reads the whole input and returns the canonical waveform.
// No scratch file survives a failed decode.
func (d *Decoder) Decode(ctx context.Context, r io.Reader) (*Waveform, error) {
	bin, err := d.Available()
	if err != nil {
		return nil, err
	}

	// Containers like mp4 need a seekable input, so the upload goes to disk first
	in, err := os.CreateTemp(d.tempDir, "meetnotes-in-*")
	if err != nil {
		return nil, fmt.Errorf("%w: create input file: %w", ErrDecode, err)
	}
	inPath := in.Name()
	defer os.Remove(inPath)

	n, err := io.Copy(in, r)
	if cerr := in.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		return nil, fmt.Errorf("%w: buffer input: %w", ErrDecode, err)
	}
	if n == 0 {
		return nil, fmt.Errorf("%w: empty input", ErrDecode)
	}

	out, err := os.CreateTemp(d.tempDir, "meetnotes-*.wav")
	if err != nil {
		return nil, fmt.Errorf("%w: create output file: %w", ErrDecode, err)
	}
	outPath := out.Name()
	out.Close()

	wav, err := d.transcode(ctx, bin, inPath, outPath)
	if err != nil {
		os.Remove(outPath)
		return nil, err
	}
	return wav, nil
}

func (d *Decoder) transcode(ctx context.Context, bin, inPath, outPath string) (*Waveform, error) {
	args := ffmpeg.Input(inPath).
		Output(outPath, ffmpeg.KwArgs{
			"ac":     Channels,
			"ar":     SampleRate,
			"acodec": "pcm_s16le",
			"f":      "wav",
		}).
		GlobalArgs("-hide_banner", "-nostats", "-nostdin", "-loglevel", "error").
		OverWriteOutput().
		GetArgs()

	var stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, bin, args...)
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, fmt.Errorf("%w: %w", ErrDecode, ctxErr)
		}
		msg := strings.TrimSpace(stderr.String())
		if msg == "" {
			msg = err.Error()
		}
		return nil, fmt.Errorf("%w: ffmpeg: %s", ErrDecode, msg)
	}

	f, err := os.Open(outPath)
	if err != nil {
		return nil, fmt.Errorf("%w: open output: %w", ErrDecode, err)
	}
	defer f.Close()

	info, err := ReadWAVInfo(f)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrDecode, err)
	}

	return &Waveform{
		Path:        outPath,
		SampleRate:  info.SampleRate,
		Channels:    info.Channels,
		DurationMs:  info.DurationMs(),
		DurationSec: info.DurationSec(),
	}, nil
}
