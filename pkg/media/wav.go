package media

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"
)

// WAVInfo is the subset of a RIFF/WAVE header needed to compute duration
type WAVInfo struct {
	SampleRate    int
	Channels      int
	BitsPerSample int
	BlockAlign    int
	DataSize      int64
}

// DurationMs is the waveform length in whole milliseconds
func (w WAVInfo) DurationMs() int64 {
	byteRate := int64(w.SampleRate) * int64(w.BlockAlign)
	if byteRate <= 0 || w.DataSize <= 0 {
		return 0
	}
	return w.DataSize * 1000 / byteRate
}

// DurationSec is floor(DurationMs / 1000)
func (w WAVInfo) DurationSec() int {
	return int(w.DurationMs() / 1000)
}

// ReadWAVInfo walks the RIFF chunks until it has seen both "fmt " and "data"
func ReadWAVInfo(r io.Reader) (WAVInfo, error) {
	var info WAVInfo

	var riff [12]byte
	if _, err := io.ReadFull(r, riff[:]); err != nil {
		return info, fmt.Errorf("read wav header: %w", err)
	}
	if string(riff[0:4]) != "RIFF" || string(riff[8:12]) != "WAVE" {
		return info, errors.New("not a RIFF/WAVE file")
	}

	sawFmt := false
	for {
		var hdr [8]byte
		if _, err := io.ReadFull(r, hdr[:]); err != nil {
			return info, fmt.Errorf("read wav chunk: %w", err)
		}
		id := string(hdr[0:4])
		size := int64(binary.LittleEndian.Uint32(hdr[4:8]))

		switch id {
		case "fmt ":
			if size < 16 {
				return info, errors.New("fmt chunk too short")
			}
			buf := make([]byte, size)
			if _, err := io.ReadFull(r, buf); err != nil {
				return info, fmt.Errorf("read fmt chunk: %w", err)
			}
			info.Channels = int(binary.LittleEndian.Uint16(buf[2:4]))
			info.SampleRate = int(binary.LittleEndian.Uint32(buf[4:8]))
			info.BlockAlign = int(binary.LittleEndian.Uint16(buf[12:14]))
			info.BitsPerSample = int(binary.LittleEndian.Uint16(buf[14:16]))
			sawFmt = true
			if size%2 == 1 {
				if _, err := io.CopyN(io.Discard, r, 1); err != nil {
					return info, fmt.Errorf("skip pad: %w", err)
				}
			}
		case "data":
			if !sawFmt {
				return info, errors.New("data chunk before fmt chunk")
			}
			info.DataSize = size
			return info, nil
		default:
			skip := size + size%2
			if _, err := io.CopyN(io.Discard, r, skip); err != nil {
				return info, fmt.Errorf("skip %q chunk: %w", id, err)
			}
		}
	}
}
