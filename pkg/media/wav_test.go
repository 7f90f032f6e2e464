package media

import (
	"bytes"
	"encoding/binary"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// buildWAV returns a PCM WAV with the given format and a silent body of n bytes
func buildWAV(sampleRate, channels, bits int, n int, extraChunk bool) []byte {
	var body bytes.Buffer
	blockAlign := channels * bits / 8

	body.WriteString("WAVE")
	body.WriteString("fmt ")
	binary.Write(&body, binary.LittleEndian, uint32(16))
	binary.Write(&body, binary.LittleEndian, uint16(1))
	binary.Write(&body, binary.LittleEndian, uint16(channels))
	binary.Write(&body, binary.LittleEndian, uint32(sampleRate))
	binary.Write(&body, binary.LittleEndian, uint32(sampleRate*blockAlign))
	binary.Write(&body, binary.LittleEndian, uint16(blockAlign))
	binary.Write(&body, binary.LittleEndian, uint16(bits))
	if extraChunk {
		body.WriteString("LIST")
		binary.Write(&body, binary.LittleEndian, uint32(3))
		body.Write([]byte{'a', 'b', 'c', 0})
	}
	body.WriteString("data")
	binary.Write(&body, binary.LittleEndian, uint32(n))
	body.Write(make([]byte, n))

	var out bytes.Buffer
	out.WriteString("RIFF")
	binary.Write(&out, binary.LittleEndian, uint32(body.Len()))
	out.Write(body.Bytes())
	return out.Bytes()
}

func TestReadWAVInfo_Canonical(t *testing.T) {
	// 2.5 s of 16 kHz mono 16-bit
	raw := buildWAV(16000, 1, 16, 16000*2*5/2, false)

	info, err := ReadWAVInfo(bytes.NewReader(raw))
	require.NoError(t, err)
	assert.Equal(t, 16000, info.SampleRate)
	assert.Equal(t, 1, info.Channels)
	assert.Equal(t, 16, info.BitsPerSample)
	assert.Equal(t, int64(2500), info.DurationMs())
	assert.Equal(t, 2, info.DurationSec())
}

func TestReadWAVInfo_SkipsUnknownChunks(t *testing.T) {
	raw := buildWAV(16000, 1, 16, 32000*3, true)

	info, err := ReadWAVInfo(bytes.NewReader(raw))
	require.NoError(t, err)
	assert.Equal(t, 3, info.DurationSec())
}

func TestReadWAVInfo_FloorsToWholeSeconds(t *testing.T) {
	// 999 ms
	raw := buildWAV(16000, 1, 16, 32*999, false)

	info, err := ReadWAVInfo(bytes.NewReader(raw))
	require.NoError(t, err)
	assert.Equal(t, int64(999), info.DurationMs())
	assert.Equal(t, 0, info.DurationSec())
}

func TestReadWAVInfo_Rejects(t *testing.T) {
	_, err := ReadWAVInfo(bytes.NewReader([]byte("definitely not audio")))
	assert.Error(t, err)

	_, err = ReadWAVInfo(bytes.NewReader(nil))
	assert.Error(t, err)
}

func TestWAVInfo_ZeroFormatHasZeroDuration(t *testing.T) {
	assert.Equal(t, int64(0), WAVInfo{DataSize: 100}.DurationMs())
}
