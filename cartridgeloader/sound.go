// This file is part of Verihost.
//
// Verihost is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// Verihost is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU General Public License for more details.
//
// You should have received a copy of the GNU General Public License
// along with Verihost.  If not, see <https://www.gnu.org/licenses/>.
package cartridgeloader

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/go-audio/wav"
	"github.com/hajimehoshi/go-mp3"
	"github.com/jetsetilly/verihost/logger"
)

// decodeSound returns the left channel of the sound data as unsigned 8 bit
// PCM.
func decodeSound(filename string, data []byte) ([]byte, error) {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".wav":
		return decodeWAV(data)
	case ".mp3":
		return decodeMP3(data)
	}
	return nil, fmt.Errorf("sound: unsupported format (%s)", filepath.Ext(filename))
}

func decodeWAV(data []byte) ([]byte, error) {
	dec := wav.NewDecoder(bytes.NewReader(data))
	if dec == nil {
		return nil, fmt.Errorf("wav: error decoding")
	}

	if !dec.IsValidFile() {
		return nil, fmt.Errorf("wav: not a valid wav file")
	}

	logger.Log(logger.Allow, logTag, "decoding wav file")

	buf, err := dec.FullPCMBuffer()
	if err != nil {
		return nil, fmt.Errorf("wav: %w", err)
	}

	chans := int(dec.NumChans)
	if chans < 1 {
		return nil, fmt.Errorf("wav: no channels")
	}

	depth := int(dec.BitDepth)

	// copy first channel only of data stream
	pcm := make([]byte, 0, len(buf.Data)/chans)
	for i := 0; i < len(buf.Data); i += chans {
		v := buf.Data[i]
		if depth <= 8 {
			// 8 bit wav data is already unsigned
			pcm = append(pcm, uint8(v))
		} else {
			pcm = append(pcm, uint8((v>>(depth-8))+128))
		}
	}

	logger.Logf(logger.Allow, logTag, "sample rate: %dHz", dec.SampleRate)

	return pcm, nil
}

func decodeMP3(data []byte) ([]byte, error) {
	dec, err := mp3.NewDecoder(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("mp3: %w", err)
	}

	logger.Log(logger.Allow, logTag, "decoding mp3 file")

	// the stream is always formatted as 16bit little endian with 2 channels
	// even if the source is a single channel. a sample is therefore four
	// bytes with the left channel first
	pcm := make([]byte, 0)
	chunk := make([]byte, 4096)
	for {
		n, err := io.ReadFull(dec, chunk)
		for i := 0; i+1 < n; i += 4 {
			v := int16(uint16(chunk[i]) | uint16(chunk[i+1])<<8)
			pcm = append(pcm, uint8((int(v)>>8)+128))
		}
		if err != nil {
			if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
				break
			}
			return nil, fmt.Errorf("mp3: %w", err)
		}
	}

	logger.Logf(logger.Allow, logTag, "sample rate: %dHz", dec.SampleRate())

	return pcm, nil
}
