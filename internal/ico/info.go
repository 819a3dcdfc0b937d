package ico

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
)

// ErrFormat is returned for data that is not a well-formed ICO file.
var ErrFormat = errors.New("ico: invalid format")

var pngMagic = []byte{0x89, 'P', 'N', 'G', '\r', '\n', 0x1a, '\n'}

// Frame is one ICONDIRENTRY.
type Frame struct {
	Width    int
	Height   int
	BitCount int
	Size     int // payload bytes
	Offset   int
	PNG      bool // payload is PNG rather than a BMP DIB
}

// Info is the directory of an ICO file. Frames are in file order; the first
// is the primary frame.
type Info struct {
	Frames []Frame
}

// Primary returns the first directory entry.
func (i *Info) Primary() Frame {
	return i.Frames[0]
}

// Payload returns the raw bytes of frame n.
func (i *Info) Payload(data []byte, n int) []byte {
	f := i.Frames[n]
	return data[f.Offset : f.Offset+f.Size]
}

// ReadInfo parses the ICO header and directory without decoding any frame.
func ReadInfo(data []byte) (*Info, error) {
	if len(data) < headerSize {
		return nil, fmt.Errorf("%w: data too short", ErrFormat)
	}
	if r := binary.LittleEndian.Uint16(data[0:]); r != 0 {
		return nil, fmt.Errorf("%w: reserved field %d", ErrFormat, r)
	}
	if typ := binary.LittleEndian.Uint16(data[2:]); typ != typeIcon {
		return nil, fmt.Errorf("%w: image type %d is not an icon", ErrFormat, typ)
	}
	count := int(binary.LittleEndian.Uint16(data[4:]))
	if count == 0 {
		return nil, fmt.Errorf("%w: no frames", ErrFormat)
	}
	if len(data) < headerSize+count*entrySize {
		return nil, fmt.Errorf("%w: directory truncated (%d entries)", ErrFormat, count)
	}

	info := &Info{Frames: make([]Frame, count)}
	for n := 0; n < count; n++ {
		e := data[headerSize+n*entrySize:]
		f := Frame{
			Width:    edge(e[0]),
			Height:   edge(e[1]),
			BitCount: int(binary.LittleEndian.Uint16(e[6:])),
			Size:     int(binary.LittleEndian.Uint32(e[8:])),
			Offset:   int(binary.LittleEndian.Uint32(e[12:])),
		}
		if f.Offset < 0 || f.Size < 0 || f.Offset+f.Size > len(data) {
			return nil, fmt.Errorf("%w: frame %d payload out of range", ErrFormat, n)
		}
		f.PNG = bytes.HasPrefix(data[f.Offset:f.Offset+f.Size], pngMagic)
		info.Frames[n] = f
	}
	return info, nil
}

func edge(b byte) int {
	if b == 0 {
		return 256
	}
	return int(b)
}
