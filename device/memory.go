package device

import (
	"io"

	"github.com/xaionaro-go/bytesextra"
)

// Memory is an in-memory block device, used by tests and by callers that
// don't want a backing file on disk. It wraps a plain byte slice as an
// io.ReadWriteSeeker via bytesextra, the same adapter the test fixtures use.
type Memory struct {
	stream    io.ReadWriteSeeker
	blockSize int
	blocks    int
}

// NewMemory creates a zero-filled in-memory device of blocks*blockSize bytes.
func NewMemory(blockSize, blocks int) *Memory {
	buf := make([]byte, blockSize*blocks)
	return &Memory{
		stream:    bytesextra.NewReadWriteSeeker(buf),
		blockSize: blockSize,
		blocks:    blocks,
	}
}

// NewMemoryFromBytes wraps an existing byte slice as a device, for tests that
// need to pre-seed or inspect the raw image.
func NewMemoryFromBytes(buf []byte, blockSize int) *Memory {
	return &Memory{
		stream:    bytesextra.NewReadWriteSeeker(buf),
		blockSize: blockSize,
		blocks:    len(buf) / blockSize,
	}
}

func (m *Memory) BlockSize() int { return m.blockSize }
func (m *Memory) BlockCount() int { return m.blocks }

func (m *Memory) ReadBlock(n int) ([]byte, error) {
	if err := CheckBounds(m, n, m.blockSize); err != nil {
		return nil, err
	}
	if _, err := m.stream.Seek(int64(n*m.blockSize), io.SeekStart); err != nil {
		return nil, err
	}
	buf := make([]byte, m.blockSize)
	if _, err := io.ReadFull(m.stream, buf); err != nil {
		return nil, err
	}
	return buf, nil
}

func (m *Memory) WriteBlock(n int, data []byte) error {
	if err := CheckBounds(m, n, len(data)); err != nil {
		return err
	}
	if _, err := m.stream.Seek(int64(n*m.blockSize), io.SeekStart); err != nil {
		return err
	}
	_, err := m.stream.Write(data)
	return err
}
