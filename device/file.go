package device

import (
	"io"
	"os"
)

// File is a block device backed by a real file on the host file system, used
// by the CLI front-end. Creating the backing file is the caller's
// responsibility (spec treats physical device creation as an external
// collaborator); File only ever reads and writes fixed-size blocks within it.
type File struct {
	f         *os.File
	blockSize int
	blocks    int
}

// Create creates (or truncates) a backing image file of blocks*blockSize
// bytes and returns a File device over it.
func Create(path string, blockSize, blocks int) (*File, error) {
	f, err := os.Create(path)
	if err != nil {
		return nil, err
	}
	if err := f.Truncate(int64(blockSize * blocks)); err != nil {
		f.Close()
		return nil, err
	}
	return &File{f: f, blockSize: blockSize, blocks: blocks}, nil
}

// Open opens an existing backing image file of the given geometry.
func Open(path string, blockSize, blocks int) (*File, error) {
	f, err := os.OpenFile(path, os.O_RDWR, 0o644)
	if err != nil {
		return nil, err
	}
	return &File{f: f, blockSize: blockSize, blocks: blocks}, nil
}

func (d *File) BlockSize() int  { return d.blockSize }
func (d *File) BlockCount() int { return d.blocks }

func (d *File) Close() error {
	return d.f.Close()
}

func (d *File) ReadBlock(n int) ([]byte, error) {
	if err := CheckBounds(d, n, d.blockSize); err != nil {
		return nil, err
	}
	if _, err := d.f.Seek(int64(n*d.blockSize), io.SeekStart); err != nil {
		return nil, err
	}
	buf := make([]byte, d.blockSize)
	if _, err := io.ReadFull(d.f, buf); err != nil {
		return nil, err
	}
	return buf, nil
}

func (d *File) WriteBlock(n int, data []byte) error {
	if err := CheckBounds(d, n, len(data)); err != nil {
		return err
	}
	if _, err := d.f.Seek(int64(n*d.blockSize), io.SeekStart); err != nil {
		return err
	}
	_, err := d.f.Write(data)
	return err
}
