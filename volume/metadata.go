package volume

import (
	"bytes"
	"encoding/binary"

	"github.com/noxer/bytewriter"

	fserrors "github.com/abustany/flatfs/errors"
)

// rawSuperblock is the exact little-endian, fixed-width on-disk image of the
// superblock (resolves Open Question O3: no raw memory image of a Go struct
// ever touches the device, only this explicit wire layout).
type rawSuperblock struct {
	Magic          int32
	NInodes        int32
	NInodeBlocks   int32
	NDataBlocks    int32
	FirstDataBlock int32
	DeviceSize     int32
	InodeBitmap    [inodeBitmapBytes]byte
	BlockBitmap    [blockBitmapBytes]byte
	Padding        [superblockPaddingSize]byte
}

// rawInode is the exact 128-byte on-disk image of one inode record.
type rawInode struct {
	Type              int32
	Name              [NameLength]byte
	TargetInode       int32
	Size              int32
	Direct            int32
	Indirect          [4]int32
	IncludesIntegrity int32
	Integrity         uint32
	Padding           [inodePaddingSize]byte
}

func toRawSuperblock(s *Superblock) rawSuperblock {
	var raw rawSuperblock
	raw.Magic = s.Magic
	raw.NInodes = s.NInodes
	raw.NInodeBlocks = s.NInodeBlocks
	raw.NDataBlocks = s.NDataBlocks
	raw.FirstDataBlock = s.FirstDataBlock
	raw.DeviceSize = s.DeviceSize
	copy(raw.InodeBitmap[:], s.InodeBitmap)
	copy(raw.BlockBitmap[:], s.BlockBitmap)
	return raw
}

func fromRawSuperblock(raw rawSuperblock) *Superblock {
	s := newSuperblock()
	s.Magic = raw.Magic
	s.NInodes = raw.NInodes
	s.NInodeBlocks = raw.NInodeBlocks
	s.NDataBlocks = raw.NDataBlocks
	s.FirstDataBlock = raw.FirstDataBlock
	s.DeviceSize = raw.DeviceSize
	copy(s.InodeBitmap, raw.InodeBitmap[:])
	copy(s.BlockBitmap, raw.BlockBitmap[:])
	return s
}

func toRawInode(in Inode) rawInode {
	var raw rawInode
	raw.Type = in.Type
	copy(raw.Name[:], in.Name)
	raw.TargetInode = in.TargetInode
	raw.Size = in.Size
	raw.Direct = in.Direct
	raw.Indirect = in.Indirect
	raw.IncludesIntegrity = in.IncludesIntegrity
	raw.Integrity = in.Integrity
	return raw
}

func fromRawInode(raw rawInode) Inode {
	return Inode{
		Type:              raw.Type,
		Name:              nameFromBytes(raw.Name[:]),
		TargetInode:       raw.TargetInode,
		Size:              raw.Size,
		Direct:            raw.Direct,
		Indirect:          raw.Indirect,
		IncludesIntegrity: raw.IncludesIntegrity,
		Integrity:         raw.Integrity,
	}
}

// nameFromBytes returns the NUL-terminated string stored in a fixed-size name
// field.
func nameFromBytes(b []byte) string {
	if i := bytes.IndexByte(b, 0); i >= 0 {
		return string(b[:i])
	}
	return string(b)
}

// writeMetadata serializes the superblock and inode table to disk: the
// superblock as block 0, then the inode table packed 16 inodes per block,
// in ascending inode-index order, across NInodeBlocks blocks.
func (v *Volume) writeMetadata() fserrors.DriverError {
	sbBlock := make([]byte, BlockSize)
	w := bytewriter.New(sbBlock)
	if err := binary.Write(w, binary.LittleEndian, toRawSuperblock(v.super)); err != nil {
		return fserrors.New(fserrors.CodeIO).WrapError(err)
	}
	if err := v.dev.WriteBlock(0, sbBlock); err != nil {
		return fserrors.New(fserrors.CodeIO).WrapError(err)
	}

	for blk := 0; blk < NInodeBlocks; blk++ {
		buf := make([]byte, BlockSize)
		w := bytewriter.New(buf)
		for j := 0; j < InodesPerBlock; j++ {
			idx := blk*InodesPerBlock + j
			if err := binary.Write(w, binary.LittleEndian, toRawInode(v.inodes[idx])); err != nil {
				return fserrors.New(fserrors.CodeIO).WrapError(err)
			}
		}
		if err := v.dev.WriteBlock(1+blk, buf); err != nil {
			return fserrors.New(fserrors.CodeIO).WrapError(err)
		}
	}
	return nil
}

// readMetadata is the inverse of writeMetadata: it reconstructs the
// in-memory superblock and inode table byte-for-byte from the on-disk
// layout.
func (v *Volume) readMetadata() fserrors.DriverError {
	sbBlock, err := v.dev.ReadBlock(0)
	if err != nil {
		return fserrors.New(fserrors.CodeIO).WrapError(err)
	}
	var raw rawSuperblock
	if err := binary.Read(bytes.NewReader(sbBlock), binary.LittleEndian, &raw); err != nil {
		return fserrors.New(fserrors.CodeIO).WrapError(err)
	}
	v.super = fromRawSuperblock(raw)

	for blk := 0; blk < NInodeBlocks; blk++ {
		buf, err := v.dev.ReadBlock(1 + blk)
		if err != nil {
			return fserrors.New(fserrors.CodeIO).WrapError(err)
		}
		r := bytes.NewReader(buf)
		for j := 0; j < InodesPerBlock; j++ {
			var raw rawInode
			if err := binary.Read(r, binary.LittleEndian, &raw); err != nil {
				return fserrors.New(fserrors.CodeIO).WrapError(err)
			}
			v.inodes[blk*InodesPerBlock+j] = fromRawInode(raw)
		}
	}
	return nil
}
