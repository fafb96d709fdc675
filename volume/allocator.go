package volume

import (
	fserrors "github.com/abustany/flatfs/errors"
)

// ialloc scans the inode bitmap for the lowest clear bit, sets it, and
// returns the index. Lowest-index-first is the canonical allocation rule: it
// keeps allocation deterministic and testable (spec.md §4.5).
func (v *Volume) ialloc() (int, fserrors.DriverError) {
	for i := 0; i < NInodes; i++ {
		if !bitmapGet(v.super.InodeBitmap, i) {
			bitmapSet(v.super.InodeBitmap, i, true)
			return i, nil
		}
	}
	return -1, fserrors.New(fserrors.CodeNoSpace)
}

// balloc scans the data-block bitmap analogously. The returned index is a
// data-block index, not a physical block -- callers must add
// FirstDataBlock to get a physical block number.
func (v *Volume) balloc() (int, fserrors.DriverError) {
	n := int(v.super.NDataBlocks)
	for i := 0; i < n; i++ {
		if !bitmapGet(v.super.BlockBitmap, i) {
			bitmapSet(v.super.BlockBitmap, i, true)
			return i, nil
		}
	}
	return -1, fserrors.New(fserrors.CodeNoSpace)
}

// ifree clears inode id's bitmap bit and zeros its record and session state.
func (v *Volume) ifree(id int) fserrors.DriverError {
	if id < 0 || id >= NInodes {
		return fserrors.NewWithMessage(fserrors.CodeInvalidArgument, "inode id out of range")
	}
	bitmapSet(v.super.InodeBitmap, id, false)
	v.inodes[id] = zeroInode()
	v.sessions[id] = session{}
	return nil
}

// bfree clears data-block index's bitmap bit and zeros its contents on disk.
func (v *Volume) bfree(index int) fserrors.DriverError {
	if index < 0 || index >= int(v.super.NDataBlocks) {
		return fserrors.NewWithMessage(fserrors.CodeInvalidArgument, "data block index out of range")
	}
	bitmapSet(v.super.BlockBitmap, index, false)

	zero := make([]byte, BlockSize)
	if err := v.dev.WriteBlock(int(v.super.FirstDataBlock)+index, zero); err != nil {
		return fserrors.New(fserrors.CodeIO).WrapError(err)
	}
	return nil
}
