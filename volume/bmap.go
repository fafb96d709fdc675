package volume

import fserrors "github.com/abustany/flatfs/errors"

// bmap translates a byte offset within inode id's file into the data-block
// index stored in the corresponding slot: offset 0..BlockSize-1 is the
// direct block, the next four block-sized ranges are indirect[1..4]. The
// returned value is a data-block index; callers add FirstDataBlock to
// address the device.
func (v *Volume) bmap(id int, offset int) (int, fserrors.DriverError) {
	logical := offset / BlockSize
	switch logical {
	case 0:
		return int(v.inodes[id].Direct), nil
	case 1, 2, 3, 4:
		return int(v.inodes[id].Indirect[logical-1]), nil
	default:
		return -1, fserrors.NewWithMessage(fserrors.CodeInvalidArgument, "offset maps past the last block slot")
	}
}

// addDataBlock extends inode id by one physical block when a write reaches a
// block boundary. It is only ever called for the indirect slots 1..4 -- the
// direct block is always allocated at createFile time.
func (v *Volume) addDataBlock(id int) (int, fserrors.DriverError) {
	blockIndex, err := v.balloc()
	if err != nil {
		return -1, err
	}

	logical := int(v.inodes[id].Size) / BlockSize
	switch logical {
	case 1, 2, 3, 4:
		v.inodes[id].Indirect[logical-1] = int32(blockIndex)
		return blockIndex, nil
	default:
		v.bfree(blockIndex)
		return -1, fserrors.NewWithMessage(fserrors.CodeInvalidArgument, "file has no further indirect slots")
	}
}
