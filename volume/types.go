package volume

// Superblock is the in-memory form of the volume's global on-disk header:
// geometry plus the inode and data-block allocation bitmaps.
type Superblock struct {
	Magic          int32
	NInodes        int32
	NInodeBlocks   int32
	NDataBlocks    int32
	FirstDataBlock int32
	DeviceSize     int32

	// InodeBitmap has bit i set iff inode i is allocated.
	InodeBitmap []byte
	// BlockBitmap has bit j set iff data-block index j is allocated. Sized
	// to maxDataBlocks; only the first NDataBlocks bits are meaningful.
	BlockBitmap []byte
}

func newSuperblock() *Superblock {
	return &Superblock{
		InodeBitmap: make([]byte, inodeBitmapBytes),
		BlockBitmap: make([]byte, blockBitmapBytes),
	}
}

// Inode describes one named object: a regular file or a symbolic link.
type Inode struct {
	Type              int32
	Name              string
	TargetInode       int32
	Size              int32
	Direct            int32
	Indirect          [4]int32
	IncludesIntegrity int32
	Integrity         uint32
}

// zeroInode is the all-zero value ifree resets a freed inode's record to,
// matching the reference implementation's memset(0): an unallocated inode's
// block slots read 0, not the noBlock sentinel. Only createFile ever writes
// noBlock into a slot, to mark it unused *within an allocated regular
// inode*; createLn leaves a link's slots at 0. namei's linear scan relies on a freed inode's Name being the empty
// string, not on any particular block-slot value.
func zeroInode() Inode {
	return Inode{}
}

// session is the in-memory, never-persisted runtime state for one inode:
// open flags and the seek pointer. It is reset on every mount.
type session struct {
	open          bool
	openIntegrity bool
	seek          int32
}
