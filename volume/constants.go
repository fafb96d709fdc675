package volume

// Fixed parameters of the on-disk contract. These are not configurable --
// changing any of them invalidates every volume ever formatted with the
// previous values.
const (
	BlockSize       = 2048
	NInodes         = 48
	InodesPerBlock  = 16
	NInodeBlocks    = NInodes / InodesPerBlock
	NameLength      = 32
	Magic           = 1234
	MinDeviceSize   = 460 * 1024
	MaxDeviceSize   = 600 * 1024
	MaxFileBlocks   = 5
	MaxFileSize     = MaxFileBlocks * BlockSize

	// inodeBitmapBytes is the number of bytes needed to hold one bit per
	// inode.
	inodeBitmapBytes = NInodes / 8

	// blockBitmapBytes is sized for the largest volume the format can ever
	// describe (MaxDeviceSize), so the superblock's on-disk layout doesn't
	// depend on the size of any particular mounted device. Only the first
	// NDataBlocks bits of it are ever meaningful for a given volume.
	maxDataBlocks    = (MaxDeviceSize/BlockSize - 1 - NInodeBlocks)
	blockBitmapBytes = (maxDataBlocks + 7) / 8

	inodeRecordSize = BlockSize / InodesPerBlock // 128 bytes

	superblockFixedFieldsSize = 6 * 4 // six int32 fields
	superblockPaddingSize     = BlockSize - superblockFixedFieldsSize - inodeBitmapBytes - blockBitmapBytes

	// inodeFixedFieldsSize is Type(4) + Name(32) + TargetInode(4) + Size(4) +
	// Direct(4) + Indirect(4*4) + IncludesIntegrity(4) + Integrity(4).
	inodeFixedFieldsSize = 4 + NameLength + 4 + 4 + 4 + 4*4 + 4 + 4
	inodePaddingSize     = inodeRecordSize - inodeFixedFieldsSize
)

// Inode types.
const (
	Regular = iota
	SymLink
)

// Seek origins for lseekFile.
const (
	SeekCur = iota
	SeekEnd
	SeekBeginning
)

// noBlock is the sentinel stored in an inode's block slots when the slot is
// unused.
const noBlock = -1
