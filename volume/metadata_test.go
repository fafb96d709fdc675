package volume

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abustany/flatfs/device"
)

// This file exercises the wire format directly (package-internal, unlike
// volume_test.go's black-box tests) since rawSuperblock/rawInode are
// unexported but are exactly the on-disk contract spec.md §6 describes.

func TestRawSuperblockRoundTrip(t *testing.T) {
	s := newSuperblock()
	s.Magic = Magic
	s.NInodes = NInodes
	s.NInodeBlocks = NInodeBlocks
	s.NDataBlocks = 296
	s.FirstDataBlock = 1 + NInodeBlocks
	s.DeviceSize = MaxDeviceSize
	bitmapSet(s.InodeBitmap, 3, true)
	bitmapSet(s.BlockBitmap, 200, true)

	raw := toRawSuperblock(s)
	back := fromRawSuperblock(raw)

	assert.Equal(t, s.Magic, back.Magic)
	assert.Equal(t, s.NInodes, back.NInodes)
	assert.Equal(t, s.NDataBlocks, back.NDataBlocks)
	assert.Equal(t, s.FirstDataBlock, back.FirstDataBlock)
	assert.Equal(t, s.DeviceSize, back.DeviceSize)
	assert.True(t, bitmapGet(back.InodeBitmap, 3))
	assert.False(t, bitmapGet(back.InodeBitmap, 4))
	assert.True(t, bitmapGet(back.BlockBitmap, 200))
}

func TestRawInodeRoundTrip(t *testing.T) {
	in := Inode{
		Type:              SymLink,
		Name:              "/some-name.txt",
		TargetInode:       7,
		Size:              4096,
		Direct:            10,
		Indirect:          [4]int32{11, noBlock, noBlock, noBlock},
		IncludesIntegrity: 1,
		Integrity:         0xDEADBEEF,
	}

	raw := toRawInode(in)
	back := fromRawInode(raw)

	assert.Equal(t, in, back)
}

func TestRawInodeNameIsNULTerminatedOnDisk(t *testing.T) {
	in := Inode{Name: "short"}
	raw := toRawInode(in)

	require.Equal(t, byte('s'), raw.Name[0])
	assert.Equal(t, byte(0), raw.Name[len("short")], "byte right after the name must be the NUL terminator")
}

func TestMetadataSurvivesWriteRead(t *testing.T) {
	dev := device.NewMemory(BlockSize, MaxDeviceSize/BlockSize)
	v := New(dev)
	require.Equal(t, 0, v.MakeFS(MaxDeviceSize))

	v.inodes[5] = Inode{Type: Regular, Name: "/seeded.txt", Direct: 12, Indirect: [4]int32{noBlock, noBlock, noBlock, noBlock}, Size: 9}
	bitmapSet(v.super.InodeBitmap, 5, true)
	bitmapSet(v.super.BlockBitmap, 12, true)

	require.NoError(t, v.writeMetadata())

	v2 := New(dev)
	require.NoError(t, v2.readMetadata())

	assert.Equal(t, v.super.Magic, v2.super.Magic)
	assert.Equal(t, v.inodes[5], v2.inodes[5])
	assert.True(t, bitmapGet(v2.super.InodeBitmap, 5))
	assert.True(t, bitmapGet(v2.super.BlockBitmap, 12))
}
