package volume

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBmapMapsEachLogicalRangeToItsSlot(t *testing.T) {
	v := newMountedTestVolume(t, MinDeviceSize)
	id, err := v.ialloc()
	require.NoError(t, err)
	v.inodes[id] = Inode{
		Type:     Regular,
		Direct:   100,
		Indirect: [4]int32{101, 102, 103, 104},
	}

	block, bmapErr := v.bmap(id, 0)
	require.NoError(t, bmapErr)
	assert.Equal(t, 100, block)

	block, bmapErr = v.bmap(id, BlockSize)
	require.NoError(t, bmapErr)
	assert.Equal(t, 101, block)

	block, bmapErr = v.bmap(id, 4*BlockSize+10)
	require.NoError(t, bmapErr)
	assert.Equal(t, 104, block)
}

func TestBmapRejectsOffsetPastLastSlot(t *testing.T) {
	v := newMountedTestVolume(t, MinDeviceSize)
	id, err := v.ialloc()
	require.NoError(t, err)
	v.inodes[id] = Inode{Type: Regular, Direct: 1, Indirect: [4]int32{2, 3, 4, 5}}

	_, bmapErr := v.bmap(id, 5*BlockSize)
	assert.Error(t, bmapErr)
}

func TestAddDataBlockOnlyGrowsIndirectSlots(t *testing.T) {
	v := newMountedTestVolume(t, MinDeviceSize)
	id, err := v.ialloc()
	require.NoError(t, err)
	v.inodes[id] = Inode{
		Type:     Regular,
		Direct:   0,
		Indirect: [4]int32{noBlock, noBlock, noBlock, noBlock},
		Size:     BlockSize, // exactly one full block written, next write needs indirect[0]
	}

	newBlock, err := v.addDataBlock(id)
	require.NoError(t, err)
	assert.Equal(t, newBlock, int(v.inodes[id].Indirect[0]))
}

func TestAddDataBlockFailsWhenDeviceIsFull(t *testing.T) {
	v := newMountedTestVolume(t, MinDeviceSize)
	id, err := v.ialloc()
	require.NoError(t, err)
	v.inodes[id] = Inode{
		Type:     Regular,
		Direct:   0,
		Indirect: [4]int32{noBlock, noBlock, noBlock, noBlock},
		Size:     BlockSize,
	}

	for i := 0; i < int(v.super.NDataBlocks); i++ {
		_, err := v.balloc()
		require.NoError(t, err)
	}

	_, err = v.addDataBlock(id)
	assert.Error(t, err, "growth must fail gracefully once the device is full (B4)")
}
