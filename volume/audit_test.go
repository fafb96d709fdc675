package volume

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAuditDetectsADanglingSymlinkTarget(t *testing.T) {
	v := newMountedTestVolume(t, MinDeviceSize)

	id, err := v.ialloc()
	require.NoError(t, err)
	// Hand-craft a P4 violation: a symlink whose target was never allocated.
	v.inodes[id] = Inode{Type: SymLink, Name: "/dangling", TargetInode: 99}

	auditErr := v.Audit()
	assert.Error(t, auditErr)
	assert.Contains(t, auditErr.Error(), "P4")
}

func TestAuditDetectsSharedDataBlocks(t *testing.T) {
	v := newMountedTestVolume(t, MinDeviceSize)

	idA, err := v.ialloc()
	require.NoError(t, err)
	idB, err := v.ialloc()
	require.NoError(t, err)
	blk, err := v.balloc()
	require.NoError(t, err)

	v.inodes[idA] = Inode{Type: Regular, Name: "/a", Direct: int32(blk), Indirect: [4]int32{noBlock, noBlock, noBlock, noBlock}}
	v.inodes[idB] = Inode{Type: Regular, Name: "/b", Direct: int32(blk), Indirect: [4]int32{noBlock, noBlock, noBlock, noBlock}}

	auditErr := v.Audit()
	assert.Error(t, auditErr)
	assert.Contains(t, auditErr.Error(), "P2")
}
