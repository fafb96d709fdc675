// Package volume implements the core of flatfs: the on-disk layout and the
// allocation, address-translation, and metadata-consistency engine for a
// simulated single-volume flat file system, plus the thin public operations
// built on top of it (create/remove, open/close/read/write/seek, symbolic
// links, and integrity checking).
package volume

import (
	"log"
	"os"

	"github.com/abustany/flatfs/device"
	fserrors "github.com/abustany/flatfs/errors"
)

var diag = log.New(os.Stderr, "", 0)

// Volume is the mount handle: every piece of process-wide mutable state the
// reference design keeps as globals (superblock, inode table, session
// table, mounted flag) lives here instead, scoped to one instance. Mount and
// Unmount are its lifecycle boundaries.
type Volume struct {
	dev      device.Device
	super    *Superblock
	inodes   [NInodes]Inode
	sessions [NInodes]session
	mounted  bool
}

// New creates a Volume handle over a device that already holds a formatted
// (or about-to-be-formatted) image. It does not read anything from dev; call
// MakeFS or Mount to populate the in-memory state.
func New(dev device.Device) *Volume {
	return &Volume{dev: dev, super: newSuperblock()}
}

// MakeFS formats a volume: it validates deviceSize against the format's
// size bounds, initializes the superblock and a zeroed inode table, and
// writes that metadata plus a zeroed data region to dev. It does not change
// Volume's mounted state.
//
// MakeFS does not create the backing device -- that's the external
// collaborator's job (spec §1); dev must already be sized for deviceSize.
func (v *Volume) MakeFS(deviceSize int) int {
	if deviceSize < MinDeviceSize || deviceSize > MaxDeviceSize {
		diag.Printf("mkFS: device size %d out of range [%d, %d]", deviceSize, MinDeviceSize, MaxDeviceSize)
		return -1
	}

	totalBlocks := deviceSize / BlockSize
	nDataBlocks := totalBlocks - 1 - NInodeBlocks
	if nDataBlocks < 0 {
		diag.Printf("mkFS: device too small to hold the inode table")
		return -1
	}

	v.super = newSuperblock()
	v.super.Magic = Magic
	v.super.NInodes = NInodes
	v.super.NInodeBlocks = NInodeBlocks
	v.super.NDataBlocks = int32(nDataBlocks)
	v.super.FirstDataBlock = 1 + NInodeBlocks
	v.super.DeviceSize = int32(deviceSize)

	for i := range v.inodes {
		v.inodes[i] = zeroInode()
	}

	if err := v.writeMetadata(); err != nil {
		diag.Printf("mkFS: %s", err.Error())
		return -1
	}

	zero := make([]byte, BlockSize)
	for i := 0; i < nDataBlocks; i++ {
		if err := v.dev.WriteBlock(int(v.super.FirstDataBlock)+i, zero); err != nil {
			diag.Printf("mkFS: error initializing data block %d to zero: %s", i, err.Error())
			return -1
		}
	}

	return 0
}

// Mount reads the superblock and inode table from disk into memory. It fails
// if the volume is already mounted.
func (v *Volume) Mount() int {
	if v.mounted {
		diag.Printf("mountFS: already mounted")
		return -1
	}
	if err := v.readMetadata(); err != nil {
		diag.Printf("mountFS: %s", err.Error())
		return -1
	}
	if v.super.Magic != Magic {
		diag.Printf("mountFS: bad magic number, volume is not formatted")
		return -1
	}
	v.sessions = [NInodes]session{}
	v.mounted = true
	return 0
}

// Unmount writes metadata back to disk and clears all session state. It
// fails if the volume is not mounted.
func (v *Volume) Unmount() int {
	if !v.mounted {
		diag.Printf("unmountFS: not mounted")
		return -1
	}
	if err := v.writeMetadata(); err != nil {
		diag.Printf("unmountFS: %s", err.Error())
		return -1
	}
	v.sessions = [NInodes]session{}
	v.mounted = false
	return 0
}

// requireMounted is the common guard used by every public operation.
func (v *Volume) requireMounted() fserrors.DriverError {
	if !v.mounted {
		return fserrors.New(fserrors.CodeNotMounted)
	}
	return nil
}

// validDescriptor reports whether fd names a currently allocated inode.
func (v *Volume) validDescriptor(fd int) bool {
	if fd < 0 || fd >= NInodes {
		return false
	}
	return v.inodeAllocated(fd)
}

func (v *Volume) inodeAllocated(id int) bool {
	return bitmapGet(v.super.InodeBitmap, id)
}

// resolve dereferences fd exactly once if it names a symbolic link. By
// invariant 6 a link's target is always an allocated regular inode, so no
// further indirection or cycle check is needed here (createLn already
// forbids link-to-link).
func (v *Volume) resolve(fd int) int {
	if v.inodes[fd].Type == SymLink {
		return int(v.inodes[fd].TargetInode)
	}
	return fd
}

// InodeInfo is a read-only snapshot of one allocated inode, for callers
// (the CLI shell, diagnostics) that need to enumerate the volume without
// reaching into unexported fields.
type InodeInfo struct {
	ID                int
	Name              string
	IsLink            bool
	Size              int32
	IncludesIntegrity bool
}

// ListInodes returns a snapshot of every currently allocated inode, ordered
// by inode id. It requires no open session and does not mutate anything.
func (v *Volume) ListInodes() []InodeInfo {
	var out []InodeInfo
	for i := 0; i < NInodes; i++ {
		if !v.inodeAllocated(i) {
			continue
		}
		in := v.inodes[i]
		out = append(out, InodeInfo{
			ID:                i,
			Name:              in.Name,
			IsLink:            in.Type == SymLink,
			Size:              in.Size,
			IncludesIntegrity: in.IncludesIntegrity == 1,
		})
	}
	return out
}
