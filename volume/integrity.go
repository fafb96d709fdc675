package volume

import "hash/crc32"

// IncludeIntegrity marks a regular file as integrity-tracked and seals a
// CRC32 checksum of its current contents. The file must be closed and must
// not already include integrity.
//
// CRC32 is the spec's designated external pure hash function; this
// implementation uses the IEEE polynomial from the standard library's
// hash/crc32, since nothing in the example corpus ships a third-party CRC32
// (see DESIGN.md).
//
// Error codes: -1 file does not exist, -2 any other error (not mounted,
// already open, already includes integrity).
func (v *Volume) IncludeIntegrity(name string) int {
	if err := v.requireMounted(); err != nil {
		diag.Printf("includeIntegrity: %s", err.Error())
		return -2
	}
	id := v.namei(name)
	if id < 0 {
		diag.Printf("includeIntegrity: %q does not exist", name)
		return -1
	}
	id = v.resolve(id)

	if v.inodes[id].IncludesIntegrity == 1 {
		diag.Printf("includeIntegrity: %q already includes integrity", name)
		return -2
	}
	if v.sessions[id].open || v.sessions[id].openIntegrity {
		diag.Printf("includeIntegrity: %q is open", name)
		return -2
	}

	v.inodes[id].IncludesIntegrity = 1
	v.inodes[id].Integrity = v.currentCRC(id)
	return 0
}

// CheckFile recomputes the CRC32 of a file's current contents and compares
// it against the stored checksum. The file must include integrity and be
// closed.
//
// Returns 0 if the contents match, -1 if corrupted, -2 on a precondition
// failure (not mounted, missing, doesn't include integrity, or open).
func (v *Volume) CheckFile(name string) int {
	if err := v.requireMounted(); err != nil {
		diag.Printf("checkFile: %s", err.Error())
		return -2
	}
	id := v.namei(name)
	if id < 0 {
		diag.Printf("checkFile: %q does not exist", name)
		return -2
	}
	id = v.resolve(id)

	if v.inodes[id].IncludesIntegrity == 0 {
		diag.Printf("checkFile: %q does not include integrity", name)
		return -2
	}
	if v.sessions[id].open || v.sessions[id].openIntegrity {
		diag.Printf("checkFile: %q is open", name)
		return -2
	}

	if v.currentCRC(id) == v.inodes[id].Integrity {
		return 0
	}
	return -1
}

// OpenFileIntegrity checks a file's integrity and, if clean, opens it with
// open_integrity=1. The file must be closed and must already include
// integrity.
//
// Error codes: -1 file does not exist, -2 corrupted or already open, -3 any
// other error (not mounted, doesn't include integrity).
func (v *Volume) OpenFileIntegrity(name string) int {
	if err := v.requireMounted(); err != nil {
		diag.Printf("openFileIntegrity: %s", err.Error())
		return -3
	}
	id := v.namei(name)
	if id < 0 {
		diag.Printf("openFileIntegrity: %q does not exist", name)
		return -1
	}
	id = v.resolve(id)

	if v.sessions[id].open || v.sessions[id].openIntegrity {
		diag.Printf("openFileIntegrity: %q is already open", name)
		return -2
	}
	if v.inodes[id].IncludesIntegrity == 0 {
		diag.Printf("openFileIntegrity: %q does not include integrity", name)
		return -3
	}

	if v.currentCRC(id) != v.inodes[id].Integrity {
		diag.Printf("openFileIntegrity: %q is corrupted", name)
		return -2
	}

	v.sessions[id] = session{openIntegrity: true}
	return id
}

// CloseFileIntegrity reseals a file's checksum against its (possibly
// modified) current contents, then closes it. The descriptor must be open
// with integrity, not with a plain open, and the inode must include
// integrity.
//
// Error codes: -1 any precondition failure.
func (v *Volume) CloseFileIntegrity(fd int) int {
	if !v.mounted {
		diag.Printf("closeFileIntegrity: not mounted")
		return -1
	}
	if !v.validDescriptor(fd) {
		diag.Printf("closeFileIntegrity: descriptor %d is not valid", fd)
		return -1
	}
	fd = v.resolve(fd)

	if v.sessions[fd].open {
		diag.Printf("closeFileIntegrity: descriptor %d was opened without integrity", fd)
		return -1
	}
	if v.inodes[fd].IncludesIntegrity == 0 {
		diag.Printf("closeFileIntegrity: descriptor %d does not include integrity", fd)
		return -1
	}
	if !v.sessions[fd].openIntegrity {
		diag.Printf("closeFileIntegrity: descriptor %d is not open", fd)
		return -1
	}

	v.inodes[fd].Integrity = v.currentCRC(fd)
	v.sessions[fd].openIntegrity = false
	v.sessions[fd].seek = 0
	return 0
}

// currentCRC reads the entirety of inode id's contents through the normal
// read path and returns their CRC32. Integrity reads always seek to the
// beginning first, since the read path advances from wherever the seek
// pointer currently sits.
func (v *Volume) currentCRC(id int) uint32 {
	v.sessions[id].seek = 0
	size := int(v.inodes[id].Size)
	buf := make([]byte, size)
	v.readInto(id, buf, size)
	return crc32.ChecksumIEEE(buf)
}

// readInto is readFile's block-by-block copy loop without the descriptor
// validation, used internally by the integrity workflow once a resolved,
// known-good inode id is already in hand.
func (v *Volume) readInto(id int, buf []byte, n int) int {
	sess := &v.sessions[id]
	size := int(v.inodes[id].Size)
	if int(sess.seek)+n > size {
		n = size - int(sess.seek)
	}

	bytesRead := 0
	for n > 0 {
		blockIdx, err := v.bmap(id, int(sess.seek))
		if err != nil {
			break
		}
		blockOffset := int(sess.seek) % BlockSize
		take := n
		if take > BlockSize-blockOffset {
			take = BlockSize - blockOffset
		}

		block, ioErr := v.dev.ReadBlock(int(v.super.FirstDataBlock) + blockIdx)
		if ioErr != nil {
			break
		}
		copy(buf[bytesRead:bytesRead+take], block[blockOffset:blockOffset+take])

		sess.seek += int32(take)
		n -= take
		bytesRead += take
	}
	return bytesRead
}
