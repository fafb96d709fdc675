package volume

// CreateFile allocates an inode and its first (direct) data block for a new
// regular file, even though the file starts at size 0 -- the direct block is
// always present by construction. Returns the new inode id (also its file
// descriptor) on success.
//
// Error codes: -1 name already exists, -2 any other error (not mounted, out
// of inodes/blocks).
func (v *Volume) CreateFile(name string) int {
	if err := v.requireMounted(); err != nil {
		diag.Printf("createFile: %s", err.Error())
		return -2
	}
	if v.namei(name) >= 0 {
		diag.Printf("createFile: %q already exists", name)
		return -1
	}

	inodeID, err := v.ialloc()
	if err != nil {
		diag.Printf("createFile: %s", err.Error())
		return -2
	}
	blockID, err := v.balloc()
	if err != nil {
		diag.Printf("createFile: %s", err.Error())
		v.ifree(inodeID)
		return -2
	}

	v.inodes[inodeID] = Inode{
		Type:     Regular,
		Name:     name,
		Direct:   int32(blockID),
		Indirect: [4]int32{noBlock, noBlock, noBlock, noBlock},
	}
	v.sessions[inodeID] = session{}

	return inodeID
}

// RemoveFile deletes a regular file: frees every data block it references,
// cascades removal of every symbolic link pointing to it, then frees the
// inode itself.
//
// Error codes: -1 not found, -2 any other error (not mounted, not regular).
func (v *Volume) RemoveFile(name string) int {
	if err := v.requireMounted(); err != nil {
		diag.Printf("removeFile: %s", err.Error())
		return -2
	}
	id := v.namei(name)
	if id < 0 {
		diag.Printf("removeFile: %q does not exist", name)
		return -1
	}
	if v.inodes[id].Type != Regular {
		diag.Printf("removeFile: %q is not a regular file", name)
		return -2
	}

	in := v.inodes[id]
	if err := v.bfree(int(in.Direct)); err != nil {
		diag.Printf("removeFile: %s", err.Error())
		return -2
	}
	for _, blk := range in.Indirect {
		if blk != noBlock {
			if err := v.bfree(int(blk)); err != nil {
				diag.Printf("removeFile: %s", err.Error())
				return -2
			}
		}
	}

	v.removeLinks(id)

	if err := v.ifree(id); err != nil {
		diag.Printf("removeFile: %s", err.Error())
		return -2
	}
	return 0
}

// OpenFile resolves name, dereferencing a symbolic link if necessary, and
// resets the target's session to seek 0, open=1. Reopening a file that is
// already open (without integrity) silently resets its seek pointer; opening
// one that is currently open with integrity is a hard error (resolves Open
// Question O1 in favor of the spec's own recommended redesign).
//
// Error codes: -1 not found, -2 any other error (not mounted, already open
// with integrity).
func (v *Volume) OpenFile(name string) int {
	if err := v.requireMounted(); err != nil {
		diag.Printf("openFile: %s", err.Error())
		return -2
	}
	id := v.namei(name)
	if id < 0 {
		diag.Printf("openFile: %q does not exist", name)
		return -1
	}
	id = v.resolve(id)

	if v.sessions[id].openIntegrity {
		diag.Printf("openFile: %q is already open with integrity", name)
		return -2
	}

	v.sessions[id] = session{open: true}
	return id
}

// CloseFile clears the open flag and resets the seek pointer. A symbolic
// link descriptor is dereferenced to its target first.
//
// Error codes: -1 invalid descriptor or opened with integrity, -2 not
// mounted.
func (v *Volume) CloseFile(fd int) int {
	if err := v.requireMounted(); err != nil {
		diag.Printf("closeFile: %s", err.Error())
		return -2
	}
	if !v.validDescriptor(fd) {
		diag.Printf("closeFile: descriptor %d is not valid", fd)
		return -1
	}
	fd = v.resolve(fd)

	if v.sessions[fd].openIntegrity {
		diag.Printf("closeFile: descriptor %d was opened with integrity", fd)
		return -1
	}

	v.sessions[fd].open = false
	v.sessions[fd].seek = 0
	return 0
}

// ReadFile copies up to n bytes starting at the file's current seek pointer
// into buf, advancing seek by the number of bytes actually copied. Reading
// past EOF simply returns fewer bytes (possibly zero); it is never an error
// once the preconditions below pass.
//
// Error codes: -1 invalid descriptor, not mounted, or negative n.
func (v *Volume) ReadFile(fd int, buf []byte, n int) int {
	if !v.mounted {
		diag.Printf("readFile: not mounted")
		return -1
	}
	if !v.validDescriptor(fd) {
		diag.Printf("readFile: descriptor %d is not valid", fd)
		return -1
	}
	if n < 0 {
		diag.Printf("readFile: size %d is not valid", n)
		return -1
	}
	fd = v.resolve(fd)

	sess := &v.sessions[fd]
	size := int(v.inodes[fd].Size)
	if int(sess.seek)+n > size {
		n = size - int(sess.seek)
	}

	bytesRead := 0
	for n > 0 {
		blockIdx, err := v.bmap(fd, int(sess.seek))
		if err != nil {
			diag.Printf("readFile: %s", err.Error())
			break
		}
		blockOffset := int(sess.seek) % BlockSize
		take := n
		if take > BlockSize-blockOffset {
			take = BlockSize - blockOffset
		}

		block, ioErr := v.dev.ReadBlock(int(v.super.FirstDataBlock) + blockIdx)
		if ioErr != nil {
			diag.Printf("readFile: %s", ioErr.Error())
			break
		}
		copy(buf[bytesRead:bytesRead+take], block[blockOffset:blockOffset+take])

		sess.seek += int32(take)
		n -= take
		bytesRead += take
	}

	return bytesRead
}

// WriteFile splices up to n bytes from buf into the file starting at the
// current seek pointer, growing the file with addDataBlock whenever a write
// crosses a block boundary. It requires the file to be open (with or without
// integrity). size is incremented unconditionally by bytes written (Open
// Question O2, resolved by keeping the reference behavior). lseekFile never
// allows seek to exceed size, so a write never leaves a gap; a write that
// overwrites bytes before the current end still adds its length to size, so
// size then exceeds the number of bytes actually written.
//
// Error codes: -1 invalid descriptor or not open, -2 not mounted. A failed
// growth allocation is not an error: it returns the partial byte count
// written so far (possibly 0).
func (v *Volume) WriteFile(fd int, buf []byte, n int) int {
	if !v.mounted {
		diag.Printf("writeFile: not mounted")
		return -2
	}
	if !v.validDescriptor(fd) {
		diag.Printf("writeFile: descriptor %d is not valid", fd)
		return -1
	}
	fd = v.resolve(fd)

	sess := &v.sessions[fd]
	if !sess.open && !sess.openIntegrity {
		diag.Printf("writeFile: descriptor %d is not open", fd)
		return -1
	}
	if n < 0 {
		diag.Printf("writeFile: size %d is not valid", n)
		return -1
	}

	if int(sess.seek)+n > MaxFileSize {
		n = MaxFileSize - int(sess.seek)
	}

	in := &v.inodes[fd]
	bytesWritten := 0

	if n > 0 && in.Size%BlockSize == 0 && in.Size > 0 && in.Size == sess.seek {
		if _, err := v.addDataBlock(fd); err != nil {
			diag.Printf("writeFile: %s", err.Error())
			return bytesWritten
		}
	}

	for n > 0 {
		blockIdx, err := v.bmap(fd, int(sess.seek))
		if err != nil {
			diag.Printf("writeFile: %s", err.Error())
			break
		}
		blockOffset := int(sess.seek) % BlockSize
		take := n
		if take > BlockSize-blockOffset {
			take = BlockSize - blockOffset
		}

		physical := int(v.super.FirstDataBlock) + blockIdx
		block, ioErr := v.dev.ReadBlock(physical)
		if ioErr != nil {
			diag.Printf("writeFile: %s", ioErr.Error())
			break
		}
		copy(block[blockOffset:blockOffset+take], buf[bytesWritten:bytesWritten+take])
		if ioErr := v.dev.WriteBlock(physical, block); ioErr != nil {
			diag.Printf("writeFile: %s", ioErr.Error())
			break
		}

		sess.seek += int32(take)
		in.Size += int32(take)
		n -= take
		bytesWritten += take

		if int(sess.seek)%BlockSize == 0 && n > 0 && in.Size == sess.seek {
			if _, err := v.addDataBlock(fd); err != nil {
				diag.Printf("writeFile: %s", err.Error())
				return bytesWritten
			}
		}
	}

	return bytesWritten
}

// LseekFile moves fd's seek pointer. SeekCur moves relative to the
// current position and fails if the result would fall outside [0, size];
// SeekEnd sets it to size; SeekBeginning resets it to 0.
//
// Error codes: -1 invalid descriptor, out-of-range result, or unknown
// whence; -2 not mounted.
func (v *Volume) LseekFile(fd int, offset int, whence int) int {
	if !v.mounted {
		diag.Printf("lseekFile: not mounted")
		return -2
	}
	if !v.validDescriptor(fd) {
		diag.Printf("lseekFile: descriptor %d is not valid", fd)
		return -1
	}
	fd = v.resolve(fd)

	sess := &v.sessions[fd]
	size := v.inodes[fd].Size

	switch whence {
	case SeekCur:
		newSeek := int(sess.seek) + offset
		if newSeek > int(size) || newSeek < 0 {
			diag.Printf("lseekFile: cannot move pointer outside the file's bounds")
			return -1
		}
		sess.seek = int32(newSeek)
	case SeekEnd:
		sess.seek = size
	case SeekBeginning:
		sess.seek = 0
	default:
		diag.Printf("lseekFile: whence %d is not valid", whence)
		return -1
	}
	return 0
}
