package volume

// CreateLn creates a symbolic link named link pointing at the existing
// regular file named file. Links to links are rejected outright, which by
// construction rules out cycles: the reachability graph through symbolic
// links is always a star, one target with any number of links.
//
// Error codes: -1 target file does not exist, -2 any other error (not
// mounted, name already in use, target is itself a link).
func (v *Volume) CreateLn(file, link string) int {
	if err := v.requireMounted(); err != nil {
		diag.Printf("createLn: %s", err.Error())
		return -2
	}
	if v.namei(link) >= 0 {
		diag.Printf("createLn: %q is already in use", link)
		return -2
	}
	fileID := v.namei(file)
	if fileID < 0 {
		diag.Printf("createLn: %q does not exist", file)
		return -1
	}
	if v.inodes[fileID].Type == SymLink {
		diag.Printf("createLn: %q is itself a symbolic link", file)
		return -2
	}

	linkID, err := v.ialloc()
	if err != nil {
		diag.Printf("createLn: %s", err.Error())
		return -2
	}

	v.inodes[linkID] = Inode{
		Type:        SymLink,
		Name:        link,
		TargetInode: int32(fileID),
	}
	v.sessions[linkID] = session{}
	return 0
}

// RemoveLn deletes an existing symbolic link.
//
// Error codes: -1 not found, -2 any other error (not mounted, name
// corresponds to a regular file).
func (v *Volume) RemoveLn(link string) int {
	if err := v.requireMounted(); err != nil {
		diag.Printf("removeLn: %s", err.Error())
		return -2
	}
	id := v.namei(link)
	if id < 0 {
		diag.Printf("removeLn: %q does not exist", link)
		return -1
	}
	if v.inodes[id].Type != SymLink {
		diag.Printf("removeLn: %q is not a symbolic link", link)
		return -2
	}
	if err := v.ifree(id); err != nil {
		diag.Printf("removeLn: %s", err.Error())
		return -2
	}
	return 0
}

// removeLinks scans every allocated inode and frees every symbolic link
// whose target is the given (regular) inode id. Called by RemoveFile to
// cascade deletion; O(NInodes), acceptable at this scale (spec.md §9).
func (v *Volume) removeLinks(target int) {
	for i := 0; i < NInodes; i++ {
		if v.inodeAllocated(i) && v.inodes[i].Type == SymLink && int(v.inodes[i].TargetInode) == target {
			v.ifree(i)
		}
	}
}
