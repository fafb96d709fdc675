package volume

import (
	"fmt"

	"github.com/hashicorp/go-multierror"
)

// Audit walks invariants P2-P5 of spec.md §8 and returns every
// violation it finds as a single *multierror.Error, rather than stopping at
// the first. It is read-only and safe to call at any time after Mount; it
// is not part of the numeric-code public API and no operation calls it
// automatically.
func (v *Volume) Audit() error {
	var result *multierror.Error

	seenBlocks := make(map[int]int) // data-block index -> owning inode

	for i := 0; i < NInodes; i++ {
		if !v.inodeAllocated(i) {
			continue
		}
		in := v.inodes[i]

		switch in.Type {
		case Regular:
			result = multierror.Append(result, v.auditRegularInode(i, in, seenBlocks)...)
		case SymLink:
			target := int(in.TargetInode)
			if target < 0 || target >= NInodes || !v.inodeAllocated(target) || v.inodes[target].Type != Regular {
				result = multierror.Append(result, fmt.Errorf(
					"P4: symlink inode %d (%q) targets inode %d, which is not an allocated regular inode",
					i, in.Name, in.TargetInode))
			}
		default:
			result = multierror.Append(result, fmt.Errorf("inode %d has unrecognized type %d", i, in.Type))
		}

		if v.sessions[i].open && v.sessions[i].openIntegrity {
			result = multierror.Append(result, fmt.Errorf(
				"P5: inode %d is open and open_integrity simultaneously", i))
		}
	}

	return result.ErrorOrNil()
}

func (v *Volume) auditRegularInode(i int, in Inode, seenBlocks map[int]int) []error {
	var errs []error

	if in.Size < 0 || in.Size > MaxFileSize {
		errs = append(errs, fmt.Errorf("P3: inode %d has out-of-range size %d", i, in.Size))
	}

	if in.Size > 0 && in.Direct == noBlock {
		errs = append(errs, fmt.Errorf("P3: inode %d has size %d but no direct block", i, in.Size))
	}

	lastLogical := 0
	if in.Size > 0 {
		lastLogical = int(in.Size-1) / BlockSize
	}
	for k := 1; k <= 4; k++ {
		slot := in.Indirect[k-1]
		shouldBeUsed := k <= lastLogical
		if shouldBeUsed && slot == noBlock {
			errs = append(errs, fmt.Errorf("P3: inode %d is missing indirect block %d", i, k))
		}
		if !shouldBeUsed && slot != noBlock {
			errs = append(errs, fmt.Errorf("P3: inode %d has a stray indirect block %d", i, k))
		}
	}

	for _, blk := range append([]int32{in.Direct}, in.Indirect[:]...) {
		if blk == noBlock {
			continue
		}
		if !bitmapGet(v.super.BlockBitmap, int(blk)) {
			errs = append(errs, fmt.Errorf(
				"P2: inode %d references data block %d, which is not marked allocated", i, blk))
		}
		if owner, ok := seenBlocks[int(blk)]; ok {
			errs = append(errs, fmt.Errorf(
				"P2: data block %d is referenced by both inode %d and inode %d", blk, owner, i))
		} else {
			seenBlocks[int(blk)] = i
		}
	}

	return errs
}
