package store

import (
	"context"
	"errors"
)

// folderLookup returns the parent id of an active folder or
// [ErrItemNotFound].
type folderLookup func(ctx context.Context, userID int64, folderID string) (parentID *string, err error)

// folderGuard enforces folder placement rules shared by every backend.
type folderGuard struct {
	maxDepth int
	lookup   folderLookup
}

// checkPlacement verifies that a credential or a note may live in folderID.
func (g folderGuard) checkPlacement(ctx context.Context, userID int64, folderID *string) error {
	if folderID == nil {
		return nil
	}

	if _, err := g.lookup(ctx, userID, *folderID); err != nil {
		if errors.Is(err, ErrItemNotFound) {
			return ErrFolderNotFound
		}
		return err
	}

	return nil
}

// checkParent walks the ancestor chain of folderID starting at parentID. A
// top-level folder has depth 1.
func (g folderGuard) checkParent(ctx context.Context, userID int64, folderID string, parentID *string) error {
	if parentID == nil {
		return nil
	}

	depth := 1
	current := *parentID
	for {
		if current == folderID {
			return ErrFolderCycle
		}

		parent, err := g.lookup(ctx, userID, current)
		if err != nil {
			if errors.Is(err, ErrItemNotFound) {
				return ErrFolderNotFound
			}
			return err
		}

		depth++
		if depth > g.maxDepth {
			return ErrFolderDepthExceeded
		}

		if parent == nil {
			return nil
		}
		current = *parent
	}
}
