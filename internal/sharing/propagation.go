package sharing

import (
	"fmt"
	"log/slog"

	"github.com/sharedrive/sharedrive/internal/db"
	"github.com/sharedrive/sharedrive/internal/resource"
	"github.com/sharedrive/sharedrive/internal/xerrors"
)

// Propagator keeps descendant shares consistent with ancestor shares. The
// copies it writes are materialized snapshots: once written they evolve
// independently until the next ancestor share or creation touches them.
type Propagator struct {
	logger *slog.Logger
}

func NewPropagator(logger *slog.Logger) *Propagator {
	return &Propagator{
		logger: logger,
	}
}

// OnResourceCreated copies the parent folder's shares onto a freshly created
// resource, so a resource born inside a shared folder is immediately visible
// to everyone the folder is shared with. Top level resources get nothing.
// Runs inside the creation transaction.
func (propagator Propagator) OnResourceCreated(tx *db.Client, ref resource.Ref, ownerID uint, parentID uint) error {
	if parentID == db.RootFolderID {
		return nil
	}

	parentShares, err := tx.Share().FindAllByResource(db.ResourceKindFolder, parentID)
	if err != nil {
		return fmt.Errorf("Share.FindAllByResource: %w", err)
	}
	for _, share := range parentShares {
		if share.GrantedToID == ownerID {
			// an owner never holds a share on their own resource
			continue
		}
		share.ResourceKind = ref.Kind
		share.ResourceID = ref.ID
		if _, err := tx.Share().Upsert(share); err != nil {
			return fmt.Errorf("Share.Upsert: %w", err)
		}
	}

	propagator.logger.Debug("copied parent shares to a new resource",
		"ref", ref,
		"parentID", parentID,
		"count", len(parentShares),
	)
	return nil
}

// PropagateGrant overwrites the share of one user on every resource below
// folder with the given flags. The walk is depth first over an explicit
// stack, bounded by the tree depth cap; hitting the cap means the stored
// tree is corrupt and aborts the transaction. Resources owned by the grantee
// are skipped but their subtrees are still visited.
func (propagator Propagator) PropagateGrant(
	tx *db.Client,
	folder resource.Folder,
	grantedByID uint,
	grantedToID uint,
	caps Capabilities,
) error {
	type frame struct {
		folder *resource.Folder
		depth  int
	}

	upserted := 0
	stack := []frame{{folder: &folder, depth: 0}}
	for len(stack) > 0 {
		current := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if current.depth > resource.MaxTreeDepth {
			return fmt.Errorf("%w: share propagation from folder %d exceeded depth %d",
				xerrors.ErrInconsistency, folder.ID, resource.MaxTreeDepth)
		}

		for _, file := range current.folder.ChildFiles {
			if file.OwnerID == grantedToID {
				continue
			}
			ref := resource.FileRef(file.ID)
			if _, err := tx.Share().Upsert(newShare(ref, grantedByID, grantedToID, caps)); err != nil {
				return fmt.Errorf("Share.Upsert: %w", err)
			}
			upserted++
		}
		for _, child := range current.folder.Children {
			if child.OwnerID != grantedToID {
				ref := resource.FolderRef(child.ID)
				if _, err := tx.Share().Upsert(newShare(ref, grantedByID, grantedToID, caps)); err != nil {
					return fmt.Errorf("Share.Upsert: %w", err)
				}
				upserted++
			}
			stack = append(stack, frame{folder: child, depth: current.depth + 1})
		}
	}

	propagator.logger.Debug("propagated a share to a subtree",
		"folderID", folder.ID,
		"grantedToID", grantedToID,
		"shares", upserted,
	)
	return nil
}
