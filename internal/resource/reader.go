package resource

import (
	"errors"
	"fmt"

	"github.com/sharedrive/sharedrive/internal/db"
	"github.com/sharedrive/sharedrive/internal/xerrors"
)

// kindAccessors dispatches a Ref to the accessor for its concrete kind.
var kindAccessors = map[db.ResourceKind]func(*db.Client, uint) (db.Resource, error){
	db.ResourceKindFolder: func(client *db.Client, id uint) (db.Resource, error) {
		res, err := client.Resource().FindByKindAndID(db.ResourceKindFolder, id)
		if errors.Is(err, db.ErrRecordNotFound) {
			return db.Resource{}, fmt.Errorf("%w: %d", ErrFolderNotFound, id)
		}
		return res, err
	},
	db.ResourceKindFile: func(client *db.Client, id uint) (db.Resource, error) {
		res, err := client.Resource().FindByKindAndID(db.ResourceKindFile, id)
		if errors.Is(err, db.ErrRecordNotFound) {
			return db.Resource{}, fmt.Errorf("%w: %d", ErrFileNotFound, id)
		}
		return res, err
	},
}

type Reader struct {
	dbClient *db.Client
}

func NewReader(dbClient *db.Client) *Reader {
	return &Reader{
		dbClient: dbClient,
	}
}

// ReadResource loads the row a ref points at, or a not-found error matching
// the ref's kind.
func (reader Reader) ReadResource(ref Ref) (db.Resource, error) {
	accessor, ok := kindAccessors[ref.Kind]
	if !ok {
		return db.Resource{}, fmt.Errorf("%w: unknown resource kind %q", xerrors.ErrInvalidArgument, ref.Kind)
	}
	return accessor(reader.dbClient, ref.ID)
}

// ReadTree builds the whole containment tree from the flat resource rows.
// The returned folder is a synthetic root with ID 0 holding every top level
// resource of every owner.
func (reader Reader) ReadTree() (Folder, error) {
	// todo: cache the tree across the reads of a single request
	allResources, err := db.GetAll[db.Resource](reader.dbClient)
	if err != nil {
		return Folder{}, fmt.Errorf("db.GetAll: %w", err)
	}

	childFolderMap := make(map[uint][]*Folder)
	childFileMap := make(map[uint][]*File)
	folderMap := make(map[uint]*Folder)
	folderMap[db.RootFolderID] = &Folder{
		ID: db.RootFolderID,
	}
	folderCount := 0
	fileCount := 0
	for _, res := range allResources {
		switch res.Kind {
		case db.ResourceKindFolder:
			folderCount++
			folderMap[res.ID] = &Folder{
				ID:       res.ID,
				Name:     res.Name,
				OwnerID:  res.OwnerID,
				ParentID: res.ParentID,
			}
			childFolderMap[res.ParentID] = append(childFolderMap[res.ParentID], folderMap[res.ID])
		case db.ResourceKindFile:
			fileCount++
			childFileMap[res.ParentID] = append(childFileMap[res.ParentID], &File{
				ID:       res.ID,
				Name:     res.Name,
				OwnerID:  res.OwnerID,
				ParentID: res.ParentID,
			})
		}
	}

	root, err := createFolderTree(folderMap, childFolderMap, childFileMap, db.RootFolderID, 0)
	if err != nil {
		return Folder{}, fmt.Errorf("createFolderTree: %w", err)
	}

	// every row must be reachable from the root. An unreachable resource
	// means a parent cycle or a dangling parent in the stored rows.
	reached := len(root.Descendants()) + len(root.DescendantFiles())
	if unreachable := folderCount + fileCount - reached; unreachable > 0 {
		return Folder{}, fmt.Errorf("%w: %d resources are unreachable from the root",
			xerrors.ErrInconsistency, unreachable)
	}
	return *root, nil
}

// ReadFolder returns the subtree rooted at folderID, or the whole tree for
// the root ID.
func (reader Reader) ReadFolder(folderID uint) (Folder, error) {
	tree, err := reader.ReadTree()
	if err != nil {
		return Folder{}, fmt.Errorf("reader.ReadTree: %w", err)
	}
	if folderID == db.RootFolderID {
		return tree, nil
	}
	folder := tree.FindChildByID(folderID)
	if folder.ID == 0 {
		return Folder{}, fmt.Errorf("%w: %d", ErrFolderNotFound, folderID)
	}
	return folder, nil
}

// ReadOwnedResources returns every resource a user owns, for personal
// listings.
func (reader Reader) ReadOwnedResources(ownerID uint) ([]db.Resource, error) {
	resources, err := reader.dbClient.Resource().FindAllByOwnerID(ownerID)
	if err != nil {
		return nil, fmt.Errorf("Resource.FindAllByOwnerID: %w", err)
	}
	return resources, nil
}

// ReadAncestors reads the ancestor folders of the given resource IDs, closest
// ancestor last. Top level resources have no ancestors and are omitted.
func (reader Reader) ReadAncestors(ids []uint) (map[uint][]Folder, error) {
	tree, err := reader.ReadTree()
	if err != nil {
		return nil, fmt.Errorf("reader.ReadTree: %w", err)
	}

	result := make(map[uint][]Folder, 0)
	for _, id := range ids {
		ancestors := tree.findAncestors(id)
		if len(ancestors) <= 1 {
			// only the synthetic root is above a top level resource
			continue
		}
		result[id] = ancestors[1:]
	}
	return result, nil
}
