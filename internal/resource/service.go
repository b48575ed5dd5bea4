package resource

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"github.com/sharedrive/sharedrive/internal/db"
	"github.com/sharedrive/sharedrive/internal/xerrors"
)

//go:generate go run go.uber.org/mock/mockgen -source=service.go -destination=creation_hook_mock_test.go -package=resource

// CreationHook runs inside the creation transaction, after the new resource
// row exists. The sharing engine uses it to copy the parent folder's grants
// onto the new resource.
type CreationHook interface {
	OnResourceCreated(tx *db.Client, ref Ref, ownerID uint, parentID uint) error
}

type Service struct {
	logger   *slog.Logger
	dbClient *db.Client
	reader   *Reader
	hook     CreationHook

	// mutation serializes structural changes with grant propagation so a
	// concurrent move can never interleave with a propagating share.
	mutation *sync.Mutex
}

func NewService(
	logger *slog.Logger,
	dbClient *db.Client,
	reader *Reader,
	hook CreationHook,
	mutationLock *sync.Mutex,
) *Service {
	return &Service{
		logger:   logger,
		dbClient: dbClient,
		reader:   reader,
		hook:     hook,
		mutation: mutationLock,
	}
}

func (service *Service) CreateFolder(name string, ownerID uint, parentID uint) (Folder, error) {
	res, err := service.create(db.ResourceKindFolder, name, ownerID, parentID)
	if err != nil {
		return Folder{}, err
	}
	return Folder{
		ID:       res.ID,
		Name:     res.Name,
		OwnerID:  res.OwnerID,
		ParentID: res.ParentID,
	}, nil
}

func (service *Service) CreateFile(name string, ownerID uint, parentID uint) (File, error) {
	res, err := service.create(db.ResourceKindFile, name, ownerID, parentID)
	if err != nil {
		return File{}, err
	}
	return File{
		ID:       res.ID,
		Name:     res.Name,
		OwnerID:  res.OwnerID,
		ParentID: res.ParentID,
	}, nil
}

func (service *Service) create(kind db.ResourceKind, name string, ownerID uint, parentID uint) (db.Resource, error) {
	if strings.TrimSpace(name) == "" {
		return db.Resource{}, fmt.Errorf("%w: a resource requires a name", xerrors.ErrInvalidArgument)
	}
	if parentID != db.RootFolderID {
		if _, err := service.reader.ReadResource(FolderRef(parentID)); err != nil {
			return db.Resource{}, fmt.Errorf("reader.ReadResource: %w", err)
		}
	}

	service.mutation.Lock()
	defer service.mutation.Unlock()

	if err := service.checkUniqueName(kind, name, ownerID, parentID); err != nil {
		return db.Resource{}, err
	}
	if kind == db.ResourceKindFolder {
		if err := service.checkFolderDepth(1, parentID); err != nil {
			return db.Resource{}, err
		}
	}

	resource := db.Resource{
		Kind:     kind,
		Name:     name,
		OwnerID:  ownerID,
		ParentID: parentID,
	}
	err := service.dbClient.Transaction(func(tx *db.Client) error {
		if err := db.Create(tx, &resource); err != nil {
			return fmt.Errorf("db.Create: %w", err)
		}
		ref := Ref{Kind: kind, ID: resource.ID}
		if err := service.hook.OnResourceCreated(tx, ref, ownerID, parentID); err != nil {
			return fmt.Errorf("hook.OnResourceCreated: %w", err)
		}
		return nil
	})
	if err != nil {
		return db.Resource{}, err
	}
	return resource, nil
}

func (service *Service) Rename(ref Ref, newName string) (db.Resource, error) {
	if strings.TrimSpace(newName) == "" {
		return db.Resource{}, fmt.Errorf("%w: a resource requires a name", xerrors.ErrInvalidArgument)
	}

	res, err := service.reader.ReadResource(ref)
	if err != nil {
		return db.Resource{}, fmt.Errorf("reader.ReadResource: %w", err)
	}
	if res.Name == newName {
		return db.Resource{}, fmt.Errorf("%w: the name hasn't been changed: %s", xerrors.ErrInvalidArgument, newName)
	}

	service.mutation.Lock()
	defer service.mutation.Unlock()

	if err := service.checkUniqueName(ref.Kind, newName, res.OwnerID, res.ParentID); err != nil {
		return db.Resource{}, err
	}

	res.Name = newName
	if err := service.dbClient.Resource().Update(&res); err != nil {
		return db.Resource{}, fmt.Errorf("Resource.Update: %w", err)
	}
	return res, nil
}

// Move reparents a resource. A folder is rejected when the new parent sits
// inside its own subtree; detection walks up the candidate parent's ancestor
// chain and fails fast when it reaches the folder being moved.
func (service *Service) Move(ref Ref, newParentID uint) (db.Resource, error) {
	res, err := service.reader.ReadResource(ref)
	if err != nil {
		return db.Resource{}, fmt.Errorf("reader.ReadResource: %w", err)
	}
	if res.ParentID == newParentID {
		return res, nil
	}

	if newParentID != db.RootFolderID {
		if _, err := service.reader.ReadResource(FolderRef(newParentID)); err != nil {
			return db.Resource{}, fmt.Errorf("reader.ReadResource: %w", err)
		}
	}

	service.mutation.Lock()
	defer service.mutation.Unlock()

	if ref.IsFolder() {
		if err := service.checkNoCycle(ref.ID, newParentID); err != nil {
			return db.Resource{}, err
		}
		folder, err := service.reader.ReadFolder(ref.ID)
		if err != nil {
			return db.Resource{}, fmt.Errorf("reader.ReadFolder: %w", err)
		}
		if err := service.checkFolderDepth(folder.Height(), newParentID); err != nil {
			return db.Resource{}, err
		}
	}
	if err := service.checkUniqueName(ref.Kind, res.Name, res.OwnerID, newParentID); err != nil {
		return db.Resource{}, err
	}

	res.ParentID = newParentID
	if err := service.dbClient.Resource().Update(&res); err != nil {
		return db.Resource{}, fmt.Errorf("Resource.Update: %w", err)
	}
	return res, nil
}

// Delete removes a resource, its whole subtree for a folder, and every share
// of the removed resources, in one transaction.
func (service *Service) Delete(ref Ref) error {
	if _, err := service.reader.ReadResource(ref); err != nil {
		return fmt.Errorf("reader.ReadResource: %w", err)
	}

	service.mutation.Lock()
	defer service.mutation.Unlock()

	folderIDs := make([]uint, 0)
	fileIDs := make([]uint, 0)
	if ref.IsFolder() {
		folder, err := service.reader.ReadFolder(ref.ID)
		if err != nil {
			return fmt.Errorf("reader.ReadFolder: %w", err)
		}
		folderIDs = append(folderIDs, folder.ID)
		for _, descendant := range folder.Descendants() {
			folderIDs = append(folderIDs, descendant.ID)
		}
		for _, file := range folder.DescendantFiles() {
			fileIDs = append(fileIDs, file.ID)
		}
	} else {
		fileIDs = append(fileIDs, ref.ID)
	}

	return service.dbClient.Transaction(func(tx *db.Client) error {
		if err := tx.Resource().DeleteByKindAndIDs(db.ResourceKindFolder, folderIDs); err != nil {
			return fmt.Errorf("Resource.DeleteByKindAndIDs: %w", err)
		}
		if err := tx.Resource().DeleteByKindAndIDs(db.ResourceKindFile, fileIDs); err != nil {
			return fmt.Errorf("Resource.DeleteByKindAndIDs: %w", err)
		}
		if err := tx.Share().DeleteAllByResources(db.ResourceKindFolder, folderIDs); err != nil {
			return fmt.Errorf("Share.DeleteAllByResources: %w", err)
		}
		if err := tx.Share().DeleteAllByResources(db.ResourceKindFile, fileIDs); err != nil {
			return fmt.Errorf("Share.DeleteAllByResources: %w", err)
		}
		return nil
	})
}

func (service *Service) checkUniqueName(kind db.ResourceKind, name string, ownerID uint, parentID uint) error {
	count, err := service.dbClient.Resource().CountByName(kind, ownerID, parentID, name)
	if err != nil {
		return fmt.Errorf("Resource.CountByName: %w", err)
	}
	if count > 0 {
		return fmt.Errorf("%w: %s", ErrDuplicateName, name)
	}
	return nil
}

// checkFolderDepth rejects a write that would nest folders beyond the tree
// depth cap, so valid requests can never push the stored tree past it.
// height is the number of folder levels being placed under newParentID.
func (service *Service) checkFolderDepth(height int, newParentID uint) error {
	if newParentID == db.RootFolderID {
		return nil
	}
	parentDepth, err := service.ancestorDepth(newParentID)
	if err != nil {
		return err
	}
	if parentDepth+height > MaxTreeDepth {
		return fmt.Errorf("%w: this location already sits %d levels deep", ErrTooDeep, parentDepth)
	}
	return nil
}

// ancestorDepth counts the folder levels from folderID up to the root,
// folderID itself included.
func (service *Service) ancestorDepth(folderID uint) (int, error) {
	depth := 0
	for current := folderID; current != db.RootFolderID; {
		depth++
		if depth > MaxTreeDepth {
			return 0, fmt.Errorf("%w: ancestor chain of folder %d is deeper than %d", xerrors.ErrInconsistency, folderID, MaxTreeDepth)
		}
		parent, err := service.dbClient.Resource().FindByKindAndID(db.ResourceKindFolder, current)
		if errors.Is(err, db.ErrRecordNotFound) {
			return 0, fmt.Errorf("%w: %d", ErrFolderNotFound, current)
		}
		if err != nil {
			return 0, fmt.Errorf("Resource.FindByKindAndID: %w", err)
		}
		current = parent.ParentID
	}
	return depth, nil
}

func (service *Service) checkNoCycle(folderID uint, newParentID uint) error {
	current := newParentID
	for depth := 0; current != db.RootFolderID; depth++ {
		if depth > MaxTreeDepth {
			return fmt.Errorf("%w: ancestor chain of folder %d is deeper than %d", xerrors.ErrInconsistency, newParentID, MaxTreeDepth)
		}
		if current == folderID {
			return fmt.Errorf("%w: folder %d", ErrCycle, folderID)
		}
		parent, err := service.dbClient.Resource().FindByKindAndID(db.ResourceKindFolder, current)
		if errors.Is(err, db.ErrRecordNotFound) {
			return fmt.Errorf("%w: %d", ErrFolderNotFound, current)
		}
		if err != nil {
			return fmt.Errorf("Resource.FindByKindAndID: %w", err)
		}
		current = parent.ParentID
	}
	return nil
}
