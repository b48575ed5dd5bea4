package resource

import (
	"errors"
	"fmt"
	"sort"

	"github.com/sharedrive/sharedrive/internal/xerrors"
)

var (
	ErrFolderNotFound = fmt.Errorf("%w: folder not found", xerrors.ErrNotFound)
	ErrFileNotFound   = fmt.Errorf("%w: file not found", xerrors.ErrNotFound)
	ErrDuplicateName  = fmt.Errorf("%w: a resource with the same name already exists in this location", xerrors.ErrInvalidArgument)
	ErrCycle          = fmt.Errorf("%w: a folder cannot become its own descendant", xerrors.ErrInvalidArgument)
	ErrTooDeep        = fmt.Errorf("%w: folders cannot nest deeper than %d levels", xerrors.ErrInvalidArgument, MaxTreeDepth)
)

// MaxTreeDepth caps every containment walk. The graph forbids cycles, so the
// cap is never reached in correct operation; exceeding it means the stored
// tree is corrupt.
const MaxTreeDepth = 128

type Folder struct {
	ID         uint      `json:"id"`
	Name       string    `json:"name"`
	OwnerID    uint      `json:"ownerId"`
	ParentID   uint      `json:"parentId"`
	Children   []*Folder `json:"children,omitempty"`
	ChildFiles []*File   `json:"childFiles,omitempty"`
}

type File struct {
	ID       uint   `json:"id"`
	Name     string `json:"name"`
	OwnerID  uint   `json:"ownerId"`
	ParentID uint   `json:"parentId"`
}

func (folder Folder) FindChildByID(id uint) Folder {
	for _, child := range folder.Children {
		if child.ID == id {
			return *child
		}
		result := child.FindChildByID(id)
		if result.ID != 0 {
			return result
		}
	}
	return Folder{}
}

func (folder Folder) findAncestors(id uint) []Folder {
	for _, child := range folder.Children {
		if child.ID == id {
			return []Folder{folder}
		}

		ancestors := child.findAncestors(id)
		if len(ancestors) > 0 {
			return append([]Folder{folder}, ancestors...)
		}
	}
	for _, child := range folder.ChildFiles {
		if child.ID == id {
			return []Folder{folder}
		}
	}
	return nil
}

// Height counts the folder levels of this subtree, the folder itself
// included. Files add no level.
func (folder Folder) Height() int {
	height := 1
	for _, child := range folder.Children {
		if h := child.Height() + 1; h > height {
			height = h
		}
	}
	return height
}

// Descendants returns every folder below this one, depth first.
func (folder Folder) Descendants() []Folder {
	result := make([]Folder, 0)
	for _, child := range folder.Children {
		result = append(result, *child)
		result = append(result, child.Descendants()...)
	}
	return result
}

// DescendantFiles returns every file in this folder and below it.
func (folder Folder) DescendantFiles() []File {
	result := make([]File, 0)
	for _, child := range folder.ChildFiles {
		result = append(result, *child)
	}
	for _, child := range folder.Children {
		result = append(result, child.DescendantFiles()...)
	}
	return result
}

func createFolderTree(
	folderMap map[uint]*Folder,
	childFolderMap map[uint][]*Folder,
	childFileMap map[uint][]*File,
	folderID uint,
	depth int,
) (*Folder, error) {
	if depth > MaxTreeDepth {
		return nil, fmt.Errorf("%w: folder tree deeper than %d at folder %d", xerrors.ErrInconsistency, MaxTreeDepth, folderID)
	}

	currentFolder := folderMap[folderID]
	if files, ok := childFileMap[folderID]; ok {
		currentFolder.ChildFiles = files
		sort.Slice(currentFolder.ChildFiles, func(i, j int) bool {
			return currentFolder.ChildFiles[i].Name < currentFolder.ChildFiles[j].Name
		})
	}

	children, ok := childFolderMap[folderID]
	if !ok {
		return currentFolder, nil
	}
	currentFolder.Children = make([]*Folder, len(children))
	errs := make([]error, 0)
	for i, child := range children {
		var err error
		currentFolder.Children[i], err = createFolderTree(
			folderMap,
			childFolderMap,
			childFileMap,
			child.ID,
			depth+1,
		)
		if err != nil {
			errs = append(errs, err)
		}
	}
	if len(errs) > 0 {
		return nil, errors.Join(errs...)
	}
	sort.Slice(currentFolder.Children, func(i, j int) bool {
		return currentFolder.Children[i].Name < currentFolder.Children[j].Name
	})
	return currentFolder, nil
}
