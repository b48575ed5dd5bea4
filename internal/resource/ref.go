package resource

import (
	"github.com/sharedrive/sharedrive/internal/db"
)

// Ref addresses a folder or a file uniformly. Everything that must treat the
// two kinds the same way (share records, permission checks, propagation)
// goes through a Ref instead of inspecting concrete types.
type Ref struct {
	Kind db.ResourceKind `json:"kind"`
	ID   uint            `json:"id"`
}

func FolderRef(id uint) Ref {
	return Ref{Kind: db.ResourceKindFolder, ID: id}
}

func FileRef(id uint) Ref {
	return Ref{Kind: db.ResourceKindFile, ID: id}
}

func (ref Ref) IsFolder() bool {
	return ref.Kind == db.ResourceKindFolder
}
