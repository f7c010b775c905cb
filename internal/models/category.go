package models

import (
	"time"

	"github.com/google/uuid"
)

type Category struct {
	ID        uuid.UUID   `json:"id"`
	Name      string      `json:"name"`
	ParentID  *uuid.UUID  `json:"parentId"`
	CreatedAt time.Time   `json:"createdAt"`
	UpdatedAt time.Time   `json:"updatedAt"`
	Children  []*Category `json:"children,omitempty"`
}

type CreateCategoryRequest struct {
	Name     string     `json:"name" validate:"required,min=1,max=100"`
	ParentID *uuid.UUID `json:"parentId,omitempty"`
}

// UpdateCategoryRequest renames and/or moves a category. Setting DetachParent
// moves the category to the root; ParentID is ignored in that case.
type UpdateCategoryRequest struct {
	Name         *string    `json:"name,omitempty" validate:"omitempty,min=1,max=100"`
	ParentID     *uuid.UUID `json:"parentId,omitempty"`
	DetachParent bool       `json:"detachParent,omitempty"`
}

// BuildCategoryTree links a flat category list into root-level trees of any depth.
// Orphans whose parent is not in the list are treated as roots. Input order is kept
// among siblings.
func BuildCategoryTree(flat []*Category) []*Category {
	byID := make(map[uuid.UUID]*Category, len(flat))
	for _, c := range flat {
		c.Children = nil
		byID[c.ID] = c
	}

	roots := make([]*Category, 0)

	for _, c := range flat {
		if c.ParentID != nil {
			if parent, ok := byID[*c.ParentID]; ok && parent != c {
				parent.Children = append(parent.Children, c)
				continue
			}
		}

		roots = append(roots, c)
	}

	return roots
}
