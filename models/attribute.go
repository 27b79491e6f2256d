// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package models

// AttributeKind selects one of the two user-owned vocabularies a recipe can
// be labelled with.
type AttributeKind int

const (
	// KindTag is a free-form label such as "Dinner" or "Vegan".
	KindTag AttributeKind = iota + 1

	// KindIngredient is an ingredient name such as "Salt".
	KindIngredient
)

// String returns the singular resource name of the kind.
func (k AttributeKind) String() string {
	switch k {
	case KindTag:
		return "tag"
	case KindIngredient:
		return "ingredient"
	default:
		return "unknown"
	}
}

// Attribute is a tag or an ingredient. Names are unique per owner, not
// globally. The id is assigned by the database and cannot be changed.
type Attribute struct {
	ID     int64         `json:"id"`
	Name   string        `json:"name"`
	UserID int64         `json:"-"`
	Kind   AttributeKind `json:"-"`
}

// AttributeInput names a tag or ingredient in a write request.
type AttributeInput struct {
	Name string `json:"name" validate:"required,notblank,max=255"`
}

// AttributeUpdate is the payload of tag and ingredient update requests.
// Name is nil when the key is absent.
type AttributeUpdate struct {
	Name *string `json:"name" validate:"omitnil,notblank,max=255"`
}

// AttributeFilter narrows a tag or ingredient listing.
type AttributeFilter struct {
	Kind   AttributeKind
	UserID int64

	// AssignedOnly keeps only rows linked to at least one recipe.
	AssignedOnly bool
}
