// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package taxonomy

import (
	"github.com/google/uuid"

	"newsdesk/internal/apperr"
	"newsdesk/internal/models"
)

// Guard messages returned by ReparentError.
const (
	MsgSelfParent = "category cannot be its own parent"
	MsgCycle      = "cannot create a cycle: parent is a descendant of this category"
)

// Descendants returns the IDs reachable from id by following child links,
// excluding id itself. Terminates on cyclic input.
func Descendants(id uuid.UUID, cats []models.Category) map[uuid.UUID]struct{} {
	children := make(map[uuid.UUID][]uuid.UUID)
	for _, c := range cats {
		if c.ParentID != nil && *c.ParentID != c.ID {
			children[*c.ParentID] = append(children[*c.ParentID], c.ID)
		}
	}

	seen := map[uuid.UUID]struct{}{}
	queue := []uuid.UUID{id}
	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		for _, child := range children[cur] {
			if child == id {
				continue
			}
			if _, ok := seen[child]; ok {
				continue
			}
			seen[child] = struct{}{}
			queue = append(queue, child)
		}
	}
	return seen
}

// CanReparent reports whether category id may take proposed as its parent.
// A nil proposal detaches the category to the root and is always allowed.
func CanReparent(id uuid.UUID, proposed *uuid.UUID, cats []models.Category) bool {
	return ReparentError(id, proposed, cats) == nil
}

// ReparentError is CanReparent with the reason for a refusal.
func ReparentError(id uuid.UUID, proposed *uuid.UUID, cats []models.Category) error {
	if proposed == nil {
		return nil
	}
	if *proposed == id {
		return apperr.Validation(MsgSelfParent)
	}
	if _, ok := Descendants(id, cats)[*proposed]; ok {
		return apperr.Validation(MsgCycle)
	}
	return nil
}

// AvailableParents lists the categories that id may be moved under, in
// display order: everything except id and its descendants. A nil id (a
// category still being created) may go anywhere.
func AvailableParents(id *uuid.UUID, cats []models.Category) []*Node {
	all := Flatten(BuildTree(cats))
	if id == nil {
		return all
	}

	excluded := Descendants(*id, cats)
	out := make([]*Node, 0, len(all))
	for _, n := range all {
		if n.ID == *id {
			continue
		}
		if _, ok := excluded[n.ID]; ok {
			continue
		}
		out = append(out, n)
	}
	return out
}
