// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package taxonomy rebuilds the category hierarchy from flat rows and guards
// reparenting against cycles. Everything here is pure: no I/O, no shared
// state, safe to call once per request.
package taxonomy

import (
	"github.com/google/uuid"

	"newsdesk/internal/models"
)

// PathSeparator joins ancestor names in Node.FullPath.
const PathSeparator = " → "

// Node is a category positioned in the tree.
type Node struct {
	models.Category
	Children []*Node `json:"children"`
	Level    int     `json:"level"`
	FullPath string  `json:"full_path"`
}

// BuildTree assembles a forest from a flat list of categories.
//
// A category is a root when it has no parent, when its parent is not in the
// list, or when it names itself as parent. If the rows contain a parent
// cycle, the cycle is cut at the first member reached while walking up from
// categories in input order, and that member becomes a root. No category is
// ever dropped; duplicate IDs keep their first occurrence. Children keep the
// relative order of the input.
func BuildTree(cats []models.Category) []*Node {
	order := make([]*Node, 0, len(cats))
	byID := make(map[uuid.UUID]*Node, len(cats))
	for _, c := range cats {
		if _, dup := byID[c.ID]; dup {
			continue
		}
		n := &Node{Category: c}
		byID[c.ID] = n
		order = append(order, n)
	}

	parent := make(map[uuid.UUID]*Node, len(order))
	for _, n := range order {
		if n.ParentID == nil || *n.ParentID == n.ID {
			continue
		}
		if p, ok := byID[*n.ParentID]; ok {
			parent[n.ID] = p
		}
	}
	breakCycles(order, parent)

	roots := []*Node{}
	for _, n := range order {
		if p, ok := parent[n.ID]; ok {
			p.Children = append(p.Children, n)
		} else {
			roots = append(roots, n)
		}
	}
	for _, r := range roots {
		place(r, 0, "")
	}
	return roots
}

// breakCycles removes parent links until every node reaches a root.
func breakCycles(order []*Node, parent map[uuid.UUID]*Node) {
	settled := make(map[uuid.UUID]bool, len(order))
	for _, start := range order {
		onPath := map[uuid.UUID]bool{}
		var path []uuid.UUID
		cur := start
		for cur != nil && !settled[cur.ID] {
			if onPath[cur.ID] {
				delete(parent, cur.ID)
				break
			}
			onPath[cur.ID] = true
			path = append(path, cur.ID)
			cur = parent[cur.ID]
		}
		for _, id := range path {
			settled[id] = true
		}
	}
}

// place sets Level and FullPath for n and its subtree.
func place(n *Node, level int, prefix string) {
	n.Level = level
	if prefix == "" {
		n.FullPath = n.Name
	} else {
		n.FullPath = prefix + PathSeparator + n.Name
	}
	if n.Children == nil {
		n.Children = []*Node{}
	}
	for _, c := range n.Children {
		place(c, level+1, n.FullPath)
	}
}

// Flatten walks a forest depth-first, parents before children. The result
// suits indented <select> option lists.
func Flatten(roots []*Node) []*Node {
	out := []*Node{}
	var walk func([]*Node)
	walk = func(nodes []*Node) {
		for _, n := range nodes {
			out = append(out, n)
			walk(n.Children)
		}
	}
	walk(roots)
	return out
}

// Count returns the number of nodes in a forest.
func Count(roots []*Node) int {
	return len(Flatten(roots))
}
