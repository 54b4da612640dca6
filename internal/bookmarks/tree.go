// Package bookmarks provides pure lookup operations over a decoded bookmark tree.
package bookmarks

import "github.com/starford/raido/internal/models"

// UntitledPlaceholder is substituted for bookmarks without a title.
const UntitledPlaceholder = "Untitled"

// FindFolder returns the first container node titled name, in document
// order, or nil when no such folder exists. The match is exact and
// case-sensitive.
//
// The walk uses an explicit stack rather than recursion so arbitrarily deep
// trees cannot exhaust the call stack, and tracks visited nodes so a
// malformed (cyclic) tree still terminates.
func FindFolder(root *models.BookmarkNode, name string) *models.BookmarkNode {
	if root == nil {
		return nil
	}

	stack := []*models.BookmarkNode{root}
	visited := make(map[*models.BookmarkNode]struct{})

	for len(stack) > 0 {
		node := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		if _, ok := visited[node]; ok {
			continue
		}
		visited[node] = struct{}{}

		if node.Type == models.TypeContainer && node.Title == name {
			return node
		}

		// Push children in reverse so they pop in document order.
		for i := len(node.Children) - 1; i >= 0; i-- {
			stack = append(stack, &node.Children[i])
		}
	}

	return nil
}

// ExtractURLs returns one URLRecord per direct child of folder that is a
// place node carrying a URI, in child order. Subfolders are not recursed
// into. A nil or childless folder yields no records.
func ExtractURLs(folder *models.BookmarkNode) []models.URLRecord {
	if folder == nil || len(folder.Children) == 0 {
		return nil
	}

	var out []models.URLRecord
	for _, child := range folder.Children {
		if child.Type != models.TypePlace || child.URI == "" {
			continue
		}
		title := child.Title
		if title == "" {
			title = UntitledPlaceholder
		}
		out = append(out, models.URLRecord{URL: child.URI, Title: title})
	}
	return out
}
