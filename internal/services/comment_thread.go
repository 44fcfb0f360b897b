package services

import (
	"sort"

	"github.com/localloop/localloop-backend/internal/dto"
	"github.com/localloop/localloop-backend/internal/models"
)

// BuildThread groups a flat comment list into top-level nodes with their
// replies attached. Replies whose parent is missing from the input are
// dropped. The input order is preserved within each level, so callers control
// reply ordering by pre-sorting the flat list.
func BuildThread(comments []models.Comment) []*dto.CommentNode {
	nodes := make(map[string]*dto.CommentNode, len(comments))
	for i := range comments {
		nodes[comments[i].ID.String()] = &dto.CommentNode{Comment: comments[i]}
	}

	roots := make([]*dto.CommentNode, 0, len(comments))
	for i := range comments {
		node := nodes[comments[i].ID.String()]
		if comments[i].ParentID == nil {
			roots = append(roots, node)
			continue
		}
		parent, ok := nodes[comments[i].ParentID.String()]
		if !ok {
			continue
		}
		parent.Replies = append(parent.Replies, node)
	}
	return roots
}

// SortComments orders a flat comment list for threading. "top" sorts by like
// count with newest first among ties; anything else sorts newest first.
func SortComments(comments []models.Comment, sortBy string) {
	if sortBy == "top" {
		sort.SliceStable(comments, func(i, j int) bool {
			if comments[i].Likes != comments[j].Likes {
				return comments[i].Likes > comments[j].Likes
			}
			return comments[i].CreatedAt.After(comments[j].CreatedAt)
		})
		return
	}
	sort.SliceStable(comments, func(i, j int) bool {
		return comments[i].CreatedAt.After(comments[j].CreatedAt)
	})
}
