package dto

import "github.com/localloop/localloop-backend/internal/models"

type AddCommentRequest struct {
	Content  string `json:"content"`
	ParentID string `json:"parent_id,omitempty"`
}

type UpdateCommentRequest struct {
	Content string `json:"content"`
}

// CommentNode is a comment with its direct replies materialized.
type CommentNode struct {
	models.Comment
	Replies []*CommentNode `json:"replies"`
}

type ToggleLikeResponse struct {
	Success bool   `json:"success"`
	Action  string `json:"action"`
	Likes   int    `json:"new_count"`
}
