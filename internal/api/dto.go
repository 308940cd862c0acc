package api

import (
	"github.com/starford/sowilo/internal/index"
	"github.com/starford/sowilo/internal/postservice"
)

// PostDetail is the full post response type (aliased from the domain layer).
type PostDetail = postservice.PostDetail

// PostListItem is a lightweight item in a list response.
type PostListItem = postservice.PostListItem

// PostListResponse wraps paginated post listings.
type PostListResponse struct {
	Posts []PostListItem `json:"posts" validate:"required"`
	Total int            `json:"total" example:"42" validate:"required"`
}

// SearchResponse wraps search results.
type SearchResponse struct {
	Results []index.SearchResult `json:"results" validate:"required"`
}

// TagsResponse wraps tag counts.
type TagsResponse struct {
	Tags []index.TagCount `json:"tags" validate:"required"`
}

// BacklinksResponse lists the posts linking to one post.
type BacklinksResponse struct {
	Slug      string   `json:"slug" example:"hello-world" validate:"required"`
	Backlinks []string `json:"backlinks" validate:"required"`
}
