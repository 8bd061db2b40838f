package model

// LinkEdge is a directed hyperlink from one article to another.
// At most one edge exists per ordered pair; inserting a duplicate is a no-op.
type LinkEdge struct {
	// FromID is the id of the article whose page contains the link.
	FromID int64 `json:"from_id"`

	// ToID is the id of the linked article.
	ToID int64 `json:"to_id"`
}
