package feedback

import "github.com/uptrace/bun"

type Feedback struct {
	bun.BaseModel `bun:"table:feedback,alias:f"`

	ID       int64  `bun:"id,pk,autoincrement" json:"id"`
	Title    string `bun:"title,notnull,type:varchar(100)" json:"title"`
	Content  string `bun:"content,notnull" json:"content"`
	Username string `bun:"username,notnull,type:varchar(20)" json:"username"`
}

// CreateRequest is the request body for creating feedback. The owner comes
// from the URL, never from the body.
type CreateRequest struct {
	Title   string `json:"title" validate:"required,max=100"`
	Content string `json:"content" validate:"required"`
}

// UpdateRequest is the request body for updating feedback in place.
type UpdateRequest struct {
	Title   string `json:"title" validate:"required,max=100"`
	Content string `json:"content" validate:"required"`
}
