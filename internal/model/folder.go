package model

import (
	"time"
)

type Folder struct {
	ID        string    `db:"id" json:"id"`
	UserID    string    `db:"user_id" json:"owner"`
	ParentID  *string   `db:"parent_id" json:"parentFolder"` // nil = root level
	Name      string    `db:"name" json:"name"`
	Path      string    `db:"path" json:"path"` // Ancestry of the folder, computed once at creation
	CreatedAt time.Time `db:"created_at" json:"createdAt"`
}
