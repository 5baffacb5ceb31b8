package model

import (
	"time"
)

type Image struct {
	ID           string    `db:"id" json:"id"`
	UserID       string    `db:"user_id" json:"owner"`
	FolderID     *string   `db:"folder_id" json:"folder"` // nil = user's root
	Name         string    `db:"name" json:"name"`
	NameFolded   string    `db:"name_folded" json:"-"` // Case-folded name for search
	StorageKey   string    `db:"storage_key" json:"filename"`
	OriginalName string    `db:"original_name" json:"originalName"`
	MimeType     string    `db:"mime_type" json:"mimetype"`
	Size         int64     `db:"size" json:"size"`
	CreatedAt    time.Time `db:"created_at" json:"createdAt"`

	// Joined from folders on listing
	FolderName *string `db:"folder_name" json:"folderName,omitempty"`

	// Computed fields (not in database)
	URL string `db:"-" json:"url"`
}

// Payload describes an already stored binary that an Image record will reference.
type Payload struct {
	StorageKey   string
	OriginalName string
	MimeType     string
	Size         int64
}
