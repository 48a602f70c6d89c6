package models

import "time"

// Notification is an announcement posted by an NGO.
type Notification struct {
	ID        string    `db:"id" json:"id"`
	NGOID     string    `db:"ngo_id" json:"ngo_id"`
	Title     string    `db:"title" json:"title"`
	Content   string    `db:"content" json:"content"`
	FileURL   *string   `db:"file_url" json:"file_url,omitempty"`
	FileName  *string   `db:"file_name" json:"file_name,omitempty"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}
