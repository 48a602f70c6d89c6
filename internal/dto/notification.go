package dto

// CreateNotificationRequest holds the text fields of an NGO post.
type CreateNotificationRequest struct {
	Title   string `form:"title" json:"title"`
	Content string `form:"content" json:"content"`
}

// Attachment is an uploaded file read into memory.
type Attachment struct {
	Name string
	Size int64
	Data []byte
}
