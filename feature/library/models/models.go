package models

// Attachment is one media library item. The primary rendition lives at
// RelativePath under the library root. OriginalPath records the unscaled
// source file when the library keeps one alongside a web-optimized primary;
// it is empty when the primary is the original.
type Attachment struct {
	ID           int64  `gorm:"column:id;primaryKey"`
	RelativePath string `gorm:"column:relative_path"`
	OriginalPath string `gorm:"column:original_path"`
	MimeType     string `gorm:"column:mime_type"`
}

// TableName overrides the default table name.
func (Attachment) TableName() string {
	return "attachments"
}

// AttachmentVariant is a named derived rendition of an attachment (e.g. a
// thumbnail size). FileName is the basename within the attachment's
// directory. The library may register a variant descriptor before its file
// is materialized, in which case FileName is empty.
type AttachmentVariant struct {
	ID           int64  `gorm:"column:id;primaryKey"`
	AttachmentID int64  `gorm:"column:attachment_id;index"`
	Name         string `gorm:"column:name"`
	FileName     string `gorm:"column:file_name"`
}

// TableName overrides the default table name.
func (AttachmentVariant) TableName() string {
	return "attachment_variants"
}
