package entity

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

type UploadedFile struct {
	Id          uuid.UUID
	ThreadId    uuid.UUID
	Name        string
	SizeBytes   int64
	ContentType string
	UploadedBy  string
	UploadedAt  time.Time
	BlobRef     string
}

// HumanSize renders the size the way the file list shows it, e.g. "12.5 KB".
func (f *UploadedFile) HumanSize() string {
	return fmt.Sprintf("%.1f KB", float64(f.SizeBytes)/1024)
}
