package model

import (
	"strings"
	"time"
)

// ThumbnailTransformation is the resize segment inserted into image URLs.
const ThumbnailTransformation = "w_300,h_300,c_fill"

// ResourceImage marks storage objects that can be resized on the fly.
const ResourceImage = "image"

// StorageHandle points at the uploaded bytes in object storage.
// It is written once on upload and kept after a soft delete.
type StorageHandle struct {
	ProviderID   string `json:"provider_id"`
	URL          string `json:"url"`
	SecureURL    string `json:"secure_url"`
	Format       string `json:"format"`
	ResourceType string `json:"resource_type"`
	Bytes        int64  `json:"bytes"`
}

// Lifecycle is the soft-delete state of a file.
type Lifecycle int

const (
	LifecycleActive Lifecycle = iota
	LifecycleDeleted
)

func (l Lifecycle) String() string {
	if l == LifecycleDeleted {
		return "deleted"
	}
	return "active"
}

// File is the metadata of a document uploaded by a patient or a doctor.
type File struct {
	ID          string        `json:"id"`
	Owner       OwnerRef      `json:"owner"`
	Storage     StorageHandle `json:"storage"`
	Filename    string        `json:"filename"`
	MimeType    string        `json:"mime_type"`
	Size        int64         `json:"size"`
	Description string        `json:"description"`
	Category    Category      `json:"category"`
	CreatedAt   time.Time     `json:"created_at"`
	UpdatedAt   time.Time     `json:"updated_at"`
	UploadedAt  time.Time     `json:"uploaded_at"`
	DeletedAt   *time.Time    `json:"deleted_at,omitempty"`
}

// Lifecycle reports whether the file has been soft-deleted.
func (f *File) Lifecycle() Lifecycle {
	if f.DeletedAt != nil {
		return LifecycleDeleted
	}
	return LifecycleActive
}

// MarkDeleted stamps the soft-delete time. Calling it again moves the stamp forward.
func (f *File) MarkDeleted(at time.Time) {
	f.DeletedAt = &at
	f.UpdatedAt = at
}

// Thumbnail returns a 300x300 cropped variant of the secure URL for image resources.
// Non-image resources have no thumbnail.
func (f *File) Thumbnail() (string, bool) {
	if f.Storage.ResourceType != ResourceImage || f.Storage.SecureURL == "" {
		return "", false
	}
	return thumbnailURL(f.Storage.SecureURL), true
}

// ThumbnailKey is the object key the thumbnail of key is stored under, so that the
// object URL of the result equals the Thumbnail URL of the original.
func ThumbnailKey(key string) string {
	return strings.TrimPrefix(thumbnailURL("/"+key), "/")
}

// thumbnailURL inserts the transformation right after the "/upload/" segment.
// URLs without that segment get it before their last path element.
func thumbnailURL(u string) string {
	const marker = "/upload/"
	if i := strings.Index(u, marker); i >= 0 {
		at := i + len(marker)
		return u[:at] + ThumbnailTransformation + "/" + u[at:]
	}
	i := strings.LastIndex(u, "/")
	if i < 0 {
		return u
	}
	return u[:i+1] + ThumbnailTransformation + "/" + u[i+1:]
}
