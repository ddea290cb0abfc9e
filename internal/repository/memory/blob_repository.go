package memory

import (
	"strings"

	"bizchat-be/internal/constant"

	"github.com/google/uuid"
	"github.com/patrickmn/go-cache"
)

// Blob is the raw content behind an uploaded file.
type Blob struct {
	SessionId   uuid.UUID
	Name        string
	ContentType string
	Data        []byte
}

// BlobRepository holds uploaded bytes for as long as their session lives.
// Blobs never expire on their own; the owning session releases them.
type BlobRepository struct {
	cache *cache.Cache
}

func NewBlobRepository() *BlobRepository {
	return &BlobRepository{cache: cache.New(cache.NoExpiration, 0)}
}

// Put stores data and returns its blob reference.
func (r *BlobRepository) Put(blob *Blob) string {
	ref := constant.BlobRefPrefix + uuid.NewString()
	r.cache.Set(ref, blob, cache.NoExpiration)
	return ref
}

func (r *BlobRepository) Get(ref string) (*Blob, bool) {
	if !strings.HasPrefix(ref, constant.BlobRefPrefix) {
		return nil, false
	}
	if x, found := r.cache.Get(ref); found {
		return x.(*Blob), true
	}
	return nil, false
}

func (r *BlobRepository) Release(refs ...string) {
	for _, ref := range refs {
		r.cache.Delete(ref)
	}
}

func (r *BlobRepository) Count() int {
	return r.cache.ItemCount()
}
