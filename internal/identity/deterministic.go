package identity

import (
	"strconv"
	"strings"
	"time"

	hashid "github.com/goliatone/hashid/pkg/hashid"
	"github.com/google/uuid"
)

// UUID derives a deterministic UUID from a stable key using go-hashid.
//
// Callers must prefix keys by entity kind so different kinds never collide.
func UUID(key string) uuid.UUID {
	trimmed := strings.TrimSpace(key)
	if trimmed == "" {
		return uuid.Nil
	}
	uid, err := hashid.NewUUID(trimmed, hashid.WithHashAlgorithm(hashid.SHA256), hashid.WithNormalization(true))
	if err != nil || uid == uuid.Nil {
		return uuid.NewSHA1(uuid.NameSpaceOID, []byte(trimmed))
	}
	return uid
}

// PageID identifies a page by its slug.
func PageID(slug string) string {
	return UUID("blocksite:page:" + strings.ToLower(strings.TrimSpace(slug))).String()
}

// BlockID identifies the block at position index on the page with slug.
// Reordering blocks changes their ids, which invalidates cached renders.
func BlockID(pageSlug string, index int, blockType string) string {
	return UUID("blocksite:block:" + strings.ToLower(strings.TrimSpace(pageSlug)) + ":" +
		strconv.Itoa(index) + ":" + strings.ToLower(strings.TrimSpace(blockType))).String()
}

// ManifestID identifies an export run by site name, checksum and time.
func ManifestID(siteName, checksum string, generatedAt time.Time) string {
	return UUID("blocksite:manifest:" + strings.TrimSpace(siteName) + ":" + strings.TrimSpace(checksum) + ":" +
		strconv.FormatInt(generatedAt.UTC().UnixNano(), 10)).String()
}
