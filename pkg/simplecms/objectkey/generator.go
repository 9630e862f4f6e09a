package objectkey

import (
	"crypto/sha256"
	"fmt"
	"path"
	"strings"

	"github.com/google/uuid"
)

// Generator defines the interface for object key generation strategies
type Generator interface {
	// GenerateKey creates an object key for an uploaded image
	GenerateKey(objectID uuid.UUID, metadata *KeyMetadata) string
}

// KeyMetadata contains information that influences key generation
type KeyMetadata struct {
	// Folder is the logical namespace, e.g. "blog-images"
	Folder      string
	FileName    string
	ContentType string
}

// FolderGenerator provides Git-style sharded keys inside a folder
// Structure: {folder}/ab/cd1234ef5678_filename
type FolderGenerator struct {
	// ShardLength controls how many characters to use for sharding (default: 2)
	ShardLength int
}

func NewFolderGenerator() *FolderGenerator {
	return &FolderGenerator{
		ShardLength: 2,
	}
}

func (g *FolderGenerator) GenerateKey(objectID uuid.UUID, metadata *KeyMetadata) string {
	objectIDStr := strings.ReplaceAll(objectID.String(), "-", "")
	return shardedKey(objectIDStr, g.ShardLength, metadata)
}

// HashedGenerator derives the shard from a SHA-256 of the object ID, which
// spreads keys evenly even for time-ordered IDs
type HashedGenerator struct {
	ShardLength int
}

func NewHashedGenerator() *HashedGenerator {
	return &HashedGenerator{
		ShardLength: 2,
	}
}

func (g *HashedGenerator) GenerateKey(objectID uuid.UUID, metadata *KeyMetadata) string {
	hash := sha256.Sum256([]byte(objectID.String()))
	hashStr := fmt.Sprintf("%x", hash)[:16+g.shardLength()]
	return shardedKey(hashStr, g.ShardLength, metadata)
}

func (g *HashedGenerator) shardLength() int {
	if g.ShardLength <= 0 {
		return 2
	}
	return g.ShardLength
}

// FuncGenerator allows callers to provide their own key generation function
type FuncGenerator func(objectID uuid.UUID, metadata *KeyMetadata) string

func (f FuncGenerator) GenerateKey(objectID uuid.UUID, metadata *KeyMetadata) string {
	return f(objectID, metadata)
}

func shardedKey(id string, shardLength int, metadata *KeyMetadata) string {
	if shardLength <= 0 {
		shardLength = 2
	}
	if len(id) < shardLength {
		shardLength = len(id)
	}

	shardDir := id[:shardLength]
	filename := id[shardLength:]
	if metadata != nil && metadata.FileName != "" {
		filename = fmt.Sprintf("%s_%s", filename, sanitizeFilename(path.Base(metadata.FileName)))
	}

	folder := "uploads"
	if metadata != nil && metadata.Folder != "" {
		folder = sanitizeFolder(metadata.Folder)
	}

	return fmt.Sprintf("%s/%s/%s", folder, shardDir, filename)
}

var filenameReplacer = strings.NewReplacer(
	"/", "_",
	"\\", "_",
	":", "_",
	"*", "_",
	"?", "_",
	"\"", "_",
	"<", "_",
	">", "_",
	"|", "_",
	" ", "_",
	"#", "_",
	"%", "_",
)

func sanitizeFilename(filename string) string {
	return filenameReplacer.Replace(filename)
}

// sanitizeFolder keeps nested folders ("a/b") but lower-cases each
// component and strips empty or relative segments.
func sanitizeFolder(folder string) string {
	var parts []string
	for _, part := range strings.Split(folder, "/") {
		part = strings.TrimSpace(part)
		if part == "" || part == "." || part == ".." {
			continue
		}
		parts = append(parts, strings.ToLower(filenameReplacer.Replace(part)))
	}
	if len(parts) == 0 {
		return "uploads"
	}
	return strings.Join(parts, "/")
}

// NewRecommendedGenerator returns the generator used when none is configured
func NewRecommendedGenerator() Generator {
	return NewFolderGenerator()
}
