package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"strings"
)

// DefaultKeyer produces "table:<sha256>" and "artifact:<sha256>" keys.
type DefaultKeyer struct{}

// NewDefaultKeyer creates the default keyer.
func NewDefaultKeyer() Keyer {
	return &DefaultKeyer{}
}

// TableKey hashes the source name, the content hash and the encoding list.
// The same bytes read with a different trial list may decode differently,
// so the list is part of the key.
func (k *DefaultKeyer) TableKey(source, contentHash string, encodings []string) string {
	return hashKey("table", source, contentHash, strings.Join(encodings, ","))
}

// ArtifactKey hashes the table hash and every render input.
func (k *DefaultKeyer) ArtifactKey(tableHash string, opts ArtifactKeyOpts) string {
	spec, _ := json.Marshal(opts)
	return hashKey("artifact", tableHash, string(spec))
}

var _ Keyer = (*DefaultKeyer)(nil)

// hashKey returns kind + ":" + the hex SHA-256 of parts, each part
// terminated by a NUL so that ("ab", "c") and ("a", "bc") differ.
func hashKey(kind string, parts ...string) string {
	h := sha256.New()
	for _, p := range parts {
		h.Write([]byte(p))
		h.Write([]byte{0})
	}
	return kind + ":" + hex.EncodeToString(h.Sum(nil))
}

// Hash returns the hex SHA-256 of data. Tables are cached under the hash of
// their raw bytes.
func Hash(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}
