package cache

// ScopedKeyer prefixes every key of an inner Keyer. The dashboard scopes
// keys per session so that sessions never share or evict each other's
// tables.
//
//	keyer := NewScopedKeyer(NewDefaultKeyer(), "session:"+id+":")
type ScopedKeyer struct {
	inner  Keyer
	prefix string
}

// NewScopedKeyer creates a keyer with a prefix. A nil inner keyer means
// [DefaultKeyer].
func NewScopedKeyer(inner Keyer, prefix string) Keyer {
	if inner == nil {
		inner = NewDefaultKeyer()
	}
	return &ScopedKeyer{inner: inner, prefix: prefix}
}

// TableKey implements Keyer.
func (k *ScopedKeyer) TableKey(source, contentHash string, encodings []string) string {
	return k.prefix + k.inner.TableKey(source, contentHash, encodings)
}

// ArtifactKey implements Keyer.
func (k *ScopedKeyer) ArtifactKey(tableHash string, opts ArtifactKeyOpts) string {
	return k.prefix + k.inner.ArtifactKey(tableHash, opts)
}
