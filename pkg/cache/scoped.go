package cache

// ScopedKeyer prefixes every key of an inner Keyer. The layout service uses
// it to keep its entries apart from CLI entries in a shared Redis.
//
//	keyer := NewScopedKeyer(NewDefaultKeyer(), "svc:")
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
	return &ScopedKeyer{
		inner:  inner,
		prefix: prefix,
	}
}

// LayoutKey implements [Keyer].
func (k *ScopedKeyer) LayoutKey(snapshotHash string, opts LayoutKeyOpts) string {
	return k.prefix + k.inner.LayoutKey(snapshotHash, opts)
}

// ExportKey implements [Keyer].
func (k *ScopedKeyer) ExportKey(snapshotHash string, opts ExportKeyOpts) string {
	return k.prefix + k.inner.ExportKey(snapshotHash, opts)
}
