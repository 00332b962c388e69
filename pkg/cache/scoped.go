package cache

// ScopedKeyer wraps a Keyer with a prefix so that several herds, projects
// or users can share one backend without colliding.
//
// Example usage:
//
//	keyer := NewScopedKeyer(NewDefaultKeyer(), "herd:holstein-nl:")
type ScopedKeyer struct {
	inner  Keyer
	prefix string
}

// NewScopedKeyer creates a keyer with a prefix.
// The prefix is prepended to all generated keys.
func NewScopedKeyer(inner Keyer, prefix string) Keyer {
	if inner == nil {
		inner = NewDefaultKeyer()
	}
	return &ScopedKeyer{
		inner:  inner,
		prefix: prefix,
	}
}

// InbreedingKey generates a prefixed key for an inbreeding vector.
func (k *ScopedKeyer) InbreedingKey(pedigreeHash string, opts InbreedingKeyOpts) string {
	return k.prefix + k.inner.InbreedingKey(pedigreeHash, opts)
}

// DistributionKey generates a prefixed key for a depth distribution.
func (k *ScopedKeyer) DistributionKey(pedigreeHash string, opts DistributionKeyOpts) string {
	return k.prefix + k.inner.DistributionKey(pedigreeHash, opts)
}
