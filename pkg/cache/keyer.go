package cache

// Keyer derives cache keys for analysis results.
type Keyer interface {
	// InbreedingKey is the key of an inbreeding vector.
	InbreedingKey(pedigreeHash string, opts InbreedingKeyOpts) string
	// DistributionKey is the key of a population depth distribution.
	DistributionKey(pedigreeHash string, opts DistributionKeyOpts) string
}

// InbreedingKeyOpts holds the options that change an inbreeding vector.
type InbreedingKeyOpts struct {
	Method string `json:"method"` // "meuwissen-luo" or "tabular"
}

// DistributionKeyOpts holds the options that change a depth distribution.
type DistributionKeyOpts struct {
	Threshold  int    `json:"threshold"`
	SampleSize int    `json:"sample_size"`
	MaxDepth   int    `json:"max_depth"`
	Seed       uint64 `json:"seed"`
}

// DefaultKeyer builds keys of the form kind:sha256(hash, opts).
type DefaultKeyer struct{}

// NewDefaultKeyer creates the default keyer.
func NewDefaultKeyer() Keyer {
	return DefaultKeyer{}
}

// InbreedingKey implements Keyer.
func (DefaultKeyer) InbreedingKey(pedigreeHash string, opts InbreedingKeyOpts) string {
	return hashKey("inbreeding", pedigreeHash, opts)
}

// DistributionKey implements Keyer.
func (DefaultKeyer) DistributionKey(pedigreeHash string, opts DistributionKeyOpts) string {
	return hashKey("distribution", pedigreeHash, opts)
}
