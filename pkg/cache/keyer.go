package cache

import "github.com/matzehuels/lineage/pkg/layout"

// Keyer derives cache keys.
type Keyer interface {
	// LayoutKey identifies a layout of the dataset with the given hash.
	LayoutKey(datasetHash string, opts LayoutKeyOpts) string
	// ArtifactKey identifies a rendering of the layout with the given hash.
	ArtifactKey(layoutHash string, opts ArtifactKeyOpts) string
}

// LayoutKeyOpts lists every input besides the dataset that affects a layout.
type LayoutKeyOpts struct {
	Seed   uint64        `json:"seed"`
	Config layout.Config `json:"config"`
}

// ArtifactKeyOpts lists every input besides the layout that affects a rendering.
type ArtifactKeyOpts struct {
	Format   string  `json:"format"`
	Detailed bool    `json:"detailed,omitempty"`
	Scale    float64 `json:"scale,omitempty"`
}

// DefaultKeyer hashes options into fixed-length keys.
type DefaultKeyer struct{}

// NewDefaultKeyer returns the default keyer.
func NewDefaultKeyer() Keyer { return DefaultKeyer{} }

// LayoutKey returns "layout:<sha256>".
func (DefaultKeyer) LayoutKey(datasetHash string, opts LayoutKeyOpts) string {
	return hashKey("layout", datasetHash, opts)
}

// ArtifactKey returns "artifact:<sha256>".
func (DefaultKeyer) ArtifactKey(layoutHash string, opts ArtifactKeyOpts) string {
	return hashKey("artifact", layoutHash, opts)
}
