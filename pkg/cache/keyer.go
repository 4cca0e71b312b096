package cache

import "time"

// Keyer generates cache keys for rendered artifacts.
type Keyer interface {
	ArtifactKey(trialDigest string, opts ArtifactKeyOpts) string
}

// ArtifactKeyOpts identifies one rendering of a trial.
type ArtifactKeyOpts struct {
	Figure string `json:"figure"`
	Format string `json:"format"`
	// Style is a digest of every cosmetic setting that changes the output
	// (see [StyleDigest]).
	Style string `json:"style"`
}

// DefaultKeyer hashes all key components into a fixed-length key.
type DefaultKeyer struct{}

// NewDefaultKeyer creates the default keyer.
func NewDefaultKeyer() Keyer {
	return DefaultKeyer{}
}

// ArtifactKey returns "artifact:<sha256>" over the trial digest and opts.
func (DefaultKeyer) ArtifactKey(trialDigest string, opts ArtifactKeyOpts) string {
	return hashKey("artifact", trialDigest, opts)
}

var _ Keyer = DefaultKeyer{}

// TTLArtifact is how long rendered figures stay cached.
const TTLArtifact = 30 * 24 * time.Hour
