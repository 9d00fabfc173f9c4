package global

import "time"

// All constant related to neuron
const (
	ManifestFileName       = ".tas.yml"
	DefaultManifestVersion = "1"
	GracefulTimeout        = 100 * time.Second
	DefaultAPITimeout      = 45 * time.Second
	DefaultLockTTL         = 60 * time.Second
	LockSweepInterval      = "@every 1m"
	MaxDescriptionLength   = 140
	LookingGood            = "Looking good!"
	MissedMarker           = 0x15
	NeutralMarker          = 0x00
	IgnoredMarker          = 0x1B
	SeparatorMarker        = 0x1E
)

// Status contexts reported on a commit.
const (
	ChecksContext   = "tas/checks"
	CoverageContext = "tas/coverage"
	SummaryContext  = "tas/summary"
)

// GitStorageModes lists the clone storage backends a worker understands.
var GitStorageModes = map[string]bool{
	"local": true,
	"s3":    true,
}

// NeuronBinaryVersion is overridden at build time with -ldflags "-X".
var NeuronBinaryVersion = "dev"
