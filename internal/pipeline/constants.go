package pipeline

// Defaults for a conversion run.
const (
	// DefaultSampleSize is how many of the most recent row errors a run keeps.
	DefaultSampleSize = 10

	// OutputFileMode is the permission of a newly created output file.
	OutputFileMode = 0o644
)
