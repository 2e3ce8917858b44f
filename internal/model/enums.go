package model

// Target platforms
type Platform string

const (
	PlatformStreaming Platform = "streaming"
	PlatformClub      Platform = "club"
	PlatformBroadcast Platform = "broadcast"
	PlatformVideo     Platform = "video"
)

var ValidPlatforms = []Platform{
	PlatformStreaming, PlatformClub, PlatformBroadcast, PlatformVideo,
}

// IsValidPlatform reports whether p is one of the supported targets.
func IsValidPlatform(p Platform) bool {
	for _, v := range ValidPlatforms {
		if p == v {
			return true
		}
	}
	return false
}

// Job status
type JobStatus string

const (
	JobStatusQueued     JobStatus = "queued"
	JobStatusProcessing JobStatus = "processing"
	JobStatusCompleted  JobStatus = "completed"
	JobStatusError      JobStatus = "error"
)

// IsTerminal reports whether the status admits no further transitions.
func (s JobStatus) IsTerminal() bool {
	return s == JobStatusCompleted || s == JobStatusError
}

// Parameter sources
type ParamsSource string

const (
	ParamsSourceGenerated ParamsSource = "generated"
	ParamsSourceFallback  ParamsSource = "fallback"
)
