package model

// Platform identifies one distribution target.
type Platform string

const (
	PlatformTikTok        Platform = "tiktok"
	PlatformYouTubeLong   Platform = "youtube_long"
	PlatformYouTubeShorts Platform = "youtube_shorts"
	PlatformInstagram     Platform = "instagram"
	PlatformLinkedIn      Platform = "linkedin"
)

// KnownPlatforms lists every platform id the service accepts.
var KnownPlatforms = []Platform{
	PlatformTikTok,
	PlatformYouTubeLong,
	PlatformYouTubeShorts,
	PlatformInstagram,
	PlatformLinkedIn,
}

// IsKnown reports whether p is one of the enumerated platform ids.
func (p Platform) IsKnown() bool {
	for _, k := range KnownPlatforms {
		if k == p {
			return true
		}
	}
	return false
}

type RenderStatus string

const (
	RenderIdle       RenderStatus = "idle"
	RenderQueued     RenderStatus = "queued"
	RenderProcessing RenderStatus = "processing"
	RenderCompleted  RenderStatus = "completed"
)

type PublishStatus string

const (
	PublishIdle       PublishStatus = "idle"
	PublishConnecting PublishStatus = "connecting"
	PublishUploading  PublishStatus = "uploading"
	PublishProcessing PublishStatus = "processing"
	PublishPublished  PublishStatus = "published"
	PublishFailed     PublishStatus = "failed"
	PublishExpired    PublishStatus = "expired"
)

// IsTerminal reports whether no further automatic transition follows s.
func (s PublishStatus) IsTerminal() bool {
	return s == PublishPublished || s == PublishFailed || s == PublishExpired
}

// ExportTarget is one platform preset together with its render and publish state.
// Name, Icon, AspectRatio and RecommendedResolution come from the catalog and are never mutated.
type ExportTarget struct {
	Platform              Platform      `json:"id"`
	Name                  string        `json:"name"`
	Icon                  string        `json:"icon"`
	AspectRatio           string        `json:"aspectRatio"`
	RecommendedResolution string        `json:"recommendedResolution"`
	RenderStatus          RenderStatus  `json:"status"`
	Progress              int           `json:"progress"`
	PublishStatus         PublishStatus `json:"publishStatus"`
	DownloadURL           string        `json:"downloadUrl,omitempty"`
	ShareURL              string        `json:"shareUrl,omitempty"`
	PublishedURL          string        `json:"publishedUrl,omitempty"`
	Error                 string        `json:"error,omitempty"`
}

// PostMetadata is the generated social copy for one platform.
type PostMetadata struct {
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Hashtags    []string `json:"hashtags"`
}
