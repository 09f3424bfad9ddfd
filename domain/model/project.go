package model

type EditActionType string

const (
	EditJumpCut      EditActionType = "JUMP_CUT"
	EditDynamicZoom  EditActionType = "DYNAMIC_ZOOM"
	EditCaptionStyle EditActionType = "CAPTION_STYLE"
	EditBRoll        EditActionType = "B_ROLL"
	EditMusicDuck    EditActionType = "MUSIC_DUCK"
	EditColorGrade   EditActionType = "COLOR_GRADE"
	EditBranding     EditActionType = "BRANDING"
	EditAIRewrite    EditActionType = "AI_REWRITE"
)

// EditAction is one structured edit suggested by the analysis service.
// Values are stored as returned; nothing here is validated.
type EditAction struct {
	ID          string         `json:"id"`
	Type        EditActionType `json:"type"`
	Timestamp   float64        `json:"timestamp"`
	Description string         `json:"description"`
	AIReasoning string         `json:"aiReasoning"`
}

type Scene struct {
	ID          string  `json:"id"`
	StartTime   float64 `json:"startTime"`
	EndTime     float64 `json:"endTime"`
	Description string  `json:"description"`
	EnergyScore int     `json:"energyScore"`
	Sentiment   string  `json:"sentiment"` // positive | neutral | negative | intense
	IsKeyMoment bool    `json:"isKeyMoment"`
	Thumbnail   string  `json:"thumbnail"`
}

type TranscriptionWord struct {
	Word          string  `json:"word"`
	Start         float64 `json:"start"`
	End           float64 `json:"end"`
	IsFiller      bool    `json:"isFiller"`
	IsHighlighted bool    `json:"isHighlighted"`
}

type RetentionPoint struct {
	Time  int     `json:"time"`
	Value float64 `json:"value"`
}

type VideoInsights struct {
	HookScore         int    `json:"hookScore"`
	RetentionRating   string `json:"retentionRating"` // High | Average | Low
	EnergyPeakSeconds []int  `json:"energyPeakSeconds"`
	ViralPotential    int    `json:"viralPotential"`
}

type BrandKit struct {
	PrimaryColor string `json:"primaryColor"`
	Font         string `json:"font"`
}

// Project is the analyzed draft. The export core only reads VideoURL.
type Project struct {
	ID             string              `json:"id"`
	Name           string              `json:"name"`
	VideoURL       string              `json:"videoUrl"`
	AspectRatio    string              `json:"aspectRatio"`
	Scenes         []Scene             `json:"scenes"`
	Transcription  []TranscriptionWord `json:"transcription"`
	RetentionCurve []RetentionPoint    `json:"retentionCurve"`
	AppliedEdits   []EditAction        `json:"appliedEdits"`
	Insights       VideoInsights       `json:"insights"`
	BrandKit       BrandKit            `json:"brandKit"`
}

type ChatRole string

const (
	RoleUser      ChatRole = "user"
	RoleAssistant ChatRole = "assistant"
)

type ChatMessage struct {
	Role      ChatRole     `json:"role"`
	Content   string       `json:"content"`
	Timestamp int64        `json:"timestamp"` // unix millis
	Actions   []EditAction `json:"actions,omitempty"`
}

// IntentResult is what the analysis service returns for a free-text command.
type IntentResult struct {
	Explanation      string       `json:"explanation"`
	SuggestedActions []EditAction `json:"suggestedActions"`
}
