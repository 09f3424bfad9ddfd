package analysis

import (
	"context"
	"math"

	"nova-studio/domain/model"
	"nova-studio/domain/repository"
	"nova-studio/infrastructure/utils"
)

const (
	SampleVideoURL   = "https://storage.googleapis.com/gtv-videos-bucket/sample/ElephantsDream.mp4"
	retentionSeconds = 45
)

// DraftAnalyzer produces the canned analysis of an imported draft.
type DraftAnalyzer struct{}

func NewDraftAnalyzer() *DraftAnalyzer { return &DraftAnalyzer{} }

var _ repository.IDraftAnalyzer = (*DraftAnalyzer)(nil)

func (a *DraftAnalyzer) Analyze(ctx context.Context, name string) (model.Project, error) {
	if err := ctx.Err(); err != nil {
		return model.Project{}, err
	}
	return model.Project{
		ID:             "proj_" + utils.RandomBase36(5),
		Name:           name,
		VideoURL:       SampleVideoURL,
		AspectRatio:    "16:9",
		Scenes:         sampleScenes(),
		Transcription:  sampleTranscription(),
		RetentionCurve: RetentionCurve(retentionSeconds),
		AppliedEdits:   []model.EditAction{},
		Insights: model.VideoInsights{
			HookScore:         91,
			RetentionRating:   "High",
			EnergyPeakSeconds: []int{0, 15, 38},
			ViralPotential:    82,
		},
		BrandKit: model.BrandKit{PrimaryColor: "#3b82f6", Font: "Inter"},
	}, nil
}

// RetentionCurve is a slow linear decay with a cosine wobble, one point per second.
func RetentionCurve(seconds int) []model.RetentionPoint {
	points := make([]model.RetentionPoint, seconds)
	for i := range points {
		points[i] = model.RetentionPoint{
			Time:  i,
			Value: 100 - float64(i)*0.8 + math.Cos(float64(i)/3)*12,
		}
	}
	return points
}

func sampleScenes() []model.Scene {
	return []model.Scene{
		{ID: "1", StartTime: 0, EndTime: 5, Description: "Hook: Subject starts strong", EnergyScore: 92, Sentiment: "intense", IsKeyMoment: true, Thumbnail: unsplash("1492691527719-9d1e07e534b4")},
		{ID: "2", StartTime: 5, EndTime: 12, Description: "Narrative: Context building", EnergyScore: 65, Sentiment: "neutral", Thumbnail: unsplash("1516280440614-37939bbacd81")},
		{ID: "3", StartTime: 12, EndTime: 25, Description: "Meat: Product demo", EnergyScore: 88, Sentiment: "positive", IsKeyMoment: true, Thumbnail: unsplash("1550745165-9bc0b252726f")},
		{ID: "4", StartTime: 25, EndTime: 35, Description: "Filler: Nuance details", EnergyScore: 45, Sentiment: "neutral", Thumbnail: unsplash("1517336714731-489689fd1ca8")},
		{ID: "5", StartTime: 35, EndTime: 45, Description: "Outro: CTA", EnergyScore: 98, Sentiment: "intense", IsKeyMoment: true, Thumbnail: unsplash("1485846234645-a62644f84728")},
	}
}

func unsplash(photo string) string {
	return "https://images.unsplash.com/photo-" + photo + "?auto=format&fit=crop&w=400&q=80"
}

func sampleTranscription() []model.TranscriptionWord {
	return []model.TranscriptionWord{
		{Word: "Listen,", Start: 0, End: 0.4, IsHighlighted: true},
		{Word: "this", Start: 0.4, End: 0.6},
		{Word: "video", Start: 0.6, End: 1.0},
		{Word: "is", Start: 1.0, End: 1.1},
		{Word: "gonna", Start: 1.1, End: 1.3},
		{Word: "blow", Start: 1.3, End: 1.7, IsHighlighted: true},
		{Word: "your", Start: 1.7, End: 1.9},
		{Word: "mind.", Start: 1.9, End: 2.5, IsHighlighted: true},
		{Word: "Uh,", Start: 2.5, End: 3.0, IsFiller: true},
		{Word: "basically", Start: 3.0, End: 3.5},
	}
}
