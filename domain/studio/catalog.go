package studio

import "nova-studio/domain/model"

// catalog is the fixed preset registry. Targets are copied out of it, never shared.
var catalog = []model.ExportTarget{
	{Platform: model.PlatformInstagram, Name: "Instagram Reels", Icon: "📸", AspectRatio: "9:16", RecommendedResolution: "1080p"},
	{Platform: model.PlatformYouTubeShorts, Name: "YouTube Shorts", Icon: "⚡", AspectRatio: "9:16", RecommendedResolution: "1080p"},
	{Platform: model.PlatformTikTok, Name: "TikTok", Icon: "📱", AspectRatio: "9:16", RecommendedResolution: "1080p"},
	{Platform: model.PlatformYouTubeLong, Name: "YouTube Master", Icon: "📺", AspectRatio: "16:9", RecommendedResolution: "4K"},
}

// Catalog returns a fresh copy of the preset registry with every target idle.
func Catalog() []model.ExportTarget {
	out := make([]model.ExportTarget, len(catalog))
	for i, t := range catalog {
		t.RenderStatus = model.RenderIdle
		t.Progress = 0
		t.PublishStatus = model.PublishIdle
		out[i] = t
	}
	return out
}

// InCatalog reports whether p has a preset.
func InCatalog(p model.Platform) bool {
	for _, t := range catalog {
		if t.Platform == p {
			return true
		}
	}
	return false
}

// Selection is an ordered set of platform ids.
type Selection []model.Platform

func (s Selection) Has(p model.Platform) bool {
	for _, x := range s {
		if x == p {
			return true
		}
	}
	return false
}

// Toggle returns a new selection with p added or removed.
func (s Selection) Toggle(p model.Platform) Selection {
	out := make(Selection, 0, len(s)+1)
	found := false
	for _, x := range s {
		if x == p {
			found = true
			continue
		}
		out = append(out, x)
	}
	if !found {
		out = append(out, p)
	}
	return out
}

func (s Selection) clone() Selection {
	if s == nil {
		return nil
	}
	return append(Selection(nil), s...)
}
