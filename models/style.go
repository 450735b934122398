package models

// StyleCategory is an axis of style selection.
type StyleCategory string

const (
	CategoryHairstyle StyleCategory = "Hairstyle"
	CategoryTop       StyleCategory = "Top"
	CategoryBottom    StyleCategory = "Bottom"
	CategoryStyle     StyleCategory = "Style"
)

// Gender tags catalog entries and user preferences.
type Gender string

const (
	GenderMale   Gender = "Male"
	GenderFemale Gender = "Female"
	GenderUnisex Gender = "Unisex"
)

// StyleOption is an immutable catalog entry. Options are loaded once at
// startup and never mutated at runtime.
type StyleOption struct {
	ID           string        `bson:"id" json:"id" yaml:"id"`
	Name         string        `bson:"name" json:"name" yaml:"name"`
	Category     StyleCategory `bson:"category" json:"category" yaml:"category"`
	Gender       Gender        `bson:"gender" json:"gender" yaml:"gender"`
	ThumbnailURL string        `bson:"thumbnail_url,omitempty" json:"thumbnail_url,omitempty" yaml:"thumbnail_url,omitempty"`
	Description  string        `bson:"description" json:"description" yaml:"description"`
}

// CurrentSelection is the in-progress outfit. Option slots are nil until
// picked; Style holds the free-text vibe description, empty when unset.
type CurrentSelection struct {
	Hairstyle *StyleOption `bson:"hairstyle,omitempty" json:"hairstyle,omitempty"`
	Top       *StyleOption `bson:"top,omitempty" json:"top,omitempty"`
	Bottom    *StyleOption `bson:"bottom,omitempty" json:"bottom,omitempty"`
	Style     string       `bson:"style,omitempty" json:"style,omitempty"`
}

// Slot returns a pointer to the option slot for cat, or nil for the
// free-text Style axis.
func (s *CurrentSelection) Slot(cat StyleCategory) **StyleOption {
	switch cat {
	case CategoryHairstyle:
		return &s.Hairstyle
	case CategoryTop:
		return &s.Top
	case CategoryBottom:
		return &s.Bottom
	}
	return nil
}

// GeneratedResult is the transient value between "finish designing" and
// save/discard.
type GeneratedResult struct {
	OriginalURL string `json:"original_url"`
	ResultURL   string `json:"result_url"`
	Description string `json:"description"`
}
