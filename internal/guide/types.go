package guide

// ElementKind tags the four interactive widget variants a guide can embed.
type ElementKind string

const (
	KindQuiz         ElementKind = "quiz"
	KindVideoPlayer  ElementKind = "videoPlayer"
	KindCallToAction ElementKind = "callToAction"
	KindCodeBlock    ElementKind = "codeBlock"
)

// kindOrder is the canonical iteration order for the element registry.
var kindOrder = []ElementKind{KindQuiz, KindVideoPlayer, KindCallToAction, KindCodeBlock}

// PlaceholderImageURL stands in for any image field a guide document is
// missing when it is loaded back into an editing session.
const PlaceholderImageURL = "/images/guide-placeholder.png"

type Author struct {
	Name   string `json:"name"`
	Avatar string `json:"avatar"`
	Bio    string `json:"bio"`
}

// Metadata holds the top-level guide fields shared by the authoring session
// and the canonical document. Dates are ISO-8601 strings; they are carried
// verbatim through assemble/hydrate.
type Metadata struct {
	ID            string   `json:"id"`
	Slug          string   `json:"slug"`
	Title         string   `json:"title"`
	Description   string   `json:"description"`
	Image         string   `json:"image"`
	FallbackImage string   `json:"fallbackImage"`
	PublishedDate string   `json:"publishedDate"`
	UpdatedDate   string   `json:"updatedDate"`
	Author        Author   `json:"author"`
	Category      string   `json:"category"`
	Tags          []string `json:"tags"`
	ReadTime      int      `json:"readTime"`
}

// Section is the authoring-side content block. HideContent and the element
// kind tags are bookkeeping that never reaches the canonical document.
type Section struct {
	ID           string        `json:"id"`
	Title        string        `json:"title"`
	Content      string        `json:"content"`
	Image        string        `json:"image"`
	HideContent  bool          `json:"hideContent"`
	ElementKinds []ElementKind `json:"interactiveElements"`
}

// DocumentSection is the canonical, transmission-ready form of a section.
type DocumentSection struct {
	ID                  string     `json:"id"`
	Title               string     `json:"title"`
	Content             string     `json:"content"`
	Image               string     `json:"image"`
	InteractiveElements []*Element `json:"interactiveElements"`
}

type RelatedGuide struct {
	Slug     string `json:"slug"`
	Title    string `json:"title"`
	Image    string `json:"image"`
	Category string `json:"category"`
}

// Document is the canonical guide document exchanged with the content API.
// It is a value: assembled from a Session, transmitted, and hydrated back.
type Document struct {
	Metadata
	Sections            []DocumentSection        `json:"sections"`
	InteractiveElements map[ElementKind]*Element `json:"interactiveElements"`
	RelatedGuides       []RelatedGuide           `json:"relatedGuides"`
}

type Question struct {
	ID           string   `json:"id"`
	Question     string   `json:"question"`
	Options      []string `json:"options"`
	CorrectIndex int      `json:"correctIndex"`
	Explanation  string   `json:"explanation"`
}

type Quiz struct {
	Title       string     `json:"title"`
	Description string     `json:"description"`
	Questions   []Question `json:"questions"`
}

type VideoPlayer struct {
	Title       string `json:"title"`
	VideoID     string `json:"videoId"`
	Description string `json:"description"`
	Thumbnail   string `json:"thumbnail"`
	Autoplay    bool   `json:"autoplay"`
	ShowDelay   int    `json:"showDelay"` // milliseconds before the player reveals itself
}

type CallToAction struct {
	Text            string `json:"text"`
	ButtonLabel     string `json:"buttonLabel"`
	URL             string `json:"url"`
	BackgroundColor string `json:"backgroundColor"`
	TextColor       string `json:"textColor"`
}

type CodeBlock struct {
	Language string `json:"language"`
	Code     string `json:"code"`
}

// CodeLanguages is the fixed set of language tags a CodeBlock may carry.
var CodeLanguages = map[string]bool{
	"javascript": true,
	"typescript": true,
	"python":     true,
	"go":         true,
	"rust":       true,
	"solidity":   true,
	"bash":       true,
	"json":       true,
}

func (m Metadata) clone() Metadata {
	out := m
	out.Tags = append([]string{}, m.Tags...)
	return out
}

func (s Section) clone() Section {
	out := s
	out.ElementKinds = append([]ElementKind{}, s.ElementKinds...)
	return out
}
