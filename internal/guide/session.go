package guide

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
)

var (
	ErrIndexOutOfRange    = errors.New("section index out of range")
	ErrElementNotAttached = errors.New("interactive element has not been created")
	ErrUnknownField       = errors.New("unknown field")
)

// Session is one in-progress authoring session: guide metadata, the ordered
// section store and the interactive element registry, owned by a single
// editor flow. The registry is a fixed map keyed by variant: one live quiz,
// one video, one CTA and one code block per guide. Lifting
// that cap would need an id-keyed arena and a product decision on how
// hydration treats older documents.
type Session struct {
	Meta          Metadata                 `json:"metadata"`
	Sections      []Section                `json:"sections"`
	Elements      map[ElementKind]*Element `json:"elements"`
	RelatedGuides []RelatedGuide           `json:"relatedGuides"`

	// SlugEdited pins the slug once an editor sets it by hand (or the
	// session was hydrated from an existing document); title edits stop
	// re-deriving it after that.
	SlugEdited bool `json:"slugEdited"`
}

// NewSession returns an empty session ready for authoring.
func NewSession() *Session {
	return &Session{
		Meta: Metadata{
			Image:         PlaceholderImageURL,
			FallbackImage: PlaceholderImageURL,
			Tags:          []string{},
			ReadTime:      1,
		},
		Sections:      []Section{},
		Elements:      make(map[ElementKind]*Element),
		RelatedGuides: []RelatedGuide{},
	}
}

// SetField updates one metadata field by name. The field set is closed so
// the update contract stays statically checkable; dotted author paths are
// the only nesting.
func (s *Session) SetField(field string, value json.RawMessage) error {
	switch field {
	case "title":
		if err := json.Unmarshal(value, &s.Meta.Title); err != nil {
			return fmt.Errorf("set title: %w", err)
		}
		if !s.SlugEdited {
			s.Meta.Slug = Slugify(s.Meta.Title)
		}
	case "slug":
		var slug string
		if err := json.Unmarshal(value, &slug); err != nil {
			return fmt.Errorf("set slug: %w", err)
		}
		s.Meta.Slug = Slugify(slug)
		s.SlugEdited = true
	case "description":
		return json.Unmarshal(value, &s.Meta.Description)
	case "image":
		return json.Unmarshal(value, &s.Meta.Image)
	case "fallbackImage":
		return json.Unmarshal(value, &s.Meta.FallbackImage)
	case "category":
		return json.Unmarshal(value, &s.Meta.Category)
	case "readTime":
		var minutes int
		if err := json.Unmarshal(value, &minutes); err != nil {
			return fmt.Errorf("set readTime: %w", err)
		}
		if minutes < 1 {
			return errors.New("readTime must be a positive number of minutes")
		}
		s.Meta.ReadTime = minutes
	case "tags":
		var tags []string
		if err := json.Unmarshal(value, &tags); err != nil {
			return fmt.Errorf("set tags: %w", err)
		}
		if tags == nil {
			tags = []string{}
		}
		s.Meta.Tags = tags
	case "author.name":
		return json.Unmarshal(value, &s.Meta.Author.Name)
	case "author.avatar":
		return json.Unmarshal(value, &s.Meta.Author.Avatar)
	case "author.bio":
		return json.Unmarshal(value, &s.Meta.Author.Bio)
	default:
		return fmt.Errorf("%w: %s", ErrUnknownField, field)
	}
	return nil
}

// ──── Section store ────

// AddSection appends a section with a fresh stable identifier and the
// placeholder title editors expect to overwrite.
func (s *Session) AddSection() *Section {
	s.Sections = append(s.Sections, Section{
		ID:           "section-" + uuid.NewString(),
		Title:        "New Section",
		ElementKinds: []ElementKind{},
	})
	return &s.Sections[len(s.Sections)-1]
}

// RemoveSection deletes the section at index. Elements bound to it are not
// touched here: the assembler drops orphaned bindings on the next pass.
func (s *Session) RemoveSection(index int) error {
	if index < 0 || index >= len(s.Sections) {
		return ErrIndexOutOfRange
	}
	s.Sections = append(s.Sections[:index], s.Sections[index+1:]...)
	return nil
}

// UpdateSection replaces a single field of the section at index.
func (s *Session) UpdateSection(index int, field string, value json.RawMessage) error {
	if index < 0 || index >= len(s.Sections) {
		return ErrIndexOutOfRange
	}
	sec := &s.Sections[index]
	switch field {
	case "title":
		return json.Unmarshal(value, &sec.Title)
	case "content":
		return json.Unmarshal(value, &sec.Content)
	case "image":
		return json.Unmarshal(value, &sec.Image)
	default:
		return fmt.Errorf("%w: %s", ErrUnknownField, field)
	}
}

// MoveSection relocates one section, shifting the others. Stable move
// semantics: every other relative ordering is preserved.
func (s *Session) MoveSection(from, to int) error {
	if from < 0 || from >= len(s.Sections) || to < 0 || to >= len(s.Sections) {
		return ErrIndexOutOfRange
	}
	if from == to {
		return nil
	}
	moved := s.Sections[from]
	rest := append(s.Sections[:from], s.Sections[from+1:]...)
	s.Sections = append(rest[:to], append([]Section{moved}, rest[to:]...)...)
	return nil
}

// ToggleContentVisibility flips the hideContent hint; the body text itself
// is untouched until assembly.
func (s *Session) ToggleContentVisibility(index int) error {
	if index < 0 || index >= len(s.Sections) {
		return ErrIndexOutOfRange
	}
	s.Sections[index].HideContent = !s.Sections[index].HideContent
	return nil
}

// ──── Interactive element registry ────

// Attach binds the element of the given kind to the section at index,
// creating it with defaults on first use. A soft-removed element keeps its
// edited content, so re-attaching restores prior work rather than the
// template.
func (s *Session) Attach(kind ElementKind, sectionIndex int) (*Element, error) {
	if sectionIndex < 0 || sectionIndex >= len(s.Sections) {
		return nil, ErrIndexOutOfRange
	}
	if !validKind(kind) {
		return nil, fmt.Errorf("unknown element kind %q", kind)
	}

	elem, ok := s.Elements[kind]
	if !ok {
		elem = NewElement(kind)
		s.Elements[kind] = elem
	}

	// Binding and the owning section's tag list move in the same step.
	if elem.SectionID != nil {
		s.removeKindTag(*elem.SectionID, kind)
	}

	sec := &s.Sections[sectionIndex]
	if sec.ID == "" {
		sec.ID = "section-" + uuid.NewString()
	}
	id := sec.ID
	elem.SectionID = &id
	s.addKindTag(sec, kind)
	return elem, nil
}

// Detach is the soft remove: the binding is cleared and the tag dropped from
// the owning section, but the element's content survives for re-attachment.
func (s *Session) Detach(kind ElementKind) error {
	elem, ok := s.Elements[kind]
	if !ok {
		return ErrElementNotAttached
	}
	if elem.SectionID != nil {
		s.removeKindTag(*elem.SectionID, kind)
		elem.SectionID = nil
	}
	return nil
}

// Purge is the hard remove: the element and its content are gone.
func (s *Session) Purge(kind ElementKind) error {
	elem, ok := s.Elements[kind]
	if !ok {
		return ErrElementNotAttached
	}
	if elem.SectionID != nil {
		s.removeKindTag(*elem.SectionID, kind)
	}
	delete(s.Elements, kind)
	return nil
}

// UpdateElement merges partial fields into the existing instance for the
// kind. The binding is left alone.
func (s *Session) UpdateElement(kind ElementKind, patch json.RawMessage) error {
	elem, ok := s.Elements[kind]
	if !ok {
		return ErrElementNotAttached
	}
	return elem.Merge(patch)
}

func (s *Session) addKindTag(sec *Section, kind ElementKind) {
	for _, k := range sec.ElementKinds {
		if k == kind {
			return
		}
	}
	sec.ElementKinds = append(sec.ElementKinds, kind)
}

func (s *Session) removeKindTag(sectionID string, kind ElementKind) {
	for i := range s.Sections {
		if s.Sections[i].ID != sectionID {
			continue
		}
		tags := s.Sections[i].ElementKinds
		for j, k := range tags {
			if k == kind {
				s.Sections[i].ElementKinds = append(tags[:j], tags[j+1:]...)
				break
			}
		}
		return
	}
}

func validKind(kind ElementKind) bool {
	for _, k := range kindOrder {
		if k == kind {
			return true
		}
	}
	return false
}
