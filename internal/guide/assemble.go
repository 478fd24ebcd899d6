package guide

import "log"

// Assemble produces the canonical document from an authoring session. The
// session is read as a snapshot: everything is deep-copied, so later edits
// never leak into an already-assembled document.
//
// Placement guarantee: every registry element lands in exactly one place,
// either embedded in the section its binding names or in the top-level map
// when unbound. Unbound elements still carrying their pristine defaults are
// omitted, and elements bound to a section that no longer exists are
// dropped.
func Assemble(s *Session) *Document {
	doc := &Document{
		Metadata:            s.Meta.clone(),
		Sections:            make([]DocumentSection, 0, len(s.Sections)),
		InteractiveElements: make(map[ElementKind]*Element),
		RelatedGuides:       append([]RelatedGuide{}, s.RelatedGuides...),
	}
	doc.Image = orPlaceholder(doc.Image)
	doc.FallbackImage = orPlaceholder(doc.FallbackImage)
	if doc.Tags == nil {
		doc.Tags = []string{}
	}

	for _, sec := range s.Sections {
		out := DocumentSection{
			ID:                  sec.ID,
			Title:               sec.Title,
			Content:             sec.Content,
			Image:               sec.Image,
			InteractiveElements: []*Element{},
		}
		if sec.HideContent {
			out.Content = ""
		}

		// The section's tag list orders the embedded widgets; the binding
		// is the source of truth for membership.
		for _, kind := range sec.ElementKinds {
			elem, ok := s.Elements[kind]
			if !ok || elem.SectionID == nil || *elem.SectionID != sec.ID {
				continue
			}
			out.InteractiveElements = append(out.InteractiveElements, elem.clone())
		}
		doc.Sections = append(doc.Sections, out)
	}

	for _, kind := range kindOrder {
		elem, ok := s.Elements[kind]
		if !ok || elem.SectionID != nil {
			continue
		}
		if elem.Pristine() {
			continue
		}
		unbound := elem.clone()
		unbound.SectionID = nil
		doc.InteractiveElements[kind] = unbound
	}

	return doc
}

// Hydrate reconstructs an authoring session from a canonical document
// fetched from the content API. The document has already shed hideContent
// and any authoring bookkeeping, so every section comes back visible and
// the kind tags are recomputed from the embedded elements.
//
// The registry holds one instance per variant, so only the first element of
// each kind survives hydration; later same-kind section elements are
// dropped. That loss is inherent to the single-instance registry and is
// logged so it does not pass silently.
func Hydrate(doc *Document) (*Session, error) {
	s := NewSession()
	s.Meta = doc.Metadata.clone()
	s.Meta.Image = orPlaceholder(s.Meta.Image)
	s.Meta.FallbackImage = orPlaceholder(s.Meta.FallbackImage)
	if s.Meta.Tags == nil {
		s.Meta.Tags = []string{}
	}
	s.RelatedGuides = append([]RelatedGuide{}, doc.RelatedGuides...)
	s.SlugEdited = true

	for _, kind := range kindOrder {
		elem, ok := doc.InteractiveElements[kind]
		if !ok {
			continue
		}
		if elem.Kind == "" {
			elem.Kind = kind
		}
		if err := elem.Validate(); err != nil {
			return nil, err
		}
		unbound := elem.clone()
		unbound.SectionID = nil
		s.Elements[kind] = unbound
	}

	for _, docSec := range doc.Sections {
		sec := Section{
			ID:           docSec.ID,
			Title:        docSec.Title,
			Content:      docSec.Content,
			Image:        docSec.Image,
			ElementKinds: []ElementKind{},
		}
		for _, elem := range docSec.InteractiveElements {
			if err := elem.Validate(); err != nil {
				return nil, err
			}
			if _, exists := s.Elements[elem.Kind]; exists {
				log.Printf("hydrate: dropping duplicate %s element in section %s (single-instance registry)", elem.Kind, docSec.ID)
				continue
			}
			bound := elem.clone()
			id := docSec.ID
			bound.SectionID = &id
			s.Elements[elem.Kind] = bound
			sec.ElementKinds = append(sec.ElementKinds, elem.Kind)
		}
		s.Sections = append(s.Sections, sec)
	}

	return s, nil
}

func orPlaceholder(url string) string {
	if url == "" {
		return PlaceholderImageURL
	}
	return url
}
