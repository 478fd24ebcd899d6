package guide

import (
	"encoding/json"
	"fmt"
	"reflect"
)

// Element is the tagged union over the four widget variants. Exactly one
// variant pointer is non-nil, matching Kind. SectionID is the binding: nil
// means the element is unscoped (page-level), otherwise it names the owning
// section.
type Element struct {
	Kind      ElementKind
	SectionID *string
	Quiz      *Quiz
	Video     *VideoPlayer
	CTA       *CallToAction
	Code      *CodeBlock
}

// MalformedDocumentError reports a canonical document that decoded as JSON
// but fails the basic shape expectations of the guide model.
type MalformedDocumentError struct {
	Reason string
}

func (e *MalformedDocumentError) Error() string {
	return "malformed guide document: " + e.Reason
}

// NewElement returns a freshly created element of the given kind, populated
// with the variant's placeholder defaults so a preview is never blank.
func NewElement(kind ElementKind) *Element {
	e := &Element{Kind: kind}
	switch kind {
	case KindQuiz:
		e.Quiz = &Quiz{
			Title:       "Test Your Knowledge",
			Description: "Check what you picked up from this guide.",
			Questions: []Question{
				{
					ID:           "q1",
					Question:     "What did this section cover?",
					Options:      []string{"Option A", "Option B", "Option C", "Option D"},
					CorrectIndex: 0,
					Explanation:  "Edit this explanation to tell readers why the answer is correct.",
				},
			},
		}
	case KindVideoPlayer:
		e.Video = &VideoPlayer{
			Title:       "Watch the walkthrough",
			Description: "A short video covering the same ground as this guide.",
			Autoplay:    false,
			ShowDelay:   0,
		}
	case KindCallToAction:
		e.CTA = &CallToAction{
			Text:            "Ready to put this into practice?",
			ButtonLabel:     "Get Started",
			URL:             "#",
			BackgroundColor: "#f7931a",
			TextColor:       "#ffffff",
		}
	case KindCodeBlock:
		e.Code = &CodeBlock{
			Language: "javascript",
			Code:     "// paste your example here",
		}
	}
	return e
}

// Pristine reports whether the element still carries its untouched variant
// defaults. Unbound pristine elements are omitted from assembled documents.
func (e *Element) Pristine() bool {
	fresh := NewElement(e.Kind)
	switch e.Kind {
	case KindQuiz:
		return reflect.DeepEqual(e.Quiz, fresh.Quiz)
	case KindVideoPlayer:
		return reflect.DeepEqual(e.Video, fresh.Video)
	case KindCallToAction:
		return reflect.DeepEqual(e.CTA, fresh.CTA)
	case KindCodeBlock:
		return reflect.DeepEqual(e.Code, fresh.Code)
	}
	return false
}

func (e *Element) clone() *Element {
	out := &Element{Kind: e.Kind}
	if e.SectionID != nil {
		id := *e.SectionID
		out.SectionID = &id
	}
	switch {
	case e.Quiz != nil:
		q := *e.Quiz
		q.Questions = make([]Question, len(e.Quiz.Questions))
		for i, question := range e.Quiz.Questions {
			question.Options = append([]string{}, question.Options...)
			q.Questions[i] = question
		}
		out.Quiz = &q
	case e.Video != nil:
		v := *e.Video
		out.Video = &v
	case e.CTA != nil:
		c := *e.CTA
		out.CTA = &c
	case e.Code != nil:
		c := *e.Code
		out.Code = &c
	}
	return out
}

// Merge applies a partial JSON update onto the element's variant payload.
// The binding is never touched by an update.
func (e *Element) Merge(patch json.RawMessage) error {
	switch e.Kind {
	case KindQuiz:
		if err := json.Unmarshal(patch, e.Quiz); err != nil {
			return fmt.Errorf("merge quiz fields: %w", err)
		}
	case KindVideoPlayer:
		if err := json.Unmarshal(patch, e.Video); err != nil {
			return fmt.Errorf("merge video fields: %w", err)
		}
		if e.Video.ShowDelay < 0 {
			return &MalformedDocumentError{Reason: "videoPlayer showDelay must be >= 0"}
		}
	case KindCallToAction:
		if err := json.Unmarshal(patch, e.CTA); err != nil {
			return fmt.Errorf("merge callToAction fields: %w", err)
		}
	case KindCodeBlock:
		if err := json.Unmarshal(patch, e.Code); err != nil {
			return fmt.Errorf("merge codeBlock fields: %w", err)
		}
		if !CodeLanguages[e.Code.Language] {
			return &MalformedDocumentError{Reason: "unknown codeBlock language " + e.Code.Language}
		}
	}
	return nil
}

func (e *Element) MarshalJSON() ([]byte, error) {
	switch e.Kind {
	case KindQuiz:
		return json.Marshal(struct {
			Type      ElementKind `json:"type"`
			SectionID *string     `json:"sectionId"`
			*Quiz
		}{e.Kind, e.SectionID, e.Quiz})
	case KindVideoPlayer:
		return json.Marshal(struct {
			Type      ElementKind `json:"type"`
			SectionID *string     `json:"sectionId"`
			*VideoPlayer
		}{e.Kind, e.SectionID, e.Video})
	case KindCallToAction:
		return json.Marshal(struct {
			Type      ElementKind `json:"type"`
			SectionID *string     `json:"sectionId"`
			*CallToAction
		}{e.Kind, e.SectionID, e.CTA})
	case KindCodeBlock:
		return json.Marshal(struct {
			Type      ElementKind `json:"type"`
			SectionID *string     `json:"sectionId"`
			*CodeBlock
		}{e.Kind, e.SectionID, e.Code})
	}
	return nil, fmt.Errorf("unknown element kind %q", e.Kind)
}

func (e *Element) UnmarshalJSON(data []byte) error {
	var head struct {
		Type      ElementKind `json:"type"`
		SectionID *string     `json:"sectionId"`
	}
	if err := json.Unmarshal(data, &head); err != nil {
		return err
	}

	e.Kind = head.Type
	e.SectionID = head.SectionID
	e.Quiz, e.Video, e.CTA, e.Code = nil, nil, nil, nil

	switch head.Type {
	case KindQuiz:
		e.Quiz = &Quiz{}
		return json.Unmarshal(data, e.Quiz)
	case KindVideoPlayer:
		e.Video = &VideoPlayer{}
		return json.Unmarshal(data, e.Video)
	case KindCallToAction:
		e.CTA = &CallToAction{}
		return json.Unmarshal(data, e.CTA)
	case KindCodeBlock:
		e.Code = &CodeBlock{}
		return json.Unmarshal(data, e.Code)
	}
	return &MalformedDocumentError{Reason: "unknown interactive element type " + string(head.Type)}
}

// Validate checks the variant payload shape after decoding an untrusted
// document. A quiz without questions is the classic malformed case.
func (e *Element) Validate() error {
	switch e.Kind {
	case KindQuiz:
		if e.Quiz == nil || len(e.Quiz.Questions) == 0 {
			return &MalformedDocumentError{Reason: "quiz element has no questions"}
		}
		for _, q := range e.Quiz.Questions {
			if q.CorrectIndex < 0 || q.CorrectIndex >= len(q.Options) {
				return &MalformedDocumentError{Reason: "quiz question " + q.ID + " has out-of-range correctIndex"}
			}
		}
	case KindVideoPlayer:
		if e.Video == nil {
			return &MalformedDocumentError{Reason: "videoPlayer element has no payload"}
		}
		if e.Video.ShowDelay < 0 {
			return &MalformedDocumentError{Reason: "videoPlayer showDelay must be >= 0"}
		}
	case KindCallToAction:
		if e.CTA == nil {
			return &MalformedDocumentError{Reason: "callToAction element has no payload"}
		}
	case KindCodeBlock:
		if e.Code == nil {
			return &MalformedDocumentError{Reason: "codeBlock element has no payload"}
		}
	default:
		return &MalformedDocumentError{Reason: "unknown interactive element type " + string(e.Kind)}
	}
	return nil
}
