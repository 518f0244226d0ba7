package domain

import (
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"
)

// DefaultPersona is applied whenever a session is created without an
// instruction or the persona is reset to blank.
const DefaultPersona = "You are a legal expert who explains complex clauses in simple terms."

// Session is the unit of isolation: one document, one persona, one result
// slot per feature. All mutation goes through its methods so that document
// swaps and the matching slot resets are atomic with respect to concurrent
// feature runs.
type Session struct {
	mu        sync.Mutex
	id        string
	createdAt time.Time
	persona   string
	version   uint64
	doc       Document
	results   map[FeatureID]FeatureResult
	inputs    map[FeatureID]string
}

// FeatureRun is an in-flight engine call detached from the session lock.
// Version pins the document generation the prompt was built from; the run is
// discarded on completion if the session has moved past it.
type FeatureRun struct {
	SessionID string
	Feature   FeatureID
	Version   uint64
	Persona   string
	Prompt    string
	Params    EngineParams
}

// SessionSnapshot is a read-only copy of session state for transport and
// rendering.
type SessionSnapshot struct {
	ID        string                      `json:"id"`
	CreatedAt time.Time                   `json:"created_at"`
	Persona   string                      `json:"persona"`
	Document  Document                    `json:"document"`
	Results   map[FeatureID]FeatureResult `json:"results"`
	Inputs    map[FeatureID]string        `json:"inputs,omitempty"`
}

func NewSession(id, persona string) *Session {
	persona = strings.TrimSpace(persona)
	if persona == "" {
		persona = DefaultPersona
	}
	return &Session{
		id:        id,
		createdAt: time.Now().UTC(),
		persona:   persona,
		doc:       Document{Status: DocumentNone},
		results:   emptySlots(),
		inputs:    make(map[FeatureID]string),
	}
}

func (s *Session) ID() string {
	return s.id
}

func (s *Session) CreatedAt() time.Time {
	return s.createdAt
}

func (s *Session) Persona() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.persona
}

// SetPersona replaces the engine instruction. A blank persona falls back to
// the default. Cached results stay valid; the persona only affects future
// runs.
func (s *Session) SetPersona(persona string) string {
	persona = strings.TrimSpace(persona)
	if persona == "" {
		persona = DefaultPersona
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.persona = persona
	return s.persona
}

// HasSource reports whether the currently loaded document came from the given
// source. Used to short-circuit repeat loads of the same upload.
func (s *Session) HasSource(sourceID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.doc.Status != DocumentNone && s.doc.SourceID == sourceID
}

// Document returns the current document state.
func (s *Session) Document() Document {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.doc
}

// ApplyDocument installs the outcome of a load attempt, successful or not,
// as the session's current document. The version advances and every result
// slot and staged input is reset in the same critical section, so no reader
// can observe the new document next to results computed from the old one.
// A failed extraction still occupies the session: the source is recorded
// with empty text so the failure is inspectable and retryable.
func (s *Session) ApplyDocument(sourceID string, declaredType DocumentType, mode ExtractionMode, text string, extractErr error) Document {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.version++
	doc := Document{
		SourceID:     sourceID,
		Version:      s.version,
		DeclaredType: declaredType,
		Mode:         mode,
		LoadedAt:     time.Now().UTC(),
	}
	if extractErr != nil {
		doc.Status = DocumentFailed
		doc.FailureDetail = extractErr.Error()
	} else {
		doc.Status = DocumentReady
		doc.Text = text
	}
	s.doc = doc
	s.resetSlots()
	return doc
}

// Clear removes the document and resets every slot, returning the session to
// its pristine no-document state. The persona is kept. The version still
// advances so in-flight runs against the removed document cannot land.
func (s *Session) Clear() Document {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.version++
	s.doc = Document{Status: DocumentNone, Version: s.version}
	s.resetSlots()
	return s.doc
}

// SetInput stages user input for a feature that requires one. Inputs are
// cleared together with results on every document change.
func (s *Session) SetInput(id FeatureID, input string) error {
	descriptor, err := DescriptorFor(id)
	if err != nil {
		return err
	}
	if !descriptor.RequiresInput {
		return WrapError(ErrInvalidInput, "set feature input", fmt.Errorf("feature %q does not accept input", id))
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.inputs[id] = input
	return nil
}

// Result returns the slot for a feature. Empty slots are returned as-is;
// only unknown feature ids are an error.
func (s *Session) Result(id FeatureID) (FeatureResult, error) {
	if _, err := DescriptorFor(id); err != nil {
		return FeatureResult{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.results[id], nil
}

// BeginFeatureRun validates preconditions and builds the engine prompt under
// the session lock. The returned run carries everything the engine call
// needs, so the session is not locked while the engine works.
func (s *Session) BeginFeatureRun(id FeatureID, inputOverride string) (FeatureRun, error) {
	descriptor, err := DescriptorFor(id)
	if err != nil {
		return FeatureRun{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.doc.Status != DocumentReady || s.doc.Text == "" {
		return FeatureRun{}, WrapError(ErrPreconditionViolation, "begin feature run", errors.New("no document text loaded"))
	}
	if inputOverride != "" {
		if !descriptor.RequiresInput {
			return FeatureRun{}, WrapError(ErrInvalidInput, "begin feature run", fmt.Errorf("feature %q does not accept input", id))
		}
		s.inputs[id] = inputOverride
	}
	input := s.inputs[id]
	if descriptor.RequiresInput && strings.TrimSpace(input) == "" {
		return FeatureRun{}, WrapError(ErrPreconditionViolation, "begin feature run", fmt.Errorf("feature %q needs a %s", id, descriptor.InputLabel))
	}
	return FeatureRun{
		SessionID: s.id,
		Feature:   id,
		Version:   s.version,
		Persona:   s.persona,
		Prompt:    descriptor.Prompt(s.doc.Text, s.persona, input),
		Params:    descriptor.Params,
	}, nil
}

// CompleteFeatureRun writes the run outcome into its slot. If the document
// version moved while the engine worked, the outcome is discarded and the
// second return is false: results must never outlive the document they were
// computed from. A failed run overwrites any previous content with an error
// slot.
func (s *Session) CompleteFeatureRun(run FeatureRun, content string, runErr error) (FeatureResult, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if run.Version != s.version {
		return FeatureResult{}, false
	}
	result := FeatureResult{Status: FeatureReady, Content: content, GeneratedAt: time.Now().UTC()}
	if runErr != nil {
		result = FeatureResult{Status: FeatureError, ErrorDetail: runErr.Error(), GeneratedAt: time.Now().UTC()}
	}
	s.results[run.Feature] = result
	return result, true
}

// Snapshot deep-copies session state for handlers and renderers.
func (s *Session) Snapshot() SessionSnapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	results := make(map[FeatureID]FeatureResult, len(s.results))
	for id, result := range s.results {
		results[id] = result
	}
	inputs := make(map[FeatureID]string, len(s.inputs))
	for id, input := range s.inputs {
		inputs[id] = input
	}
	return SessionSnapshot{
		ID:        s.id,
		CreatedAt: s.createdAt,
		Persona:   s.persona,
		Document:  s.doc,
		Results:   results,
		Inputs:    inputs,
	}
}

func (s *Session) resetSlots() {
	s.results = emptySlots()
	s.inputs = make(map[FeatureID]string)
}

func emptySlots() map[FeatureID]FeatureResult {
	slots := make(map[FeatureID]FeatureResult, len(catalog))
	for _, descriptor := range catalog {
		slots[descriptor.ID] = FeatureResult{Status: FeatureEmpty}
	}
	return slots
}
