package service

import (
	"encoding/json"
	"fmt"

	"github.com/amterp/webslide/internal/deck"
	wserr "github.com/amterp/webslide/internal/errors"
	"github.com/amterp/webslide/internal/id"
	"github.com/amterp/webslide/internal/store"
	"github.com/amterp/webslide/internal/util"
	"github.com/amterp/webslide/internal/version"
)

// IssueSeverity indicates how critical an issue is.
type IssueSeverity string

const (
	SeverityError   IssueSeverity = "error"
	SeverityWarning IssueSeverity = "warning"
)

// Issue codes for diagnostic results.
const (
	// Critical: the deck can't be loaded (errors)
	CodeUnreadableDeck   = "UNREADABLE_DECK"
	CodeMalformedDeck    = "MALFORMED_DECK"
	CodeDuplicateSlideID = "DUPLICATE_SLIDE_ID"
	CodeNewerFormat      = "NEWER_DECK_FORMAT"

	// Loadable but not in the current shape (warnings)
	CodeLegacyFormat = "LEGACY_DECK_FORMAT"
	CodeNonCanonical = "NON_CANONICAL_DECK"

	// Config (warnings)
	CodeMalformedConfig = "MALFORMED_CONFIG"
)

// corruptSuffix is appended to the key a malformed deck is moved aside to.
const corruptSuffix = "_corrupt"

// Issue represents a single diagnostic finding.
type Issue struct {
	Severity  IssueSeverity `json:"severity"`
	Code      string        `json:"code"`
	Key       string        `json:"key,omitempty"`
	SlideID   string        `json:"slide_id,omitempty"`
	Message   string        `json:"message"`
	Fixable   bool          `json:"fixable"`
	FixAction string        `json:"fix_action,omitempty"`
	FixError  string        `json:"fix_error,omitempty"` // Populated if fix was attempted but failed
}

// DeckDiagnostic contains stats for the stored deck.
type DeckDiagnostic struct {
	Key     string `json:"key"`
	Backend string `json:"backend"`
	Stored  bool   `json:"stored"`
	Format  string `json:"format,omitempty"`
	Slides  int    `json:"slides"`
	Bytes   int    `json:"bytes"`
}

// ReportSummary summarizes the diagnostic results.
type ReportSummary struct {
	Errors    int `json:"errors"`
	Warnings  int `json:"warnings"`
	Fixed     int `json:"fixed"`
	FixFailed int `json:"fix_failed,omitempty"`
}

// DiagnosticReport contains all diagnostic results.
type DiagnosticReport struct {
	Deck    DeckDiagnostic `json:"deck"`
	Issues  []Issue        `json:"issues"`
	Summary ReportSummary  `json:"summary"`
}

// HasErrors returns true if there are any error-level issues.
func (r *DiagnosticReport) HasErrors() bool {
	return r.Summary.Errors > 0
}

// DoctorService checks the stored deck and the config for problems that
// would stop webslide from loading them.
type DoctorService struct {
	configStore store.ConfigStore
	storage     store.KeyValueStore
	key         string
	backend     string
	newID       func() string
	now         func() int64
}

// NewDoctorService creates a new diagnostic service for the deck stored
// under key. configStore may be nil to skip the config check.
func NewDoctorService(configStore store.ConfigStore, storage store.KeyValueStore, key, backend string) *DoctorService {
	return &DoctorService{
		configStore: configStore,
		storage:     storage,
		key:         key,
		backend:     backend,
		newID:       id.Generate,
		now:         util.NowMillis,
	}
}

// Diagnose analyzes the config and the stored deck.
func (s *DoctorService) Diagnose() (*DiagnosticReport, error) {
	report := &DiagnosticReport{
		Deck:   DeckDiagnostic{Key: s.key, Backend: s.backend},
		Issues: []Issue{},
	}

	s.checkConfig(report)
	s.checkDeck(report)

	report.tally()
	return report, nil
}

// Fix applies automatic fixes for issues that have deterministic solutions.
// Returns a new report showing remaining issues and what was fixed.
func (s *DoctorService) Fix(report *DiagnosticReport) (*DiagnosticReport, error) {
	fixed := 0
	fixFailed := 0
	remaining := []Issue{}

	for _, issue := range report.Issues {
		if !issue.Fixable {
			remaining = append(remaining, issue)
			continue
		}

		var err error
		switch issue.Code {
		case CodeMalformedDeck:
			err = s.fixMalformedDeck()
		case CodeDuplicateSlideID:
			err = s.fixDuplicateSlideIDs()
		case CodeLegacyFormat, CodeNonCanonical:
			err = s.fixRewrite()
		default:
			remaining = append(remaining, issue)
			continue
		}

		if err != nil {
			// If fix failed, keep the issue with error recorded
			issue.FixError = err.Error()
			remaining = append(remaining, issue)
			fixFailed++
		} else {
			fixed++
		}
	}

	newReport := &DiagnosticReport{
		Deck:   report.Deck,
		Issues: remaining,
		Summary: ReportSummary{
			Fixed:     fixed,
			FixFailed: fixFailed,
		},
	}
	newReport.tally()
	return newReport, nil
}

func (r *DiagnosticReport) tally() {
	r.Summary.Errors = 0
	r.Summary.Warnings = 0
	for _, issue := range r.Issues {
		if issue.Severity == SeverityError {
			r.Summary.Errors++
		} else {
			r.Summary.Warnings++
		}
	}
}

func (s *DoctorService) checkConfig(report *DiagnosticReport) {
	if s.configStore == nil {
		return
	}
	if _, err := s.configStore.Load(); err != nil {
		report.Issues = append(report.Issues, Issue{
			Severity:  SeverityWarning,
			Code:      CodeMalformedConfig,
			Message:   fmt.Sprintf("Cannot load config: %v", err),
			Fixable:   false,
			FixAction: "Edit the config file by hand; defaults are used until it loads",
		})
	}
}

func (s *DoctorService) checkDeck(report *DiagnosticReport) {
	text, err := s.storage.Get(s.key)
	if err != nil {
		if wserr.IsNotFound(err) {
			return // Nothing saved yet is fine
		}
		report.Issues = append(report.Issues, Issue{
			Severity: SeverityError,
			Code:     CodeUnreadableDeck,
			Key:      s.key,
			Message:  fmt.Sprintf("Cannot read deck from %s storage: %v", s.backend, err),
			Fixable:  false,
		})
		return
	}

	report.Deck.Stored = true
	report.Deck.Bytes = len(text)

	var raw map[string]any
	if err := json.Unmarshal([]byte(text), &raw); err != nil {
		report.Issues = append(report.Issues, s.malformedIssue(fmt.Sprintf("Invalid JSON: %v", err)))
		return
	}

	format, legacy := storedFormat(raw)
	report.Deck.Format = format
	if version.IsNewerDeckFormat(format) {
		report.Issues = append(report.Issues, Issue{
			Severity:  SeverityError,
			Code:      CodeNewerFormat,
			Key:       s.key,
			Message:   fmt.Sprintf("Deck format %s is newer than this build supports (%s)", format, version.CurrentDeckFormat),
			Fixable:   false,
			FixAction: "Upgrade webslide",
		})
		return
	}

	if dups := duplicateSlideIDs(raw); len(dups) > 0 {
		for _, dupID := range dups {
			report.Issues = append(report.Issues, Issue{
				Severity:  SeverityError,
				Code:      CodeDuplicateSlideID,
				Key:       s.key,
				SlideID:   dupID,
				Message:   "Slide ID is used more than once",
				Fixable:   true,
				FixAction: "Keep the first slide's ID, give the others fresh IDs",
			})
		}
		if legacy {
			report.Issues = append(report.Issues, s.legacyIssue(format))
		}
		return
	}

	p, err := deck.Decode(text, s.now())
	if err != nil {
		report.Issues = append(report.Issues, s.malformedIssue(err.Error()))
		return
	}
	report.Deck.Slides = len(p.Slides)

	if legacy {
		report.Issues = append(report.Issues, s.legacyIssue(format))
		return
	}

	canonical, err := deck.Encode(p)
	if err == nil && canonical != text {
		report.Issues = append(report.Issues, Issue{
			Severity:  SeverityWarning,
			Code:      CodeNonCanonical,
			Key:       s.key,
			Message:   "Deck is missing fields that are filled in on every load (titles, timestamps)",
			Fixable:   true,
			FixAction: "Rewrite the deck with the defaults filled in",
		})
	}
}

func (s *DoctorService) malformedIssue(message string) Issue {
	return Issue{
		Severity:  SeverityError,
		Code:      CodeMalformedDeck,
		Key:       s.key,
		Message:   message,
		Fixable:   true,
		FixAction: fmt.Sprintf("Move the deck aside to %q so a fresh one can be saved", s.key+corruptSuffix),
	}
}

func (s *DoctorService) legacyIssue(format string) Issue {
	return Issue{
		Severity:  SeverityWarning,
		Code:      CodeLegacyFormat,
		Key:       s.key,
		Message:   fmt.Sprintf("Deck uses format %s, current is %s", format, version.CurrentDeckFormat),
		Fixable:   true,
		FixAction: fmt.Sprintf("Rewrite the deck in format %s", version.CurrentDeckFormat),
	}
}

// storedFormat returns the format version a raw deck declares and whether it
// is an older shape than the current one.
func storedFormat(raw map[string]any) (format string, legacy bool) {
	if meta, ok := raw["metadata"].(map[string]any); ok {
		if v, ok := meta["version"].(string); ok {
			return v, v != version.CurrentDeckFormat
		}
		return version.CurrentDeckFormat, false
	}
	if v, ok := raw["version"].(string); ok {
		return v, true
	}
	// Bare {slides: [...]} from an early build
	return "1.0", true
}

// duplicateSlideIDs lists IDs that appear on more than one slide, in order
// of first repetition.
func duplicateSlideIDs(raw map[string]any) []string {
	items, _ := raw["slides"].([]any)
	seen := make(map[string]int)
	var dups []string
	for _, item := range items {
		slide, ok := item.(map[string]any)
		if !ok {
			continue
		}
		slideID, ok := slide["id"].(string)
		if !ok {
			continue
		}
		seen[slideID]++
		if seen[slideID] == 2 {
			dups = append(dups, slideID)
		}
	}
	return dups
}

func (s *DoctorService) fixMalformedDeck() error {
	text, err := s.storage.Get(s.key)
	if err != nil {
		return err
	}
	if err := s.storage.Set(s.key+corruptSuffix, text); err != nil {
		return fmt.Errorf("failed to back up deck: %w", err)
	}
	return s.storage.Remove(s.key)
}

func (s *DoctorService) fixDuplicateSlideIDs() error {
	text, err := s.storage.Get(s.key)
	if err != nil {
		return err
	}

	var raw map[string]any
	if err := json.Unmarshal([]byte(text), &raw); err != nil {
		return err
	}

	items, _ := raw["slides"].([]any)
	seen := make(map[string]bool)
	changed := false
	for _, item := range items {
		slide, ok := item.(map[string]any)
		if !ok {
			continue
		}
		slideID, _ := slide["id"].(string)
		if seen[slideID] {
			slideID = s.newID()
			slide["id"] = slideID
			changed = true
		}
		seen[slideID] = true
	}
	if !changed {
		// Already fixed along with an earlier duplicate
		return nil
	}

	data, err := json.MarshalIndent(raw, "", "  ")
	if err != nil {
		return err
	}
	return s.storage.Set(s.key, string(data))
}

// fixRewrite loads the deck with the normal rules and stores it back in the
// current format.
func (s *DoctorService) fixRewrite() error {
	text, err := s.storage.Get(s.key)
	if err != nil {
		return err
	}

	p, err := deck.Decode(text, s.now())
	if err != nil {
		return err
	}

	canonical, err := deck.Encode(p)
	if err != nil {
		return err
	}
	if canonical == text {
		return nil
	}
	return s.storage.Set(s.key, canonical)
}
