package inventory

import (
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"
)

type rawInventoryDocument struct {
	Pages []rawPage `yaml:"pages"`
}

type rawPage struct {
	ID                       string      `yaml:"id"`
	URL                      string      `yaml:"url"`
	AuditScore               *float64    `yaml:"audit_score,omitempty"`
	WordCount                *int        `yaml:"word_count,omitempty"`
	InternalLinks            *int        `yaml:"internal_links,omitempty"`
	ExternalLinks            *int        `yaml:"external_links,omitempty"`
	SchemaTypes              []string    `yaml:"schema_types,omitempty"`
	GSCClicks                *int        `yaml:"gsc_clicks,omitempty"`
	GSCImpressions           *int        `yaml:"gsc_impressions,omitempty"`
	GSCPosition              *float64    `yaml:"gsc_position,omitempty"`
	StrikingDistanceKeywords []string    `yaml:"striking_distance_keywords,omitempty"`
	CWVAssessment            string      `yaml:"cwv_assessment,omitempty"`
	CORScore                 *float64    `yaml:"cor_score,omitempty"`
	DOMSizeKB                *float64    `yaml:"dom_size_kb,omitempty"`
	TTFBMs                   *float64    `yaml:"ttfb_ms,omitempty"`
	MatchConfidence          *float64    `yaml:"match_confidence,omitempty"`
	GoogleCanonical          string      `yaml:"google_canonical,omitempty"`
	IndexStatus              string      `yaml:"index_status,omitempty"`
	Scores                   *PageScores `yaml:"scores,omitempty"`
}

type rawTopicsDocument struct {
	Topics []rawTopic `yaml:"topics"`
}

type rawTopic struct {
	ID            string `yaml:"topic_id"`
	Title         string `yaml:"title"`
	ParentTopicID string `yaml:"parent_topic_id,omitempty"`
}

// ValidationError captures a single field-specific validation issue.
type ValidationError struct {
	File    string
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	if e.Field == "" {
		return fmt.Sprintf("%s: %s", e.File, e.Message)
	}
	return fmt.Sprintf("%s: %s: %s", e.File, e.Field, e.Message)
}

// ValidationErrors aggregates multiple validation problems.
type ValidationErrors []ValidationError

func (errs ValidationErrors) Error() string {
	parts := make([]string, 0, len(errs))
	for _, e := range errs {
		parts = append(parts, e.Error())
	}
	return strings.Join(parts, "\n")
}

// ParseInventoryDocument unmarshals and validates a YAML inventory document.
func ParseInventoryDocument(data []byte, source string) ([]Item, error) {
	var raw rawInventoryDocument
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, ValidationErrors{{
			File:    source,
			Field:   "yaml",
			Message: err.Error(),
		}}
	}
	return validateRawInventory(raw, source)
}

func validateRawInventory(raw rawInventoryDocument, source string) ([]Item, error) {
	var errs ValidationErrors

	if len(raw.Pages) == 0 {
		errs = append(errs, ValidationError{
			File:    source,
			Field:   "pages",
			Message: "must contain at least one page",
		})
	}

	seen := make(map[string]struct{})
	var items []Item

	for idx, page := range raw.Pages {
		fieldPath := fmt.Sprintf("pages[%d]", idx)
		item, pageErrs := validateRawPage(page, fieldPath, source)
		errs = append(errs, pageErrs...)

		if item.ID != "" {
			if _, exists := seen[item.ID]; exists {
				errs = append(errs, ValidationError{
					File:    source,
					Field:   fieldPath + ".id",
					Message: fmt.Sprintf("duplicate page id %q", item.ID),
				})
			} else {
				seen[item.ID] = struct{}{}
			}
		}
		items = append(items, item)
	}

	if len(errs) > 0 {
		return nil, errs
	}
	return items, nil
}

func validateRawPage(raw rawPage, fieldPath, source string) (Item, ValidationErrors) {
	var errs ValidationErrors

	fail := func(field, message string) {
		errs = append(errs, ValidationError{
			File:    source,
			Field:   fieldPath + "." + field,
			Message: message,
		})
	}

	if strings.TrimSpace(raw.ID) == "" {
		fail("id", "id is required")
	}
	if strings.TrimSpace(raw.URL) == "" {
		fail("url", "url is required")
	}
	if raw.AuditScore != nil && (*raw.AuditScore < 0 || *raw.AuditScore > 100) {
		fail("audit_score", "must be between 0 and 100")
	}
	if raw.CORScore != nil && (*raw.CORScore < 0 || *raw.CORScore > 100) {
		fail("cor_score", "must be between 0 and 100")
	}
	if raw.MatchConfidence != nil && (*raw.MatchConfidence < 0 || *raw.MatchConfidence > 1) {
		fail("match_confidence", "must be between 0 and 1")
	}
	for field, value := range map[string]*int{
		"word_count":      raw.WordCount,
		"internal_links":  raw.InternalLinks,
		"external_links":  raw.ExternalLinks,
		"gsc_clicks":      raw.GSCClicks,
		"gsc_impressions": raw.GSCImpressions,
	} {
		if value != nil && *value < 0 {
			fail(field, "must not be negative")
		}
	}
	if raw.GSCPosition != nil && *raw.GSCPosition < 0 {
		fail("gsc_position", "must not be negative")
	}
	switch raw.CWVAssessment {
	case "", CWVGood, CWVNeedsImprovement, CWVPoor:
	default:
		fail("cwv_assessment", fmt.Sprintf("must be one of %q, %q, %q", CWVGood, CWVNeedsImprovement, CWVPoor))
	}

	item := Item{
		ID:                       strings.TrimSpace(raw.ID),
		URL:                      strings.TrimSpace(raw.URL),
		AuditScore:               raw.AuditScore,
		WordCount:                raw.WordCount,
		InternalLinkCount:        raw.InternalLinks,
		ExternalLinkCount:        raw.ExternalLinks,
		SchemaTypes:              raw.SchemaTypes,
		GSCClicks:                raw.GSCClicks,
		GSCImpressions:           raw.GSCImpressions,
		GSCPosition:              raw.GSCPosition,
		StrikingDistanceKeywords: raw.StrikingDistanceKeywords,
		CWVAssessment:            raw.CWVAssessment,
		CORScore:                 raw.CORScore,
		DOMSizeKB:                raw.DOMSizeKB,
		TTFBMs:                   raw.TTFBMs,
		MatchConfidence:          raw.MatchConfidence,
		GoogleCanonical:          strings.TrimSpace(raw.GoogleCanonical),
		IndexStatus:              strings.TrimSpace(raw.IndexStatus),
		SourceFile:               source,
	}
	return item, errs
}

// ParseTopicsDocument unmarshals and validates a YAML topic-plan document.
func ParseTopicsDocument(data []byte, source string) ([]Topic, error) {
	var raw rawTopicsDocument
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, ValidationErrors{{
			File:    source,
			Field:   "yaml",
			Message: err.Error(),
		}}
	}

	var errs ValidationErrors
	if len(raw.Topics) == 0 {
		errs = append(errs, ValidationError{
			File:    source,
			Field:   "topics",
			Message: "must contain at least one topic",
		})
	}

	seen := make(map[string]struct{})
	var topics []Topic
	for idx, t := range raw.Topics {
		fieldPath := fmt.Sprintf("topics[%d]", idx)
		if strings.TrimSpace(t.ID) == "" {
			errs = append(errs, ValidationError{
				File:    source,
				Field:   fieldPath + ".topic_id",
				Message: "topic_id is required",
			})
		}
		if strings.TrimSpace(t.Title) == "" {
			errs = append(errs, ValidationError{
				File:    source,
				Field:   fieldPath + ".title",
				Message: "title is required",
			})
		}
		if t.ID != "" {
			if _, exists := seen[t.ID]; exists {
				errs = append(errs, ValidationError{
					File:    source,
					Field:   fieldPath + ".topic_id",
					Message: fmt.Sprintf("duplicate topic_id %q", t.ID),
				})
			} else {
				seen[t.ID] = struct{}{}
			}
		}
		topics = append(topics, Topic{
			ID:            strings.TrimSpace(t.ID),
			Title:         strings.TrimSpace(t.Title),
			ParentTopicID: strings.TrimSpace(t.ParentTopicID),
			SourceFile:    source,
		})
	}

	if len(errs) > 0 {
		return nil, errs
	}
	return topics, nil
}
