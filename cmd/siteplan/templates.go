package main

import "fmt"

const minimalInventoryTemplate = `pages:
  - id: page-001
    url: https://example.com/blog/getting-started
    audit_score: 78
    word_count: 1450
    internal_links: 14
    external_links: 3
    schema_types: [Article]
    gsc_clicks: 220
    gsc_impressions: 5400
    gsc_position: 7.4
    cwv_assessment: good
    match_confidence: 0.88
  - id: page-002
    url: https://example.com/blog/old-announcement
    audit_score: 31
    word_count: 240
    internal_links: 2
    gsc_impressions: 40
  - id: page-003
    url: https://example.com/guides/setup
    audit_score: 55
    word_count: 900
    internal_links: 9
    gsc_clicks: 35
    gsc_impressions: 800
    gsc_position: 12.1
    striking_distance_keywords: [setup guide, install tutorial]
    match_confidence: 0.71
`

const minimalTopicsTemplate = `topics:
  - topic_id: topic-getting-started
    title: Getting Started
  - topic_id: topic-setup
    title: Setup & Installation
    parent_topic_id: topic-getting-started
  - topic_id: topic-pricing
    title: Pricing
`

func minimalMatchSetTemplate(date string) string {
	return fmt.Sprintf(`{
  "schema_version": 1,
  "as_of": %q,
  "matches": [
    {"inventory_id": "page-001", "category": "matched", "topic_id": "topic-getting-started", "confidence": 0.88},
    {"inventory_id": "page-002", "category": "orphan", "confidence": 0.2},
    {"inventory_id": "page-003", "category": "matched", "topic_id": "topic-setup", "confidence": 0.71}
  ],
  "gaps": [
    {"topic_id": "topic-pricing", "topic_title": "Pricing", "importance": "pillar"}
  ]
}
`, date)
}
