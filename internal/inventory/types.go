package inventory

// Core Web Vitals assessment buckets reported by the crawler.
const (
	CWVGood             = "good"
	CWVNeedsImprovement = "needs-improvement"
	CWVPoor             = "poor"
)

// Item is a single crawled URL from the existing site. Every metric field is
// optional: crawls are frequently partial, and absence must be distinguishable
// from a genuine zero, so scalars are pointer-typed.
type Item struct {
	ID  string
	URL string

	AuditScore               *float64
	WordCount                *int
	InternalLinkCount        *int
	ExternalLinkCount        *int
	SchemaTypes              []string
	GSCClicks                *int
	GSCImpressions           *int
	GSCPosition              *float64
	StrikingDistanceKeywords []string
	CWVAssessment            string
	CORScore                 *float64
	DOMSizeKB                *float64
	TTFBMs                   *float64
	MatchConfidence          *float64
	GoogleCanonical          string
	IndexStatus              string

	SourceFile string
}

// Clicks returns the recorded Search Console clicks, treating absent as zero.
func (i Item) Clicks() int {
	if i.GSCClicks == nil {
		return 0
	}
	return *i.GSCClicks
}

// Impressions returns the recorded Search Console impressions, treating absent as zero.
func (i Item) Impressions() int {
	if i.GSCImpressions == nil {
		return 0
	}
	return *i.GSCImpressions
}

// Topic is one node of the target topical content plan.
type Topic struct {
	ID            string
	Title         string
	ParentTopicID string
	SourceFile    string
}

// Store is the in-memory representation of a loaded site inventory and
// target topic plan.
type Store struct {
	Items  []Item
	Topics []Topic

	itemsByID  map[string]Item
	topicsByID map[string]Topic
}

// ItemLookup returns the inventory item for the given id, if present.
func (s *Store) ItemLookup(id string) (Item, bool) {
	if s == nil {
		return Item{}, false
	}
	item, ok := s.itemsByID[id]
	return item, ok
}

// TopicLookup returns the topic for the given id, if present.
func (s *Store) TopicLookup(id string) (Topic, bool) {
	if s == nil {
		return Topic{}, false
	}
	topic, ok := s.topicsByID[id]
	return topic, ok
}

// NewStore builds an indexed store from already-validated items and topics.
func NewStore(items []Item, topics []Topic) *Store {
	return buildStore(items, topics)
}

func buildStore(items []Item, topics []Topic) *Store {
	store := &Store{
		Items:      items,
		Topics:     topics,
		itemsByID:  make(map[string]Item, len(items)),
		topicsByID: make(map[string]Topic, len(topics)),
	}
	for _, item := range items {
		store.itemsByID[item.ID] = item
	}
	for _, topic := range topics {
		store.topicsByID[topic.ID] = topic
	}
	return store
}
