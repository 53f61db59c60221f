package matchset

import (
	"os"
	"testing"

	"siteplan/internal/inventory"
)

func storeWith(t *testing.T, itemIDs, topicIDs []string) *inventory.Store {
	t.Helper()
	var items []inventory.Item
	for _, id := range itemIDs {
		items = append(items, inventory.Item{ID: id, URL: "https://example.com/" + id})
	}
	var topics []inventory.Topic
	for _, id := range topicIDs {
		topics = append(topics, inventory.Topic{ID: id, Title: id})
	}
	return inventory.NewStore(items, topics)
}

func writeFile(t *testing.T, path, content string) error {
	t.Helper()
	return os.WriteFile(path, []byte(content), 0o644)
}
