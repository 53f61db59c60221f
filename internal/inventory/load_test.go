package inventory

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeWorkspaceFiles(t *testing.T, inventoryFiles map[string]string, topics string) (string, string) {
	t.Helper()
	root := t.TempDir()
	invDir := filepath.Join(root, "inventory")
	if err := os.MkdirAll(invDir, 0o755); err != nil {
		t.Fatal(err)
	}
	for name, content := range inventoryFiles {
		if err := os.WriteFile(filepath.Join(invDir, name), []byte(content), 0o644); err != nil {
			t.Fatal(err)
		}
	}
	topicsPath := filepath.Join(root, "topics.yml")
	if err := os.WriteFile(topicsPath, []byte(topics), 0o644); err != nil {
		t.Fatal(err)
	}
	return invDir, topicsPath
}

const loadTopicsYAML = `topics:
  - topic_id: widgets
    title: Widgets
`

func TestLoadFromDirMergesFiles(t *testing.T) {
	invDir, topicsPath := writeWorkspaceFiles(t, map[string]string{
		"blog.yml": "pages:\n  - id: post-1\n    url: https://example.com/blog/post-1\n",
		"site.yml": "pages:\n  - id: home\n    url: https://example.com/\n",
	}, loadTopicsYAML)

	store, err := LoadFromDir(invDir, topicsPath)
	if err != nil {
		t.Fatal(err)
	}
	if got := len(store.Items); got != 2 {
		t.Fatalf("got %d items, want 2", got)
	}
	if _, ok := store.ItemLookup("post-1"); !ok {
		t.Fatal("post-1 not loaded")
	}
	if _, ok := store.TopicLookup("widgets"); !ok {
		t.Fatal("widgets topic not loaded")
	}
}

func TestLoadFromDirRejectsCrossFileDuplicates(t *testing.T) {
	invDir, topicsPath := writeWorkspaceFiles(t, map[string]string{
		"a.yml": "pages:\n  - id: home\n    url: https://example.com/\n",
		"b.yml": "pages:\n  - id: home\n    url: https://example.com/home\n",
	}, loadTopicsYAML)

	_, err := LoadFromDir(invDir, topicsPath)
	if err == nil {
		t.Fatal("duplicate page id across files accepted")
	}
	if !strings.Contains(err.Error(), "already defined in") {
		t.Fatalf("error = %q, want cross-file duplicate message", err)
	}
}

func TestLoadFromDirCollectsErrorsAcrossFiles(t *testing.T) {
	invDir, topicsPath := writeWorkspaceFiles(t, map[string]string{
		"a.yml": "pages:\n  - id: \"\"\n    url: https://example.com/a\n",
		"b.yml": "pages:\n  - id: b\n    url: \"\"\n",
	}, loadTopicsYAML)

	_, err := LoadFromDir(invDir, topicsPath)
	if err == nil {
		t.Fatal("invalid workspace accepted")
	}
	verrs, ok := err.(ValidationErrors)
	if !ok {
		t.Fatalf("error type %T, want ValidationErrors", err)
	}
	if len(verrs) != 2 {
		t.Fatalf("got %d errors, want problems from both files:\n%s", len(verrs), verrs.Error())
	}
}

func TestLoadFromDirRequiresInventoryFiles(t *testing.T) {
	root := t.TempDir()
	invDir := filepath.Join(root, "inventory")
	if err := os.MkdirAll(invDir, 0o755); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadFromDir(invDir, filepath.Join(root, "topics.yml")); err == nil {
		t.Fatal("empty inventory dir accepted")
	}
}
