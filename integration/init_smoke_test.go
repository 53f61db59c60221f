package integration_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"siteplan/integration/harness"
)

func TestInitSmoke(t *testing.T) {
	binPath := harness.BuildBinary(t)
	runDir := t.TempDir()
	workspaceRoot := filepath.Join(t.TempDir(), "workspace-init")

	args := []string{
		"init",
		"--workspace", workspaceRoot,
	}
	stdout, stderr, code := harness.Run(t, binPath, runDir, args)
	if code != 0 {
		t.Fatalf("siteplan init exit code %d\nstdout:\n%s\nstderr:\n%s", code, stdout, stderr)
	}

	today := time.Now().UTC().Format("2006-01-02")
	paths := []string{
		filepath.Join(workspaceRoot, "inventory"),
		filepath.Join(workspaceRoot, "matches"),
		filepath.Join(workspaceRoot, "artifacts"),
		filepath.Join(workspaceRoot, "artifacts", "plans"),
		filepath.Join(workspaceRoot, "artifacts", "exports"),
		filepath.Join(workspaceRoot, "audit"),
		filepath.Join(workspaceRoot, "inventory", "site.yml"),
		filepath.Join(workspaceRoot, "topics.yml"),
		filepath.Join(workspaceRoot, "matches", today+".json"),
	}
	for _, path := range paths {
		if _, err := os.Stat(path); err != nil {
			t.Fatalf("missing init path %s: %v", path, err)
		}
	}

	auditPath := filepath.Join(workspaceRoot, "audit", "audit.sqlite")
	if _, err := os.Stat(auditPath); err != nil {
		t.Fatalf("audit db not written at %s: %v", auditPath, err)
	}
	requireAuditEvents(t, auditPath, []string{"workspace_initialized"})

	// The generated template workspace must plan end to end.
	stdout, stderr, code = harness.Run(t, binPath, runDir, []string{
		"plan", "generate",
		"--workspace", workspaceRoot,
	})
	if code != 0 {
		t.Fatalf("plan generate on template workspace exit code %d\nstdout:\n%s\nstderr:\n%s", code, stdout, stderr)
	}
	planPath := filepath.Join(workspaceRoot, "artifacts", "plans", today, "plan.json")
	if _, err := os.Stat(planPath); err != nil {
		t.Fatalf("plan not written at %s: %v", planPath, err)
	}
}

func TestInitRejectsUnknownTemplate(t *testing.T) {
	binPath := harness.BuildBinary(t)
	runDir := t.TempDir()

	stdout, stderr, code := harness.Run(t, binPath, runDir, []string{
		"init",
		"--workspace", filepath.Join(t.TempDir(), "ws"),
		"--template", "enterprise",
	})
	if code == 0 {
		t.Fatalf("unknown template accepted\nstdout:\n%s\nstderr:\n%s", stdout, stderr)
	}
}
