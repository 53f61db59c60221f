package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"siteplan/internal/audit"
	"siteplan/internal/crawlstore"
	"siteplan/internal/export"
	"siteplan/internal/guardrails"
	"siteplan/internal/inventory"
	"siteplan/internal/matchset"
	"siteplan/internal/planner"
	"siteplan/internal/signals"
	"siteplan/internal/workspace"

	"github.com/pmezard/go-difflib/difflib"
)

const appName = "siteplan"

func main() {
	flag.String("workspace", "", "Path to workspace root")
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "%s: site-migration planning\n\n", appName)
		fmt.Fprintf(os.Stderr, "Usage:\n  %s [command] [flags]\n\n", appName)
		fmt.Fprintln(os.Stderr, "Commands:")
		fmt.Fprintln(os.Stderr, "  init       Initialize a new workspace")
		fmt.Fprintln(os.Stderr, "  inventory  Manage the site inventory")
		fmt.Fprintln(os.Stderr, "  plan       Generate and inspect migration plans")
		fmt.Fprintln(os.Stderr, "  audit      Inspect the audit log")
		fmt.Fprintln(os.Stderr, "  help       Show this help")
		fmt.Fprintln(os.Stderr, "\nFlags:")
		flag.PrintDefaults()
	}

	workspacePath, remaining, err := extractWorkspaceFlag(os.Args[1:])
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	args := remaining
	if len(args) == 0 || args[0] == "help" || args[0] == "-h" || args[0] == "--help" {
		flag.Usage()
		return
	}

	switch args[0] {
	case "init":
		if err := runInit(args[1:], workspacePath); err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}
	case "inventory":
		if err := runInventory(args[1:], workspacePath); err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}
	case "plan":
		if err := runPlan(args[1:], workspacePath); err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}
	case "audit":
		if err := runAudit(args[1:], workspacePath); err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n\n", args[0])
		flag.Usage()
		os.Exit(1)
	}
}

type workspaceOverrides struct {
	InventoryDir string
	TopicsPath   string
	MatchesDir   string
	ArtifactsDir string
	AuditDB      string
}

type resolvedWorkspace struct {
	Workspace    *workspace.Workspace
	InventoryDir string
	TopicsPath   string
	MatchesDir   string
	ArtifactsDir string
	PlansDir     string
	AuditDB      string
}

func resolveWorkspaceAndOverrides(root string, overrides workspaceOverrides) (*resolvedWorkspace, error) {
	root = strings.TrimSpace(root)
	if root == "" {
		return nil, fmt.Errorf("--workspace is required")
	}
	ws, err := workspace.Resolve(root)
	if err != nil {
		return nil, err
	}
	resolved := &resolvedWorkspace{Workspace: ws}
	resolved.InventoryDir = ws.InventoryDir
	resolved.TopicsPath = ws.TopicsPath
	resolved.MatchesDir = ws.MatchesDir
	resolved.ArtifactsDir = ws.ArtifactsDir
	resolved.PlansDir = ws.PlansDir
	resolved.AuditDB = ws.AuditDBPath

	if overrides.InventoryDir != "" {
		resolved.InventoryDir, err = ws.ResolvePath(overrides.InventoryDir)
		if err != nil {
			return nil, fmt.Errorf("resolve --inventory-dir: %w", err)
		}
	}
	if overrides.TopicsPath != "" {
		resolved.TopicsPath, err = ws.ResolvePath(overrides.TopicsPath)
		if err != nil {
			return nil, fmt.Errorf("resolve --topics: %w", err)
		}
	}
	if overrides.MatchesDir != "" {
		resolved.MatchesDir, err = ws.ResolvePath(overrides.MatchesDir)
		if err != nil {
			return nil, fmt.Errorf("resolve --matches-dir: %w", err)
		}
	}
	if overrides.ArtifactsDir != "" {
		resolved.ArtifactsDir, err = ws.ResolvePath(overrides.ArtifactsDir)
		if err != nil {
			return nil, fmt.Errorf("resolve --artifacts-dir: %w", err)
		}
		resolved.PlansDir = filepath.Join(resolved.ArtifactsDir, "plans")
	}
	if overrides.AuditDB != "" {
		resolved.AuditDB, err = ws.ResolvePath(overrides.AuditDB)
		if err != nil {
			return nil, fmt.Errorf("resolve --audit-db: %w", err)
		}
	}
	return resolved, nil
}

func extractWorkspaceFlag(args []string) (string, []string, error) {
	var workspacePath string
	remaining := make([]string, 0, len(args))
	for i := 0; i < len(args); i++ {
		arg := args[i]
		if arg == "--workspace" {
			if i+1 >= len(args) {
				return "", nil, fmt.Errorf("--workspace requires a value")
			}
			workspacePath = args[i+1]
			i++
			continue
		}
		if strings.HasPrefix(arg, "--workspace=") {
			workspacePath = strings.TrimPrefix(arg, "--workspace=")
			continue
		}
		remaining = append(remaining, arg)
	}
	return workspacePath, remaining, nil
}

func runInit(args []string, workspacePath string) error {
	fs := flag.NewFlagSet("init", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	template := fs.String("template", "minimal", "Workspace template (default: minimal)")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *template != "minimal" {
		return fmt.Errorf("unknown template: %s", *template)
	}
	if strings.TrimSpace(workspacePath) == "" {
		return fmt.Errorf("--workspace is required")
	}

	root, err := workspace.ResolveRoot(workspacePath)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(root, 0o755); err != nil {
		return fmt.Errorf("create workspace root: %w", err)
	}
	ws, err := workspace.Resolve(root)
	if err != nil {
		return err
	}
	if err := ws.EnsureDirs(); err != nil {
		return err
	}

	logger := audit.NewLogger(ws.AuditDBPath)
	if err := logger.Log("cli", "workspace_initialized", map[string]any{
		"workspace": ws.Root,
		"template":  *template,
	}); err != nil {
		fmt.Fprintln(os.Stderr, "audit log failed:", err)
	}

	if err := writeFileIfMissing(filepath.Join(ws.InventoryDir, "site.yml"), minimalInventoryTemplate); err != nil {
		return err
	}
	if err := writeFileIfMissing(ws.TopicsPath, minimalTopicsTemplate); err != nil {
		return err
	}
	date := time.Now().UTC().Format("2006-01-02")
	if err := writeFileIfMissing(filepath.Join(ws.MatchesDir, date+".json"), minimalMatchSetTemplate(date)); err != nil {
		return err
	}

	fmt.Fprintf(os.Stdout, "Initialized workspace: %s\n", ws.Root)
	fmt.Fprintln(os.Stdout, "Next steps:")
	fmt.Fprintf(os.Stdout, "  %s inventory validate --workspace %s\n", appName, ws.Root)
	fmt.Fprintf(os.Stdout, "  %s plan generate --workspace %s\n", appName, ws.Root)
	fmt.Fprintf(os.Stdout, "  %s plan export --workspace %s --format markdown\n", appName, ws.Root)
	return nil
}

func runInventory(args []string, workspacePath string) error {
	if len(args) == 0 || args[0] == "help" || args[0] == "-h" || args[0] == "--help" {
		return fmt.Errorf("%s inventory: missing subcommand (validate, import, export, score)", appName)
	}

	switch args[0] {
	case "validate":
		return runInventoryValidate(args[1:], workspacePath)
	case "import":
		return runInventoryImport(args[1:], workspacePath)
	case "export":
		return runInventoryExport(args[1:], workspacePath)
	case "score":
		return runInventoryScore(args[1:], workspacePath)
	default:
		return fmt.Errorf("%s inventory: unknown subcommand %q", appName, args[0])
	}
}

func runInventoryValidate(args []string, workspacePath string) error {
	fs := flag.NewFlagSet("inventory validate", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	inventoryDir := fs.String("inventory-dir", "", "Path to inventory YAML directory (default: <workspace>/inventory)")
	topicsPath := fs.String("topics", "", "Path to topic plan YAML (default: <workspace>/topics.yml)")
	if err := fs.Parse(args); err != nil {
		return err
	}

	resolved, err := resolveWorkspaceAndOverrides(workspacePath, workspaceOverrides{
		InventoryDir: *inventoryDir,
		TopicsPath:   *topicsPath,
	})
	if err != nil {
		return err
	}

	store, err := inventory.LoadFromDir(resolved.InventoryDir, resolved.TopicsPath)
	if err != nil {
		return err
	}

	fmt.Fprintf(os.Stdout, "Inventory OK: %d pages, %d topics\n", len(store.Items), len(store.Topics))
	return nil
}

func runInventoryImport(args []string, workspacePath string) error {
	fs := flag.NewFlagSet("inventory import", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	dbPath := fs.String("db", "", "Path to crawl SQLite DB (default: <workspace>/crawl.sqlite)")
	outFile := fs.String("out", "", "Inventory YAML file to write (default: <workspace>/inventory/crawl.yml)")
	if err := fs.Parse(args); err != nil {
		return err
	}

	resolved, err := resolveWorkspaceAndOverrides(workspacePath, workspaceOverrides{})
	if err != nil {
		return err
	}
	if err := resolved.Workspace.EnsureDirs(); err != nil {
		return err
	}

	absDB := resolved.Workspace.CrawlDBPath
	if *dbPath != "" {
		absDB, err = resolved.Workspace.ResolvePath(*dbPath)
		if err != nil {
			return fmt.Errorf("resolve --db: %w", err)
		}
	}
	absOut := filepath.Join(resolved.InventoryDir, "crawl.yml")
	if *outFile != "" {
		absOut, err = resolved.Workspace.ResolvePath(*outFile)
		if err != nil {
			return fmt.Errorf("resolve --out: %w", err)
		}
	}

	cs, err := crawlstore.Open(absDB)
	if err != nil {
		return err
	}
	defer func() {
		_ = cs.Close()
	}()

	items, err := cs.Pages()
	if err != nil {
		return err
	}
	if len(items) == 0 {
		return fmt.Errorf("crawl db %s contains no pages", absDB)
	}

	if err := inventory.WriteInventoryFile(absOut, items); err != nil {
		return err
	}

	logger := audit.NewLogger(resolved.AuditDB)
	_ = logger.Log("cli", "inventory_imported", map[string]any{
		"crawl_db": absDB,
		"out":      absOut,
		"pages":    len(items),
	})

	fmt.Fprintf(os.Stdout, "Imported %d pages into %s\n", len(items), absOut)
	return nil
}

func runInventoryExport(args []string, workspacePath string) error {
	fs := flag.NewFlagSet("inventory export", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	dbPath := fs.String("db", "", "Path to crawl SQLite DB to write (default: <workspace>/crawl.sqlite)")
	inventoryDir := fs.String("inventory-dir", "", "Path to inventory YAML directory (default: <workspace>/inventory)")
	topicsPath := fs.String("topics", "", "Path to topic plan YAML (default: <workspace>/topics.yml)")
	if err := fs.Parse(args); err != nil {
		return err
	}

	resolved, err := resolveWorkspaceAndOverrides(workspacePath, workspaceOverrides{
		InventoryDir: *inventoryDir,
		TopicsPath:   *topicsPath,
	})
	if err != nil {
		return err
	}

	absDB := resolved.Workspace.CrawlDBPath
	if *dbPath != "" {
		absDB, err = resolved.Workspace.ResolvePath(*dbPath)
		if err != nil {
			return fmt.Errorf("resolve --db: %w", err)
		}
	}

	store, err := inventory.LoadFromDir(resolved.InventoryDir, resolved.TopicsPath)
	if err != nil {
		return err
	}

	cs, err := crawlstore.Open(absDB)
	if err != nil {
		return err
	}
	defer func() {
		_ = cs.Close()
	}()

	for _, item := range store.Items {
		if err := cs.UpsertPage(item); err != nil {
			return err
		}
	}

	fmt.Fprintf(os.Stdout, "Exported %d pages to %s\n", len(store.Items), absDB)
	return nil
}

func runInventoryScore(args []string, workspacePath string) error {
	fs := flag.NewFlagSet("inventory score", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	inventoryDir := fs.String("inventory-dir", "", "Path to inventory YAML directory (default: <workspace>/inventory)")
	topicsPath := fs.String("topics", "", "Path to topic plan YAML (default: <workspace>/topics.yml)")
	asOf := fs.String("as-of", "", "Scoring date YYYY-MM-DD (default: today)")
	apply := fs.Bool("apply", false, "Write scores back into inventory YAML (default: print diffs only)")
	if err := fs.Parse(args); err != nil {
		return err
	}

	resolved, err := resolveWorkspaceAndOverrides(workspacePath, workspaceOverrides{
		InventoryDir: *inventoryDir,
		TopicsPath:   *topicsPath,
	})
	if err != nil {
		return err
	}

	store, err := inventory.LoadFromDir(resolved.InventoryDir, resolved.TopicsPath)
	if err != nil {
		return err
	}

	asOfDate := *asOf
	if asOfDate == "" {
		asOfDate = time.Now().UTC().Format("2006-01-02")
	}

	avg := signals.ComputeSiteAverages(store.Items)
	scores := make(map[string]inventory.PageScores, len(store.Items))
	for _, item := range store.Items {
		sc := signals.Compute(item, avg)
		scores[item.ID] = inventory.PageScores{
			ContentHealth:      sc.ContentHealth,
			TrafficOpportunity: sc.TrafficOpportunity,
			TechnicalHealth:    sc.TechnicalHealth,
			StrategicAlignment: sc.StrategicAlignment,
			LinkingStrength:    sc.LinkingStrength,
			Composite:          sc.Composite,
		}
	}

	result, err := inventory.WriteScores(resolved.InventoryDir, scores, asOfDate, *apply)
	if err != nil {
		return err
	}

	for _, file := range result.Files {
		fmt.Fprint(os.Stdout, file.Diff)
	}
	if *apply {
		logger := audit.NewLogger(resolved.AuditDB)
		_ = logger.Log("cli", "scores_written_back", map[string]any{
			"inventory_dir": resolved.InventoryDir,
			"as_of":         asOfDate,
			"files":         len(result.Files),
		})
		fmt.Fprintf(os.Stdout, "Scored %d pages across %d files\n", len(scores), len(result.Files))
	} else {
		fmt.Fprintln(os.Stdout, "Dry run; re-run with --apply to write scores")
	}
	return nil
}

func runPlan(args []string, workspacePath string) error {
	if len(args) == 0 || args[0] == "help" || args[0] == "-h" || args[0] == "--help" {
		return fmt.Errorf("%s plan: missing subcommand (generate, verify, export, diff)", appName)
	}

	switch args[0] {
	case "generate":
		return runPlanGenerate(args[1:], workspacePath)
	case "verify":
		return runPlanVerify(args[1:], workspacePath)
	case "export":
		return runPlanExport(args[1:], workspacePath)
	case "diff":
		return runPlanDiff(args[1:], workspacePath)
	default:
		return fmt.Errorf("%s plan: unknown subcommand %q", appName, args[0])
	}
}

func runPlanGenerate(args []string, workspacePath string) error {
	fs := flag.NewFlagSet("plan generate", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	inventoryDir := fs.String("inventory-dir", "", "Path to inventory YAML directory (default: <workspace>/inventory)")
	topicsPath := fs.String("topics", "", "Path to topic plan YAML (default: <workspace>/topics.yml)")
	matchesPath := fs.String("matches", "", "Path to match set JSON (default: latest in <workspace>/matches)")
	outPath := fs.String("out", "", "Plan file to write (default: <workspace>/artifacts/plans/<as_of>/plan.json)")
	language := fs.String("language", "", "Reasoning language hint (reserved)")
	industry := fs.String("industry", "", "Industry hint (reserved)")
	if err := fs.Parse(args); err != nil {
		return err
	}

	resolved, err := resolveWorkspaceAndOverrides(workspacePath, workspaceOverrides{
		InventoryDir: *inventoryDir,
		TopicsPath:   *topicsPath,
	})
	if err != nil {
		return err
	}
	if err := resolved.Workspace.EnsureDirs(); err != nil {
		return err
	}

	store, err := inventory.LoadFromDir(resolved.InventoryDir, resolved.TopicsPath)
	if err != nil {
		return err
	}

	absMatches := *matchesPath
	if absMatches == "" {
		absMatches, err = matchset.LatestPath(resolved.MatchesDir)
		if err != nil {
			return err
		}
	} else {
		absMatches, err = resolved.Workspace.ResolvePath(absMatches)
		if err != nil {
			return fmt.Errorf("resolve --matches: %w", err)
		}
	}

	set, err := matchset.Load(absMatches)
	if err != nil {
		return err
	}
	warnings, err := matchset.Validate(set, store)
	if err != nil {
		return err
	}
	for _, w := range warnings {
		fmt.Fprintln(os.Stderr, "warning:", w)
	}

	var planCtx *planner.Context
	if *language != "" || *industry != "" {
		planCtx = &planner.Context{Language: *language, Industry: *industry}
	}

	plan, err := planner.GeneratePlan(planner.Input{
		Inventory: store.Items,
		Topics:    store.Topics,
		Matches:   set.Matches,
		Gaps:      set.Gaps,
		Context:   planCtx,
	})
	if err != nil {
		return err
	}
	plan.AsOf = set.AsOf
	plan.GeneratedAt = time.Now().UTC().Format(time.RFC3339)

	if violations := guardrails.CheckPlan(plan); len(violations) > 0 {
		for _, v := range violations {
			fmt.Fprintln(os.Stderr, "invariant violation:", v)
		}
		return fmt.Errorf("generated plan failed %d invariant checks", len(violations))
	}

	absOut := *outPath
	if absOut == "" {
		absOut = filepath.Join(resolved.PlansDir, set.AsOf, "plan.json")
	} else {
		absOut, err = resolved.Workspace.ResolvePath(absOut)
		if err != nil {
			return fmt.Errorf("resolve --out: %w", err)
		}
	}
	if err := planner.WritePlan(absOut, plan); err != nil {
		return err
	}

	logger := audit.NewLogger(resolved.AuditDB)
	_ = logger.Log("cli", "plan_generated", map[string]any{
		"matches": absMatches,
		"plan":    absOut,
		"actions": len(plan.Actions),
	})

	fmt.Fprintf(os.Stdout, "Plan written: %s (%d actions)\n", absOut, len(plan.Actions))
	return nil
}

func runPlanVerify(args []string, workspacePath string) error {
	fs := flag.NewFlagSet("plan verify", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	planPath := fs.String("plan", "", "Path to plan file or directory")
	matchesPath := fs.String("matches", "", "Optional match set JSON to cross-check")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *planPath == "" {
		return fmt.Errorf("--plan path is required")
	}

	resolved, err := resolveWorkspaceAndOverrides(workspacePath, workspaceOverrides{})
	if err != nil {
		return err
	}
	absPlan, err := resolved.Workspace.ResolvePath(*planPath)
	if err != nil {
		return fmt.Errorf("resolve --plan: %w", err)
	}
	absPlan, err = planner.ResolvePlanPath(absPlan)
	if err != nil {
		return err
	}

	plan, err := planner.LoadPlan(absPlan)
	if err != nil {
		return err
	}

	violations := guardrails.CheckPlan(plan)
	if *matchesPath != "" {
		absMatches, resolveErr := resolved.Workspace.ResolvePath(*matchesPath)
		if resolveErr != nil {
			return fmt.Errorf("resolve --matches: %w", resolveErr)
		}
		set, loadErr := matchset.Load(absMatches)
		if loadErr != nil {
			return loadErr
		}
		violations = append(violations, guardrails.CheckAgainstMatches(plan, set)...)
	}

	if len(violations) > 0 {
		for _, v := range violations {
			fmt.Fprintln(os.Stderr, "invariant violation:", v)
		}
		return fmt.Errorf("plan failed %d invariant checks", len(violations))
	}

	fmt.Fprintf(os.Stdout, "Plan OK: %d actions\n", len(plan.Actions))
	return nil
}

func runPlanExport(args []string, workspacePath string) error {
	fs := flag.NewFlagSet("plan export", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	planPath := fs.String("plan", "", "Path to plan file or directory (default: latest in <workspace>/artifacts/plans)")
	format := fs.String("format", "json", "Export format: json, csv, or markdown")
	outPath := fs.String("out", "", "Output file (default: stdout)")
	if err := fs.Parse(args); err != nil {
		return err
	}

	resolved, err := resolveWorkspaceAndOverrides(workspacePath, workspaceOverrides{})
	if err != nil {
		return err
	}

	absPlan := *planPath
	if absPlan == "" {
		absPlan, err = latestPlanPath(resolved.PlansDir)
		if err != nil {
			return err
		}
	} else {
		absPlan, err = resolved.Workspace.ResolvePath(absPlan)
		if err != nil {
			return fmt.Errorf("resolve --plan: %w", err)
		}
		absPlan, err = planner.ResolvePlanPath(absPlan)
		if err != nil {
			return err
		}
	}

	plan, err := planner.LoadPlan(absPlan)
	if err != nil {
		return err
	}

	exporter, err := export.ForFormat(*format)
	if err != nil {
		return err
	}

	out := os.Stdout
	if *outPath != "" {
		absOut, resolveErr := resolved.Workspace.ResolvePath(*outPath)
		if resolveErr != nil {
			return fmt.Errorf("resolve --out: %w", resolveErr)
		}
		f, createErr := os.Create(absOut)
		if createErr != nil {
			return fmt.Errorf("create %s: %w", absOut, createErr)
		}
		defer func() {
			_ = f.Close()
		}()
		out = f
	}

	if err := exporter.Export(out, plan); err != nil {
		return err
	}

	if *outPath != "" {
		logger := audit.NewLogger(resolved.AuditDB)
		_ = logger.Log("cli", "plan_exported", map[string]any{
			"plan":   absPlan,
			"format": exporter.Name(),
			"out":    *outPath,
		})
	}
	return nil
}

func runPlanDiff(args []string, workspacePath string) error {
	fs := flag.NewFlagSet("plan diff", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	if err := fs.Parse(args); err != nil {
		return err
	}
	rest := fs.Args()
	if len(rest) != 2 {
		return fmt.Errorf("usage: %s plan diff <old-plan> <new-plan>", appName)
	}

	resolved, err := resolveWorkspaceAndOverrides(workspacePath, workspaceOverrides{})
	if err != nil {
		return err
	}

	render := func(path string) (string, []string, error) {
		abs, resolveErr := resolved.Workspace.ResolvePath(path)
		if resolveErr != nil {
			return "", nil, fmt.Errorf("resolve %s: %w", path, resolveErr)
		}
		abs, resolveErr = planner.ResolvePlanPath(abs)
		if resolveErr != nil {
			return "", nil, resolveErr
		}
		plan, loadErr := planner.LoadPlan(abs)
		if loadErr != nil {
			return "", nil, loadErr
		}
		var lines []string
		for _, action := range plan.Actions {
			ref := action.URL
			if ref == "" {
				ref = action.TopicID
			}
			lines = append(lines, fmt.Sprintf("%s %s %s (%s, score %g)",
				action.Priority, action.Action, ref, action.Effort, action.Score))
		}
		return abs, lines, nil
	}

	oldPath, oldLines, err := render(rest[0])
	if err != nil {
		return err
	}
	newPath, newLines, err := render(rest[1])
	if err != nil {
		return err
	}

	diffText, err := difflib.GetUnifiedDiffString(difflib.UnifiedDiff{
		A:        appendNewlines(oldLines),
		B:        appendNewlines(newLines),
		FromFile: oldPath,
		ToFile:   newPath,
		Context:  3,
	})
	if err != nil {
		return fmt.Errorf("diff plans: %w", err)
	}
	if diffText == "" {
		fmt.Fprintln(os.Stdout, "Plans are identical")
		return nil
	}
	fmt.Fprint(os.Stdout, diffText)
	return nil
}

func runAudit(args []string, workspacePath string) error {
	if len(args) == 0 || args[0] == "help" || args[0] == "-h" || args[0] == "--help" {
		return fmt.Errorf("%s audit: missing subcommand (tail)", appName)
	}
	switch args[0] {
	case "tail":
		return runAuditTail(args[1:], workspacePath)
	default:
		return fmt.Errorf("%s audit: unknown subcommand %q", appName, args[0])
	}
}

func runAuditTail(args []string, workspacePath string) error {
	fs := flag.NewFlagSet("audit tail", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	limit := fs.Int("n", 20, "Number of events to show")
	auditDB := fs.String("audit-db", "", "Path to audit SQLite DB (default: <workspace>/audit/audit.sqlite)")
	if err := fs.Parse(args); err != nil {
		return err
	}

	resolved, err := resolveWorkspaceAndOverrides(workspacePath, workspaceOverrides{AuditDB: *auditDB})
	if err != nil {
		return err
	}

	logger := audit.NewLogger(resolved.AuditDB)
	events, err := logger.Tail(*limit)
	if err != nil {
		return err
	}
	if len(events) == 0 {
		fmt.Fprintln(os.Stdout, "No audit events")
		return nil
	}
	for _, ev := range events {
		fmt.Fprintf(os.Stdout, "%s  %s  %s  %s\n",
			ev.TS.Format(time.RFC3339), ev.Source, ev.Type, string(ev.Payload))
	}
	return nil
}

func latestPlanPath(plansDir string) (string, error) {
	entries, err := os.ReadDir(plansDir)
	if err != nil {
		return "", fmt.Errorf("read plans dir: %w", err)
	}
	var dates []string
	for _, ent := range entries {
		if ent.IsDir() {
			dates = append(dates, ent.Name())
		}
	}
	if len(dates) == 0 {
		return "", fmt.Errorf("no plans found in %s", plansDir)
	}
	// YYYY-MM-DD directory names compare lexicographically in date order.
	latest := dates[0]
	for _, d := range dates[1:] {
		if d > latest {
			latest = d
		}
	}
	return filepath.Join(plansDir, latest, "plan.json"), nil
}

func appendNewlines(lines []string) []string {
	out := make([]string, len(lines))
	for i, line := range lines {
		out[i] = line + "\n"
	}
	return out
}

func writeFileIfMissing(path, content string) error {
	if _, err := os.Stat(path); err == nil {
		return nil
	} else if !os.IsNotExist(err) {
		return fmt.Errorf("stat %s: %w", path, err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("ensure %s: %w", filepath.Dir(path), err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}
