package planner

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// WritePlan persists a plan atomically as indented JSON.
func WritePlan(path string, plan *Plan) error {
	if path == "" {
		return fmt.Errorf("plan path is required")
	}
	if plan == nil {
		return fmt.Errorf("plan is required")
	}

	data, err := json.MarshalIndent(plan, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal plan: %w", err)
	}
	data = append(data, '\n')

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("ensure plan dir: %w", err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(path), filepath.Base(path)+".tmp-*")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	tmpName := tmp.Name()
	defer func() {
		_ = os.Remove(tmpName)
	}()
	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("write temp plan: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close temp plan: %w", err)
	}

	if err := os.Rename(tmpName, path); err != nil {
		return fmt.Errorf("rename plan: %w", err)
	}
	return nil
}

// LoadPlan reads a previously written plan file.
func LoadPlan(path string) (*Plan, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read plan: %w", err)
	}
	var plan Plan
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&plan); err != nil {
		return nil, fmt.Errorf("decode plan: %w", err)
	}
	if plan.SchemaVersion != PlanSchemaVersion {
		return nil, fmt.Errorf("unsupported plan schema_version %d", plan.SchemaVersion)
	}
	return &plan, nil
}

// ResolvePlanPath accepts either a plan file or a directory holding plan.json.
func ResolvePlanPath(inputPath string) (string, error) {
	if inputPath == "" {
		return "", fmt.Errorf("plan path is required")
	}
	info, err := os.Stat(inputPath)
	if err != nil {
		return "", fmt.Errorf("stat plan path: %w", err)
	}
	if info.IsDir() {
		return filepath.Join(inputPath, "plan.json"), nil
	}
	return inputPath, nil
}
