package inventory

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
)

// LoadFromDir loads and validates all inventory YAML files from inventoryDir
// plus the topic plan at topicsPath.
func LoadFromDir(inventoryDir, topicsPath string) (*Store, error) {
	if inventoryDir == "" {
		inventoryDir = "inventory"
	}
	if topicsPath == "" {
		topicsPath = "topics.yml"
	}

	files, err := filepath.Glob(filepath.Join(inventoryDir, "*.yml"))
	if err != nil {
		return nil, fmt.Errorf("scan inventory dir: %w", err)
	}
	if len(files) == 0 {
		return nil, fmt.Errorf("no inventory YAML files found in %s", inventoryDir)
	}
	sort.Strings(files)

	var items []Item
	var vErrs ValidationErrors

	for _, path := range files {
		data, readErr := os.ReadFile(path)
		if readErr != nil {
			return nil, fmt.Errorf("read %s: %w", path, readErr)
		}
		fileItems, parseErr := ParseInventoryDocument(data, path)
		if parseErr != nil {
			if ve, ok := parseErr.(ValidationErrors); ok {
				vErrs = append(vErrs, ve...)
				continue
			}
			return nil, parseErr
		}
		items = append(items, fileItems...)
	}

	topicsData, err := os.ReadFile(topicsPath)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", topicsPath, err)
	}
	topics, parseErr := ParseTopicsDocument(topicsData, topicsPath)
	if parseErr != nil {
		if ve, ok := parseErr.(ValidationErrors); ok {
			vErrs = append(vErrs, ve...)
		} else {
			return nil, parseErr
		}
	}

	vErrs = append(vErrs, validateCrossFileUniqueness(items)...)

	if len(vErrs) > 0 {
		return nil, vErrs
	}
	return buildStore(items, topics), nil
}

func validateCrossFileUniqueness(items []Item) ValidationErrors {
	var errs ValidationErrors
	type origin struct {
		file string
	}
	seen := make(map[string]origin)

	for _, item := range items {
		if item.ID == "" {
			continue
		}
		if first, exists := seen[item.ID]; exists && first.file != item.SourceFile {
			errs = append(errs, ValidationError{
				File:    item.SourceFile,
				Field:   "id",
				Message: fmt.Sprintf("page id %q already defined in %s", item.ID, first.file),
			})
			continue
		}
		seen[item.ID] = origin{file: item.SourceFile}
	}
	return errs
}
