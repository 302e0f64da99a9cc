package foodcatalog

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"
	"gopkg.in/yaml.v3"

	"github.com/yanqian/ppgi-advisor/internal/domain/food"
)

// Load reads a food table from a .yaml/.yml or .xlsx file.
func Load(path string) (*food.Catalog, error) {
	var (
		items []food.Item
		err   error
	)
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		items, err = readYAML(path)
	case ".xlsx":
		items, err = readXLSX(path)
	default:
		return nil, fmt.Errorf("unsupported food catalog format %q", filepath.Ext(path))
	}
	if err != nil {
		return nil, err
	}
	catalog, err := food.NewCatalog(items)
	if err != nil {
		return nil, fmt.Errorf("build food catalog: %w", err)
	}
	return catalog, nil
}

type yamlDocument struct {
	Foods []food.Item `yaml:"foods"`
}

func readYAML(path string) ([]food.Item, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read food catalog: %w", err)
	}
	var doc yamlDocument
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parse food catalog: %w", err)
	}
	return doc.Foods, nil
}

var xlsxColumns = []string{"key", "label", "carb", "protein", "fat", "dietary_fiber"}

func readXLSX(path string) ([]food.Item, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("open food catalog: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("food catalog %s has no sheets", path)
	}
	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("read food catalog rows: %w", err)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("food catalog %s has no header row", path)
	}

	header := make(map[string]int, len(rows[0]))
	for i, h := range rows[0] {
		name := strings.ToLower(strings.TrimSpace(h))
		name = strings.ReplaceAll(name, " ", "_")
		header[name] = i
	}
	for _, col := range xlsxColumns {
		if _, ok := header[col]; !ok {
			return nil, fmt.Errorf("food catalog header missing %q column", col)
		}
	}

	items := make([]food.Item, 0, len(rows)-1)
	for n, row := range rows[1:] {
		cell := func(col string) string {
			idx := header[col]
			if idx >= len(row) {
				return ""
			}
			return strings.TrimSpace(row[idx])
		}
		if cell("key") == "" {
			continue
		}
		item := food.Item{Key: cell("key"), Label: cell("label")}
		targets := map[string]*float64{
			"carb":          &item.Nutrients.Carb,
			"protein":       &item.Nutrients.Protein,
			"fat":           &item.Nutrients.Fat,
			"dietary_fiber": &item.Nutrients.DietaryFiber,
		}
		for col, dst := range targets {
			raw := cell(col)
			if raw == "" {
				continue
			}
			v, err := strconv.ParseFloat(raw, 64)
			if err != nil {
				return nil, fmt.Errorf("food catalog row %d column %s: %w", n+2, col, err)
			}
			*dst = v
		}
		items = append(items, item)
	}
	return items, nil
}
