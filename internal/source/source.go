// Package source wires fetching raw files to normalizing them into typed records.
package source

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// Source is one dataset: Fetch puts raw files on disk, Normalize turns them into records.
type Source[T any] interface {
	Fetch(ctx context.Context) ([]string, error)
	Normalize(ctx context.Context, paths []string) ([]T, error)
}

// Collect runs Fetch then Normalize.
func Collect[T any](ctx context.Context, src Source[T]) ([]T, error) {
	paths, err := src.Fetch(ctx)
	if err != nil {
		return nil, err
	}
	return src.Normalize(ctx, paths)
}

var spreadsheetExt = map[string]bool{".xlsx": true, ".xlsm": true, ".xls": true, ".csv": true}

// listSpreadsheets returns the spreadsheet files directly under dir, sorted by name.
func listSpreadsheets(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("list %s: %w", dir, err)
	}
	var out []string
	for _, e := range entries {
		if e.IsDir() || !spreadsheetExt[strings.ToLower(filepath.Ext(e.Name()))] {
			continue
		}
		out = append(out, filepath.Join(dir, e.Name()))
	}
	sort.Strings(out)
	return out, nil
}
