package templates

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"contract-scanner/internal/export"
	"contract-scanner/internal/shared/storage/object"
	"contract-scanner/internal/shared/telemetry"
)

// SeedResult counts what Seed did.
type SeedResult struct {
	Written int
	Skipped int
}

// Seed renders each entry's text source in its file type and stores it under
// the entry's FilePath. Existing objects are left alone unless overwrite is set.
func Seed(ctx context.Context, cat *Catalog, store object.ObjectStore, overwrite bool) (SeedResult, error) {
	var res SeedResult
	for _, e := range cat.All() {
		if err := ctx.Err(); err != nil {
			return res, err
		}
		if strings.TrimSpace(e.Source) == "" {
			res.Skipped++
			continue
		}
		if !overwrite {
			exists, err := objectExists(ctx, store, e.FilePath)
			if err != nil {
				return res, err
			}
			if exists {
				res.Skipped++
				continue
			}
		}

		text, err := os.ReadFile(cat.SourcePath(e))
		if err != nil {
			return res, fmt.Errorf("template %s: read source: %w", e.ID, err)
		}
		format, err := export.ParseFormat(e.FileType)
		if err != nil {
			return res, fmt.Errorf("template %s: %w", e.ID, err)
		}
		var buf bytes.Buffer
		if err := export.Write(&buf, format, string(text)); err != nil {
			return res, fmt.Errorf("template %s: %w", e.ID, err)
		}
		size, err := store.Put(ctx, e.FilePath, ContentType(e.FileType), &buf)
		if err != nil {
			return res, fmt.Errorf("template %s: store: %w", e.ID, err)
		}
		telemetry.Info("templates.seeded", map[string]any{"id": e.ID, "key": e.FilePath, "size": size})
		res.Written++
	}
	return res, nil
}

func objectExists(ctx context.Context, store object.ObjectStore, key string) (bool, error) {
	rc, err := store.Open(ctx, key)
	if errors.Is(err, object.ErrNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	_ = rc.Close()
	return true, nil
}

// ContentType maps a catalog file type to its MIME type.
func ContentType(fileType string) string {
	switch strings.ToUpper(fileType) {
	case "DOCX":
		return "application/vnd.openxmlformats-officedocument.wordprocessingml.document"
	default:
		return "application/pdf"
	}
}
