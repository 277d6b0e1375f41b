package http

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/mauricedesaxe/time-tracker/internal/core"
)

// Request bodies are decoded into raw-message maps first so that a key
// set to null (clear the field) can be told apart from a key that is
// absent (keep the field). Plain struct decoding loses that
// distinction, which is exactly the footgun the tagged patches exist
// to close.

const maxBodyBytes = 1 << 20 // 1MB

func decodeRawBody(body io.Reader) (map[string]json.RawMessage, error) {
	raw := make(map[string]json.RawMessage)
	dec := json.NewDecoder(io.LimitReader(body, maxBodyBytes))
	if err := dec.Decode(&raw); err != nil {
		return nil, fmt.Errorf("invalid JSON body: %w", err)
	}
	return raw, nil
}

func parseEntryPatch(body io.Reader) (core.EntryPatch, error) {
	raw, err := decodeRawBody(body)
	if err != nil {
		return core.EntryPatch{}, err
	}

	var p core.EntryPatch
	if p.Description, err = parseField[string](raw, "description", false); err != nil {
		return core.EntryPatch{}, err
	}
	if p.StartTime, err = parseField[int64](raw, "startTime", false); err != nil {
		return core.EntryPatch{}, err
	}
	if p.EndTime, err = parseField[int64](raw, "endTime", true); err != nil {
		return core.EntryPatch{}, err
	}
	if p.ProjectID, err = parseField[string](raw, "projectId", true); err != nil {
		return core.EntryPatch{}, err
	}
	if p.CategoryID, err = parseField[string](raw, "categoryId", true); err != nil {
		return core.EntryPatch{}, err
	}
	return p, nil
}

func parseCategoryPatch(body io.Reader) (core.CategoryPatch, error) {
	raw, err := decodeRawBody(body)
	if err != nil {
		return core.CategoryPatch{}, err
	}

	var p core.CategoryPatch
	if p.Name, err = parseField[string](raw, "name", false); err != nil {
		return core.CategoryPatch{}, err
	}
	if p.Color, err = parseField[string](raw, "color", false); err != nil {
		return core.CategoryPatch{}, err
	}
	if p.WeeklyTargetHours, err = parseField[float64](raw, "weeklyTargetHours", true); err != nil {
		return core.CategoryPatch{}, err
	}
	return p, nil
}

// parseField turns one raw JSON key into a tagged field update. A null
// value means Clear for clearable keys and is rejected otherwise.
func parseField[T any](raw map[string]json.RawMessage, key string, clearable bool) (core.Field[T], error) {
	msg, ok := raw[key]
	if !ok {
		return core.Field[T]{}, nil
	}
	if string(msg) == "null" {
		if !clearable {
			return core.Field[T]{}, fmt.Errorf("field %q cannot be null", key)
		}
		return core.Clear[T](), nil
	}
	var v T
	if err := json.Unmarshal(msg, &v); err != nil {
		return core.Field[T]{}, fmt.Errorf("invalid value for field %q: %w", key, err)
	}
	return core.Set(v), nil
}
