package asr

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"asrprobe/internal/model"
)

// decodeFields decodes a JSON object keeping numbers as json.Number, so ids
// and counts survive without float rounding.
func decodeFields(data []byte) (map[string]any, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || trimmed[0] != '{' {
		return nil, errors.New("expected a JSON object")
	}
	dec := json.NewDecoder(bytes.NewReader(trimmed))
	dec.UseNumber()
	var fields map[string]any
	if err := dec.Decode(&fields); err != nil {
		return nil, err
	}
	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		return nil, errors.New("unexpected data after the JSON object")
	}
	return fields, nil
}

// convertResponse reads a convert reply the way the backend's own clients do:
// a field of the wrong type is coerced when it can be and left zero otherwise.
func convertResponse(fields map[string]any) model.ConvertResponse {
	return model.ConvertResponse{
		TaskID:           rawField(fields, "task_id"),
		TextCount:        intField(fields, "text_count"),
		FileSaved:        boolField(fields, "file_saved"),
		ResultFile:       stringField(fields, "result_file"),
		Simulated:        boolField(fields, "simulated"),
		SourceFile:       stringField(fields, "source_file"),
		Note:             stringField(fields, "note"),
		SpeakerTextLines: linesField(fields, "speaker_text_lines"),
		TextLines:        linesField(fields, "text_lines"),
	}
}

func rawField(fields map[string]any, key string) json.RawMessage {
	value, ok := fields[key]
	if !ok || value == nil {
		return nil
	}
	raw, err := json.Marshal(value)
	if err != nil {
		return nil
	}
	return raw
}

func stringField(fields map[string]any, key string) string {
	value, ok := fields[key]
	if !ok || value == nil {
		return ""
	}
	if s, ok := value.(string); ok {
		return s
	}
	return fmt.Sprint(value)
}

func intField(fields map[string]any, key string) int {
	var text string
	switch v := fields[key].(type) {
	case json.Number:
		text = v.String()
	case float64:
		return int(v)
	case string:
		text = strings.TrimSpace(v)
	default:
		return 0
	}
	if n, err := strconv.Atoi(text); err == nil {
		return n
	}
	if f, err := strconv.ParseFloat(text, 64); err == nil {
		return int(f)
	}
	return 0
}

func boolField(fields map[string]any, key string) bool {
	switch v := fields[key].(type) {
	case bool:
		return v
	case json.Number:
		f, err := v.Float64()
		return err == nil && f != 0
	case float64:
		return v != 0
	case string:
		switch strings.ToLower(strings.TrimSpace(v)) {
		case "1", "t", "true", "y", "yes":
			return true
		}
	}
	return false
}

func linesField(fields map[string]any, key string) []string {
	switch v := fields[key].(type) {
	case []any:
		lines := make([]string, 0, len(v))
		for _, item := range v {
			if item == nil {
				continue
			}
			if s, ok := item.(string); ok {
				lines = append(lines, s)
				continue
			}
			lines = append(lines, fmt.Sprint(item))
		}
		return lines
	case string:
		if strings.TrimSpace(v) != "" {
			return []string{v}
		}
	}
	return nil
}
