package models

import (
	"encoding/json"
	"fmt"
	"strings"
)

// EncodeTags turns tags into the string form kept in the remote tags column.
func EncodeTags(tags []string) (string, error) {
	if len(tags) == 0 {
		return "[]", nil
	}
	b, err := json.Marshal(tags)
	if err != nil {
		return "", fmt.Errorf("failed to encode tags: %w", err)
	}
	return string(b), nil
}

// DecodeTags reverses EncodeTags. Rows written before tags were JSON
// encoded hold a comma separated list, which is accepted as well.
func DecodeTags(raw string) ([]string, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" || raw == "null" {
		return nil, nil
	}

	if strings.HasPrefix(raw, "[") {
		var tags []string
		err := json.Unmarshal([]byte(raw), &tags)
		if err != nil {
			return nil, fmt.Errorf("failed to decode tags: %w", err)
		}
		if len(tags) == 0 {
			return nil, nil
		}
		return tags, nil
	}

	parts := strings.Split(raw, ",")
	tags := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			tags = append(tags, p)
		}
	}
	return tags, nil
}
