package llm

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/dgallion1/qagen/internal/qa"
)

// ParseResponse turns raw model output into records. It tolerates a response
// wrapped in a markdown code fence despite the prompt asking for plain JSON.
func ParseResponse(text string) ([]qa.Record, error) {
	cleaned := StripCodeFence(text)

	var items []map[string]any
	if err := json.Unmarshal([]byte(cleaned), &items); err != nil {
		return nil, fmt.Errorf("parse response json: %w (raw: %s)", err, truncate(cleaned, 200))
	}

	records := make([]qa.Record, 0, len(items))
	for _, item := range items {
		records = append(records, qa.FromModelFields(item))
	}
	return records, nil
}

// StripCodeFence removes a wrapping ``` block: the opening marker line and
// the last closing marker after it. Already-clean text passes through
// unchanged, so the function is idempotent.
func StripCodeFence(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	if nl := strings.IndexByte(s, '\n'); nl >= 0 {
		s = s[nl+1:]
	} else {
		s = strings.TrimPrefix(s, "```")
	}
	if end := strings.LastIndex(s, "```"); end >= 0 {
		s = s[:end]
	}
	return strings.TrimSpace(s)
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
