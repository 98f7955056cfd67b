package recommend

import (
	"encoding/json"
	"errors"
	"strings"
)

// ErrExtractionFailed means no parseable JSON object was found in the model
// output. The orchestrator recovers from it with the fallback generator.
var ErrExtractionFailed = errors.New("model output does not contain json")

// ExtractJSON вырезает один JSON-объект из произвольного текста модели.
// Сначала ищется огороженный блок кода, затем скобочный диапазон.
func ExtractJSON(raw string) (string, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return "", ErrExtractionFailed
	}

	if fenced, ok := extractFencedBlock(trimmed); ok {
		if span, ok := extractBraceSpan(fenced); ok && json.Valid([]byte(span)) {
			return span, nil
		}
	}

	if span, ok := extractBraceSpan(trimmed); ok && json.Valid([]byte(span)) {
		return span, nil
	}

	return "", ErrExtractionFailed
}

// extractFencedBlock returns the body of the first ``` fence, tolerating an
// optional language tag on the opening line.
func extractFencedBlock(input string) (string, bool) {
	start := strings.Index(input, "```")
	if start == -1 {
		return "", false
	}

	body := input[start+3:]
	if newline := strings.IndexByte(body, '\n'); newline >= 0 {
		firstLine := strings.TrimSpace(body[:newline])
		if firstLine == "" || isFenceTag(firstLine) {
			body = body[newline+1:]
		}
	}

	if end := strings.Index(body, "```"); end >= 0 {
		body = body[:end]
	}

	body = strings.TrimSpace(body)
	if body == "" {
		return "", false
	}
	return body, true
}

func isFenceTag(line string) bool {
	for _, r := range line {
		if !(r >= 'a' && r <= 'z' || r >= 'A' && r <= 'Z' || r >= '0' && r <= '9') {
			return false
		}
	}
	return true
}

// extractBraceSpan takes the span from the first '{' to the '}' that closes
// it at matching depth, ignoring braces inside string literals.
func extractBraceSpan(input string) (string, bool) {
	start := strings.IndexByte(input, '{')
	if start == -1 {
		return "", false
	}

	depth := 0
	inString := false
	escaped := false
	end := -1

	for i := start; i < len(input); i++ {
		ch := input[i]

		if inString {
			switch {
			case escaped:
				escaped = false
			case ch == '\\':
				escaped = true
			case ch == '"':
				inString = false
			}
			continue
		}

		switch ch {
		case '"':
			inString = true
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				end = i
			}
		}
	}

	if end == -1 {
		return "", false
	}
	return input[start : end+1], true
}
