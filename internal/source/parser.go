// Package source discovers and parses JSON Lines gift exports.
package source

import (
	"bufio"
	"bytes"
	"encoding/json"
	"os"
)

// ParseResult holds the output of parsing a single export file.
type ParseResult struct {
	File        DiscoveredFile
	Gifts       []Entry
	Skipped     int // lines of another record type
	ParseErrors int
	Err         error
}

// ParseFile reads a JSON Lines export and returns its gifts in file order.
// Gifts sharing an id are deduplicated, keeping the last line but the
// position of the first.
//
// Lines are routed by their top-level "type" field:
//   - missing or "gift" → full JSON parse
//   - anything else     → skipped
func ParseFile(df DiscoveredFile) ParseResult {
	f, err := os.Open(df.Path)
	if err != nil {
		return ParseResult{File: df, Err: err}
	}
	defer func() { _ = f.Close() }()

	res := ParseResult{File: df}
	byID := make(map[string]int)

	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := bytes.TrimSpace(scanner.Bytes())
		if len(line) == 0 || line[0] == '#' {
			continue
		}

		switch extractTopLevelType(line) {
		case "", "gift":
		default:
			res.Skipped++
			continue
		}

		var raw RawGift
		if err := json.Unmarshal(line, &raw); err != nil {
			res.ParseErrors++
			continue
		}

		e := Entry{Line: lineNo, ID: raw.ID, Fields: raw.Fields()}
		if raw.ID != "" {
			if i, ok := byID[raw.ID]; ok {
				e.Line = res.Gifts[i].Line
				res.Gifts[i] = e
				continue
			}
			byID[raw.ID] = len(res.Gifts)
		}
		res.Gifts = append(res.Gifts, e)
	}

	if err := scanner.Err(); err != nil {
		return ParseResult{File: df, Err: err}
	}
	return res
}

// typeKey is the byte sequence for a JSON key named "type" (with quotes).
var typeKey = []byte(`"type"`)

// extractTopLevelType finds the top-level "type" field in a JSON line.
// Tracks brace depth and string boundaries so nested "type" keys are ignored.
func extractTopLevelType(line []byte) string {
	depth := 0
	for i := 0; i < len(line); {
		switch line[i] {
		case '"':
			if depth == 1 && bytes.HasPrefix(line[i:], typeKey) {
				val, isKey := classifyType(line, i+len(typeKey))
				if isKey {
					return val
				}
			}
			i = skipJSONString(line, i)
		case '{':
			depth++
			i++
		case '}':
			depth--
			i++
		default:
			i++
		}
	}
	return ""
}

// classifyType checks whether pos follows a JSON key (expects : then value).
// isKey=false means "type" appeared as a value, not a key.
func classifyType(line []byte, pos int) (val string, isKey bool) {
	i := skipSpaces(line, pos)
	if i >= len(line) || line[i] != ':' {
		return "", false
	}
	i = skipSpaces(line, i+1)
	if i >= len(line) || line[i] != '"' {
		return "", true
	}
	i++

	end := bytes.IndexByte(line[i:], '"')
	if end < 0 || end > 32 {
		return "?", true
	}
	return string(line[i : i+end]), true
}

// skipJSONString advances past a JSON string starting at the opening quote.
//
//nolint:gosec // manual bounds checking throughout
func skipJSONString(line []byte, i int) int {
	i++
	for i < len(line) {
		switch line[i] {
		case '\\':
			i += 2
		case '"':
			return i + 1
		default:
			i++
		}
	}
	return i
}

func skipSpaces(line []byte, i int) int {
	for i < len(line) && (line[i] == ' ' || line[i] == '\t') {
		i++
	}
	return i
}
