package tally

import "strings"

// RecordPattern names the repeating entity tag and the field tags to
// capture inside each occurrence. Bound, when set, restricts the scan
// to the interior of the first such tag pair (a missing closing bound
// extends the region to end of text).
type RecordPattern struct {
	Bound  string
	Entity string
	Fields []string
}

// Record is one extracted entity occurrence. Ephemeral; the caller
// owns it after return.
type Record struct {
	Fields map[string]string
}

// ExtractRecords scans response text for up to limit entity
// occurrences matching pat. It is a single linear pass over the text
// with no backtracking: find an entity open tag, capture its fields,
// continue after it. The remote system's output is not reliably
// well-formed XML, so this deliberately scrapes rather than parses;
// it tolerates missing closing tags (extraction stops at end of
// text), attributes on the entity tag (skipped), and surrounding
// whitespace in tag bodies (trimmed). Zero matches yields nil, which
// is the normal no-results outcome, not an error; extraction itself
// cannot fail.
func ExtractRecords(text string, pat RecordPattern, limit int) []Record {
	if limit <= 0 || pat.Entity == "" {
		return nil
	}
	region := text
	if pat.Bound != "" {
		start, interior := findOpenTag(region, pat.Bound)
		if start < 0 {
			return nil
		}
		region = region[interior:]
		if end := strings.Index(region, "</"+pat.Bound+">"); end >= 0 {
			region = region[:end]
		}
	}

	var records []Record
	pos := 0
	for len(records) < limit {
		start, interior := findOpenTag(region[pos:], pat.Entity)
		if start < 0 {
			break
		}
		body := region[pos+interior:]
		next := len(body)
		if end := strings.Index(body, "</"+pat.Entity+">"); end >= 0 {
			next = end
		}
		// One entity may also be terminated by the next entity open
		// tag when its closing tag is missing.
		if openNext, _ := findOpenTag(body, pat.Entity); openNext >= 0 && openNext < next {
			next = openNext
		}
		records = append(records, Record{Fields: captureFields(body[:next], pat.Fields)})
		pos += interior + next
	}
	return records
}

// captureFields pulls each named field tag's trimmed text out of one
// entity body. Missing fields are simply absent from the map.
func captureFields(body string, fields []string) map[string]string {
	out := make(map[string]string, len(fields))
	for _, field := range fields {
		start, interior := findOpenTag(body, field)
		if start < 0 {
			continue
		}
		value := body[interior:]
		if end := strings.Index(value, "</"+field+">"); end >= 0 {
			value = value[:end]
		}
		out[field] = strings.TrimSpace(value)
	}
	return out
}

// findOpenTag locates <tag> or <tag attr...> in s. It returns the tag
// start offset and the offset just past the closing '>', or (-1, -1)
// when absent. A tag opened but never closed by '>' runs to end of
// text.
func findOpenTag(s, tag string) (int, int) {
	needle := "<" + tag
	from := 0
	for {
		idx := strings.Index(s[from:], needle)
		if idx < 0 {
			return -1, -1
		}
		start := from + idx
		rest := s[start+len(needle):]
		if rest == "" {
			return start, len(s)
		}
		switch rest[0] {
		case '>':
			return start, start + len(needle) + 1
		case ' ', '\t', '\r', '\n':
			if gt := strings.IndexByte(rest, '>'); gt >= 0 {
				return start, start + len(needle) + gt + 1
			}
			return start, len(s)
		}
		// Prefix of a longer tag name; keep scanning.
		from = start + 1
	}
}
