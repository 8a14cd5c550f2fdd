// Package repair recovers structured JSON values from malformed or truncated
// provider output. Generative providers routinely wrap JSON in markdown
// fences, leak prose around it, drop commas, or truncate mid-structure; this
// package applies an ordered chain of recovery strategies so callers get
// either a valid JSON document or a single typed error.
package repair

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strings"
)

// DefaultTruncationThreshold is the text length above which an unparseable
// document is assumed to have been truncated by a provider token limit.
// Shorter documents still get truncation repair when the bracket scan shows
// an unterminated top-level value.
const DefaultTruncationThreshold = 15000

// ParseError reports that every recovery strategy failed.
type ParseError struct {
	// TextLen is the length of the input text.
	TextLen int
	// Err is the last underlying parse error.
	Err error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("structured output unrecoverable (%d bytes): %v", e.TextLen, e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }

// Recoverer applies the recovery chain. The zero value uses the default
// truncation threshold.
type Recoverer struct {
	// TruncationThreshold overrides DefaultTruncationThreshold when > 0.
	TruncationThreshold int
}

// Recover extracts a valid JSON document from raw provider output.
// Strategies are tried in order; the first success wins:
//
//  1. strict parse of the trimmed text
//  2. fenced-block extraction, then strict parse
//  3. bracket-depth scan for the first balanced top-level value, then strict parse
//  4. lenient parse fixing common malformations (missing/trailing/duplicate commas)
//  5. truncation repair: close unbalanced quotes/brackets, then lenient parse
//
// On success the returned bytes are valid JSON; Recover on identical input
// always returns identical bytes.
func (r *Recoverer) Recover(raw string) ([]byte, error) {
	trimmed := strings.TrimSpace(raw)
	if json.Valid([]byte(trimmed)) && trimmed != "" {
		return []byte(trimmed), nil
	}

	fenced := StripFences(trimmed)
	if fenced != trimmed && json.Valid([]byte(fenced)) {
		return []byte(fenced), nil
	}

	candidate, lastErr := fenced, error(nil)
	if span, ok := balancedSpan(fenced); ok {
		if json.Valid([]byte(span)) {
			return []byte(span), nil
		}
		candidate = span
	} else if start := firstOpener(fenced); start >= 0 {
		// No balanced close found; keep the tail for truncation repair.
		candidate = fenced[start:]
	}

	fixed := fixCommonErrors(candidate)
	if err := strictErr(fixed); err == nil {
		return []byte(fixed), nil
	} else {
		lastErr = err
	}

	threshold := r.TruncationThreshold
	if threshold <= 0 {
		threshold = DefaultTruncationThreshold
	}
	if len(candidate) > threshold || unbalanced(candidate) {
		closed := fixCommonErrors(closeTruncated(candidate))
		if err := strictErr(closed); err == nil {
			return []byte(closed), nil
		} else {
			lastErr = err
		}
	}

	return nil, &ParseError{TextLen: len(raw), Err: lastErr}
}

// RecoverInto recovers the document and unmarshals it into v.
func (r *Recoverer) RecoverInto(raw string, v any) error {
	data, err := r.Recover(raw)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(data, v); err != nil {
		return &ParseError{TextLen: len(raw), Err: err}
	}
	return nil
}

var fencePattern = regexp.MustCompile("(?s)```[a-zA-Z]*[ \t]*\r?\n?(.*?)```")

// StripFences returns the content of the first markdown code fence, or the
// trimmed input when no fence is present. Stages that expect plain source
// text use this directly to remove incidental formatting.
func StripFences(raw string) string {
	trimmed := strings.TrimSpace(raw)
	if m := fencePattern.FindStringSubmatch(trimmed); m != nil {
		return strings.TrimSpace(m[1])
	}
	return trimmed
}

// strictErr returns the parse error for s, or nil when s is valid JSON.
func strictErr(s string) error {
	var v any
	return json.Unmarshal([]byte(s), &v)
}

// firstOpener returns the index of the first top-level '{' or '[', or -1.
func firstOpener(s string) int {
	for i, c := range s {
		if c == '{' || c == '[' {
			return i
		}
	}
	return -1
}

// balancedSpan locates the first top-level JSON value delimited by braces or
// brackets and returns the substring covering it. The scan is string-aware:
// brackets inside JSON strings do not affect nesting depth.
func balancedSpan(s string) (string, bool) {
	start := firstOpener(s)
	if start < 0 {
		return "", false
	}

	depth := 0
	inString := false
	escaped := false
	for i := start; i < len(s); i++ {
		c := s[i]
		if inString {
			switch {
			case escaped:
				escaped = false
			case c == '\\':
				escaped = true
			case c == '"':
				inString = false
			}
			continue
		}
		switch c {
		case '"':
			inString = true
		case '{', '[':
			depth++
		case '}', ']':
			depth--
			if depth == 0 {
				return s[start : i+1], true
			}
		}
	}
	return "", false
}

// unbalanced reports whether s has more openers than closers outside strings.
func unbalanced(s string) bool {
	depth := 0
	inString := false
	escaped := false
	for i := 0; i < len(s); i++ {
		c := s[i]
		if inString {
			switch {
			case escaped:
				escaped = false
			case c == '\\':
				escaped = true
			case c == '"':
				inString = false
			}
			continue
		}
		switch c {
		case '"':
			inString = true
		case '{', '[':
			depth++
		case '}', ']':
			depth--
		}
	}
	return depth > 0 || inString
}

var (
	trailingComma   = regexp.MustCompile(`,(\s*[}\]])`)
	duplicateComma  = regexp.MustCompile(`,\s*,`)
	adjacentValues  = regexp.MustCompile(`([}\]])(\s*)([{\[])`)
	stringThenOpen  = regexp.MustCompile(`"(\s*)([{\[])`)
	numberThenOpen  = regexp.MustCompile(`(\d)(\s*)([{\[])`)
	literalThenOpen = regexp.MustCompile(`(true|false|null)(\s*)([{\[])`)
	valueThenKey    = regexp.MustCompile(`([}\]0-9"]|true|false|null)([ \t]*\r?\n[ \t]*|[ \t]+)"`)
)

// fixCommonErrors repairs the malformations providers most often produce:
// trailing commas, duplicated commas, and missing commas between adjacent
// values or fields. It operates textually and is a lenient last resort;
// correct documents pass through earlier strategies untouched.
func fixCommonErrors(s string) string {
	s = trailingComma.ReplaceAllString(s, "$1")
	s = duplicateComma.ReplaceAllString(s, ",")
	s = adjacentValues.ReplaceAllString(s, "$1,$2$3")
	s = stringThenOpen.ReplaceAllString(s, `",$1$2`)
	s = numberThenOpen.ReplaceAllString(s, "$1,$2$3")
	s = literalThenOpen.ReplaceAllString(s, "$1,$2$3")
	s = valueThenKey.ReplaceAllString(s, `$1,$2"`)
	// The insertions above can create ",," or ",}" sequences; sweep again.
	s = duplicateComma.ReplaceAllString(s, ",")
	s = trailingComma.ReplaceAllString(s, "$1")
	return s
}

// closeTruncated appends the minimal closing punctuation needed to balance a
// document cut off mid-structure. It scans with string awareness, closes an
// open string, drops a dangling comma or completes a dangling key, then
// closes brackets in reverse nesting order.
func closeTruncated(s string) string {
	var stack []byte
	inString := false
	escaped := false
	for i := 0; i < len(s); i++ {
		c := s[i]
		if inString {
			switch {
			case escaped:
				escaped = false
			case c == '\\':
				escaped = true
			case c == '"':
				inString = false
			}
			continue
		}
		switch c {
		case '"':
			inString = true
		case '{':
			stack = append(stack, '}')
		case '[':
			stack = append(stack, ']')
		case '}', ']':
			if len(stack) > 0 {
				stack = stack[:len(stack)-1]
			}
		}
	}

	out := s
	if inString {
		out += `"`
	}

	tail := strings.TrimRight(out, " \t\r\n")
	switch {
	case strings.HasSuffix(tail, ","):
		out = strings.TrimSuffix(tail, ",")
	case strings.HasSuffix(tail, ":"):
		out = tail + " null"
	}

	for i := len(stack) - 1; i >= 0; i-- {
		out += string(stack[i])
	}
	return out
}
