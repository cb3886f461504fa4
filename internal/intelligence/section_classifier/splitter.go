package section_classifier

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"
)

// maxHeaderRunes bounds how long a line may be and still count as a header.
const maxHeaderRunes = 100

var (
	numberedHeaderRe = regexp.MustCompile(`^(?:\d+(?:\.\d+)*\.?|[IVXLC]+\.)\s+\p{Lu}`)
	markdownHeaderRe = regexp.MustCompile(`^#{1,6}\s+\S`)
	ruleLineRe       = regexp.MustCompile(`^(?:-{3,}|={3,}|\*{3,}|_{3,})$`)
	headerPrefixRe   = regexp.MustCompile(`^(?:#{1,6}\s+|(?:\d+(?:\.\d+)*\.?|[IVXLC]+\.)\s+)`)
	blankLinesRe     = regexp.MustCompile(`\n[ \t\r]*\n`)
)

// titleCaseMinor are words a Title-Case header may leave in lower case.
var titleCaseMinor = map[string]bool{
	"a": true, "an": true, "and": true, "the": true, "of": true, "for": true,
	"in": true, "on": true, "to": true, "with": true, "by": true, "or": true,
	"at": true, "from": true, "&": true,
}

type lineKind int

const (
	lineText lineKind = iota
	lineHeader
	lineRule
)

// span is a raw slice of the input before scoring. start/end are byte
// offsets of the trimmed content.
type span struct {
	start, end int
	title      string
}

func classifyLine(line string) lineKind {
	trimmed := strings.TrimSpace(line)
	if trimmed == "" {
		return lineText
	}
	if ruleLineRe.MatchString(trimmed) {
		return lineRule
	}
	if utf8.RuneCountInString(trimmed) > maxHeaderRunes {
		return lineText
	}
	switch {
	case markdownHeaderRe.MatchString(trimmed),
		numberedHeaderRe.MatchString(trimmed),
		isAllCaps(trimmed),
		isTitleCase(trimmed):
		return lineHeader
	}
	return lineText
}

func isAllCaps(s string) bool {
	letters := 0
	for _, r := range s {
		if unicode.IsLetter(r) {
			if unicode.IsLower(r) {
				return false
			}
			letters++
		}
	}
	return letters >= 4
}

func isTitleCase(s string) bool {
	if strings.HasSuffix(s, ".") || strings.HasSuffix(s, ",") || strings.HasSuffix(s, ";") {
		return false
	}
	words := strings.Fields(s)
	if len(words) == 0 || len(words) > 8 {
		return false
	}
	capitalised := 0
	for i, w := range words {
		first, _ := utf8.DecodeRuneInString(w)
		switch {
		case unicode.IsUpper(first):
			capitalised++
		case unicode.IsDigit(first):
		case i > 0 && titleCaseMinor[strings.ToLower(strings.Trim(w, ":"))]:
		default:
			return false
		}
	}
	return capitalised > 0
}

func cleanTitle(line string) string {
	t := strings.TrimSpace(line)
	t = headerPrefixRe.ReplaceAllString(t, "")
	return strings.TrimSpace(strings.TrimRight(t, ":"))
}

// trimmedBounds narrows [start,end) to exclude surrounding whitespace.
func trimmedBounds(text string, start, end int) (int, int) {
	for start < end {
		r, size := utf8.DecodeRuneInString(text[start:end])
		if !unicode.IsSpace(r) {
			break
		}
		start += size
	}
	for end > start {
		r, size := utf8.DecodeLastRuneInString(text[start:end])
		if !unicode.IsSpace(r) {
			break
		}
		end -= size
	}
	return start, end
}

// splitSpans cuts text at header and rule lines. Header lines open a span
// and belong to it; rule lines close a span and belong to none. Without any
// delimiter the text is split into blank-line separated paragraphs.
func splitSpans(text string) []span {
	var (
		spans      []span
		cur        = span{start: 0}
		delimiters int
		offset     int
	)

	closeAt := func(end int) {
		s, e := trimmedBounds(text, cur.start, end)
		if e > s {
			spans = append(spans, span{start: s, end: e, title: cur.title})
		}
	}

	for offset < len(text) {
		nl := strings.IndexByte(text[offset:], '\n')
		lineEnd := len(text)
		next := len(text)
		if nl >= 0 {
			lineEnd = offset + nl
			next = lineEnd + 1
		}
		line := text[offset:lineEnd]

		switch classifyLine(line) {
		case lineHeader:
			delimiters++
			closeAt(offset)
			cur = span{start: offset, title: cleanTitle(line)}
		case lineRule:
			delimiters++
			closeAt(offset)
			cur = span{start: next}
		}
		offset = next
	}
	closeAt(len(text))

	if delimiters == 0 {
		return splitParagraphs(text)
	}
	return spans
}

func splitParagraphs(text string) []span {
	var spans []span
	start := 0
	for _, loc := range blankLinesRe.FindAllStringIndex(text, -1) {
		if s, e := trimmedBounds(text, start, loc[0]); e > s {
			spans = append(spans, span{start: s, end: e})
		}
		start = loc[1]
	}
	if s, e := trimmedBounds(text, start, len(text)); e > s {
		spans = append(spans, span{start: s, end: e})
	}
	return spans
}

//Personal.AI order the ending
