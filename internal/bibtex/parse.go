package bibtex

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
)

// ErrNoEntry is returned when parsed text contains no BibTeX entry at all.
var ErrNoEntry = errors.New("no valid BibTeX entry found")

// ParseError reports a malformed construct with its line number.
type ParseError struct {
	Line int
	Msg  string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("bibtex parse error at line %d: %s", e.Line, e.Msg)
}

// knownFields are the BibTeX field names mapped onto Entry struct members.
// Everything else round-trips through RawFields.
var knownFields = map[string]bool{
	"title": true, "author": true, "year": true, "journal": true,
	"doi": true, "url": true, "abstract": true, "keywords": true,
	"comment": true, "file": true,
	"ranking": true, "readstate": true, "priority": true,
}

// ParseFile reads and parses a whole .bib file.
func ParseFile(path string) ([]*Entry, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading bib file: %w", err)
	}
	return Parse(string(data))
}

// Parse parses BibTeX text into entries. Text between entries is ignored,
// as are @comment, @preamble and @string blocks.
func Parse(text string) ([]*Entry, error) {
	p := &parser{src: text, line: 1}
	var entries []*Entry
	for {
		entry, err := p.nextEntry()
		if err != nil {
			return nil, err
		}
		if entry == nil {
			break
		}
		entries = append(entries, entry)
	}
	return entries, nil
}

// ParseOne parses text expected to contain exactly one entry, e.g. pasted
// from a publisher page. It returns ErrNoEntry when nothing parses.
func ParseOne(text string) (*Entry, error) {
	entries, err := Parse(text)
	if err != nil {
		return nil, err
	}
	if len(entries) == 0 {
		return nil, ErrNoEntry
	}
	return entries[0], nil
}

type parser struct {
	src  string
	pos  int
	line int
}

func (p *parser) errf(format string, args ...interface{}) error {
	return &ParseError{Line: p.line, Msg: fmt.Sprintf(format, args...)}
}

func (p *parser) eof() bool { return p.pos >= len(p.src) }

func (p *parser) next() byte {
	c := p.src[p.pos]
	if c == '\n' {
		p.line++
	}
	p.pos++
	return c
}

func (p *parser) peek() byte { return p.src[p.pos] }

func (p *parser) skipSpace() {
	for !p.eof() {
		c := p.peek()
		if c == ' ' || c == '\t' || c == '\r' || c == '\n' {
			p.next()
			continue
		}
		break
	}
}

// nextEntry scans forward to the next '@' and parses the entry there.
// It returns nil, nil at end of input.
func (p *parser) nextEntry() (*Entry, error) {
	for {
		for !p.eof() && p.peek() != '@' {
			p.next()
		}
		if p.eof() {
			return nil, nil
		}
		p.next() // consume '@'

		entryType := strings.ToLower(p.readIdent())
		if entryType == "" {
			continue // stray '@', keep scanning
		}
		if entryType == "comment" || entryType == "preamble" || entryType == "string" {
			if err := p.skipBlock(); err != nil {
				return nil, err
			}
			continue
		}
		return p.parseBody(entryType)
	}
}

func (p *parser) readIdent() string {
	start := p.pos
	for !p.eof() {
		c := p.peek()
		if (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') || (c >= '0' && c <= '9') {
			p.next()
			continue
		}
		break
	}
	return p.src[start:p.pos]
}

// skipBlock consumes a balanced {...} or (...) block after @comment etc.
func (p *parser) skipBlock() error {
	p.skipSpace()
	if p.eof() {
		return nil
	}
	open := p.peek()
	var close byte
	switch open {
	case '{':
		close = '}'
	case '(':
		close = ')'
	default:
		return nil
	}
	p.next()
	depth := 1
	for !p.eof() {
		c := p.next()
		switch c {
		case open:
			depth++
		case close:
			depth--
			if depth == 0 {
				return nil
			}
		}
	}
	return p.errf("unterminated block")
}

func (p *parser) parseBody(entryType string) (*Entry, error) {
	p.skipSpace()
	if p.eof() || p.peek() != '{' {
		return nil, p.errf("expected '{' after @%s", entryType)
	}
	p.next()

	// Citation key runs to the first comma.
	keyStart := p.pos
	for !p.eof() && p.peek() != ',' && p.peek() != '}' {
		p.next()
	}
	if p.eof() {
		return nil, p.errf("unterminated entry @%s", entryType)
	}
	key := strings.TrimSpace(p.src[keyStart:p.pos])
	if key == "" {
		return nil, p.errf("entry @%s has no citation key", entryType)
	}
	entry := NewEntry(key, entryType)
	if p.peek() == '}' {
		p.next()
		return entry, nil
	}
	p.next() // consume ','

	for {
		p.skipSpace()
		if p.eof() {
			return nil, p.errf("unterminated entry %s", key)
		}
		if p.peek() == '}' {
			p.next()
			return entry, nil
		}
		if p.peek() == ',' { // trailing comma before '}'
			p.next()
			continue
		}

		name := strings.ToLower(strings.TrimSpace(p.readFieldName()))
		if name == "" {
			return nil, p.errf("entry %s: expected field name", key)
		}
		p.skipSpace()
		if p.eof() || p.peek() != '=' {
			return nil, p.errf("entry %s: expected '=' after field %q", key, name)
		}
		p.next()
		value, err := p.readValue(key)
		if err != nil {
			return nil, err
		}
		setParsedField(entry, name, value)
	}
}

func (p *parser) readFieldName() string {
	start := p.pos
	for !p.eof() {
		c := p.peek()
		if c == '=' || c == ',' || c == '}' || c == ' ' || c == '\t' || c == '\r' || c == '\n' {
			break
		}
		p.next()
	}
	return p.src[start:p.pos]
}

// readValue reads a field value in braces, quotes, or bare form and trims
// the delimiters. Newlines inside values collapse to single spaces.
func (p *parser) readValue(key string) (string, error) {
	p.skipSpace()
	if p.eof() {
		return "", p.errf("entry %s: missing field value", key)
	}
	var raw string
	switch p.peek() {
	case '{':
		p.next()
		start := p.pos
		depth := 1
		for !p.eof() {
			c := p.next()
			if c == '{' {
				depth++
			} else if c == '}' {
				depth--
				if depth == 0 {
					break
				}
			}
		}
		if depth != 0 {
			return "", p.errf("entry %s: unterminated braced value", key)
		}
		raw = p.src[start : p.pos-1]
	case '"':
		p.next()
		start := p.pos
		depth := 0
		closed := false
		for !p.eof() {
			c := p.next()
			if c == '{' {
				depth++
			} else if c == '}' {
				depth--
			} else if c == '"' && depth == 0 {
				closed = true
				break
			}
		}
		if !closed {
			return "", p.errf("entry %s: unterminated quoted value", key)
		}
		raw = p.src[start : p.pos-1]
	default:
		start := p.pos
		for !p.eof() && p.peek() != ',' && p.peek() != '}' {
			p.next()
		}
		raw = p.src[start:p.pos]
	}
	return cleanValue(raw), nil
}

// cleanValue trims a parsed value, collapses whitespace runs spanning
// newlines, and strips one level of case-protection braces.
func cleanValue(raw string) string {
	v := strings.TrimSpace(raw)
	if strings.ContainsAny(v, "\n\r\t") {
		v = strings.Join(strings.Fields(v), " ")
	}
	if len(v) >= 2 && v[0] == '{' && v[len(v)-1] == '}' && balancedOuter(v) {
		v = strings.TrimSpace(v[1 : len(v)-1])
	}
	return v
}

// balancedOuter reports whether the outermost braces of v wrap the entire
// value, i.e. stripping them keeps the text well-formed.
func balancedOuter(v string) bool {
	depth := 0
	for i := 0; i < len(v); i++ {
		switch v[i] {
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 && i != len(v)-1 {
				return false
			}
		}
	}
	return depth == 0
}

// setParsedField routes a parsed field into the entry, decoding the JabRef
// ranking/readstate/priority conventions.
func setParsedField(entry *Entry, name, value string) {
	switch name {
	case "ranking":
		// JabRef stores ratings as rank1..rank5.
		n, err := strconv.Atoi(strings.TrimPrefix(value, "rank"))
		if err == nil {
			entry.SetRating(n)
		}
	case "readstate":
		for _, s := range ReadStates {
			if value == s {
				entry.ReadState = value
				break
			}
		}
	case "priority":
		if n, err := strconv.Atoi(value); err == nil && n >= 0 && n < len(Priorities) {
			entry.Priority = n
		}
	default:
		if knownFields[name] {
			entry.SetField(name, value)
		} else {
			entry.RawFields[name] = value
		}
	}
}
