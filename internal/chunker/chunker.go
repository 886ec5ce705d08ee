// Package chunker splits heading-annotated document text into
// overlapping retrieval units.
//
// Input is normalized text with markdown-style heading markup: lines
// beginning with "#".."######" open headings, blank lines separate
// paragraphs. The splitter keeps an explicit stack of open headings and
// stamps every emitted chunk with the heading path that encloses it, so
// a chunk can be cited as "Install > Linux" rather than by offset.
package chunker

import (
	"strings"

	"github.com/google/uuid"

	"github.com/archivist-labs/archivist/internal/core/domain"
)

// DefaultTargetSize is the default chunk size in runes.
const DefaultTargetSize = 600

// DefaultOverlap is the default overlap between adjacent chunks in
// runes.
const DefaultOverlap = 100

// Splitter converts hierarchical document text into an ordered chunk
// sequence. It is a pure value; a single Splitter is safe for
// concurrent use.
type Splitter struct {
	targetSize int
	overlap    int
}

// Option configures the splitter.
type Option func(*Splitter)

// WithTargetSize sets the target chunk size in runes.
func WithTargetSize(size int) Option {
	return func(s *Splitter) {
		if size > 0 {
			s.targetSize = size
		}
	}
}

// WithOverlap sets the overlap between adjacent chunks in runes.
func WithOverlap(overlap int) Option {
	return func(s *Splitter) {
		if overlap >= 0 {
			s.overlap = overlap
		}
	}
}

// New creates a splitter with the given options.
func New(opts ...Option) *Splitter {
	s := &Splitter{
		targetSize: DefaultTargetSize,
		overlap:    DefaultOverlap,
	}

	for _, opt := range opts {
		opt(s)
	}

	// Overlap must leave room for new content per chunk.
	if s.overlap >= s.targetSize {
		s.overlap = s.targetSize / 4
	}

	return s
}

// heading is one open level on the heading stack.
type heading struct {
	level int
	text  string
}

// Split converts text into chunks for the given file. Chunk indices are
// contiguous integers starting at 0 regardless of how many headings
// were traversed. Empty input produces no chunks; a heading with no
// following body contributes no chunk on its own.
func (s *Splitter) Split(fileID, text string) []domain.Chunk {
	var (
		chunks  []domain.Chunk
		stack   []heading
		units   []string
		unitLen int
	)

	// Units accumulate for the whole heading section and are emitted in
	// one pass, so the overlap seed carries across every chunk boundary
	// inside the section, not just within a single paragraph.
	flush := func() {
		if len(units) == 0 {
			return
		}
		chunks = append(chunks, s.emit(fileID, units, unitLen, len(chunks), headingPath(stack))...)
		units = nil
		unitLen = 0
	}

	for _, para := range paragraphs(text) {
		if level, title, ok := parseHeading(para); ok {
			// Body accumulated under the previous heading belongs to it.
			flush()
			for len(stack) > 0 && stack[len(stack)-1].level >= level {
				stack = stack[:len(stack)-1]
			}
			stack = append(stack, heading{level: level, text: title})
			continue
		}

		// Paragraph ends are always unit boundaries.
		for _, sentence := range s.sentences(para) {
			units = append(units, sentence)
			unitLen += len([]rune(sentence)) + 1
		}
	}
	flush()

	return chunks
}

// emit packs one heading section's sentence units into chunks of up to
// the target size, seeding each chunk with the trailing overlap runes
// of its predecessor so every adjacent pair overlaps.
func (s *Splitter) emit(fileID string, units []string, unitLen, startIndex int, headingPath string) []domain.Chunk {
	make1 := func(text string, index int) domain.Chunk {
		return domain.Chunk{
			ID:      uuid.New().String(),
			FileID:  fileID,
			Index:   index,
			Text:    text,
			Heading: headingPath,
		}
	}

	// unitLen overcounts the joined length by one separator.
	if unitLen-1 <= s.targetSize {
		return []domain.Chunk{make1(strings.Join(units, " "), startIndex)}
	}

	var (
		chunks  []domain.Chunk
		current []string
		curLen  int
	)

	for _, unit := range units {
		n := len([]rune(unit))

		if curLen+n > s.targetSize && len(current) > 0 {
			text := strings.Join(current, " ")
			chunks = append(chunks, make1(text, startIndex+len(chunks)))

			seed := tailRunes(text, s.overlap)
			if seed != "" {
				current = []string{seed}
				curLen = len([]rune(seed))
			} else {
				current = nil
				curLen = 0
			}
		}

		current = append(current, unit)
		curLen += n + 1
	}

	if len(current) > 0 {
		chunks = append(chunks, make1(strings.Join(current, " "), startIndex+len(chunks)))
	}

	return chunks
}

// sentences splits a paragraph at sentence boundaries. A single unit
// longer than twice the target size has no usable boundary and is
// force-split at target-size rune offsets.
func (s *Splitter) sentences(para string) []string {
	raw := splitSentences(para)

	out := make([]string, 0, len(raw))
	for _, sentence := range raw {
		runes := []rune(sentence)
		if len(runes) <= 2*s.targetSize {
			out = append(out, sentence)
			continue
		}
		for start := 0; start < len(runes); start += s.targetSize {
			end := start + s.targetSize
			if end > len(runes) {
				end = len(runes)
			}
			out = append(out, string(runes[start:end]))
		}
	}
	return out
}

// splitSentences breaks text after ".", "!" or "?" followed by
// whitespace.
func splitSentences(text string) []string {
	var (
		out   []string
		runes = []rune(text)
		start = 0
	)

	for i := 0; i < len(runes)-1; i++ {
		switch runes[i] {
		case '.', '!', '?':
			if runes[i+1] == ' ' || runes[i+1] == '\n' || runes[i+1] == '\t' {
				if s := strings.TrimSpace(string(runes[start : i+1])); s != "" {
					out = append(out, s)
				}
				start = i + 1
			}
		}
	}
	if s := strings.TrimSpace(string(runes[start:])); s != "" {
		out = append(out, s)
	}
	return out
}

// paragraphs splits text into heading lines and blank-line separated
// paragraph blocks, in document order.
func paragraphs(text string) []string {
	var (
		out     []string
		current []string
	)

	flush := func() {
		if len(current) > 0 {
			out = append(out, strings.Join(current, " "))
			current = nil
		}
	}

	for _, line := range strings.Split(text, "\n") {
		trimmed := strings.TrimSpace(line)
		switch {
		case trimmed == "":
			flush()
		case isHeadingLine(trimmed):
			// Headings terminate the current paragraph even without a
			// blank line.
			flush()
			out = append(out, trimmed)
		default:
			current = append(current, trimmed)
		}
	}
	flush()

	return out
}

// parseHeading interprets a markdown heading line. Returns the level
// (1..6), the heading text, and whether the line is a heading.
func parseHeading(line string) (int, string, bool) {
	if !isHeadingLine(line) {
		return 0, "", false
	}
	level := 0
	for level < len(line) && line[level] == '#' {
		level++
	}
	return level, strings.TrimSpace(line[level:]), true
}

func isHeadingLine(line string) bool {
	if !strings.HasPrefix(line, "#") {
		return false
	}
	level := 0
	for level < len(line) && line[level] == '#' {
		level++
	}
	return level <= 6 && level < len(line) && line[level] == ' '
}

// headingPath joins the open heading stack into a citation path.
func headingPath(stack []heading) string {
	if len(stack) == 0 {
		return ""
	}
	parts := make([]string, len(stack))
	for i, h := range stack {
		parts[i] = h.text
	}
	return strings.Join(parts, " > ")
}

// tailRunes returns the last n runes of text, or all of it when
// shorter.
func tailRunes(text string, n int) string {
	if n <= 0 {
		return ""
	}
	runes := []rune(text)
	if len(runes) <= n {
		return text
	}
	return string(runes[len(runes)-n:])
}
