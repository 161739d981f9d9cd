// Package slug derives canonical per-service resource names from project
// state and parses existing names back into their parts. Each service
// adapter owns one Formatter profile matching its remote naming rules;
// callers always pass the bare project title and the formatter alone is
// responsible for prefixing.
package slug

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/projektwerk/stagehand/pkg/domain/types"
)

// Parts is the result of parsing a slug back into its components
type Parts struct {
	TypeCode types.TypeCode
	ID       int64
	Title    string
}

// Formatter renders and parses slugs for one naming profile
type Formatter struct {
	withType    bool
	pad         int
	titleJoiner string
	space       rune
	lower       bool
	asciiOnly   bool
	keepAll     bool
	maxLen      int

	re *regexp.Regexp
}

// Option configures a Formatter
type Option func(*Formatter)

// WithTypeCode includes the project type code as the leading segment
func WithTypeCode() Option {
	return func(f *Formatter) { f.withType = true }
}

// WithIDPadding zero-pads the numeric ID to the given width
func WithIDPadding(width int) Option {
	return func(f *Formatter) { f.pad = width }
}

// WithTitleJoiner sets the string between the ID and the title segment
func WithTitleJoiner(j string) Option {
	return func(f *Formatter) { f.titleJoiner = j }
}

// WithSpaceReplacement sets the rune substituted for spaces in the title
func WithSpaceReplacement(r rune) Option {
	return func(f *Formatter) { f.space = r }
}

// WithLowercase lowercases the title segment
func WithLowercase() Option {
	return func(f *Formatter) { f.lower = true }
}

// WithASCIIOnly drops non-ASCII runes from the title (email local parts)
func WithASCIIOnly() Option {
	return func(f *Formatter) { f.asciiOnly = true }
}

// WithAllRunes keeps the title as-is apart from space replacement, for
// services whose names are free text (page and project titles).
func WithAllRunes() Option {
	return func(f *Formatter) { f.keepAll = true }
}

// WithMaxLen truncates the final slug to at most n bytes, stripping any
// trailing separator left by the cut.
func WithMaxLen(n int) Option {
	return func(f *Formatter) { f.maxLen = n }
}

// New creates a Formatter. The zero profile is the default template
// "{id}-{title}" with hyphenated, unmodified-case titles.
func New(opts ...Option) *Formatter {
	f := &Formatter{
		titleJoiner: "-",
		space:       '-',
	}
	for _, opt := range opts {
		opt(f)
	}
	f.re = f.compile()
	return f
}

func (f *Formatter) compile() *regexp.Regexp {
	var b strings.Builder
	b.WriteString(`^`)
	if f.withType {
		b.WriteString(`([A-Z])-`)
	}
	b.WriteString(`(\d+)`)
	b.WriteString(`(?:` + regexp.QuoteMeta(f.titleJoiner) + `(.*))?$`)
	return regexp.MustCompile(b.String())
}

// Sanitize normalizes a title (or qualifier) segment for this profile:
// spaces are substituted, the case rule applied, and runes the remote
// service prohibits are dropped.
func (f *Formatter) Sanitize(s string) string {
	if f.lower {
		s = strings.ToLower(s)
	}
	if f.space != ' ' {
		s = strings.ReplaceAll(s, " ", string(f.space))
	}

	var result strings.Builder
	result.Grow(len(s))
	for _, r := range s {
		switch {
		case f.keepAll && !unicode.IsControl(r):
			result.WriteRune(r)
		case (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9'):
			result.WriteRune(r)
		case r == '-' || r == '_':
			result.WriteRune(r)
		case r == '.' && f.asciiOnly:
			// Email local parts keep dots
			result.WriteRune(r)
		case r == ' ' && f.space == ' ':
			result.WriteRune(r)
		case r > 127 && !f.asciiOnly && !f.keepAll:
			// Non-ASCII titles are common; only drop the punctuation the
			// services reject.
			if !isProhibitedSymbol(r) {
				result.WriteRune(r)
			}
		}
	}
	return result.String()
}

// isProhibitedSymbol checks if a non-ASCII rune is punctuation that remote
// services reject in resource names
func isProhibitedSymbol(r rune) bool {
	prohibited := []rune{
		'。', '、', '！', '？', '／', '＼', '．', '，',
		'＠', '＃', '＄', '％', '＾', '＆', '＊', '（', '）',
		'｛', '｝', '＜', '＞', '｜', '～', '｀', '；', '：',
		'＋', '＝',
	}
	for _, p := range prohibited {
		if r == p {
			return true
		}
	}
	return false
}

// Format derives the canonical remote name from project state. The title
// must be the bare project title, never an already-formatted slug.
func (f *Formatter) Format(typeCode types.TypeCode, projectID int64, title, qualifier string) string {
	var head string
	if f.withType {
		head = fmt.Sprintf("%s-%0*d", typeCode, f.pad, projectID)
	} else {
		head = fmt.Sprintf("%0*d", f.pad, projectID)
	}

	name := head
	if t := f.Sanitize(title); t != "" {
		name += f.titleJoiner + t
	}
	if q := f.Sanitize(qualifier); q != "" {
		name += f.titleJoiner + q
	}

	if f.maxLen > 0 {
		name = truncate(name, f.maxLen)
	}
	return strings.TrimRight(name, "-_ ")
}

// Shorten re-truncates an already-formatted name so a disambiguation
// suffix of the given byte width still fits the length limit.
func (f *Formatter) Shorten(name string, suffix int) string {
	if f.maxLen == 0 || len(name)+suffix <= f.maxLen {
		return name
	}
	return strings.TrimRight(truncate(name, f.maxLen-suffix), "-_ ")
}

// truncate cuts s to at most max bytes without splitting a multi-byte
// rune across the boundary.
func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	for max > 0 && !utf8.RuneStart(s[max]) {
		max--
	}
	return s[:max]
}

// Parse decomposes an existing remote name created by this profile. The
// second return value is false when the name does not start with a slug
// of this shape. Used during rename to recognize that a remote name
// already encodes a project ID; never applied to caller-supplied titles.
func (f *Formatter) Parse(name string) (*Parts, bool) {
	m := f.re.FindStringSubmatch(name)
	if m == nil {
		return nil, false
	}

	parts := &Parts{}
	idx := 1
	if f.withType {
		parts.TypeCode = types.TypeCode(m[idx])
		idx++
	}
	id, err := strconv.ParseInt(m[idx], 10, 64)
	if err != nil {
		return nil, false
	}
	parts.ID = id
	parts.Title = m[idx+1]
	return parts, true
}

// Profiles for the known services. Scenario examples for project 42
// "Purple Cow" of type P: Slack "42-purple_cow", Drive "P-0042-purple-cow",
// Notion/Toggl "P-0042 Purple Cow", Group "42-purple-cow", GitHub
// "P-0042-purple-cow".

// Slack returns the chat channel profile: no type code, underscored
// lowercase titles, and the 21-byte channel name limit.
func Slack() *Formatter {
	return New(
		WithLowercase(),
		WithSpaceReplacement('_'),
		WithMaxLen(21),
	)
}

// Drive returns the file storage folder profile
func Drive() *Formatter {
	return New(
		WithTypeCode(),
		WithIDPadding(4),
		WithLowercase(),
	)
}

// Notion returns the project tracker page title profile
func Notion() *Formatter {
	return New(
		WithTypeCode(),
		WithIDPadding(4),
		WithTitleJoiner(" "),
		WithSpaceReplacement(' '),
		WithAllRunes(),
	)
}

// Toggl returns the time tracking project name profile
func Toggl() *Formatter {
	return New(
		WithTypeCode(),
		WithIDPadding(4),
		WithTitleJoiner(" "),
		WithSpaceReplacement(' '),
		WithAllRunes(),
	)
}

// Group returns the mailing list email local part profile
func Group() *Formatter {
	return New(
		WithLowercase(),
		WithASCIIOnly(),
		WithMaxLen(64),
	)
}

// GitHub returns the source repository name profile
func GitHub() *Formatter {
	return New(
		WithTypeCode(),
		WithIDPadding(4),
		WithLowercase(),
		WithMaxLen(100),
	)
}
