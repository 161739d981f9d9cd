package slug_test

import (
	"testing"
	"unicode/utf8"

	"github.com/projektwerk/stagehand/pkg/domain/types"
	"github.com/projektwerk/stagehand/pkg/service/slug"
)

func TestSlackProfile(t *testing.T) {
	f := slug.Slack()

	tests := []struct {
		name      string
		id        int64
		title     string
		qualifier string
		want      string
	}{
		{
			name:  "basic pattern",
			id:    42,
			title: "Purple Cow",
			want:  "42-purple_cow",
		},
		{
			name:  "reserved characters stripped",
			id:    42,
			title: "Purple Cow 2.0",
			want:  "42-purple_cow_20",
		},
		{
			name:  "truncated to 21 bytes without trailing separator",
			id:    7,
			title: "A very long project title",
			want:  "7-a_very_long_project",
		},
		{
			name:  "multi-byte title cut on a rune boundary",
			id:    1,
			title: "あああああああ",
			want:  "1-ああああああ",
		},
		{
			name:      "qualifier appended",
			id:        9,
			title:     "Ops",
			qualifier: "intern",
			want:      "9-ops-intern",
		},
		{
			name:  "empty title",
			id:    3,
			title: "",
			want:  "3",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := f.Format("P", tt.id, tt.title, tt.qualifier)
			if got != tt.want {
				t.Errorf("Format(%d, %q, %q) = %q, want %q", tt.id, tt.title, tt.qualifier, got, tt.want)
			}
			if len(got) > 21 {
				t.Errorf("Format(%d, %q, %q) exceeds 21 bytes: %q", tt.id, tt.title, tt.qualifier, got)
			}
			if !utf8.ValidString(got) {
				t.Errorf("Format(%d, %q, %q) is not valid UTF-8: %q", tt.id, tt.title, tt.qualifier, got)
			}
		})
	}
}

func TestShorten(t *testing.T) {
	f := slug.Slack()

	long := f.Format("P", 7, "A very long project title", "")
	got := f.Shorten(long, 1)
	if got != "7-a_very_long_projec" {
		t.Errorf("Shorten(%q, 1) = %q, want %q", long, got, "7-a_very_long_projec")
	}
	if len(got)+1 > 21 {
		t.Errorf("Shorten(%q, 1) leaves no room for the suffix: %q", long, got)
	}

	if got := f.Shorten("7-ops", 1); got != "7-ops" {
		t.Errorf("Shorten(%q, 1) = %q, want it unchanged", "7-ops", got)
	}
}

func TestDriveProfile(t *testing.T) {
	f := slug.Drive()

	got := f.Format("P", 42, "Purple Cow", "")
	if got != "P-0042-purple-cow" {
		t.Errorf("Format = %q, want %q", got, "P-0042-purple-cow")
	}
}

func TestNotionProfile(t *testing.T) {
	f := slug.Notion()

	got := f.Format("P", 42, "Purple Cow 2.0", "")
	if got != "P-0042 Purple Cow 2.0" {
		t.Errorf("Format = %q, want %q", got, "P-0042 Purple Cow 2.0")
	}
}

func TestGroupProfile(t *testing.T) {
	f := slug.Group()

	tests := []struct {
		name  string
		id    int64
		title string
		want  string
	}{
		{
			name:  "lowercased and hyphenated",
			id:    42,
			title: "Purple Cow",
			want:  "42-purple-cow",
		},
		{
			name:  "non-ascii dropped from email local part",
			id:    5,
			title: "Büro Köln",
			want:  "5-bro-kln",
		},
		{
			name:  "dots kept in email local part",
			id:    8,
			title: "v2.0 Infra",
			want:  "8-v2.0-infra",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := f.Format("P", tt.id, tt.title, "")
			if got != tt.want {
				t.Errorf("Format(%d, %q) = %q, want %q", tt.id, tt.title, got, tt.want)
			}
		})
	}
}

func TestParseRoundTrip(t *testing.T) {
	// parse(format(...)) recovers the parts exactly for titles that
	// contain no reserved characters for the profile
	tests := []struct {
		name  string
		f     *slug.Formatter
		code  types.TypeCode
		id    int64
		title string
	}{
		{"slack", slug.Slack(), "P", 42, "purple_cow"},
		{"drive", slug.Drive(), "P", 42, "purple-cow"},
		{"drive large id", slug.Drive(), "E", 12345, "offsite"},
		{"notion", slug.Notion(), "P", 7, "Purple Cow"},
		{"github", slug.GitHub(), "V", 3, "infra-tools"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			name := tt.f.Format(tt.code, tt.id, tt.title, "")
			parts, ok := tt.f.Parse(name)
			if !ok {
				t.Fatalf("Parse(%q) did not match", name)
			}
			if parts.ID != tt.id {
				t.Errorf("Parse(%q).ID = %d, want %d", name, parts.ID, tt.id)
			}
			if parts.Title != tt.f.Sanitize(tt.title) {
				t.Errorf("Parse(%q).Title = %q, want %q", name, parts.Title, tt.f.Sanitize(tt.title))
			}
		})
	}
}

func TestParseTypeCode(t *testing.T) {
	f := slug.Drive()

	parts, ok := f.Parse("P-0042-purple-cow")
	if !ok {
		t.Fatal("Parse did not match")
	}
	if parts.TypeCode != "P" {
		t.Errorf("TypeCode = %q, want %q", parts.TypeCode, "P")
	}
	if parts.ID != 42 {
		t.Errorf("ID = %d, want 42", parts.ID)
	}
	if parts.Title != "purple-cow" {
		t.Errorf("Title = %q, want %q", parts.Title, "purple-cow")
	}
}

func TestParseNoMatch(t *testing.T) {
	tests := []struct {
		name  string
		f     *slug.Formatter
		input string
	}{
		{"bare title", slug.Slack(), "purple_cow"},
		{"missing type code", slug.Drive(), "0042-purple-cow"},
		{"empty", slug.Slack(), ""},
		{"id not at start", slug.Slack(), "x42-purple_cow"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if parts, ok := tt.f.Parse(tt.input); ok {
				t.Errorf("Parse(%q) matched unexpectedly: %+v", tt.input, parts)
			}
		})
	}
}

func TestSanitize(t *testing.T) {
	f := slug.Slack()

	tests := []struct {
		input string
		want  string
	}{
		{"Test Project", "test_project"},
		{"UPPER", "upper"},
		{"semi;colon!", "semicolon"},
		{"keep-hyphen_underscore", "keep-hyphen_underscore"},
		{"", ""},
	}

	for _, tt := range tests {
		if got := f.Sanitize(tt.input); got != tt.want {
			t.Errorf("Sanitize(%q) = %q, want %q", tt.input, got, tt.want)
		}
	}
}
