package skill

import (
	"fmt"
	"io"
	"sort"
	"strings"
	"unicode"
	"unicode/utf8"

	"gopkg.in/yaml.v3"
)

var DefaultSynonyms = map[string][]string{
	"javascript":             {"js", "ecmascript", "es6"},
	"java":                   {"jvm java", "java se"},
	"typescript":             {"ts"},
	"go":                     {"golang"},
	"python":                 {"py", "python3"},
	"kubernetes":             {"k8s", "kube"},
	"postgresql":             {"postgres", "psql", "pg"},
	"node.js":                {"nodejs", "node"},
	"react":                  {"reactjs", "react.js"},
	"c#":                     {"csharp", "c sharp"},
	"c++":                    {"cpp"},
	"machine learning":       {"ml"},
	"amazon web services":    {"aws"},
	"google cloud platform":  {"gcp", "google cloud"},
	"continuous integration": {"ci", "ci/cd"},
}

func Normalize(name string) string {
	name = strings.ToLower(strings.TrimSpace(name))
	return strings.Join(strings.Fields(name), " ")
}

// Resolver maps raw skill names onto canonical ids and decides whether two names refer
// to the same skill.
type Resolver struct {
	canonical map[string]string
	known     map[string]struct{}
	strict    bool
}

func NewResolver(synonyms map[string][]string, strict bool) *Resolver {
	r := &Resolver{
		canonical: make(map[string]string, len(synonyms)*3),
		known:     make(map[string]struct{}, len(synonyms)),
		strict:    strict,
	}

	keys := make([]string, 0, len(synonyms))
	for k := range synonyms {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, k := range keys {
		c := Normalize(k)
		if c == "" {
			continue
		}
		r.known[c] = struct{}{}
		r.canonical[c] = c
		for _, alias := range synonyms[k] {
			a := Normalize(alias)
			if a == "" {
				continue
			}
			if _, taken := r.canonical[a]; taken {
				continue
			}
			r.canonical[a] = c
		}
	}
	return r
}

func DefaultResolver() *Resolver {
	return NewResolver(DefaultSynonyms, false)
}

func (r *Resolver) Strict() bool {
	return r != nil && r.strict
}

// Canonical returns the canonical id for name, or the normalised name when the table
// has no entry for it.
func (r *Resolver) Canonical(name string) string {
	n := Normalize(name)
	if r == nil {
		return n
	}
	if c, ok := r.canonical[n]; ok {
		return c
	}
	return n
}

func (r *Resolver) isKnown(canonical string) bool {
	if r == nil {
		return false
	}
	_, ok := r.known[canonical]
	return ok
}

// Matches reports whether a and b name the same skill. Canonical ids are compared first.
// The substring fallback is skipped in strict mode and when both names resolve to
// distinct table entries, so "java" never matches "javascript". When the shorter name is
// a table entry or shorter than minSubstringLen it must occur as a whole word, so "go"
// matches "go kit" but not "mongodb".
func (r *Resolver) Matches(a, b string) bool {
	ca := r.Canonical(a)
	cb := r.Canonical(b)
	if ca == "" || cb == "" {
		return false
	}
	if ca == cb {
		return true
	}
	if r.Strict() {
		return false
	}
	if r.isKnown(ca) && r.isKnown(cb) {
		return false
	}

	short, long := ca, cb
	if len(short) > len(long) {
		short, long = long, short
	}
	if r.isKnown(short) || len(short) < minSubstringLen {
		return containsWord(long, short)
	}
	return strings.Contains(long, short)
}

const minSubstringLen = 3

// containsWord reports whether needle occurs in hay bounded by non-alphanumeric runes or
// the ends of hay.
func containsWord(hay, needle string) bool {
	for from := 0; from <= len(hay)-len(needle); {
		i := strings.Index(hay[from:], needle)
		if i < 0 {
			return false
		}
		start := from + i
		end := start + len(needle)
		if boundaryBefore(hay, start) && boundaryAfter(hay, end) {
			return true
		}
		from = start + 1
	}
	return false
}

func boundaryBefore(s string, i int) bool {
	if i == 0 {
		return true
	}
	r, _ := utf8.DecodeLastRuneInString(s[:i])
	return !isWordRune(r)
}

func boundaryAfter(s string, i int) bool {
	if i >= len(s) {
		return true
	}
	r, _ := utf8.DecodeRuneInString(s[i:])
	return !isWordRune(r)
}

func isWordRune(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsDigit(r)
}

// MatchesAny reports whether name matches at least one of candidates.
func (r *Resolver) MatchesAny(name string, candidates []string) bool {
	for _, c := range candidates {
		if r.Matches(name, c) {
			return true
		}
	}
	return false
}

// Overlaps reports whether any name in a matches any name in b.
func (r *Resolver) Overlaps(a, b []string) bool {
	for _, x := range a {
		if r.MatchesAny(x, b) {
			return true
		}
	}
	return false
}

type synonymFile struct {
	Synonyms map[string][]string `yaml:"synonyms"`
}

// LoadSynonyms reads a YAML document of the form `synonyms: {canonical: [alias, ...]}`.
func LoadSynonyms(rd io.Reader) (map[string][]string, error) {
	var f synonymFile
	if err := yaml.NewDecoder(rd).Decode(&f); err != nil {
		if err == io.EOF {
			return map[string][]string{}, nil
		}
		return nil, fmt.Errorf("decode synonyms: %w", err)
	}
	if f.Synonyms == nil {
		return map[string][]string{}, nil
	}
	return f.Synonyms, nil
}

// Merge returns base extended by extra; extra wins on canonical collisions.
func Merge(base, extra map[string][]string) map[string][]string {
	out := make(map[string][]string, len(base)+len(extra))
	for k, v := range base {
		out[k] = append([]string(nil), v...)
	}
	for k, v := range extra {
		out[k] = append([]string(nil), v...)
	}
	return out
}
