package runtime

import (
	"fmt"
	"strings"
	"sync"

	"github.com/coregx/coregex"
)

// Regex is a compiled pattern together with the flags it was built with.
type Regex struct {
	pattern string
	flags   string
	re      *coregex.Regexp
}

// Compile builds a Regex. flags may contain i (ignore case), m (^ and $
// match at line breaks) and s (dot matches newline).
func Compile(pattern, flags string) (*Regex, error) {
	var prefix strings.Builder
	for _, f := range flags {
		switch f {
		case 'i', 'm', 's':
			if !strings.ContainsRune(prefix.String(), f) {
				prefix.WriteRune(f)
			}
		default:
			return nil, fmt.Errorf("invalid regular expression flag %q", f)
		}
	}
	expr := pattern
	if prefix.Len() > 0 {
		expr = "(?" + prefix.String() + ")" + pattern
	}
	re, err := coregex.Compile(expr)
	if err != nil {
		return nil, err
	}
	return &Regex{pattern: pattern, flags: flags, re: re}, nil
}

// MustCompile is like Compile but panics on error.
func MustCompile(pattern, flags string) *Regex {
	re, err := Compile(pattern, flags)
	if err != nil {
		panic(err)
	}
	return re
}

// Pattern returns the source pattern without flags.
func (r *Regex) Pattern() string { return r.pattern }

// Flags returns the flags the pattern was compiled with.
func (r *Regex) Flags() string { return r.flags }

// MatchString reports whether s contains a match.
func (r *Regex) MatchString(s string) bool {
	return r.re.MatchString(s)
}

// FindStringIndex returns the bounds of the first match, or nil.
func (r *Regex) FindStringIndex(s string) []int {
	return r.re.FindStringIndex(s)
}

// FindAllStringIndex returns up to n non-overlapping matches; n < 0 means
// all of them.
func (r *Regex) FindAllStringIndex(s string, n int) [][]int {
	return r.re.FindAllStringIndex(s, n)
}

// ReplaceAllString replaces every match with repl, expanding $1 style
// group references.
func (r *Regex) ReplaceAllString(s, repl string) string {
	return r.re.ReplaceAllString(s, repl)
}

// Split slices s around the matches.
func (r *Regex) Split(s string, n int) []string {
	return r.re.Split(s, n)
}

// RegexCache keeps compiled patterns for reuse across calls, evicting the
// oldest entry once full. Lookups of cached patterns take no lock.
type RegexCache struct {
	cache   sync.Map // key -> *Regex
	orderMu sync.Mutex
	order   []string
	maxSize int
}

// NewRegexCache creates a cache holding up to maxSize patterns; zero or
// less selects 100.
func NewRegexCache(maxSize int) *RegexCache {
	if maxSize <= 0 {
		maxSize = 100
	}
	return &RegexCache{
		order:   make([]string, 0, maxSize),
		maxSize: maxSize,
	}
}

// Get returns the compiled form of pattern with flags, compiling it on a
// miss.
func (c *RegexCache) Get(pattern, flags string) (*Regex, error) {
	key := flags + "/" + pattern
	if re, ok := c.cache.Load(key); ok {
		return re.(*Regex), nil
	}

	re, err := Compile(pattern, flags)
	if err != nil {
		return nil, err
	}
	if existing, loaded := c.cache.LoadOrStore(key, re); loaded {
		return existing.(*Regex), nil
	}

	c.orderMu.Lock()
	c.order = append(c.order, key)
	for len(c.order) > c.maxSize {
		c.cache.Delete(c.order[0])
		c.order = c.order[1:]
	}
	c.orderMu.Unlock()
	return re, nil
}

// Len returns the number of cached patterns.
func (c *RegexCache) Len() int {
	c.orderMu.Lock()
	defer c.orderMu.Unlock()
	return len(c.order)
}

// Clear empties the cache.
func (c *RegexCache) Clear() {
	c.orderMu.Lock()
	defer c.orderMu.Unlock()
	for _, key := range c.order {
		c.cache.Delete(key)
	}
	c.order = c.order[:0]
}
