package runtime

import (
	"fmt"
	"strings"
	"sync"
	"testing"
)

func TestCompile(t *testing.T) {
	tests := []struct {
		pattern string
		flags   string
		wantErr bool
	}{
		{"hello", "", false},
		{"^[a-z]+$", "i", false},
		{"(foo|bar)", "ms", false},
		{`\d+`, "ii", false},
		{"[invalid", "", true},
		{"(unclosed", "", true},
		{"ok", "g", true},
	}

	for _, tt := range tests {
		t.Run(tt.pattern+"/"+tt.flags, func(t *testing.T) {
			re, err := Compile(tt.pattern, tt.flags)
			if tt.wantErr {
				if err == nil {
					t.Errorf("expected error for %q with flags %q", tt.pattern, tt.flags)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if re.Pattern() != tt.pattern || re.Flags() != tt.flags {
				t.Errorf("Pattern(), Flags() = %q, %q", re.Pattern(), re.Flags())
			}
		})
	}
}

func TestMustCompile(t *testing.T) {
	defer func() {
		if r := recover(); r == nil {
			t.Error("expected panic for invalid pattern")
		}
	}()
	MustCompile("[invalid", "")
}

func TestMatchString(t *testing.T) {
	tests := []struct {
		pattern string
		flags   string
		input   string
		want    bool
	}{
		{"hello", "", "hello world", true},
		{"^hello", "", "say hello", false},
		{"world$", "", "hello world", true},
		{"HELLO", "", "hello", false},
		{"HELLO", "i", "hello", true},
		{"^b$", "", "a\nb", false},
		{"^b$", "m", "a\nb", true},
		{"a.b", "", "a\nb", false},
		{"a.b", "s", "a\nb", true},
	}

	for _, tt := range tests {
		t.Run(tt.pattern+"/"+tt.flags, func(t *testing.T) {
			re := MustCompile(tt.pattern, tt.flags)
			if got := re.MatchString(tt.input); got != tt.want {
				t.Errorf("MatchString(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

func TestFindAndReplace(t *testing.T) {
	re := MustCompile(`[0-9]+`, "")

	if got := re.FindStringIndex("abc123def45"); len(got) != 2 || got[0] != 3 || got[1] != 6 {
		t.Errorf("FindStringIndex = %v", got)
	}
	if got := re.FindStringIndex("none"); got != nil {
		t.Errorf("FindStringIndex(none) = %v", got)
	}
	if got := re.FindAllStringIndex("1 22 333", -1); len(got) != 3 {
		t.Errorf("FindAllStringIndex = %v", got)
	}
	if got := re.ReplaceAllString("a1b22", "#"); got != "a#b#" {
		t.Errorf("ReplaceAllString = %q", got)
	}
	if got := MustCompile(`(\w+)@(\w+)`, "").ReplaceAllString("me@host", "$2:$1"); got != "host:me" {
		t.Errorf("group replace = %q", got)
	}
	if got := strings.Join(MustCompile(`,\s*`, "").Split("a, b,c", -1), "|"); got != "a|b|c" {
		t.Errorf("Split = %q", got)
	}
}

func TestRegexCache(t *testing.T) {
	c := NewRegexCache(2)

	a, err := c.Get("a+", "")
	if err != nil {
		t.Fatal(err)
	}
	if again, _ := c.Get("a+", ""); again != a {
		t.Error("cache miss for a stored pattern")
	}
	if ai, _ := c.Get("a+", "i"); ai == a {
		t.Error("flags ignored in cache key")
	}
	if c.Len() != 2 {
		t.Errorf("Len() = %d, want 2", c.Len())
	}

	// A third pattern evicts the oldest.
	if _, err := c.Get("b+", ""); err != nil {
		t.Fatal(err)
	}
	if c.Len() != 2 {
		t.Errorf("Len() after eviction = %d, want 2", c.Len())
	}
	if again, _ := c.Get("a+", ""); again == a {
		t.Error("oldest pattern was not evicted")
	}

	if _, err := c.Get("[bad", ""); err == nil {
		t.Error("expected compile error")
	}

	c.Clear()
	if c.Len() != 0 {
		t.Errorf("Len() after Clear = %d", c.Len())
	}
}

func TestRegexCacheConcurrency(t *testing.T) {
	c := NewRegexCache(8)
	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			for j := 0; j < 50; j++ {
				re, err := c.Get(fmt.Sprintf("x%d", (i+j)%12), "")
				if err != nil || !re.MatchString(re.Pattern()) {
					t.Errorf("Get: %v", err)
					return
				}
			}
		}(i)
	}
	wg.Wait()
	if c.Len() > 8 {
		t.Errorf("Len() = %d exceeds capacity", c.Len())
	}
}

func BenchmarkRegexCache(b *testing.B) {
	c := NewRegexCache(10)
	patterns := []string{`\d+`, `[a-z]+`, `foo|bar`}
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_, _ = c.Get(patterns[i%len(patterns)], "")
	}
}
