package pipeline

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/matzehuels/nodegroup/pkg/cache"
	nerrors "github.com/matzehuels/nodegroup/pkg/errors"
	"github.com/matzehuels/nodegroup/pkg/ident"
	"github.com/matzehuels/nodegroup/pkg/observability"
	"github.com/matzehuels/nodegroup/pkg/render"
)

// memCache is an in-memory cache.Cache that counts operations.
type memCache struct {
	mu      sync.Mutex
	data    map[string][]byte
	gets    int
	sets    int
	failing bool
}

func newMemCache() *memCache { return &memCache{data: make(map[string][]byte)} }

func (c *memCache) Get(_ context.Context, key string) ([]byte, bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.gets++
	if c.failing {
		return nil, false, errors.New("backend down")
	}
	d, ok := c.data[key]
	return d, ok, nil
}

func (c *memCache) Set(_ context.Context, key string, data []byte, _ time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.sets++
	if c.failing {
		return errors.New("backend down")
	}
	c.data[key] = data
	return nil
}

func (c *memCache) Delete(_ context.Context, key string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.data, key)
	return nil
}

func (c *memCache) Close() error { return nil }

func samplePairs() []ident.Pair {
	return []ident.Pair{
		ident.MustParsePair("user::bob$org::acme"),
		ident.MustParsePair("user::alice$org::acme"),
		ident.MustParsePair("repo::web$repo::web"),
	}
}

func TestValidateFormat(t *testing.T) {
	tests := []struct {
		format  string
		wantErr bool
	}{
		{"text", false},
		{"json", false},
		{"dot", false},
		{"svg", false},
		{"png", false},
		{"pdf", false},
		{"invalid", true},
		{"SVG", true}, // case-sensitive
		{"", true},
	}

	for _, tt := range tests {
		err := ValidateFormat(tt.format)
		if (err != nil) != tt.wantErr {
			t.Errorf("ValidateFormat(%q) error = %v, wantErr %v", tt.format, err, tt.wantErr)
		}
		if err != nil && !nerrors.Is(err, nerrors.ErrCodeInvalidFormat) {
			t.Errorf("ValidateFormat(%q) code = %s, want INVALID_FORMAT", tt.format, nerrors.GetCode(err))
		}
	}
}

func TestValidateFormats(t *testing.T) {
	if err := ValidateFormats([]string{"svg", "json"}); err != nil {
		t.Errorf("Valid formats should pass: %v", err)
	}
	if err := ValidateFormats([]string{"svg", "invalid"}); err == nil {
		t.Error("Invalid format should fail")
	}
	if err := ValidateFormats(nil); err != nil {
		t.Errorf("Empty formats should pass: %v", err)
	}
}

func TestParseFormats(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"", ""},
		{"svg", "svg"},
		{"json, dot ,svg", "json|dot|svg"},
		{",,text,", "text"},
	}
	for _, tt := range tests {
		if got := strings.Join(ParseFormats(tt.in), "|"); got != tt.want {
			t.Errorf("ParseFormats(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestOptionsDefaults(t *testing.T) {
	var o Options
	if err := o.ValidateAndSetDefaults(); err != nil {
		t.Fatalf("ValidateAndSetDefaults: %v", err)
	}
	if len(o.Formats) != 1 || o.Formats[0] != FormatText {
		t.Errorf("default Formats = %v, want [text]", o.Formats)
	}
	if o.Scale != DefaultScale {
		t.Errorf("default Scale = %v", o.Scale)
	}
	if o.Logger == nil {
		t.Error("default Logger should be set")
	}

	bad := Options{Scale: -1}
	if err := bad.ValidateAndSetDefaults(); err == nil {
		t.Error("negative scale should fail")
	}

	groupsOnly := Options{GroupsOnly: true}
	if err := groupsOnly.ValidateAndSetDefaults(); err != nil {
		t.Fatalf("ValidateAndSetDefaults(GroupsOnly): %v", err)
	}
	if len(groupsOnly.Formats) != 0 {
		t.Errorf("GroupsOnly Formats = %v, want none", groupsOnly.Formats)
	}

	mixed := Options{GroupsOnly: true, Formats: []string{FormatJSON}}
	if err := mixed.ValidateAndSetDefaults(); !nerrors.Is(err, nerrors.ErrCodeInvalidInput) {
		t.Errorf("GroupsOnly with formats: err = %v, want INVALID_INPUT", err)
	}
}

func TestArtifactKeyOpts(t *testing.T) {
	o := Options{Compact: true, Flat: true, Scale: 3, Sorted: true}

	if k := o.ArtifactKeyOpts(FormatJSON); k.Compact || k.Flat || k.Scale != 0 || !k.Sorted {
		t.Errorf("json key should only carry Sorted: %+v", k)
	}
	if k := o.ArtifactKeyOpts(FormatSVG); !k.Compact || !k.Flat || k.Scale != 0 {
		t.Errorf("svg key should carry diagram options: %+v", k)
	}
	if k := o.ArtifactKeyOpts(FormatPNG); k.Scale != 3 {
		t.Errorf("png key should carry scale: %+v", k)
	}
}

func TestInputHash(t *testing.T) {
	a := InputHash(samplePairs())
	if a != InputHash(samplePairs()) {
		t.Error("InputHash should be deterministic")
	}

	reordered := samplePairs()
	reordered[0], reordered[1] = reordered[1], reordered[0]
	if a == InputHash(reordered) {
		t.Error("InputHash should depend on order")
	}

	// Separators inside fields must not collide with a different split.
	x := []ident.Pair{ident.NewPair(ident.New("a", "b::c"), ident.New("d", "e"))}
	y := []ident.Pair{ident.NewPair(ident.New("a::b", "c"), ident.New("d", "e"))}
	if InputHash(x) == InputHash(y) {
		t.Error("InputHash should distinguish type/name boundaries")
	}
}

func TestExecute(t *testing.T) {
	r := NewRunner(nil, nil, nil)
	res, err := r.Execute(context.Background(), samplePairs(), Options{Formats: []string{"text", "json", "dot"}})
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}

	if len(res.Groups) != 2 {
		t.Fatalf("got %d groups, want 2", len(res.Groups))
	}
	if got := res.Groups[0][0].String(); got != "user::bob" {
		t.Errorf("first member = %s, want first-seen user::bob", got)
	}
	if res.Stats.Pairs != 3 || res.Stats.Nodes != 4 || res.Stats.Groups != 2 || res.Stats.Largest != 3 {
		t.Errorf("Stats = %+v", res.Stats)
	}
	if res.RunID == "" || res.InputHash == "" {
		t.Error("RunID and InputHash should be set")
	}

	text := string(res.Artifacts["text"])
	if !strings.HasPrefix(text, "user::bob, org::acme, user::alice\n") {
		t.Errorf("text artifact = %q", text)
	}
	if !strings.Contains(string(res.Artifacts["json"]), `"repo::web"`) {
		t.Errorf("json artifact = %s", res.Artifacts["json"])
	}
	if !strings.Contains(string(res.Artifacts["dot"]), `"user::bob" -- "org::acme"`) {
		t.Errorf("dot artifact missing edge")
	}
}

func TestExecuteSorted(t *testing.T) {
	r := NewRunner(nil, nil, nil)
	res, err := r.Execute(context.Background(), samplePairs(), Options{Sorted: true})
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if got := res.Groups[0][0].String(); got != "org::acme" {
		t.Errorf("sorted first member = %s, want org::acme", got)
	}
	if got := res.Groups[1][0].String(); got != "repo::web" {
		t.Errorf("sorted second group = %s, want repo::web", got)
	}
}

func TestExecuteEmpty(t *testing.T) {
	r := NewRunner(nil, nil, nil)
	res, err := r.Execute(context.Background(), nil, Options{Formats: []string{"json", "text"}})
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if res.Groups == nil || len(res.Groups) != 0 {
		t.Errorf("Groups = %#v, want empty non-nil", res.Groups)
	}
	if !strings.Contains(string(res.Artifacts["json"]), `"groups": []`) {
		t.Errorf("json artifact = %s", res.Artifacts["json"])
	}
	if len(res.Artifacts["text"]) != 0 {
		t.Errorf("text artifact = %q, want empty", res.Artifacts["text"])
	}
}

func TestExecuteGroupsOnly(t *testing.T) {
	c := newMemCache()
	r := NewRunner(c, nil, nil)
	res, err := r.Execute(context.Background(), samplePairs(), Options{GroupsOnly: true})
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if len(res.Groups) != 2 {
		t.Errorf("got %d groups, want 2", len(res.Groups))
	}
	if res.Artifacts == nil || len(res.Artifacts) != 0 {
		t.Errorf("Artifacts = %v, want empty non-nil", res.Artifacts)
	}
	if c.sets != 1 {
		t.Errorf("cache sets = %d, want only the groups entry", c.sets)
	}
	for key := range c.data {
		if strings.HasPrefix(key, "artifact:") {
			t.Errorf("groups-only run cached %s", key)
		}
	}
}

func TestExecuteInvalidFormat(t *testing.T) {
	r := NewRunner(nil, nil, nil)
	_, err := r.Execute(context.Background(), samplePairs(), Options{Formats: []string{"gif"}})
	if !nerrors.Is(err, nerrors.ErrCodeInvalidFormat) {
		t.Errorf("err = %v, want INVALID_FORMAT", err)
	}
}

func TestExecuteCache(t *testing.T) {
	ctx := context.Background()
	c := newMemCache()
	r := NewRunner(c, nil, nil)
	opts := Options{Formats: []string{"json", "dot"}}

	first, err := r.Execute(ctx, samplePairs(), opts)
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if first.CacheInfo.GroupsHit || first.CacheInfo.RenderHit {
		t.Error("first run should miss the cache")
	}
	if c.sets != 3 {
		t.Errorf("first run wrote %d entries, want 3 (groups + 2 artifacts)", c.sets)
	}

	second, err := r.Execute(ctx, samplePairs(), opts)
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if !second.CacheInfo.GroupsHit || !second.CacheInfo.RenderHit {
		t.Errorf("second run CacheInfo = %+v, want hits", second.CacheInfo)
	}
	if second.InputHash != first.InputHash {
		t.Error("InputHash changed between identical runs")
	}
	if string(second.Artifacts["dot"]) != string(first.Artifacts["dot"]) {
		t.Error("cached artifact differs from rendered one")
	}
	if second.Stats.Stats != first.Stats.Stats {
		t.Errorf("cached stats %+v, want %+v", second.Stats.Stats, first.Stats.Stats)
	}
	for i := range first.Groups {
		for j := range first.Groups[i] {
			if first.Groups[i][j] != second.Groups[i][j] {
				t.Fatalf("cached groups differ at [%d][%d]", i, j)
			}
		}
	}

	// A new format on a cached grouping renders only what is missing.
	third, err := r.Execute(ctx, samplePairs(), Options{Formats: []string{"json", "text"}})
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if !third.CacheInfo.GroupsHit || third.CacheInfo.RenderHit {
		t.Errorf("third run CacheInfo = %+v", third.CacheInfo)
	}
	if len(third.Artifacts) != 2 {
		t.Errorf("third run artifacts = %d, want 2", len(third.Artifacts))
	}
}

func TestExecuteRefresh(t *testing.T) {
	ctx := context.Background()
	c := newMemCache()
	r := NewRunner(c, nil, nil)

	if _, err := r.Execute(ctx, samplePairs(), Options{}); err != nil {
		t.Fatal(err)
	}
	gets := c.gets

	res, err := r.Execute(ctx, samplePairs(), Options{Refresh: true})
	if err != nil {
		t.Fatal(err)
	}
	if res.CacheInfo.GroupsHit {
		t.Error("refresh should not read the cache")
	}
	if c.gets != gets {
		t.Errorf("refresh performed %d cache reads", c.gets-gets)
	}
}

func TestExecuteCacheFailure(t *testing.T) {
	c := newMemCache()
	c.failing = true
	r := NewRunner(c, nil, nil)

	res, err := r.Execute(context.Background(), samplePairs(), Options{Formats: []string{"json"}})
	if err != nil {
		t.Fatalf("cache errors should not fail the run: %v", err)
	}
	if len(res.Groups) != 2 {
		t.Errorf("got %d groups, want 2", len(res.Groups))
	}
}

func TestExecuteCorruptCacheEntry(t *testing.T) {
	ctx := context.Background()
	c := newMemCache()
	r := NewRunner(c, nil, nil)
	pairs := samplePairs()

	c.data[r.Keyer.GroupKey(InputHash(pairs))] = []byte("{not json")

	res, err := r.Execute(ctx, pairs, Options{})
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if res.CacheInfo.GroupsHit {
		t.Error("corrupt entry should be treated as a miss")
	}
	if len(res.Groups) != 2 {
		t.Errorf("got %d groups, want 2", len(res.Groups))
	}
}

func TestExecuteCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	r := NewRunner(nil, nil, nil)
	_, err := r.Execute(ctx, samplePairs(), Options{})
	if !errors.Is(err, context.Canceled) {
		t.Errorf("err = %v, want context.Canceled", err)
	}
}

func TestExecuteScopedKeyer(t *testing.T) {
	c := newMemCache()
	r := NewRunner(c, cache.NewScopedKeyer(nil, "tenant:"), nil)
	if _, err := r.Execute(context.Background(), samplePairs(), Options{}); err != nil {
		t.Fatal(err)
	}
	for k := range c.data {
		if !strings.HasPrefix(k, "tenant:") {
			t.Errorf("key %q not scoped", k)
		}
	}
}

type countingHooks struct {
	observability.NoopGroupHooks
	mu     sync.Mutex
	starts int
	cached []bool
}

func (h *countingHooks) OnGroupStart(context.Context, int) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.starts++
}

func (h *countingHooks) OnGroupComplete(_ context.Context, _, _ int, cached bool, _ time.Duration, _ error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.cached = append(h.cached, cached)
}

func TestExecuteHooks(t *testing.T) {
	observability.Reset()
	defer observability.Reset()
	hooks := &countingHooks{}
	observability.SetGroupHooks(hooks)

	r := NewRunner(newMemCache(), nil, nil)
	for i := 0; i < 2; i++ {
		if _, err := r.Execute(context.Background(), samplePairs(), Options{}); err != nil {
			t.Fatal(err)
		}
	}

	if hooks.starts != 2 {
		t.Errorf("OnGroupStart called %d times, want 2", hooks.starts)
	}
	if len(hooks.cached) != 2 || hooks.cached[0] || !hooks.cached[1] {
		t.Errorf("OnGroupComplete cached flags = %v, want [false true]", hooks.cached)
	}
}

func TestRenderSVG(t *testing.T) {
	r := NewRunner(nil, nil, nil)
	res, err := r.Execute(context.Background(), samplePairs(), Options{Formats: []string{"svg"}})
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if !strings.Contains(string(res.Artifacts["svg"]), "<svg") {
		t.Error("svg artifact missing <svg> tag")
	}
}

func TestRenderPNG(t *testing.T) {
	if !render.CanConvert() {
		t.Skip("rsvg-convert not installed")
	}
	r := NewRunner(nil, nil, nil)
	res, err := r.Execute(context.Background(), samplePairs(), Options{Formats: []string{"png"}})
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if !strings.HasPrefix(string(res.Artifacts["png"]), "\x89PNG") {
		t.Error("png artifact missing PNG signature")
	}
}

func TestRenderRequiresGraph(t *testing.T) {
	_, err := Render(context.Background(), nil, nil, Options{Formats: []string{"dot"}})
	if err == nil {
		t.Error("Render of dot without a graph should fail")
	}
}
