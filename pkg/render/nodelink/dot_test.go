package nodelink

import (
	"context"
	"strings"
	"testing"

	"github.com/matzehuels/nodegroup/pkg/group"
	"github.com/matzehuels/nodegroup/pkg/ident"
)

func testGraph() (*group.Graph, [][]ident.ID) {
	g := group.New([]ident.Pair{
		ident.MustParsePair("user::alice$org::acme"),
		ident.MustParsePair("org::acme$repo::web"),
		ident.MustParsePair("user::bob$user::bob"),
	})
	return g, g.Components()
}

func TestToDOT_Basic(t *testing.T) {
	g, groups := testGraph()
	dot := ToDOT(g, groups, Options{})

	if !strings.HasPrefix(dot, "graph G {") {
		t.Error("ToDOT() output missing undirected graph declaration")
	}
	for _, want := range []string{`"user::alice"`, `"org::acme"`, `"repo::web"`, `"user::bob"`} {
		if !strings.Contains(dot, want) {
			t.Errorf("ToDOT() output missing node %s", want)
		}
	}
	if !strings.Contains(dot, `"user::alice" -- "org::acme"`) {
		t.Error("ToDOT() output missing edge")
	}
	if !strings.Contains(dot, `"user::bob" -- "user::bob"`) {
		t.Error("ToDOT() output missing self loop")
	}
	if strings.Contains(dot, "->") {
		t.Error("ToDOT() should not emit directed edges")
	}
}

func TestToDOT_Clusters(t *testing.T) {
	g, groups := testGraph()
	dot := ToDOT(g, groups, Options{})

	if !strings.Contains(dot, "subgraph cluster_0") || !strings.Contains(dot, "subgraph cluster_1") {
		t.Error("ToDOT() should emit one cluster per group")
	}
	if strings.Contains(dot, "cluster_2") {
		t.Error("ToDOT() emitted more clusters than groups")
	}
	if !strings.Contains(dot, `label="group 1 (3 nodes)"`) {
		t.Error("ToDOT() missing cluster label for first group")
	}
	if !strings.Contains(dot, `label="group 2 (1 node)"`) {
		t.Error("ToDOT() missing singular cluster label")
	}

	// Members of the first group precede the second cluster.
	first := strings.Index(dot, "cluster_0")
	alice := strings.Index(dot, `"user::alice" [`)
	second := strings.Index(dot, "cluster_1")
	if !(first < alice && alice < second) {
		t.Error("ToDOT() node not placed inside its group cluster")
	}
}

func TestToDOT_Flat(t *testing.T) {
	g, groups := testGraph()
	dot := ToDOT(g, groups, Options{Flat: true})

	if strings.Contains(dot, "subgraph") {
		t.Error("ToDOT() flat output should have no clusters")
	}
	if !strings.Contains(dot, "fillcolor=\""+palette[1]+"\"") {
		t.Error("ToDOT() flat output should color nodes by group")
	}
}

func TestToDOT_Compact(t *testing.T) {
	g, groups := testGraph()
	dot := ToDOT(g, groups, Options{Compact: true})

	if !strings.Contains(dot, `label="alice"`) {
		t.Error("ToDOT() compact label should be the name only")
	}
	if !strings.Contains(dot, `tooltip="user::alice"`) {
		t.Error("ToDOT() compact output should keep the canonical tooltip")
	}
	if strings.Contains(dot, "group 1") {
		t.Error("ToDOT() compact output should drop cluster titles")
	}
}

func TestToDOT_Empty(t *testing.T) {
	dot := ToDOT(group.New(nil), nil, Options{})
	if !strings.HasPrefix(dot, "graph G {") || !strings.HasSuffix(dot, "}\n") {
		t.Errorf("ToDOT() empty graph malformed: %q", dot)
	}
}

func TestToDOT_Quoting(t *testing.T) {
	p := ident.NewPair(ident.New("file", `a "quoted" name`), ident.New("dir", "x"))
	g := group.New([]ident.Pair{p})
	dot := ToDOT(g, g.Components(), Options{})

	if !strings.Contains(dot, `"file::a \"quoted\" name"`) {
		t.Errorf("ToDOT() should escape quotes in IDs:\n%s", dot)
	}
}

func TestFmtLabel(t *testing.T) {
	id := ident.New("user", "alice")
	if got := fmtLabel(id, false); got != "user\nalice" {
		t.Errorf("fmtLabel() = %q, want type and name on two lines", got)
	}
	if got := fmtLabel(id, true); got != "alice" {
		t.Errorf("fmtLabel() compact = %q, want %q", got, "alice")
	}
}

func TestNormalizeViewBox(t *testing.T) {
	tests := []struct {
		name string
		svg  string
		want string
	}{
		{
			name: "with viewBox",
			svg:  `<svg viewBox="10 20 800 600" xmlns="http://www.w3.org/2000/svg">content</svg>`,
			want: `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 800.00 600.00" width="800" height="600">content</svg>`,
		},
		{
			name: "no viewBox",
			svg:  `<svg xmlns="http://www.w3.org/2000/svg">content</svg>`,
			want: `<svg xmlns="http://www.w3.org/2000/svg">content</svg>`,
		},
		{
			name: "zero dimensions",
			svg:  `<svg viewBox="0 0 0 0">content</svg>`,
			want: `<svg viewBox="0 0 0 0">content</svg>`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := normalizeViewBox([]byte(tt.svg))
			if string(got) != tt.want {
				t.Errorf("normalizeViewBox() = %q, want %q", string(got), tt.want)
			}
		})
	}
}

func TestRenderSVG(t *testing.T) {
	g, groups := testGraph()
	svg, err := RenderSVG(context.Background(), ToDOT(g, groups, Options{}))
	if err != nil {
		t.Fatalf("RenderSVG() error: %v", err)
	}

	if !strings.Contains(string(svg), "<svg") {
		t.Error("RenderSVG() output missing <svg> tag")
	}
	if !strings.Contains(string(svg), "alice") {
		t.Error("RenderSVG() output missing node label")
	}
}

func TestRenderSVG_InvalidDOT(t *testing.T) {
	_, err := RenderSVG(context.Background(), `not valid DOT {{{`)
	if err == nil {
		t.Error("RenderSVG() should return error for invalid DOT")
	}
}
