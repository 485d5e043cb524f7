package nodelink_test

import (
	"fmt"
	"strings"

	"github.com/matzehuels/nodegroup/pkg/group"
	"github.com/matzehuels/nodegroup/pkg/ident"
	"github.com/matzehuels/nodegroup/pkg/render/nodelink"
)

func ExampleToDOT() {
	g := group.New([]ident.Pair{
		ident.MustParsePair("svc::api$db::users"),
		ident.MustParsePair("svc::worker$queue::jobs"),
	})

	dot := nodelink.ToDOT(g, g.Components(), nodelink.Options{})

	fmt.Println(strings.Count(dot, "subgraph cluster_"), "clusters")
	fmt.Println(strings.Count(dot, " -- "), "edges")
	// Output:
	// 2 clusters
	// 2 edges
}
