package subtree_test

import (
	"fmt"

	"github.com/matzehuels/treematch/pkg/subtree"
	"github.com/matzehuels/treematch/pkg/tree"
)

func ExampleMaximumCommonEmbedding() {
	// app(auth(db), cache) against app(db, cache)
	t1 := tree.New(nil)
	t2 := tree.New(nil)
	for _, id := range []string{"app", "auth", "db", "cache"} {
		_ = t1.AddNode(tree.Node{ID: id})
	}
	_ = t1.AddEdge("app", "auth")
	_ = t1.AddEdge("auth", "db")
	_ = t1.AddEdge("app", "cache")
	for _, id := range []string{"app", "db", "cache"} {
		_ = t2.AddNode(tree.Node{ID: id})
	}
	_ = t2.AddEdge("app", "db")
	_ = t2.AddEdge("app", "cache")

	res, err := subtree.MaximumCommonEmbedding(t1, t2, subtree.DefaultOptions())
	if err != nil {
		panic(err)
	}
	fmt.Println("value:", res.Value)
	fmt.Print(tree.Format(res.Subtree1))
	// Output:
	// value: 3
	// ╙── app
	//     ├── db
	//     └── cache
}
