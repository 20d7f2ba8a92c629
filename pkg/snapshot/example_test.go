package snapshot_test

import (
	"fmt"
	"os"
	"strings"

	"github.com/matzehuels/mindmap/pkg/snapshot"
)

func ExampleRead() {
	in := `{
	  "name": "trip",
	  "nodes": [
	    {"index": 0, "text": "Trip"},
	    {"index": 1, "text": "Packing", "x": 300}
	  ],
	  "edges": [{"from": 0, "to": 1}]
	}`

	d, err := snapshot.Read(strings.NewReader(in))
	if err != nil {
		fmt.Println(err)
		return
	}
	for _, n := range d.Graph().Nodes() {
		fmt.Println(n.Index, n.Text, n.Location.X)
	}
	// Output:
	// 0 Trip 0
	// 1 Packing 300
}

func ExampleWrite() {
	d, _ := snapshot.Read(strings.NewReader(`{"nodes": [{"index": 0, "text": "solo"}], "edges": []}`))
	d.Graph().Nodes()[0].Text = "renamed"
	_ = snapshot.Write(d, os.Stdout)
}
