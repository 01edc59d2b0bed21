package proportion_test

import (
	"fmt"

	"github.com/matzehuels/rampboard/pkg/proportion"
	"github.com/matzehuels/rampboard/pkg/table"
)

func Example() {
	t := table.New(
		[]string{"region", "q1", "q2"},
		[][]string{{"A", "10", "30"}, {"A", "5", "5"}, {"B", "0", "0"}},
	)

	g, err := proportion.Compute(t, "region", []string{"q1", "q2"})
	if err != nil {
		panic(err)
	}
	r, err := g.Ranked("A", proportion.DefaultPalette)
	if err != nil {
		panic(err)
	}
	for _, e := range r.Entries {
		fmt.Printf("%s %.2f %s\n", e.Column, e.Proportion, e.Color)
	}
	// Output:
	// q2 0.70 rgba(255,0,0,1)
	// q1 0.30 rgba(0,0,255,0.88)
}
