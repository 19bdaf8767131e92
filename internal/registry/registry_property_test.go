//go:build property

package registry

import (
	"fmt"
	"sort"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
)

// TestDiscoveryOrderingProperties validates the ordering contract of
// generator discovery for arbitrary order multisets.
func TestDiscoveryOrderingProperties(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.Rng.Seed(4242)
	parameters.MinSuccessfulTests = 100

	properties := gopter.NewProperties(parameters)

	properties.Property("discovery output is ascending by order", prop.ForAll(
		func(orders []int) bool {
			r := NewRegistry()
			for i, order := range orders {
				r.RegisterGeneratorFunc(order, fmt.Sprintf("gen-%d", i), fmt.Sprintf("gen-%d.css", i),
					func() (string, error) { return "", nil })
			}

			descriptors, err := r.DiscoverGenerators()
			if err != nil {
				return false
			}

			return sort.SliceIsSorted(descriptors, func(i, j int) bool {
				return descriptors[i].Order < descriptors[j].Order
			})
		},
		gen.SliceOf(gen.IntRange(-100, 100)),
	))

	properties.Property("ties preserve registration sequence", prop.ForAll(
		func(orders []int) bool {
			r := NewRegistry()
			for i, order := range orders {
				r.RegisterGeneratorFunc(order, fmt.Sprintf("gen-%d", i), fmt.Sprintf("gen-%d.css", i),
					func() (string, error) { return "", nil })
			}

			descriptors, err := r.DiscoverGenerators()
			if err != nil {
				return false
			}

			// Within each order value, registration indices embedded in
			// the names must appear in increasing sequence.
			lastSeq := make(map[int]int)
			for _, d := range descriptors {
				var seq int
				if _, err := fmt.Sscanf(d.Name, "gen-%d", &seq); err != nil {
					return false
				}
				if prev, seen := lastSeq[d.Order]; seen && seq < prev {
					return false
				}
				lastSeq[d.Order] = seq
			}
			return true
		},
		gen.SliceOf(gen.IntRange(0, 5)),
	))

	properties.TestingRun(t)
}
