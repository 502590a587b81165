// Dist is a measurement tool for AnchorHash key distribution quality,
// lookup throughput, and disruption under resource churn.
//
// Usage:
//
//	go run ./cmd/dist -capacity 100 -resources 10 -keys 1000000 -hasher xxh3
//
// Flags:
//
//	-capacity   Engine capacity in buckets (default: 100)
//	-resources  Number of live resources (default: 10)
//	-keys       Number of keys to route (default: 1,000,000)
//	-hasher     Key hasher: xxh3, xxhash, or murmur3 (default: xxh3)
//	-workers    Number of parallel lookup workers (default: GOMAXPROCS)
//	-remove     Resources to remove for the disruption phase (default: 1)
//	-portable   Force the portable rehash path (default: false)
//	-modrange   Use modulo range reduction instead of fastrange (default: false)
package main

import (
	"flag"
	"fmt"
	"math"
	"runtime"
	"sync/atomic"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/tamirms/anchorhash"
)

func main() {
	capacityFlag := flag.Int("capacity", 100, "engine capacity in buckets")
	resourcesFlag := flag.Int("resources", 10, "number of live resources")
	keysFlag := flag.Int("keys", 1_000_000, "number of keys to route")
	hasherFlag := flag.String("hasher", "xxh3", "key hasher: xxh3, xxhash, or murmur3")
	workersFlag := flag.Int("workers", runtime.GOMAXPROCS(0), "number of parallel lookup workers")
	removeFlag := flag.Int("remove", 1, "resources to remove for the disruption phase")
	portableFlag := flag.Bool("portable", false, "force the portable rehash path")
	modRangeFlag := flag.Bool("modrange", false, "use modulo range reduction instead of fastrange")
	flag.Parse()

	capacity := *capacityFlag
	numResources := *resourcesFlag
	numKeys := *keysFlag
	numWorkers := *workersFlag
	numRemove := *removeFlag

	if numResources < 1 || numResources > capacity {
		fmt.Printf("resources must be in [1, capacity]; got %d with capacity %d\n", numResources, capacity)
		return
	}
	if numRemove < 0 || numRemove >= numResources {
		fmt.Printf("remove must be in [0, resources); got %d with %d resources\n", numRemove, numResources)
		return
	}

	var hasher anchorhash.KeyHasherID
	switch *hasherFlag {
	case "xxh3":
		hasher = anchorhash.KeyHasherXXH3
	case "xxhash":
		hasher = anchorhash.KeyHasherXXHash
	case "murmur3":
		hasher = anchorhash.KeyHasherMurmur3
	default:
		fmt.Printf("Unknown hasher: %s (use 'xxh3', 'xxhash' or 'murmur3')\n", *hasherFlag)
		return
	}

	resources := make([]string, numResources)
	index := make(map[string]int, numResources)
	for i := range resources {
		resources[i] = fmt.Sprintf("node-%03d", i)
		index[resources[i]] = i
	}

	m, err := anchorhash.NewMap[string](capacity,
		anchorhash.WithResources[string](resources...),
		anchorhash.WithKeyHasher[string](hasher),
		anchorhash.WithAnchorOptions[string](
			anchorhash.WithHardwareHash(!*portableFlag),
			anchorhash.WithFastRange(!*modRangeFlag),
		),
	)
	if err != nil {
		fmt.Printf("NewMap failed: %v\n", err)
		return
	}

	fmt.Println("Generating keys...")
	keys := make([]string, numKeys)
	for i := range keys {
		keys[i] = fmt.Sprintf("object/%016x", i)
	}

	fmt.Printf("Routing keys across %d workers...\n", numWorkers)
	counts := make([]atomic.Uint64, numResources)
	routeStart := time.Now()

	var g errgroup.Group
	chunk := (numKeys + numWorkers - 1) / numWorkers
	for w := 0; w < numWorkers; w++ {
		lo := w * chunk
		hi := min(lo+chunk, numKeys)
		if lo >= hi {
			break
		}
		g.Go(func() error {
			local := make([]uint64, numResources)
			for i := lo; i < hi; i++ {
				r, ok := m.GetString(keys[i])
				if !ok {
					return fmt.Errorf("lookup failed for %q", keys[i])
				}
				local[index[r]]++
			}
			for i, n := range local {
				counts[i].Add(n)
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		fmt.Printf("Routing failed: %v\n", err)
		return
	}
	routeDuration := time.Since(routeStart)

	minLoad, maxLoad := uint64(math.MaxUint64), uint64(0)
	for i := range counts {
		n := counts[i].Load()
		minLoad = min(minLoad, n)
		maxLoad = max(maxLoad, n)
	}
	mean := float64(numKeys) / float64(numResources)

	var disrupted, illegal int
	var victims []string
	if numRemove > 0 {
		fmt.Printf("Removing %d resources and re-routing...\n", numRemove)
		before := make([]string, numKeys)
		for i := range keys {
			before[i], _ = m.GetString(keys[i])
		}
		removed := make(map[string]bool, numRemove)
		for i := 0; i < numRemove; i++ {
			victims = append(victims, resources[i])
			removed[resources[i]] = true
			if err := m.Remove(resources[i]); err != nil {
				fmt.Printf("Remove(%s) failed: %v\n", resources[i], err)
				return
			}
		}
		for i := range keys {
			after, _ := m.GetString(keys[i])
			if after != before[i] {
				disrupted++
				if !removed[before[i]] {
					illegal++
				}
			}
		}
	}

	throughput := float64(numKeys) / routeDuration.Seconds() / 1_000_000
	disruptedFrac := float64(disrupted) / float64(numKeys)
	idealFrac := float64(numRemove) / float64(numResources)

	fmt.Printf("\n")
	fmt.Printf("╔══════════════════════╦═══════════════════╗\n")
	fmt.Printf("║ Hasher: %-12s ║ Workers: %-8d ║\n", *hasherFlag, numWorkers)
	fmt.Printf("╠══════════════════════╬═══════════════════╣\n")
	fmt.Printf("║ Keys routed          ║ %17d ║\n", numKeys)
	fmt.Printf("║ Resources            ║ %9d / %-6d ║\n", numResources, capacity)
	fmt.Printf("║ Throughput           ║ %11.2f M/sec ║\n", throughput)
	fmt.Printf("║ Mean load            ║ %17.1f ║\n", mean)
	fmt.Printf("║ Min load             ║ %17d ║\n", minLoad)
	fmt.Printf("║ Max load             ║ %17d ║\n", maxLoad)
	fmt.Printf("║ Peak-to-average      ║ %17.4f ║\n", float64(maxLoad)/mean)
	if numRemove > 0 {
		fmt.Printf("╠══════════════════════╬═══════════════════╣\n")
		fmt.Printf("║ Removed              ║ %17d ║\n", len(victims))
		fmt.Printf("║ Keys disrupted       ║ %11.4f %%     ║\n", disruptedFrac*100)
		fmt.Printf("║ Ideal disruption     ║ %11.4f %%     ║\n", idealFrac*100)
		fmt.Printf("║ Illegal moves        ║ %17d ║\n", illegal)
	}
	fmt.Printf("╚══════════════════════╩═══════════════════╝\n")
}
