package main

import (
	"fmt"
	"sync"
	"time"

	"github.com/spf13/cobra"

	cache "github.com/Jaysum57/CropGuard-sub000"
	"github.com/Jaysum57/CropGuard-sub000/store"
)

type benchConfig struct {
	preloadKeys int
	goroutines  int
	opsPerG     int
	writeBack   bool
	buffer      int
}

func newBenchCmd(e *env) *cobra.Command {
	bc := benchConfig{}
	cmd := &cobra.Command{
		Use:   "bench",
		Short: "Measure read throughput under concurrent load",
		RunE: func(cmd *cobra.Command, args []string) error {
			runBench(bc)
			return nil
		},
	}
	cmd.Flags().IntVar(&bc.preloadKeys, "keys", 100000, "keys preloaded before the run")
	cmd.Flags().IntVar(&bc.goroutines, "goroutines", 200, "concurrent readers")
	cmd.Flags().IntVar(&bc.opsPerG, "ops", 5000, "reads per goroutine")
	cmd.Flags().BoolVar(&bc.writeBack, "write-back", true, "mirror writes on the background worker")
	cmd.Flags().IntVar(&bc.buffer, "buffer", 4096, "write-back queue size")
	return cmd
}

func runBench(bc benchConfig) {
	fmt.Println("\n================ CACHE LOAD BENCHMARK =================")

	fmt.Println("CONFIG")
	fmt.Println("---------------------------------")
	fmt.Println("Preload Keys :", bc.preloadKeys)
	fmt.Println("Goroutines   :", bc.goroutines)
	fmt.Println("Ops/Goroutine:", bc.opsPerG)
	fmt.Println("Write-back   :", bc.writeBack)
	fmt.Println("---------------------------------")

	// ---------------- Cache ----------------
	opts := []cache.Option{cache.WithTTL(time.Minute)}
	if bc.writeBack {
		opts = append(opts, cache.WithWriteBack(bc.buffer))
	}
	c := cache.New[int](cache.Scope{Namespace: "bench:", Family: "key_"}, store.NewMemory(), opts...)
	defer c.Close()

	// ---------------- Preload Cache ----------------
	fmt.Println("Preloading cache...")
	for i := 0; i < bc.preloadKeys; i++ {
		c.Set(fmt.Sprintf("key-%d", i), i)
	}
	c.Flush()
	fmt.Println("Preload complete.")

	// ---------------- Load Test ----------------
	fmt.Println("Running concurrency benchmark...")

	start := time.Now()

	wg := sync.WaitGroup{}
	wg.Add(bc.goroutines)

	for i := 0; i < bc.goroutines; i++ {
		go func(id int) {
			defer wg.Done()
			for j := 0; j < bc.opsPerG; j++ {
				c.Get(fmt.Sprintf("key-%d", j%max(bc.preloadKeys, 1)))
			}
		}(i)
	}

	wg.Wait()
	elapsed := time.Since(start)

	total := bc.goroutines * bc.opsPerG
	fmt.Println("\n================ RESULTS =================")
	fmt.Println("Total Ops    :", total)
	fmt.Println("Elapsed      :", elapsed)
	fmt.Printf("Throughput   : %.0f ops/sec\n", float64(total)/elapsed.Seconds())
	fmt.Printf("Avg Latency  : %v\n", elapsed/time.Duration(max(total, 1)))
	fmt.Println("==========================================")
}
