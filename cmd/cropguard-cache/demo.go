package main

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/Jaysum57/CropGuard-sub000/app"
	"github.com/Jaysum57/CropGuard-sub000/disease"
	"github.com/Jaysum57/CropGuard-sub000/expiration"
	"github.com/Jaysum57/CropGuard-sub000/profile"
)

// ================= DEMO BACKEND =================

// demoSource stands in for the backend and counts how often it is asked.
type demoSource struct {
	calls atomic.Int64
}

func (s *demoSource) Profile(ctx context.Context, userID string) (profile.Profile, error) {
	s.calls.Add(1)
	time.Sleep(20 * time.Millisecond)
	name := "Demo"
	return profile.Profile{FirstName: &name}, nil
}

func (s *demoSource) Stats(ctx context.Context, userID string) (profile.UserStats, error) {
	s.calls.Add(1)
	return profile.UserStats{PlantsScanned: 1, HealthyScans: 1, Accuracy: "99%"}, nil
}

func newDemoCmd(e *env) *cobra.Command {
	return &cobra.Command{
		Use:   "demo",
		Short: "Walk through the cache lifecycle with a simulated clock",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDemo(cmd.Context(), e)
		},
	}
}

func runDemo(ctx context.Context, e *env) error {
	if ctx == nil {
		ctx = context.Background()
	}
	clock := expiration.NewManualClock(time.Now())

	fmt.Println("\n==================== SYSTEM BOOT ====================")
	fmt.Println("STORE KIND      :", e.cfg.Store.Kind)
	fmt.Println("WRITE MODE      :", e.cfg.Store.WriteMode)
	fmt.Println("PROFILE TTL     :", e.cfg.Profile.TTL)
	fmt.Println("DISEASE TTL     :", e.cfg.Disease.TTL)

	a, err := app.Build(e.cfg, app.Options{Log: e.log, Clock: clock})
	if err != nil {
		return err
	}
	defer a.Close()

	// ====================================================
	fmt.Println("\n==================== 1) PROFILE TTL ====================")
	user := uuid.NewString()
	first, last := "Ana", "Lee"
	a.Profiles.SetProfile(user, profile.Profile{FirstName: &first, LastName: &last})
	fmt.Println("CACHE  → SET profile", user)

	clock.Advance(e.cfg.Profile.TTL / 2)
	_, ok := a.Profiles.GetProfile(user)
	fmt.Printf("CACHE  → GET profile at ttl/2   hit=%v\n", ok)

	clock.Advance(e.cfg.Profile.TTL/2 + time.Second)
	_, ok = a.Profiles.GetProfile(user)
	fmt.Printf("CACHE  → GET profile past ttl   hit=%v\n", ok)

	// ====================================================
	fmt.Println("\n==================== 2) SIGN-OUT ====================")
	a.Profiles.SetProfile(user, profile.Profile{FirstName: &first})
	a.Profiles.SetStats(user, profile.UserStats{PlantsScanned: 10, DiseasesDetected: 3, HealthyScans: 7, Accuracy: "94%"})
	a.Profiles.InvalidateUser(user)
	_, p := a.Profiles.GetProfile(user)
	_, s := a.Profiles.GetStats(user)
	fmt.Printf("CACHE  → after InvalidateUser   profile=%v stats=%v\n", p, s)

	// ====================================================
	fmt.Println("\n==================== 3) FAN-OUT ====================")
	a.Diseases.SetAllDiseases([]disease.Disease{
		{ID: "early-blight", Name: "Early Blight", Severity: disease.Medium},
		{ID: "leaf-rust", Name: "Leaf Rust", Severity: disease.High},
	})
	_, d1 := a.Diseases.GetDisease("early-blight")
	_, d2 := a.Diseases.GetDisease("leaf-rust")
	fmt.Printf("CACHE  → GET single records     early-blight=%v leaf-rust=%v\n", d1, d2)

	// ====================================================
	fmt.Println("\n==================== 4) SINGLEFLIGHT ====================")
	src := &demoSource{}
	other := uuid.NewString()
	wg := sync.WaitGroup{}
	for i := 0; i < 5; i++ {
		wg.Add(1)
		go func(id int) {
			defer wg.Done()
			p, err := a.Profiles.FetchProfile(ctx, other, src)
			if err != nil {
				fmt.Printf("GOROUTINE-%d → error %v\n", id, err)
				return
			}
			fmt.Printf("GOROUTINE-%d → profile %s\n", id, *p.FirstName)
		}(i)
	}
	wg.Wait()
	fmt.Println("BACKEND → calls:", src.calls.Load())

	// ====================================================
	fmt.Println("\n==================== SHUTDOWN ====================")
	a.Profiles.Clear()
	a.Diseases.InvalidateAll()
	fmt.Println("SYSTEM → demo entries cleared, cache closed cleanly")
	return nil
}
