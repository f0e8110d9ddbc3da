package service_test

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/ranganmag-api/internal/config"
	"github.com/ranganmag-api/internal/mocks"
	"github.com/ranganmag-api/internal/models"
	"github.com/ranganmag-api/internal/service"
	"github.com/rs/zerolog"
)

func siteConfig() config.SiteConfig {
	return config.SiteConfig{
		Enabled:       true,
		RetryAttempts: 3,
		RetryDelay:    time.Millisecond,
		Timeout:       time.Second,
	}
}

// waitFor polls cond until it holds or the deadline passes
func waitFor(t *testing.T, what string, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(5 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatalf("timed out waiting for %s", what)
}

func startSite(t *testing.T, cfg config.SiteConfig, regen service.Regenerator) service.SiteService {
	t.Helper()
	site := service.NewSiteService(cfg, zerolog.Nop())
	if regen != nil {
		site.SetRegenerator(regen)
	}
	site.Start(context.Background())
	t.Cleanup(site.Stop)
	return site
}

func TestSiteService_BurstCollapsesIntoOneRun(t *testing.T) {
	gate := make(chan struct{})
	regen := &mocks.MockRegenerator{}
	regen.RegenerateFunc = func(ctx context.Context) error {
		if regen.Calls() == 1 {
			<-gate
		}
		return nil
	}
	site := startSite(t, siteConfig(), regen)

	if !site.Trigger("first") {
		t.Fatal("Expected first trigger to be queued")
	}
	waitFor(t, "first run to start", func() bool { return site.Status().Running })

	queued := 0
	for i := 0; i < 10; i++ {
		if site.Trigger("burst") {
			queued++
		}
	}
	if queued != 1 {
		t.Errorf("Expected exactly 1 queued run during burst, got %d", queued)
	}
	if !site.Status().Pending {
		t.Error("Expected a pending run")
	}

	close(gate)
	waitFor(t, "both runs to finish", func() bool { return site.Status().Runs == 2 })

	if regen.Calls() != 2 {
		t.Errorf("Expected 2 regenerations, got %d", regen.Calls())
	}
	st := site.Status()
	if st.Pending || st.Running {
		t.Errorf("Expected idle worker, got %+v", st)
	}
	if st.LastSuccessAt == nil || st.Failures != 0 {
		t.Errorf("Expected successful runs, got %+v", st)
	}
}

func TestSiteService_RetriesUntilSuccess(t *testing.T) {
	regen := &mocks.MockRegenerator{}
	regen.RegenerateFunc = func(ctx context.Context) error {
		if regen.Calls() < 3 {
			return errors.New("npm exited with status 1")
		}
		return nil
	}
	site := startSite(t, siteConfig(), regen)

	site.Trigger("article created")
	waitFor(t, "run to finish", func() bool { return site.Status().Runs == 1 })

	st := site.Status()
	if regen.Calls() != 3 {
		t.Errorf("Expected 3 attempts, got %d", regen.Calls())
	}
	if st.Failures != 0 || st.LastError != "" {
		t.Errorf("Expected success after retries, got %+v", st)
	}
	if st.LastReason != "article created" {
		t.Errorf("Expected last reason recorded, got %q", st.LastReason)
	}
}

func TestSiteService_FailuresOnlyReachStatus(t *testing.T) {
	tests := []struct {
		name      string
		regen     func(ctx context.Context) error
		expectErr string
	}{
		{
			name:      "error",
			regen:     func(ctx context.Context) error { return errors.New("template: index.html: boom") },
			expectErr: "boom",
		},
		{
			name:      "panic",
			regen:     func(ctx context.Context) error { panic("nil article") },
			expectErr: "panicked",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			regen := &mocks.MockRegenerator{RegenerateFunc: tt.regen}
			site := startSite(t, siteConfig(), regen)

			site.Trigger("manual")
			waitFor(t, "run to finish", func() bool { return site.Status().Runs == 1 })

			st := site.Status()
			if regen.Calls() != 3 {
				t.Errorf("Expected 3 attempts, got %d", regen.Calls())
			}
			if st.Failures != 1 {
				t.Errorf("Expected 1 failure, got %d", st.Failures)
			}
			if !strings.Contains(st.LastError, tt.expectErr) {
				t.Errorf("Expected last error to contain %q, got %q", tt.expectErr, st.LastError)
			}
			if st.LastSuccessAt != nil {
				t.Error("Expected no successful run")
			}

			// The worker survives and keeps serving triggers
			regen.RegenerateFunc = nil
			site.Trigger("again")
			waitFor(t, "second run", func() bool { return site.Status().Runs == 2 })
			if site.Status().LastError != "" {
				t.Errorf("Expected error cleared after success, got %q", site.Status().LastError)
			}
		})
	}
}

func TestSiteService_Disabled(t *testing.T) {
	cfg := siteConfig()
	cfg.Enabled = false
	regen := &mocks.MockRegenerator{}
	site := startSite(t, cfg, regen)

	if site.Trigger("article created") {
		t.Error("Expected trigger to be ignored when disabled")
	}
	if st := site.Status(); st.Pending || st.Runs != 0 {
		t.Errorf("Expected untouched status, got %+v", st)
	}
}

func TestSiteService_NoRegenerator(t *testing.T) {
	site := startSite(t, siteConfig(), nil)

	site.Trigger("article created")
	waitFor(t, "run to finish", func() bool { return site.Status().Runs == 1 })

	st := site.Status()
	if st.Failures != 1 || !strings.Contains(st.LastError, "no site regenerator") {
		t.Errorf("Expected missing regenerator failure, got %+v", st)
	}
}

func TestSiteService_StopIsIdempotent(t *testing.T) {
	site := service.NewSiteService(siteConfig(), zerolog.Nop())
	site.Stop()
	site.Start(context.Background())
	site.Stop()
	site.Stop()

	// Triggers after stop still queue but never block
	site.Trigger("a")
	site.Trigger("b")
	var st models.SiteStatus = site.Status()
	if !st.Pending {
		t.Error("Expected pending run while stopped")
	}
}
