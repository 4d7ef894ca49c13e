package config

import (
	"testing"

	"github.com/spec-kit/support-portal/internal/domain"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.App.Name != "support-portal" {
		t.Errorf("app name = %q", cfg.App.Name)
	}
	if cfg.Dispatch.UsersGroupID != 1 || cfg.Dispatch.AdminRoleID != 1 {
		t.Errorf("dispatch defaults = %+v", cfg.Dispatch)
	}
	if len(cfg.Dispatch.ExcludedEmails) == 0 {
		t.Error("excluded emails default missing")
	}
	if cfg.Dispatch.AssignedTicketState != "open" {
		t.Errorf("assigned state = %q", cfg.Dispatch.AssignedTicketState)
	}
}

func TestLoadRegionGroupsFromEnv(t *testing.T) {
	t.Setenv("DISPATCH_REGION_GROUPS", "asia-pacific:5, europe:6")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	regions := cfg.Dispatch.RegionMap()
	if id, ok := regions.GroupFor(domain.Region("europe")); !ok || id != 6 {
		t.Errorf("GroupFor(europe) = %d, %v", id, ok)
	}
	if len(regions.Regions()) != 2 {
		t.Errorf("regions = %v", regions.Regions())
	}
}

func TestLoadRejectsMalformedRegionGroups(t *testing.T) {
	cases := []string{"asia-pacific", "asia-pacific:x", ","}
	for _, raw := range cases {
		t.Setenv("DISPATCH_REGION_GROUPS", raw)
		if _, err := Load(); err == nil {
			t.Errorf("Load accepted %q", raw)
		}
	}
}
