package rules

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/sabq-ai/loyalty-backend/internal/types"
)

func TestTierFor(t *testing.T) {
	cases := []struct {
		name   string
		table  TierTable
		points int
		want   types.Tier
	}{
		{name: "standard_zero", table: StandardTiers, points: 0, want: types.TierBronze},
		{name: "standard_just_below_silver", table: StandardTiers, points: 99, want: types.TierBronze},
		{name: "standard_150_is_silver", table: StandardTiers, points: 150, want: types.TierSilver},
		{name: "standard_gold_boundary", table: StandardTiers, points: 500, want: types.TierGold},
		{name: "standard_platinum", table: StandardTiers, points: 2500, want: types.TierPlatinum},
		{name: "legacy_150_is_bronze", table: LegacyTiers, points: 150, want: types.TierBronze},
		{name: "legacy_silver_boundary", table: LegacyTiers, points: 1000, want: types.TierSilver},
		{name: "legacy_platinum", table: LegacyTiers, points: 10000, want: types.TierPlatinum},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := tc.table.TierFor(tc.points); got != tc.want {
				t.Fatalf("TierFor(%d)=%q, want %q", tc.points, got, tc.want)
			}
		})
	}
}

func TestDefaultPointValues(t *testing.T) {
	cfg := Default()
	cases := []struct {
		typ    types.InteractionType
		points int
	}{
		{types.InteractionView, 0},
		{types.InteractionRead, 1},
		{types.InteractionLike, 1},
		{types.InteractionShare, 3},
		{types.InteractionSave, 1},
		{types.InteractionComment, 4},
	}
	for _, tc := range cases {
		r, ok := cfg.RuleFor(tc.typ)
		if !ok {
			t.Fatalf("missing rule for %q", tc.typ)
		}
		if r.Points != tc.points {
			t.Fatalf("rule %q points=%d, want %d", tc.typ, r.Points, tc.points)
		}
	}
	if _, ok := cfg.RuleFor(types.InteractionType("bogus")); ok {
		t.Fatal("expected no rule for unknown type")
	}
}

func TestLoadOverrides(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "rules.yaml")
	content := []byte("tier_table: legacy\nrules:\n  share:\n    points: 5\n    max_per_article: 2\n")
	if err := os.WriteFile(path, content, 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Tiers.Name != "legacy" {
		t.Fatalf("tier table %q, want legacy", cfg.Tiers.Name)
	}
	if got := cfg.Tiers.TierFor(150); got != types.TierBronze {
		t.Fatalf("legacy TierFor(150)=%q, want bronze", got)
	}
	share, _ := cfg.RuleFor(types.InteractionShare)
	if share.Points != 5 || share.MaxPerArticle != 2 {
		t.Fatalf("share rule not overridden: %+v", share)
	}
	// untouched rules keep their defaults
	comment, _ := cfg.RuleFor(types.InteractionComment)
	if comment.Points != 4 {
		t.Fatalf("comment rule should keep default, got %+v", comment)
	}
}

func TestLoadRejectsUnknownType(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "rules.yaml")
	if err := os.WriteFile(path, []byte("rules:\n  retweet:\n    points: 9\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(path); err == nil {
		t.Fatal("expected error for unknown interaction type")
	}
}

func TestLoadEmptyPathUsesDefaults(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load(\"\"): %v", err)
	}
	if cfg.Tiers.Name != "standard" {
		t.Fatalf("default tier table %q, want standard", cfg.Tiers.Name)
	}
}
