package rules

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/sabq-ai/loyalty-backend/internal/types"
)

// Rule describes how one interaction type earns (or deducts) points.
// A zero cap means uncapped.
type Rule struct {
	Points        int    `yaml:"points"`
	MaxPerArticle int    `yaml:"max_per_article"`
	MaxPerDay     int    `yaml:"max_per_day"`
	Description   string `yaml:"description"`
}

// TierTable holds the minimum total_points for each tier above bronze.
type TierTable struct {
	Name     string `yaml:"name"`
	Silver   int    `yaml:"silver"`
	Gold     int    `yaml:"gold"`
	Platinum int    `yaml:"platinum"`
}

// Two threshold tables shipped in the original product. Standard is the
// authoritative default; Legacy is kept selectable until product retires it.
var (
	StandardTiers = TierTable{Name: "standard", Silver: 100, Gold: 500, Platinum: 2000}
	LegacyTiers   = TierTable{Name: "legacy", Silver: 1000, Gold: 5000, Platinum: 10000}
)

// DefaultPointRules mirrors the CMS reward table. view never earns points;
// unlike/unsave take back what like/save granted.
func DefaultPointRules() map[types.InteractionType]Rule {
	return map[types.InteractionType]Rule{
		types.InteractionView:    {Points: 0, Description: "مشاهدة المقال"},
		types.InteractionRead:    {Points: 1, MaxPerArticle: 1, Description: "قراءة المقال"},
		types.InteractionLike:    {Points: 1, MaxPerArticle: 1, Description: "إعجاب بالمقال"},
		types.InteractionUnlike:  {Points: -1, Description: "إلغاء الإعجاب"},
		types.InteractionShare:   {Points: 3, MaxPerArticle: 1, MaxPerDay: 10, Description: "مشاركة المقال"},
		types.InteractionSave:    {Points: 1, MaxPerArticle: 1, Description: "حفظ المقال"},
		types.InteractionUnsave:  {Points: -1, Description: "إلغاء الحفظ"},
		types.InteractionComment: {Points: 4, MaxPerArticle: 1, MaxPerDay: 20, Description: "تعليق على المقال"},
	}
}

// Config bundles the reward table with the active tier thresholds.
type Config struct {
	Rules map[types.InteractionType]Rule
	Tiers TierTable
}

func Default() Config {
	return Config{Rules: DefaultPointRules(), Tiers: StandardTiers}
}

// TierFor computes the tier for a points total. Pure function of the table.
func (t TierTable) TierFor(totalPoints int) types.Tier {
	switch {
	case totalPoints >= t.Platinum:
		return types.TierPlatinum
	case totalPoints >= t.Gold:
		return types.TierGold
	case totalPoints >= t.Silver:
		return types.TierSilver
	default:
		return types.TierBronze
	}
}

// RuleFor returns the rule for an interaction type; the second return is
// false for types outside the reward table.
func (c Config) RuleFor(typ types.InteractionType) (Rule, bool) {
	r, ok := c.Rules[typ]
	return r, ok
}

type fileConfig struct {
	TierTable string                         `yaml:"tier_table"`
	Tiers     *TierTable                     `yaml:"tiers"`
	Rules     map[types.InteractionType]Rule `yaml:"rules"`
}

// Load reads an optional YAML override. An empty path returns the defaults.
// Overrides are merged per interaction type; tier_table selects "standard"
// or "legacy", and an explicit tiers block wins over both.
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("read rules file: %w", err)
	}
	var fc fileConfig
	if err := yaml.Unmarshal(raw, &fc); err != nil {
		return cfg, fmt.Errorf("parse rules file: %w", err)
	}
	switch fc.TierTable {
	case "", "standard":
	case "legacy":
		cfg.Tiers = LegacyTiers
	default:
		return cfg, fmt.Errorf("unknown tier_table %q", fc.TierTable)
	}
	if fc.Tiers != nil {
		cfg.Tiers = *fc.Tiers
		if cfg.Tiers.Name == "" {
			cfg.Tiers.Name = "custom"
		}
	}
	for typ, rule := range fc.Rules {
		if !typ.Valid() {
			return cfg, fmt.Errorf("unknown interaction type %q in rules file", typ)
		}
		cfg.Rules[typ] = rule
	}
	return cfg, nil
}
