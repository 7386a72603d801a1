package catalog

import (
	"strings"

	"github.com/leaugueofchoding/wooriban-league-sub000/internal/battle"
)

// SkillEffect describes what a skill does when it lands. All fields are
// optional and applied when present; the engine dispatches on the populated
// variants instead of invoking per-skill code.
type SkillEffect struct {
	// Damage dealt to the defender: round((base + atk*scale) * focus * mitigation).
	DamageBase     int     `json:"damage_base"`
	DamageAtkScale float64 `json:"damage_atk_scale"`

	// Instant self effects.
	SelfHeal  int `json:"self_heal"`
	RestoreSP int `json:"restore_sp"`

	// StunChance > 0 rolls to impose stunned on the defender.
	StunChance float64 `json:"stun_chance"`

	// SelfRecharge imposes the recharging penalty on the attacker after use.
	SelfRecharge bool `json:"self_recharge"`
}

// DealsDamage reports whether the effect has a damage component.
func (e SkillEffect) DealsDamage() bool {
	return e.DamageBase > 0 || e.DamageAtkScale > 0
}

// Skill combines the human-readable metadata for an attack (name, cost, id)
// with the structured parameters in SkillEffect.
type Skill struct {
	ID     string      `json:"id"`
	Name   string      `json:"name"`
	Cost   int         `json:"cost"`
	Effect SkillEffect `json:"effect"`
}

// Species is a static pet definition: base stats plus linear per-level
// growth. Combat snapshots are derived from it at challenge time.
type Species struct {
	ID            string   `json:"id"`
	Name          string   `json:"name"`
	AppearanceID  string   `json:"appearance_id"`
	BaseHP        int      `json:"base_hp"`
	BaseSP        int      `json:"base_sp"`
	BaseAtk       int      `json:"base_atk"`
	GrowthHP      int      `json:"growth_hp"`
	GrowthSP      int      `json:"growth_sp"`
	GrowthAtk     int      `json:"growth_atk"`
	DefaultSkills []string `json:"default_skills"`
}

// basicAttack is the fallback every pet always has. Damage follows the
// standard formula 20 + atk*2 and costs no SP.
var basicAttack = Skill{
	ID:   string(battle.ActionBasicAttack),
	Name: "Attack",
	Cost: 0,
	Effect: SkillEffect{
		DamageBase:     20,
		DamageAtkScale: 2,
	},
}

// Catalog is the read-only skill/pet lookup used by the engine. It is
// loaded once from the server configuration at startup.
type Catalog struct {
	skillsByID  map[string]Skill
	speciesByID map[string]Species
}

// New builds a catalog from configured species and skills.
func New(species []Species, skills []Skill) *Catalog {
	c := &Catalog{
		skillsByID:  make(map[string]Skill, len(skills)),
		speciesByID: make(map[string]Species, len(species)),
	}
	for _, s := range skills {
		c.skillsByID[strings.ToLower(s.ID)] = s
	}
	for _, sp := range species {
		c.speciesByID[strings.ToLower(sp.ID)] = sp
	}
	return c
}

// Skill returns the skill for an id, if present.
func (c *Catalog) Skill(id string) (Skill, bool) {
	s, ok := c.skillsByID[strings.ToLower(id)]
	return s, ok
}

// BasicAttack returns the universal fallback attack.
func (c *Catalog) BasicAttack() Skill { return basicAttack }

// SkillOrBasic resolves an offensive action id to a skill. Unknown ids
// degrade to the basic attack instead of failing the transition: a stuck
// record is worse than a generic hit.
func (c *Catalog) SkillOrBasic(action battle.ActionID) Skill {
	if action == battle.ActionNone || action == battle.ActionBasicAttack {
		return basicAttack
	}
	if s, ok := c.Skill(string(action)); ok {
		return s
	}
	return basicAttack
}

// Species returns the species definition for an id, if present.
func (c *Catalog) Species(id string) (Species, bool) {
	sp, ok := c.speciesByID[strings.ToLower(id)]
	return sp, ok
}

// Skills returns all configured skills (for listing endpoints).
func (c *Catalog) Skills() []Skill {
	out := make([]Skill, 0, len(c.skillsByID))
	for _, s := range c.skillsByID {
		out = append(out, s)
	}
	return out
}

// BuildPet produces the combat snapshot for a species at the given level.
// Stats grow linearly per level above 1; equipped skills default to the
// species loadout when none are provided.
func (c *Catalog) BuildPet(petID, name, speciesID string, level int, equipped []string) (battle.PetState, bool) {
	sp, ok := c.Species(speciesID)
	if !ok {
		return battle.PetState{}, false
	}
	if level < 1 {
		level = 1
	}
	if len(equipped) == 0 {
		equipped = sp.DefaultSkills
	}
	// Keep only skill ids the catalog actually knows.
	skills := make(battle.SkillList, 0, len(equipped))
	for _, id := range equipped {
		if _, known := c.Skill(id); known {
			skills = append(skills, id)
		}
	}
	maxHP := sp.BaseHP + sp.GrowthHP*(level-1)
	maxSP := sp.BaseSP + sp.GrowthSP*(level-1)
	if name == "" {
		name = sp.Name
	}
	return battle.PetState{
		PetID:          petID,
		Name:           name,
		AppearanceID:   sp.AppearanceID,
		Level:          level,
		HP:             maxHP,
		MaxHP:          maxHP,
		SP:             maxSP,
		MaxSP:          maxSP,
		Atk:            sp.BaseAtk + sp.GrowthAtk*(level-1),
		EquippedSkills: skills,
	}, true
}
