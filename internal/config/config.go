package config

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/leaugueofchoding/wooriban-league-sub000/internal/catalog"
	"github.com/leaugueofchoding/wooriban-league-sub000/internal/engine"
	"github.com/leaugueofchoding/wooriban-league-sub000/internal/quiz"
)

type rawConfig struct {
	SpeciesList []catalog.Species `json:"species_list"`
	SkillList   []catalog.Skill   `json:"skill_list"`
	QuizList    []quiz.Question   `json:"quiz_list"`
	Server      *struct {
		Address string `json:"address"`
	} `json:"server"`
	// Optional phase-budget overrides, in milliseconds. Zero keeps the
	// engine default.
	Timing *struct {
		QuizBudgetMs    int `json:"quiz_budget_ms"`
		ActionBudgetMs  int `json:"action_budget_ms"`
		ActionGraceMs   int `json:"action_grace_ms"`
		IntroDelayMs    int `json:"intro_delay_ms"`
		NarrationHoldMs int `json:"narration_hold_ms"`
	} `json:"timing"`
}

// LoadedConfig carries everything the server wires at startup.
type LoadedConfig struct {
	Species       []catalog.Species
	Skills        []catalog.Skill
	Questions     []quiz.Question
	ServerAddress string
	Timing        engine.Timing
}

// LoadConfig reads the configuration file at path. It requires non-empty
// `species_list` and `skill_list`; an empty `quiz_list` only degrades
// battles to the placeholder question, so it is allowed with a warning left
// to the caller.
func LoadConfig(path string) (*LoadedConfig, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}
	var rc rawConfig
	if err := json.Unmarshal(b, &rc); err != nil {
		return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
	}

	if len(rc.SpeciesList) == 0 {
		return nil, fmt.Errorf("config file %s: species_list is empty", path)
	}
	if len(rc.SkillList) == 0 {
		return nil, fmt.Errorf("config file %s: skill_list is empty", path)
	}

	// Cross-entry validation: unique ids (case-insensitive) and species
	// default skills that actually resolve.
	skillSet := make(map[string]struct{}, len(rc.SkillList))
	for _, s := range rc.SkillList {
		id := strings.ToLower(strings.TrimSpace(s.ID))
		if id == "" {
			return nil, fmt.Errorf("config file %s: skill entry missing 'id'", path)
		}
		if _, exists := skillSet[id]; exists {
			return nil, fmt.Errorf("config file %s: duplicate skill id '%s'", path, s.ID)
		}
		skillSet[id] = struct{}{}
	}
	speciesSet := make(map[string]struct{}, len(rc.SpeciesList))
	for _, sp := range rc.SpeciesList {
		id := strings.ToLower(strings.TrimSpace(sp.ID))
		if id == "" {
			return nil, fmt.Errorf("config file %s: species entry missing 'id'", path)
		}
		if _, exists := speciesSet[id]; exists {
			return nil, fmt.Errorf("config file %s: duplicate species id '%s'", path, sp.ID)
		}
		speciesSet[id] = struct{}{}
		for _, skillID := range sp.DefaultSkills {
			if _, ok := skillSet[strings.ToLower(skillID)]; !ok {
				return nil, fmt.Errorf("config file %s: species '%s' references unknown skill '%s'", path, sp.ID, skillID)
			}
		}
	}

	addr := ":8080"
	if rc.Server != nil && rc.Server.Address != "" {
		addr = rc.Server.Address
	}

	timing := engine.DefaultTiming()
	if rc.Timing != nil {
		applyMs := func(dst *time.Duration, ms int) {
			if ms > 0 {
				*dst = time.Duration(ms) * time.Millisecond
			}
		}
		applyMs(&timing.QuizBudget, rc.Timing.QuizBudgetMs)
		applyMs(&timing.ActionBudget, rc.Timing.ActionBudgetMs)
		applyMs(&timing.ActionGrace, rc.Timing.ActionGraceMs)
		applyMs(&timing.IntroDelay, rc.Timing.IntroDelayMs)
		applyMs(&timing.NarrationHold, rc.Timing.NarrationHoldMs)
	}

	return &LoadedConfig{
		Species:       rc.SpeciesList,
		Skills:        rc.SkillList,
		Questions:     rc.QuizList,
		ServerAddress: addr,
		Timing:        timing,
	}, nil
}
