package battle

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"time"

	"gorm.io/gorm"
)

// Phase is the lifecycle state of a battle record. The values form a strict
// lifecycle: pending -> starting -> (quiz <-> action <-> resolution)* ->
// finished, with rejected/cancelled reachable only before starting.
type Phase string

const (
	PhasePending    Phase = "pending"
	PhaseStarting   Phase = "starting"
	PhaseQuiz       Phase = "quiz"
	PhaseAction     Phase = "action"
	PhaseResolution Phase = "resolution"
	PhaseFinished   Phase = "finished"
	PhaseRejected   Phase = "rejected"
	PhaseCancelled  Phase = "cancelled"
)

// Terminal reports whether no further transition may be applied.
func (p Phase) Terminal() bool {
	return p == PhaseFinished || p == PhaseRejected || p == PhaseCancelled
}

// ActionID identifies a chosen combat action. Offensive actions are the
// basic attack or a skill id from the catalog; defensive actions are the
// fixed set below. The sentinels are never chosen directly: flee_failed is
// recorded after a failed escape roll and stunned is forced onto a stunned
// defender.
type ActionID string

const (
	ActionNone        ActionID = ""
	ActionBasicAttack ActionID = "attack"

	ActionBrace ActionID = "brace"
	ActionEvade ActionID = "evade"
	ActionFocus ActionID = "focus"
	ActionFlee  ActionID = "flee"

	ActionFleeFailed ActionID = "flee_failed"
	ActionStunned    ActionID = "stunned"
)

// Defensive reports whether the action is a valid defender choice.
func (a ActionID) Defensive() bool {
	switch a {
	case ActionBrace, ActionEvade, ActionFocus, ActionFlee:
		return true
	}
	return false
}

// SkillList is the ordered set of skill ids equipped on a pet, stored as a
// JSON text column so the battle row stays a single self-contained record.
type SkillList []string

func (s SkillList) Value() (driver.Value, error) {
	if len(s) == 0 {
		return "[]", nil
	}
	b, err := json.Marshal(s)
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

func (s *SkillList) Scan(value interface{}) error {
	return scanJSONColumn(value, s)
}

// Contains reports whether the given skill id is equipped.
func (s SkillList) Contains(id string) bool {
	for _, v := range s {
		if v == id {
			return true
		}
	}
	return false
}

// ChatAttempt is a participant's most recent quiz answer, shown to both
// sides. Cleared at the start of every quiz round.
type ChatAttempt struct {
	Text      string `json:"text"`
	IsCorrect bool   `json:"is_correct"`
}

// ChatLog maps participant id -> last attempt, stored as a JSON text column.
type ChatLog map[string]ChatAttempt

func (c ChatLog) Value() (driver.Value, error) {
	if len(c) == 0 {
		return "{}", nil
	}
	b, err := json.Marshal(c)
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

func (c *ChatLog) Scan(value interface{}) error {
	return scanJSONColumn(value, c)
}

func scanJSONColumn(value, dest interface{}) error {
	switch v := value.(type) {
	case nil:
		return nil
	case []byte:
		if len(v) == 0 {
			return nil
		}
		return json.Unmarshal(v, dest)
	case string:
		if v == "" {
			return nil
		}
		return json.Unmarshal([]byte(v), dest)
	default:
		return errors.New("unsupported column type for JSON scan")
	}
}

// PetState is the combat snapshot of a pet, copied into the record when the
// challenge is accepted. Live pet data is never read mid-battle, so shop or
// level changes cannot leak into a running fight.
type PetState struct {
	PetID          string    `json:"pet_id"`
	Name           string    `json:"name"`
	AppearanceID   string    `json:"appearance_id"`
	Level          int       `json:"level"`
	HP             int       `json:"hp"`
	MaxHP          int       `json:"max_hp"`
	SP             int       `json:"sp"`
	MaxSP          int       `json:"max_sp"`
	Atk            int       `json:"atk"`
	EquippedSkills SkillList `json:"equipped_skills" gorm:"type:text"`
	Stunned        bool      `json:"stunned"`
	Recharging     bool      `json:"recharging"`
	FocusCharge    int       `json:"focus_charge"`
}

// ApplyDamage subtracts damage clamping HP to [0, MaxHP] and returns the
// amount actually dealt.
func (p *PetState) ApplyDamage(dmg int) int {
	if dmg < 0 {
		dmg = 0
	}
	if dmg > p.HP {
		dmg = p.HP
	}
	p.HP -= dmg
	return dmg
}

// Heal restores HP clamped to MaxHP and returns the amount restored.
func (p *PetState) Heal(amount int) int {
	if amount < 0 {
		amount = 0
	}
	if p.HP+amount > p.MaxHP {
		amount = p.MaxHP - p.HP
	}
	p.HP += amount
	return amount
}

// SpendSP deducts a skill cost, flooring at zero.
func (p *PetState) SpendSP(cost int) {
	p.SP -= cost
	if p.SP < 0 {
		p.SP = 0
	}
}

// RestoreSP adds SP clamped to MaxSP.
func (p *PetState) RestoreSP(amount int) {
	p.SP += amount
	if p.SP > p.MaxSP {
		p.SP = p.MaxSP
	}
}

// Fainted reports whether the pet is out of the fight.
func (p *PetState) Fainted() bool { return p.HP <= 0 }

// Combatant is one side of a battle: the participant identity plus their
// pet's combat snapshot.
type Combatant struct {
	PlayerID string   `json:"player_id"`
	Name     string   `json:"name"`
	Pet      PetState `json:"pet" gorm:"embedded;embeddedPrefix:pet_"`
}

// Record is the single shared document for one battle. Both participants
// mutate it exclusively through the transactional applier; Version backs
// the optimistic compare-and-swap and Seq is a monotonic counter bumped on
// every accepted transition so duplicate timer drivers are provably
// harmless (a stale driver pins a Seq that no longer matches).
type Record struct {
	gorm.Model
	BattleKey string `json:"battle_key" gorm:"uniqueIndex"`
	Status    Phase  `json:"status"`

	Challenger Combatant `json:"challenger" gorm:"embedded;embeddedPrefix:challenger_"`
	Opponent   Combatant `json:"opponent" gorm:"embedded;embeddedPrefix:opponent_"`

	// TurnOwnerID is the attacker during the action phase, empty otherwise.
	TurnOwnerID string `json:"turn"`

	QuestionText   string `json:"question_text"`
	QuestionAnswer string `json:"-"`

	AttackerAction ActionID `json:"attacker_action"`
	DefenderAction ActionID `json:"defender_action"`

	// TurnStartedAt anchors the deadline of the current timed phase
	// (quiz/action) and the hold of the untimed ones (starting/resolution).
	TurnStartedAt time.Time `json:"turn_started_at"`

	Log  string  `json:"log"`
	Chat ChatLog `json:"chat" gorm:"type:text"`

	WinnerID string `json:"winner_id"`

	Seq             uint `json:"seq"`
	Version         uint `json:"-"`
	OutcomeReported bool `json:"-"`
}

// IsParticipant reports whether the given player id belongs to the battle.
func (r *Record) IsParticipant(playerID string) bool {
	return r.Challenger.PlayerID == playerID || r.Opponent.PlayerID == playerID
}

// CombatantByID returns the combatant for a participant id, or nil.
func (r *Record) CombatantByID(playerID string) *Combatant {
	switch playerID {
	case r.Challenger.PlayerID:
		return &r.Challenger
	case r.Opponent.PlayerID:
		return &r.Opponent
	}
	return nil
}

// OpponentOf returns the other side for a participant id, or nil.
func (r *Record) OpponentOf(playerID string) *Combatant {
	switch playerID {
	case r.Challenger.PlayerID:
		return &r.Opponent
	case r.Opponent.PlayerID:
		return &r.Challenger
	}
	return nil
}

// Attacker returns the combatant currently owning the action turn, or nil
// outside the action phase.
func (r *Record) Attacker() *Combatant {
	if r.TurnOwnerID == "" {
		return nil
	}
	return r.CombatantByID(r.TurnOwnerID)
}

// Defender returns the combatant opposing the current attacker, or nil.
func (r *Record) Defender() *Combatant {
	if r.TurnOwnerID == "" {
		return nil
	}
	return r.OpponentOf(r.TurnOwnerID)
}

// Profile stores a player's league progression; updated once per finished
// battle by the result committer.
type Profile struct {
	gorm.Model
	PlayerID string `json:"player_id" gorm:"uniqueIndex"`
	Name     string `json:"name"`
	Level    int    `json:"level"`
	Exp      int    `json:"exp"`
	Points   int    `json:"points"`
	Wins     int    `json:"wins"`
	Losses   int    `json:"losses"`
	Draws    int    `json:"draws"`
}

func (Profile) TableName() string { return "player_profiles" }

// QuizQuestion is one stored row of the question bank. The table is seeded
// from the config file on first migrate and is the bank the server samples
// from afterwards, so questions can be added without a config rollout.
type QuizQuestion struct {
	gorm.Model
	Question string `json:"question" gorm:"uniqueIndex"`
	Answer   string `json:"answer"`
}

func (QuizQuestion) TableName() string { return "quiz_questions" }

// PetCarryOver persists a pet's HP/SP as they stood when its last battle
// ended, so the roster screen can show the post-fight condition.
type PetCarryOver struct {
	gorm.Model
	PetID    string `json:"pet_id" gorm:"uniqueIndex"`
	PlayerID string `json:"player_id" gorm:"index"`
	HP       int    `json:"hp"`
	SP       int    `json:"sp"`
}

func (PetCarryOver) TableName() string { return "pet_carry_over" }
