// Package progression is the result committer: it receives each finished
// battle's outcome exactly once and applies it to the players' league
// progression (experience, points, win/loss/draw tallies and the pets'
// post-fight HP/SP carry-over).
package progression

import (
	"github.com/leaugueofchoding/wooriban-league-sub000/internal/battle"
	"github.com/leaugueofchoding/wooriban-league-sub000/internal/dedupe"
	"github.com/leaugueofchoding/wooriban-league-sub000/internal/logging"
)

// Outcome is the one-shot report for a terminal battle. On a draw (a flee
// forfeit) WinnerID/LoserID carry the challenger/opponent ids and IsDraw
// distinguishes the case.
type Outcome struct {
	BattleKey      string
	WinnerID       string
	LoserID        string
	IsDraw         bool
	WinnerPetFinal battle.PetState
	LoserPetFinal  battle.PetState
}

// Experience and point grants per outcome.
const (
	winExp     = 30
	winPoints  = 10
	loseExp    = 10
	losePoints = 2
	drawExp    = 15
	drawPoints = 3
)

// ProfileRepo is the persistence surface the committer needs.
type ProfileRepo interface {
	GetProfileByPlayerID(playerID string) (*battle.Profile, error)
	SaveProfile(p *battle.Profile) error
	SavePetCarryOver(playerID string, pet battle.PetState) error
}

// Committer applies outcomes to player progression.
type Committer struct {
	repo ProfileRepo
}

func NewCommitter(repo ProfileRepo) *Committer {
	return &Committer{repo: repo}
}

// ReportOutcome grants the outcome's rewards. Concurrent reports for the
// same battle collapse into one execution via the shared singleflight
// group; the battle record's reported flag guards against later replays.
func (c *Committer) ReportOutcome(out Outcome) error {
	_, err, _ := dedupe.OutcomeGroup.Do(out.BattleKey, func() (interface{}, error) {
		return nil, c.apply(out)
	})
	return err
}

func (c *Committer) apply(out Outcome) error {
	if out.IsDraw {
		if err := c.grant(out.WinnerID, drawExp, drawPoints, 0, 0, 1); err != nil {
			return err
		}
		if err := c.grant(out.LoserID, drawExp, drawPoints, 0, 0, 1); err != nil {
			return err
		}
	} else {
		if err := c.grant(out.WinnerID, winExp, winPoints, 1, 0, 0); err != nil {
			return err
		}
		if err := c.grant(out.LoserID, loseExp, losePoints, 0, 1, 0); err != nil {
			return err
		}
	}
	if err := c.repo.SavePetCarryOver(out.WinnerID, out.WinnerPetFinal); err != nil {
		return err
	}
	if err := c.repo.SavePetCarryOver(out.LoserID, out.LoserPetFinal); err != nil {
		return err
	}
	logging.Info("battle outcome committed", logging.Fields{"battle_key": out.BattleKey, "draw": out.IsDraw, "winner": out.WinnerID})
	return nil
}

func (c *Committer) grant(playerID string, exp, points, wins, losses, draws int) error {
	p, err := c.repo.GetProfileByPlayerID(playerID)
	if err != nil {
		return err
	}
	if p.Level < 1 {
		p.Level = 1
	}
	p.Exp += exp
	p.Points += points
	p.Wins += wins
	p.Losses += losses
	p.Draws += draws
	// Level-up loop: each level needs level*100 exp.
	for p.Exp >= p.Level*100 {
		p.Exp -= p.Level * 100
		p.Level++
	}
	return c.repo.SaveProfile(p)
}
