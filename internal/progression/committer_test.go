package progression

import (
	"testing"

	"github.com/leaugueofchoding/wooriban-league-sub000/internal/battle"
)

type mockProfileRepo struct {
	profiles  map[string]*battle.Profile
	carryOver map[string]battle.PetState
}

func newMockProfileRepo() *mockProfileRepo {
	return &mockProfileRepo{
		profiles:  make(map[string]*battle.Profile),
		carryOver: make(map[string]battle.PetState),
	}
}

func (m *mockProfileRepo) GetProfileByPlayerID(playerID string) (*battle.Profile, error) {
	if p, ok := m.profiles[playerID]; ok {
		cp := *p
		return &cp, nil
	}
	return &battle.Profile{PlayerID: playerID, Level: 1}, nil
}

func (m *mockProfileRepo) SaveProfile(p *battle.Profile) error {
	cp := *p
	m.profiles[p.PlayerID] = &cp
	return nil
}

func (m *mockProfileRepo) SavePetCarryOver(playerID string, pet battle.PetState) error {
	m.carryOver[playerID] = pet
	return nil
}

func TestReportOutcome_WinAndLossGrants(t *testing.T) {
	repo := newMockProfileRepo()
	c := NewCommitter(repo)

	err := c.ReportOutcome(Outcome{
		BattleKey:      "p1_p2",
		WinnerID:       "p1",
		LoserID:        "p2",
		WinnerPetFinal: battle.PetState{PetID: "pet-1", HP: 55, SP: 20},
		LoserPetFinal:  battle.PetState{PetID: "pet-2", HP: 0, SP: 5},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	winner := repo.profiles["p1"]
	if winner.Exp != 30 || winner.Points != 10 || winner.Wins != 1 {
		t.Fatalf("unexpected winner grants: %+v", winner)
	}
	loser := repo.profiles["p2"]
	if loser.Exp != 10 || loser.Points != 2 || loser.Losses != 1 {
		t.Fatalf("unexpected loser grants: %+v", loser)
	}
	if repo.carryOver["p1"].HP != 55 || repo.carryOver["p2"].HP != 0 {
		t.Fatal("expected both pets' post-fight condition persisted")
	}
}

func TestReportOutcome_DrawGrantsBothSides(t *testing.T) {
	repo := newMockProfileRepo()
	c := NewCommitter(repo)

	err := c.ReportOutcome(Outcome{
		BattleKey: "p3_p4",
		WinnerID:  "p3",
		LoserID:   "p4",
		IsDraw:    true,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	for _, id := range []string{"p3", "p4"} {
		p := repo.profiles[id]
		if p.Exp != 15 || p.Points != 3 || p.Draws != 1 {
			t.Fatalf("unexpected draw grants for %s: %+v", id, p)
		}
		if p.Wins != 0 || p.Losses != 0 {
			t.Fatalf("a draw must not count as a win or loss: %+v", p)
		}
	}
}

func TestGrant_LevelUpLoop(t *testing.T) {
	repo := newMockProfileRepo()
	repo.profiles["p1"] = &battle.Profile{PlayerID: "p1", Level: 1, Exp: 90}
	c := NewCommitter(repo)

	// 90 + 30 = 120: level 1 needs 100, so 20 carries into level 2.
	if err := c.grant("p1", 30, 0, 1, 0, 0); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	p := repo.profiles["p1"]
	if p.Level != 2 || p.Exp != 20 {
		t.Fatalf("expected level 2 with 20 exp, got level %d exp %d", p.Level, p.Exp)
	}
}

func TestGrant_ChainedLevelUps(t *testing.T) {
	repo := newMockProfileRepo()
	c := NewCommitter(repo)

	// 350 exp from level 1: 100 + 200 consumed, 50 remains at level 3.
	if err := c.grant("p1", 350, 0, 0, 0, 0); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	p := repo.profiles["p1"]
	if p.Level != 3 || p.Exp != 50 {
		t.Fatalf("expected level 3 with 50 exp, got level %d exp %d", p.Level, p.Exp)
	}
}
