package service

import (
	"testing"

	"github.com/leaugueofchoding/wooriban-league-sub000/internal/battle"
)

func TestChooseAction_ValidatesPhaseAndRoles(t *testing.T) {
	repo := newMemRepo()
	env := testEnv(testNow, nil)
	committer := &mockCommitter{}
	seedQuizBattle(repo, testNow)

	if _, _, err := ChooseAction(repo, env, committer, "p1_p2", "p1", battle.ActionBasicAttack); err != ErrNotInActionPhase {
		t.Fatalf("expected ErrNotInActionPhase, got %v", err)
	}
	if _, _, err := ChooseAction(repo, env, committer, "p1_p2", "p9", battle.ActionBasicAttack); err != ErrNotParticipant {
		t.Fatalf("expected ErrNotParticipant, got %v", err)
	}
}

func TestChooseAction_ValidatesOffense(t *testing.T) {
	repo := newMemRepo()
	env := testEnv(testNow, nil)
	committer := &mockCommitter{}
	rec := seedActionBattle(repo, testNow)

	if _, _, err := ChooseAction(repo, env, committer, "p1_p2", "p1", battle.ActionBrace); err != ErrInvalidOffense {
		t.Fatalf("expected ErrInvalidOffense for a defensive pick, got %v", err)
	}
	if _, _, err := ChooseAction(repo, env, committer, "p1_p2", "p1", battle.ActionID("made_up")); err != ErrInvalidOffense {
		t.Fatalf("expected ErrInvalidOffense for an unknown skill, got %v", err)
	}

	rec.Challenger.Pet.EquippedSkills = battle.SkillList{}
	if _, _, err := ChooseAction(repo, env, committer, "p1_p2", "p1", battle.ActionID("bite")); err != ErrSkillNotEquipped {
		t.Fatalf("expected ErrSkillNotEquipped, got %v", err)
	}

	rec.Challenger.Pet.EquippedSkills = battle.SkillList{"bite"}
	rec.Challenger.Pet.SP = 5
	if _, _, err := ChooseAction(repo, env, committer, "p1_p2", "p1", battle.ActionID("bite")); err != ErrInsufficientSP {
		t.Fatalf("expected ErrInsufficientSP, got %v", err)
	}
}

func TestChooseAction_ValidatesDefense(t *testing.T) {
	repo := newMemRepo()
	env := testEnv(testNow, nil)
	committer := &mockCommitter{}
	seedActionBattle(repo, testNow)

	if _, _, err := ChooseAction(repo, env, committer, "p1_p2", "p2", battle.ActionBasicAttack); err != ErrInvalidDefense {
		t.Fatalf("expected ErrInvalidDefense for an attack by the defender, got %v", err)
	}
}

func TestChooseAction_FullExchangeResolves(t *testing.T) {
	repo := newMemRepo()
	env := testEnv(testNow, nil)
	committer := &mockCommitter{}
	seedActionBattle(repo, testNow)

	rec, applied, err := ChooseAction(repo, env, committer, "p1_p2", "p1", battle.ActionBasicAttack)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !applied || rec.AttackerAction != battle.ActionBasicAttack {
		t.Fatal("expected the attack stored while waiting for the defense")
	}
	if rec.Status != battle.PhaseAction {
		t.Fatalf("expected the exchange still open, got %q", rec.Status)
	}

	rec, applied, err = ChooseAction(repo, env, committer, "p1_p2", "p2", battle.ActionBrace)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !applied {
		t.Fatal("expected the defense to land")
	}
	if rec.Status != battle.PhaseResolution {
		t.Fatalf("expected the exchange resolved, got %q", rec.Status)
	}
	// round((20 + 10*2) * 0.5) = 20 through brace.
	if rec.Opponent.Pet.HP != 80 {
		t.Fatalf("expected 20 damage dealt, got HP=%d", rec.Opponent.Pet.HP)
	}
	if len(committer.outcomes) != 0 {
		t.Fatal("expected no outcome report while the battle continues")
	}
}

func TestChooseAction_KnockoutReportsOutcomeOnce(t *testing.T) {
	repo := newMemRepo()
	env := testEnv(testNow, nil)
	committer := &mockCommitter{}
	rec := seedActionBattle(repo, testNow)
	rec.Opponent.Pet.HP = 10

	if _, _, err := ChooseAction(repo, env, committer, "p1_p2", "p1", battle.ActionBasicAttack); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	final, applied, err := ChooseAction(repo, env, committer, "p1_p2", "p2", battle.ActionBrace)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !applied || final.Status != battle.PhaseFinished {
		t.Fatalf("expected a finished battle, got applied=%v status=%q", applied, final.Status)
	}
	if final.WinnerID != "p1" {
		t.Fatalf("expected p1 to win, got %q", final.WinnerID)
	}
	if len(committer.outcomes) != 1 {
		t.Fatalf("expected exactly one outcome report, got %d", len(committer.outcomes))
	}
	if out := committer.outcomes[0]; out.WinnerID != "p1" || out.LoserID != "p2" || out.IsDraw {
		t.Fatalf("unexpected outcome %+v", out)
	}
	if !repo.recs["p1_p2"].OutcomeReported {
		t.Fatal("expected the record marked as reported")
	}
}

func TestRequestFlee_SuccessEndsAsDraw(t *testing.T) {
	repo := newMemRepo()
	env := testEnv(testNow, &scriptRand{floats: []float64{0.1}})
	committer := &mockCommitter{}
	seedActionBattle(repo, testNow)

	rec, applied, err := RequestFlee(repo, env, committer, "p1_p2", "p2")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !applied || rec.Status != battle.PhaseFinished {
		t.Fatalf("expected the flee to finish the battle, got applied=%v status=%q", applied, rec.Status)
	}
	if rec.WinnerID != "" {
		t.Fatalf("expected no winner, got %q", rec.WinnerID)
	}
	if len(committer.outcomes) != 1 || !committer.outcomes[0].IsDraw {
		t.Fatalf("expected a single draw outcome, got %+v", committer.outcomes)
	}
}

func TestRequestFlee_FailureKeepsFighting(t *testing.T) {
	repo := newMemRepo()
	env := testEnv(testNow, &scriptRand{floats: []float64{0.9}})
	committer := &mockCommitter{}
	rec := seedActionBattle(repo, testNow)
	rec.AttackerAction = battle.ActionBasicAttack

	got, applied, err := RequestFlee(repo, env, committer, "p1_p2", "p2")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !applied {
		t.Fatal("expected the failed flee recorded")
	}
	// The failed flee filled the defense, so the exchange resolved with no
	// mitigation: full 40 from the basic attack.
	if got.Status != battle.PhaseResolution {
		t.Fatalf("expected the exchange resolved, got %q", got.Status)
	}
	if got.Opponent.Pet.HP != 60 {
		t.Fatalf("expected unmitigated damage, got HP=%d", got.Opponent.Pet.HP)
	}
}
