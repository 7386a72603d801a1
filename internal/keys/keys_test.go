package keys

import "testing"

func TestBattleKeyFromPlayers(t *testing.T) {
	cases := []struct {
		a, b string
		want string
	}{
		{"student7", "student12", "student12_student7"},
		{"student12", "student7", "student12_student7"},
		{"  Student7 ", "STUDENT12", "student12_student7"},
		{"solo", "", "solo"},
	}
	for _, tc := range cases {
		if got := BattleKeyFromPlayers(tc.a, tc.b); got != tc.want {
			t.Errorf("BattleKeyFromPlayers(%q, %q) = %q, want %q", tc.a, tc.b, got, tc.want)
		}
	}
}

func TestBattleKeyFromPlayers_OrderInsensitive(t *testing.T) {
	if BattleKeyFromPlayers("p1", "p2") != BattleKeyFromPlayers("p2", "p1") {
		t.Fatal("expected the same key regardless of who challenges")
	}
}
