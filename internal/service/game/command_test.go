package game

import "testing"

const testJoinCmd = "!katıl"

func setupInterpreter() (*Registry, *TurnGate) {
	reg := NewRegistry()
	reg.Register("alice")
	reg.Register("bob")

	gate := NewTurnGate()
	gate.Select("alice")

	return reg, gate
}

func TestInterpretChat_JoinPhraseIsCaseInsensitive(t *testing.T) {
	reg := NewRegistry()
	gate := NewTurnGate() // empty gate: registration must still work

	cmd := InterpretChat(reg, gate, testJoinCmd, "newbie", "  !Katıl ")
	if cmd.Kind != CMD_REGISTER {
		t.Fatalf("want register command, got %q", cmd.Kind)
	}
	if cmd.Sender != "newbie" {
		t.Fatalf("sender not carried through, got %q", cmd.Sender)
	}
}

func TestInterpretChat_IgnoresNonCurrentSender(t *testing.T) {
	reg, gate := setupInterpreter()

	cmd := InterpretChat(reg, gate, testJoinCmd, "bob", "5")
	if cmd.Kind != CMD_IGNORE {
		t.Fatalf("command from non-current player must be ignored, got %q", cmd.Kind)
	}

	// unregistered sender is ignored too
	cmd = InterpretChat(reg, gate, testJoinCmd, "stranger", "5")
	if cmd.Kind != CMD_IGNORE {
		t.Fatalf("command from unregistered sender must be ignored, got %q", cmd.Kind)
	}
}

func TestInterpretChat_IgnoresWhenGateEmpty(t *testing.T) {
	reg := NewRegistry()
	reg.Register("alice")
	gate := NewTurnGate()

	cmd := InterpretChat(reg, gate, testJoinCmd, "alice", "5")
	if cmd.Kind != CMD_IGNORE {
		t.Fatalf("numeric input with no current player must be ignored, got %q", cmd.Kind)
	}
}

func TestInterpretChat_IgnoresConsumedTurn(t *testing.T) {
	reg, gate := setupInterpreter()
	reg.FindByName("alice").HasActed = true

	cmd := InterpretChat(reg, gate, testJoinCmd, "alice", "5")
	if cmd.Kind != CMD_IGNORE {
		t.Fatalf("consumed turn must silence further input, got %q", cmd.Kind)
	}
}

func TestInterpretChat_PickParsing(t *testing.T) {
	reg, gate := setupInterpreter()

	cmd := InterpretChat(reg, gate, testJoinCmd, "alice", " 7 ")
	if cmd.Kind != CMD_PICK || cmd.Number != 7 {
		t.Fatalf("want pick 7, got %q %d", cmd.Kind, cmd.Number)
	}

	if cmd := InterpretChat(reg, gate, testJoinCmd, "alice", "71"); cmd.Kind != CMD_INVALID {
		t.Fatalf("out-of-range pick must be invalid, got %q", cmd.Kind)
	}

	if cmd := InterpretChat(reg, gate, testJoinCmd, "alice", "0"); cmd.Kind != CMD_INVALID {
		t.Fatalf("pick below range must be invalid, got %q", cmd.Kind)
	}

	if cmd := InterpretChat(reg, gate, testJoinCmd, "alice", "abc"); cmd.Kind != CMD_INVALID {
		t.Fatalf("non-numeric input must be invalid, got %q", cmd.Kind)
	}
}

func TestInterpretChat_TargetParsing(t *testing.T) {
	reg, gate := setupInterpreter()

	alice := reg.FindByName("alice")
	alice.HasActed = false
	alice.AwaitingTarget = true

	// any integer counts as a target join order, even out of the pick range
	cmd := InterpretChat(reg, gate, testJoinCmd, "alice", "200")
	if cmd.Kind != CMD_TARGET || cmd.Number != 200 {
		t.Fatalf("want target 200, got %q %d", cmd.Kind, cmd.Number)
	}

	if cmd := InterpretChat(reg, gate, testJoinCmd, "alice", "bang"); cmd.Kind != CMD_INVALID {
		t.Fatalf("non-numeric target must be invalid, got %q", cmd.Kind)
	}
}

func TestInterpretChat_EmptyMessageIgnored(t *testing.T) {
	reg, gate := setupInterpreter()

	if cmd := InterpretChat(reg, gate, testJoinCmd, "alice", "   "); cmd.Kind != CMD_IGNORE {
		t.Fatalf("blank message must be ignored, got %q", cmd.Kind)
	}
}
