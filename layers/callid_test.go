package layers

import "testing"

func TestCmdBufCallNames(t *testing.T) {
	if len(cmdBufCallNames) != int(CmdBufCallCount) {
		t.Fatalf("len(cmdBufCallNames) = %d, want %d", len(cmdBufCallNames), CmdBufCallCount)
	}
	seen := make(map[string]CmdBufCallID, CmdBufCallCount)
	for id := CmdBufCallID(0); id < CmdBufCallCount; id++ {
		name := id.String()
		if name == "" {
			t.Errorf("CmdBufCallID(%d) has no name", id)
		}
		if prev, dup := seen[name]; dup {
			t.Errorf("name %q used by %d and %d", name, prev, id)
		}
		seen[name] = id
	}
}

func TestQueueCallNames(t *testing.T) {
	if len(queueCallNames) != int(QueueCallCount) {
		t.Fatalf("len(queueCallNames) = %d, want %d", len(queueCallNames), QueueCallCount)
	}
	seen := make(map[string]QueueCallID, QueueCallCount)
	for id := QueueCallID(0); id < QueueCallCount; id++ {
		name := id.String()
		if name == "" {
			t.Errorf("QueueCallID(%d) has no name", id)
		}
		if prev, dup := seen[name]; dup {
			t.Errorf("name %q used by %d and %d", name, prev, id)
		}
		seen[name] = id
	}
}

func TestCallIDString(t *testing.T) {
	tests := []struct {
		got  string
		want string
	}{
		{CmdBufCallBegin.String(), "Begin()"},
		{CmdBufCallDraw.String(), "CmdDraw()"},
		{CmdBufCallPostProcessFrame.String(), "CmdPostProcessFrame()"},
		{CmdBufCallCount.String(), "CmdBufCallID(110)"},
		{QueueCallSubmit.String(), "Submit()"},
		{QueueCallCopyVirtualMemoryPageMappings.String(), "CopyVirtualMemoryPageMappings()"},
		{QueueCallCount.String(), "QueueCallID(9)"},
	}
	for _, tt := range tests {
		if tt.got != tt.want {
			t.Errorf("String() = %q, want %q", tt.got, tt.want)
		}
	}
}
