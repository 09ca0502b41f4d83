package dme

import "testing"

func TestEncodeDecodeRoundTrip(t *testing.T) {
	cases := []wireMessage{
		{Verb: requestVerb, TS: 1, Sender: "alice"},
		{Verb: replyVerb, TS: 9999, Sender: "B"},
	}

	for _, want := range cases {
		line := want.encode()
		if line[len(line)-1] != '\n' {
			t.Fatalf("encode(%v) = %q, not newline-terminated", want, line)
		}
		got, err := parseLine(line[:len(line)-1])
		if err != nil {
			t.Fatalf("parseLine(%q): %v", line, err)
		}
		if got != want {
			t.Fatalf("round trip mismatch: want %v, got %v", want, got)
		}
	}
}

func TestParseLineExactWireFormat(t *testing.T) {
	got, err := parseLine("REQUEST 42 nodeB")
	if err != nil {
		t.Fatalf("parseLine: %v", err)
	}
	want := wireMessage{Verb: requestVerb, TS: 42, Sender: "nodeB"}
	if got != want {
		t.Fatalf("got %v, want %v", got, want)
	}
}

func TestParseLineRejectsMalformedInput(t *testing.T) {
	cases := []string{
		"",
		"REQUEST",
		"REQUEST 1",
		"REQUEST 1 A B",
		"BADVERB 1 A",
		"REQUEST notanumber A",
		"REQUEST 1 ",
		"REQUEST -1 A",
	}
	for _, line := range cases {
		if _, err := parseLine(line); err == nil {
			t.Errorf("parseLine(%q): expected error, got none", line)
		}
	}
}

func TestParseLineRejectsOversizedNodeID(t *testing.T) {
	longID := ""
	for i := 0; i < maxNodeIDLen+1; i++ {
		longID += "x"
	}
	if _, err := parseLine("REQUEST 1 " + longID); err == nil {
		t.Errorf("parseLine with %d-byte node id: expected error, got none", len(longID))
	}
}
