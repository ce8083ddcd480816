package trace

import (
	"testing"
)

func TestSimulationTrace_RecordSelection_AppendsRecord(t *testing.T) {
	// GIVEN a trace configured for decisions
	st := NewSimulationTrace(TraceConfig{Level: TraceLevelDecisions})

	// WHEN a selection record is recorded
	st.RecordSelection(SelectionRecord{
		TimeMs:   1000,
		SourceAS: "1-ff00:0:110",
		DestAS:   "1-ff00:0:111",
		Chosen:   "110-br1>111-br1",
		Reason:   "best score",
	})

	// THEN the trace contains one selection record with correct data
	if len(st.Selections) != 1 {
		t.Fatalf("expected 1 selection, got %d", len(st.Selections))
	}
	if st.Selections[0].Chosen != "110-br1>111-br1" {
		t.Errorf("expected chosen path, got %s", st.Selections[0].Chosen)
	}
}

func TestSimulationTrace_RecordEvent_AppendsRecord(t *testing.T) {
	st := NewSimulationTrace(TraceConfig{Level: TraceLevelDecisions})

	st.RecordEvent(EventRecord{TimeMs: 2000, Kind: "path-down", Path: "110-br1>111-br1"})

	if len(st.Events) != 1 {
		t.Fatalf("expected 1 event, got %d", len(st.Events))
	}
	if st.Events[0].Kind != "path-down" {
		t.Errorf("expected path-down, got %s", st.Events[0].Kind)
	}
}

func TestSimulationTrace_DisabledLevel_RecordsNothing(t *testing.T) {
	st := NewSimulationTrace(TraceConfig{Level: TraceLevelNone})

	st.RecordSelection(SelectionRecord{TimeMs: 100, Chosen: "x"})
	st.RecordEvent(EventRecord{TimeMs: 100, Kind: "path-down"})

	if len(st.Selections) != 0 || len(st.Events) != 0 {
		t.Error("expected no records when tracing is disabled")
	}
}

func TestSimulationTrace_NilTrace_DoesNotPanic(t *testing.T) {
	var st *SimulationTrace
	st.RecordSelection(SelectionRecord{TimeMs: 100})
	st.RecordEvent(EventRecord{TimeMs: 100})
}

func TestSimulationTrace_MultipleRecords_PreservesOrder(t *testing.T) {
	st := NewSimulationTrace(TraceConfig{Level: TraceLevelDecisions})

	st.RecordSelection(SelectionRecord{TimeMs: 100, Chosen: "a"})
	st.RecordSelection(SelectionRecord{TimeMs: 200, Chosen: "b"})
	st.RecordEvent(EventRecord{TimeMs: 150, Kind: "path-down", Path: "a"})

	if len(st.Selections) != 2 {
		t.Fatalf("expected 2 selections, got %d", len(st.Selections))
	}
	if st.Selections[0].Chosen != "a" || st.Selections[1].Chosen != "b" {
		t.Error("selection order not preserved")
	}
	if len(st.Events) != 1 || st.Events[0].Path != "a" {
		t.Error("event record mismatch")
	}
}

func TestIsValidTraceLevel_ValidLevels(t *testing.T) {
	tests := []struct {
		level string
		valid bool
	}{
		{"none", true},
		{"decisions", true},
		{"", true}, // empty defaults to none
		{"detailed", false},
		{"foobar", false},
		{"NONE", false}, // case-sensitive
	}
	for _, tt := range tests {
		t.Run(tt.level, func(t *testing.T) {
			if got := IsValidTraceLevel(tt.level); got != tt.valid {
				t.Errorf("IsValidTraceLevel(%q) = %v, want %v", tt.level, got, tt.valid)
			}
		})
	}
}
