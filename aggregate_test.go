package buildlight

import "testing"

// rec builds a retrieved record with the given status.
func rec(status BuildStatus) BuildRecord {
	return BuildRecord{Status: status, Retrieved: true}
}

// unret builds an unretrieved record.
func unret() BuildRecord {
	return BuildRecord{Status: StatusUnknown, Retrieved: false}
}

func TestSummarize(t *testing.T) {
	tests := []struct {
		name    string
		records []BuildRecord
		want    AggregationSummary
	}{
		{
			name:    "empty",
			records: nil,
			want:    AggregationSummary{},
		},
		{
			name:    "all categories",
			records: []BuildRecord{rec(StatusSuccess), rec(StatusFailure), rec(StatusBuilding), unret()},
			want:    AggregationSummary{Total: 4, Succeeded: 1, Failed: 1, Indeterminate: 2},
		},
		{
			name:    "unstable counts as failed",
			records: []BuildRecord{rec(StatusUnstable)},
			want:    AggregationSummary{Total: 1, Failed: 1},
		},
		{
			name:    "unknown counts as indeterminate",
			records: []BuildRecord{rec(StatusUnknown)},
			want:    AggregationSummary{Total: 1, Indeterminate: 1},
		},
		{
			name:    "unretrieved success still indeterminate",
			records: []BuildRecord{{Status: StatusSuccess, Retrieved: false}},
			want:    AggregationSummary{Total: 1, Indeterminate: 1},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Summarize(tt.records)
			if got != tt.want {
				t.Errorf("Summarize() = %+v, want %+v", got, tt.want)
			}
			if got.Succeeded+got.Failed+got.Indeterminate != got.Total {
				t.Errorf("counts %+v do not add up to Total", got)
			}
		})
	}
}

func TestDefaultAggregator(t *testing.T) {
	tests := []struct {
		name    string
		records []BuildRecord
		want    VisualState
	}{
		{"empty", nil, StateUnreachable},
		{"all unretrieved", []BuildRecord{unret(), unret()}, StateUnreachable},
		{"single success", []BuildRecord{rec(StatusSuccess)}, StateHealthy},
		{"single failure", []BuildRecord{rec(StatusFailure)}, StateUnhealthy},
		{"single unstable", []BuildRecord{rec(StatusUnstable)}, StateUnhealthy},
		{"all building", []BuildRecord{rec(StatusBuilding), rec(StatusBuilding)}, StateAmbiguous},
		{"successes outnumber failures", []BuildRecord{rec(StatusSuccess), rec(StatusSuccess), rec(StatusFailure)}, StateDegraded},
		{"failures outnumber successes", []BuildRecord{rec(StatusSuccess), rec(StatusFailure), rec(StatusFailure)}, StateUnhealthy},
		{"equal successes and failures", []BuildRecord{rec(StatusSuccess), rec(StatusFailure)}, StateUnhealthy},
		{"successes outnumber indeterminates", []BuildRecord{rec(StatusSuccess), rec(StatusSuccess), rec(StatusBuilding)}, StateHealthy},
		{"indeterminates match successes", []BuildRecord{rec(StatusSuccess), rec(StatusBuilding)}, StateDegraded},
		{"indeterminates outnumber failures", []BuildRecord{rec(StatusFailure), rec(StatusBuilding), rec(StatusBuilding)}, StateAmbiguous},
		{"failures match indeterminates", []BuildRecord{rec(StatusFailure), rec(StatusBuilding)}, StateUnhealthy},
		{"one retrieved among unretrieved", []BuildRecord{rec(StatusSuccess), unret(), unret()}, StateDegraded},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			state, sum := DefaultAggregator(tt.records)
			if state != tt.want {
				t.Errorf("DefaultAggregator() state = %v, want %v (summary %+v)", state, tt.want, sum)
			}
			if sum != Summarize(tt.records) {
				t.Errorf("summary = %+v, want the Summarize result", sum)
			}
		})
	}
}

func TestDefaultAggregator_Deterministic(t *testing.T) {
	records := []BuildRecord{rec(StatusSuccess), rec(StatusFailure), rec(StatusBuilding), unret()}

	first, _ := DefaultAggregator(records)
	for i := 0; i < 100; i++ {
		state, _ := DefaultAggregator(records)
		if state != first {
			t.Fatalf("run %d: state = %v, want %v", i, state, first)
		}
	}
}

func TestPlatformAggregator(t *testing.T) {
	tests := []struct {
		name    string
		records []BuildRecord
		want    VisualState
	}{
		{"empty", nil, StateUnreachable},
		{"any unretrieved", []BuildRecord{rec(StatusSuccess), unret()}, StateUnreachable},
		{"all success", []BuildRecord{rec(StatusSuccess), rec(StatusSuccess)}, StateHealthy},
		{"all failure", []BuildRecord{rec(StatusFailure), rec(StatusFailure)}, StateUnhealthy},
		{"mixed results", []BuildRecord{rec(StatusSuccess), rec(StatusFailure)}, StateMixed},
		{"success with minority building", []BuildRecord{rec(StatusSuccess), rec(StatusSuccess), rec(StatusBuilding)}, StateHealthy},
		{"building majority", []BuildRecord{rec(StatusSuccess), rec(StatusBuilding), rec(StatusBuilding)}, StateUnreachable},
		{"all building", []BuildRecord{rec(StatusBuilding), rec(StatusBuilding)}, StateUnreachable},
		{"single building", []BuildRecord{rec(StatusBuilding)}, StateUnreachable},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			state, _ := PlatformAggregator(tt.records)
			if state != tt.want {
				t.Errorf("PlatformAggregator() state = %v, want %v", state, tt.want)
			}
		})
	}
}

func TestSingleAggregator(t *testing.T) {
	tests := []struct {
		name    string
		records []BuildRecord
		want    VisualState
	}{
		{"empty", nil, StateUnreachable},
		{"success", []BuildRecord{rec(StatusSuccess)}, StateHealthy},
		{"failure", []BuildRecord{rec(StatusFailure)}, StateUnhealthy},
		{"unstable", []BuildRecord{rec(StatusUnstable)}, StateUnhealthy},
		{"building", []BuildRecord{rec(StatusBuilding)}, StateUnreachable},
		{"unknown", []BuildRecord{rec(StatusUnknown)}, StateUnreachable},
		{"unretrieved", []BuildRecord{unret()}, StateUnreachable},
		{"extra records ignored", []BuildRecord{rec(StatusSuccess), rec(StatusFailure)}, StateHealthy},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			state, _ := SingleAggregator(tt.records)
			if state != tt.want {
				t.Errorf("SingleAggregator() state = %v, want %v", state, tt.want)
			}
		})
	}
}
