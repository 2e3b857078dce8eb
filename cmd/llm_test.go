package cmd

import (
	"testing"

	"github.com/abhisek/carescreen/internal/store"
)

func TestOutcome(t *testing.T) {
	tests := []struct {
		name  string
		event store.LLMRequestEventData
		want  string
	}{
		{
			name: "suggestions",
			event: store.LLMRequestEventData{
				Success:      true,
				ResponseBody: `{"suggestions":["Walk daily"," ","Sleep well","Drink water"]}`,
			},
			want: "3 suggestions",
		},
		{
			name: "too few",
			event: store.LLMRequestEventData{
				Success:      true,
				ResponseBody: `{"suggestions":["Walk daily"]}`,
			},
			want: "fallback: unusable response",
		},
		{
			name:  "not json",
			event: store.LLMRequestEventData{Success: true, ResponseBody: "sure, here you go"},
			want:  "fallback: unusable response",
		},
		{
			name:  "failed",
			event: store.LLMRequestEventData{ErrorMessage: "rate limited"},
			want:  "fallback: rate limited",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := outcome(store.LLMEvent{LLMRequestEventData: tt.event}); got != tt.want {
				t.Errorf("outcome() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestFailedEvents(t *testing.T) {
	events := []store.LLMEvent{
		{ID: 1, LLMRequestEventData: store.LLMRequestEventData{Success: true}},
		{ID: 2},
		{ID: 3, LLMRequestEventData: store.LLMRequestEventData{Success: true}},
		{ID: 4},
	}
	got := failedEvents(events)
	if len(got) != 2 || got[0].ID != 2 || got[1].ID != 4 {
		t.Errorf("failedEvents() = %+v, want events 2 and 4", got)
	}
}

func TestFallbackRate(t *testing.T) {
	if got := fallbackRate(store.LLMUsage{Calls: 4, Failures: 1}); got != "25%" {
		t.Errorf("fallbackRate = %q, want 25%%", got)
	}
	if got := fallbackRate(store.LLMUsage{}); got != "-" {
		t.Errorf("fallbackRate with no calls = %q, want -", got)
	}
}
