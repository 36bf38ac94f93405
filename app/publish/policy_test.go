package publish

import (
	"testing"
	"time"
)

func TestWeekdayPolicy(t *testing.T) {
	policy := WeekdayPolicy{Day: time.Sunday, Location: time.UTC}

	sunday := time.Date(2024, 6, 2, 12, 0, 0, 0, time.UTC)
	monday := time.Date(2024, 6, 3, 12, 0, 0, 0, time.UTC)

	if !policy.ShouldPublish(sunday) {
		t.Error("Expected to publish on Sunday")
	}
	if policy.ShouldPublish(monday) {
		t.Error("Expected not to publish on Monday")
	}
}

func TestWeekdayPolicyUsesLocation(t *testing.T) {
	loc := time.FixedZone("UTC-5", -5*60*60)
	policy := WeekdayPolicy{Day: time.Sunday, Location: loc}

	// Monday 02:00 UTC is still Sunday evening at UTC-5
	now := time.Date(2024, 6, 3, 2, 0, 0, 0, time.UTC)

	if !policy.ShouldPublish(now) {
		t.Error("Expected the weekday to be taken in the policy location")
	}
}

func TestAlwaysAndNever(t *testing.T) {
	now := time.Date(2024, 6, 5, 12, 0, 0, 0, time.UTC)

	if !(Always{}).ShouldPublish(now) {
		t.Error("Expected Always to publish")
	}
	if (Never{}).ShouldPublish(now) {
		t.Error("Expected Never not to publish")
	}
}

func TestParsePolicy(t *testing.T) {
	tests := []struct {
		value   string
		want    Policy
		wantErr bool
	}{
		{"always", Always{}, false},
		{"NEVER", Never{}, false},
		{"sunday", WeekdayPolicy{Day: time.Sunday, Location: time.UTC}, false},
		{"Fri", WeekdayPolicy{Day: time.Friday, Location: time.UTC}, false},
		{"someday", nil, true},
	}

	for _, tt := range tests {
		t.Run(tt.value, func(t *testing.T) {
			got, err := ParsePolicy(tt.value, time.UTC)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParsePolicy(%q) error = %v, wantErr %v", tt.value, err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("ParsePolicy(%q) = %v, want %v", tt.value, got, tt.want)
			}
		})
	}
}
