package pricing

import (
	"errors"
	"testing"
	"time"
)

func TestPercentageApply(t *testing.T) {
	tests := []struct {
		name     string
		value    float64
		original float64
		want     float64
	}{
		{"twenty percent off hundred", 20, 100.00, 80.00},
		{"zero percent", 0, 50, 50},
		{"full discount", 100, 75, 0},
		{"half off odd price", 50, 19.98, 9.99},
		{"zero price", 30, 0, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Percentage(tt.value).Apply(tt.original)
			if got != tt.want {
				t.Errorf("Percentage(%v).Apply(%v) = %v, want %v", tt.value, tt.original, got, tt.want)
			}
		})
	}
}

func TestPercentageApplyStaysWithinRange(t *testing.T) {
	for _, original := range []float64{0, 0.01, 1, 99.99, 12345.67} {
		for _, value := range []float64{0, 1, 25, 50, 99, 100} {
			got := Percentage(value).Apply(original)
			if got < 0 || got > original {
				t.Errorf("Percentage(%v).Apply(%v) = %v, outside [0, %v]", value, original, got, original)
			}
		}
	}
}

func TestFixedApply(t *testing.T) {
	tests := []struct {
		name     string
		value    float64
		original float64
		want     float64
	}{
		{"simple reduction", 10, 100, 90},
		{"clamped at zero", 30, 20.00, 0.00},
		{"exact match", 20, 20, 0},
		{"zero discount", 0, 15, 15},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Fixed(tt.value).Apply(tt.original)
			if got != tt.want {
				t.Errorf("Fixed(%v).Apply(%v) = %v, want %v", tt.value, tt.original, got, tt.want)
			}
		})
	}
}

func TestFixedApplyNeverNegative(t *testing.T) {
	for _, original := range []float64{0, 5, 100} {
		for _, value := range []float64{0, 5, 100, 100000} {
			if got := Fixed(value).Apply(original); got < 0 {
				t.Errorf("Fixed(%v).Apply(%v) = %v, want >= 0", value, original, got)
			}
		}
	}
}

func TestNew(t *testing.T) {
	d, err := New("percentage", 15)
	if err != nil {
		t.Fatalf("New(percentage): %v", err)
	}
	if d.Kind() != KindPercentage || d.Value() != 15 {
		t.Errorf("unexpected discount %v %v", d.Kind(), d.Value())
	}

	if _, err := New("bogo", 10); !errors.Is(err, ErrInvalidDiscountKind) {
		t.Errorf("New(bogo) err = %v, want ErrInvalidDiscountKind", err)
	}
	if _, err := New("fixed", -1); !errors.Is(err, ErrNegativeValue) {
		t.Errorf("New(fixed, -1) err = %v, want ErrNegativeValue", err)
	}
}

func capAt(n int64) *int64 { return &n }

func TestScheduleActive(t *testing.T) {
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2024, 1, 10, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name string
		s    Schedule
		now  time.Time
		want bool
	}{
		{
			"disabled always loses",
			Schedule{Enabled: false, Start: start, End: end},
			start.AddDate(0, 0, 5),
			false,
		},
		{
			"before window",
			Schedule{Enabled: true, Start: start, End: end},
			start.Add(-time.Second),
			false,
		},
		{
			"start boundary is inclusive",
			Schedule{Enabled: true, Start: start, End: end},
			start,
			true,
		},
		{
			"end boundary is inclusive",
			Schedule{Enabled: true, Start: start, End: end},
			end,
			true,
		},
		{
			"timestamp past midnight of the end day loses",
			Schedule{Enabled: true, Start: start, End: end},
			time.Date(2024, 1, 10, 23, 59, 59, 0, time.UTC),
			false,
		},
		{
			"inside window, usage at cap loses",
			Schedule{Enabled: true, Start: start, End: end, MaxUsage: capAt(5), Usage: 5},
			start.AddDate(0, 0, 3),
			false,
		},
		{
			"inside window, usage under cap",
			Schedule{Enabled: true, Start: start, End: end, MaxUsage: capAt(5), Usage: 4},
			start.AddDate(0, 0, 3),
			true,
		},
		{
			"nil cap means unlimited",
			Schedule{Enabled: true, Start: start, End: end, Usage: 1 << 30},
			start.AddDate(0, 0, 3),
			true,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.s.Active(tt.now); got != tt.want {
				t.Errorf("Active(%v) = %v, want %v", tt.now, got, tt.want)
			}
		})
	}
}

func TestScheduleUsageLeft(t *testing.T) {
	if (Schedule{MaxUsage: capAt(5), Usage: 5}).UsageLeft() {
		t.Error("UsageLeft at cap = true, want false")
	}
	if !(Schedule{MaxUsage: capAt(5), Usage: 4}).UsageLeft() {
		t.Error("UsageLeft under cap = false, want true")
	}
	if !(Schedule{Usage: 100}).UsageLeft() {
		t.Error("UsageLeft with nil cap = false, want true")
	}
}
