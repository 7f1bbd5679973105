package policy

import (
	"testing"

	"github.com/DrSkyle/campuslab/pkg/campus"
)

func TestPlannerUpgradeThreshold(t *testing.T) {
	p, err := NewPlanner()
	if err != nil {
		t.Fatalf("Failed to create planner: %v", err)
	}

	s := campus.Snapshot{
		campus.NewReading(campus.MainGate, 221, 50, 40),
		campus.NewReading(campus.HostelArea, 220, 50, 40),
		campus.NewReading(campus.Cafeteria, 280, 50, 40),
	}
	insights, err := p.Evaluate(s)
	if err != nil {
		t.Fatalf("Evaluate failed: %v", err)
	}

	if len(insights) != 2 {
		t.Fatalf("Expected 2 insights, got %d: %v", len(insights), insights)
	}
	if insights[0].Zone != campus.MainGate || insights[1].Zone != campus.Cafeteria {
		t.Errorf("Unexpected zones: %v", insights)
	}
	if want := "Consider infrastructure upgrade near Main Gate"; insights[0].Message != want {
		t.Errorf("Expected %q, got %q", want, insights[0].Message)
	}
	if insights[0].Rule != "infrastructure-upgrade" {
		t.Errorf("Unexpected rule id %q", insights[0].Rule)
	}
}

func TestPlannerAgreesWithNeedsUpgrade(t *testing.T) {
	p, err := NewPlanner()
	if err != nil {
		t.Fatalf("Failed to create planner: %v", err)
	}

	for f := campus.MinFootfall; f <= campus.MaxFootfall; f++ {
		r := campus.NewReading(campus.AcademicBlock, f, 60, 50)
		insights, err := p.Evaluate(campus.Snapshot{r})
		if err != nil {
			t.Fatalf("Evaluate(%d) failed: %v", f, err)
		}
		if got := len(insights) == 1; got != campus.NeedsUpgrade(r) {
			t.Errorf("footfall %d: planner=%v NeedsUpgrade=%v", f, got, campus.NeedsUpgrade(r))
		}
	}
}

func TestPlannerEmptySnapshot(t *testing.T) {
	p, err := NewPlanner()
	if err != nil {
		t.Fatalf("Failed to create planner: %v", err)
	}
	insights, err := p.Evaluate(nil)
	if err != nil {
		t.Fatalf("Evaluate failed: %v", err)
	}
	if insights == nil || len(insights) != 0 {
		t.Errorf("Expected empty non-nil insights, got %#v", insights)
	}
}

func TestPlannerRejectsBadRules(t *testing.T) {
	cases := map[string]Rule{
		"syntax":      {ID: "broken", Condition: "footfall >>", Message: "%s"},
		"unknown var": {ID: "unknown", Condition: "temperature > 30", Message: "%s"},
		"non-bool":    {ID: "int", Condition: "footfall + 1", Message: "%s"},
	}
	for name, rule := range cases {
		t.Run(name, func(t *testing.T) {
			if _, err := newPlanner([]Rule{rule}); err == nil {
				t.Errorf("Expected compile error for %q", rule.Condition)
			}
		})
	}
}

func TestPlannerCustomRuleUsesRisk(t *testing.T) {
	p, err := newPlanner([]Rule{{
		ID:        "crowd-marshal",
		Condition: "risk == 'High' && occupancy > 90",
		Message:   "Deploy crowd marshals at %s",
	}})
	if err != nil {
		t.Fatalf("Failed to create planner: %v", err)
	}

	insights, err := p.Evaluate(campus.Snapshot{
		campus.NewReading(campus.Cafeteria, 250, 95, 70),
		campus.NewReading(campus.MainGate, 250, 80, 70),
	})
	if err != nil {
		t.Fatalf("Evaluate failed: %v", err)
	}
	if len(insights) != 1 || insights[0].Message != "Deploy crowd marshals at Cafeteria" {
		t.Errorf("Unexpected insights: %v", insights)
	}
}
