package report

import (
	"strings"
	"testing"
)

const validResponse = `{
  "detailedInspection": [
    {
      "area": "Kitchen",
      "mediaReference": "frame_10",
      "timestamp": "0:10",
      "condition": "Countertop sealant degraded near sink",
      "complianceStatus": "Non-compliant",
      "issuesFound": ["Water ingress behind sealant"],
      "referenceDoc": "building_standards.pdf",
      "referenceSection": "4.2",
      "recommendation": "Re-seal within 30 days"
    }
  ],
  "executiveSummary": {
    "overallCondition": "Fair",
    "criticalIssues": ["Water ingress in kitchen"],
    "recommendedActions": ["Re-seal countertop"]
  },
  "maintenanceNotes": {
    "recurringIssues": [],
    "preventiveRecommendations": ["Inspect sealant yearly"],
    "maintenanceSchedule": [{"frequency": "Yearly", "tasks": ["Check sealant"]}],
    "costConsiderations": []
  }
}`

func TestParseValidResponse(t *testing.T) {
	r, err := Parse([]byte(validResponse))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if len(r.DetailedInspection) != 1 {
		t.Fatalf("findings = %d, want 1", len(r.DetailedInspection))
	}
	f := r.DetailedInspection[0]
	if f.ComplianceStatus != NonCompliant {
		t.Errorf("complianceStatus = %q, want %q", f.ComplianceStatus, NonCompliant)
	}
	if r.CriticalCount() != 1 {
		t.Errorf("CriticalCount = %d, want 1", r.CriticalCount())
	}
}

func TestParseRejectsMissingTopLevelKeys(t *testing.T) {
	cases := []struct {
		name string
		raw  string
		want string
	}{
		{"not json", `the house looks fine to me`, "not valid JSON"},
		{"missing detailedInspection", `{"executiveSummary":{},"maintenanceNotes":{}}`, "detailedInspection"},
		{"missing executiveSummary", `{"detailedInspection":[],"maintenanceNotes":{}}`, "executiveSummary"},
		{"missing maintenanceNotes", `{"detailedInspection":[],"executiveSummary":{}}`, "maintenanceNotes"},
		{"explicit null key", `{"detailedInspection":null,"executiveSummary":{},"maintenanceNotes":{}}`, "detailedInspection"},
		{"wrong type", `{"detailedInspection":"oops","executiveSummary":{},"maintenanceNotes":{}}`, "schema"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Parse([]byte(tc.raw))
			if err == nil {
				t.Fatal("expected error")
			}
			if !strings.Contains(err.Error(), tc.want) {
				t.Errorf("error %q should mention %q", err, tc.want)
			}
		})
	}
}

func TestValidateFrameReferences(t *testing.T) {
	r, err := Parse([]byte(validResponse))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}

	if err := r.Validate(map[string]bool{"frame_10": true}); err != nil {
		t.Fatalf("Validate with known frame: %v", err)
	}

	// a frame reference the sampler never produced must fail, not be dropped
	err = r.Validate(map[string]bool{"frame_0": true})
	if err == nil || !strings.Contains(err.Error(), "frame_10") {
		t.Fatalf("unresolved frame reference should fail, got %v", err)
	}
}

func TestValidateNonFrameReferenceIsNotResolved(t *testing.T) {
	r, _ := Parse([]byte(validResponse))
	r.DetailedInspection[0].MediaReference = "walkthrough.mp4"
	if err := r.Validate(map[string]bool{}); err != nil {
		t.Fatalf("non-frame media reference should pass: %v", err)
	}
}

func TestValidateRejectsBadFields(t *testing.T) {
	frames := map[string]bool{"frame_10": true}

	r, _ := Parse([]byte(validResponse))
	r.ExecutiveSummary.OverallCondition = "  "
	if err := r.Validate(frames); err == nil {
		t.Error("empty overallCondition should fail")
	}

	r, _ = Parse([]byte(validResponse))
	r.DetailedInspection[0].Area = ""
	if err := r.Validate(frames); err == nil {
		t.Error("empty finding area should fail")
	}

	r, _ = Parse([]byte(validResponse))
	r.DetailedInspection[0].ComplianceStatus = "Mostly fine"
	if err := r.Validate(frames); err == nil {
		t.Error("unknown compliance status should fail")
	}

	r, _ = Parse([]byte(validResponse))
	r.MaintenanceNotes.MaintenanceSchedule[0].Frequency = ""
	if err := r.Validate(frames); err == nil {
		t.Error("empty schedule frequency should fail")
	}
}
