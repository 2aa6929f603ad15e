package report

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
)

// Parse decodes raw service output into a Report. The decode is strict on
// shape: a key of the wrong JSON type fails here rather than being read
// optimistically downstream. Extra unknown keys are tolerated.
func Parse(raw []byte) (*Report, error) {
	// required top-level keys must actually be present, not just zero
	var probe struct {
		DetailedInspection *json.RawMessage `json:"detailedInspection"`
		ExecutiveSummary   *json.RawMessage `json:"executiveSummary"`
		MaintenanceNotes   *json.RawMessage `json:"maintenanceNotes"`
	}
	dec := json.NewDecoder(bytes.NewReader(raw))
	if err := dec.Decode(&probe); err != nil {
		return nil, fmt.Errorf("response is not valid JSON: %w", err)
	}
	if nullOrAbsent(probe.DetailedInspection) {
		return nil, fmt.Errorf("missing required key %q", "detailedInspection")
	}
	if nullOrAbsent(probe.ExecutiveSummary) {
		return nil, fmt.Errorf("missing required key %q", "executiveSummary")
	}
	if nullOrAbsent(probe.MaintenanceNotes) {
		return nil, fmt.Errorf("missing required key %q", "maintenanceNotes")
	}

	var r Report
	if err := json.Unmarshal(raw, &r); err != nil {
		return nil, fmt.Errorf("response does not match report schema: %w", err)
	}
	return &r, nil
}

// nullOrAbsent treats an explicit JSON null the same as an absent key.
func nullOrAbsent(m *json.RawMessage) bool {
	return m == nil || string(*m) == "null"
}

// Validate checks internal consistency. knownFrames holds the ids of the
// frames actually extracted this session; a mediaReference that denotes a
// frame and does not resolve is an error, never silently dropped.
func (r *Report) Validate(knownFrames map[string]bool) error {
	if strings.TrimSpace(r.ExecutiveSummary.OverallCondition) == "" {
		return fmt.Errorf("executiveSummary.overallCondition is empty")
	}
	for i, f := range r.DetailedInspection {
		if strings.TrimSpace(f.Area) == "" {
			return fmt.Errorf("detailedInspection[%d].area is empty", i)
		}
		switch f.ComplianceStatus {
		case Compliant, NonCompliant, Unknown:
		default:
			return fmt.Errorf("detailedInspection[%d].complianceStatus %q is not a known status", i, f.ComplianceStatus)
		}
		if ref := f.MediaReference; strings.HasPrefix(ref, "frame_") {
			if !knownFrames[ref] {
				return fmt.Errorf("detailedInspection[%d].mediaReference %q does not resolve to an extracted frame", i, ref)
			}
		}
	}
	for i, s := range r.MaintenanceNotes.MaintenanceSchedule {
		if strings.TrimSpace(s.Frequency) == "" {
			return fmt.Errorf("maintenanceSchedule[%d].frequency is empty", i)
		}
	}
	return nil
}
