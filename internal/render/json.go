package render

import (
	"encoding/json"

	"github.com/bryanwahyu/inspection-ai/internal/domain/report"
)

// JSON is the lossless structured-data export: the output re-parsed is
// deep-equal to the original report.
func JSON(r *report.Report) ([]byte, error) {
	return json.MarshalIndent(r, "", "  ")
}

// ParseJSON round-trips a structured-data export back into a Report.
func ParseJSON(data []byte) (*report.Report, error) {
	var r report.Report
	if err := json.Unmarshal(data, &r); err != nil {
		return nil, err
	}
	return &r, nil
}
