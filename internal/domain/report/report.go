package report

// ComplianceStatus enum, nilai persis seperti wire contract
type ComplianceStatus string

const (
	Compliant    ComplianceStatus = "Compliant"
	NonCompliant ComplianceStatus = "Non-compliant"
	Unknown      ComplianceStatus = "Unknown"
)

// Finding is one inspected area inside a report. The json tags are the
// wire contract with the analysis service and must not change.
type Finding struct {
	Area             string           `json:"area"`
	MediaReference   string           `json:"mediaReference,omitempty"`
	Timestamp        string           `json:"timestamp,omitempty"`
	Condition        string           `json:"condition"`
	ComplianceStatus ComplianceStatus `json:"complianceStatus"`
	IssuesFound      []string         `json:"issuesFound"`
	ReferenceDoc     string           `json:"referenceDoc,omitempty"`
	ReferenceSection string           `json:"referenceSection,omitempty"`
	Recommendation   string           `json:"recommendation,omitempty"`
}

type ExecutiveSummary struct {
	OverallCondition   string   `json:"overallCondition"`
	CriticalIssues     []string `json:"criticalIssues"`
	RecommendedActions []string `json:"recommendedActions"`
}

type ScheduleEntry struct {
	Frequency string   `json:"frequency"`
	Tasks     []string `json:"tasks"`
}

type MaintenanceNotes struct {
	RecurringIssues           []string        `json:"recurringIssues"`
	PreventiveRecommendations []string        `json:"preventiveRecommendations"`
	MaintenanceSchedule       []ScheduleEntry `json:"maintenanceSchedule"`
	CostConsiderations        []string        `json:"costConsiderations"`
}

// Report is the validated synthesis output. Created once per synthesis
// call, immutable afterwards.
type Report struct {
	ExecutiveSummary   ExecutiveSummary `json:"executiveSummary"`
	DetailedInspection []Finding        `json:"detailedInspection"`
	MaintenanceNotes   MaintenanceNotes `json:"maintenanceNotes"`
}

// CriticalCount is what gets persisted alongside the report row.
func (r *Report) CriticalCount() int {
	return len(r.ExecutiveSummary.CriticalIssues)
}
