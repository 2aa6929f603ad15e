package prompt

import (
	"fmt"
	"strings"

	"github.com/bryanwahyu/inspection-ai/internal/domain/analysis"
	"github.com/bryanwahyu/inspection-ai/internal/domain/corpus"
)

// GetSystemPrompt provides the inspector role instruction.
func GetSystemPrompt() string {
	return "You are an expert at analysing residential building and producing detailed inspection reports." +
		"Your job is to analyse the user provided media and produce a detailed inspection report based on the reference standards you have access to."
}

// reportSchema is the wire contract between orchestrator and analysis
// service. Output compatibility depends on these exact keys; do not edit.
const reportSchema = `{
  "detailedInspection": [
    {
      "area": "string",
      "mediaReference": "string",
      "timestamp": "string",
      "condition": "string",
      "complianceStatus": "string",
      "issuesFound": ["string"],
      "referenceDoc": "string",
      "referenceSection": "string",
      "recommendation": "string"
    }
  ],
  "executiveSummary": {
    "overallCondition": "string",
    "criticalIssues": ["string"],
    "recommendedActions": ["string"]
  },
  "maintenanceNotes": {
    "recurringIssues": ["string"],
    "preventiveRecommendations": ["string"],
    "maintenanceSchedule": [
      {
        "frequency": "string",
        "tasks": ["string"]
      }
    ],
    "costConsiderations": ["string"]
  }
}`

// GetInstructions is the fixed instruction prompt sent with every
// analysis request.
func GetInstructions() string {
	return `You have been supplied with a set of building standards and manufacturer specifications to evaluate the photos and videos against.
Please be specific about any violations of building codes or manufacturer specifications found in the documentation.

Analyze the uploaded photos and videos of the building and generate a detailed inspection report in JSON format.
Be exhaustive in your inspection and cover all aspects of the building shown in the media.

The response should be a valid JSON object with the following structure:

` + reportSchema + `

Ensure the response is a valid JSON object that can be parsed.`
}

// GetUserPrompt lists the reference corpus and the user media, each asset
// labeled with its id so findings can point back at specific frames.
func GetUserPrompt(req analysis.Request) string {
	var b strings.Builder
	b.WriteString(GetInstructions())
	b.WriteString("\n\nReference documents:\n")
	for _, cat := range []corpus.Category{corpus.CategoryStandard, corpus.CategoryExample1, corpus.CategoryExample2} {
		for _, e := range req.Context {
			if e.Category == cat {
				fmt.Fprintf(&b, "- [%s] %s (file %s)\n", e.Category, e.Name, e.Handle)
			}
		}
	}
	b.WriteString("\nUser provided media:\n")
	for _, a := range req.Assets {
		fmt.Fprintf(&b, "- Asset %s (file %s)\n", a.ID, a.Handle)
	}
	b.WriteString("\nPlease generate a detailed building report. Please provide a detailed answer with elaboration on the report and reference material.")
	return b.String()
}
