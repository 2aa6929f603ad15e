package mysql

import "strings"

// stringOrDash keeps report summary columns readable when the analysis
// left a field empty
func stringOrDash(s string) string {
	if strings.TrimSpace(s) == "" {
		return "-"
	}
	return s
}
