package logging

import "strings"

// FormatSubject builds the component/job/stage subject string used in console output.
func FormatSubject(component, jobID, stage string) string {
	component = strings.TrimSpace(component)
	jobID = strings.TrimSpace(jobID)
	stage = strings.TrimSpace(stage)
	if len(jobID) > 8 {
		jobID = jobID[:8]
	}
	parts := make([]string, 0, 3)
	if component != "" {
		parts = append(parts, component)
	}
	if jobID != "" {
		parts = append(parts, "job "+jobID)
	}
	if stage != "" {
		parts = append(parts, stage)
	}
	return strings.Join(parts, " · ")
}
