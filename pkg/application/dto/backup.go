package dto

// BackupVersion tags every exported bundle
const BackupVersion = "2.2"

// BackupBundle holds the raw stored document for every key. Absent keys are null.
type BackupBundle struct {
	Projects   *string `json:"projects"`
	Processes  *string `json:"processes"`
	History    *string `json:"history"`
	ActiveJobs *string `json:"activeJobs"`
	Employees  *string `json:"employees"`
	Machines   *string `json:"machines"`
	Version    string  `json:"version"`
	Date       string  `json:"date"`
}
