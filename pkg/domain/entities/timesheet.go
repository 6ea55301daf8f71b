package entities

import (
	"fmt"
	"sort"
	"strings"
	"time"
)

// ServiceTypes lists the labor categories offered when starting a job
var ServiceTypes = []string{
	"Usinagem", "Solda", "Corte", "Montagem", "Acabamento", "Manutenção", "Pintura", "Logística", "Outros",
}

// Millis is a Unix timestamp in milliseconds
type Millis int64

// MillisOf converts t to Millis
func MillisOf(t time.Time) Millis {
	return Millis(t.UnixMilli())
}

// Time converts m back to a time.Time
func (m Millis) Time() time.Time {
	return time.UnixMilli(int64(m))
}

// JobData describes the work being timed
type JobData struct {
	Employee    string `json:"funcionario"`
	OPNumber    string `json:"op"`
	Drawing     string `json:"desenho"`
	Client      string `json:"cliente"`
	Machine     string `json:"maquina"`
	ServiceType string `json:"serviceType"`
}

// Validate checks the fields required to start a job
func (d JobData) Validate() error {
	if strings.TrimSpace(d.Employee) == "" {
		return fmt.Errorf("employee cannot be empty")
	}
	if strings.TrimSpace(d.OPNumber) == "" {
		return fmt.Errorf("op number cannot be empty")
	}
	if strings.TrimSpace(d.ServiceType) == "" {
		return fmt.Errorf("service type cannot be empty")
	}
	if strings.TrimSpace(d.Machine) == "" {
		return fmt.Errorf("machine cannot be empty")
	}
	return nil
}

// ActiveJob is a running stopwatch
type ActiveJob struct {
	ID        string  `json:"id"`
	Data      JobData `json:"data"`
	StartTime Millis  `json:"startTime"`
}

// JobRecord is a finished, logged job
type JobRecord struct {
	JobData
	ID              string `json:"id"`
	StartTime       Millis `json:"startTime"`
	EndTime         Millis `json:"endTime"`
	DurationSeconds int64  `json:"durationSeconds"`
	Date            string `json:"date"`
}

// DurationBetween returns whole seconds from start to end, floored at zero
func DurationBetween(start, end Millis) int64 {
	d := (int64(end) - int64(start)) / 1000
	if d < 0 {
		return 0
	}
	return d
}

// Recompute refreshes DurationSeconds from the start and end times
func (r *JobRecord) Recompute() {
	r.DurationSeconds = DurationBetween(r.StartTime, r.EndTime)
}

// FormatDuration renders seconds as HH:MM:SS
func FormatDuration(seconds int64) string {
	if seconds < 0 {
		seconds = 0
	}
	return fmt.Sprintf("%02d:%02d:%02d", seconds/3600, (seconds%3600)/60, seconds%60)
}

// Roster is a sorted, duplicate-free list of names
type Roster []string

// Add returns the roster with name inserted; blank or duplicate names are ignored
func (r Roster) Add(name string) Roster {
	name = strings.TrimSpace(name)
	if name == "" || r.Contains(name) {
		return r
	}
	out := append(append(Roster(nil), r...), name)
	sort.Strings(out)
	return out
}

// Remove returns the roster without name
func (r Roster) Remove(name string) Roster {
	out := make(Roster, 0, len(r))
	for _, n := range r {
		if n != name {
			out = append(out, n)
		}
	}
	return out
}

// Contains reports whether name is on the roster
func (r Roster) Contains(name string) bool {
	for _, n := range r {
		if n == name {
			return true
		}
	}
	return false
}

// Timesheet is the labor tracking document set
type Timesheet struct {
	History    []JobRecord
	ActiveJobs []ActiveJob
	Employees  Roster
	Machines   Roster
}
