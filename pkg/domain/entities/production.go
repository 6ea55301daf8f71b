package entities

import (
	"fmt"
	"strings"
	"time"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// ProductionStatus is WAITING, DONE or the id of a configured production process
type ProductionStatus string

const (
	StatusWaiting ProductionStatus = "WAITING"
	StatusDone    ProductionStatus = "DONE"
)

// ProductionStatusKind discriminates the production status union
type ProductionStatusKind int

const (
	KindWaiting ProductionStatusKind = iota
	KindDone
	KindCustom
)

// String method for ProductionStatusKind enum
func (k ProductionStatusKind) String() string {
	switch k {
	case KindWaiting:
		return "Waiting"
	case KindDone:
		return "Done"
	case KindCustom:
		return "Custom"
	default:
		return "Unknown"
	}
}

// Normalize maps the unset status to WAITING
func (s ProductionStatus) Normalize() ProductionStatus {
	if s == "" {
		return StatusWaiting
	}
	return s
}

// Kind returns which variant of the union s holds
func (s ProductionStatus) Kind() ProductionStatusKind {
	switch s.Normalize() {
	case StatusWaiting:
		return KindWaiting
	case StatusDone:
		return KindDone
	default:
		return KindCustom
	}
}

// HistoryEntry records one accepted production status change
type HistoryEntry struct {
	Status    ProductionStatus `json:"status"`
	Timestamp time.Time        `json:"timestamp"`
	User      string           `json:"user,omitempty"`
}

// ProcessColor is the display color tag of a production process
type ProcessColor string

const (
	ColorBlue   ProcessColor = "blue"
	ColorOrange ProcessColor = "orange"
	ColorRed    ProcessColor = "red"
	ColorGreen  ProcessColor = "green"
	ColorPurple ProcessColor = "purple"
	ColorIndigo ProcessColor = "indigo"
	ColorPink   ProcessColor = "pink"
	ColorSlate  ProcessColor = "slate"
)

// Valid reports whether c is one of the palette colors
func (c ProcessColor) Valid() bool {
	switch c {
	case ColorBlue, ColorOrange, ColorRed, ColorGreen, ColorPurple, ColorIndigo, ColorPink, ColorSlate:
		return true
	}
	return false
}

// ProductionProcess is a user-configurable production stage
type ProductionProcess struct {
	ID    string       `json:"id"`
	Name  string       `json:"name"`
	Color ProcessColor `json:"color"`
}

var upper = cases.Upper(language.Und)

// ProcessIDFromName derives a process id: upper-cased, whitespace runs become underscores
func ProcessIDFromName(name string) string {
	return strings.Join(strings.Fields(upper.String(name)), "_")
}

// NewProductionProcess creates a validated ProductionProcess; unknown colors fall back to blue
func NewProductionProcess(name string, color ProcessColor) (*ProductionProcess, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, fmt.Errorf("process name cannot be empty")
	}
	id := ProcessIDFromName(name)
	if ProductionStatus(id) == StatusWaiting || ProductionStatus(id) == StatusDone {
		return nil, fmt.Errorf("process id %s is reserved", id)
	}
	if !color.Valid() {
		color = ColorBlue
	}
	return &ProductionProcess{ID: id, Name: name, Color: color}, nil
}

// DefaultProcesses returns the built-in process palette
func DefaultProcesses() []ProductionProcess {
	return []ProductionProcess{
		{ID: "CUTTING", Name: "Corte", Color: ColorOrange},
		{ID: "MACHINING", Name: "Usinagem", Color: ColorBlue},
		{ID: "WELDING", Name: "Solda", Color: ColorRed},
		{ID: "PAINTING", Name: "Pintura", Color: ColorPurple},
		{ID: "ASSEMBLY", Name: "Montagem", Color: ColorIndigo},
	}
}

// Palette is the ordered set of configured production processes
type Palette []ProductionProcess

// Find returns the process with the given id
func (p Palette) Find(id string) (ProductionProcess, bool) {
	for _, proc := range p {
		if proc.ID == id {
			return proc, true
		}
	}
	return ProductionProcess{}, false
}

// Allows reports whether status is a legal production status under this palette
func (p Palette) Allows(status ProductionStatus) bool {
	if status.Kind() != KindCustom {
		return true
	}
	_, ok := p.Find(string(status))
	return ok
}

// Label returns a display name for status
func (p Palette) Label(status ProductionStatus) string {
	switch status.Kind() {
	case KindWaiting:
		return "Aguardando"
	case KindDone:
		return "Concluído"
	}
	if proc, ok := p.Find(string(status)); ok {
		return proc.Name
	}
	return string(status)
}
