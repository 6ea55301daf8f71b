package entities

// Ledger is the ordered project collection, newest first
type Ledger struct {
	Projects []Project
}

// Index returns the position of the project with the given id, or -1
func (l *Ledger) Index(id string) int {
	for i := range l.Projects {
		if l.Projects[i].ID == id {
			return i
		}
	}
	return -1
}

// Find returns a pointer to the project with the given id
func (l *Ledger) Find(id string) (*Project, bool) {
	i := l.Index(id)
	if i < 0 {
		return nil, false
	}
	return &l.Projects[i], true
}

// Prepend adds p at the head of the ledger
func (l *Ledger) Prepend(p Project) {
	l.Projects = append([]Project{p}, l.Projects...)
}

// Remove deletes the project with the given id and reports whether it existed
func (l *Ledger) Remove(id string) bool {
	i := l.Index(id)
	if i < 0 {
		return false
	}
	l.Projects = append(l.Projects[:i], l.Projects[i+1:]...)
	return true
}

// FindMaterial locates a material across every project
func (l *Ledger) FindMaterial(materialID string) (*Project, *MaterialItem, bool) {
	for i := range l.Projects {
		if m, ok := l.Projects[i].Material(materialID); ok {
			return &l.Projects[i], m, true
		}
	}
	return nil, nil, false
}

// Filter returns copies of the projects accepted by keep, preserving order
func (l *Ledger) Filter(keep func(*Project) bool) []Project {
	var out []Project
	for i := range l.Projects {
		if keep(&l.Projects[i]) {
			out = append(out, l.Projects[i].Clone())
		}
	}
	return out
}

// Clone returns a deep copy of the ledger
func (l *Ledger) Clone() *Ledger {
	c := &Ledger{Projects: make([]Project, len(l.Projects))}
	for i := range l.Projects {
		c.Projects[i] = l.Projects[i].Clone()
	}
	return c
}
