// Package catalog holds the static task catalog of the 84-day protocol:
// the three pillars, their tasks and the streak milestones.
//
// The catalog is built once and never mutated; accessors hand out copies.
package catalog

// PillarID identifies one of the three pillars.
type PillarID int

// Pillars of the protocol.
const (
	PillarInflammation PillarID = 1
	PillarBloodFlow    PillarID = 2
	PillarNutrients    PillarID = 3
)

// Task is an immutable task definition. Frequency and the boolean flags
// only affect presentation.
type Task struct {
	ID           string   `json:"id"`
	Label        string   `json:"label"`
	Pillar       PillarID `json:"pillar"`
	Daily        bool     `json:"daily"`
	TimerSeconds int      `json:"timer,omitempty"`
	Frequency    string   `json:"frequency,omitempty"`
	Guide        bool     `json:"guide,omitempty"`
	Counter      bool     `json:"counter,omitempty"`
	OneTimeSetup bool     `json:"oneTimeSetup,omitempty"`
}

// HasTimer reports whether the task carries a countdown.
func (t Task) HasTimer() bool { return t.TimerSeconds > 0 }

// Pillar groups the tasks of one theme.
type Pillar struct {
	ID    PillarID `json:"id"`
	Name  string   `json:"name"`
	Icon  string   `json:"icon"`
	Tasks []Task   `json:"tasks"`
}

// Milestone is a best-streak achievement.
type Milestone struct {
	Days  int    `json:"days"`
	Label string `json:"label"`
	Emoji string `json:"emoji"`
}

// Catalog is an immutable, ordered set of pillars.
type Catalog struct {
	pillars    []Pillar
	byID       map[string]Task
	all        []Task
	milestones []Milestone
}

// New builds a catalog from pillars. Later duplicates of a task id are ignored.
func New(pillars []Pillar, milestones []Milestone) *Catalog {
	c := &Catalog{byID: make(map[string]Task)}
	for _, p := range pillars {
		cp := Pillar{ID: p.ID, Name: p.Name, Icon: p.Icon}
		for _, t := range p.Tasks {
			if _, dup := c.byID[t.ID]; dup {
				continue
			}
			t.Pillar = p.ID
			c.byID[t.ID] = t
			c.all = append(c.all, t)
			cp.Tasks = append(cp.Tasks, t)
		}
		c.pillars = append(c.pillars, cp)
	}
	c.milestones = append(c.milestones, milestones...)
	return c
}

// Size returns the number of tasks in the whole catalog.
func (c *Catalog) Size() int { return len(c.all) }

// All returns every task in catalog order.
func (c *Catalog) All() []Task {
	return append([]Task(nil), c.all...)
}

// Lookup returns the task with the given id.
func (c *Catalog) Lookup(id string) (Task, bool) {
	t, ok := c.byID[id]
	return t, ok
}

// Pillars returns the pillars with their tasks.
func (c *Catalog) Pillars() []Pillar {
	out := make([]Pillar, len(c.pillars))
	for i, p := range c.pillars {
		out[i] = p
		out[i].Tasks = append([]Task(nil), p.Tasks...)
	}
	return out
}

// PillarTasks returns the tasks of one pillar, or nil for an unknown id.
func (c *Catalog) PillarTasks(id PillarID) []Task {
	for _, p := range c.pillars {
		if p.ID == id {
			return append([]Task(nil), p.Tasks...)
		}
	}
	return nil
}

// Milestones returns the streak milestones in ascending order of days.
func (c *Catalog) Milestones() []Milestone {
	return append([]Milestone(nil), c.milestones...)
}

// Default returns the protocol's compiled-in catalog.
func Default() *Catalog {
	return defaultCatalog
}

var defaultCatalog = New(defaultPillars, defaultMilestones) //nolint:gochecknoglobals // compiled-in catalog
