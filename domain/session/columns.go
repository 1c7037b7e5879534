package session

import (
	"fmt"

	"mazescore/domain/core"
)

// Column roles, used in diagnostics.
const (
	RoleTimestamp     = "timestamp"
	RoleEvents        = "events"
	RoleActivePoke    = "active poke"
	RoleCorrectChoice = "correct choice"
	RoleTrial         = "trial"
	RolePhase         = "phase"
)

// ColumnMapping names the 1-based positions of every column the analysis
// reads. Events and ActivePoke share position 8 in the device export.
type ColumnMapping struct {
	Timestamp     int    `json:"timestamp"`
	Events        int    `json:"events"`
	ActivePoke    int    `json:"active_poke"`
	CorrectChoice int    `json:"correct_choice"`
	Trial         int    `json:"trial"`
	Phase         int    `json:"phase"`
	EventsAlias   string `json:"events_alias"`
	MinColumns    int    `json:"min_columns"`
}

// DefaultColumnMapping returns the FED maze export layout
func DefaultColumnMapping() ColumnMapping {
	return ColumnMapping{
		Timestamp:     1,
		Events:        8,
		ActivePoke:    8,
		CorrectChoice: 9,
		Trial:         13,
		Phase:         15,
		EventsAlias:   "H",
		MinColumns:    15,
	}
}

// Validate checks the mapping itself, independent of any table.
func (m ColumnMapping) Validate() error {
	for _, p := range m.positions() {
		if p.pos < 1 {
			return fmt.Errorf("%s column position must be >= 1, got %d", p.role, p.pos)
		}
		if m.MinColumns < p.pos {
			return fmt.Errorf("min columns %d is below the %s column position %d", m.MinColumns, p.role, p.pos)
		}
	}
	return nil
}

// ResolvedColumns holds 0-based indices into a specific table.
type ResolvedColumns struct {
	Timestamp     int
	Events        int
	ActivePoke    int
	CorrectChoice int
	Trial         int
	Phase         int
	EventsByAlias bool
}

// Resolve maps the configured positions onto the table's header. A column
// named EventsAlias takes precedence for events.
func (m ColumnMapping) Resolve(columns []string) (ResolvedColumns, error) {
	if len(columns) < m.MinColumns {
		return ResolvedColumns{}, &core.ColumnNotFoundError{
			Required:  m.MinColumns,
			Available: append([]string(nil), columns...),
		}
	}
	for _, p := range m.positions() {
		if p.pos < 1 || p.pos > len(columns) {
			return ResolvedColumns{}, &core.ColumnNotFoundError{
				Role:      p.role,
				Position:  p.pos,
				Required:  m.MinColumns,
				Available: append([]string(nil), columns...),
			}
		}
	}

	rc := ResolvedColumns{
		Timestamp:     m.Timestamp - 1,
		Events:        m.Events - 1,
		ActivePoke:    m.ActivePoke - 1,
		CorrectChoice: m.CorrectChoice - 1,
		Trial:         m.Trial - 1,
		Phase:         m.Phase - 1,
	}
	if m.EventsAlias != "" {
		for i, c := range columns {
			if c == m.EventsAlias {
				rc.Events = i
				rc.EventsByAlias = true
				break
			}
		}
	}
	return rc, nil
}

// Describe lists each role with its resolved header, for diagnostics.
func (rc ResolvedColumns) Describe(columns []string) []ColumnBinding {
	bind := func(role string, idx int) ColumnBinding {
		b := ColumnBinding{Role: role, Position: idx + 1}
		if idx >= 0 && idx < len(columns) {
			b.Header = columns[idx]
		}
		return b
	}
	return []ColumnBinding{
		bind(RoleTimestamp, rc.Timestamp),
		bind(RoleEvents, rc.Events),
		bind(RoleActivePoke, rc.ActivePoke),
		bind(RoleCorrectChoice, rc.CorrectChoice),
		bind(RoleTrial, rc.Trial),
		bind(RolePhase, rc.Phase),
	}
}

// ColumnBinding pairs a role with the column that serves it
type ColumnBinding struct {
	Role     string `json:"role"`
	Position int    `json:"position"`
	Header   string `json:"header"`
}

type rolePosition struct {
	role string
	pos  int
}

func (m ColumnMapping) positions() []rolePosition {
	return []rolePosition{
		{RoleTimestamp, m.Timestamp},
		{RoleEvents, m.Events},
		{RoleActivePoke, m.ActivePoke},
		{RoleCorrectChoice, m.CorrectChoice},
		{RoleTrial, m.Trial},
		{RolePhase, m.Phase},
	}
}
