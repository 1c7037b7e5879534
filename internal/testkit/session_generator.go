package testkit

import (
	"math/rand"
	"strconv"
	"strings"
	"time"

	"mazescore/domain/session"
)

// SessionGeneratorConfig configures synthetic maze sessions
type SessionGeneratorConfig struct {
	Phases         int           `json:"phases"`           // phases after IA
	TrialsPerPhase int           `json:"trials_per_phase"` // choice trials per phase
	LearningRate   float64       `json:"learning_rate"`    // per-trial gain in correct probability
	TrialInterval  time.Duration `json:"trial_interval"`
	Start          time.Time     `json:"start"`
	Seed           int64         `json:"seed"`
}

// DefaultSessionConfig returns a session that fits inside the one hour window
func DefaultSessionConfig() SessionGeneratorConfig {
	return SessionGeneratorConfig{
		Phases:         3,
		TrialsPerPhase: 20,
		LearningRate:   0.03,
		TrialInterval:  20 * time.Second,
		Start:          time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC),
		Seed:           42,
	}
}

// SessionDataGenerator generates FED maze event logs with rule shifts
type SessionDataGenerator struct {
	config SessionGeneratorConfig
	rng    *rand.Rand
}

// NewSessionDataGenerator creates a generator
func NewSessionDataGenerator(config SessionGeneratorConfig) *SessionDataGenerator {
	return &SessionDataGenerator{
		config: config,
		rng:    rand.New(rand.NewSource(config.Seed)),
	}
}

// PhaseLabels returns the labels the generator emits, IA first
func (g *SessionDataGenerator) PhaseLabels() []string {
	labels := []string{"IA"}
	for i := 1; i <= g.config.Phases; i++ {
		labels = append(labels, strconv.Itoa(i))
	}
	return labels
}

// Generate builds one session. Each trial emits the poke, a pellet on correct
// choices, and from the second trial on the win/lose stay/shift label relative
// to the previous trial. The rewarded side starts left and flips every phase.
func (g *SessionDataGenerator) Generate() *session.Table {
	b := NewSessionBuilder(g.config.Start)
	rewarded := "left"
	trial := 0
	offset := time.Duration(0)
	prevSide, prevWin := "", false

	for _, phase := range g.PhaseLabels() {
		pCorrect := 0.5
		for i := 0; i < g.config.TrialsPerPhase; i++ {
			trial++
			side := rewarded
			if g.rng.Float64() >= pCorrect {
				side = opposite(rewarded)
			}
			win := side == rewarded

			b.Add(offset, titleCase(side), rewarded, trial, phase)
			if win {
				b.Add(offset+time.Second, "Pellet", rewarded, trial, phase)
			}
			if prevSide != "" {
				b.Add(offset+2*time.Second, strategyLabel(prevWin, prevSide == side), rewarded, trial, phase)
			}

			prevSide, prevWin = side, win
			offset += g.config.TrialInterval
			pCorrect += g.config.LearningRate
			if pCorrect > 0.95 {
				pCorrect = 0.95
			}
		}
		rewarded = opposite(rewarded)
	}
	return b.Table()
}

func strategyLabel(prevWin, stayed bool) string {
	switch {
	case prevWin && stayed:
		return "WinStay"
	case prevWin:
		return "WinShift"
	case stayed:
		return "LoseStay"
	default:
		return "LoseShift"
	}
}

func opposite(side string) string {
	if side == "left" {
		return "right"
	}
	return "left"
}

func titleCase(side string) string {
	if side == "" {
		return side
	}
	return strings.ToUpper(side[:1]) + side[1:]
}
