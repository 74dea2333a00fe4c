package selahsdk

import "fmt"

// ──────────────────────────────────────────────
// Greeting Generator — situational check-in greetings
// ──────────────────────────────────────────────

// Greeting holds the generated greeting for a check-in or daily card.
type Greeting struct {
	Situation string `json:"situation"` // first_checkin/streak_milestone/long_absence/late_night/daypart
	Text      string `json:"text"`
	Badge     string `json:"badge,omitempty"` // set when a milestone badge was earned
}

// GreetingConfig controls greeting generation behavior.
type GreetingConfig struct {
	LongAbsenceDays int   // days threshold for "long_absence", default 3
	Milestones      []int // streak days that earn a badge, default 3/7/30/100
}

// DefaultGreetingConfig returns production defaults.
func DefaultGreetingConfig() GreetingConfig {
	return GreetingConfig{
		LongAbsenceDays: 3,
		Milestones:      []int{3, 7, 30, 100},
	}
}

var badgeNames = map[int]string{
	3:   "Kindling",
	7:   "Week of Light",
	30:  "Faithful Month",
	100: "Hundredfold",
}

// GreetingGenerator creates greetings based on check-in state.
type GreetingGenerator struct {
	config GreetingConfig
}

// NewGreetingGenerator creates a greeting generator.
func NewGreetingGenerator(config ...GreetingConfig) *GreetingGenerator {
	cfg := DefaultGreetingConfig()
	if len(config) > 0 {
		cfg = config[0]
	}
	if cfg.LongAbsenceDays <= 0 {
		cfg.LongAbsenceDays = 3
	}
	if len(cfg.Milestones) == 0 {
		cfg.Milestones = []int{3, 7, 30, 100}
	}
	return &GreetingGenerator{config: cfg}
}

// Greet produces a greeting for the check-in that just happened.
func (g *GreetingGenerator) Greet(state *CheckinState) *Greeting {
	// Priority order: first_checkin > streak_milestone > long_absence > late_night > daypart
	if state.IsFirstCheckin {
		return &Greeting{
			Situation: "first_checkin",
			Text:      "Welcome. A short verse and a quiet moment, whenever you need one.",
		}
	}

	if badge := g.BadgeForStreak(state.Streak); badge != "" {
		return &Greeting{
			Situation: "streak_milestone",
			Text:      fmt.Sprintf("Day %d in a row. That earns the %s badge.", state.Streak, badge),
			Badge:     badge,
		}
	}

	if state.DaysSinceLast >= g.config.LongAbsenceDays {
		return &Greeting{
			Situation: "long_absence",
			Text:      fmt.Sprintf("Welcome back. It's been %d days, and that's okay.", state.DaysSinceLast),
		}
	}

	if state.Daypart == DaypartNight {
		return &Greeting{
			Situation: "late_night",
			Text:      "Up late? Take one slow breath before you read.",
		}
	}

	text := "Good to see you."
	switch state.Daypart {
	case DaypartMorning:
		text = "Good morning. Here is today's verse."
	case DaypartDay:
		text = "Hope your day is going gently."
	case DaypartEvening:
		text = "Good evening. A moment to slow down."
	}
	return &Greeting{Situation: "daypart", Text: text}
}

// BadgeForStreak returns the badge earned at exactly this streak length, or
// "" when the streak is not a milestone.
func (g *GreetingGenerator) BadgeForStreak(streak int) string {
	for _, m := range g.config.Milestones {
		if streak == m {
			if name, ok := badgeNames[m]; ok {
				return name
			}
			return fmt.Sprintf("%d-Day Streak", m)
		}
	}
	return ""
}
