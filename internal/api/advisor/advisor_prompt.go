package advisor

import (
	"fmt"
	"strings"

	"github.com/uhhbai/nutriSnap/internal/types"
)

const (
	advisorIntro   = "You are a helpful nutrition and fitness advisor. "
	advisorFraming = " Provide personalized diet and workout advice. Keep responses concise and actionable."
)

// BuildSystemPrompt assembles the advisor's system message from the user's
// saved profile and goal. Clause order is fixed so the prompt is stable
// across requests for an unchanged profile.
func BuildSystemPrompt(p *types.Profile, g *types.Goal) string {
	var b strings.Builder
	b.WriteString(advisorIntro)

	if p != nil {
		b.WriteString("User profile: ")
		if p.Height != nil {
			fmt.Fprintf(&b, "Height: %gcm, ", *p.Height)
		}
		if p.Weight != nil {
			fmt.Fprintf(&b, "Weight: %gkg, ", *p.Weight)
		}
		if p.Age != nil {
			fmt.Fprintf(&b, "Age: %d, ", *p.Age)
		}
		if p.Gender != nil {
			fmt.Fprintf(&b, "Gender: %s, ", *p.Gender)
		}
		if p.ActivityLevel != nil {
			fmt.Fprintf(&b, "Activity level: %s, ", *p.ActivityLevel)
		}
		if p.DailyCalorieGoal > 0 {
			fmt.Fprintf(&b, "Daily calorie goal: %d kcal, ", p.DailyCalorieGoal)
		}
		if g != nil && g.WeeklyWorkoutDays > 0 {
			fmt.Fprintf(&b, "Weekly workout days: %d days/week", g.WeeklyWorkoutDays)
		}
	}

	b.WriteString(advisorFraming)
	return b.String()
}
