package types

import (
	"time"

	"github.com/google/uuid"
)

type Gender string

const (
	GenderMale   Gender = "male"
	GenderFemale Gender = "female"
	GenderOther  Gender = "other"
)

type ActivityLevel string

const (
	ActivitySedentary  ActivityLevel = "sedentary"
	ActivityLight      ActivityLevel = "light"
	ActivityModerate   ActivityLevel = "moderate"
	ActivityActive     ActivityLevel = "active"
	ActivityVeryActive ActivityLevel = "very_active"
)

// DefaultDailyCalorieGoal is applied when a profile is saved without one.
const DefaultDailyCalorieGoal = 2000

// Profile holds the anthropometric data for one user. One row per user,
// created on first save and mutated only by its owner.
type Profile struct {
	UserID           uuid.UUID      `json:"user_id"`
	Height           *float64       `json:"height,omitempty"` // cm
	Weight           *float64       `json:"weight,omitempty"` // kg
	Age              *int           `json:"age,omitempty"`
	Gender           *Gender        `json:"gender,omitempty"`
	ActivityLevel    *ActivityLevel `json:"activity_level,omitempty"`
	DailyCalorieGoal int            `json:"daily_calorie_goal"`
	CreatedAt        time.Time      `json:"created_at"`
	UpdatedAt        time.Time      `json:"updated_at"`
}

// HasMinimum reports whether the profile carries the fields the advisor
// requires before a message may be sent.
func (p *Profile) HasMinimum() bool {
	return p != nil && p.Height != nil && p.Weight != nil
}

// Goal holds one user's fitness target. Same lifecycle as Profile.
type Goal struct {
	UserID            uuid.UUID  `json:"user_id"`
	TargetWeight      *float64   `json:"target_weight,omitempty"` // kg
	TargetDate        *time.Time `json:"target_date,omitempty"`
	WeeklyWorkoutDays int        `json:"weekly_workout_days"`
	CreatedAt         time.Time  `json:"created_at"`
	UpdatedAt         time.Time  `json:"updated_at"`
}

// DefaultWeeklyWorkoutDays is applied when a goal is saved without one.
const DefaultWeeklyWorkoutDays = 3

// UpsertProfileParams is the write shape for PUT /user/profile. Pointers
// distinguish "absent" from zero values.
type UpsertProfileParams struct {
	Height           *float64       `json:"height,omitempty"`
	Weight           *float64       `json:"weight,omitempty"`
	Age              *int           `json:"age,omitempty"`
	Gender           *Gender        `json:"gender,omitempty"`
	ActivityLevel    *ActivityLevel `json:"activity_level,omitempty"`
	DailyCalorieGoal *int           `json:"daily_calorie_goal,omitempty"`

	TargetWeight      *float64 `json:"target_weight,omitempty"`
	TargetDate        *string  `json:"target_date,omitempty"` // ISO calendar date (2006-01-02)
	WeeklyWorkoutDays *int     `json:"weekly_workout_days,omitempty"`
}

// ProfileWithGoal is the read shape for GET /user/profile.
type ProfileWithGoal struct {
	Profile *Profile `json:"profile,omitempty"`
	Goal    *Goal    `json:"goal,omitempty"`
}
