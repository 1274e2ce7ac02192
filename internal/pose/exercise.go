package pose

import "strings"

type Exercise string

const (
	Squat        Exercise = "Squat"
	PushUp       Exercise = "PushUp"
	JumpingJacks Exercise = "JumpingJacks"
	ArmCircles   Exercise = "ArmCircles"
)

// display order on the page
var exercises = []Exercise{Squat, PushUp, JumpingJacks, ArmCircles}

// Exercises returns all known exercises, in display order.
func Exercises() []Exercise {
	all := make([]Exercise, len(exercises))
	copy(all, exercises)
	return all
}

// ParseExercise resolves an exercise identifier case-insensitively.
func ParseExercise(name string) (Exercise, bool) {
	for _, e := range exercises {
		if strings.EqualFold(string(e), name) {
			return e, true
		}
	}
	return Exercise(name), false
}

// Known reports whether e has an entry in the motion table.
func (e Exercise) Known() bool {
	_, ok := motions[e]
	return ok
}

// Slug is used for DOM ids and URLs.
func (e Exercise) Slug() string {
	return strings.ToLower(string(e))
}

func (e Exercise) String() string {
	return string(e)
}
