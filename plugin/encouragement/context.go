package encouragement

import (
	"time"
)

const (
	highProgressThreshold = 80
	lowProgressThreshold  = 30
	nearGoalThreshold     = 90
	streakThreshold       = 3
)

// TimeOfDay classifies an hour: [6,12) morning, [12,18) afternoon, anything
// else (night included) evening.
func TimeOfDay(hour int) Context {
	switch {
	case hour >= 6 && hour < 12:
		return ContextMorning
	case hour >= 12 && hour < 18:
		return ContextAfternoon
	default:
		return ContextEvening
	}
}

// TimeOfDayAt classifies the local hour of t.
func TimeOfDayAt(t time.Time) Context {
	return TimeOfDay(t.Hour())
}

// ClassifyContext returns the situational tags of a study state, in
// evaluation order. timeOfDay is appended first when non-empty.
func ClassifyContext(completionRate, totalTasks, completedTasks int, hasGoal bool, timeOfDay Context) []Context {
	contexts := []Context{}
	if timeOfDay != "" {
		contexts = append(contexts, timeOfDay)
	}

	if completionRate >= highProgressThreshold {
		contexts = append(contexts, ContextHighProgress)
	} else if completionRate <= lowProgressThreshold {
		contexts = append(contexts, ContextLowProgress)
	}

	if completedTasks == 1 {
		contexts = append(contexts, ContextFirstTask)
	}
	if completedTasks >= streakThreshold {
		contexts = append(contexts, ContextStreak)
	}

	if hasGoal && completionRate >= nearGoalThreshold {
		contexts = append(contexts, ContextNearGoal)
	}
	return contexts
}
