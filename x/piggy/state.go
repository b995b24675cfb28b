package piggy

import (
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/iov-one/piggybank"
	"github.com/iov-one/piggybank/coin"
)

const (
	// ReasonGoalNotMet is given when the balance is below the goal.
	ReasonGoalNotMet = "Savings goal not met."
	// ReasonLocked is given when the unlock time was not reached.
	ReasonLocked = "Unlock date not reached."
)

const dayMs = 24 * 60 * 60 * 1000

// Milestone is a badge displayed next to the saving progress.
type Milestone string

const (
	MilestoneStarted  Milestone = "started"
	MilestoneHalfway  Milestone = "halfway"
	MilestoneAlmost   Milestone = "almost there"
	MilestoneAchieved Milestone = "goal achieved"
)

// State is computed from the savings object fields and the current time. It
// tells what can be displayed and whether the object can be broken open.
type State struct {
	Balance  coin.Mist
	Goal     coin.Mist
	UnlockAt piggybank.UnixMilli

	// ProgressRatio is the balance to goal ratio, capped at 1. It is
	// zero and ProgressDefined is false when the goal is zero.
	ProgressRatio   float64
	ProgressDefined bool

	IsUnlocked bool
	CanClose   bool
	// DaysRemaining is the number of started days until the unlock time.
	// It is zero or negative once unlocked.
	DaysRemaining int64
	// BreakReason explains why the object cannot be broken open. Empty
	// when CanClose is true.
	BreakReason string
	Milestone   Milestone
}

// Derive computes the state of a savings object at given time. Amounts that
// cannot be parsed are treated as zero. An unlock time that cannot be parsed
// or does not fit in int64 is treated as never reached, so such an object
// stays locked.
func Derive(f Fields, now time.Time) State {
	s := State{
		Balance:  parseMist(f.Balance),
		Goal:     parseMist(f.GoalAmount),
		UnlockAt: parseMilli(f.UnlockTimestampMs),
	}
	nowMs := piggybank.AsUnixMilli(now)

	if s.Goal > 0 {
		s.ProgressDefined = true
		s.ProgressRatio = math.Min(float64(s.Balance)/float64(s.Goal), 1)
	}

	s.IsUnlocked = nowMs >= s.UnlockAt
	goalMet := s.Balance >= s.Goal
	s.CanClose = goalMet && s.IsUnlocked
	s.DaysRemaining = ceilDiv(int64(s.UnlockAt-nowMs), dayMs)

	switch {
	case !goalMet:
		s.BreakReason = ReasonGoalNotMet
	case !s.IsUnlocked:
		s.BreakReason = ReasonLocked
	}

	s.Milestone = milestone(s.ProgressPercent())
	return s
}

// ProgressPercent returns the progress as a percentage in [0, 100].
func (s State) ProgressPercent() float64 {
	return s.ProgressRatio * 100
}

func milestone(percent float64) Milestone {
	switch {
	case percent >= 100:
		return MilestoneAchieved
	case percent >= 75:
		return MilestoneAlmost
	case percent >= 50:
		return MilestoneHalfway
	default:
		return MilestoneStarted
	}
}

// ceilDiv returns a/b rounded towards positive infinity. b must be positive.
func ceilDiv(a, b int64) int64 {
	q := a / b
	if a%b > 0 {
		q++
	}
	return q
}

func parseMist(raw string) coin.Mist {
	n, err := strconv.ParseUint(strings.TrimSpace(raw), 10, 64)
	if err != nil {
		return 0
	}
	return coin.Mist(n)
}

// parseMilli reads an u64 millisecond timestamp. Values above the int64
// range saturate.
func parseMilli(raw string) piggybank.UnixMilli {
	n, err := strconv.ParseUint(strings.TrimSpace(raw), 10, 64)
	if err != nil || n > math.MaxInt64 {
		return math.MaxInt64
	}
	return piggybank.UnixMilli(n)
}
