package services

// Scoring constants. The streak bonus is earned from the first correct
// answer onward: a player on streak n receives n multiplier units, so even
// streak 1 pays out. That is a deliberate policy choice, recorded in
// DESIGN.md.
const (
	BasePoints       = 1000
	TimeBonusCap     = 500
	TimeBonusDivisor = 40
	StreakMultiplier = 100
)

type ScoringService struct{}

func NewScoringService() *ScoringService {
	return &ScoringService{}
}

// Score computes the points awarded for one answer and the player's new
// streak. It is a pure function: no clock reads, no randomness, identical
// inputs always produce identical outputs.
func (s *ScoringService) Score(isCorrect bool, elapsedMs int64, priorStreak int) (points, newStreak int) {
	if !isCorrect {
		return 0, 0
	}

	newStreak = priorStreak + 1

	timeBonus := TimeBonusCap - int(elapsedMs/TimeBonusDivisor)
	if timeBonus < 0 {
		timeBonus = 0
	}

	points = BasePoints + timeBonus + newStreak*StreakMultiplier
	return points, newStreak
}
