package engine

import "avatarquest/internal/storage"

// LevelForXP is the global leveling curve: max(1, floor(xp / 100)).
func LevelForXP(xp int) int {
	return storage.LevelForXP(xp)
}

// XPRequiredForLevel returns the XP threshold at which level is reached.
// Level 1 requires 0 XP.
func XPRequiredForLevel(level int) int {
	if level <= 1 {
		return 0
	}
	return level * storage.XPPerLevel
}

// XPToNextLevel returns the XP still missing before the next level.
func XPToNextLevel(xp int) int {
	next := XPRequiredForLevel(LevelForXP(xp) + 1)
	if next < xp {
		return 0
	}
	return next - xp
}

// Reaction returns the avatar mood and animation for a completion.
func Reaction(leveledUp bool) (storage.Mood, storage.Animation) {
	if leveledUp {
		return storage.MoodExcited, storage.AnimationCelebrate
	}
	return storage.MoodHappy, storage.AnimationHappyBounce
}
