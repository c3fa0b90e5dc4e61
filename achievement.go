package main

// AchievementDef describes one unlockable achievement
type AchievementDef struct {
	ID          string
	Name        string
	Description string
}

var Achievements = []AchievementDef{
	{"first_kill", "First Kill", "Destroy your first enemy tank"},
	{"centurion", "Centurion", "Destroy 100 enemy tanks"},
	{"ace", "Tank Ace", "Destroy 10 enemies in a single match"},
	{"rambo", "Battering Ram", "Destroy 25 enemies by ramming"},
	{"scavenger", "Scavenger", "Collect 50 power-ups"},
	{"high_roller", "High Roller", "Score 2000 in a single match"},
	{"survivor", "Survivor", "Play for an hour total"},
	{"regular", "Regular", "Finish 25 matches"},
}

// CheckAchievements returns the achievements newly unlocked by a
// finished match, persisting each unlock.
func CheckAchievements(db *DB, commanderID int64, matchScore, matchKills int) []AchievementDef {
	if db == nil {
		return nil
	}

	stats, err := db.GetStats(commanderID)
	if err != nil || stats == nil {
		return nil
	}

	existing, err := db.GetAchievements(commanderID)
	if err != nil {
		return nil
	}
	has := make(map[string]bool, len(existing))
	for _, a := range existing {
		has[a] = true
	}

	check := func(id string) bool {
		if has[id] {
			return false
		}
		switch id {
		case "first_kill":
			return stats.Kills >= 1
		case "centurion":
			return stats.Kills >= 100
		case "ace":
			return matchKills >= 10
		case "rambo":
			return stats.Rams >= 25
		case "scavenger":
			return stats.PowerUps >= 50
		case "high_roller":
			return matchScore >= 2000
		case "survivor":
			return stats.Playtime >= 3600
		case "regular":
			return stats.Matches >= 25
		}
		return false
	}

	var unlocked []AchievementDef
	for _, def := range Achievements {
		if check(def.ID) {
			if isNew, err := db.UnlockAchievement(commanderID, def.ID); err == nil && isNew {
				unlocked = append(unlocked, def)
			}
		}
	}
	return unlocked
}
