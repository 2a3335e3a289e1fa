package domain

// LifeStage tags the household's phase, keyed on the age of the first child.
type LifeStage string

const (
	StageYoungChild LifeStage = "young_child"
	StageElementary LifeStage = "elementary"
	StageJuniorHigh LifeStage = "junior_high"
	StageHighSchool LifeStage = "high_school"
	StageUniversity LifeStage = "university"
	StageEmptyNest  LifeStage = "empty_nest"
)

// LifeStages lists every stage in chronological order.
var LifeStages = []LifeStage{
	StageYoungChild,
	StageElementary,
	StageJuniorHigh,
	StageHighSchool,
	StageUniversity,
	StageEmptyNest,
}

// LifeStageForAge maps a child's age in years to the household stage.
func LifeStageForAge(age float64) LifeStage {
	switch {
	case age < 6:
		return StageYoungChild
	case age < 12:
		return StageElementary
	case age < 15:
		return StageJuniorHigh
	case age < 18:
		return StageHighSchool
	case age < 22:
		return StageUniversity
	default:
		return StageEmptyNest
	}
}

// Valid reports whether s is one of the known stages.
func (s LifeStage) Valid() bool {
	for _, stage := range LifeStages {
		if s == stage {
			return true
		}
	}
	return false
}
