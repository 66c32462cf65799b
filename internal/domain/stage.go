package domain

// Stage is a position on the mastery ladder. Stages advance one step per
// successful review and regress on failure; Burned is terminal.
type Stage int

// The mastery ladder, in ascending order.
const (
	StageApprenticeI Stage = iota
	StageApprenticeII
	StageApprenticeIII
	StageApprenticeIV
	StageGuruI
	StageGuruII
	StageMaster
	StageEnlightened
	StageBurned
)

// StageLearned is the threshold at which an item counts as "learned"
// for statistics and achievement purposes.
const StageLearned = StageGuruI

var stageNames = map[Stage]string{
	StageApprenticeI:   "apprentice_1",
	StageApprenticeII:  "apprentice_2",
	StageApprenticeIII: "apprentice_3",
	StageApprenticeIV:  "apprentice_4",
	StageGuruI:         "guru_1",
	StageGuruII:        "guru_2",
	StageMaster:        "master",
	StageEnlightened:   "enlightened",
	StageBurned:        "burned",
}

// String returns the stable wire name of the stage.
func (s Stage) String() string {
	if name, ok := stageNames[s]; ok {
		return name
	}
	return "unknown"
}

// IsValid reports whether the stage is within the ladder.
func (s Stage) IsValid() bool {
	return s >= StageApprenticeI && s <= StageBurned
}

// IsTerminal reports whether the stage is the end of the ladder.
// Items at the terminal stage are retired from the review queue.
func (s Stage) IsTerminal() bool {
	return s == StageBurned
}

// IsLearned reports whether the stage meets the "learned" threshold.
func (s Stage) IsLearned() bool {
	return s >= StageLearned
}
