package tracks

// MilestoneCount is the number of milestone descriptors every track defines.
const MilestoneCount = 5

// MilestoneDescriptor describes what attaining one milestone on a track looks like.
type MilestoneDescriptor struct {
	Summary  string   `json:"summary" yaml:"summary"`
	Signals  []string `json:"signals,omitempty" yaml:"signals,omitempty"`
	Examples []string `json:"examples,omitempty" yaml:"examples,omitempty"`
}

// Track is a named competency axis with five ordered milestones.
type Track struct {
	ID          string                              `json:"id"`
	DisplayName string                              `json:"displayName"`
	Category    string                              `json:"category"`
	Description string                              `json:"description,omitempty"`
	Milestones  [MilestoneCount]MilestoneDescriptor `json:"milestones"`
}

// Milestone returns the descriptor for a 1-based milestone level.
// Level 0 ("not started") and out-of-range levels report false.
func (t Track) Milestone(level int) (MilestoneDescriptor, bool) {
	if level < 1 || level > MilestoneCount {
		return MilestoneDescriptor{}, false
	}
	return t.Milestones[level-1], true
}

// trackFile is the on-disk shape of a single track inside a catalog file.
type trackFile struct {
	ID          string                `json:"id" yaml:"id"`
	DisplayName string                `json:"displayName" yaml:"displayName"`
	Category    string                `json:"category" yaml:"category"`
	Description string                `json:"description" yaml:"description"`
	Milestones  []MilestoneDescriptor `json:"milestones" yaml:"milestones"`
}

// catalogFile is the on-disk shape of a team catalog (JSON or YAML).
// Tracks are a list so that the source order is preserved.
type catalogFile struct {
	Team   string      `json:"team" yaml:"team"`
	Tracks []trackFile `json:"tracks" yaml:"tracks"`
}
