package core

// Skill is a capability tag used to match plan steps against the workers
// that declare a strength in that area.
type Skill string

const (
	// SkillAnalyze covers breaking a problem into parts and inspecting data.
	SkillAnalyze Skill = "analyze"
	// SkillReason covers multi-step logical reasoning.
	SkillReason Skill = "reason"
	// SkillSummarize covers condensing text.
	SkillSummarize Skill = "summarize"
	// SkillCode covers writing or reviewing source code.
	SkillCode Skill = "code"
	// SkillMath covers numeric and symbolic computation.
	SkillMath Skill = "math"
	// SkillPlan covers decomposing a task into an ordered plan.
	SkillPlan Skill = "plan"
)

// AllSkills lists every known skill, in declaration order.
func AllSkills() []Skill {
	return []Skill{SkillAnalyze, SkillReason, SkillSummarize, SkillCode, SkillMath, SkillPlan}
}

// Valid returns true if the skill is a known value.
func (s Skill) Valid() bool {
	switch s {
	case SkillAnalyze, SkillReason, SkillSummarize, SkillCode, SkillMath, SkillPlan:
		return true
	default:
		return false
	}
}

// String returns the string representation of the skill.
func (s Skill) String() string { return string(s) }
