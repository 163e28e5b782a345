package resume

// Section is one scored resume category: a trigger term plus the keywords that
// earn quality points once the trigger is present.
type Section struct {
	Name     string
	Keywords []string
}

// Sections are evaluated in this order; suggestion order follows it.
var Sections = []Section{
	{Name: "education", Keywords: []string{"degree", "university", "college", "gpa", "graduation"}},
	{Name: "experience", Keywords: []string{"work", "job", "employment", "position", "role"}},
	{Name: "skills", Keywords: []string{"technical", "programming", "software", "tools", "languages"}},
	{Name: "projects", Keywords: []string{"project", "development", "implementation", "created", "built"}},
	{Name: "achievements", Keywords: []string{"achieved", "award", "recognition", "certified", "completed"}},
}

// MetricMarkers signal quantified results anywhere in the document.
var MetricMarkers = []string{"%", "$", "increased", "improved"}

// ActionVerbs are counted by occurrence, not presence.
var ActionVerbs = []string{"developed", "implemented", "created", "managed", "led", "increased", "improved", "achieved"}

// TechSkills are counted by presence.
var TechSkills = []string{"python", "java", "javascript", "react", "node", "sql", "aws", "docker", "kubernetes"}

// ParagraphBreak is the blank-line separator used by the formatting check.
const ParagraphBreak = "\n\n"

const (
	SectionFound      = 10
	KeywordPoints     = 2
	MetricBonus       = 5
	QualityCap        = 50
	FormattingBonus   = 5
	ActionVerbBonus   = 5
	TechSkillBonus    = 5
	MinParagraphs     = 5
	MinActionVerbs    = 5
	MinTechSkills     = 3
	LowScoreThreshold = 60
	MaxScore          = 100
	MinScore          = 0
)

const (
	SuggestFormatting  = "Improve formatting with clear section breaks"
	SuggestActionVerbs = "Use more action verbs to describe your achievements"
	SuggestTechSkills  = "Add more technical skills relevant to your field"
	SuggestDuration    = "Add duration for your work experience"
	SuggestGPA         = "Include your GPA if it's above 3.0"
	SuggestRepoLinks   = "Add links to your project repositories"
)

// TargetedRule fires its suggestion when Trigger is present and Missing is not.
type TargetedRule struct {
	Trigger    string
	Missing    string
	Suggestion string
}

var TargetedRules = []TargetedRule{
	{Trigger: "experience", Missing: "years", Suggestion: SuggestDuration},
	{Trigger: "education", Missing: "gpa", Suggestion: SuggestGPA},
	{Trigger: "project", Missing: "github", Suggestion: SuggestRepoLinks},
}

// LowScoreSuggestions are appended when the final score is below LowScoreThreshold.
var LowScoreSuggestions = []string{
	"Add more specific details about your achievements",
	"Include relevant certifications and training",
	"Quantify your achievements with numbers and metrics",
}

// MissingSectionSuggestion uses one template for every section, no pluralisation.
func MissingSectionSuggestion(section string) string {
	return "Add a " + section + " section"
}
