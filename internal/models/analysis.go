package models

// JobMatchResult compares a resume against one job description.
type JobMatchResult struct {
	OverallMatchScore float64            `json:"overall_match_score"`
	CategoryScores    JobMatchCategories `json:"category_scores"`
	MatchingSkills    []string           `json:"matching_skills"`
	MissingSkills     []string           `json:"missing_skills"`
	MatchingKeywords  []string           `json:"matching_keywords"`
	MissingKeywords   []string           `json:"missing_keywords"`
	Strengths         []string           `json:"strengths"`
	Recommendations   []string           `json:"recommendations"`
	Summary           string             `json:"summary"`
}

type JobMatchCategories struct {
	SkillsMatch     float64 `json:"skills_match"`
	ExperienceMatch float64 `json:"experience_match"`
	EducationMatch  float64 `json:"education_match"`
	KeywordMatch    float64 `json:"keyword_match"`
}

func (m *JobMatchResult) Normalize() {
	m.MatchingSkills = nonNil(m.MatchingSkills)
	m.MissingSkills = nonNil(m.MissingSkills)
	m.MatchingKeywords = nonNil(m.MatchingKeywords)
	m.MissingKeywords = nonNil(m.MissingKeywords)
	m.Strengths = nonNil(m.Strengths)
	m.Recommendations = nonNil(m.Recommendations)
}

// DefaultATSScore is used when the model omits overall_ats_score.
const DefaultATSScore = 70

// ATSScoreResult rates how well a resume survives applicant tracking
// systems. Category weights are 10/25/15/15/15/10/10 in field order.
type ATSScoreResult struct {
	OverallATSScore        float64         `json:"overall_ats_score"`
	CategoryScores         ATSCategories   `json:"category_scores"`
	Strengths              []string        `json:"strengths"`
	Weaknesses             []string        `json:"weaknesses"`
	ImprovementSuggestions []string        `json:"improvement_suggestions"`
	KeywordAnalysis        KeywordAnalysis `json:"keyword_analysis"`
	FormatIssues           []string        `json:"format_issues"`
	Summary                string          `json:"summary"`
}

type ATSCategories struct {
	ContactInfo              float64 `json:"contact_info"`
	KeywordDensity           float64 `json:"keyword_density"`
	FormatCompatibility      float64 `json:"format_compatibility"`
	SectionOrganization      float64 `json:"section_organization"`
	ExperienceQuantification float64 `json:"experience_quantification"`
	EducationDetails         float64 `json:"education_details"`
	SkillsPresence           float64 `json:"skills_presence"`
}

type KeywordAnalysis struct {
	PresentKeywords []string `json:"present_keywords"`
	MissingKeywords []string `json:"missing_keywords"`
}

func (a *ATSScoreResult) Normalize() {
	a.Strengths = nonNil(a.Strengths)
	a.Weaknesses = nonNil(a.Weaknesses)
	a.ImprovementSuggestions = nonNil(a.ImprovementSuggestions)
	a.KeywordAnalysis.PresentKeywords = nonNil(a.KeywordAnalysis.PresentKeywords)
	a.KeywordAnalysis.MissingKeywords = nonNil(a.KeywordAnalysis.MissingKeywords)
	a.FormatIssues = nonNil(a.FormatIssues)
}

// AnalysisResult is everything produced for one resume.
// JobMatch is nil when no job description was supplied.
type AnalysisResult struct {
	ParsedResume *ParsedResume            `json:"parsed_resume"`
	JobMatch     *Outcome[JobMatchResult] `json:"job_match"`
	ATSScore     *Outcome[ATSScoreResult] `json:"ats_score"`
}

// ProcessResponse is the body returned for an uploaded resume.
type ProcessResponse struct {
	Filename string `json:"filename"`
	*AnalysisResult
}
