package models

// ParsedResume is the structured form of one resume. Every field is always
// serialized: absent data is "" or an empty list, never null or missing.
type ParsedResume struct {
	FullName     string `json:"full_name"`
	Email        string `json:"email"`
	Phone        string `json:"phone"`
	Location     string `json:"location"`
	LinkedInURL  string `json:"linkedin_url"`
	GitHubURL    string `json:"github_url"`
	PortfolioURL string `json:"portfolio_url"`
	Summary      string `json:"summary"`

	Education              []Education      `json:"education"`
	WorkExperience         []WorkExperience `json:"work_experience"`
	Projects               []Project        `json:"projects"`
	LeadershipRoles        []LeadershipRole `json:"leadership_roles"`
	VolunteeringExperience []Volunteering   `json:"volunteering_experience"`
	TechnicalSkills        TechnicalSkills  `json:"technical_skills"`
	SoftSkills             []string         `json:"soft_skills"`
	Certifications         []Certification  `json:"certifications"`
	AwardsAndAchievements  []Award          `json:"awards_and_achievements"`
	Languages              []Language       `json:"languages"`
	Publications           []Publication    `json:"publications"`
}

type Education struct {
	Degree             string `json:"degree"`
	Institution        string `json:"institution"`
	GraduationYear     string `json:"graduation_year"`
	GPA                string `json:"gpa"`
	RelevantCoursework string `json:"relevant_coursework"`
}

type WorkExperience struct {
	CompanyName      string   `json:"company_name"`
	JobTitle         string   `json:"job_title"`
	StartDate        string   `json:"start_date"`
	EndDate          string   `json:"end_date"`
	Responsibilities []string `json:"responsibilities"`
	Achievements     []string `json:"achievements"`
}

type Project struct {
	ProjectName      string   `json:"project_name"`
	Description      string   `json:"description"`
	TechnologiesUsed []string `json:"technologies_used"`
	Link             string   `json:"link"`
	Duration         string   `json:"duration"`
}

type LeadershipRole struct {
	RoleTitle        string   `json:"role_title"`
	Organization     string   `json:"organization"`
	Duration         string   `json:"duration"`
	Responsibilities []string `json:"responsibilities"`
}

type Volunteering struct {
	Organization string   `json:"organization"`
	Role         string   `json:"role"`
	Duration     string   `json:"duration"`
	Activities   []string `json:"activities"`
}

type TechnicalSkills struct {
	ProgrammingLanguages []string `json:"programming_languages"`
	Frameworks           []string `json:"frameworks"`
	Tools                []string `json:"tools"`
	Databases            []string `json:"databases"`
	CloudPlatforms       []string `json:"cloud_platforms"`
	OtherTechnicalSkills []string `json:"other_technical_skills"`
}

type Certification struct {
	CertificationName   string `json:"certification_name"`
	IssuingOrganization string `json:"issuing_organization"`
	DateObtained        string `json:"date_obtained"`
}

type Award struct {
	AwardName           string `json:"award_name"`
	IssuingOrganization string `json:"issuing_organization"`
	Date                string `json:"date"`
	Description         string `json:"description"`
}

type Language struct {
	LanguageName     string `json:"language_name"`
	ProficiencyLevel string `json:"proficiency_level"`
}

type Publication struct {
	Title            string `json:"title"`
	PublicationVenue string `json:"publication_venue"`
	Date             string `json:"date"`
	CoAuthors        string `json:"co_authors"`
}

// Normalize replaces nil slices with empty ones, recursively.
func (r *ParsedResume) Normalize() {
	r.Education = nonNil(r.Education)
	r.WorkExperience = nonNil(r.WorkExperience)
	for i := range r.WorkExperience {
		r.WorkExperience[i].Responsibilities = nonNil(r.WorkExperience[i].Responsibilities)
		r.WorkExperience[i].Achievements = nonNil(r.WorkExperience[i].Achievements)
	}
	r.Projects = nonNil(r.Projects)
	for i := range r.Projects {
		r.Projects[i].TechnologiesUsed = nonNil(r.Projects[i].TechnologiesUsed)
	}
	r.LeadershipRoles = nonNil(r.LeadershipRoles)
	for i := range r.LeadershipRoles {
		r.LeadershipRoles[i].Responsibilities = nonNil(r.LeadershipRoles[i].Responsibilities)
	}
	r.VolunteeringExperience = nonNil(r.VolunteeringExperience)
	for i := range r.VolunteeringExperience {
		r.VolunteeringExperience[i].Activities = nonNil(r.VolunteeringExperience[i].Activities)
	}

	ts := &r.TechnicalSkills
	ts.ProgrammingLanguages = nonNil(ts.ProgrammingLanguages)
	ts.Frameworks = nonNil(ts.Frameworks)
	ts.Tools = nonNil(ts.Tools)
	ts.Databases = nonNil(ts.Databases)
	ts.CloudPlatforms = nonNil(ts.CloudPlatforms)
	ts.OtherTechnicalSkills = nonNil(ts.OtherTechnicalSkills)

	r.SoftSkills = nonNil(r.SoftSkills)
	r.Certifications = nonNil(r.Certifications)
	r.AwardsAndAchievements = nonNil(r.AwardsAndAchievements)
	r.Languages = nonNil(r.Languages)
	r.Publications = nonNil(r.Publications)
}

// AllSkills flattens technical and soft skills, in declaration order.
func (r *ParsedResume) AllSkills() []string {
	ts := r.TechnicalSkills
	groups := [][]string{
		ts.ProgrammingLanguages, ts.Frameworks, ts.Tools,
		ts.Databases, ts.CloudPlatforms, ts.OtherTechnicalSkills, r.SoftSkills,
	}

	var out []string
	for _, g := range groups {
		out = append(out, g...)
	}
	return out
}

func nonNil[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}
