package services

import (
	"fmt"
	"strings"
)

const (
	jobMatchSystemMessage = "You are an expert HR analyst specializing in resume-job matching."
	atsSystemMessage      = "You are an ATS expert. Return only valid JSON, no other text."
)

type PromptBuilder struct{}

func NewPromptBuilder() *PromptBuilder {
	return &PromptBuilder{}
}

// BuildExtractionPrompt returns the system instruction for resume parsing.
// The resume text itself goes in a separate user message.
func (pb *PromptBuilder) BuildExtractionPrompt() string {
	return `You are an AI bot designed to act as a professional for parsing resumes. Extract ALL available information from the resume and return it in the following JSON format.

IMPORTANT: Return ONLY valid JSON. No explanatory text before or after.

{
  "full_name": "string",
  "email": "string",
  "phone": "string",
  "location": "string",
  "linkedin_url": "string",
  "github_url": "string",
  "portfolio_url": "string",
  "summary": "string",
  "education": [
    {"degree": "string", "institution": "string", "graduation_year": "string", "gpa": "string", "relevant_coursework": "string"}
  ],
  "work_experience": [
    {"company_name": "string", "job_title": "string", "start_date": "string", "end_date": "string", "responsibilities": ["string"], "achievements": ["string"]}
  ],
  "projects": [
    {"project_name": "string", "description": "string", "technologies_used": ["string"], "link": "string", "duration": "string"}
  ],
  "leadership_roles": [
    {"role_title": "string", "organization": "string", "duration": "string", "responsibilities": ["string"]}
  ],
  "volunteering_experience": [
    {"organization": "string", "role": "string", "duration": "string", "activities": ["string"]}
  ],
  "technical_skills": {
    "programming_languages": ["string"],
    "frameworks": ["string"],
    "tools": ["string"],
    "databases": ["string"],
    "cloud_platforms": ["string"],
    "other_technical_skills": ["string"]
  },
  "soft_skills": ["string"],
  "certifications": [
    {"certification_name": "string", "issuing_organization": "string", "date_obtained": "string"}
  ],
  "awards_and_achievements": [
    {"award_name": "string", "issuing_organization": "string", "date": "string", "description": "string"}
  ],
  "languages": [
    {"language_name": "string", "proficiency_level": "string"}
  ],
  "publications": [
    {"title": "string", "publication_venue": "string", "date": "string", "co_authors": "string"}
  ]
}

Extract as much detail as possible from the resume. Every field above must be present in your answer. If information is not available for a field, use empty string "" for strings or empty array [] for arrays.`
}

// BuildJobMatchPrompt compares a resume excerpt and known skills against a
// job description.
func (pb *PromptBuilder) BuildJobMatchPrompt(resumeExcerpt string, skills []string, jobDescription string) string {
	skillLine := "none listed"
	if len(skills) > 0 {
		skillLine = strings.Join(skills, ", ")
	}

	return fmt.Sprintf(`Analyze how well this resume matches the job description and provide a detailed assessment.

RESUME DATA:
%s

SKILLS ALREADY PARSED FROM THE RESUME:
%s

JOB DESCRIPTION:
%s

Provide a comprehensive analysis in the following JSON format:

{
  "overall_match_score": <number 0-100>,
  "category_scores": {
    "skills_match": <number 0-100>,
    "experience_match": <number 0-100>,
    "education_match": <number 0-100>,
    "keyword_match": <number 0-100>
  },
  "matching_skills": ["skill1", "skill2"],
  "missing_skills": ["skill1", "skill2"],
  "matching_keywords": ["keyword1", "keyword2"],
  "missing_keywords": ["keyword1", "keyword2"],
  "strengths": ["strength1", "strength2"],
  "recommendations": ["recommendation1", "recommendation2"],
  "summary": "Brief summary of the match"
}

Be specific and actionable in your recommendations.`, resumeExcerpt, skillLine, jobDescription)
}

// BuildATSPrompt scores a resume against seven weighted ATS criteria.
// guidance is optional reference material and may be empty.
func (pb *PromptBuilder) BuildATSPrompt(resumeText, parsedJSON, guidance string) string {
	var reference string
	if strings.TrimSpace(guidance) != "" {
		reference = fmt.Sprintf("\nATS REFERENCE GUIDANCE:\n%s\n", guidance)
	}

	return fmt.Sprintf(`You are an expert ATS (Applicant Tracking System) analyzer. Evaluate this resume and provide a comprehensive ATS compatibility score.

Resume Data:
%s

Parsed Information:
%s
%s
Analyze the resume based on these ATS criteria and provide scores (0-100) for each:

1. Contact Information Completeness (10%%): Are name, email, phone, location provided?
2. Keyword Density (25%%): Does it have relevant industry keywords, skills, and job-related terms?
3. Format Compatibility (15%%): Is the structure clean, parseable, no complex formatting?
4. Section Organization (15%%): Are standard sections present (Experience, Education, Skills)?
5. Experience Quantification (15%%): Are achievements quantified with metrics and numbers?
6. Education Details (10%%): Is education information complete (degree, institution, year)?
7. Skills Presence (10%%): Are technical and soft skills clearly listed?

Return your analysis in this EXACT JSON format (no additional text):
{
  "overall_ats_score": <number 0-100>,
  "category_scores": {
    "contact_info": <number 0-100>,
    "keyword_density": <number 0-100>,
    "format_compatibility": <number 0-100>,
    "section_organization": <number 0-100>,
    "experience_quantification": <number 0-100>,
    "education_details": <number 0-100>,
    "skills_presence": <number 0-100>
  },
  "strengths": ["3-5 specific strengths that make this resume ATS-friendly"],
  "weaknesses": ["3-5 specific weaknesses that hurt ATS compatibility"],
  "improvement_suggestions": ["5-7 specific, actionable suggestions to improve the ATS score"],
  "keyword_analysis": {
    "present_keywords": ["10-15 important keywords found in the resume"],
    "missing_keywords": ["10-15 common industry keywords that should be added"]
  },
  "format_issues": ["formatting issues such as tables, images, columns or special characters"],
  "summary": "2-3 sentence overall assessment of ATS readiness"
}`, resumeText, parsedJSON, reference)
}

// FormatGuidance joins retrieved guidance chunks for the ATS prompt.
func FormatGuidance(results []SearchResult) string {
	if len(results) == 0 {
		return ""
	}

	var parts []string
	for i, result := range results {
		parts = append(parts, fmt.Sprintf("--- Guidance %d (Score: %.2f) ---\n%s",
			i+1, result.Score, strings.TrimSpace(result.Text)))
	}

	return strings.Join(parts, "\n\n")
}
