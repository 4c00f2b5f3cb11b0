package services

import (
	"context"
	"sync"
)

const (
	resumeSnippet = "Jane Doe\njane@example.com | +1 555 0100 | Berlin\nBackend engineer with 6 years building Go services.\nAcme Corp, Senior Engineer, 2019-2024: cut p99 latency 40%.\nBSc Computer Science, TU Berlin, 2018. Skills: Go, PostgreSQL, Kubernetes."

	validResumeJSON = `{
  "full_name": "Jane Doe",
  "email": "jane@example.com",
  "phone": "+1 555 0100",
  "location": "Berlin",
  "summary": "Backend engineer with 6 years building Go services.",
  "education": [{"degree": "BSc Computer Science", "institution": "TU Berlin", "graduation_year": 2018, "gpa": 3.7}],
  "work_experience": [{"company_name": "Acme Corp", "job_title": "Senior Engineer", "start_date": "2019", "end_date": "2024", "achievements": ["Cut p99 latency 40%"]}],
  "technical_skills": {"programming_languages": ["Go"], "databases": ["PostgreSQL"], "tools": "Kubernetes"},
  "soft_skills": ["Mentoring"]
}`

	validMatchJSON = `{
  "overall_match_score": 78,
  "category_scores": {"skills_match": 85, "experience_match": 80, "education_match": 70, "keyword_match": 65},
  "matching_skills": ["Go", "PostgreSQL"],
  "missing_skills": ["Terraform"],
  "matching_keywords": ["backend"],
  "missing_keywords": ["infrastructure as code"],
  "strengths": ["Strong Go background"],
  "recommendations": ["Mention Terraform exposure"],
  "summary": "Good fit for the backend role."
}`

	validATSJSON = `{
  "overall_ats_score": 82,
  "category_scores": {"contact_info": 100, "keyword_density": 70, "format_compatibility": 90, "section_organization": 85, "experience_quantification": 75, "education_details": 80, "skills_presence": 80},
  "strengths": ["Clear sections"],
  "weaknesses": ["Few metrics"],
  "improvement_suggestions": ["Quantify more achievements"],
  "keyword_analysis": {"present_keywords": ["Go"], "missing_keywords": ["CI/CD"]},
  "format_issues": [],
  "summary": "Parses cleanly."
}`

	jobDescription50Words = "We are hiring a senior backend engineer to design, build and operate Go microservices on Kubernetes. You will own PostgreSQL schemas, improve reliability and latency, mentor engineers, and work with product teams. Experience with Terraform, CI/CD pipelines, observability tooling and distributed systems is a strong plus for this exciting role."
)

type fakeLLM struct {
	mu      sync.Mutex
	calls   []ChatRequest
	respond func(req ChatRequest) (string, error)
}

func newFakeLLM(respond func(req ChatRequest) (string, error)) *fakeLLM {
	return &fakeLLM{respond: respond}
}

// byOperation answers each operation with a fixed completion.
func byOperation(answers map[string]string) func(ChatRequest) (string, error) {
	return func(req ChatRequest) (string, error) {
		return answers[req.Operation], nil
	}
}

func (f *fakeLLM) Complete(_ context.Context, req ChatRequest) (string, error) {
	f.mu.Lock()
	f.calls = append(f.calls, req)
	f.mu.Unlock()
	return f.respond(req)
}

func (f *fakeLLM) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.calls)
}

func (f *fakeLLM) callsFor(op string) []ChatRequest {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []ChatRequest
	for _, c := range f.calls {
		if c.Operation == op {
			out = append(out, c)
		}
	}
	return out
}

type fakeRetriever struct {
	results []SearchResult
	err     error
	calls   int
}

func (f *fakeRetriever) Retrieve(context.Context, string) ([]SearchResult, error) {
	f.calls++
	return f.results, f.err
}
