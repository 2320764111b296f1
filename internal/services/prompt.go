package services

import (
	"fmt"

	"google.golang.org/genai"

	"fitmatch-ai/fitmatch-api/internal/config"
)

type PromptBuilder struct {
	experiencePolicy string
}

func NewPromptBuilder(experiencePolicy string) *PromptBuilder {
	return &PromptBuilder{experiencePolicy: experiencePolicy}
}

// BuildFitReportPrompt creates the prompt for a resume / job description fit report
func (pb *PromptBuilder) BuildFitReportPrompt(resumeText, jobDescriptionText string) string {
	return fmt.Sprintf(`You are an AI-powered career coach specializing in resume analysis. Analyze the user's resume and a job description to provide a detailed, structured report.

RESUME:
%s

JOB DESCRIPTION:
%s

Instructions:
1. Overall Analysis: Calculate an overall match score (0-100). Provide a one-word fit assessment (e.g., "Strong", "Moderate", "Weak") and a brief summary. If all other section scores (Technical Skills, Experience, etc.) are 0, the overall "matchScore" MUST also be 0.
2. Technical Skills: Score the technical skills match (0-100). List the skills that match the job description and those that are required but missing. A skill is "matched" only if it appears in BOTH the resume and the job description. Any matched skill MUST NOT appear in the missing list. If no skills are matched, the score MUST be 0.
3. Experience: Score the experience match (0-100). Extract the candidate's years of experience and compare it to what's required. Determine the candidate's experience level (e.g., "Entry", "Mid-Level", "Senior"). Express the candidate's experience and the required experience as human-readable strings like "6 months", "1 year and 6 months", or "5 years". Do not use fractional years like "0.83 years". %s If the experience fit is "Poor", the score MUST be 0.
4. Role Fit: Score the role fit (0-100). Identify the candidate's current role and the target role. Assess the alignment between them ("Excellent", "Good", "Fair" or "Poor"). If the alignment is "Poor", the score MUST be 0.
5. Education: Score the education match (0-100). Identify the candidate's highest degree and the required degree (if specified). A 100%% score should only be given for an exact match. If the candidate's degree is a related but not identical field (e.g., B.Tech vs B.Sc), assign a lower score. If the degrees are completely unrelated (e.g., Electronics Engineering for an Accountant role), the score MUST be 0.
6. Certifications (conditional): If the job description mentions specific certifications (e.g., PMP, AWS Certified Developer), create a "certifications" object. Score the match (0-100), list matched certifications, and list missing certifications. A certification is "matched" ONLY if it appears in BOTH the resume and the job description. When listing a matched certification, use the full name from the resume. Any matched certification MUST NOT appear in the missing list. If no certifications are matched, the score MUST be 0. If certifications are not mentioned in the job description, OMIT this object from the output entirely; do not return it empty or null.
7. Summary Report: Provide a list of key strengths, weaknesses, and a final verdict on the candidate's suitability.
8. Recommendations: Provide a list of actionable recommendations for the candidate to improve their fit for this role or future roles.
9. Considerations: Provide a list of key points for a hiring manager to consider when evaluating this candidate.

All scores are whole numbers between 0 and 100. Return ONLY the JSON object described by the response schema, no markdown.`,
		resumeText, jobDescriptionText, pb.experienceInstruction())
}

func (pb *PromptBuilder) experienceInstruction() string {
	if pb.experiencePolicy == config.ExperiencePolicyEstimate {
		return `If years of experience are not specified in the job description, set "requiredExperience" to "Not specified" and base the score on an educated guess from the role's seniority; if the candidate's experience is clearly irrelevant or minimal for a non-entry role, the score should be very low or 0.`
	}
	return `If years of experience are not specified in the job description, set "requiredExperience" to "Not specified" and the "fit" to "Not Applicable". Never invent a requirement the job description does not state.`
}

// FitReportSchema describes the report the backend must return.
func FitReportSchema() *genai.Schema {
	return &genai.Schema{
		Type: genai.TypeObject,
		Properties: map[string]*genai.Schema{
			"overallAnalysis": object(map[string]*genai.Schema{
				"matchScore": scoreField("A score from 0 to 100 representing the overall match."),
				"fit":        stringField(`A one-word assessment of the fit (e.g., "Moderate", "Strong", "Weak").`),
				"summary":    stringField("A concise summary of the candidate's fit for the role."),
			}, "matchScore", "fit", "summary"),
			"technicalSkills": object(map[string]*genai.Schema{
				"score":         scoreField("A score from 0 to 100 for technical skills. If no skills match, this MUST be 0."),
				"matchedSkills": listField("Technical skills from the resume that match the job description."),
				"missingSkills": listField("Technical skills required by the job description that are missing from the resume."),
			}, "score", "matchedSkills", "missingSkills"),
			"experience": object(map[string]*genai.Schema{
				"score":               scoreField("A score from 0 to 100 for experience."),
				"candidateExperience": stringField(`Experience detected in the resume (e.g., "6 months", "2 years", "5 years and 3 months").`),
				"requiredExperience":  stringField(`Experience required by the job description, or "Not specified".`),
				"level":               stringField(`The candidate's experience level (e.g., "Entry", "Mid-Level", "Senior").`),
				"fit":                 stringField(`The experience fit (e.g., "Meets Requirement", "Below Requirement", "Not Applicable", "Poor").`),
			}, "score", "candidateExperience", "requiredExperience", "level", "fit"),
			"roleFit": object(map[string]*genai.Schema{
				"score":       scoreField(`A score from 0 to 100 for role fit. If the alignment is "Poor", this MUST be 0.`),
				"currentRole": stringField("The current or most recent role of the candidate."),
				"targetRole":  stringField("The target role from the job description."),
				"alignment":   stringField(`The role alignment ("Excellent", "Good", "Fair", "Poor").`),
			}, "score", "currentRole", "targetRole", "alignment"),
			"education": object(map[string]*genai.Schema{
				"score":          scoreField("A score from 0 to 100 for education. If the degrees are completely unrelated, this MUST be 0."),
				"degree":         stringField("The highest relevant degree obtained by the candidate."),
				"requiredDegree": stringField("The degree required by the job description."),
			}, "score", "degree"),
			"certifications": object(map[string]*genai.Schema{
				"score":                 scoreField("A score from 0 to 100 for certifications. If no certifications match, this MUST be 0."),
				"matchedCertifications": listField("Certifications from the resume that match the job description."),
				"missingCertifications": listField("Certifications required by the job description that are missing from the resume."),
			}, "score", "matchedCertifications", "missingCertifications"),
			"summaryReport": object(map[string]*genai.Schema{
				"strengths":    listField("Key strengths of the candidate."),
				"weaknesses":   listField("Key weaknesses or areas for improvement."),
				"finalVerdict": stringField("A final verdict on the candidate's suitability."),
			}, "strengths", "weaknesses", "finalVerdict"),
			"recommendations": listField("Actionable recommendations for the candidate to improve their fit."),
			"considerations":  listField("Key considerations for the hiring manager or recruiter."),
		},
		Required: []string{
			"overallAnalysis", "technicalSkills", "experience", "roleFit",
			"education", "summaryReport", "recommendations", "considerations",
		},
		PropertyOrdering: []string{
			"overallAnalysis", "technicalSkills", "experience", "roleFit", "education",
			"certifications", "summaryReport", "recommendations", "considerations",
		},
	}
}

func object(properties map[string]*genai.Schema, required ...string) *genai.Schema {
	return &genai.Schema{
		Type:       genai.TypeObject,
		Properties: properties,
		Required:   required,
	}
}

func scoreField(description string) *genai.Schema {
	return &genai.Schema{
		Type:        genai.TypeInteger,
		Description: description,
		Minimum:     genai.Ptr[float64](0),
		Maximum:     genai.Ptr[float64](100),
	}
}

func stringField(description string) *genai.Schema {
	return &genai.Schema{Type: genai.TypeString, Description: description}
}

func listField(description string) *genai.Schema {
	return &genai.Schema{
		Type:        genai.TypeArray,
		Description: description,
		Items:       &genai.Schema{Type: genai.TypeString},
	}
}
