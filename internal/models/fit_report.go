package models

// FitReport is the structured analysis returned for one submission.
// JSON names follow the report contract consumed by the web client.
type FitReport struct {
	OverallAnalysis OverallAnalysis `json:"overallAnalysis"`
	TechnicalSkills TechnicalSkills `json:"technicalSkills"`
	Experience      Experience      `json:"experience"`
	RoleFit         RoleFit         `json:"roleFit"`
	Education       Education       `json:"education"`
	Certifications  *Certifications `json:"certifications,omitempty"`
	SummaryReport   SummaryReport   `json:"summaryReport"`
	Recommendations []string        `json:"recommendations"`
	Considerations  []string        `json:"considerations"`
}

type OverallAnalysis struct {
	MatchScore int    `json:"matchScore"`
	Fit        string `json:"fit"`
	Summary    string `json:"summary"`
}

type TechnicalSkills struct {
	Score         int      `json:"score"`
	MatchedSkills []string `json:"matchedSkills"`
	MissingSkills []string `json:"missingSkills"`
}

type Experience struct {
	Score               int    `json:"score"`
	CandidateExperience string `json:"candidateExperience"`
	RequiredExperience  string `json:"requiredExperience"`
	Level               string `json:"level"`
	Fit                 string `json:"fit"`
}

type RoleFit struct {
	Score       int    `json:"score"`
	CurrentRole string `json:"currentRole"`
	TargetRole  string `json:"targetRole"`
	Alignment   string `json:"alignment"`
}

type Education struct {
	Score          int    `json:"score"`
	Degree         string `json:"degree"`
	RequiredDegree string `json:"requiredDegree,omitempty"`
}

type Certifications struct {
	Score                 int      `json:"score"`
	MatchedCertifications []string `json:"matchedCertifications"`
	MissingCertifications []string `json:"missingCertifications"`
}

type SummaryReport struct {
	Strengths    []string `json:"strengths"`
	Weaknesses   []string `json:"weaknesses"`
	FinalVerdict string   `json:"finalVerdict"`
}

// DimensionScores lists every per-dimension score present in the report.
func (r *FitReport) DimensionScores() []int {
	scores := []int{
		r.TechnicalSkills.Score,
		r.Experience.Score,
		r.RoleFit.Score,
		r.Education.Score,
	}
	if r.Certifications != nil {
		scores = append(scores, r.Certifications.Score)
	}
	return scores
}

// Band groups a score the way the client colours it.
func Band(score int) string {
	switch {
	case score >= 75:
		return "strong"
	case score >= 50:
		return "moderate"
	default:
		return "weak"
	}
}
