package services

import (
	"encoding/json"
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"

	"fitmatch-ai/fitmatch-api/internal/apperrors"
	"fitmatch-ai/fitmatch-api/internal/config"
	"fitmatch-ai/fitmatch-api/internal/models"
)

const (
	NotSpecified  = "Not specified"
	NotApplicable = "Not Applicable"
)

var (
	certificationKeywords = regexp.MustCompile(`(?i)\bcertif|\blicen[cs]e[ds]?\b|\b(PMP|CPA|CFA|CISSP|CISA|CISM|CCNA|CCNP|CCIE|CompTIA|ITIL|PRINCE2|CSM|RHCE|RHCSA|OSCP|CKA|CKAD)\b`)

	bareYears       = regexp.MustCompile(`(?i)^(\d+(?:\.\d+)?)\s*(?:years?|yrs?|y)?\.?$`)
	fractionalYears = regexp.MustCompile(`(?i)\b(\d+\.\d+)\s*(?:years?|yrs?)\b`)

	requirementPlaceholders = map[string]bool{
		"":              true,
		"-":             true,
		"0":             true,
		"0 years":       true,
		"0 year":        true,
		"n/a":           true,
		"na":            true,
		"none":          true,
		"null":          true,
		"unspecified":   true,
		"not specified": true,
		"not mentioned": true,
		"not stated":    true,
	}
)

// MentionsCertifications reports whether a job description asks for any
// certification or licence.
func MentionsCertifications(jobDescription string) bool {
	return certificationKeywords.MatchString(jobDescription)
}

// ValidateReport decodes the backend's raw output and enforces the report
// contract. Structural problems (bad JSON, missing fields, wrong types) are
// a CONTRACT_VIOLATION listing every offending field; semantic rules
// (score range, list disjointness, certification presence, experience
// wording, score pinning) are applied by rewriting the report.
func ValidateReport(raw, jobDescriptionText, experiencePolicy string) (*models.FitReport, error) {
	if strings.TrimSpace(raw) == "" {
		return nil, apperrors.ContractViolation("the response was empty", nil)
	}

	decoder := json.NewDecoder(strings.NewReader(extractJSON(raw)))
	decoder.UseNumber()

	var document any
	if err := decoder.Decode(&document); err != nil {
		return nil, apperrors.ContractViolation("the response is not valid JSON", err)
	}

	root, ok := document.(map[string]any)
	if !ok {
		return nil, apperrors.ContractViolation("the response is not a JSON object", nil)
	}

	r := &reportReader{}
	report := r.read(root)
	if len(r.problems) > 0 {
		return nil, apperrors.ContractViolation(strings.Join(r.problems, "; "), nil)
	}

	enforceRules(report, jobDescriptionText, experiencePolicy)
	return report, nil
}

// reportReader copies a decoded JSON document into a FitReport, recording
// every structural problem instead of stopping at the first.
type reportReader struct {
	problems []string
}

func (r *reportReader) read(root map[string]any) *models.FitReport {
	report := &models.FitReport{}

	if o := r.object(root, "", "overallAnalysis"); o != nil {
		report.OverallAnalysis = models.OverallAnalysis{
			MatchScore: r.score(o, "overallAnalysis", "matchScore"),
			Fit:        r.text(o, "overallAnalysis", "fit"),
			Summary:    r.text(o, "overallAnalysis", "summary"),
		}
	}

	if o := r.object(root, "", "technicalSkills"); o != nil {
		report.TechnicalSkills = models.TechnicalSkills{
			Score:         r.score(o, "technicalSkills", "score"),
			MatchedSkills: r.list(o, "technicalSkills", "matchedSkills"),
			MissingSkills: r.list(o, "technicalSkills", "missingSkills"),
		}
	}

	if o := r.object(root, "", "experience"); o != nil {
		report.Experience = models.Experience{
			Score:               r.score(o, "experience", "score"),
			CandidateExperience: r.text(o, "experience", "candidateExperience"),
			RequiredExperience:  r.optionalText(o, "experience", "requiredExperience"),
			Level:               r.text(o, "experience", "level"),
			Fit:                 r.text(o, "experience", "fit"),
		}
	}

	if o := r.object(root, "", "roleFit"); o != nil {
		report.RoleFit = models.RoleFit{
			Score:       r.score(o, "roleFit", "score"),
			CurrentRole: r.text(o, "roleFit", "currentRole"),
			TargetRole:  r.text(o, "roleFit", "targetRole"),
			Alignment:   r.text(o, "roleFit", "alignment"),
		}
	}

	if o := r.object(root, "", "education"); o != nil {
		report.Education = models.Education{
			Score:          r.score(o, "education", "score"),
			Degree:         r.text(o, "education", "degree"),
			RequiredDegree: r.optionalText(o, "education", "requiredDegree"),
		}
	}

	if v, present := root["certifications"]; present && v != nil {
		if o, ok := v.(map[string]any); ok {
			report.Certifications = &models.Certifications{
				Score:                 r.score(o, "certifications", "score"),
				MatchedCertifications: r.list(o, "certifications", "matchedCertifications"),
				MissingCertifications: r.list(o, "certifications", "missingCertifications"),
			}
		} else {
			r.wrongType("certifications", "an object")
		}
	}

	if o := r.object(root, "", "summaryReport"); o != nil {
		report.SummaryReport = models.SummaryReport{
			Strengths:    r.list(o, "summaryReport", "strengths"),
			Weaknesses:   r.list(o, "summaryReport", "weaknesses"),
			FinalVerdict: r.text(o, "summaryReport", "finalVerdict"),
		}
	}

	report.Recommendations = r.list(root, "", "recommendations")
	report.Considerations = r.list(root, "", "considerations")

	return report
}

func (r *reportReader) missing(path string) {
	r.problems = append(r.problems, "missing field "+path)
}

func (r *reportReader) wrongType(path, want string) {
	r.problems = append(r.problems, fmt.Sprintf("field %s must be %s", path, want))
}

func (r *reportReader) lookup(obj map[string]any, parent, key string) (any, string, bool) {
	path := key
	if parent != "" {
		path = parent + "." + key
	}
	v, ok := obj[key]
	if !ok || v == nil {
		return nil, path, false
	}
	return v, path, true
}

func (r *reportReader) object(obj map[string]any, parent, key string) map[string]any {
	v, path, ok := r.lookup(obj, parent, key)
	if !ok {
		r.missing(path)
		return nil
	}
	o, ok := v.(map[string]any)
	if !ok {
		r.wrongType(path, "an object")
		return nil
	}
	return o
}

func (r *reportReader) score(obj map[string]any, parent, key string) int {
	v, path, ok := r.lookup(obj, parent, key)
	if !ok {
		r.missing(path)
		return 0
	}

	var f float64
	var err error
	switch n := v.(type) {
	case json.Number:
		f, err = n.Float64()
	case string:
		f, err = strconv.ParseFloat(strings.TrimSuffix(strings.TrimSpace(n), "%"), 64)
	default:
		err = fmt.Errorf("unexpected %T", v)
	}
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		r.wrongType(path, "a number")
		return 0
	}

	return clampScore(f)
}

func (r *reportReader) text(obj map[string]any, parent, key string) string {
	v, path, ok := r.lookup(obj, parent, key)
	if !ok {
		r.missing(path)
		return ""
	}
	s, ok := v.(string)
	if !ok {
		r.wrongType(path, "a string")
		return ""
	}
	return strings.TrimSpace(s)
}

func (r *reportReader) optionalText(obj map[string]any, parent, key string) string {
	v, path, ok := r.lookup(obj, parent, key)
	if !ok {
		return ""
	}
	s, ok := v.(string)
	if !ok {
		r.wrongType(path, "a string")
		return ""
	}
	return strings.TrimSpace(s)
}

func (r *reportReader) list(obj map[string]any, parent, key string) []string {
	v, path, ok := r.lookup(obj, parent, key)
	if !ok {
		r.missing(path)
		return nil
	}
	items, ok := v.([]any)
	if !ok {
		r.wrongType(path, "an array of strings")
		return nil
	}

	out := make([]string, 0, len(items))
	for i, item := range items {
		s, ok := item.(string)
		if !ok {
			r.wrongType(fmt.Sprintf("%s[%d]", path, i), "a string")
			continue
		}
		out = append(out, s)
	}
	return out
}

func enforceRules(report *models.FitReport, jobDescriptionText, experiencePolicy string) {
	skills := &report.TechnicalSkills
	skills.MatchedSkills = cleanList(skills.MatchedSkills)
	skills.MissingSkills = without(cleanList(skills.MissingSkills), skills.MatchedSkills)
	if len(skills.MatchedSkills) == 0 {
		skills.Score = 0
	}

	if certs := report.Certifications; certs != nil {
		certs.MatchedCertifications = cleanList(certs.MatchedCertifications)
		certs.MissingCertifications = without(cleanList(certs.MissingCertifications), certs.MatchedCertifications)
		if len(certs.MatchedCertifications) == 0 {
			certs.Score = 0
		}
		if len(certs.MatchedCertifications)+len(certs.MissingCertifications) == 0 || !MentionsCertifications(jobDescriptionText) {
			report.Certifications = nil
		}
	}

	exp := &report.Experience
	exp.CandidateExperience = humanizeDuration(exp.CandidateExperience)
	if requirementPlaceholders[strings.ToLower(exp.RequiredExperience)] || isZeroQuantity(exp.RequiredExperience) {
		exp.RequiredExperience = NotSpecified
		if experiencePolicy != config.ExperiencePolicyEstimate {
			exp.Fit = NotApplicable
		}
	} else {
		exp.RequiredExperience = humanizeDuration(exp.RequiredExperience)
	}
	if strings.EqualFold(exp.Fit, "Poor") {
		exp.Score = 0
	}

	if strings.EqualFold(report.RoleFit.Alignment, "Poor") {
		report.RoleFit.Score = 0
	}

	report.SummaryReport.Strengths = cleanList(report.SummaryReport.Strengths)
	report.SummaryReport.Weaknesses = cleanList(report.SummaryReport.Weaknesses)
	report.Recommendations = cleanList(report.Recommendations)
	report.Considerations = cleanList(report.Considerations)

	reconcileOverall(report)
}

// reconcileOverall keeps the overall score consistent with the dimension
// scores: zero exactly when every dimension is zero.
func reconcileOverall(report *models.FitReport) {
	scores := report.DimensionScores()

	sum := 0
	for _, s := range scores {
		sum += s
	}

	switch {
	case sum == 0:
		report.OverallAnalysis.MatchScore = 0
	case report.OverallAnalysis.MatchScore == 0:
		mean := int(math.Round(float64(sum) / float64(len(scores))))
		report.OverallAnalysis.MatchScore = max(mean, 1)
	}
}

func clampScore(f float64) int {
	return int(math.Max(0, math.Min(100, math.Round(f))))
}

// cleanList trims entries, drops blanks and removes case-insensitive
// duplicates, keeping the first spelling. It never returns nil.
func cleanList(items []string) []string {
	out := make([]string, 0, len(items))
	seen := make(map[string]bool, len(items))
	for _, item := range items {
		item = strings.TrimSpace(item)
		key := strings.ToLower(item)
		if item == "" || seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, item)
	}
	return out
}

// without returns items minus anything in exclude, compared case-insensitively.
func without(items, exclude []string) []string {
	drop := make(map[string]bool, len(exclude))
	for _, e := range exclude {
		drop[strings.ToLower(e)] = true
	}

	out := make([]string, 0, len(items))
	for _, item := range items {
		if !drop[strings.ToLower(item)] {
			out = append(out, item)
		}
	}
	return out
}

func isZeroQuantity(s string) bool {
	m := bareYears.FindStringSubmatch(strings.TrimSpace(s))
	if m == nil {
		return false
	}
	f, err := strconv.ParseFloat(m[1], 64)
	return err == nil && f == 0
}

// humanizeDuration rewrites numeric or fractional year quantities as
// "N years and M months". Other text is returned unchanged.
func humanizeDuration(s string) string {
	s = strings.TrimSpace(s)

	if m := bareYears.FindStringSubmatch(s); m != nil {
		if years, err := strconv.ParseFloat(m[1], 64); err == nil {
			return formatYears(years)
		}
	}

	return fractionalYears.ReplaceAllStringFunc(s, func(match string) string {
		m := fractionalYears.FindStringSubmatch(match)
		years, err := strconv.ParseFloat(m[1], 64)
		if err != nil {
			return match
		}
		return formatYears(years)
	})
}

func formatYears(years float64) string {
	total := int(math.Round(years * 12))
	y, m := total/12, total%12

	switch {
	case y == 0:
		return plural(m, "month")
	case m == 0:
		return plural(y, "year")
	default:
		return plural(y, "year") + " and " + plural(m, "month")
	}
}

func plural(n int, unit string) string {
	if n == 1 {
		return "1 " + unit
	}
	return fmt.Sprintf("%d %ss", n, unit)
}

// extractJSON tries to extract JSON from text that might contain markdown or other formatting
func extractJSON(text string) string {
	text = strings.ReplaceAll(text, "```json", "")
	text = strings.ReplaceAll(text, "```", "")

	start := strings.Index(text, "{")
	end := strings.LastIndex(text, "}")
	if start != -1 && end > start {
		return text[start : end+1]
	}

	return text
}
