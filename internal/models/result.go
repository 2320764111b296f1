package models

// ReportRequest is the JSON body accepted by POST /analyze and the input
// shape of the report contract.
type ReportRequest struct {
	ResumeText         string `json:"resumeText"`
	JobDescriptionText string `json:"jobDescriptionText"`
}

// AnalyzeForm carries the multipart fields of POST /analyze that are not files.
type AnalyzeForm struct {
	ResumeInputType    string `form:"resumeInputType" validate:"omitempty,oneof=text file"`
	JDInputType        string `form:"jdInputType" validate:"omitempty,oneof=text file"`
	ResumeText         string `form:"resumeText"`
	JobDescriptionText string `form:"jobDescriptionText"`
}

// AnalyzeResponse holds either a report or an error, never both.
type AnalyzeResponse struct {
	ID    string     `json:"id"`
	Data  *FitReport `json:"data"`
	Error *string    `json:"error"`
	Code  string     `json:"code,omitempty"`
	Band  string     `json:"band,omitempty"`
}

type FormatsResponse struct {
	AcceptedFormats  []string `json:"accepted_formats"`
	AcceptedTypes    []string `json:"accepted_types"`
	MaxFileSize      int64    `json:"max_file_size"`
	MinContentLength int      `json:"min_content_length"`
}
