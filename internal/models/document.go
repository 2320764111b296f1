package models

// SlotRole names one of the two logical inputs of a submission.
type SlotRole string

const (
	RoleResume         SlotRole = "resume"
	RoleJobDescription SlotRole = "job_description"
)

// SlotKind says which source is authoritative for a slot.
type SlotKind string

const (
	SlotKindNone SlotKind = ""
	SlotKindText SlotKind = "text"
	SlotKindFile SlotKind = "file"
)

// UploadedFile is an in-memory upload. Files are never written to disk.
type UploadedFile struct {
	Filename    string
	ContentType string
	Size        int64
	Data        []byte
}

// Slot is a candidate document as submitted: pasted text or a file.
type Slot struct {
	Role SlotRole
	Kind SlotKind
	Text string
	File *UploadedFile
}

func TextSlot(role SlotRole, text string) Slot {
	return Slot{Role: role, Kind: SlotKindText, Text: text}
}

func FileSlot(role SlotRole, file *UploadedFile) Slot {
	return Slot{Role: role, Kind: SlotKindFile, File: file}
}

// ExtractedText is the outcome of decoding an uploaded file.
type ExtractedText struct {
	Text      string
	Decoder   string
	MediaType string
	PageCount int
}

// NormalizedInput holds both resolved texts, each past the length policy.
type NormalizedInput struct {
	ResumeText         string `json:"resumeText"`
	JobDescriptionText string `json:"jobDescriptionText"`
}
