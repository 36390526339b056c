package model

import "encoding/json"

type HealthResponse struct {
	Status  string `json:"status"`
	Service string `json:"service"`
}

type ConvertRequest struct {
	CosURL        string `json:"cos_url"`
	AutoSplit     bool   `json:"auto_split"`
	SuperviseType int    `json:"supervise_type"`
	// The backend checks for the literal string "true".
	Simulate string `json:"simulate,omitempty"`
}

type ConvertResponse struct {
	TaskID           json.RawMessage `json:"task_id,omitempty"`
	TextCount        int             `json:"text_count"`
	FileSaved        bool            `json:"file_saved"`
	ResultFile       string          `json:"result_file"`
	Simulated        bool            `json:"simulated,omitempty"`
	SourceFile       string          `json:"source_file,omitempty"`
	Note             string          `json:"note,omitempty"`
	SpeakerTextLines []string        `json:"speaker_text_lines,omitempty"`
	TextLines        []string        `json:"text_lines,omitempty"`
}

type ErrorResponse struct {
	Message string `json:"message"`
}
