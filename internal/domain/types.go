package domain

// SuperviseType tells the backend how to decide the number of speakers.
type SuperviseType int

const (
	SuperviseUnspecified SuperviseType = 0
	SuperviseFixedCount  SuperviseType = 1
	SuperviseAlgorithm   SuperviseType = 2
)

func (s SuperviseType) Valid() bool {
	return s >= SuperviseUnspecified && s <= SuperviseAlgorithm
}

func (s SuperviseType) String() string {
	switch s {
	case SuperviseUnspecified:
		return "unspecified"
	case SuperviseFixedCount:
		return "fixed-count"
	case SuperviseAlgorithm:
		return "algorithm-decides"
	default:
		return "invalid"
	}
}

// HealthStatus is the result of one liveness probe.
type HealthStatus struct {
	Reachable bool
	// HTTPStatus is 0 when no response was received.
	HTTPStatus int
	Payload    map[string]any
	Status     string
	Service    string
	// Body holds the raw response body when the service answered but was not healthy.
	Body string
	Err  error
}

type ConversionRequest struct {
	MediaURL      string
	AutoSplit     bool
	SuperviseType SuperviseType
	Simulate      bool
}

// TranscriptKind names which line list a result is displayed from.
type TranscriptKind int

const (
	TranscriptNone TranscriptKind = iota
	TranscriptSpeaker
	TranscriptText
)

type ConversionResult struct {
	TaskID           string
	TextLineCount    int
	FileSaved        bool
	ResultFilePath   string
	Simulated        bool
	SourceFile       string
	Note             string
	SpeakerTextLines []string
	TextLines        []string
}

// Transcript prefers speaker-separated lines over raw text lines.
func (r ConversionResult) Transcript() ([]string, TranscriptKind) {
	if len(r.SpeakerTextLines) > 0 {
		return r.SpeakerTextLines, TranscriptSpeaker
	}
	if len(r.TextLines) > 0 {
		return r.TextLines, TranscriptText
	}
	return nil, TranscriptNone
}

// Provenance explains where simulated data came from. It is empty for real
// results and when the backend gave no explanation.
func (r ConversionResult) Provenance() string {
	if !r.Simulated {
		return ""
	}
	if r.SourceFile != "" {
		return r.SourceFile
	}
	return r.Note
}
