package transcription

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"time"

	"asrprobe/internal/domain"
	"asrprobe/internal/model"
	"asrprobe/internal/upstream/asr"
)

type Client interface {
	Convert(ctx context.Context, req model.ConvertRequest) (model.ConvertResponse, error)
}

// Service performs one conversion call and classifies what came back.
type Service struct {
	client  Client
	timeout time.Duration
}

func New(client Client, timeout time.Duration) *Service {
	return &Service{
		client:  client,
		timeout: timeout,
	}
}

func (s *Service) Convert(ctx context.Context, req domain.ConversionRequest) domain.Outcome {
	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}

	payload := model.ConvertRequest{
		CosURL:        strings.TrimSpace(req.MediaURL),
		AutoSplit:     req.AutoSplit,
		SuperviseType: int(req.SuperviseType),
	}
	if req.Simulate {
		payload.Simulate = "true"
	}

	resp, err := s.client.Convert(ctx, payload)
	if err != nil {
		return Classify(err)
	}
	return domain.Succeeded{Result: toResult(resp)}
}

// Classify maps an error from the upstream client onto an outcome.
func Classify(err error) domain.Outcome {
	var statusErr *asr.StatusError
	if errors.As(err, &statusErr) {
		message := statusErr.Message()
		if message == "" {
			message = domain.UnknownMessage
		}
		switch statusErr.StatusCode {
		case 400:
			return domain.ClientError{Message: message}
		case 403:
			return domain.QuotaExhausted{Message: message}
		case 500:
			return domain.ServerError{Message: message}
		default:
			return domain.Unclassified{StatusCode: statusErr.StatusCode, Body: statusErr.Body}
		}
	}

	var decodeErr *asr.DecodeError
	if errors.As(err, &decodeErr) {
		return domain.ParseFailure{Body: decodeErr.Body, Err: decodeErr.Err}
	}
	if asr.IsTimeout(err) {
		return domain.Timeout{Err: err}
	}
	if asr.IsConnectionError(err) {
		return domain.ConnectionFailure{Err: err}
	}
	return domain.RequestFailure{Err: err}
}

func toResult(resp model.ConvertResponse) domain.ConversionResult {
	return domain.ConversionResult{
		TaskID:           taskID(resp.TaskID),
		TextLineCount:    resp.TextCount,
		FileSaved:        resp.FileSaved,
		ResultFilePath:   resp.ResultFile,
		Simulated:        resp.Simulated,
		SourceFile:       strings.TrimSpace(resp.SourceFile),
		Note:             strings.TrimSpace(resp.Note),
		SpeakerTextLines: resp.SpeakerTextLines,
		TextLines:        resp.TextLines,
	}
}

// taskID accepts both string and numeric task ids.
func taskID(raw json.RawMessage) string {
	if len(raw) == 0 || string(raw) == "null" {
		return ""
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s
	}
	return string(raw)
}
