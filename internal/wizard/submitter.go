package wizard

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"time"

	"github.com/ridgelinefuels/fuel_credit_app/internal/apperrors"
	"github.com/ridgelinefuels/fuel_credit_app/internal/dto"
)

// HTTPSubmitter posts the aggregate to the credit-application endpoint as a
// multipart request: one JSON part named "application" plus the binary
// attachments under their logical field names.
type HTTPSubmitter struct {
	Endpoint string
	Client   *http.Client
}

// NewHTTPSubmitter creates a submitter for the given endpoint URL.
func NewHTTPSubmitter(endpoint string) *HTTPSubmitter {
	return &HTTPSubmitter{
		Endpoint: endpoint,
		Client:   &http.Client{Timeout: 60 * time.Second},
	}
}

var _ Submitter = (*HTTPSubmitter)(nil)

// Submit implements Submitter.
func (s *HTTPSubmitter) Submit(ctx context.Context, app dto.CreditApplicationRequest, files []File) (*Result, error) {
	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)

	appPart, err := writer.CreateFormField("application")
	if err != nil {
		return nil, fmt.Errorf("failed to create application part: %w", err)
	}
	if err := json.NewEncoder(appPart).Encode(app); err != nil {
		return nil, fmt.Errorf("failed to encode application: %w", err)
	}

	otherDocIndex := 0
	for _, f := range files {
		field := f.Kind
		if f.Kind == FileOtherDoc {
			otherDocIndex++
			field = fmt.Sprintf("%s%d", FileOtherDoc, otherDocIndex)
		}
		part, err := writer.CreateFormFile(field, f.FileName)
		if err != nil {
			return nil, fmt.Errorf("failed to create file part %s: %w", field, err)
		}
		if _, err := part.Write(f.Content); err != nil {
			return nil, fmt.Errorf("failed to write file part %s: %w", field, err)
		}
	}
	if err := writer.Close(); err != nil {
		return nil, fmt.Errorf("failed to finalize multipart body: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.Endpoint, body)
	if err != nil {
		return nil, fmt.Errorf("failed to build submission request: %w", err)
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())

	client := s.Client
	if client == nil {
		client = http.DefaultClient
	}
	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("submission request failed: %w", err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode >= 200 && resp.StatusCode < 300:
		var sub dto.SubmissionResponse
		if err := json.NewDecoder(resp.Body).Decode(&sub); err != nil {
			return nil, fmt.Errorf("failed to decode submission response: %w", err)
		}
		return &Result{SubmissionID: sub.SubmissionID, PDFURL: sub.PDFURL}, nil

	case resp.StatusCode >= 400 && resp.StatusCode < 500:
		// Server-side validation rejection carries the field-error list.
		var fieldResp dto.FieldErrorResponse
		if err := json.NewDecoder(resp.Body).Decode(&fieldResp); err == nil && len(fieldResp.Fields) > 0 {
			fields := make([]apperrors.FieldError, len(fieldResp.Fields))
			for i, f := range fieldResp.Fields {
				fields[i] = apperrors.FieldError{Field: f.Field, Reason: f.Reason}
			}
			return nil, apperrors.NewValidationError(fields...)
		}
		return nil, fmt.Errorf("submission rejected with status %d", resp.StatusCode)

	default:
		io.Copy(io.Discard, io.LimitReader(resp.Body, 4096))
		return nil, fmt.Errorf("server error: status %d", resp.StatusCode)
	}
}
