package filter

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/mail"
	"strings"
	"time"

	"github.com/mikey/phish-detector/internal/core"
	"go.uber.org/zap"
)

// CliFilter prints verdicts for inputs given on the command line
type CliFilter struct {
	service *core.DetectorService
	logger  *zap.Logger
	out     io.Writer
	verbose bool
	asJSON  bool
}

// NewCliFilter creates a new CLI filter
func NewCliFilter(service *core.DetectorService, logger *zap.Logger, out io.Writer, verbose, asJSON bool) *CliFilter {
	return &CliFilter{
		service: service,
		logger:  logger,
		out:     out,
		verbose: verbose,
		asJSON:  asJSON,
	}
}

// CheckURL classifies a URL and prints the result
func (f *CliFilter) CheckURL(url string) (*core.ClassificationResult, error) {
	f.logger.Debug("Checking URL")
	return f.report(func() *core.ClassificationResult { return f.service.ClassifyURL(url) })
}

// CheckEmail classifies an email body and prints the result
func (f *CliFilter) CheckEmail(body string) (*core.ClassificationResult, error) {
	f.logger.Debug("Checking email", zap.Int("body_length", len(body)))
	return f.report(func() *core.ClassificationResult { return f.service.ClassifyEmail(body) })
}

// CheckMessage classifies the readable text of an RFC 5322 message. Input
// that does not parse as a message is classified as a pasted body.
func (f *CliFilter) CheckMessage(raw []byte) (*core.ClassificationResult, error) {
	msg, err := mail.ReadMessage(bytes.NewReader(raw))
	if err != nil {
		f.logger.Debug("Input is not a mail message, checking it as plain text", zap.Error(err))
		return f.CheckEmail(string(raw))
	}

	text, err := extractTextFromMessage(msg)
	if err != nil {
		return nil, fmt.Errorf("failed to extract text content: %w", err)
	}
	return f.CheckEmail(text)
}

func (f *CliFilter) report(classify func() *core.ClassificationResult) (*core.ClassificationResult, error) {
	start := time.Now()
	result := classify()
	duration := time.Since(start)

	if f.asJSON {
		enc := json.NewEncoder(f.out)
		enc.SetIndent("", "  ")
		if err := enc.Encode(result); err != nil {
			return nil, fmt.Errorf("failed to encode result: %w", err)
		}
		return result, nil
	}

	fmt.Fprintf(f.out, "\n=== Results ===\n")
	fmt.Fprintf(f.out, "Input: %s\n", result.Input)
	fmt.Fprintf(f.out, "Prediction: %s\n", result.Label)
	fmt.Fprintf(f.out, "Confidence: %s\n", result.Confidence)
	fmt.Fprintf(f.out, "Details: %s\n", strings.Join(result.Explanation, " | "))
	if f.verbose {
		fmt.Fprintf(f.out, "Model available: %t\n", f.service.ClassifierAvailable())
		fmt.Fprintf(f.out, "Request ID: %s\n", result.RequestID)
		fmt.Fprintf(f.out, "Processing time: %v\n", duration)
	}

	return result, nil
}

// Start is a no-op for the CLI filter
func (f *CliFilter) Start() error {
	return nil
}

// Stop is a no-op for the CLI filter
func (f *CliFilter) Stop() error {
	return nil
}
