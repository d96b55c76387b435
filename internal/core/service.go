package core

import (
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Recorder receives one event per verdict
type Recorder interface {
	ObserveClassification(input, label string)
}

// DetectorService is the entry point used by every frontend.
// It holds only read-only state and is safe for concurrent use.
type DetectorService struct {
	classifier ClassifierHandle
	recorder   Recorder
	logger     *zap.Logger
	now        func() time.Time
}

// NewDetectorService creates a new detector service
func NewDetectorService(classifier ClassifierHandle, recorder Recorder, logger *zap.Logger) *DetectorService {
	if !classifier.IsAvailable() {
		logger.Warn("No classifier loaded, URL verdicts will be reported as Unable to Analyze")
	}

	return &DetectorService{
		classifier: classifier,
		recorder:   recorder,
		logger:     logger,
		now:        time.Now,
	}
}

// ClassifierAvailable reports whether a trained model is loaded
func (s *DetectorService) ClassifierAvailable() bool {
	return s.classifier.IsAvailable()
}

// ClassifyURL classifies a single URL
func (s *DetectorService) ClassifyURL(url string) *ClassificationResult {
	return s.finish(ClassifyURL(url, s.classifier))
}

// ClassifyEmail classifies a pasted email body
func (s *DetectorService) ClassifyEmail(body string) *ClassificationResult {
	return s.finish(ClassifyEmail(body, s.classifier))
}

func (s *DetectorService) finish(result *ClassificationResult) *ClassificationResult {
	result.RequestID = uuid.NewString()
	result.AnalyzedAt = s.now()

	if s.recorder != nil {
		s.recorder.ObserveClassification(string(result.InputType), string(result.Label))
	}

	s.logger.Info("Classified input",
		zap.String("request_id", result.RequestID),
		zap.String("input_type", string(result.InputType)),
		zap.String("label", string(result.Label)),
		zap.Stringer("confidence", result.Confidence),
		zap.Bool("model_used", result.AnalyzedURL != "" || (result.InputType == InputURL && s.classifier.IsAvailable())))

	return result
}
