// internal/candidature/service.go
package candidature

import (
	"context"
	"time"

	"candidature-api/internal/common/errors"
	"candidature-api/internal/common/logger"
	"candidature-api/internal/common/metrics"
	"candidature-api/internal/models"
)

// Notifier sends the confirmation message for a saved candidature.
// Failures are logged and counted, never surfaced to the submitter.
type Notifier interface {
	Notify(ctx context.Context, c *models.Candidature) error
}

// Service runs the intake pipeline: detect the payload shape, map it to
// the canonical record, validate, persist, then notify in the background.
type Service struct {
	repo     Repository
	notifier Notifier
	logger   logger.Logger

	notifyTimeout time.Duration
}

func NewService(repo Repository, notifier Notifier, log logger.Logger) *Service {
	return &Service{
		repo:     repo,
		notifier: notifier,
		logger:   log.WithFields(map[string]interface{}{"component": "candidature-service"}),

		notifyTimeout: 30 * time.Second,
	}
}

// Create accepts a raw decoded JSON payload in any recognized shape and
// returns the persisted record. The confirmation email is dispatched on a
// separate goroutine after the save succeeds, so a slow or failing mail
// provider never delays or reverses the write.
func (s *Service) Create(ctx context.Context, payload map[string]interface{}) (*models.Candidature, error) {
	format, err := DetectFormat(payload)
	if err != nil {
		metrics.CandidaturesRejected.WithLabelValues("format_not_recognized").Inc()
		s.logger.Warn("payload format not recognized", map[string]interface{}{
			"keys": topLevelKeys(payload),
		})
		return nil, errors.NewFormatNotRecognizedError("no known payload shape matched")
	}

	record, err := MapPayload(payload, format)
	if err != nil {
		metrics.CandidaturesRejected.WithLabelValues("format_not_recognized").Inc()
		return nil, errors.NewFormatNotRecognizedError(err.Error())
	}

	if violations := Validate(record); len(violations) > 0 {
		metrics.CandidaturesRejected.WithLabelValues("validation_failed").Inc()
		s.logger.Warn("candidature failed validation", map[string]interface{}{
			"format":     string(format),
			"violations": len(violations),
		})
		return nil, ViolationError(violations)
	}

	saved, err := s.repo.Save(ctx, record)
	if err != nil {
		if stdErr, ok := err.(*errors.StandardError); ok && stdErr.Code == errors.ErrCodeDuplicateCandidature {
			metrics.CandidaturesRejected.WithLabelValues("duplicate").Inc()
		}
		return nil, err
	}

	metrics.CandidaturesCreated.Inc()
	s.logger.Info("candidature created", map[string]interface{}{
		"id":     saved.ID,
		"format": string(format),
	})

	if s.notifier != nil {
		go s.sendConfirmation(saved)
	}
	return saved, nil
}

// Get returns a stored candidature by id.
func (s *Service) Get(ctx context.Context, id int64) (*models.Candidature, error) {
	return s.repo.FindByID(ctx, id)
}

// sendConfirmation runs on its own goroutine with a detached context, so
// the HTTP request finishing does not cancel the send.
func (s *Service) sendConfirmation(c *models.Candidature) {
	ctx, cancel := context.WithTimeout(context.Background(), s.notifyTimeout)
	defer cancel()

	if err := s.notifier.Notify(ctx, c); err != nil {
		metrics.ConfirmationEmailsFailed.Inc()
		s.logger.WithError(errors.NewNotificationSendFailedError(err)).Error(
			"confirmation email failed", map[string]interface{}{
				"id":    c.ID,
				"email": c.Email,
			})
	}
}

func topLevelKeys(payload map[string]interface{}) []string {
	keys := make([]string, 0, len(payload))
	for k := range payload {
		keys = append(keys, k)
	}
	return keys
}
