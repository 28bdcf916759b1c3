// internal/gdpr/service.go
package gdpr

import (
	"context"
	"fmt"
	"time"

	"candidature-api/internal/candidature"
	"candidature-api/internal/common/errors"
	"candidature-api/internal/common/logger"
	"candidature-api/internal/models"
)

const anonymizedValue = "ANONYME"

// ExportMetadata describes an export bundle.
type ExportMetadata struct {
	ExportedAt  time.Time `json:"exportedAt"`
	RecordCount int       `json:"recordCount"`
}

// Export bundles every candidature stored under one email address.
type Export struct {
	Metadata ExportMetadata        `json:"metadata"`
	Data     []*models.Candidature `json:"data"`
}

// Service implements the data-subject-rights operations: export, partial
// update, hard delete and anonymization.
type Service struct {
	repo   candidature.Repository
	logger logger.Logger
}

func NewService(repo candidature.Repository, log logger.Logger) *Service {
	return &Service{
		repo:   repo,
		logger: log.WithFields(map[string]interface{}{"component": "gdpr-service"}),
	}
}

// ExportData returns all records stored under the given email, wrapped
// with export metadata. An unknown email yields an empty export, not an
// error.
func (s *Service) ExportData(ctx context.Context, email string) (*Export, error) {
	records, err := s.repo.FindByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if records == nil {
		records = []*models.Candidature{}
	}

	s.logger.Info("candidature data exported", map[string]interface{}{
		"email":   email,
		"records": len(records),
	})
	return &Export{
		Metadata: ExportMetadata{
			ExportedAt:  time.Now().UTC(),
			RecordCount: len(records),
		},
		Data: records,
	}, nil
}

// UpdateData overlays a partial canonical-flat fragment onto a stored
// record. Fields present in the fragment are validated against their
// constraints; fields it omits keep their stored value and are not
// checked.
func (s *Service) UpdateData(ctx context.Context, id int64, fragment map[string]interface{}) (*models.Candidature, error) {
	record, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	touched := candidature.ApplyUpdate(record, fragment)
	if violations := candidature.ValidatePartial(record, touched); len(violations) > 0 {
		return nil, candidature.ViolationError(violations)
	}

	if err := s.repo.Update(ctx, record); err != nil {
		return nil, err
	}

	s.logger.Info("candidature data updated", map[string]interface{}{
		"id":     id,
		"fields": len(touched),
	})
	return record, nil
}

// DeleteData removes a record entirely.
func (s *Service) DeleteData(ctx context.Context, id int64) error {
	affected, err := s.repo.Delete(ctx, id)
	if err != nil {
		return err
	}
	if affected == 0 {
		return errors.NewCandidatureNotFoundError(id)
	}

	s.logger.Info("candidature data deleted", map[string]interface{}{"id": id})
	return nil
}

// AnonymizeData overwrites the personal fields of a record in place while
// keeping the non-personal ones for statistics. Consent is revoked as
// part of anonymization.
func (s *Service) AnonymizeData(ctx context.Context, id int64) (*models.Candidature, error) {
	record, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	now := time.Now().UnixMilli()
	contactEmail := fmt.Sprintf("anonyme_%d_contact@anonyme.com", now)

	record.FirstName = anonymizedValue
	record.LastName = anonymizedValue
	record.Nationality = anonymizedValue
	record.PhoneNumber = anonymizedValue
	record.Email = fmt.Sprintf("anonyme_%d@anonyme.com", now)
	record.Organization = anonymizedValue
	record.ContactPerson = anonymizedValue
	record.ContactEmail = &contactEmail
	record.Consent = false

	if err := s.repo.Update(ctx, record); err != nil {
		return nil, err
	}

	s.logger.Info("candidature data anonymized", map[string]interface{}{"id": id})
	return record, nil
}
