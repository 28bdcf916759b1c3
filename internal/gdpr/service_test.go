// internal/gdpr/service_test.go
package gdpr

import (
	"context"
	stderrs "errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"candidature-api/internal/common/errors"
	"candidature-api/internal/common/logger"
	"candidature-api/internal/models"
)

// ==========================
// Test Doubles
// ==========================

type stubRepository struct {
	records map[int64]*models.Candidature

	findErr   error
	updateErr error
	deleteErr error
}

func newStubRepository(records ...*models.Candidature) *stubRepository {
	repo := &stubRepository{records: map[int64]*models.Candidature{}}
	for _, r := range records {
		repo.records[r.ID] = r
	}
	return repo
}

func (s *stubRepository) Save(ctx context.Context, c *models.Candidature) (*models.Candidature, error) {
	s.records[c.ID] = c
	return c, nil
}

func (s *stubRepository) FindByID(ctx context.Context, id int64) (*models.Candidature, error) {
	if s.findErr != nil {
		return nil, s.findErr
	}
	r, ok := s.records[id]
	if !ok {
		return nil, errors.NewCandidatureNotFoundError(id)
	}
	copied := *r
	return &copied, nil
}

func (s *stubRepository) FindByEmail(ctx context.Context, email string) ([]*models.Candidature, error) {
	if s.findErr != nil {
		return nil, s.findErr
	}
	var out []*models.Candidature
	for _, r := range s.records {
		if r.Email == email {
			out = append(out, r)
		}
	}
	return out, nil
}

func (s *stubRepository) Update(ctx context.Context, c *models.Candidature) error {
	if s.updateErr != nil {
		return s.updateErr
	}
	if _, ok := s.records[c.ID]; !ok {
		return errors.NewCandidatureNotFoundError(c.ID)
	}
	s.records[c.ID] = c
	return nil
}

func (s *stubRepository) Delete(ctx context.Context, id int64) (int64, error) {
	if s.deleteErr != nil {
		return 0, s.deleteErr
	}
	if _, ok := s.records[id]; !ok {
		return 0, nil
	}
	delete(s.records, id)
	return 1, nil
}

func storedRecord(id int64, email string) *models.Candidature {
	contact := "marie@example.com"
	return &models.Candidature{
		ID:                id,
		FirstName:         "Jean",
		LastName:          "Dupont",
		Nationality:       "Française",
		Gender:            "M",
		DateOfBirth:       "1990-01-01",
		PlaceOfBirth:      "Lyon",
		PhoneNumber:       "+33612345678",
		Email:             email,
		Organization:      "ACME",
		Country:           "France",
		CurrentPosition:   "Ingénieur",
		TaskDescription:   "Développement",
		Diploma:           "Master",
		Institution:       "Université de Lyon",
		Field:             "Informatique",
		Languages:         []string{"Français"},
		LanguageLevels:    map[string]string{"Anglais": "B2"},
		ExpectedResults:   "Certification",
		FundingSource:     []string{"self"},
		ContactPerson:     "Marie Martin",
		ContactEmail:      &contact,
		InformationSource: "Site web",
		Consent:           true,
		SubmissionDate:    time.Now().UTC(),
	}
}

// ==========================
// Export Tests
// ==========================

func TestService_ExportData(t *testing.T) {
	repo := newStubRepository(storedRecord(1, "jean@example.com"))
	svc := NewService(repo, logger.NewTestLogger(t))

	export, err := svc.ExportData(context.Background(), "jean@example.com")

	require.NoError(t, err)
	assert.Equal(t, 1, export.Metadata.RecordCount)
	assert.WithinDuration(t, time.Now().UTC(), export.Metadata.ExportedAt, 5*time.Second)
	require.Len(t, export.Data, 1)
	assert.Equal(t, "jean@example.com", export.Data[0].Email)
}

func TestService_ExportData_UnknownEmail(t *testing.T) {
	repo := newStubRepository()
	svc := NewService(repo, logger.NewTestLogger(t))

	export, err := svc.ExportData(context.Background(), "nobody@example.com")

	require.NoError(t, err)
	assert.Equal(t, 0, export.Metadata.RecordCount)
	assert.NotNil(t, export.Data)
	assert.Empty(t, export.Data)
}

// ==========================
// Update Tests
// ==========================

func TestService_UpdateData(t *testing.T) {
	repo := newStubRepository(storedRecord(1, "jean@example.com"))
	svc := NewService(repo, logger.NewTestLogger(t))

	updated, err := svc.UpdateData(context.Background(), 1, map[string]interface{}{
		"phoneNumber": "+33699999999",
	})

	require.NoError(t, err)
	assert.Equal(t, "+33699999999", updated.PhoneNumber)
	// Other fields keep their stored values.
	assert.Equal(t, "Jean", updated.FirstName)
	assert.Equal(t, "+33699999999", repo.records[1].PhoneNumber)
}

func TestService_UpdateData_ValidatesSuppliedFields(t *testing.T) {
	repo := newStubRepository(storedRecord(1, "jean@example.com"))
	svc := NewService(repo, logger.NewTestLogger(t))

	_, err := svc.UpdateData(context.Background(), 1, map[string]interface{}{
		"email": "not-an-email",
	})

	require.Error(t, err)
	var stdErr *errors.StandardError
	require.True(t, stderrs.As(err, &stdErr))
	assert.Equal(t, errors.ErrCodeValidationFailed, stdErr.Code)
	// The stored record is untouched.
	assert.Equal(t, "jean@example.com", repo.records[1].Email)
}

func TestService_UpdateData_NotFound(t *testing.T) {
	repo := newStubRepository()
	svc := NewService(repo, logger.NewTestLogger(t))

	_, err := svc.UpdateData(context.Background(), 42, map[string]interface{}{"firstName": "X"})

	require.Error(t, err)
	var stdErr *errors.StandardError
	require.True(t, stderrs.As(err, &stdErr))
	assert.Equal(t, errors.ErrCodeCandidatureNotFound, stdErr.Code)
}

// ==========================
// Delete & Anonymize Tests
// ==========================

func TestService_DeleteData(t *testing.T) {
	repo := newStubRepository(storedRecord(1, "jean@example.com"))
	svc := NewService(repo, logger.NewTestLogger(t))

	err := svc.DeleteData(context.Background(), 1)

	require.NoError(t, err)
	assert.Empty(t, repo.records)
}

func TestService_DeleteData_NotFound(t *testing.T) {
	repo := newStubRepository()
	svc := NewService(repo, logger.NewTestLogger(t))

	err := svc.DeleteData(context.Background(), 42)

	require.Error(t, err)
	var stdErr *errors.StandardError
	require.True(t, stderrs.As(err, &stdErr))
	assert.Equal(t, errors.ErrCodeCandidatureNotFound, stdErr.Code)
}

func TestService_AnonymizeData(t *testing.T) {
	repo := newStubRepository(storedRecord(1, "jean@example.com"))
	svc := NewService(repo, logger.NewTestLogger(t))

	anonymized, err := svc.AnonymizeData(context.Background(), 1)

	require.NoError(t, err)
	assert.Equal(t, "ANONYME", anonymized.FirstName)
	assert.Equal(t, "ANONYME", anonymized.LastName)
	assert.Equal(t, "ANONYME", anonymized.Nationality)
	assert.Equal(t, "ANONYME", anonymized.PhoneNumber)
	assert.Equal(t, "ANONYME", anonymized.Organization)
	assert.Equal(t, "ANONYME", anonymized.ContactPerson)
	assert.True(t, strings.HasPrefix(anonymized.Email, "anonyme_"))
	assert.True(t, strings.HasSuffix(anonymized.Email, "@anonyme.com"))
	require.NotNil(t, anonymized.ContactEmail)
	assert.Contains(t, *anonymized.ContactEmail, "_contact@anonyme.com")
	assert.False(t, anonymized.Consent)

	// Non-personal fields survive for statistics.
	assert.Equal(t, "Master", anonymized.Diploma)
	assert.Equal(t, "France", anonymized.Country)
	assert.Equal(t, []string{"self"}, anonymized.FundingSource)
}

func TestService_AnonymizeData_NotFound(t *testing.T) {
	repo := newStubRepository()
	svc := NewService(repo, logger.NewTestLogger(t))

	_, err := svc.AnonymizeData(context.Background(), 42)

	require.Error(t, err)
	var stdErr *errors.StandardError
	require.True(t, stderrs.As(err, &stdErr))
	assert.Equal(t, errors.ErrCodeCandidatureNotFound, stdErr.Code)
}
