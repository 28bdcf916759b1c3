// internal/candidature/repository.go
package candidature

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/lib/pq"

	"candidature-api/internal/common/errors"
	"candidature-api/internal/common/logger"
	"candidature-api/internal/models"
)

// Repository is the persistence contract the service and the data-rights
// operations depend on.
type Repository interface {
	Save(ctx context.Context, c *models.Candidature) (*models.Candidature, error)
	FindByID(ctx context.Context, id int64) (*models.Candidature, error)
	FindByEmail(ctx context.Context, email string) ([]*models.Candidature, error)
	Update(ctx context.Context, c *models.Candidature) error
	Delete(ctx context.Context, id int64) (int64, error)
}

// uniqueViolation is the Postgres error code raised by the unique index
// on candidatures.email.
const uniqueViolation = "23505"

const candidatureColumns = `
	id, first_name, last_name, nationality, gender, date_of_birth,
	place_of_birth, phone_number, email, organization, country,
	department, current_position, task_description,
	diploma, institution, field, languages, language_levels,
	expected_results, other_information,
	funding_source, institution_name, contact_person, contact_email,
	information_source, consent, submission_date`

// PostgresRepository stores candidatures in a single candidatures table,
// with text[] columns for the list fields and jsonb for language levels.
type PostgresRepository struct {
	db     *sql.DB
	logger logger.Logger
}

func NewPostgresRepository(db *sql.DB, log logger.Logger) *PostgresRepository {
	return &PostgresRepository{
		db:     db,
		logger: log.WithFields(map[string]interface{}{"component": "candidature-repository"}),
	}
}

func (r *PostgresRepository) Save(ctx context.Context, c *models.Candidature) (*models.Candidature, error) {
	levelsJSON, err := json.Marshal(c.LanguageLevels)
	if err != nil {
		return nil, errors.NewDatabaseQueryFailedError("save", err)
	}

	saved := *c
	err = r.db.QueryRowContext(ctx, `
		INSERT INTO candidatures (
			first_name, last_name, nationality, gender, date_of_birth,
			place_of_birth, phone_number, email, organization, country,
			department, current_position, task_description,
			diploma, institution, field, languages, language_levels,
			expected_results, other_information,
			funding_source, institution_name, contact_person, contact_email,
			information_source, consent, submission_date
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7, $8, $9, $10,
			$11, $12, $13, $14, $15, $16, $17, $18, $19, $20,
			$21, $22, $23, $24, $25, $26, NOW()
		) RETURNING id, submission_date`,
		c.FirstName, c.LastName, c.Nationality, c.Gender, c.DateOfBirth,
		c.PlaceOfBirth, c.PhoneNumber, c.Email, c.Organization, c.Country,
		c.Department, c.CurrentPosition, c.TaskDescription,
		c.Diploma, c.Institution, c.Field, pq.Array(c.Languages), levelsJSON,
		c.ExpectedResults, c.OtherInformation,
		pq.Array(c.FundingSource), c.InstitutionName, c.ContactPerson, nullableString(c.ContactEmail),
		c.InformationSource, c.Consent,
	).Scan(&saved.ID, &saved.SubmissionDate)
	if err != nil {
		if isUniqueViolation(err) {
			r.logger.Warn("duplicate candidature rejected", map[string]interface{}{
				"email": c.Email,
			})
			return nil, errors.NewDuplicateCandidatureError(c.Email)
		}
		return nil, errors.NewDatabaseQueryFailedError("save", err)
	}

	r.logger.Info("candidature saved", map[string]interface{}{
		"id":    saved.ID,
		"email": saved.Email,
	})
	return &saved, nil
}

func (r *PostgresRepository) FindByID(ctx context.Context, id int64) (*models.Candidature, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT`+candidatureColumns+` FROM candidatures WHERE id = $1`, id)

	c, err := scanCandidature(row)
	if err == sql.ErrNoRows {
		return nil, errors.NewCandidatureNotFoundError(id)
	}
	if err != nil {
		return nil, errors.NewDatabaseQueryFailedError("findById", err)
	}
	return c, nil
}

func (r *PostgresRepository) FindByEmail(ctx context.Context, email string) ([]*models.Candidature, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT`+candidatureColumns+` FROM candidatures WHERE email = $1 ORDER BY id`, email)
	if err != nil {
		return nil, errors.NewDatabaseQueryFailedError("findByEmail", err)
	}
	defer rows.Close()

	var out []*models.Candidature
	for rows.Next() {
		c, err := scanCandidature(rows)
		if err != nil {
			return nil, errors.NewDatabaseQueryFailedError("findByEmail", err)
		}
		out = append(out, c)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.NewDatabaseQueryFailedError("findByEmail", err)
	}
	return out, nil
}

func (r *PostgresRepository) Update(ctx context.Context, c *models.Candidature) error {
	levelsJSON, err := json.Marshal(c.LanguageLevels)
	if err != nil {
		return errors.NewDatabaseQueryFailedError("update", err)
	}

	result, err := r.db.ExecContext(ctx, `
		UPDATE candidatures SET
			first_name = $1, last_name = $2, nationality = $3, gender = $4,
			date_of_birth = $5, place_of_birth = $6, phone_number = $7,
			email = $8, organization = $9, country = $10,
			department = $11, current_position = $12, task_description = $13,
			diploma = $14, institution = $15, field = $16,
			languages = $17, language_levels = $18,
			expected_results = $19, other_information = $20,
			funding_source = $21, institution_name = $22, contact_person = $23,
			contact_email = $24, information_source = $25, consent = $26
		WHERE id = $27`,
		c.FirstName, c.LastName, c.Nationality, c.Gender,
		c.DateOfBirth, c.PlaceOfBirth, c.PhoneNumber,
		c.Email, c.Organization, c.Country,
		c.Department, c.CurrentPosition, c.TaskDescription,
		c.Diploma, c.Institution, c.Field,
		pq.Array(c.Languages), levelsJSON,
		c.ExpectedResults, c.OtherInformation,
		pq.Array(c.FundingSource), c.InstitutionName, c.ContactPerson,
		nullableString(c.ContactEmail), c.InformationSource, c.Consent,
		c.ID,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return errors.NewDuplicateCandidatureError(c.Email)
		}
		return errors.NewDatabaseQueryFailedError("update", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return errors.NewDatabaseQueryFailedError("update", err)
	}
	if affected == 0 {
		return errors.NewCandidatureNotFoundError(c.ID)
	}

	r.logger.Info("candidature updated", map[string]interface{}{"id": c.ID})
	return nil
}

func (r *PostgresRepository) Delete(ctx context.Context, id int64) (int64, error) {
	result, err := r.db.ExecContext(ctx, `DELETE FROM candidatures WHERE id = $1`, id)
	if err != nil {
		return 0, errors.NewDatabaseQueryFailedError("delete", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return 0, errors.NewDatabaseQueryFailedError("delete", err)
	}

	r.logger.Info("candidature deleted", map[string]interface{}{
		"id":       id,
		"affected": affected,
	})
	return affected, nil
}

// rowScanner lets scanCandidature serve both QueryRowContext and the
// rows iterator.
type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanCandidature(row rowScanner) (*models.Candidature, error) {
	var (
		c            models.Candidature
		languages    pq.StringArray
		funding      pq.StringArray
		levelsJSON   []byte
		contactEmail sql.NullString
	)

	err := row.Scan(
		&c.ID, &c.FirstName, &c.LastName, &c.Nationality, &c.Gender, &c.DateOfBirth,
		&c.PlaceOfBirth, &c.PhoneNumber, &c.Email, &c.Organization, &c.Country,
		&c.Department, &c.CurrentPosition, &c.TaskDescription,
		&c.Diploma, &c.Institution, &c.Field, &languages, &levelsJSON,
		&c.ExpectedResults, &c.OtherInformation,
		&funding, &c.InstitutionName, &c.ContactPerson, &contactEmail,
		&c.InformationSource, &c.Consent, &c.SubmissionDate,
	)
	if err != nil {
		return nil, err
	}

	c.Languages = []string(languages)
	c.FundingSource = []string(funding)
	c.LanguageLevels = map[string]string{}
	if len(levelsJSON) > 0 {
		if err := json.Unmarshal(levelsJSON, &c.LanguageLevels); err != nil {
			return nil, fmt.Errorf("decode language levels: %w", err)
		}
	}
	if contactEmail.Valid {
		c.ContactEmail = &contactEmail.String
	}
	return &c, nil
}

func nullableString(s *string) sql.NullString {
	if s == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: *s, Valid: true}
}

func isUniqueViolation(err error) bool {
	if pqErr, ok := err.(*pq.Error); ok {
		return string(pqErr.Code) == uniqueViolation
	}
	return false
}
