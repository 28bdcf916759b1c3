// internal/email/service.go
package email

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	htmltemplate "html/template"
	"sort"
	"strings"
	texttemplate "text/template"

	"github.com/asaskevich/govalidator"
	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/ses"
	"github.com/aws/aws-sdk-go-v2/service/ses/types"

	"candidature-api/internal/common/config"
	"candidature-api/internal/common/logger"
	"candidature-api/internal/models"
)

const confirmationSubject = "Confirmation de réception de votre candidature"

var (
	ErrInvalidRecipient = errors.New("recipient email address missing or invalid")
	ErrSenderNotSet     = errors.New("sender email address not configured")
)

// SESService is the slice of the SES client this package needs, defined
// here so tests can substitute a mock.
type SESService interface {
	SendEmail(ctx context.Context, params *ses.SendEmailInput, optFns ...func(*ses.Options)) (*ses.SendEmailOutput, error)
}

// Service sends the French confirmation email recapping a submitted
// candidature, in both plain-text and HTML parts.
type Service struct {
	ses    SESService
	cfg    config.EmailConfig
	logger logger.Logger
}

func NewService(sesClient SESService, cfg config.EmailConfig, log logger.Logger) *Service {
	return &Service{
		ses:    sesClient,
		cfg:    cfg,
		logger: log.WithFields(map[string]interface{}{"component": "email-service"}),
	}
}

// Notify sends the confirmation email for a saved candidature.
func (s *Service) Notify(ctx context.Context, c *models.Candidature) error {
	if !govalidator.IsEmail(c.Email) {
		return fmt.Errorf("%w: %q", ErrInvalidRecipient, c.Email)
	}
	if s.cfg.FromEmail == "" {
		return ErrSenderNotSet
	}

	data := newTemplateData(c)

	var textBody, htmlBody bytes.Buffer
	if err := plainTemplate.Execute(&textBody, data); err != nil {
		return fmt.Errorf("render plain-text body: %w", err)
	}
	if err := htmlTemplate.Execute(&htmlBody, data); err != nil {
		return fmt.Errorf("render html body: %w", err)
	}

	source := s.cfg.FromEmail
	if s.cfg.FromName != "" {
		source = fmt.Sprintf("%s <%s>", s.cfg.FromName, s.cfg.FromEmail)
	}

	_, err := s.ses.SendEmail(ctx, &ses.SendEmailInput{
		Destination: &types.Destination{
			ToAddresses: []string{c.Email},
		},
		Message: &types.Message{
			Subject: &types.Content{
				Data:    aws.String(confirmationSubject),
				Charset: aws.String("UTF-8"),
			},
			Body: &types.Body{
				Text: &types.Content{
					Data:    aws.String(textBody.String()),
					Charset: aws.String("UTF-8"),
				},
				Html: &types.Content{
					Data:    aws.String(htmlBody.String()),
					Charset: aws.String("UTF-8"),
				},
			},
		},
		Source: aws.String(source),
	})
	if err != nil {
		return fmt.Errorf("ses send failed: %w", err)
	}

	s.logger.Info("confirmation email sent", map[string]interface{}{
		"to": c.Email,
		"id": c.ID,
	})
	return nil
}

// templateData carries the record with its optional fields already
// substituted by the French "not specified" wording, so the templates
// stay free of conditionals.
type templateData struct {
	FirstName         string
	LastName          string
	Email             string
	PhoneNumber       string
	Nationality       string
	PlaceOfBirth      string
	Country           string
	CurrentPosition   string
	Department        string
	Organization      string
	TaskDescription   string
	Diploma           string
	Institution       string
	Field             string
	Languages         string
	LanguageLevels    string
	ExpectedResults   string
	OtherInformation  string
	FundingSource     string
	InstitutionName   string
	ContactPerson     string
	ContactEmail      string
	InformationSource string
	SubmissionDate    string
}

func newTemplateData(c *models.Candidature) templateData {
	return templateData{
		FirstName:         c.FirstName,
		LastName:          c.LastName,
		Email:             c.Email,
		PhoneNumber:       c.PhoneNumber,
		Nationality:       c.Nationality,
		PlaceOfBirth:      c.PlaceOfBirth,
		Country:           c.Country,
		CurrentPosition:   c.CurrentPosition,
		Department:        orDefault(c.Department, "Non spécifié"),
		Organization:      orDefault(c.Organization, "Non spécifiée"),
		TaskDescription:   c.TaskDescription,
		Diploma:           c.Diploma,
		Institution:       c.Institution,
		Field:             c.Field,
		Languages:         listOrDefault(c.Languages),
		LanguageLevels:    levelsText(c.LanguageLevels),
		ExpectedResults:   c.ExpectedResults,
		OtherInformation:  orDefault(c.OtherInformation, "Aucune"),
		FundingSource:     listOrDefault(c.FundingSource),
		InstitutionName:   orDefault(c.InstitutionName, "Non spécifiée"),
		ContactPerson:     orDefault(c.ContactPerson, "Non spécifié"),
		ContactEmail:      ptrOrDefault(c.ContactEmail, "Non spécifié"),
		InformationSource: c.InformationSource,
		SubmissionDate:    c.SubmissionDate.Format("02/01/2006"),
	}
}

func orDefault(s, fallback string) string {
	if strings.TrimSpace(s) == "" {
		return fallback
	}
	return s
}

func ptrOrDefault(s *string, fallback string) string {
	if s == nil || strings.TrimSpace(*s) == "" {
		return fallback
	}
	return *s
}

func listOrDefault(items []string) string {
	if len(items) == 0 {
		return "Non spécifiée"
	}
	return strings.Join(items, ", ")
}

// levelsText renders the language-level map in stable alphabetical order.
func levelsText(levels map[string]string) string {
	if len(levels) == 0 {
		return "Non spécifiée"
	}
	langs := make([]string, 0, len(levels))
	for lang := range levels {
		langs = append(langs, lang)
	}
	sort.Strings(langs)

	parts := make([]string, 0, len(langs))
	for _, lang := range langs {
		parts = append(parts, fmt.Sprintf("%s: %s", lang, levels[lang]))
	}
	return strings.Join(parts, ", ")
}

var plainTemplate = texttemplate.Must(texttemplate.New("confirmation-text").Parse(`Bonjour {{.FirstName}} {{.LastName}},

Nous accusons bonne réception de votre candidature pour le programme de formation.

========== RÉCAPITULATIF DE VOTRE CANDIDATURE ==========

INFORMATIONS GÉNÉRALES :
- Nom complet : {{.FirstName}} {{.LastName}}
- Email : {{.Email}}
- Téléphone : {{.PhoneNumber}}
- Nationalité : {{.Nationality}}
- Lieu de naissance : {{.PlaceOfBirth}}
- Pays : {{.Country}}

INFORMATIONS PROFESSIONNELLES :
- Poste actuel : {{.CurrentPosition}}
- Département : {{.Department}}
- Organisation : {{.Organization}}
- Description des tâches : {{.TaskDescription}}

FORMATION & LANGUES :
- Diplôme : {{.Diploma}}
- Institution : {{.Institution}}
- Domaine : {{.Field}}
- Langues : {{.Languages}}
- Niveaux : {{.LanguageLevels}}

ATTENTES & FINANCEMENT :
- Résultats attendus : {{.ExpectedResults}}
- Informations supplémentaires : {{.OtherInformation}}
- Mode de financement : {{.FundingSource}}
- Institution de financement : {{.InstitutionName}}
- Contact financement : {{.ContactPerson}}
- Email contact financement : {{.ContactEmail}}
- Source d'information : {{.InformationSource}}

========================================================

Nous examinerons votre dossier avec attention et reviendrons vers vous dans les plus brefs délais.

Cordialement,
L'équipe de formation
`))

var htmlTemplate = htmltemplate.Must(htmltemplate.New("confirmation-html").Parse(`<!DOCTYPE html>
<html>
  <head>
    <meta charset="utf-8">
    <title>Confirmation de réception de votre candidature</title>
    <style>
      body { font-family: Arial, sans-serif; line-height: 1.6; color: #333; }
      .container { max-width: 700px; margin: 0 auto; padding: 20px; }
      .header { background-color: #2c3e50; color: white; padding: 20px; border-radius: 5px 5px 0 0; }
      .header h1 { margin: 0; font-size: 24px; }
      .section { border: 1px solid #ddd; margin: 15px 0; border-radius: 5px; overflow: hidden; }
      .section-title { background-color: #34495e; color: white; padding: 12px; font-weight: bold; }
      .section-content { padding: 15px; }
      .row { display: flex; justify-content: space-between; margin-bottom: 10px; }
      .label { font-weight: bold; color: #2c3e50; }
      .value { color: #555; }
      .footer { font-size: 0.85em; color: #999; border-top: 1px solid #ddd; margin-top: 20px; padding-top: 15px; text-align: center; }
      hr { border: none; border-top: 2px solid #ddd; margin: 20px 0; }
    </style>
  </head>
  <body>
    <div class="container">
      <div class="header">
        <h1>Candidature Reçue</h1>
        <p>Confirmation de réception de votre candidature</p>
      </div>

      <p style="margin-top: 20px;">Bonjour <strong>{{.FirstName}} {{.LastName}}</strong>,</p>

      <p>Nous vous remercions de votre candidature au programme de formation. Votre dossier a bien été reçu et enregistré dans notre système.</p>

      <div class="section">
        <div class="section-title">Informations Générales</div>
        <div class="section-content">
          <div class="row"><span class="label">Email :</span><span class="value">{{.Email}}</span></div>
          <div class="row"><span class="label">Téléphone :</span><span class="value">{{.PhoneNumber}}</span></div>
          <div class="row"><span class="label">Nationalité :</span><span class="value">{{.Nationality}}</span></div>
          <div class="row"><span class="label">Lieu de naissance :</span><span class="value">{{.PlaceOfBirth}}</span></div>
          <div class="row"><span class="label">Pays :</span><span class="value">{{.Country}}</span></div>
        </div>
      </div>

      <div class="section">
        <div class="section-title">Informations Professionnelles</div>
        <div class="section-content">
          <div class="row"><span class="label">Poste actuel :</span><span class="value">{{.CurrentPosition}}</span></div>
          <div class="row"><span class="label">Département :</span><span class="value">{{.Department}}</span></div>
          <div class="row"><span class="label">Organisation :</span><span class="value">{{.Organization}}</span></div>
          <div style="margin-top: 10px;">
            <span class="label">Description des tâches :</span>
            <p style="margin: 5px 0; color: #555;">{{.TaskDescription}}</p>
          </div>
        </div>
      </div>

      <div class="section">
        <div class="section-title">Formation &amp; Langues</div>
        <div class="section-content">
          <div class="row"><span class="label">Diplôme :</span><span class="value">{{.Diploma}}</span></div>
          <div class="row"><span class="label">Institution :</span><span class="value">{{.Institution}}</span></div>
          <div class="row"><span class="label">Domaine :</span><span class="value">{{.Field}}</span></div>
          <div class="row"><span class="label">Langues :</span><span class="value">{{.Languages}}</span></div>
          <div style="margin-top: 10px;">
            <span class="label">Niveaux de langue :</span>
            <p style="margin: 5px 0; color: #555;">{{.LanguageLevels}}</p>
          </div>
        </div>
      </div>

      <div class="section">
        <div class="section-title">Attentes &amp; Financement</div>
        <div class="section-content">
          <div style="margin-bottom: 10px;">
            <span class="label">Résultats attendus :</span>
            <p style="margin: 5px 0; color: #555;">{{.ExpectedResults}}</p>
          </div>
          <div style="margin-bottom: 10px;">
            <span class="label">Informations supplémentaires :</span>
            <p style="margin: 5px 0; color: #555;">{{.OtherInformation}}</p>
          </div>
          <div class="row"><span class="label">Mode de financement :</span><span class="value">{{.FundingSource}}</span></div>
          <div class="row"><span class="label">Institution financement :</span><span class="value">{{.InstitutionName}}</span></div>
          <div class="row"><span class="label">Contact financement :</span><span class="value">{{.ContactPerson}}</span></div>
          <div class="row"><span class="label">Email contact financement :</span><span class="value">{{.ContactEmail}}</span></div>
          <div class="row"><span class="label">Source d'information :</span><span class="value">{{.InformationSource}}</span></div>
        </div>
      </div>

      <hr>

      <p style="margin-top: 20px;">Nous examinerons votre dossier avec attention et reviendrons vers vous dans les plus brefs délais pour vous communiquer notre décision.</p>

      <p><strong>Cordialement,</strong><br>L'équipe de formation</p>

      <div class="footer">
        <p>Ceci est un email automatique. Merci de ne pas y répondre directement.</p>
        <p>Conformément à la réglementation RGPD sur la protection des données personnelles, vous disposez d'un droit d'accès, de rectification et d'effacement de vos données.</p>
        <p style="font-size: 0.8em; color: #bbb;">Candidature soumise le : {{.SubmissionDate}}</p>
      </div>
    </div>
  </body>
</html>
`))
