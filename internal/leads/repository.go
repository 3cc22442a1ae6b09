// Package leads stores and loads diagnostic leads in Postgres.
package leads

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"diagnostic-workers/internal/models"
)

// ErrNotFound is returned by GetByID when no row has the id.
var ErrNotFound = errors.New("lead not found")

const insertLead = `
	INSERT INTO diagnostic_campaign_leads (
		lead_name, lead_email, lead_phone, business_name, business_niche,
		business_num_employees, lgpd_consent,
		answer_q1, answer_q2, answer_q3, answer_q4, answer_q5, answer_q6,
		maturity_score,
		utm_source, utm_medium, utm_campaign, utm_term, utm_content,
		referrer, landing_url, gclid, fbclid
	) VALUES (
		$1, $2, $3, $4, $5, $6, $7,
		$8, $9, $10, $11, $12, $13,
		$14,
		$15, $16, $17, $18, $19,
		$20, $21, $22, $23
	)
	RETURNING id, register_date`

const selectLead = `
	SELECT id, register_date, lead_name, lead_email, lead_phone,
	       business_name, business_niche, business_num_employees, lgpd_consent,
	       answer_q1, answer_q2, answer_q3, answer_q4, answer_q5, answer_q6,
	       maturity_score,
	       utm_source, utm_medium, utm_campaign, utm_term, utm_content,
	       referrer, landing_url, gclid, fbclid
	FROM diagnostic_campaign_leads
	WHERE id = $1`

const insertAudit = `
	INSERT INTO audit_log (entity_type, entity_id, action, payload)
	VALUES ($1, $2, $3, $4)`

// Repository reads and writes diagnostic_campaign_leads.
type Repository struct {
	db *sql.DB
}

func NewRepository(db *sql.DB) *Repository {
	return &Repository{db: db}
}

// Insert stores lead and fills in its generated id and register date.
func (r *Repository) Insert(ctx context.Context, lead *models.Lead) error {
	err := r.db.QueryRowContext(ctx, insertLead,
		lead.Name,
		lead.Email,
		lead.Phone,
		nullable(lead.BusinessName),
		nullable(lead.BusinessNiche),
		nullable(lead.NumEmployees),
		lead.LGPDConsent,
		lead.Answers[0], lead.Answers[1], lead.Answers[2],
		lead.Answers[3], lead.Answers[4], lead.Answers[5],
		lead.MaturityScore,
		nullable(lead.UTMSource),
		nullable(lead.UTMMedium),
		nullable(lead.UTMCampaign),
		nullable(lead.UTMTerm),
		nullable(lead.UTMContent),
		nullable(lead.Referrer),
		nullable(lead.LandingURL),
		nullable(lead.GCLID),
		nullable(lead.FBCLID),
	).Scan(&lead.ID, &lead.RegisterDate)
	if err != nil {
		return fmt.Errorf("insert lead: %w", err)
	}
	return nil
}

// GetByID loads one lead. It returns ErrNotFound when the id is unknown.
func (r *Repository) GetByID(ctx context.Context, id int64) (*models.Lead, error) {
	var (
		lead                              models.Lead
		businessName, niche, employees    sql.NullString
		utmSource, utmMedium, utmCampaign sql.NullString
		utmTerm, utmContent, referrer     sql.NullString
		landingURL, gclid, fbclid         sql.NullString
	)

	err := r.db.QueryRowContext(ctx, selectLead, id).Scan(
		&lead.ID, &lead.RegisterDate, &lead.Name, &lead.Email, &lead.Phone,
		&businessName, &niche, &employees, &lead.LGPDConsent,
		&lead.Answers[0], &lead.Answers[1], &lead.Answers[2],
		&lead.Answers[3], &lead.Answers[4], &lead.Answers[5],
		&lead.MaturityScore,
		&utmSource, &utmMedium, &utmCampaign, &utmTerm, &utmContent,
		&referrer, &landingURL, &gclid, &fbclid,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("select lead %d: %w", id, err)
	}

	lead.BusinessName = businessName.String
	lead.BusinessNiche = niche.String
	lead.NumEmployees = employees.String
	lead.UTMSource = utmSource.String
	lead.UTMMedium = utmMedium.String
	lead.UTMCampaign = utmCampaign.String
	lead.UTMTerm = utmTerm.String
	lead.UTMContent = utmContent.String
	lead.Referrer = referrer.String
	lead.LandingURL = landingURL.String
	lead.GCLID = gclid.String
	lead.FBCLID = fbclid.String

	// answer columns are CHAR(1)
	for i := range lead.Answers {
		lead.Answers[i] = strings.TrimSpace(lead.Answers[i])
	}
	return &lead, nil
}

// Audit appends an audit_log row for a lead.
func (r *Repository) Audit(ctx context.Context, leadID int64, action string, payload map[string]interface{}) error {
	data, err := json.Marshal(payload)
	if err != nil {
		data = []byte("{}")
	}
	if _, err := r.db.ExecContext(ctx, insertAudit, "diagnostic_lead", fmt.Sprint(leadID), action, data); err != nil {
		return fmt.Errorf("insert audit log: %w", err)
	}
	return nil
}

func nullable(s string) interface{} {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	return s
}
