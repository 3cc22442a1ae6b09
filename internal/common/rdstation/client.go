// Package rdstation registers lead conversions with the RD Station Marketing API.
package rdstation

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	httpclient "diagnostic-workers/internal/common/http"
)

const (
	DefaultBaseURL = "https://api.rd.services"
	conversionPath = "/platform/events?event_type=conversion"
)

// ErrMissingRequiredFields is returned before any request when email or name is empty.
var ErrMissingRequiredFields = errors.New("missing required fields: email and nome are required")

// TokenSource supplies the bearer token for each request.
type TokenSource interface {
	Token(ctx context.Context) (string, error)
}

// Conversion is the lead data forwarded to the CRM.
type Conversion struct {
	Email        string
	Name         string
	Phone        string
	CompanyName  string
	BusinessSize string
	UTMSource    string
	UTMMedium    string
	UTMCampaign  string
	UTMAdset     string
	UTMAd        string
}

type eventRequest struct {
	EventType   string            `json:"event_type"`
	EventFamily string            `json:"event_family"`
	Payload     conversionPayload `json:"payload"`
}

type conversionPayload struct {
	ConversionIdentifier string `json:"conversion_identifier"`
	Email                string `json:"email"`
	Name                 string `json:"name"`
	PersonalPhone        string `json:"personal_phone,omitempty"`
	MobilePhone          string `json:"mobile_phone,omitempty"`
	CompanyName          string `json:"company_name,omitempty"`
	BusinessSize         string `json:"cf_business_size,omitempty"`
	UTMSource            string `json:"cf_utm_source,omitempty"`
	UTMMedium            string `json:"cf_utm_medium,omitempty"`
	UTMCampaign          string `json:"cf_utm_campaign,omitempty"`
	UTMAdset             string `json:"cf_utm_adset,omitempty"`
	UTMAd                string `json:"cf_utm_ad,omitempty"`
}

// EventResult is the API's acknowledgement of a conversion event.
type EventResult struct {
	EventUUID string `json:"event_uuid"`
}

type Client struct {
	baseURL              string
	conversionIdentifier string
	tokens               TokenSource
	http                 *httpclient.Client
}

// NewClient builds a client for baseURL. An empty baseURL uses the public API.
func NewClient(baseURL, conversionIdentifier string, tokens TokenSource, timeout time.Duration) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &Client{
		baseURL:              strings.TrimRight(baseURL, "/"),
		conversionIdentifier: conversionIdentifier,
		tokens:               tokens,
		http:                 httpclient.NewClient(timeout),
	}
}

// RegisterConversion posts a CONVERSION event for c.
func (c *Client) RegisterConversion(ctx context.Context, conv Conversion) (*EventResult, error) {
	if strings.TrimSpace(conv.Email) == "" || strings.TrimSpace(conv.Name) == "" {
		return nil, ErrMissingRequiredFields
	}

	token, err := c.tokens.Token(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to retrieve access token: %w", err)
	}

	body := eventRequest{
		EventType:   "CONVERSION",
		EventFamily: "CDP",
		Payload: conversionPayload{
			ConversionIdentifier: c.conversionIdentifier,
			Email:                conv.Email,
			Name:                 conv.Name,
			PersonalPhone:        conv.Phone,
			MobilePhone:          conv.Phone,
			CompanyName:          conv.CompanyName,
			BusinessSize:         conv.BusinessSize,
			UTMSource:            conv.UTMSource,
			UTMMedium:            conv.UTMMedium,
			UTMCampaign:          conv.UTMCampaign,
			UTMAdset:             conv.UTMAdset,
			UTMAd:                conv.UTMAd,
		},
	}

	resp, err := c.http.PostJSON(ctx, c.baseURL+conversionPath, map[string]string{
		"Authorization": "Bearer " + token,
	}, body)
	if err != nil {
		var statusErr *httpclient.StatusError
		if errors.As(err, &statusErr) && statusErr.StatusCode == http.StatusUnauthorized {
			if inv, ok := c.tokens.(interface{ Invalidate(context.Context) error }); ok {
				_ = inv.Invalidate(ctx)
			}
		}
		return nil, fmt.Errorf("failed to register conversion: %w", err)
	}

	var result EventResult
	if len(resp.Body) > 0 {
		if err := json.Unmarshal(resp.Body, &result); err != nil {
			return nil, fmt.Errorf("failed to unmarshal response: %w", err)
		}
	}
	return &result, nil
}
