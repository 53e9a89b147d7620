package zoho

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	commonhttp "leadflow/internal/common/http"
)

const DefaultBaseURL = "https://www.zohoapis.com/crm/v2"

type CRMClient struct {
	apiKey     string
	oauthToken string
	baseURL    string
	httpClient *commonhttp.Client
}

// Lead is the subset of the Zoho Leads module this service writes.
type Lead struct {
	ID          string `json:"id,omitempty"`
	Email       string `json:"Email"`
	FirstName   string `json:"First_Name,omitempty"`
	LastName    string `json:"Last_Name"`
	Phone       string `json:"Phone,omitempty"`
	Company     string `json:"Company,omitempty"`
	Industry    string `json:"Industry,omitempty"`
	Description string `json:"Description,omitempty"`
	Source      string `json:"Lead_Source,omitempty"`
}

type recordResponse struct {
	Data []struct {
		Code    string `json:"code"`
		Details struct {
			ID string `json:"id"`
		} `json:"details"`
		Message string `json:"message"`
		Status  string `json:"status"`
	} `json:"data"`
}

// ErrLeadNotFound is returned by GetLead when Zoho has no such record.
var ErrLeadNotFound = errors.New("lead not found")

type Option func(*CRMClient)

func WithBaseURL(baseURL string) Option {
	return func(c *CRMClient) {
		if baseURL != "" {
			c.baseURL = strings.TrimRight(baseURL, "/")
		}
	}
}

func WithTimeout(timeout time.Duration) Option {
	return func(c *CRMClient) {
		if timeout > 0 {
			c.httpClient = commonhttp.NewClient(timeout)
		}
	}
}

func NewCRMClient(apiKey, oauthToken string, opts ...Option) *CRMClient {
	c := &CRMClient{
		apiKey:     apiKey,
		oauthToken: oauthToken,
		baseURL:    DefaultBaseURL,
		httpClient: commonhttp.NewClient(30 * time.Second),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *CRMClient) headers() map[string]string {
	return map[string]string{"Authorization": "Zoho-oauthtoken " + c.oauthToken}
}

// CreateLead inserts a lead and returns its Zoho record id.
func (c *CRMClient) CreateLead(ctx context.Context, lead *Lead) (string, error) {
	payload := map[string]interface{}{
		"data": []Lead{*lead},
	}

	var resp recordResponse
	if _, err := c.httpClient.DoJSON(ctx, http.MethodPost, c.baseURL+"/Leads", c.headers(), payload, &resp); err != nil {
		return "", fmt.Errorf("failed to create lead: %w", err)
	}

	if len(resp.Data) == 0 {
		return "", fmt.Errorf("no data in response")
	}
	if resp.Data[0].Status != "success" {
		return "", fmt.Errorf("lead creation failed: %s", resp.Data[0].Message)
	}
	return resp.Data[0].Details.ID, nil
}

func (c *CRMClient) GetLead(ctx context.Context, leadID string) (*Lead, error) {
	var result struct {
		Data []Lead `json:"data"`
	}

	status, err := c.httpClient.DoJSON(ctx, http.MethodGet, c.baseURL+"/Leads/"+url.PathEscape(leadID), c.headers(), nil, &result)
	if err != nil {
		return nil, fmt.Errorf("failed to get lead: %w", err)
	}
	if status == http.StatusNoContent || len(result.Data) == 0 {
		return nil, ErrLeadNotFound
	}
	return &result.Data[0], nil
}

func (c *CRMClient) UpdateLead(ctx context.Context, leadID string, lead *Lead) error {
	payload := map[string]interface{}{
		"data": []Lead{*lead},
	}

	var resp recordResponse
	if _, err := c.httpClient.DoJSON(ctx, http.MethodPut, c.baseURL+"/Leads/"+url.PathEscape(leadID), c.headers(), payload, &resp); err != nil {
		return fmt.Errorf("failed to update lead: %w", err)
	}
	if len(resp.Data) > 0 && resp.Data[0].Status != "success" {
		return fmt.Errorf("lead update failed: %s", resp.Data[0].Message)
	}
	return nil
}

// SearchLeads looks leads up by email. Zoho answers 204 when nothing matches.
func (c *CRMClient) SearchLeads(ctx context.Context, email string) ([]Lead, error) {
	endpoint := fmt.Sprintf("%s/Leads/search?email=%s", c.baseURL, url.QueryEscape(email))

	var result struct {
		Data []Lead `json:"data"`
	}
	if _, err := c.httpClient.DoJSON(ctx, http.MethodGet, endpoint, c.headers(), nil, &result); err != nil {
		return nil, fmt.Errorf("failed to search leads: %w", err)
	}
	return result.Data, nil
}

// IsStatus reports whether err came from a Zoho response with the given status.
func IsStatus(err error, status int) bool {
	var se *commonhttp.StatusError
	return errors.As(err, &se) && se.StatusCode == status
}
