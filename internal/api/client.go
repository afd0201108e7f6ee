// Package api implements the typed client for the case service's HTTP
// contract under /api/v1. It performs one request per operation and never
// retries; a failed call surfaces immediately and retry policy, if any,
// belongs to the caller.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/fincase/console-fin/internal/logging"
	"github.com/fincase/console-fin/internal/models"
)

const apiPrefix = "/api/v1"

// Client talks to the case service. It holds no state beyond the base
// endpoint and the underlying HTTP client.
type Client struct {
	baseURL    string
	httpClient *http.Client
	logger     *logrus.Logger
}

// NewClient creates a client for the service at baseURL.
func NewClient(baseURL string, timeout time.Duration, logger *logrus.Logger) (*Client, error) {
	if baseURL == "" {
		return nil, fmt.Errorf("api base URL is required")
	}
	if timeout == 0 {
		timeout = 30 * time.Second
	}
	if logger == nil {
		logger = logrus.New()
	}

	httpClient := &http.Client{
		Timeout: timeout,
		Transport: &http.Transport{
			MaxIdleConns:        10,
			MaxIdleConnsPerHost: 5,
			IdleConnTimeout:     30 * time.Second,
		},
	}

	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: httpClient,
		logger:     logger,
	}, nil
}

// do performs one request/response exchange. A non-2xx status yields a
// *RemoteError carrying the server's detail message; anything that fails
// before a status is obtained yields a *TransportError. When out is non-nil
// the success body is decoded into it.
func (c *Client) do(ctx context.Context, method, path string, body, out interface{}) error {
	op := method + " " + path

	var reqBody *bytes.Buffer
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return &TransportError{Op: op, Err: fmt.Errorf("encode request body: %w", err)}
		}
		reqBody = bytes.NewBuffer(data)
	} else {
		reqBody = &bytes.Buffer{}
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reqBody)
	if err != nil {
		return &TransportError{Op: op, Err: err}
	}

	requestID := uuid.NewString()
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Request-ID", requestID)

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	duration := time.Since(start)
	if err != nil {
		c.logger.WithFields(logrus.Fields{
			logging.FieldMethod:    method,
			logging.FieldPath:      path,
			logging.FieldRequestID: requestID,
			logging.FieldError:     err,
		}).Debug("request failed")
		return &TransportError{Op: op, Err: err}
	}
	defer resp.Body.Close()

	c.logger.WithFields(logrus.Fields{
		logging.FieldMethod:    method,
		logging.FieldPath:      path,
		logging.FieldRequestID: requestID,
		logging.FieldStatus:    resp.StatusCode,
		logging.FieldDuration:  duration.Milliseconds(),
	}).Debug("request completed")

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return &RemoteError{
			StatusCode: resp.StatusCode,
			Message:    decodeDetail(resp),
		}
	}

	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return &TransportError{Op: op, Err: fmt.Errorf("decode response: %w", err)}
		}
	}
	return nil
}

// decodeDetail extracts the server's "detail" error field, falling back to a
// generic message when the body is absent or unparseable.
func decodeDetail(resp *http.Response) string {
	var payload struct {
		Detail string `json:"detail"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil || payload.Detail == "" {
		return genericDetail
	}
	return payload.Detail
}

// Ping probes the service root and returns its status message.
func (c *Client) Ping(ctx context.Context) (string, error) {
	var payload struct {
		Message string `json:"message"`
	}
	// The health endpoint lives at the server root, outside the API prefix.
	if err := c.do(ctx, http.MethodGet, "/", nil, &payload); err != nil {
		return "", err
	}
	return payload.Message, nil
}

// ListCases fetches all case summaries. Summaries may omit transactions;
// callers must hydrate via GetCase before reading them.
func (c *Client) ListCases(ctx context.Context) ([]models.Case, error) {
	var cases []models.Case
	if err := c.do(ctx, http.MethodGet, apiPrefix+"/cases/", nil, &cases); err != nil {
		return nil, err
	}
	return cases, nil
}

// GetCase fetches one hydrated case, transactions included.
func (c *Client) GetCase(ctx context.Context, id int64) (models.Case, error) {
	var cs models.Case
	path := fmt.Sprintf("%s/cases/%d", apiPrefix, id)
	if err := c.do(ctx, http.MethodGet, path, nil, &cs); err != nil {
		return models.Case{}, err
	}
	return cs, nil
}

// CreateCase creates a new case from the draft.
func (c *Client) CreateCase(ctx context.Context, draft models.CaseDraft) (models.Case, error) {
	var cs models.Case
	if err := c.do(ctx, http.MethodPost, apiPrefix+"/cases/", draft, &cs); err != nil {
		return models.Case{}, err
	}
	return cs, nil
}

// UpdateCase replaces the editable fields of an existing case.
func (c *Client) UpdateCase(ctx context.Context, id int64, draft models.CaseDraft) (models.Case, error) {
	var cs models.Case
	path := fmt.Sprintf("%s/cases/%d", apiPrefix, id)
	if err := c.do(ctx, http.MethodPut, path, draft, &cs); err != nil {
		return models.Case{}, err
	}
	return cs, nil
}

// DeleteCase deletes a case and, server-side, its transactions.
func (c *Client) DeleteCase(ctx context.Context, id int64) error {
	path := fmt.Sprintf("%s/cases/%d", apiPrefix, id)
	return c.do(ctx, http.MethodDelete, path, nil, nil)
}

// ListTransactions fetches the transactions of one case.
func (c *Client) ListTransactions(ctx context.Context, caseID int64) ([]models.Transaction, error) {
	var txs []models.Transaction
	path := fmt.Sprintf("%s/cases/%d/transactions", apiPrefix, caseID)
	if err := c.do(ctx, http.MethodGet, path, nil, &txs); err != nil {
		return nil, err
	}
	return txs, nil
}

// CreateTransaction adds a transaction to a case.
func (c *Client) CreateTransaction(ctx context.Context, caseID int64, draft models.TransactionDraft) (models.Transaction, error) {
	var tx models.Transaction
	path := fmt.Sprintf("%s/cases/%d/transactions", apiPrefix, caseID)
	if err := c.do(ctx, http.MethodPost, path, draft, &tx); err != nil {
		return models.Transaction{}, err
	}
	return tx, nil
}

// DeleteTransaction deletes one transaction by its own id.
func (c *Client) DeleteTransaction(ctx context.Context, id int64) error {
	path := fmt.Sprintf("%s/transactions/%d", apiPrefix, id)
	return c.do(ctx, http.MethodDelete, path, nil, nil)
}

// Analyze runs the server-side anomaly analysis for a case. An empty result
// is a valid outcome meaning no anomalies were found.
func (c *Client) Analyze(ctx context.Context, caseID int64) ([]models.AnalysisEntry, error) {
	var entries []models.AnalysisEntry
	path := fmt.Sprintf("%s/cases/%d/analyze", apiPrefix, caseID)
	if err := c.do(ctx, http.MethodPost, path, nil, &entries); err != nil {
		return nil, err
	}
	return entries, nil
}
