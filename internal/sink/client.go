// internal/sink/client.go
package sink

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"go.uber.org/zap"

	"attendance-service/internal/config"
	"attendance-service/internal/model"
)

// RecordWriter writes attendance records to the external system of
// record. Writes are not retried here; callers decide whether a failure
// is surfaced to the operator.
type RecordWriter interface {
	WriteRecord(ctx context.Context, record model.AttendanceRecord) error
}

// UserFetcher fetches the registered-user snapshot from the remote
// registry.
type UserFetcher interface {
	FetchUsers(ctx context.Context) ([]model.RegisteredUser, error)
}

// Client talks to the attendance webhook (a spreadsheet-backed endpoint
// accepting JSON rows and serving the registration tab as JSON).
type Client struct {
	cfg        *config.SinkConfig
	httpClient *http.Client
	logger     *zap.Logger
}

// NewClient creates a webhook sink client
func NewClient(cfg *config.SinkConfig, logger *zap.Logger) *Client {
	return &Client{
		cfg:        cfg,
		httpClient: &http.Client{},
		logger:     logger.With(zap.String("component", "sink")),
	}
}

// WriteRecord posts one attendance record. The call carries its own
// timeout so a slow webhook cannot stall a caller indefinitely.
func (c *Client) WriteRecord(ctx context.Context, record model.AttendanceRecord) error {
	payload, err := json.Marshal(record)
	if err != nil {
		return fmt.Errorf("%w: encode record: %v", model.ErrSinkWriteFailed, err)
	}

	callCtx, cancel := context.WithTimeout(ctx, c.cfg.Timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(callCtx, http.MethodPost, c.cfg.URL, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("%w: build request: %v", model.ErrSinkWriteFailed, err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Error("Sink write failed", zap.Error(err))
		return fmt.Errorf("%w: %v", model.ErrSinkWriteFailed, err)
	}
	defer resp.Body.Close()
	io.Copy(io.Discard, resp.Body)

	if resp.StatusCode != http.StatusOK {
		c.logger.Error("Sink rejected record", zap.Int("status_code", resp.StatusCode))
		return fmt.Errorf("%w: status %d", model.ErrSinkWriteFailed, resp.StatusCode)
	}

	c.logger.Info("Record written to sink",
		zap.String("role", string(record.Role)),
		zap.String("card_id", record.CardID),
		zap.Bool("register_only", record.RegisterOnly),
	)
	return nil
}

// registryRow is the wire shape of one registry snapshot entry
type registryRow struct {
	CardID  string `json:"card_id"`
	Role    string `json:"role"`
	Name    string `json:"name"`
	RollNo  string `json:"roll_no"`
	Subject string `json:"subject"`
}

// FetchUsers retrieves the full registered-user snapshot
func (c *Client) FetchUsers(ctx context.Context) ([]model.RegisteredUser, error) {
	callCtx, cancel := context.WithTimeout(ctx, c.cfg.FetchTimeout)
	defer cancel()

	url := fmt.Sprintf("%s?tab=%s", c.cfg.URL, c.cfg.RegistryTab)
	req, err := http.NewRequestWithContext(callCtx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: build request: %v", model.ErrRegistryFetchFailed, err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", model.ErrRegistryFetchFailed, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: status %d", model.ErrRegistryFetchFailed, resp.StatusCode)
	}

	var rows []registryRow
	if err := json.NewDecoder(resp.Body).Decode(&rows); err != nil {
		return nil, fmt.Errorf("%w: decode snapshot: %v", model.ErrRegistryFetchFailed, err)
	}

	users := make([]model.RegisteredUser, 0, len(rows))
	for _, row := range rows {
		user := model.RegisteredUser{
			CardID:  row.CardID,
			Role:    model.Role(strings.ToLower(row.Role)),
			Name:    row.Name,
			RollNo:  row.RollNo,
			Subject: row.Subject,
		}
		if user.RollNo == "" {
			user.RollNo = "-"
		}
		if user.Subject == "" {
			user.Subject = "-"
		}
		users = append(users, user)
	}

	return users, nil
}
