package qiskit

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// ClientConfig holds IBM Quantum API configuration.
type ClientConfig struct {
	// APIKey is the IBM Cloud API key.
	APIKey string

	// BaseURL for the IBM Quantum API.
	BaseURL string

	// Device is the remote execution target (e.g. "ibmq_qasm_simulator",
	// "ibm_kyoto").
	Device string

	// HTTPClient with timeout; a default is supplied when nil.
	HTTPClient *http.Client
}

// Client handles IBM Quantum REST interactions: authentication, job
// submission, polling and result retrieval.
type Client struct {
	config      *ClientConfig
	accessToken string
	tokenExpiry time.Time
}

// Job represents a submitted quantum job.
type Job struct {
	ID        string    `json:"id"`
	Backend   string    `json:"backend"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"created"`
}

// JobResult represents the counts payload of a completed job.
type JobResult struct {
	Counts        map[string]int `json:"counts"`
	Success       bool           `json:"success"`
	StatusMsg     string         `json:"status"`
	JobID         string         `json:"job_id"`
	ExecutionTime float64        `json:"execution_time"`
}

const (
	defaultBaseURL   = "https://api.quantum-computing.ibm.com"
	tokenEndpoint    = "/api/auth/login"
	jobsEndpoint     = "/api/Network/ibm-q/Groups/open/Projects/main/Jobs"
	defaultPollEvery = 2 * time.Second
)

// Job status values reported by the API.
const (
	JobStatusQueued    = "QUEUED"
	JobStatusRunning   = "RUNNING"
	JobStatusCompleted = "COMPLETED"
	JobStatusFailed    = "FAILED"
	JobStatusCancelled = "CANCELLED"
)

// NewClient creates an IBM Quantum API client and authenticates immediately.
func NewClient(config *ClientConfig) (*Client, error) {
	if config.APIKey == "" {
		return nil, fmt.Errorf("IBM Cloud API key is required")
	}
	if config.BaseURL == "" {
		config.BaseURL = defaultBaseURL
	}
	if config.HTTPClient == nil {
		config.HTTPClient = &http.Client{Timeout: 60 * time.Second}
	}

	client := &Client{config: config}
	if err := client.authenticate(); err != nil {
		return nil, fmt.Errorf("authentication failed: %w", err)
	}
	return client, nil
}

// authenticate obtains an access token from IBM Cloud.
func (c *Client) authenticate() error {
	payload, err := json.Marshal(map[string]string{"apiToken": c.config.APIKey})
	if err != nil {
		return err
	}

	req, err := http.NewRequest(http.MethodPost, c.config.BaseURL+tokenEndpoint, bytes.NewBuffer(payload))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.config.HTTPClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("authentication failed: %s (status: %d)", string(body), resp.StatusCode)
	}

	var result struct {
		ID          string `json:"id"`
		TTL         int    `json:"ttl"`
		AccessToken string `json:"access_token"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return err
	}

	c.accessToken = result.AccessToken
	c.tokenExpiry = time.Now().Add(time.Duration(result.TTL) * time.Second)
	return nil
}

// ensureAuthenticated refreshes the token shortly before it expires.
func (c *Client) ensureAuthenticated() error {
	if time.Now().After(c.tokenExpiry.Add(-5 * time.Minute)) {
		return c.authenticate()
	}
	return nil
}

// SubmitJob submits OpenQASM source for execution on the configured device.
func (c *Client) SubmitJob(ctx context.Context, qasm string, shots int) (*Job, error) {
	if err := c.ensureAuthenticated(); err != nil {
		return nil, err
	}

	payload, err := json.Marshal(map[string]any{
		"qasm":    qasm,
		"shots":   shots,
		"backend": c.config.Device,
	})
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.config.BaseURL+jobsEndpoint, bytes.NewBuffer(payload))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.accessToken)

	resp, err := c.config.HTTPClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("job submission failed: %s (status: %d)", string(body), resp.StatusCode)
	}

	var job Job
	if err := json.NewDecoder(resp.Body).Decode(&job); err != nil {
		return nil, err
	}
	return &job, nil
}

// GetJobStatus retrieves the current status of a job.
func (c *Client) GetJobStatus(ctx context.Context, jobID string) (*Job, error) {
	if err := c.ensureAuthenticated(); err != nil {
		return nil, err
	}

	url := fmt.Sprintf("%s%s/%s", c.config.BaseURL, jobsEndpoint, jobID)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+c.accessToken)

	resp, err := c.config.HTTPClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("get job status failed: %s (status: %d)", string(body), resp.StatusCode)
	}

	var job Job
	if err := json.NewDecoder(resp.Body).Decode(&job); err != nil {
		return nil, err
	}
	return &job, nil
}

// WaitForJob polls until the job completes, fails, is cancelled, or the
// context is done.
func (c *Client) WaitForJob(ctx context.Context, jobID string) (*Job, error) {
	ticker := time.NewTicker(defaultPollEvery)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil, fmt.Errorf("job %s: %w", jobID, ctx.Err())
		case <-ticker.C:
			job, err := c.GetJobStatus(ctx, jobID)
			if err != nil {
				return nil, err
			}
			switch job.Status {
			case JobStatusCompleted:
				return job, nil
			case JobStatusFailed:
				return job, fmt.Errorf("job %s failed", jobID)
			case JobStatusCancelled:
				return job, fmt.Errorf("job %s was cancelled", jobID)
				// QUEUED and RUNNING keep polling.
			}
		}
	}
}

// GetJobResult retrieves the counts of a completed job.
func (c *Client) GetJobResult(ctx context.Context, jobID string) (*JobResult, error) {
	if err := c.ensureAuthenticated(); err != nil {
		return nil, err
	}

	url := fmt.Sprintf("%s%s/%s/results", c.config.BaseURL, jobsEndpoint, jobID)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+c.accessToken)

	resp, err := c.config.HTTPClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("get job result failed: %s (status: %d)", string(body), resp.StatusCode)
	}

	var result JobResult
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, err
	}
	return &result, nil
}

// CancelJob cancels a queued or running job.
func (c *Client) CancelJob(ctx context.Context, jobID string) error {
	if err := c.ensureAuthenticated(); err != nil {
		return err
	}

	url := fmt.Sprintf("%s%s/%s/cancel", c.config.BaseURL, jobsEndpoint, jobID)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, nil)
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bearer "+c.accessToken)

	resp, err := c.config.HTTPClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("cancel job failed: %s (status: %d)", string(body), resp.StatusCode)
	}
	return nil
}

// ExecuteSync submits a circuit, waits for completion and returns the
// result. Cancellation and deadlines come from ctx.
func (c *Client) ExecuteSync(ctx context.Context, qasm string, shots int) (*JobResult, error) {
	job, err := c.SubmitJob(ctx, qasm, shots)
	if err != nil {
		return nil, fmt.Errorf("job submission failed: %w", err)
	}

	completed, err := c.WaitForJob(ctx, job.ID)
	if err != nil {
		return nil, fmt.Errorf("job execution failed: %w", err)
	}

	result, err := c.GetJobResult(ctx, completed.ID)
	if err != nil {
		return nil, fmt.Errorf("result retrieval failed: %w", err)
	}
	return result, nil
}
