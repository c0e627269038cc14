package tracking

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"
)

// ErrNoVersions — у модели нет зарегистрированных версий.
var ErrNoVersions = errors.New("model has no versions")

// --- Wire-формат ---

// Experiment — эксперимент на сервере трекинга.
type Experiment struct {
	ID   string `json:"experiment_id"`
	Name string `json:"name"`
}

// Run — запуск на сервере трекинга.
type Run struct {
	ID           string `json:"run_id"`
	ExperimentID string `json:"experiment_id"`
	Status       string `json:"status"`
}

// ModelVersion — версия модели в реестре трекинга.
type ModelVersion struct {
	Name    string `json:"name"`
	Version string `json:"version"`
	Source  string `json:"source"`
	RunID   string `json:"run_id,omitempty"`
	Status  string `json:"status,omitempty"`
}

// --- Client ---

// Client — HTTP-клиент сервера трекинга.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// NewClient создаёт клиент сервера трекинга.
func NewClient(baseURL string) *Client {
	return &Client{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// IsAlive проверяет доступность сервера трекинга.
func (c *Client) IsAlive(ctx context.Context) bool {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/health", nil)
	if err != nil {
		return false
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return false
	}
	defer resp.Body.Close()
	io.Copy(io.Discard, resp.Body)
	return resp.StatusCode == http.StatusOK
}

// --- Experiments ---

// CreateExperiment создаёт эксперимент и возвращает его ID.
func (c *Client) CreateExperiment(ctx context.Context, name string) (string, error) {
	var resp struct {
		ExperimentID string `json:"experiment_id"`
	}
	body := map[string]string{"name": name}
	if err := c.post(ctx, "/api/2.0/mlflow/experiments/create", body, &resp); err != nil {
		return "", fmt.Errorf("create experiment %q: %w", name, err)
	}
	return resp.ExperimentID, nil
}

// GetExperimentByName возвращает эксперимент по имени.
func (c *Client) GetExperimentByName(ctx context.Context, name string) (*Experiment, error) {
	var resp struct {
		Experiment Experiment `json:"experiment"`
	}
	params := url.Values{"experiment_name": {name}}
	if err := c.get(ctx, "/api/2.0/mlflow/experiments/get-by-name", params, &resp); err != nil {
		return nil, fmt.Errorf("get experiment %q: %w", name, err)
	}
	return &resp.Experiment, nil
}

// --- Runs ---

// StartRun создаёт запуск в эксперименте.
func (c *Client) StartRun(ctx context.Context, experimentID string) (*Run, error) {
	var resp struct {
		Run struct {
			Info Run `json:"info"`
		} `json:"run"`
	}
	body := map[string]any{
		"experiment_id": experimentID,
		"start_time":    time.Now().UnixMilli(),
	}
	if err := c.post(ctx, "/api/2.0/mlflow/runs/create", body, &resp); err != nil {
		return nil, fmt.Errorf("start run: %w", err)
	}
	return &resp.Run.Info, nil
}

// EndRun помечает запуск завершённым.
func (c *Client) EndRun(ctx context.Context, runID, status string) error {
	body := map[string]any{
		"run_id":   runID,
		"status":   status,
		"end_time": time.Now().UnixMilli(),
	}
	if err := c.post(ctx, "/api/2.0/mlflow/runs/update", body, nil); err != nil {
		return fmt.Errorf("end run %s: %w", runID, err)
	}
	return nil
}

// LogParam записывает параметр запуска.
func (c *Client) LogParam(ctx context.Context, runID, key string, value any) error {
	body := map[string]any{
		"run_id": runID,
		"key":    key,
		"value":  fmt.Sprintf("%v", value),
	}
	if err := c.post(ctx, "/api/2.0/mlflow/runs/log-parameter", body, nil); err != nil {
		return fmt.Errorf("log param %q: %w", key, err)
	}
	return nil
}

// LogMetric записывает метрику запуска.
func (c *Client) LogMetric(ctx context.Context, runID, key string, value float64) error {
	body := map[string]any{
		"run_id":    runID,
		"key":       key,
		"value":     value,
		"timestamp": time.Now().UnixMilli(),
	}
	if err := c.post(ctx, "/api/2.0/mlflow/runs/log-metric", body, nil); err != nil {
		return fmt.Errorf("log metric %q: %w", key, err)
	}
	return nil
}

// --- Model registry ---

// RegisterModel регистрирует имя модели в реестре.
func (c *Client) RegisterModel(ctx context.Context, name string) error {
	body := map[string]string{"name": name}
	if err := c.post(ctx, "/api/2.0/mlflow/registered-models/create", body, nil); err != nil {
		return fmt.Errorf("register model %q: %w", name, err)
	}
	return nil
}

// CreateModelVersion создаёт версию модели из артефакта.
func (c *Client) CreateModelVersion(ctx context.Context, name, source, runID string) (*ModelVersion, error) {
	var resp struct {
		ModelVersion ModelVersion `json:"model_version"`
	}
	body := map[string]string{
		"name":   name,
		"source": source,
		"run_id": runID,
	}
	if err := c.post(ctx, "/api/2.0/mlflow/model-versions/create", body, &resp); err != nil {
		return nil, fmt.Errorf("create model version %q: %w", name, err)
	}
	return &resp.ModelVersion, nil
}

// SearchModelVersions ищет версии моделей по фильтру.
func (c *Client) SearchModelVersions(ctx context.Context, filter string) ([]ModelVersion, error) {
	var resp struct {
		ModelVersions []ModelVersion `json:"model_versions"`
	}
	params := url.Values{}
	if filter != "" {
		params.Set("filter", filter)
	}
	if err := c.get(ctx, "/api/2.0/mlflow/model-versions/search", params, &resp); err != nil {
		return nil, fmt.Errorf("search model versions: %w", err)
	}
	return resp.ModelVersions, nil
}

// LatestModelVersion возвращает последнюю версию модели.
func (c *Client) LatestModelVersion(ctx context.Context, name string) (*ModelVersion, error) {
	versions, err := c.SearchModelVersions(ctx, fmt.Sprintf("name='%s'", name))
	if err != nil {
		return nil, err
	}
	if len(versions) == 0 {
		return nil, fmt.Errorf("%w: %q", ErrNoVersions, name)
	}

	latest := versions[0]
	for _, v := range versions[1:] {
		if v.Version > latest.Version {
			latest = v
		}
	}
	return &latest, nil
}

// --- HTTP helpers ---

func (c *Client) get(ctx context.Context, path string, params url.Values, result any) error {
	if len(params) > 0 {
		path = path + "?" + params.Encode()
	}
	return c.doJSON(ctx, http.MethodGet, path, nil, result)
}

func (c *Client) post(ctx context.Context, path string, body, result any) error {
	return c.doJSON(ctx, http.MethodPost, path, body, result)
}

func (c *Client) doJSON(ctx context.Context, method, path string, body, result any) error {
	var bodyReader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to marshal request: %w", err)
		}
		bodyReader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, bodyReader)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		data, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return fmt.Errorf("tracking server error: HTTP %d: %s", resp.StatusCode, bytes.TrimSpace(data))
	}

	if result == nil {
		io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(result); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}
