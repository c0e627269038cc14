package orchestrator

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/shaiso/fedflow/internal/domain"
)

// --- Wire-формат ---

type submitRequest struct {
	Graph      *domain.GraphDefinition `json:"graph"`
	Arguments  map[string]any          `json:"arguments,omitempty"`
	RunName    string                  `json:"run_name,omitempty"`
	Experiment string                  `json:"experiment,omitempty"`
}

type runStatusResponse struct {
	Status domain.RunStatus `json:"status"`
}

type readyResponse struct {
	Ready bool `json:"ready"`
}

type addressResponse struct {
	Address string `json:"address"`
}

type serveModelRequest struct {
	Name     string `json:"name"`
	ModelURI string `json:"model_uri"`
}

type dataResponse struct {
	Data json.RawMessage `json:"data"`
}

type errorResponse struct {
	Error struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

// --- HTTPClient ---

// HTTPClient — реализация Client поверх REST API оркестратора.
type HTTPClient struct {
	baseURL    string
	httpClient *http.Client
}

// NewHTTPClient создаёт клиент оркестратора.
func NewHTTPClient(baseURL string) *HTTPClient {
	return &HTTPClient{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// Submit отправляет граф на исполнение.
func (c *HTTPClient) Submit(ctx context.Context, graph *domain.GraphDefinition, arguments map[string]any, opts SubmitOptions) (*domain.RunHandle, error) {
	req := submitRequest{
		Graph:      graph,
		Arguments:  arguments,
		RunName:    opts.RunName,
		Experiment: opts.Experiment,
	}

	var handle domain.RunHandle
	if err := c.doData(ctx, http.MethodPost, "/api/v1/runs", req, &handle); err != nil {
		return nil, fmt.Errorf("submit graph: %w", err)
	}
	return &handle, nil
}

// GetRunStatus возвращает текущий статус запуска.
func (c *HTTPClient) GetRunStatus(ctx context.Context, runID uuid.UUID) (domain.RunStatus, error) {
	var resp runStatusResponse
	if err := c.doData(ctx, http.MethodGet, "/api/v1/runs/"+runID.String(), nil, &resp); err != nil {
		return "", fmt.Errorf("get run status: %w", err)
	}
	return resp.Status, nil
}

// DeleteRun удаляет запуск.
func (c *HTTPClient) DeleteRun(ctx context.Context, runID uuid.UUID) error {
	if err := c.doData(ctx, http.MethodDelete, "/api/v1/runs/"+runID.String(), nil, nil); err != nil {
		return fmt.Errorf("delete run: %w", err)
	}
	return nil
}

// CreateService создаёт именованный сервис-эндпоинт.
func (c *HTTPClient) CreateService(ctx context.Context, name string) error {
	body := map[string]string{"name": name}
	if err := c.doData(ctx, http.MethodPost, "/api/v1/services", body, nil); err != nil {
		return fmt.Errorf("create service %q: %w", name, err)
	}
	return nil
}

// DeleteService удаляет сервис-эндпоинт.
func (c *HTTPClient) DeleteService(ctx context.Context, name string) error {
	if err := c.doData(ctx, http.MethodDelete, "/api/v1/services/"+name, nil, nil); err != nil {
		return fmt.Errorf("delete service %q: %w", name, err)
	}
	return nil
}

// IsEndpointReady сообщает, готов ли эндпоинт принимать трафик.
func (c *HTTPClient) IsEndpointReady(ctx context.Context, name string) (bool, error) {
	var resp readyResponse
	if err := c.doData(ctx, http.MethodGet, "/api/v1/services/"+name+"/ready", nil, &resp); err != nil {
		return false, fmt.Errorf("query readiness %q: %w", name, err)
	}
	return resp.Ready, nil
}

// EndpointAddress возвращает адрес готового эндпоинта.
func (c *HTTPClient) EndpointAddress(ctx context.Context, name string) (string, error) {
	var resp addressResponse
	if err := c.doData(ctx, http.MethodGet, "/api/v1/services/"+name+"/address", nil, &resp); err != nil {
		return "", fmt.Errorf("get address %q: %w", name, err)
	}
	if resp.Address == "" {
		return "", fmt.Errorf("%w: %q", ErrNoAddress, name)
	}
	return resp.Address, nil
}

// ServeModel разворачивает inference-сервис для артефакта модели.
func (c *HTTPClient) ServeModel(ctx context.Context, name, modelURI string) error {
	req := serveModelRequest{Name: name, ModelURI: modelURI}
	if err := c.doData(ctx, http.MethodPost, "/api/v1/inference-services", req, nil); err != nil {
		return fmt.Errorf("serve model %q: %w", name, err)
	}
	return nil
}

// DeleteServedModel удаляет inference-сервис.
func (c *HTTPClient) DeleteServedModel(ctx context.Context, name string) error {
	if err := c.doData(ctx, http.MethodDelete, "/api/v1/inference-services/"+name, nil, nil); err != nil {
		return fmt.Errorf("delete served model %q: %w", name, err)
	}
	return nil
}

// --- HTTP helpers ---

func (c *HTTPClient) doData(ctx context.Context, method, path string, body, result any) error {
	resp, err := c.do(ctx, method, path, body)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if err := c.checkError(resp); err != nil {
		return err
	}

	// 204 No Content
	if resp.StatusCode == http.StatusNoContent || result == nil {
		io.Copy(io.Discard, resp.Body)
		return nil
	}

	var dr dataResponse
	if err := json.NewDecoder(resp.Body).Decode(&dr); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return json.Unmarshal(dr.Data, result)
}

func (c *HTTPClient) do(ctx context.Context, method, path string, body any) (*http.Response, error) {
	var bodyReader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal request: %w", err)
		}
		bodyReader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, bodyReader)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	return c.httpClient.Do(req)
}

// checkError маппит HTTP-статусы на ошибки пакета.
func (c *HTTPClient) checkError(resp *http.Response) error {
	if resp.StatusCode < 400 {
		return nil
	}

	var er errorResponse
	if err := json.NewDecoder(resp.Body).Decode(&er); err != nil {
		er.Error.Message = fmt.Sprintf("HTTP %d", resp.StatusCode)
	}

	switch resp.StatusCode {
	case http.StatusNotFound:
		return fmt.Errorf("%w: %s", ErrNotFound, er.Error.Message)
	case http.StatusConflict:
		return fmt.Errorf("%w: %s", ErrAlreadyExists, er.Error.Message)
	}
	return fmt.Errorf("orchestrator error: %s %s", er.Error.Code, er.Error.Message)
}
