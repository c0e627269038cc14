package registry

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/shaiso/fedflow/internal/domain"
)

// Ошибки клиента реестра.
var (
	// ErrNotFound — ресурс не найден в реестре.
	ErrNotFound = errors.New("registry: not found")

	// ErrAlreadyExists — ресурс уже зарегистрирован.
	ErrAlreadyExists = errors.New("registry: already exists")
)

// --- Response types (дублируются из api/dto.go, клиент не импортирует internal/api) ---

// DatasetResponse — датасет из реестра.
type DatasetResponse struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	Source      string `json:"source,omitempty"`
	UserID      string `json:"user_id,omitempty"`
	CreatedAt   string `json:"created_at"`
	UpdatedAt   string `json:"updated_at"`
}

// ModelResponse — модель из реестра.
type ModelResponse struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Version     string `json:"version,omitempty"`
	Description string `json:"description,omitempty"`
	URI         string `json:"uri,omitempty"`
	RunID       string `json:"run_id,omitempty"`
	CreatedAt   string `json:"created_at"`
	UpdatedAt   string `json:"updated_at"`
}

// ModelDatasetLinkResponse — связь модель-датасет из реестра.
type ModelDatasetLinkResponse struct {
	ModelID   string `json:"model_id"`
	DatasetID string `json:"dataset_id"`
	LinkedAt  string `json:"linked_at"`
}

// BrokerResponse — брокер из реестра.
type BrokerResponse struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Host      string `json:"host"`
	Port      int    `json:"port"`
	CreatedAt string `json:"created_at"`
}

// TopicResponse — топик из реестра.
type TopicResponse struct {
	ID        string `json:"id"`
	BrokerID  string `json:"broker_id"`
	Name      string `json:"name"`
	CreatedAt string `json:"created_at"`
}

// TopicDetailResponse — описание потокового датасета.
type TopicDetailResponse struct {
	DatasetID  string `json:"dataset_id"`
	BrokerName string `json:"broker_name"`
	Host       string `json:"host"`
	Port       int    `json:"port"`
	TopicName  string `json:"topic_name"`
}

// ScheduleResponse — расписание из реестра.
type ScheduleResponse struct {
	ID           string         `json:"id"`
	Name         string         `json:"name,omitempty"`
	PipelineName string         `json:"pipeline_name"`
	Arguments    map[string]any `json:"arguments,omitempty"`
	CronExpr     string         `json:"cron_expr,omitempty"`
	IntervalSec  int            `json:"interval_sec,omitempty"`
	Timezone     string         `json:"timezone"`
	Enabled      bool           `json:"enabled"`
	NextDueAt    string         `json:"next_due_at,omitempty"`
	LastRunAt    string         `json:"last_run_at,omitempty"`
	LastRunID    string         `json:"last_run_id,omitempty"`
	CreatedAt    string         `json:"created_at"`
	UpdatedAt    string         `json:"updated_at"`
}

// --- Request types ---

// RegisterDatasetRequest — регистрация датасета.
type RegisterDatasetRequest struct {
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	Source      string `json:"source,omitempty"`
	UserID      string `json:"user_id,omitempty"`
}

// SaveModelRequest — сохранение модели.
type SaveModelRequest struct {
	Name        string `json:"name"`
	Version     string `json:"version,omitempty"`
	Description string `json:"description,omitempty"`
	URI         string `json:"uri,omitempty"`
	RunID       string `json:"run_id,omitempty"`
}

// CreateScheduleRequest — создание расписания с уже собранным графом.
type CreateScheduleRequest struct {
	Name        string                 `json:"name,omitempty"`
	Graph       domain.GraphDefinition `json:"graph"`
	Arguments   map[string]any         `json:"arguments,omitempty"`
	CronExpr    string                 `json:"cron_expr,omitempty"`
	IntervalSec int                    `json:"interval_sec,omitempty"`
	Timezone    string                 `json:"timezone,omitempty"`
	Enabled     bool                   `json:"enabled"`
}

// ListSchedulesOpts — параметры фильтрации расписаний.
type ListSchedulesOpts struct {
	PipelineName string
	Enabled      *bool
	Limit        int
}

// --- API response wrappers ---

type dataResponse struct {
	Data json.RawMessage `json:"data"`
}

type listResponse struct {
	Data  json.RawMessage `json:"data"`
	Total int             `json:"total"`
}

type errorResponse struct {
	Error struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

// --- Client ---

// Client — HTTP-клиент реестра метаданных.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// NewClient создаёт клиент реестра.
func NewClient(baseURL string) *Client {
	return &Client{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// --- Datasets ---

// RegisterDataset регистрирует датасет.
func (c *Client) RegisterDataset(req RegisterDatasetRequest) (*DatasetResponse, error) {
	var ds DatasetResponse
	err := c.post("/api/v1/datasets", req, &ds)
	return &ds, err
}

// GetDataset возвращает датасет по ID.
func (c *Client) GetDataset(id string) (*DatasetResponse, error) {
	var ds DatasetResponse
	err := c.get("/api/v1/datasets/"+id, &ds)
	return &ds, err
}

// GetDatasetByName возвращает датасет по имени.
func (c *Client) GetDatasetByName(name string) (*DatasetResponse, error) {
	params := url.Values{}
	params.Set("name", name)

	var datasets []DatasetResponse
	if err := c.list("/api/v1/datasets", params, &datasets); err != nil {
		return nil, err
	}
	if len(datasets) == 0 {
		return nil, ErrNotFound
	}
	return &datasets[0], nil
}

// ListDatasets возвращает все датасеты.
func (c *Client) ListDatasets() ([]DatasetResponse, error) {
	var datasets []DatasetResponse
	err := c.list("/api/v1/datasets", nil, &datasets)
	return datasets, err
}

// DeleteDataset удаляет датасет.
func (c *Client) DeleteDataset(id string) error {
	return c.delete("/api/v1/datasets/" + id)
}

// --- Models ---

// SaveModel сохраняет модель в реестре.
func (c *Client) SaveModel(req SaveModelRequest) (*ModelResponse, error) {
	var m ModelResponse
	err := c.post("/api/v1/models", req, &m)
	return &m, err
}

// GetModel возвращает модель по ID.
func (c *Client) GetModel(id string) (*ModelResponse, error) {
	var m ModelResponse
	err := c.get("/api/v1/models/"+id, &m)
	return &m, err
}

// ListModels возвращает все модели.
func (c *Client) ListModels() ([]ModelResponse, error) {
	var models []ModelResponse
	err := c.list("/api/v1/models", nil, &models)
	return models, err
}

// LinkModelToDataset связывает модель с датасетом, на котором она обучена.
func (c *Client) LinkModelToDataset(modelID, datasetID string) (*ModelDatasetLinkResponse, error) {
	body := map[string]string{"dataset_id": datasetID}
	var link ModelDatasetLinkResponse
	err := c.post("/api/v1/models/"+modelID+"/datasets", body, &link)
	return &link, err
}

// ListModelDatasets возвращает связи модели с датасетами.
func (c *Client) ListModelDatasets(modelID string) ([]ModelDatasetLinkResponse, error) {
	var links []ModelDatasetLinkResponse
	err := c.list("/api/v1/models/"+modelID+"/datasets", nil, &links)
	return links, err
}

// --- Brokers ---

// RegisterBroker регистрирует брокер сообщений.
func (c *Client) RegisterBroker(name, host string, port int) (*BrokerResponse, error) {
	body := map[string]any{"name": name, "host": host, "port": port}
	var b BrokerResponse
	err := c.post("/api/v1/brokers", body, &b)
	return &b, err
}

// GetBroker возвращает брокер по имени.
func (c *Client) GetBroker(name string) (*BrokerResponse, error) {
	var b BrokerResponse
	err := c.get("/api/v1/brokers/"+name, &b)
	return &b, err
}

// ListBrokers возвращает все брокеры.
func (c *Client) ListBrokers() ([]BrokerResponse, error) {
	var brokers []BrokerResponse
	err := c.list("/api/v1/brokers", nil, &brokers)
	return brokers, err
}

// RegisterTopic регистрирует топик брокера.
// Повторная регистрация того же топика не считается ошибкой:
// клиент возвращает уже существующий топик.
func (c *Client) RegisterTopic(brokerName, topicName string) (*TopicResponse, error) {
	body := map[string]string{"name": topicName}
	var t TopicResponse
	err := c.post("/api/v1/brokers/"+brokerName+"/topics", body, &t)
	if errors.Is(err, ErrAlreadyExists) {
		return c.GetTopic(brokerName, topicName)
	}
	return &t, err
}

// GetTopic возвращает топик брокера.
func (c *Client) GetTopic(brokerName, topicName string) (*TopicResponse, error) {
	var t TopicResponse
	err := c.get("/api/v1/brokers/"+brokerName+"/topics/"+topicName, &t)
	return &t, err
}

// LinkDatasetToTopic привязывает потоковый датасет к топику.
func (c *Client) LinkDatasetToTopic(datasetID, brokerName, topicName string) (*TopicDetailResponse, error) {
	body := map[string]string{"broker_name": brokerName, "topic_name": topicName}
	var detail TopicDetailResponse
	err := c.post("/api/v1/datasets/"+datasetID+"/topic", body, &detail)
	return &detail, err
}

// GetTopicDetails возвращает брокер и топик потокового датасета.
func (c *Client) GetTopicDetails(datasetID string) (*TopicDetailResponse, error) {
	var detail TopicDetailResponse
	err := c.get("/api/v1/datasets/"+datasetID+"/topic-details", &detail)
	return &detail, err
}

// --- Schedules ---

// CreateSchedule создаёт расписание.
func (c *Client) CreateSchedule(req CreateScheduleRequest) (*ScheduleResponse, error) {
	var schedule ScheduleResponse
	err := c.post("/api/v1/schedules", req, &schedule)
	return &schedule, err
}

// ListSchedules возвращает расписания с фильтрацией.
func (c *Client) ListSchedules(opts ListSchedulesOpts) ([]ScheduleResponse, error) {
	params := url.Values{}
	if opts.PipelineName != "" {
		params.Set("pipeline_name", opts.PipelineName)
	}
	if opts.Enabled != nil {
		params.Set("enabled", fmt.Sprintf("%t", *opts.Enabled))
	}
	if opts.Limit > 0 {
		params.Set("limit", fmt.Sprintf("%d", opts.Limit))
	}

	var schedules []ScheduleResponse
	err := c.list("/api/v1/schedules", params, &schedules)
	return schedules, err
}

// GetSchedule возвращает расписание по ID.
func (c *Client) GetSchedule(id string) (*ScheduleResponse, error) {
	var schedule ScheduleResponse
	err := c.get("/api/v1/schedules/"+id, &schedule)
	return &schedule, err
}

// DeleteSchedule удаляет расписание.
func (c *Client) DeleteSchedule(id string) error {
	return c.delete("/api/v1/schedules/" + id)
}

// EnableSchedule включает расписание.
func (c *Client) EnableSchedule(id string) (*ScheduleResponse, error) {
	var schedule ScheduleResponse
	body := map[string]bool{"enabled": true}
	err := c.put("/api/v1/schedules/"+id+"/enabled", body, &schedule)
	return &schedule, err
}

// DisableSchedule выключает расписание.
func (c *Client) DisableSchedule(id string) (*ScheduleResponse, error) {
	var schedule ScheduleResponse
	body := map[string]bool{"enabled": false}
	err := c.put("/api/v1/schedules/"+id+"/enabled", body, &schedule)
	return &schedule, err
}

// --- HTTP helpers ---

func (c *Client) get(path string, result any) error {
	return c.doData(http.MethodGet, path, nil, result)
}

func (c *Client) post(path string, body any, result any) error {
	return c.doData(http.MethodPost, path, body, result)
}

func (c *Client) put(path string, body any, result any) error {
	return c.doData(http.MethodPut, path, body, result)
}

func (c *Client) delete(path string) error {
	resp, err := c.do(http.MethodDelete, path, nil)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	return c.checkError(resp)
}

func (c *Client) list(path string, params url.Values, result any) error {
	if len(params) > 0 {
		path = path + "?" + params.Encode()
	}

	resp, err := c.do(http.MethodGet, path, nil)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if err := c.checkError(resp); err != nil {
		return err
	}

	var lr listResponse
	if err := json.NewDecoder(resp.Body).Decode(&lr); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}

	return json.Unmarshal(lr.Data, result)
}

func (c *Client) doData(method, path string, body any, result any) error {
	resp, err := c.do(method, path, body)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if err := c.checkError(resp); err != nil {
		return err
	}

	// 204 No Content
	if resp.StatusCode == http.StatusNoContent {
		return nil
	}

	var dr dataResponse
	if err := json.NewDecoder(resp.Body).Decode(&dr); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}

	if result != nil {
		return json.Unmarshal(dr.Data, result)
	}
	return nil
}

func (c *Client) do(method, path string, body any) (*http.Response, error) {
	var bodyReader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal request: %w", err)
		}
		bodyReader = bytes.NewReader(data)
	}

	req, err := http.NewRequest(method, c.baseURL+path, bodyReader)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	return c.httpClient.Do(req)
}

func (c *Client) checkError(resp *http.Response) error {
	if resp.StatusCode < 400 {
		return nil
	}

	var er errorResponse
	if err := json.NewDecoder(resp.Body).Decode(&er); err != nil {
		return fmt.Errorf("API error: HTTP %d", resp.StatusCode)
	}

	switch resp.StatusCode {
	case http.StatusNotFound:
		return fmt.Errorf("%w: %s", ErrNotFound, er.Error.Message)
	case http.StatusConflict:
		return fmt.Errorf("%w: %s", ErrAlreadyExists, er.Error.Message)
	}

	return fmt.Errorf("%s: %s", er.Error.Code, er.Error.Message)
}
