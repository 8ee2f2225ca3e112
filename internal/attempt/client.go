package attempt

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/lunark/abacus-api/internal/dto"
	"github.com/lunark/abacus-api/internal/exam"
)

var ErrServerUnavailable = errors.New("exam server unavailable")

// APIError is a non-2xx response from the exam server, carrying the server's
// error message when one was provided.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	if strings.TrimSpace(e.Message) == "" {
		return fmt.Sprintf("request failed with status %d", e.StatusCode)
	}
	return e.Message
}

// HTTPClient talks to the exam orchestrator over its JSON API. It implements
// ExamClient.
type HTTPClient struct {
	baseURL    string
	httpClient *http.Client
}

func NewHTTPClient(baseURL string, httpClient *http.Client) *HTTPClient {
	baseURL = strings.TrimRight(strings.TrimSpace(baseURL), "/")
	if baseURL == "" {
		baseURL = "http://127.0.0.1:3000"
	}
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &HTTPClient{baseURL: baseURL, httpClient: httpClient}
}

func (c *HTTPClient) Login(ctx context.Context, username, password string) (*dto.UserResponse, error) {
	var payload dto.UserResponse
	err := c.doJSON(ctx, http.MethodPost, "/api/login", dto.LoginRequest{Username: username, Password: password}, &payload)
	if err != nil {
		return nil, err
	}
	return &payload, nil
}

func (c *HTTPClient) Levels(ctx context.Context) ([]exam.Level, error) {
	var payload []exam.Level
	if err := c.doJSON(ctx, http.MethodGet, "/api/levels", nil, &payload); err != nil {
		return nil, err
	}
	return payload, nil
}

func (c *HTTPClient) StartExam(ctx context.Context, userID uint, levelID string) ([]dto.ClientQuestion, error) {
	var payload dto.StartExamResponse
	req := dto.StartExamRequest{UserID: userID, LevelID: levelID}
	if err := c.doJSON(ctx, http.MethodPost, "/api/exam/start", req, &payload); err != nil {
		return nil, err
	}
	return payload.Questions, nil
}

func (c *HTTPClient) SubmitExam(ctx context.Context, userID uint, answers []*int) (*dto.ExamSummary, error) {
	var payload dto.ExamSummary
	req := dto.SubmitExamRequest{UserID: userID, Answers: answers}
	if err := c.doJSON(ctx, http.MethodPost, "/api/exam/submit", req, &payload); err != nil {
		return nil, err
	}
	return &payload, nil
}

func (c *HTTPClient) History(ctx context.Context, userID uint) ([]dto.ResultResponse, error) {
	var payload []dto.ResultResponse
	path := "/api/history/" + strconv.FormatUint(uint64(userID), 10)
	if err := c.doJSON(ctx, http.MethodGet, path, nil, &payload); err != nil {
		return nil, err
	}
	return payload, nil
}

func (c *HTTPClient) doJSON(ctx context.Context, method, path string, requestBody any, responseBody any) error {
	var body io.Reader
	if requestBody != nil {
		encoded, err := json.Marshal(requestBody)
		if err != nil {
			return err
		}
		body = bytes.NewReader(encoded)
	}

	request, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return err
	}
	if requestBody != nil {
		request.Header.Set("Content-Type", "application/json")
	}

	response, err := c.httpClient.Do(request)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrServerUnavailable, err)
	}
	defer response.Body.Close()

	if response.StatusCode < http.StatusOK || response.StatusCode >= http.StatusMultipleChoices {
		apiErr := APIError{StatusCode: response.StatusCode}
		var payload dto.ErrorResponse
		if err := json.NewDecoder(response.Body).Decode(&payload); err == nil && strings.TrimSpace(payload.Error) != "" {
			apiErr.Message = payload.Error
		}
		if apiErr.Message == "" {
			apiErr.Message = response.Status
		}
		return &apiErr
	}

	if responseBody == nil {
		return nil
	}
	return json.NewDecoder(response.Body).Decode(responseBody)
}
