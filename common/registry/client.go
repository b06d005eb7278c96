package registry

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
)

const (
	healthTimeout = 15 * time.Second
	submitTimeout = 30 * time.Second

	healthPath = "/up"
	submitPath = "/contabil/fornecedores"
)

// SupplierSubmission is the payload of one supplier submission. Field names
// are fixed by the registry's wire format.
type SupplierSubmission struct {
	CompanyTaxID      string `json:"cnpj_empresa"`
	SupplierName      string `json:"nome_fornecedor"`
	SupplierTaxID     string `json:"cnpj_fornecedor"`
	LedgerAccountCode string `json:"conta_contabil_fornecedor"`
}

// Result is the uniform outcome of any registry call. Transport failures,
// HTTP errors and logically-failed 2xx responses are all folded into it;
// registry calls never raise past this boundary.
type Result struct {
	Success    bool   `json:"success"`
	Message    string `json:"message"`
	Details    any    `json:"details,omitempty"`
	StatusCode int    `json:"status_code,omitempty"`
	ExternalID string `json:"external_id,omitempty"`
}

// Client talks to the remote registry API.
type Client interface {
	// TestConnection checks the registry health endpoint
	TestConnection(ctx context.Context, baseURL, apiKey string) Result

	// SubmitSupplier posts one supplier for synchronization
	SubmitSupplier(ctx context.Context, baseURL, apiKey string, payload SupplierSubmission) Result
}

// HTTPClient is the net/http implementation of Client.
type HTTPClient struct {
	httpClient *http.Client
}

// NewHTTPClient creates a registry client. Per-call timeouts come from the
// call sites, not the transport.
func NewHTTPClient() *HTTPClient {
	return &HTTPClient{
		httpClient: &http.Client{},
	}
}

// TestConnection performs GET {baseURL}/up with bearer auth. Success requires
// HTTP 200 and a JSON body with status == true.
func (c *HTTPClient) TestConnection(ctx context.Context, baseURL, apiKey string) Result {
	if err := validateConfig(baseURL, apiKey); err != nil {
		return Result{Success: false, Message: err.Error()}
	}

	ctx, cancel := context.WithTimeout(ctx, healthTimeout)
	defer cancel()

	endpoint := strings.TrimRight(baseURL, "/") + healthPath
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return Result{Success: false, Message: fmt.Sprintf("Failed to build health request: %v", err)}
	}
	setHeaders(req, apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return transportFailure(err, "health check")
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(resp.Body)

	if resp.StatusCode != http.StatusOK {
		return Result{
			Success:    false,
			Message:    fmt.Sprintf("Registry health check failed (HTTP %d)", resp.StatusCode),
			Details:    string(body),
			StatusCode: resp.StatusCode,
		}
	}

	var parsed map[string]any
	if err := json.Unmarshal(body, &parsed); err != nil {
		return Result{
			Success:    false,
			Message:    "Registry health response is not valid JSON",
			Details:    string(body),
			StatusCode: resp.StatusCode,
		}
	}

	if up, ok := parsed["status"].(bool); !ok || !up {
		return Result{
			Success:    false,
			Message:    "Registry responded but reported a problem",
			Details:    parsed,
			StatusCode: resp.StatusCode,
		}
	}

	return Result{Success: true, Message: "Registry connection succeeded", StatusCode: resp.StatusCode}
}

// SubmitSupplier performs POST {baseURL}/contabil/fornecedores. A 200/201
// with a falsy success indicator in the body is a failure despite the
// transport success; the response body is always captured for audit.
func (c *HTTPClient) SubmitSupplier(ctx context.Context, baseURL, apiKey string, payload SupplierSubmission) Result {
	if err := validateConfig(baseURL, apiKey); err != nil {
		return Result{Success: false, Message: err.Error()}
	}

	ctx, cancel := context.WithTimeout(ctx, submitTimeout)
	defer cancel()

	data, err := json.Marshal(payload)
	if err != nil {
		return Result{Success: false, Message: fmt.Sprintf("Failed to encode submission payload: %v", err)}
	}

	endpoint := strings.TrimRight(baseURL, "/") + submitPath
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(data))
	if err != nil {
		return Result{Success: false, Message: fmt.Sprintf("Failed to build submission request: %v", err)}
	}
	setHeaders(req, apiKey)

	log.Info().
		Str("endpoint", endpoint).
		Str("supplierTaxId", payload.SupplierTaxID).
		Msg("Submitting supplier to registry")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return transportFailure(err, "supplier submission")
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(resp.Body)
	return classifySubmitResponse(resp.StatusCode, body)
}

// classifySubmitResponse normalizes the heterogeneous registry response
// shapes into one Result.
func classifySubmitResponse(statusCode int, body []byte) Result {
	var parsed map[string]any
	jsonBody := json.Unmarshal(body, &parsed) == nil

	if statusCode != http.StatusOK && statusCode != http.StatusCreated {
		message := fmt.Sprintf("Registry rejected the submission (HTTP %d)", statusCode)
		if jsonBody {
			if apiMsg, ok := parsed["message"].(string); ok && apiMsg != "" {
				message = fmt.Sprintf("Registry returned HTTP %d: %s", statusCode, apiMsg)
			}
			return Result{Success: false, Message: message, Details: parsed, StatusCode: statusCode}
		}
		return Result{Success: false, Message: message, Details: string(body), StatusCode: statusCode}
	}

	if !jsonBody {
		return Result{
			Success:    false,
			Message:    fmt.Sprintf("Registry response is not valid JSON (HTTP %d)", statusCode),
			Details:    string(body),
			StatusCode: statusCode,
		}
	}

	if !successIndicator(parsed) {
		message := "Registry reported a failed synchronization"
		if apiMsg, ok := parsed["message"].(string); ok && apiMsg != "" {
			message = apiMsg
		}
		return Result{Success: false, Message: message, Details: parsed, StatusCode: statusCode}
	}

	return Result{
		Success:    true,
		Message:    "Supplier accepted by the registry",
		Details:    parsed,
		StatusCode: statusCode,
		ExternalID: extractExternalID(parsed),
	}
}

// successIndicator requires an explicit truthy success or status flag.
func successIndicator(body map[string]any) bool {
	for _, key := range []string{"success", "status"} {
		if v, ok := body[key]; ok {
			b, isBool := v.(bool)
			return isBool && b
		}
	}
	return false
}

// extractExternalID pulls the registry-assigned identifier when present.
func extractExternalID(body map[string]any) string {
	candidate := body["id"]
	if data, ok := body["data"].(map[string]any); ok {
		if nested, ok := data["id"]; ok {
			candidate = nested
		}
	}

	switch t := candidate.(type) {
	case string:
		return t
	case float64:
		return fmt.Sprintf("%.0f", t)
	default:
		return ""
	}
}

func validateConfig(baseURL, apiKey string) error {
	if baseURL == "" || apiKey == "" {
		return errors.New("registry URL and API key are required")
	}
	if !strings.HasPrefix(baseURL, "http://") && !strings.HasPrefix(baseURL, "https://") {
		return errors.New("registry URL must start with http:// or https://")
	}
	return nil
}

func setHeaders(req *http.Request, apiKey string) {
	req.Header.Set("Authorization", "Bearer "+apiKey)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
}

func transportFailure(err error, operation string) Result {
	if errors.Is(err, context.DeadlineExceeded) {
		return Result{Success: false, Message: fmt.Sprintf("Registry %s timed out", operation)}
	}
	return Result{Success: false, Message: fmt.Sprintf("Failed to reach the registry during %s: %v", operation, err)}
}
