package registry

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestTestConnection(t *testing.T) {
	tests := []struct {
		name          string
		status        int
		body          string
		expectSuccess bool
	}{
		{"healthy", http.StatusOK, `{"status":true}`, true},
		{"reported down", http.StatusOK, `{"status":false}`, false},
		{"missing flag", http.StatusOK, `{}`, false},
		{"server error", http.StatusInternalServerError, `{"status":true}`, false},
		{"not json", http.StatusOK, `<html>maintenance</html>`, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				if r.URL.Path != "/up" {
					t.Errorf("unexpected path %s", r.URL.Path)
				}
				if got := r.Header.Get("Authorization"); got != "Bearer test-key" {
					t.Errorf("unexpected auth header %q", got)
				}
				w.WriteHeader(tt.status)
				w.Write([]byte(tt.body))
			}))
			defer srv.Close()

			client := NewHTTPClient()
			result := client.TestConnection(context.Background(), srv.URL, "test-key")
			if result.Success != tt.expectSuccess {
				t.Errorf("expected success=%v, got %+v", tt.expectSuccess, result)
			}
		})
	}
}

func TestTestConnectionConfigValidation(t *testing.T) {
	client := NewHTTPClient()

	if result := client.TestConnection(context.Background(), "", "key"); result.Success {
		t.Error("expected failure with empty URL")
	}
	if result := client.TestConnection(context.Background(), "ftp://registry", "key"); result.Success {
		t.Error("expected failure with non-http scheme")
	}
	if result := client.TestConnection(context.Background(), "https://registry", ""); result.Success {
		t.Error("expected failure with empty API key")
	}
}

func TestSubmitSupplier(t *testing.T) {
	tests := []struct {
		name            string
		status          int
		body            string
		expectSuccess   bool
		expectedID      string
		expectedMessage string
	}{
		{
			name:          "accepted with id",
			status:        http.StatusCreated,
			body:          `{"success":true,"id":123}`,
			expectSuccess: true,
			expectedID:    "123",
		},
		{
			name:          "accepted with nested id",
			status:        http.StatusOK,
			body:          `{"status":true,"data":{"id":"abc-1"}}`,
			expectSuccess: true,
			expectedID:    "abc-1",
		},
		{
			name:            "logical failure on 200",
			status:          http.StatusOK,
			body:            `{"success":false,"message":"CNPJ invalido"}`,
			expectSuccess:   false,
			expectedMessage: "CNPJ invalido",
		},
		{
			name:          "missing success flag on 200",
			status:        http.StatusOK,
			body:          `{"result":"ok"}`,
			expectSuccess: false,
		},
		{
			name:          "non-json 200",
			status:        http.StatusOK,
			body:          `<html>proxy error</html>`,
			expectSuccess: false,
		},
		{
			name:            "rejected with api message",
			status:          http.StatusUnprocessableEntity,
			body:            `{"message":"fornecedor duplicado"}`,
			expectSuccess:   false,
			expectedMessage: "Registry returned HTTP 422: fornecedor duplicado",
		},
		{
			name:          "rejected without body",
			status:        http.StatusBadGateway,
			body:          ``,
			expectSuccess: false,
		},
	}

	payload := SupplierSubmission{
		CompanyTaxID:      "11222333000144",
		SupplierName:      "ACME Ltda",
		SupplierTaxID:     "12345678000195",
		LedgerAccountCode: "1101",
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				if r.URL.Path != "/contabil/fornecedores" {
					t.Errorf("unexpected path %s", r.URL.Path)
				}
				if r.Method != http.MethodPost {
					t.Errorf("unexpected method %s", r.Method)
				}

				var received map[string]any
				if err := json.NewDecoder(r.Body).Decode(&received); err != nil {
					t.Errorf("failed to decode payload: %v", err)
				}
				if received["cnpj_fornecedor"] != payload.SupplierTaxID {
					t.Errorf("unexpected cnpj_fornecedor %v", received["cnpj_fornecedor"])
				}
				if received["conta_contabil_fornecedor"] != payload.LedgerAccountCode {
					t.Errorf("unexpected conta_contabil_fornecedor %v", received["conta_contabil_fornecedor"])
				}

				w.WriteHeader(tt.status)
				w.Write([]byte(tt.body))
			}))
			defer srv.Close()

			client := NewHTTPClient()
			result := client.SubmitSupplier(context.Background(), srv.URL, "test-key", payload)

			if result.Success != tt.expectSuccess {
				t.Errorf("expected success=%v, got %+v", tt.expectSuccess, result)
			}
			if tt.expectedID != "" && result.ExternalID != tt.expectedID {
				t.Errorf("expected external id %q, got %q", tt.expectedID, result.ExternalID)
			}
			if tt.expectedMessage != "" && result.Message != tt.expectedMessage {
				t.Errorf("expected message %q, got %q", tt.expectedMessage, result.Message)
			}
			if result.StatusCode != tt.status {
				t.Errorf("expected status code %d, got %d", tt.status, result.StatusCode)
			}
		})
	}
}

func TestSubmitSupplierTransportFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close() // refuse connections

	client := NewHTTPClient()
	result := client.SubmitSupplier(context.Background(), srv.URL, "test-key", SupplierSubmission{})
	if result.Success {
		t.Error("expected transport failure")
	}
	if !strings.Contains(result.Message, "Failed to reach the registry") {
		t.Errorf("unexpected message %q", result.Message)
	}
}
