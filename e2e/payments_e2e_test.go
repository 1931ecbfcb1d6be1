//go:build e2e
// +build e2e

package e2e

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/edusoft-mn/ms-go-course-payments/app/types"
)

const defaultPaymentsHTTPBase = "http://localhost:8080"

func adminAPIKey() string {
	if value := strings.TrimSpace(os.Getenv("PAYMENTS_ADMIN_API_KEY")); value != "" {
		return value
	}
	return "e2e-admin-key"
}

type httpClient struct {
	baseURL string
	client  *http.Client
}

func newHTTPClient(baseURL string) *httpClient {
	return &httpClient{
		baseURL: baseURL,
		client:  &http.Client{Timeout: 10 * time.Second},
	}
}

func (c *httpClient) doJSON(t *testing.T, method, path string, body any) (*http.Response, []byte) {
	return c.doJSONWithAdminKey(t, method, path, body, "")
}

func (c *httpClient) doJSONWithAdminKey(t *testing.T, method, path string, body any, adminKey string) (*http.Response, []byte) {
	t.Helper()

	var reqBody *bytes.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("json marshal failed: %v", err)
		}
		reqBody = bytes.NewReader(data)
	} else {
		reqBody = bytes.NewReader(nil)
	}

	req, err := http.NewRequest(method, c.baseURL+path, reqBody)
	if err != nil {
		t.Fatalf("new request failed: %v", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("X-Request-ID", fmt.Sprintf("e2e-http-%d", time.Now().UnixNano()))
	if adminKey != "" {
		req.Header.Set("X-Admin-Key", adminKey)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		t.Fatalf("http request failed: %v", err)
	}
	defer resp.Body.Close()

	bodyBytes, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("read response failed: %v", err)
	}

	return resp, bodyBytes
}

func waitForHTTP(baseURL string, timeout time.Duration) error {
	deadline := time.Now().Add(timeout)
	client := &http.Client{Timeout: 2 * time.Second}
	for time.Now().Before(deadline) {
		req, _ := http.NewRequest(http.MethodGet, baseURL+"/health", nil)
		resp, err := client.Do(req)
		if err == nil {
			resp.Body.Close()
			if resp.StatusCode == http.StatusOK {
				return nil
			}
		}
		time.Sleep(500 * time.Millisecond)
	}
	return fmt.Errorf("http service not ready at %s", baseURL)
}

func TestPaymentsE2E(t *testing.T) {
	httpBase := os.Getenv("PAYMENTS_HTTP_URL")
	if httpBase == "" {
		httpBase = defaultPaymentsHTTPBase
	}

	if err := waitForHTTP(httpBase, 30*time.Second); err != nil {
		t.Fatalf("http not ready: %v", err)
	}

	client := newHTTPClient(httpBase)
	orderID := fmt.Sprintf("e2e-ord-%d", time.Now().UnixNano())

	t.Run("ListPaymentMethods", func(t *testing.T) {
		resp, body := client.doJSON(t, http.MethodGet, "/payments/methods", nil)
		if resp.StatusCode != http.StatusOK {
			t.Fatalf("expected 200, got %d: %s", resp.StatusCode, body)
		}
		var methods types.PaymentMethodsResponse
		if err := json.Unmarshal(body, &methods); err != nil {
			t.Fatalf("decode failed: %v", err)
		}
		if len(methods.Methods) != 6 {
			t.Fatalf("expected 6 payment methods, got %d", len(methods.Methods))
		}
	})

	t.Run("CheckStatusDefaultsToPending", func(t *testing.T) {
		resp, body := client.doJSON(t, http.MethodGet, "/payments/"+orderID+"/status", nil)
		if resp.StatusCode != http.StatusOK {
			t.Fatalf("expected 200, got %d: %s", resp.StatusCode, body)
		}
		var envelope types.PaymentStatusEnvelopeResponse
		if err := json.Unmarshal(body, &envelope); err != nil {
			t.Fatalf("decode failed: %v", err)
		}
		if envelope.PaymentStatus.Status != "pending" {
			t.Fatalf("expected pending, got %s", envelope.PaymentStatus.Status)
		}
		if envelope.PaymentStatus.VerificationCount != 0 {
			t.Fatalf("expected zero verification count, got %d", envelope.PaymentStatus.VerificationCount)
		}
	})

	t.Run("SimulatePayment", func(t *testing.T) {
		resp, body := client.doJSON(t, http.MethodPost, "/payments/"+orderID+"/simulate", map[string]string{"method": "khanbank"})
		if resp.StatusCode != http.StatusOK {
			t.Fatalf("expected 200, got %d: %s", resp.StatusCode, body)
		}
		var envelope types.PaymentStatusEnvelopeResponse
		if err := json.Unmarshal(body, &envelope); err != nil {
			t.Fatalf("decode failed: %v", err)
		}
		switch envelope.PaymentStatus.Status {
		case "success":
			if envelope.PaymentStatus.TransactionID == "" {
				t.Fatal("successful payment missing transaction id")
			}
		case "failed":
			if envelope.PaymentStatus.Error == "" {
				t.Fatal("failed payment missing error")
			}
		default:
			t.Fatalf("unexpected terminal simulate status: %s", envelope.PaymentStatus.Status)
		}
	})

	t.Run("SimulateRejectsUnknownMethod", func(t *testing.T) {
		resp, _ := client.doJSON(t, http.MethodPost, "/payments/"+orderID+"/simulate", map[string]string{"method": "cash"})
		if resp.StatusCode != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", resp.StatusCode)
		}
	})

	t.Run("VerificationLog", func(t *testing.T) {
		resp, body := client.doJSON(t, http.MethodPost, "/payments/"+orderID+"/verifications", map[string]any{
			"userId":   "e2e-user",
			"userName": "E2E",
			"method":   "golomt",
			"amount":   25000,
			"notes":    "e2e transfer",
		})
		if resp.StatusCode != http.StatusCreated {
			t.Fatalf("expected 201, got %d: %s", resp.StatusCode, body)
		}

		resp, body = client.doJSON(t, http.MethodGet, "/payments/"+orderID+"/verifications", nil)
		if resp.StatusCode != http.StatusOK {
			t.Fatalf("expected 200, got %d: %s", resp.StatusCode, body)
		}
		var list types.ListVerificationsResponse
		if err := json.Unmarshal(body, &list); err != nil {
			t.Fatalf("decode failed: %v", err)
		}
		if len(list.Verifications) != 1 {
			t.Fatalf("expected 1 verification, got %d", len(list.Verifications))
		}
		if list.Verifications[0].UserID != "e2e-user" {
			t.Fatalf("unexpected verification user: %s", list.Verifications[0].UserID)
		}
	})

	t.Run("AdminRequiresKey", func(t *testing.T) {
		resp, _ := client.doJSON(t, http.MethodPost, "/admin/orders/"+orderID+"/cancel", map[string]string{"adminId": "e2e-admin"})
		if resp.StatusCode != http.StatusUnauthorized {
			t.Fatalf("expected 401 without admin key, got %d", resp.StatusCode)
		}
	})

	t.Run("AdminCancelUnknownOrder", func(t *testing.T) {
		resp, _ := client.doJSONWithAdminKey(t, http.MethodPost, "/admin/orders/"+orderID+"/cancel", map[string]string{"adminId": "e2e-admin"}, adminAPIKey())
		if resp.StatusCode != http.StatusNotFound {
			t.Fatalf("expected 404 for unknown order, got %d", resp.StatusCode)
		}
	})
}
