package e2e

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

// TestContext drives a running govern server over HTTP and holds the state
// scenarios accumulate: the last response and the identifiers saved by
// earlier steps.
type TestContext struct {
	baseURL    string
	adminToken string
	client     *http.Client

	lastStatus int
	lastBody   []byte

	tenantID string
}

// NewTestContext builds a context targeting baseURL. Admin endpoints are
// called with adminToken unless a step explicitly withholds it.
func NewTestContext(baseURL, adminToken string) *TestContext {
	return &TestContext{
		baseURL:    baseURL,
		adminToken: adminToken,
		client:     &http.Client{Timeout: 10 * time.Second},
	}
}

// POST sends a JSON body with the admin token attached.
func (tc *TestContext) POST(path string, body any) error {
	return tc.do(http.MethodPost, path, body, true)
}

// PUT sends a JSON body with the admin token attached.
func (tc *TestContext) PUT(path string, body any) error {
	return tc.do(http.MethodPut, path, body, true)
}

// POSTWithoutAuth sends a JSON body with no admin token, for scenarios
// exercising the admin gate itself.
func (tc *TestContext) POSTWithoutAuth(path string, body any) error {
	return tc.do(http.MethodPost, path, body, false)
}

// GET issues a request with the admin token plus any extra headers.
func (tc *TestContext) GET(path string, headers map[string]string) error {
	req, err := http.NewRequest(http.MethodGet, tc.baseURL+path, nil)
	if err != nil {
		return err
	}
	req.Header.Set("X-Admin-Token", tc.adminToken)
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	return tc.send(req)
}

func (tc *TestContext) do(method, path string, body any, withAuth bool) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("marshal request body: %w", err)
	}
	req, err := http.NewRequest(method, tc.baseURL+path, bytes.NewReader(payload))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	if withAuth {
		req.Header.Set("X-Admin-Token", tc.adminToken)
	}
	return tc.send(req)
}

func (tc *TestContext) send(req *http.Request) error {
	resp, err := tc.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	var buf bytes.Buffer
	if _, err := buf.ReadFrom(resp.Body); err != nil {
		return err
	}
	tc.lastStatus = resp.StatusCode
	tc.lastBody = buf.Bytes()
	return nil
}

// StatusCode returns the status of the last response.
func (tc *TestContext) StatusCode() int { return tc.lastStatus }

// ResponseBody returns the raw body of the last response.
func (tc *TestContext) ResponseBody() []byte { return tc.lastBody }

// GetResponseField reads a top-level field from the last JSON response.
func (tc *TestContext) GetResponseField(field string) (any, error) {
	var parsed map[string]any
	if err := json.Unmarshal(tc.lastBody, &parsed); err != nil {
		return nil, fmt.Errorf("response is not a JSON object: %w", err)
	}
	v, ok := parsed[field]
	if !ok {
		return nil, fmt.Errorf("response has no field %q in %s", field, tc.lastBody)
	}
	return v, nil
}

// ResponseContains reports whether the last JSON response has the field.
func (tc *TestContext) ResponseContains(field string) bool {
	_, err := tc.GetResponseField(field)
	return err == nil
}

// SetTenantID saves the tenant under test for later steps.
func (tc *TestContext) SetTenantID(id string) { tc.tenantID = id }

// GetTenantID returns the tenant saved by an earlier step.
func (tc *TestContext) GetTenantID() string { return tc.tenantID }
