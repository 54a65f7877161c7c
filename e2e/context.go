package e2e

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// TestContext drives a running donorhub server over HTTP and remembers what
// earlier steps produced.
type TestContext struct {
	baseURL    string
	adminToken string
	adminActor string
	client     *http.Client

	lastStatus int
	lastBody   map[string]any

	applicationIDs map[string]string
	identifiers    map[string]string
	sessionToken   string
	runID          string
}

func NewTestContext(baseURL, adminToken, adminActor string) *TestContext {
	return &TestContext{
		baseURL:    strings.TrimRight(baseURL, "/"),
		adminToken: adminToken,
		adminActor: adminActor,
		client:     &http.Client{Timeout: 10 * time.Second},
	}
}

// Reset clears per-scenario state. runID keeps emails unique across runs
// against a long-lived server.
func (tc *TestContext) Reset() {
	tc.lastStatus = 0
	tc.lastBody = nil
	tc.applicationIDs = map[string]string{}
	tc.identifiers = map[string]string{}
	tc.sessionToken = ""
	tc.runID = fmt.Sprintf("%d", time.Now().UnixNano())
}

func (tc *TestContext) POST(path string, body any) error {
	return tc.do(http.MethodPost, path, body, nil)
}

func (tc *TestContext) GET(path string, headers map[string]string) error {
	return tc.do(http.MethodGet, path, nil, headers)
}

func (tc *TestContext) AdminPOST(path string, body any) error {
	return tc.do(http.MethodPost, path, body, tc.adminHeaders())
}

func (tc *TestContext) AdminGET(path string) error {
	return tc.do(http.MethodGet, path, nil, tc.adminHeaders())
}

func (tc *TestContext) adminHeaders() map[string]string {
	return map[string]string{"X-Admin-Token": tc.adminToken, "X-Admin-Actor": tc.adminActor}
}

func (tc *TestContext) do(method, path string, body any, headers map[string]string) error {
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshal request: %w", err)
		}
		reader = bytes.NewReader(raw)
	}
	req, err := http.NewRequest(method, tc.baseURL+path, reader)
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	resp, err := tc.client.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	tc.lastStatus = resp.StatusCode
	tc.lastBody = nil
	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}
	if len(raw) > 0 {
		var decoded map[string]any
		if err := json.Unmarshal(raw, &decoded); err == nil {
			tc.lastBody = decoded
		}
	}
	return nil
}

func (tc *TestContext) GetLastStatus() int { return tc.lastStatus }

// GetResponseField reads a dotted path such as "prize_tier.name".
func (tc *TestContext) GetResponseField(field string) (any, error) {
	var cur any = tc.lastBody
	for _, part := range strings.Split(field, ".") {
		obj, ok := cur.(map[string]any)
		if !ok {
			return nil, fmt.Errorf("field %q not found in response", field)
		}
		if cur, ok = obj[part]; !ok {
			return nil, fmt.Errorf("field %q not found in response", field)
		}
	}
	return cur, nil
}

func (tc *TestContext) Email(alias string) string {
	return fmt.Sprintf("%s+%s@donorhub.test", alias, tc.runID)
}

func (tc *TestContext) RememberApplication(alias, applicationID, identifier string) {
	tc.applicationIDs[alias] = applicationID
	tc.identifiers[alias] = identifier
}

func (tc *TestContext) ApplicationID(alias string) string { return tc.applicationIDs[alias] }

func (tc *TestContext) Identifier(alias string) string { return tc.identifiers[alias] }

func (tc *TestContext) SetSessionToken(token string) { tc.sessionToken = token }

func (tc *TestContext) GetSessionToken() string { return tc.sessionToken }
