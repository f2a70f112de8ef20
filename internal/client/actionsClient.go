package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// RemoteError is returned for any failed call to the Actions API,
// including failures to authorize the call.
type RemoteError struct {
	Op         string
	StatusCode int
	Body       string
	Err        error
}

func (e *RemoteError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("%s: status=%d body=%s", e.Op, e.StatusCode, e.Body)
	}
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *RemoteError) Unwrap() error {
	return e.Err
}

type actionsAPI struct {
	httpClient  *http.Client
	baseApiURL  string
	credentials CredentialProvider
}

func newActionsAPI(baseApiURL string, credentials CredentialProvider) *actionsAPI {
	return &actionsAPI{
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
		baseApiURL:  strings.TrimRight(baseApiURL, "/"),
		credentials: credentials,
	}
}

// post sends payload as JSON with a bearer token and decodes the response
// into out when out is non-nil.
func (a *actionsAPI) post(ctx context.Context, op, url string, payload, out any) error {
	accessToken, err := a.credentials.GetAccessToken(ctx)
	if err != nil {
		return &RemoteError{Op: op, Err: err}
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return &RemoteError{Op: op, Err: fmt.Errorf("marshal req payload: %w", err)}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewBuffer(body))
	if err != nil {
		return &RemoteError{Op: op, Err: fmt.Errorf("http new request: %w", err)}
	}
	req.Header.Set("Authorization", "Bearer "+accessToken)
	req.Header.Set("Content-Type", "application/json")

	resp, err := a.httpClient.Do(req)
	if err != nil {
		return &RemoteError{Op: op, Err: fmt.Errorf("http client do: %w", err)}
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return &RemoteError{Op: op, StatusCode: resp.StatusCode, Err: fmt.Errorf("read response: %w", err)}
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return &RemoteError{Op: op, StatusCode: resp.StatusCode, Body: string(respBody)}
	}

	if out == nil || len(bytes.TrimSpace(respBody)) == 0 {
		return nil
	}
	if err := json.Unmarshal(respBody, out); err != nil {
		return &RemoteError{Op: op, StatusCode: resp.StatusCode, Err: fmt.Errorf("decode response: %w", err)}
	}
	return nil
}
