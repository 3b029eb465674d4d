package main

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/goccy/go-json"
	"github.com/google/uuid"
)

// maxVerdictBody caps how much of a response is read.
const maxVerdictBody = 64 << 10

// CommunicationError reports a failed exchange with the validation server:
// the request could not be sent, or the answer could not be understood.
type CommunicationError struct {
	Op  string
	Err error
}

func (e *CommunicationError) Error() string {
	return fmt.Sprintf("verdict %s: %v", e.Op, e.Err)
}

func (e *CommunicationError) Unwrap() error { return e.Err }

// VerdictClient submits UIDs to the validation server.  Every call is a new
// request; nothing is cached or retried.
type VerdictClient struct {
	url        string
	httpClient *http.Client
}

// NewVerdictClient returns a client posting to url.  timeout bounds the whole
// exchange.
func NewVerdictClient(url string, timeout time.Duration) *VerdictClient {
	return &VerdictClient{
		url:        url,
		httpClient: &http.Client{Timeout: timeout},
	}
}

type verdictRequest struct {
	UID string `json:"uid"`
}

// Submit posts {"uid": uid} and decodes the answer.  The HTTP status is not
// consulted: any JSON object body is interpreted.  The request ID is sent as
// X-Request-ID; an empty id gets a fresh one.
func (c *VerdictClient) Submit(ctx context.Context, id, uid string) (VerdictResponse, error) {
	if id == "" {
		id = uuid.NewString()
	}
	body, err := json.Marshal(verdictRequest{UID: uid})
	if err != nil {
		return VerdictResponse{}, &CommunicationError{Op: "encode", Err: err}
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(body))
	if err != nil {
		return VerdictResponse{}, &CommunicationError{Op: "request", Err: err}
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Request-ID", id)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return VerdictResponse{}, &CommunicationError{Op: "post", Err: err}
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxVerdictBody))
	if err != nil {
		return VerdictResponse{}, &CommunicationError{Op: "read", Err: err}
	}
	v, err := parseVerdict(data)
	if err != nil {
		return VerdictResponse{}, &CommunicationError{Op: "decode", Err: fmt.Errorf("status %d: %w", resp.StatusCode, err)}
	}
	return v, nil
}

// parseVerdict reads the success and message fields of a JSON object.  Missing
// or oddly typed fields never fail the parse; only a body that is not a JSON
// object does.
func parseVerdict(data []byte) (VerdictResponse, error) {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(data, &fields); err != nil {
		return VerdictResponse{}, err
	}
	if fields == nil {
		return VerdictResponse{}, fmt.Errorf("response is not a JSON object")
	}
	var v VerdictResponse
	raw, ok := fields["success"]
	if !ok {
		v.Malformed = true
	} else {
		lit := string(bytes.TrimSpace(raw))
		v.Malformed = lit != "true" && lit != "false"
		v.Success = truthy(raw)
	}
	v.Message = messageText(fields["message"])
	return v, nil
}

// truthy applies loose truthiness to a JSON value: false, null, 0, "" and
// empty arrays or objects are false, everything else is true.
func truthy(raw json.RawMessage) bool {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 {
		return false
	}
	switch raw[0] {
	case 't':
		return true
	case 'f', 'n':
		return false
	case '"':
		var s string
		return json.Unmarshal(raw, &s) == nil && s != ""
	case '[':
		var a []json.RawMessage
		return json.Unmarshal(raw, &a) == nil && len(a) > 0
	case '{':
		var o map[string]json.RawMessage
		return json.Unmarshal(raw, &o) == nil && len(o) > 0
	default:
		f, err := strconv.ParseFloat(string(raw), 64)
		if errors.Is(err, strconv.ErrRange) {
			// Overflow reports ±Inf.
			return f != 0
		}
		return err == nil && f != 0
	}
}

func messageText(raw json.RawMessage) string {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return ""
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s
	}
	return string(raw)
}
