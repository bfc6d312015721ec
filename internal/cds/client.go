package cds

import (
	"bytes"
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"net/url"
	"os"
	"regexp"
	"strings"
	"time"

	"github.com/xhhuango/json"

	"github.com/rtm0/era5cli/internal/era5"
)

// Task states reported by the archive.
const (
	stateQueued    = "queued"
	stateRunning   = "running"
	stateCompleted = "completed"
	stateFailed    = "failed"
)

const keyRE = `^[^:\s]+:[^:\s]+$`

// Options configures a Client.
type Options struct {
	URL          string
	Key          string
	MaxConns     int
	Timeout      time.Duration
	PollInterval time.Duration
	MaxRetries   int
	RetrySleep   time.Duration
	// TLS overrides the transport TLS configuration, e.g. RC.TLSConfig().
	TLS          *tls.Config
}

// Client is a Climate Data Store API client capable of retrieving ERA5 requests.
type Client struct {
	logger       *slog.Logger
	httpCli      *http.Client
	baseURL      *url.URL
	uid          string
	apiKey       string
	pollInterval time.Duration
	maxRetries   int
	retrySleep   time.Duration
}

var _ era5.Retriever = (*Client)(nil)

// NewClient creates a new CDS client.
func NewClient(logger *slog.Logger, opts Options) (*Client, error) {
	u, err := url.Parse(strings.TrimRight(opts.URL, "/"))
	if err != nil {
		return nil, err
	}
	if u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("CDS API URL %q is not absolute", opts.URL)
	}

	matches, err := regexp.MatchString(keyRE, opts.Key)
	if err != nil {
		return nil, err
	}
	if !matches {
		return nil, fmt.Errorf("CDS API key does not match %q regular expression", keyRE)
	}
	uid, apiKey, _ := strings.Cut(opts.Key, ":")

	if opts.MaxConns <= 0 {
		opts.MaxConns = 1
	}
	if opts.Timeout == 0 {
		opts.Timeout = 60 * time.Second
	}
	if opts.PollInterval == 0 {
		opts.PollInterval = 10 * time.Second
	}
	if opts.RetrySleep == 0 {
		opts.RetrySleep = 30 * time.Second
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &Client{
		logger: logger,
		httpCli: &http.Client{
			Transport: &http.Transport{
				DialContext: (&net.Dialer{
					Timeout:   30 * time.Second,
					KeepAlive: 30 * time.Second,
				}).DialContext,
				MaxIdleConns:          opts.MaxConns,
				IdleConnTimeout:       30 * time.Second,
				MaxIdleConnsPerHost:   opts.MaxConns,
				MaxConnsPerHost:       opts.MaxConns,
				ResponseHeaderTimeout: opts.Timeout,
				TLSClientConfig:       opts.TLS,
			},
		},
		baseURL:      u,
		uid:          uid,
		apiKey:       apiKey,
		pollInterval: opts.PollInterval,
		maxRetries:   opts.MaxRetries,
		retrySleep:   opts.RetrySleep,
	}, nil
}

type taskError struct {
	Message string `json:"message"`
	Reason  string `json:"reason"`
}

type task struct {
	State         string     `json:"state"`
	RequestID     string     `json:"request_id"`
	Location      string     `json:"location"`
	ContentLength int64      `json:"content_length"`
	Error         *taskError `json:"error"`
}

// Retrieve submits req for dataset, waits for the archive to complete it and stores
// the result at target.
func (c *Client) Retrieve(ctx context.Context, dataset string, req era5.Request, target string) error {
	body, err := json.Marshal(req)
	if err != nil {
		return err
	}
	t, err := c.call(ctx, http.MethodPost, "resources/"+dataset, body)
	if err != nil {
		return err
	}
	c.logger.Info("Request submitted", "dataset", dataset, "id", t.RequestID, "state", t.State)

	for t.State == stateQueued || t.State == stateRunning {
		if err := c.sleep(ctx, c.pollInterval); err != nil {
			return err
		}
		id := t.RequestID
		t, err = c.call(ctx, http.MethodGet, "tasks/"+id, nil)
		if err != nil {
			return err
		}
		c.logger.Debug("Request state", "id", id, "state", t.State)
	}
	if t.RequestID != "" {
		defer c.deleteTask(t.RequestID)
	}

	switch t.State {
	case stateCompleted:
		return c.download(ctx, t, target)
	case stateFailed:
		msg := "request failed"
		if t.Error != nil {
			msg = strings.TrimSpace(t.Error.Message + " " + t.Error.Reason)
		}
		return &APIError{Message: msg}
	default:
		return &APIError{Message: fmt.Sprintf("unexpected request state %q", t.State)}
	}
}

func (c *Client) resolve(ref string) string {
	u, err := url.Parse(ref)
	if err != nil || u.IsAbs() {
		return ref
	}
	if strings.HasPrefix(ref, "/") {
		return c.baseURL.ResolveReference(u).String()
	}
	return c.baseURL.JoinPath(ref).String()
}

// call sends an API request and decodes the task it returns, retrying transient failures.
func (c *Client) call(ctx context.Context, method, path string, body []byte) (*task, error) {
	var t task
	err := c.withRetry(ctx, method+" "+path, func() error {
		var r io.Reader
		if body != nil {
			r = bytes.NewReader(body)
		}
		req, err := http.NewRequestWithContext(ctx, method, c.resolve(path), r)
		if err != nil {
			return err
		}
		req.SetBasicAuth(c.uid, c.apiKey)
		if body != nil {
			req.Header.Set("Content-Type", "application/json")
		}
		res, err := c.httpCli.Do(req)
		if err != nil {
			return &transientError{err: err}
		}
		defer res.Body.Close()
		data, err := io.ReadAll(res.Body)
		if err != nil {
			return &transientError{err: err}
		}
		if res.StatusCode/100 != 2 {
			return statusError(res.StatusCode, data)
		}
		t = task{}
		return json.Unmarshal(data, &t)
	})
	if err != nil {
		return nil, err
	}
	return &t, nil
}

func statusError(code int, body []byte) error {
	var te taskError
	msg := http.StatusText(code)
	if json.Unmarshal(body, &te) == nil && te.Message != "" {
		msg = strings.TrimSpace(te.Message + " " + te.Reason)
	}
	err := &APIError{Status: code, Message: msg}
	if code >= 500 || code == http.StatusTooManyRequests {
		return &transientError{err: err}
	}
	return err
}

func (c *Client) download(ctx context.Context, t *task, target string) error {
	if t.Location == "" {
		return &APIError{Message: "completed request has no location"}
	}
	tmp := target + ".part"
	err := c.withRetry(ctx, "download "+target, func() error {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.resolve(t.Location), nil)
		if err != nil {
			return err
		}
		res, err := c.httpCli.Do(req)
		if err != nil {
			return &transientError{err: err}
		}
		defer res.Body.Close()
		if res.StatusCode != http.StatusOK {
			data, _ := io.ReadAll(res.Body)
			return statusError(res.StatusCode, data)
		}

		f, err := os.Create(tmp)
		if err != nil {
			return err
		}
		n, err := io.Copy(f, res.Body)
		if cerr := f.Close(); err == nil {
			err = cerr
		}
		if err != nil {
			return &transientError{err: err}
		}
		if t.ContentLength > 0 && n != t.ContentLength {
			return &transientError{err: &APIError{
				Message: fmt.Sprintf("downloaded %d bytes, expected %d", n, t.ContentLength),
				Err:     io.ErrUnexpectedEOF,
			}}
		}
		return nil
	})
	if err != nil {
		os.Remove(tmp)
		return err
	}
	c.logger.Info("Downloaded", "target", target, "bytes", t.ContentLength)
	return os.Rename(tmp, target)
}

func (c *Client) deleteTask(id string) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	req, err := http.NewRequestWithContext(ctx, http.MethodDelete, c.resolve("tasks/"+id), nil)
	if err != nil {
		return
	}
	req.SetBasicAuth(c.uid, c.apiKey)
	res, err := c.httpCli.Do(req)
	if err != nil {
		c.logger.Warn("Could not delete task", "id", id, "err", err)
		return
	}
	if _, err := io.Copy(io.Discard, res.Body); err != nil {
		c.logger.Warn("Failed to drain response body", "err", err)
	}
	res.Body.Close()
}

func (c *Client) withRetry(ctx context.Context, what string, fn func() error) error {
	var err error
	for attempt := 0; attempt <= c.maxRetries; attempt++ {
		if attempt > 0 {
			c.logger.Warn("Retrying", "op", what, "attempt", attempt, "err", err)
			if serr := c.sleep(ctx, c.retrySleep); serr != nil {
				return serr
			}
		}
		err = fn()
		var te *transientError
		if !errors.As(err, &te) {
			return err
		}
	}
	return err
}

func (c *Client) sleep(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
