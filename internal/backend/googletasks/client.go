// Package googletasks implements service.Backend on a Google Tasks list.
//
// A task's name is the Google task title. Its description and wire status
// record are kept as a JSON document in the notes field; the Google status
// mirrors whether the task is Completed.
package googletasks

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"strings"
	"time"

	"go.uber.org/zap"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	"google.golang.org/api/option"
	tasks "google.golang.org/api/tasks/v1"

	"taskchain/internal/config"
	"taskchain/internal/logger"
	"taskchain/internal/service"
)

const (
	// DefaultListID is the special ID for the default list.
	DefaultListID = "@default"

	// PageSize is the number of tasks fetched per API page.
	PageSize = 100

	// APITimeout is the default timeout for API calls.
	APITimeout = 5 * time.Second

	// TasksScope is the OAuth scope for Google Tasks.
	TasksScope = "https://www.googleapis.com/auth/tasks"

	statusNeedsAction = "needsAction"
	statusCompleted   = "completed"
)

// Client implements service.Backend using Google Tasks API.
type Client struct {
	svc     *tasks.Service
	listID  string
	timeout time.Duration
	log     *zap.Logger
}

// Option customizes a Client.
type Option func(*Client)

// WithListID selects the task list that holds the tasks.
func WithListID(id string) Option {
	return func(c *Client) {
		if strings.TrimSpace(id) != "" {
			c.listID = id
		}
	}
}

// WithTimeout overrides the per-call timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.timeout = d
		}
	}
}

// WithLogger sets the logger.
func WithLogger(log *zap.Logger) Option {
	return func(c *Client) {
		if log != nil {
			c.log = log
		}
	}
}

// New creates a new Google Tasks client.
// Requires oauth_client.json and token.json to exist.
func New(ctx context.Context, cfg *config.Config, opts ...Option) (*Client, error) {
	// Load OAuth client config
	clientJSON, err := os.ReadFile(cfg.OAuthClientPath())
	if err != nil {
		return nil, fmt.Errorf("failed to read oauth_client.json: %w", err)
	}

	oauthConfig, err := google.ConfigFromJSON(clientJSON, TasksScope)
	if err != nil {
		return nil, fmt.Errorf("invalid oauth_client.json: %w", err)
	}

	// Load token
	tokenData, err := os.ReadFile(cfg.TokenPath())
	if err != nil {
		return nil, fmt.Errorf("failed to read token.json: %w", err)
	}

	var token oauth2.Token
	if err := json.Unmarshal(tokenData, &token); err != nil {
		return nil, fmt.Errorf("invalid token.json: %w", err)
	}

	// Create token source that auto-refreshes
	tokenSource := oauthConfig.TokenSource(ctx, &token)

	return NewWithHTTPClient(ctx, oauth2.NewClient(ctx, tokenSource), opts...)
}

// NewWithHTTPClient creates a client with a custom HTTP client (for testing).
func NewWithHTTPClient(ctx context.Context, httpClient *http.Client, opts ...Option) (*Client, error) {
	svc, err := tasks.NewService(ctx, option.WithHTTPClient(httpClient))
	if err != nil {
		return nil, fmt.Errorf("failed to create tasks service: %w", err)
	}
	return newClient(svc, opts...), nil
}

// NewWithEndpoint creates a client that talks to a non-Google endpoint (for testing).
func NewWithEndpoint(ctx context.Context, httpClient *http.Client, endpoint string, opts ...Option) (*Client, error) {
	svc, err := tasks.NewService(ctx, option.WithHTTPClient(httpClient), option.WithEndpoint(endpoint))
	if err != nil {
		return nil, fmt.Errorf("failed to create tasks service: %w", err)
	}
	return newClient(svc, opts...), nil
}

func newClient(svc *tasks.Service, opts ...Option) *Client {
	c := &Client{
		svc:     svc,
		listID:  DefaultListID,
		timeout: APITimeout,
		log:     zap.NewNop(),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(c)
		}
	}
	return c
}

// ListTasks returns every task in the list, including completed and hidden ones.
func (c *Client) ListTasks(ctx context.Context) ([]service.Record, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	var result []service.Record
	err := c.svc.Tasks.List(c.listID).
		MaxResults(PageSize).
		ShowCompleted(true).
		ShowHidden(true).
		ShowDeleted(false).
		Pages(ctx, func(resp *tasks.Tasks) error {
			for _, task := range resp.Items {
				result = append(result, toRecord(task))
			}
			return nil
		})
	if err != nil {
		return nil, wrapError(err)
	}

	c.logger(ctx).Debug("listed google tasks", zap.Int("count", len(result)))
	return result, nil
}

// CreateTask inserts a new task at the end of the list.
func (c *Client) CreateTask(ctx context.Context, fields service.RecordFields) error {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	task, err := fromFields(fields)
	if err != nil {
		return err
	}

	last, err := c.lastTaskID(ctx)
	if err != nil {
		return err
	}

	// The API inserts at the top unless told which sibling to follow.
	call := c.svc.Tasks.Insert(c.listID, task)
	if last != "" {
		call = call.Previous(last)
	}

	if _, err := call.Context(ctx).Do(); err != nil {
		return wrapError(err)
	}
	return nil
}

// UpdateTask patches title, notes and status of the task with id.
func (c *Client) UpdateTask(ctx context.Context, id string, fields service.RecordFields) error {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	task, err := fromFields(fields)
	if err != nil {
		return err
	}
	if task.Status != statusCompleted {
		// Reopening a task requires clearing its completion time.
		task.NullFields = append(task.NullFields, "Completed")
	}

	if _, err := c.svc.Tasks.Patch(c.listID, id, task).Context(ctx).Do(); err != nil {
		return wrapError(err)
	}
	return nil
}

// DeleteTask deletes a task.
func (c *Client) DeleteTask(ctx context.Context, id string) error {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	if err := c.svc.Tasks.Delete(c.listID, id).Context(ctx).Do(); err != nil {
		return wrapError(err)
	}
	return nil
}

// ListTitle returns the title of the configured task list. It fails with a
// not found error if the list does not exist.
func (c *Client) ListTitle(ctx context.Context) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	list, err := c.svc.Tasklists.Get(c.listID).Context(ctx).Do()
	if err != nil {
		return "", wrapError(err)
	}
	return list.Title, nil
}

func (c *Client) lastTaskID(ctx context.Context) (string, error) {
	var last string
	err := c.svc.Tasks.List(c.listID).
		MaxResults(PageSize).
		ShowCompleted(true).
		ShowHidden(true).
		Pages(ctx, func(resp *tasks.Tasks) error {
			for _, task := range resp.Items {
				if task.Parent == "" {
					last = task.Id
				}
			}
			return nil
		})
	if err != nil {
		return "", wrapError(err)
	}
	return last, nil
}

func (c *Client) logger(ctx context.Context) *zap.Logger {
	return logger.WithRequestID(ctx, c.log)
}

// notesDoc is the JSON document stored in a Google task's notes.
type notesDoc struct {
	Description string               `json:"description"`
	Status      service.StatusRecord `json:"status"`
}

// toRecord converts a Google task into a wire record.
// Notes that are not a notes document become the description as-is, with a
// status derived from the Google status.
func toRecord(task *tasks.Task) service.Record {
	rec := service.Record{ID: task.Id, Name: task.Title}

	var doc notesDoc
	if err := json.Unmarshal([]byte(task.Notes), &doc); err == nil && len(doc.Status) > 0 {
		rec.Description = doc.Description
		rec.Status = doc.Status
		return rec
	}

	rec.Description = task.Notes
	if task.Status == statusCompleted {
		rec.Status = service.EncodeStatus(service.StatusCompleted)
	} else {
		rec.Status = service.EncodeStatus(service.StatusPending)
	}
	return rec
}

// fromFields converts a wire payload into a Google task.
func fromFields(fields service.RecordFields) (*tasks.Task, error) {
	notes, err := json.Marshal(notesDoc{Description: fields.Description, Status: fields.Status})
	if err != nil {
		return nil, fmt.Errorf("encode notes: %w", err)
	}

	status := statusNeedsAction
	if _, ok := fields.Status[string(service.StatusCompleted)]; ok {
		status = statusCompleted
	}
	return &tasks.Task{
		Title:  fields.Name,
		Notes:  string(notes),
		Status: status,
	}, nil
}

// wrapError wraps API errors with user-friendly messages.
func wrapError(err error) error {
	if err == nil {
		return nil
	}

	errStr := err.Error()

	// Check for timeout
	if strings.Contains(errStr, "context deadline exceeded") {
		return fmt.Errorf("request timed out")
	}

	// Check for auth errors
	if strings.Contains(errStr, "401") || strings.Contains(errStr, "403") {
		return fmt.Errorf("token expired or revoked (run: taskchain login)")
	}

	// Check for not found
	if strings.Contains(errStr, "404") {
		return fmt.Errorf("not found")
	}

	return err
}
