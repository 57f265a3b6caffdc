package authority

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"strings"

	"github.com/vovakirdan/slidepuzzle/internal/puzzle"
)

// Client talks to an HTTP authority. Transport failures and malformed
// answers wrap puzzle.ErrNetworkFailure.
type Client struct {
	baseURL *url.URL
	http    *http.Client
}

// NewClient creates a client for the authority at baseURL. The client keeps
// its session cookie for its whole lifetime. Requests carry no timeout of
// their own; cancel the context to abandon one.
func NewClient(baseURL string) (*Client, error) {
	u, err := url.Parse(strings.TrimSuffix(baseURL, "/"))
	if err != nil {
		return nil, fmt.Errorf("authority: bad url %q: %w", baseURL, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("authority: unsupported scheme %q", u.Scheme)
	}
	jar, err := cookiejar.New(nil)
	if err != nil {
		return nil, err
	}
	return &Client{baseURL: u, http: &http.Client{Jar: jar}}, nil
}

// BaseURL returns the authority address.
func (c *Client) BaseURL() string {
	return c.baseURL.String()
}

// SessionID returns the session cookie issued by the authority, once known.
func (c *Client) SessionID() string {
	for _, ck := range c.http.Jar.Cookies(c.baseURL) {
		if ck.Name == SessionCookie {
			return ck.Value
		}
	}
	return ""
}

// StartGame requests a new shuffled board.
func (c *Client) StartGame(ctx context.Context, gridSize int) (puzzle.StartResponse, error) {
	var raw struct {
		GridSize  int    `json:"grid_size"`
		Positions []int  `json:"positions"`
		ImagePath string `json:"image_path"`
	}
	if err := c.call(ctx, http.MethodPost, "/api/start_game", map[string]int{"grid_size": gridSize}, &raw); err != nil {
		return puzzle.StartResponse{}, err
	}
	if raw.Positions == nil {
		return puzzle.StartResponse{}, fmt.Errorf("%w: start response without positions", puzzle.ErrNetworkFailure)
	}
	return puzzle.StartResponse{GridSize: raw.GridSize, Positions: raw.Positions, ImagePath: raw.ImagePath}, nil
}

// Move asks the authority to slide the tile in slot.
func (c *Client) Move(ctx context.Context, slot int) (puzzle.MoveResponse, error) {
	var raw struct {
		Moved     *bool `json:"moved"`
		Positions []int `json:"positions"`
		IsSolved  *bool `json:"is_solved"`
	}
	if err := c.call(ctx, http.MethodPost, "/api/move", map[string]int{"index": slot}, &raw); err != nil {
		return puzzle.MoveResponse{}, err
	}
	if raw.Positions == nil || raw.Moved == nil || raw.IsSolved == nil {
		return puzzle.MoveResponse{}, fmt.Errorf("%w: incomplete move response", puzzle.ErrNetworkFailure)
	}
	return puzzle.MoveResponse{Moved: *raw.Moved, Positions: raw.Positions, IsSolved: *raw.IsSolved}, nil
}

// Board fetches the current board of this client's session.
func (c *Client) Board(ctx context.Context) (BoardUpdate, error) {
	var u BoardUpdate
	err := c.call(ctx, http.MethodGet, "/api/board", nil, &u)
	return u, err
}

// Open fetches a file served by the authority, such as a session picture.
func (c *Client) Open(ctx context.Context, path string) (io.ReadCloser, error) {
	ref, err := url.Parse("/" + strings.TrimPrefix(path, "/"))
	if err != nil {
		return nil, err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL.ResolveReference(ref).String(), nil)
	if err != nil {
		return nil, err
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", puzzle.ErrNetworkFailure, err)
	}
	if resp.StatusCode != http.StatusOK {
		resp.Body.Close()
		return nil, fmt.Errorf("%w: GET %s: %s", puzzle.ErrNetworkFailure, path, resp.Status)
	}
	return resp.Body, nil
}

func (c *Client) call(ctx context.Context, method, path string, body, result any) error {
	var reqBody io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reqBody = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL.String()+path, reqBody)
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", puzzle.ErrNetworkFailure, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		var errResp map[string]string
		json.NewDecoder(resp.Body).Decode(&errResp) //nolint:errcheck // Error body is optional
		if msg, ok := errResp["error"]; ok {
			return fmt.Errorf("%w: %s", puzzle.ErrNetworkFailure, msg)
		}
		return fmt.Errorf("%w: %s %s: %s", puzzle.ErrNetworkFailure, method, path, resp.Status)
	}

	if err := json.NewDecoder(resp.Body).Decode(result); err != nil {
		return fmt.Errorf("%w: malformed response: %v", puzzle.ErrNetworkFailure, err)
	}
	return nil
}

var _ puzzle.Authority = (*Client)(nil)
