package authority

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"

	"github.com/gorilla/websocket"
)

// WatchURL builds the spectator websocket URL for a session on an HTTP
// authority base URL.
func WatchURL(baseURL, session string) (string, error) {
	u, err := url.Parse(baseURL)
	if err != nil {
		return "", fmt.Errorf("authority: bad url %q: %w", baseURL, err)
	}
	switch u.Scheme {
	case "http":
		u.Scheme = "ws"
	case "https":
		u.Scheme = "wss"
	case "ws", "wss":
	default:
		return "", fmt.Errorf("authority: unsupported scheme %q", u.Scheme)
	}
	u.Path = strings.TrimSuffix(u.Path, "/") + "/ws/" + url.PathEscape(session)
	return u.String(), nil
}

// Watch streams a session's board updates to fn until ctx is cancelled or the
// server closes the connection.
func Watch(ctx context.Context, wsURL string, fn func(BoardUpdate)) error {
	conn, _, err := websocket.DefaultDialer.DialContext(ctx, wsURL, nil)
	if err != nil {
		return fmt.Errorf("authority: cannot connect to %s: %w", wsURL, err)
	}
	defer conn.Close()

	stop := context.AfterFunc(ctx, func() {
		conn.Close()
	})
	defer stop()

	for {
		var u BoardUpdate
		if err := conn.ReadJSON(&u); err != nil {
			if ctx.Err() != nil {
				return nil
			}
			var closeErr *websocket.CloseError
			if errors.As(err, &closeErr) {
				return nil
			}
			return fmt.Errorf("authority: watch: %w", err)
		}
		fn(u)
	}
}
