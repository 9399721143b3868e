package bridge

import (
	"context"
	"fmt"
	"io"
	"net"
	"os"

	"github.com/findmylink/companion/internal/browser"
	"github.com/findmylink/companion/internal/domain"
	"github.com/findmylink/companion/internal/logger"
)

// Client drives the browser through the extension side of the bridge.
// Method names mirror the chrome.* APIs the extension proxies.
type Client struct {
	conn *Conn
}

var _ browser.Browser = (*Client)(nil)

// NewClient wraps an established bridge connection.
func NewClient(conn *Conn) *Client {
	return &Client{conn: conn}
}

// Stdio connects over the process stdio pipes, the transport Chrome uses
// when it launches the companion as a native-messaging host.
func Stdio(log logger.Logger) *Client {
	rw := struct {
		io.Reader
		io.Writer
	}{os.Stdin, os.Stdout}
	return NewClient(NewConn(rw, log))
}

// DialTCP connects to an extension-side bridge listening on addr.
// Used in development where stdio is taken by the terminal.
func DialTCP(addr string, log logger.Logger) (*Client, error) {
	conn, err := net.Dial("tcp", addr)
	if err != nil {
		return nil, fmt.Errorf("failed to dial bridge at %s: %w", addr, err)
	}
	return NewClient(NewConn(conn, log)), nil
}

func (c *Client) BookmarkTree(ctx context.Context) ([]domain.BookmarkNode, error) {
	var nodes []wireBookmarkNode
	if err := c.conn.Call(ctx, "bookmarks.getTree", nil, &nodes); err != nil {
		return nil, err
	}
	return mapBookmarkNodes(nodes), nil
}

func (c *Client) Bookmark(ctx context.Context, id string) (domain.BookmarkNode, error) {
	// chrome.bookmarks.get always answers with an array.
	var nodes []wireBookmarkNode
	if err := c.conn.Call(ctx, "bookmarks.get", map[string]string{"id": id}, &nodes); err != nil {
		return domain.BookmarkNode{}, err
	}
	if len(nodes) == 0 {
		return domain.BookmarkNode{}, fmt.Errorf("bookmark not found: %s", id)
	}
	return mapBookmarkNode(nodes[0]), nil
}

func (c *Client) CreateBookmark(ctx context.Context, title, url string) (domain.BookmarkNode, error) {
	var node wireBookmarkNode
	params := map[string]string{"title": title, "url": url}
	if err := c.conn.Call(ctx, "bookmarks.create", params, &node); err != nil {
		return domain.BookmarkNode{}, err
	}
	return mapBookmarkNode(node), nil
}

func (c *Client) RemoveBookmark(ctx context.Context, id string) error {
	return c.conn.Call(ctx, "bookmarks.remove", map[string]string{"id": id}, nil)
}

func (c *Client) Tabs(ctx context.Context) ([]domain.TabItem, error) {
	var tabs []wireTab
	if err := c.conn.Call(ctx, "tabs.query", map[string]any{}, &tabs); err != nil {
		return nil, err
	}
	return mapTabs(tabs), nil
}

func (c *Client) ActivateTab(ctx context.Context, tabID int) error {
	return c.conn.Call(ctx, "tabs.update", map[string]any{"id": tabID, "active": true}, nil)
}

func (c *Client) FocusWindow(ctx context.Context, windowID int) error {
	return c.conn.Call(ctx, "windows.update", map[string]any{"id": windowID, "focused": true}, nil)
}

func (c *Client) CreateTab(ctx context.Context, url string) error {
	return c.conn.Call(ctx, "tabs.create", map[string]string{"url": url}, nil)
}

func (c *Client) Notify(ctx context.Context, event string) error {
	return c.conn.Call(ctx, "runtime.notify", map[string]string{"type": event}, nil)
}
