package browser

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/findmylink/companion/internal/domain"
)

// DefaultFolderID is where the in-memory browser files new bookmarks,
// mirroring the browser's "Bookmarks bar" folder.
const DefaultFolderID = "1"

// Memory is an in-process Browser used by tests and by the dev bridge mode.
// It keeps bookmark nodes flat (id -> node) and rebuilds the tree on demand,
// so mutation semantics stay trivially correct.
type Memory struct {
	mu      sync.RWMutex
	nodes   map[string]domain.BookmarkNode
	tabs    map[int]domain.TabItem
	focused int
	events  []string
	nextID  int
	timeNow func() time.Time
}

// NewMemory creates an in-memory browser with the default folder present.
func NewMemory() *Memory {
	m := &Memory{
		nodes:   make(map[string]domain.BookmarkNode),
		tabs:    make(map[int]domain.TabItem),
		nextID:  100,
		timeNow: time.Now,
	}
	m.nodes["0"] = domain.BookmarkNode{ID: "0"}
	m.nodes[DefaultFolderID] = domain.BookmarkNode{ID: DefaultFolderID, Title: "Bookmarks bar", ParentID: "0"}
	return m
}

// SeedBookmark inserts a bookmark node directly, for test setup.
func (m *Memory) SeedBookmark(node domain.BookmarkNode) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if node.ParentID == "" {
		node.ParentID = DefaultFolderID
	}
	m.nodes[node.ID] = node
}

// SeedTab inserts a tab directly, for test setup.
func (m *Memory) SeedTab(tab domain.TabItem) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.tabs[tab.ID] = tab
}

// Events returns the runtime notifications broadcast so far.
func (m *Memory) Events() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]string, len(m.events))
	copy(out, m.events)
	return out
}

// FocusedWindow returns the last window id passed to FocusWindow.
func (m *Memory) FocusedWindow() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.focused
}

func (m *Memory) BookmarkTree(ctx context.Context) ([]domain.BookmarkNode, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	children := make(map[string][]domain.BookmarkNode)
	for _, n := range m.nodes {
		if n.ID == "0" {
			continue
		}
		children[n.ParentID] = append(children[n.ParentID], n)
	}

	var build func(id string) []domain.BookmarkNode
	build = func(id string) []domain.BookmarkNode {
		kids := children[id]
		out := make([]domain.BookmarkNode, 0, len(kids))
		for _, k := range kids {
			k.Children = build(k.ID)
			out = append(out, k)
		}
		return out
	}

	root := m.nodes["0"]
	root.Children = build("0")
	return []domain.BookmarkNode{root}, nil
}

func (m *Memory) Bookmark(ctx context.Context, id string) (domain.BookmarkNode, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	node, ok := m.nodes[id]
	if !ok {
		return domain.BookmarkNode{}, fmt.Errorf("bookmark not found: %s", id)
	}
	return node, nil
}

func (m *Memory) CreateBookmark(ctx context.Context, title, url string) (domain.BookmarkNode, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.nextID++
	node := domain.BookmarkNode{
		ID:        fmt.Sprintf("%d", m.nextID),
		Title:     title,
		URL:       url,
		ParentID:  DefaultFolderID,
		DateAdded: m.timeNow(),
	}
	m.nodes[node.ID] = node
	return node, nil
}

func (m *Memory) RemoveBookmark(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.nodes[id]; !ok {
		return fmt.Errorf("bookmark not found: %s", id)
	}
	delete(m.nodes, id)
	return nil
}

func (m *Memory) Tabs(ctx context.Context) ([]domain.TabItem, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	tabs := make([]domain.TabItem, 0, len(m.tabs))
	for _, t := range m.tabs {
		tabs = append(tabs, t)
	}
	return tabs, nil
}

func (m *Memory) ActivateTab(ctx context.Context, tabID int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	tab, ok := m.tabs[tabID]
	if !ok {
		return fmt.Errorf("tab not found: %d", tabID)
	}
	for id, t := range m.tabs {
		if t.WindowID == tab.WindowID {
			t.Active = id == tabID
			m.tabs[id] = t
		}
	}
	return nil
}

func (m *Memory) FocusWindow(ctx context.Context, windowID int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.focused = windowID
	return nil
}

func (m *Memory) CreateTab(ctx context.Context, url string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.nextID++
	m.tabs[m.nextID] = domain.TabItem{
		ID:           m.nextID,
		TabURL:       url,
		LastAccessed: m.timeNow(),
		WindowID:     1,
		Active:       true,
	}
	return nil
}

func (m *Memory) Notify(ctx context.Context, event string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.events = append(m.events, event)
	return nil
}
