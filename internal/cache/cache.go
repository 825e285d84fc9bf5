package cache

import (
	"container/list"
	"context"
	"hash/fnv"
	"strconv"
	"strings"
	"sync"
	"time"
)

// ReplyCache memoizes completion replies keyed by normalized message text.
// FAQ answers are never cached; they are already a local lookup.
type ReplyCache interface {
	Get(ctx context.Context, key string) (string, bool)
	Set(ctx context.Context, key string, reply string, ttl time.Duration)
}

// Key normalizes a user message into a compact cache key.
func Key(text string) string {
	h := fnv.New64a()
	_, _ = h.Write([]byte(strings.ToLower(strings.Join(strings.Fields(text), " "))))
	return "reply:" + strconv.FormatUint(h.Sum64(), 16)
}

type memEntry struct {
	key   string
	reply string
	exp   int64 // unix seconds; 0 = no expiry
	elem  *list.Element
}

// Memory is an in-process TTL cache with LRU eviction, safe for concurrent use.
type Memory struct {
	mu       sync.Mutex
	items    map[string]*memEntry
	order    *list.List // MRU at front, LRU at back
	maxItems int        // 0 = unlimited
}

func NewMemory(maxItems int) *Memory {
	if maxItems < 0 {
		maxItems = 0
	}
	return &Memory{items: make(map[string]*memEntry), order: list.New(), maxItems: maxItems}
}

func (c *Memory) Get(ctx context.Context, key string) (string, bool) {
	_ = ctx
	now := time.Now().Unix()

	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.items[key]
	if !ok {
		return "", false
	}
	if e.exp != 0 && e.exp < now {
		c.removeLocked(key)
		return "", false
	}
	c.order.MoveToFront(e.elem)
	return e.reply, true
}

func (c *Memory) Set(ctx context.Context, key string, reply string, ttl time.Duration) {
	_ = ctx
	var exp int64
	if ttl > 0 {
		exp = time.Now().Add(ttl).Unix()
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if e, ok := c.items[key]; ok {
		e.reply = reply
		e.exp = exp
		c.order.MoveToFront(e.elem)
		return
	}
	e := &memEntry{key: key, reply: reply, exp: exp}
	e.elem = c.order.PushFront(e)
	c.items[key] = e
	if c.maxItems > 0 && c.order.Len() > c.maxItems {
		c.evictLRULocked()
	}
}

func (c *Memory) removeLocked(key string) {
	if e, ok := c.items[key]; ok {
		c.order.Remove(e.elem)
		delete(c.items, key)
	}
}

func (c *Memory) evictLRULocked() {
	back := c.order.Back()
	if back == nil {
		return
	}
	if e, ok := back.Value.(*memEntry); ok {
		delete(c.items, e.key)
	}
	c.order.Remove(back)
}
