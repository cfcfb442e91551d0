package dbconn

import (
	"bytes"
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"
	"sync"
	"time"

	"github.com/cespare/xxhash/v2"
	"github.com/mitranim/sqld"
	"github.com/vmihailenco/msgpack/v5"
	"golang.org/x/sync/singleflight"
)

/*
Key-value store holding encoded query results. A zero TTL means entries don't
expire. Implementations must be safe for concurrent use.
*/
type Cache interface {
	Get(key string) ([]byte, bool)
	Set(key string, val []byte, ttl time.Duration)
	Delete(key string)
}

// In-process `Cache` with lazy expiration.
type MemoryCache struct {
	lock    sync.Mutex
	entries map[string]cacheEntry
	now     func() time.Time
}

type cacheEntry struct {
	val     []byte
	expires time.Time
}

func NewMemoryCache() *MemoryCache {
	return &MemoryCache{entries: map[string]cacheEntry{}, now: time.Now}
}

// Implement `Cache`.
func (self *MemoryCache) Get(key string) ([]byte, bool) {
	self.lock.Lock()
	defer self.lock.Unlock()

	entry, ok := self.entries[key]
	if !ok {
		return nil, false
	}
	if !entry.expires.IsZero() && !self.now().Before(entry.expires) {
		delete(self.entries, key)
		return nil, false
	}
	return entry.val, true
}

// Implement `Cache`.
func (self *MemoryCache) Set(key string, val []byte, ttl time.Duration) {
	entry := cacheEntry{val: val}

	self.lock.Lock()
	defer self.lock.Unlock()

	if ttl > 0 {
		entry.expires = self.now().Add(ttl)
	}
	self.entries[key] = entry
}

// Implement `Cache`.
func (self *MemoryCache) Delete(key string) {
	self.lock.Lock()
	defer self.lock.Unlock()
	delete(self.entries, key)
}

// Number of stored entries, including expired ones not yet evicted.
func (self *MemoryCache) Len() int {
	self.lock.Lock()
	defer self.lock.Unlock()
	return len(self.entries)
}

// Materialized query result: one map per row, keyed by column name.
type Rows []map[string]any

// Cache key of a compiled statement: hex xxhash of the dialect name and SQL.
func Fingerprint(dialect sqld.Dialect, text string) string {
	hash := xxhash.New()
	_, _ = hash.WriteString(dialect.Name())
	_, _ = hash.WriteString("\x00")
	_, _ = hash.WriteString(text)
	return strconv.FormatUint(hash.Sum64(), 16)
}

/*
Runs queries through a `Cache`. Results are stored msgpack-encoded under
`Fingerprint` of the compiled SQL. Concurrent misses for the same key execute
the query once. Each caller gets its own decoded copy.
*/
type CachedQuery struct {
	db    *DB
	cache Cache
	ttl   time.Duration
	group singleflight.Group
}

func NewCachedQuery(db *DB, cache Cache, ttl time.Duration) *CachedQuery {
	if cache == nil {
		cache = NewMemoryCache()
	}
	return &CachedQuery{db: db, cache: cache, ttl: ttl}
}

// Returns the result of the query, from the cache when present.
func (self *CachedQuery) Rows(ctx context.Context, val sqld.Expr) (Rows, error) {
	key, text, err := self.key(val)
	if err != nil {
		return nil, err
	}

	src, ok := self.cache.Get(key)
	if !ok {
		out, err, _ := self.group.Do(key, func() (any, error) {
			return self.fill(ctx, key, text)
		})
		if err != nil {
			return nil, err
		}
		src = out.([]byte)
	}
	return decodeRows(src)
}

// Removes the cached result of the query.
func (self *CachedQuery) Invalidate(val sqld.Expr) error {
	key, _, err := self.key(val)
	if err != nil {
		return err
	}
	self.cache.Delete(key)
	return nil
}

func (self *CachedQuery) key(val sqld.Expr) (string, string, error) {
	text, err := self.db.Ctx().Compile(val)
	if err != nil {
		return ``, ``, err
	}
	return Fingerprint(self.db.Dialect(), text), text, nil
}

func (self *CachedQuery) fill(ctx context.Context, key, text string) ([]byte, error) {
	rows, err := self.db.ExecuteQuery(ctx, text)
	if err != nil {
		return nil, err
	}

	out, err := scanRows(rows)
	if err != nil {
		return nil, err
	}

	src, err := msgpack.Marshal(out)
	if err != nil {
		return nil, fmt.Errorf(`dbconn: encode cached rows: %w`, err)
	}

	self.cache.Set(key, src, self.ttl)
	return src, nil
}

func scanRows(rows *sql.Rows) (out Rows, err error) {
	defer func() { err = errors.Join(err, rows.Close()) }()

	cols, err := rows.Columns()
	if err != nil {
		return nil, fmt.Errorf(`dbconn: columns: %w`, err)
	}

	vals := make([]any, len(cols))
	ptrs := make([]any, len(cols))
	for ind := range vals {
		ptrs[ind] = &vals[ind]
	}

	out = Rows{}
	for rows.Next() {
		err = rows.Scan(ptrs...)
		if err != nil {
			return nil, fmt.Errorf(`dbconn: scan: %w`, err)
		}

		row := make(map[string]any, len(cols))
		for ind, col := range cols {
			row[col] = vals[ind]
		}
		out = append(out, row)
	}

	err = rows.Err()
	if err != nil {
		return nil, fmt.Errorf(`dbconn: query: %w`, err)
	}
	return out, nil
}

// Integers decode as int64 or uint64, floats as float64.
func decodeRows(src []byte) (Rows, error) {
	dec := msgpack.NewDecoder(bytes.NewReader(src))
	dec.UseLooseInterfaceDecoding(true)

	var out Rows
	err := dec.Decode(&out)
	if err != nil {
		return nil, fmt.Errorf(`dbconn: decode cached rows: %w`, err)
	}
	return out, nil
}
