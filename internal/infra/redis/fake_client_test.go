package redis

import (
	"context"
	"strconv"
	"sync"
	"time"

	"github.com/go-redis/redis/v8"
)

// fakeClient is an in-memory RedisClient covering the commands the stores use.
type fakeClient struct {
	mu      sync.Mutex
	strings map[string]string
	lists   map[string][]string
	hashes  map[string]map[string]string
	ttls    map[string]time.Duration
	err     error
}

func newFakeClient() *fakeClient {
	return &fakeClient{
		strings: map[string]string{},
		lists:   map[string][]string{},
		hashes:  map[string]map[string]string{},
		ttls:    map[string]time.Duration{},
	}
}

func (f *fakeClient) Ping(context.Context) error { return f.err }

func (f *fakeClient) Set(_ context.Context, key string, value interface{}, exp time.Duration) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	switch v := value.(type) {
	case string:
		f.strings[key] = v
	case []byte:
		f.strings[key] = string(v)
	}
	if exp > 0 {
		f.ttls[key] = exp
	}
	return nil
}

func (f *fakeClient) Get(_ context.Context, key string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return "", f.err
	}
	v, ok := f.strings[key]
	if !ok {
		return "", redis.Nil
	}
	return v, nil
}

func (f *fakeClient) Incr(_ context.Context, key string) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return 0, f.err
	}
	n, _ := strconv.ParseInt(f.strings[key], 10, 64)
	n++
	f.strings[key] = strconv.FormatInt(n, 10)
	return n, nil
}

func (f *fakeClient) Expire(_ context.Context, key string, exp time.Duration) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.ttls[key] = exp
	return f.err
}

func (f *fakeClient) Del(_ context.Context, keys ...string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, k := range keys {
		delete(f.strings, k)
		delete(f.lists, k)
		delete(f.hashes, k)
		delete(f.ttls, k)
	}
	return f.err
}

func (f *fakeClient) RPush(_ context.Context, key string, values ...interface{}) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	for _, v := range values {
		f.lists[key] = append(f.lists[key], v.(string))
	}
	return nil
}

// bounds converts redis start/stop (inclusive, negatives from the tail) to a slice range.
func bounds(n int, start, stop int64) (int, int) {
	s, e := int(start), int(stop)
	if s < 0 {
		s += n
	}
	if e < 0 {
		e += n
	}
	if s < 0 {
		s = 0
	}
	if e >= n {
		e = n - 1
	}
	if s > e {
		return 0, 0
	}
	return s, e + 1
}

func (f *fakeClient) LRange(_ context.Context, key string, start, stop int64) ([]string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	l := f.lists[key]
	s, e := bounds(len(l), start, stop)
	return append([]string(nil), l[s:e]...), nil
}

func (f *fakeClient) LTrim(_ context.Context, key string, start, stop int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	l := f.lists[key]
	s, e := bounds(len(l), start, stop)
	f.lists[key] = append([]string(nil), l[s:e]...)
	return f.err
}

func (f *fakeClient) HSetNX(_ context.Context, key, field string, value interface{}) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return false, f.err
	}
	if f.hashes[key] == nil {
		f.hashes[key] = map[string]string{}
	}
	if _, ok := f.hashes[key][field]; ok {
		return false, nil
	}
	f.hashes[key][field] = value.(string)
	return true, nil
}

func (f *fakeClient) HGetAll(_ context.Context, key string) (map[string]string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	out := make(map[string]string, len(f.hashes[key]))
	for k, v := range f.hashes[key] {
		out[k] = v
	}
	return out, nil
}

func (f *fakeClient) Close() error { return nil }
