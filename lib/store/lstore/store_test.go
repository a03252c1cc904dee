package lstore

import (
	"errors"
	"github.com/ValentinKolb/dynoKV/lib/store"
	"sync"
	"testing"
)

// expectCode checks that err is a *store.Error with the given code
func expectCode(t *testing.T, err error, code store.RetCode) {
	t.Helper()
	var storeErr *store.Error
	if !errors.As(err, &storeErr) {
		t.Fatalf("expected *store.Error with code %s, got %v", code, err)
	}
	if storeErr.Code != code {
		t.Fatalf("expected code %s, got %s", code, storeErr.Code)
	}
}

func TestGetMissing(t *testing.T) {
	s := NewLocalStore()

	ctx, values, err := s.Get([]byte("missing"))
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if ctx != nil || values != nil {
		t.Errorf("Get() = %v, %v, want nil, nil", ctx, values)
	}
}

func TestPutGet(t *testing.T) {
	s := NewLocalStore()

	count, err := s.Put([]byte("a"), nil, []byte("1"))
	if err != nil || count != 1 {
		t.Fatalf("Put() = %d, %v, want 1, nil", count, err)
	}

	ctx, values, err := s.Get([]byte("a"))
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if len(ctx) != contextSize {
		t.Errorf("context length = %d, want %d", len(ctx), contextSize)
	}
	if len(values) != 1 || string(values[0]) != "1" {
		t.Errorf("Get() values = %q, want [1]", values)
	}
	if s.Len() != 1 {
		t.Errorf("Len() = %d, want 1", s.Len())
	}
}

func TestPutCopiesValue(t *testing.T) {
	s := NewLocalStore()

	value := []byte("abc")
	if _, err := s.Put([]byte("k"), nil, value); err != nil {
		t.Fatalf("Put() error = %v", err)
	}
	value[0] = 'x'

	_, values, _ := s.Get([]byte("k"))
	if string(values[0]) != "abc" {
		t.Errorf("stored value changed to %q", values[0])
	}
}

func TestPutContext(t *testing.T) {
	tests := []struct {
		name string
		// ctx builds the context for the second put from the first version
		ctx      func(current []byte) []byte
		wantCode store.RetCode
	}{
		{
			name:     "Empty context always writes",
			ctx:      func([]byte) []byte { return []byte{} },
			wantCode: store.RetCSuccess,
		},
		{
			name:     "Current context writes",
			ctx:      func(current []byte) []byte { return current },
			wantCode: store.RetCSuccess,
		},
		{
			name:     "Stale context conflicts",
			ctx:      func([]byte) []byte { return encodeContext(42) },
			wantCode: store.RetCConflict,
		},
		{
			name:     "Malformed context",
			ctx:      func([]byte) []byte { return []byte{1, 2, 3} },
			wantCode: store.RetCInvalidOperation,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := NewLocalStore()
			if _, err := s.Put([]byte("k"), nil, []byte("v1")); err != nil {
				t.Fatalf("Put() error = %v", err)
			}
			current, _, _ := s.Get([]byte("k"))

			_, err := s.Put([]byte("k"), tt.ctx(current), []byte("v2"))

			_, values, _ := s.Get([]byte("k"))
			if tt.wantCode == store.RetCSuccess {
				if err != nil {
					t.Fatalf("Put() error = %v", err)
				}
				if string(values[0]) != "v2" {
					t.Errorf("value = %q, want v2", values[0])
				}
				return
			}

			expectCode(t, err, tt.wantCode)
			if string(values[0]) != "v1" {
				t.Errorf("rejected put changed value to %q", values[0])
			}
		})
	}
}

func TestPutContextMissingKey(t *testing.T) {
	s := NewLocalStore()

	_, err := s.Put([]byte("k"), encodeContext(1), []byte("v"))
	expectCode(t, err, store.RetCConflict)

	if s.Len() != 0 {
		t.Errorf("rejected put created the key")
	}
}

func TestHasRemove(t *testing.T) {
	s := NewLocalStore()
	_, _ = s.Put([]byte("k"), nil, []byte("v"))

	if n, _ := s.Has([]byte("k")); n != 1 {
		t.Errorf("Has(k) = %d, want 1", n)
	}
	if n, _ := s.Has([]byte("missing")); n != 0 {
		t.Errorf("Has(missing) = %d, want 0", n)
	}

	if n, err := s.Remove([]byte("k")); err != nil || n != 1 {
		t.Errorf("Remove(k) = %d, %v, want 1, nil", n, err)
	}
	if n, _ := s.Has([]byte("k")); n != 0 {
		t.Errorf("Has(k) after remove = %d, want 0", n)
	}

	_, err := s.Remove([]byte("k"))
	expectCode(t, err, store.RetCNotFound)
}

func TestConcurrentVersionedPuts(t *testing.T) {
	s := NewLocalStore()
	_, _ = s.Put([]byte("k"), nil, []byte("0"))
	ctx, _, _ := s.Get([]byte("k"))

	const writers = 16
	var wg sync.WaitGroup
	var mu sync.Mutex
	succeeded := 0

	for i := 0; i < writers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := s.Put([]byte("k"), ctx, []byte("x")); err == nil {
				mu.Lock()
				succeeded++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	// All writers used the same context, only one can win
	if succeeded != 1 {
		t.Errorf("%d writers succeeded, want 1", succeeded)
	}
}
