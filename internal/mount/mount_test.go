package mount

import (
	"context"
	"os"
	"strings"
	"sync"
)

// fakeOS is a fake implementation of osProvider, recording directory
// operations. It is safe for concurrent use.
type fakeOS struct {
	mu      sync.Mutex
	created []string
	removed []string
}

func (f *fakeOS) MkdirAll(path string, _ os.FileMode) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.created = append(f.created, path)

	return nil
}

func (f *fakeOS) RemoveAll(path string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.removed = append(f.removed, path)

	return nil
}

// fakeRunner is a fake implementation of runnerProvider, keyed by the full
// command line. It records every invocation and is safe for concurrent use.
type fakeRunner struct {
	mu    sync.Mutex
	errs  map[string]error
	calls []string
}

func newFakeRunner() *fakeRunner {
	return &fakeRunner{
		errs: map[string]error{},
	}
}

func (f *fakeRunner) Run(_ context.Context, name string, args ...string) ([]byte, error) {
	key := strings.Join(append([]string{name}, args...), " ")

	f.mu.Lock()
	f.calls = append(f.calls, key)
	f.mu.Unlock()

	if err, ok := f.errs[key]; ok {
		return nil, err
	}

	return nil, nil
}

func (f *fakeRunner) recorded() []string {
	f.mu.Lock()
	defer f.mu.Unlock()

	calls := make([]string, len(f.calls))
	copy(calls, f.calls)

	return calls
}
