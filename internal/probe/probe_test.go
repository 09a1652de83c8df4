package probe

import (
	"context"
	"io/fs"
	"os"
	"strings"
)

// fakeDirEntry is a fake implementation of [os.DirEntry].
type fakeDirEntry struct {
	name string
	dir  bool
}

func (f fakeDirEntry) Name() string               { return f.name }
func (f fakeDirEntry) IsDir() bool                { return f.dir }
func (f fakeDirEntry) Type() fs.FileMode          { return 0 }
func (f fakeDirEntry) Info() (fs.FileInfo, error) { return nil, nil }

// fakeOS is a fake implementation of osProvider, backed by in-memory maps.
type fakeOS struct {
	dirs  map[string][]os.DirEntry
	files map[string][]byte
	links map[string]string
}

func newFakeOS() *fakeOS {
	return &fakeOS{
		dirs:  map[string][]os.DirEntry{},
		files: map[string][]byte{},
		links: map[string]string{},
	}
}

func (f *fakeOS) ReadDir(name string) ([]os.DirEntry, error) {
	entries, ok := f.dirs[name]
	if !ok {
		return nil, os.ErrNotExist
	}

	return entries, nil
}

func (f *fakeOS) ReadFile(name string) ([]byte, error) {
	data, ok := f.files[name]
	if !ok {
		return nil, os.ErrNotExist
	}

	return data, nil
}

func (f *fakeOS) Readlink(name string) (string, error) {
	target, ok := f.links[name]
	if !ok {
		return "", os.ErrInvalid
	}

	return target, nil
}

// fakeRunner is a fake implementation of runnerProvider, keyed by the full
// command line. It records every invocation.
type fakeRunner struct {
	out   map[string][]byte
	errs  map[string]error
	calls []string
}

func newFakeRunner() *fakeRunner {
	return &fakeRunner{
		out:  map[string][]byte{},
		errs: map[string]error{},
	}
}

func (f *fakeRunner) Run(_ context.Context, name string, args ...string) ([]byte, error) {
	key := strings.Join(append([]string{name}, args...), " ")
	f.calls = append(f.calls, key)

	if err, ok := f.errs[key]; ok {
		return nil, err
	}

	return f.out[key], nil
}
