package diag

import (
	"sort"
	"sync"
)

// Store is the presentation state: a file-keyed map of the problems
// currently shown for each file. The validation engine fully replaces the
// mapping on every repository-wide run so stale entries for deleted or
// renamed files cannot persist.
type Store struct {
	mu      sync.RWMutex
	byFile  map[string][]Problem
	version int
}

// NewStore creates an empty presentation store.
func NewStore() *Store {
	return &Store{byFile: make(map[string][]Problem)}
}

// Replace clears the entire store and installs the given mapping.
func (s *Store) Replace(byFile map[string][]Problem) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.byFile = make(map[string][]Problem, len(byFile))
	for file, problems := range byFile {
		s.byFile[file] = append([]Problem(nil), problems...)
	}
	s.version++
}

// SetFile replaces the problems shown for a single file. An empty slice
// removes the entry entirely.
func (s *Store) SetFile(file string, problems []Problem) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(problems) == 0 {
		delete(s.byFile, file)
	} else {
		s.byFile[file] = append([]Problem(nil), problems...)
	}
	s.version++
}

// Clear removes every entry.
func (s *Store) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.byFile = make(map[string][]Problem)
	s.version++
}

// ForFile returns the problems currently shown for a file.
func (s *Store) ForFile(file string) []Problem {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]Problem(nil), s.byFile[file]...)
}

// Files returns the sorted list of files with at least one problem.
func (s *Store) Files() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	files := make([]string, 0, len(s.byFile))
	for file := range s.byFile {
		files = append(files, file)
	}
	sort.Strings(files)
	return files
}

// Problems returns every stored problem ordered by file path.
func (s *Store) Problems() []Problem {
	s.mu.RLock()
	defer s.mu.RUnlock()
	files := make([]string, 0, len(s.byFile))
	for file := range s.byFile {
		files = append(files, file)
	}
	sort.Strings(files)
	var all []Problem
	for _, file := range files {
		all = append(all, s.byFile[file]...)
	}
	return all
}

// Count returns the total number of stored problems.
func (s *Store) Count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	n := 0
	for _, problems := range s.byFile {
		n += len(problems)
	}
	return n
}

// Version increments on every mutation. Useful in tests to observe that a
// publish actually happened.
func (s *Store) Version() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.version
}
