/*
Copyright 2026 Nscale.

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

    http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/

package api

import (
	"slices"
	"sync"

	"github.com/spjmurray/go-util/pkg/set"
)

// BookTracker records the IDs of books created during a run, in creation
// order, so they can be deleted at teardown.
type BookTracker struct {
	lock sync.Mutex
	ids  []int
}

func NewBookTracker() *BookTracker {
	return &BookTracker{}
}

// Track records a created book.  IDs already tracked are ignored.
func (t *BookTracker) Track(id int) {
	t.lock.Lock()
	defer t.lock.Unlock()

	if slices.Contains(t.ids, id) {
		return
	}

	t.ids = append(t.ids, id)
}

// Forget stops tracking a book, typically because a spec deleted it.
func (t *BookTracker) Forget(id int) {
	t.lock.Lock()
	defer t.lock.Unlock()

	t.ids = slices.DeleteFunc(t.ids, func(i int) bool {
		return i == id
	})
}

// Last returns the most recently tracked book.
func (t *BookTracker) Last() (int, bool) {
	t.lock.Lock()
	defer t.lock.Unlock()

	if len(t.ids) == 0 {
		return 0, false
	}

	return t.ids[len(t.ids)-1], true
}

// IDs returns a copy of the tracked IDs.
func (t *BookTracker) IDs() []int {
	t.lock.Lock()
	defer t.lock.Unlock()

	return slices.Clone(t.ids)
}

func (t *BookTracker) Len() int {
	t.lock.Lock()
	defer t.lock.Unlock()

	return len(t.ids)
}

// Drain returns all tracked IDs in creation order and empties the tracker,
// so each ID is handed out exactly once.
func (t *BookTracker) Drain() []int {
	t.lock.Lock()
	defer t.lock.Unlock()

	ids := t.ids
	t.ids = nil

	return ids
}

// Leaked returns the drained IDs that are still present in a listing.
func Leaked(drained, listed []int) []int {
	leaked := set.New[int](drained...).Intersection(set.New[int](listed...))

	return slices.Sorted(leaked.All())
}
