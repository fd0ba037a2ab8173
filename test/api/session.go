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
	"sync"
)

// Session holds the bearer token presented by authenticated requests.
type Session struct {
	lock  sync.RWMutex
	token string
}

func NewSession() *Session {
	return &Session{}
}

func (s *Session) Token() string {
	s.lock.RLock()
	defer s.lock.RUnlock()

	return s.token
}

func (s *Session) Set(token string) {
	s.lock.Lock()
	defer s.lock.Unlock()

	s.token = token
}

func (s *Session) Clear() {
	s.Set("")
}

func (s *Session) HasToken() bool {
	return s.Token() != ""
}
