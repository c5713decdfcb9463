// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package core

import (
	"errors"
	"fmt"
	"strings"
)

// Domain errors. Not-found conditions are normal outcomes and are kept
// distinct from infrastructure failures so callers can turn them into clear
// user-facing messages instead of retryable errors.
var (
	// ErrEmptyQuery indicates a blank search query.
	ErrEmptyQuery = errors.New("query cannot be empty")

	// ErrEmptyID indicates a blank document ID.
	ErrEmptyID = errors.New("document id cannot be empty")

	// ErrDocumentNotFound indicates the requested document does not exist
	// in the current generation.
	ErrDocumentNotFound = errors.New("document not found")
)

// UnknownCategoryError indicates a category lookup for a key that does not
// exist in the current generation. It carries the available keys so callers
// can present them.
type UnknownCategoryError struct {
	Key       string
	Available []string
}

func (e *UnknownCategoryError) Error() string {
	return fmt.Sprintf("unknown category: %q (available: %s)", e.Key, strings.Join(e.Available, ", "))
}
