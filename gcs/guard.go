// Copyright 2024 The gcsclient Authors.
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

package gcs

// identityAttr is one attribute whose value addresses a resource's remote
// endpoint.
type identityAttr struct {
	name  string
	value string
}

// requireComplete verifies that every identity attribute is bound before a
// remote operation is attempted. On failure it returns an
// *IncompleteResourceError naming the missing attributes; no request is made.
// Call sites compose it outside-in: requireComplete, then ExecuteWithRetry,
// then Requester.Do.
func requireComplete(resource string, attrs ...identityAttr) error {
	var missing []string
	for _, a := range attrs {
		if a.value == "" {
			missing = append(missing, a.name)
		}
	}
	if len(missing) > 0 {
		return &IncompleteResourceError{Resource: resource, Missing: missing}
	}
	return nil
}
