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

// gcsc is a small CLI over the library: it lists, inspects and deletes
// Cloud Storage buckets and objects through the JSON API.
//
// Usage:
//
//	gcsc buckets list --project my-project
//	gcsc objects list my-bucket --prefix logs/
package main

import "github.com/gcsclient/gcsclient/cmd"

func main() {
	cmd.Execute()
}
