/*
   Copyright 2026 The Parameterized Authors.

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

package apis

import "reflect"

// Resolver answers "which concrete member of this family does this
// discriminator tag select?". It is a read-only consumer of the Catalog and
// must be safe for concurrent use.
type Resolver interface {
	// Resolve normalizes tag (a live discriminator value or its symbolic
	// name) and returns the unique eligible member it selects.
	Resolve(root reflect.Type, tag any) (Member, error)

	// Members enumerates root's eligible concrete members.
	Members(root reflect.Type) ([]Member, error)

	// Mapping returns a static discriminator-value -> concrete-type view of
	// the family, for callers that want a lookup table instead of per-call
	// resolution.
	Mapping(root reflect.Type) (map[Enum]reflect.Type, error)
}
