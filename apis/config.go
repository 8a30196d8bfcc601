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

// Config carries read-only projection knobs.
// It is passed by value and should be treated as immutable by implementations.
type Config struct {
	// TypeKey is the reserved mapping key carrying the discriminator tag of
	// a family member. Concrete, non-family entities must not claim it.
	TypeKey string

	// Indent is the indentation unit used by the text rendering boundary.
	Indent string

	// MaxDepth limits nested-entity recursion during serialization.
	// Acts as a safety guard against pathological (or cyclic) object graphs.
	MaxDepth int

	// DetectCycles enables a visited-set guard during serialization so that
	// cyclic object graphs fail fast instead of exhausting MaxDepth.
	DetectCycles bool
}
