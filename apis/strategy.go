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

// Strategy is one built-in conversion step. A Projector chains strategies in
// order (entity -> numeric -> enum -> text) after registry lookup yields no
// rule and before falling through to "value unchanged".
type Strategy interface {
	// TryConvert attempts to convert v according to cfg.
	// It returns (out, true, nil) if handled; otherwise (nil, false, nil) to
	// fall through. A non-nil error aborts the projection.
	TryConvert(v any, cfg Config) (out any, handled bool, err error)
}
