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

package strategy

import (
	"github.com/DamonGeorge/parameterized/apis"
)

// NewEnumStrategy creates an apis.Strategy that serializes enumerated
// constants to their symbolic names.
func NewEnumStrategy() apis.Strategy {
	return enumStrategy{}
}

// enumStrategy is a zero-cost fast path: if v implements apis.Enum,
// emit EnumName() and stop the chain.
type enumStrategy struct{}

// Ensure enumStrategy implements apis.Strategy.
var _ apis.Strategy = enumStrategy{}

// TryConvert emits the symbolic name of an enumerated constant.
func (enumStrategy) TryConvert(v any, _ apis.Config) (any, bool, error) {
	if e, ok := v.(apis.Enum); ok {
		return e.EnumName(), true, nil
	}
	return nil, false, nil
}
