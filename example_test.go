/*
   Copyright 2025 The DIRPX Authors.

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

package typecheck_test

import (
	"fmt"

	"dirpx.dev/typecheck"
	"dirpx.dev/typecheck/frozen"
	"dirpx.dev/typecheck/hint"
)

func ExampleIsInstance() {
	h := hint.MustParse("tuple[int, ...]")
	fmt.Println(typecheck.IsInstance(frozen.TupleOf(1, 2, 3), h))
	fmt.Println(typecheck.IsInstance([]int{1, 2, 3}, hint.ListOf(hint.Int)))
	// Output:
	// true true <nil>
	// true false <nil>
}

func ExampleValidate() {
	err := typecheck.Validate(map[string]any{"a": "x"}, hint.MustParse("dict[str, int]"))
	tag, _ := typecheck.TagOf(err)
	fmt.Println(tag)
	// Output:
	// VALIDATION_FAILED
}
