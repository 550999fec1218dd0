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

package reflect

import (
	"reflect"
	"strings"
)

// StripTypeParams removes a generic instantiation suffix: "T[int,string]" -> "T".
func StripTypeParams(s string) string {
	if i := strings.IndexByte(s, '['); i >= 0 {
		return s[:i]
	}
	return s
}

// TypeParams splits the instantiation suffix of a generic type name into
// its arguments, honouring nested brackets:
// "Pair[int,map[string]int]" -> ["int", "map[string]int"].
// It returns nil for non-generic names.
func TypeParams(s string) []string {
	open := strings.IndexByte(s, '[')
	if open < 0 || !strings.HasSuffix(s, "]") {
		return nil
	}
	body := s[open+1 : len(s)-1]
	if body == "" {
		return nil
	}
	var (
		out   []string
		depth int
		start int
	)
	for i := 0; i < len(body); i++ {
		switch body[i] {
		case '[', '(', '{':
			depth++
		case ']', ')', '}':
			depth--
		case ',':
			if depth == 0 {
				out = append(out, strings.TrimSpace(body[start:i]))
				start = i + 1
			}
		}
	}
	return append(out, strings.TrimSpace(body[start:]))
}

// Family returns the package-qualified name of t without type arguments,
// looking through one pointer: *pkg.Box[int] -> "example.com/pkg.Box".
// Unnamed types yield "".
func Family(t reflect.Type) string {
	if t == nil {
		return ""
	}
	if t.Name() == "" && t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	if t.Name() == "" {
		return ""
	}
	name := StripTypeParams(t.Name())
	if p := t.PkgPath(); p != "" {
		return p + "." + name
	}
	return name
}

// QualifiedName returns the name a type argument has inside an instantiated
// generic type name: builtins are bare, named types carry their import path.
func QualifiedName(t reflect.Type) string {
	if t == nil {
		return ""
	}
	if t.Name() != "" && t.PkgPath() != "" {
		return t.PkgPath() + "." + t.Name()
	}
	return t.String()
}
