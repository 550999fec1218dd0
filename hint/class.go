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

package hint

import (
	"fmt"
	"reflect"
	"slices"
	"strings"
	"sync"
	"unique"

	"dirpx.dev/typecheck/frozen"
	"dirpx.dev/typecheck/shape"
	uref "dirpx.dev/typecheck/utils/reflect"
)

// Form distinguishes how a Class decides membership.
type Form uint8

const (
	// FormNone is the class of the absent value.
	FormNone Form = iota
	// FormBuiltin matches a family of Go kinds (all integer kinds, all maps, ...).
	FormBuiltin
	// FormStructural matches anything satisfying a structural protocol.
	FormStructural
	// FormType matches one exact Go type, or the implementers of an interface type.
	FormType
	// FormFamily matches every instantiation of a generic Go type.
	FormFamily
	// FormProtocol matches types providing a method set.
	FormProtocol
	// FormMarker is a structured-dict field marker. It has no instances.
	FormMarker
)

func (f Form) String() string {
	switch f {
	case FormNone:
		return "None"
	case FormBuiltin:
		return "Builtin"
	case FormStructural:
		return "Structural"
	case FormType:
		return "Type"
	case FormFamily:
		return "Family"
	case FormProtocol:
		return "Protocol"
	case FormMarker:
		return "Marker"
	default:
		return fmt.Sprintf("Form(%d)", uint8(f))
	}
}

// Class is a plain, unparameterized class hint.
type Class struct {
	form      Form
	name      string
	structure shape.Structure
	accept    func(reflect.Type) bool
	typ       reflect.Type
	family    string
	methods   []string
	runtime   bool
	key       unique.Handle[string]
}

func (*Class) Kind() Kind                   { return KindClass }
func (c *Class) String() string             { return c.name }
func (c *Class) Key() unique.Handle[string] { return c.key }
func (*Class) sealed()                      {}

// Form reports how c decides membership.
func (c *Class) Form() Form { return c.form }

// Name returns the display name.
func (c *Class) Name() string { return c.name }

// Structure returns the structural protocol the class implies on its own.
// Exact types and families report shape.None here; their structure is
// resolved from the Go type by the checker.
func (c *Class) Structure() shape.Structure { return c.structure }

// Type returns the Go type behind FormType, FormFamily and interface-backed
// FormProtocol classes.
func (c *Class) Type() reflect.Type { return c.typ }

// RuntimeCheckable reports whether membership can be decided at runtime.
// Only protocols may opt out.
func (c *Class) RuntimeCheckable() bool { return c.form != FormProtocol || c.runtime }

// Methods returns the method names a protocol requires.
func (c *Class) Methods() []string { return slices.Clone(c.methods) }

// AcceptsType reports whether values of dynamic type t are instances of c.
// A nil t stands for the nil interface.
func (c *Class) AcceptsType(t reflect.Type) bool {
	if t == nil {
		return c.form == FormNone
	}
	switch c.form {
	case FormBuiltin:
		return c.accept(t)
	case FormStructural:
		return shape.Of(t).Satisfies(c.structure)
	case FormType:
		if c.typ.Kind() == reflect.Interface {
			return t.Implements(c.typ)
		}
		return t == c.typ
	case FormFamily:
		return uref.Family(t) == c.family
	case FormProtocol:
		if c.typ != nil {
			return t.Implements(c.typ)
		}
		for _, m := range c.methods {
			if _, ok := t.MethodByName(m); !ok {
				return false
			}
		}
		return true
	default:
		return false
	}
}

// Instance reports whether v is an instance of c.
func (c *Class) Instance(v any) bool {
	if c.form == FormNone {
		return isNil(v)
	}
	return v != nil && c.AcceptsType(reflect.TypeOf(v))
}

func isNil(v any) bool {
	if v == nil {
		return true
	}
	rv := reflect.ValueOf(v)
	return rv.Kind() == reflect.Pointer && rv.IsNil()
}

func newClass(form Form, name string, s shape.Structure, accept func(reflect.Type) bool) *Class {
	return &Class{
		form:      form,
		name:      name,
		structure: s,
		accept:    accept,
		key:       unique.Make("c:" + name),
	}
}

func kinds(ks ...reflect.Kind) func(reflect.Type) bool {
	return func(t reflect.Type) bool { return slices.Contains(ks, t.Kind()) }
}

func familyOf(sample reflect.Type) string { return uref.Family(sample) }

var (
	tupleFamily = familyOf(reflect.TypeFor[frozen.Tuple[any]]())
	setFamily   = familyOf(reflect.TypeFor[frozen.Set[int]]())
	mapFamily   = familyOf(reflect.TypeFor[frozen.Map[int, any]]())
)

// Builtin classes.
var (
	None    = &Class{form: FormNone, name: "None", key: unique.Make("c:None")}
	Int     = newClass(FormBuiltin, "int", shape.None, kinds(reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64))
	Uint    = newClass(FormBuiltin, "uint", shape.None, kinds(reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr))
	Float   = newClass(FormBuiltin, "float", shape.None, kinds(reflect.Float32, reflect.Float64))
	Complex = newClass(FormBuiltin, "complex", shape.None, kinds(reflect.Complex64, reflect.Complex128))
	Str     = newClass(FormBuiltin, "str", shape.None, kinds(reflect.String))
	Bool    = newClass(FormBuiltin, "bool", shape.None, kinds(reflect.Bool))
	Bytes   = newClass(FormBuiltin, "bytes", shape.Sequence, func(t reflect.Type) bool {
		return t.Kind() == reflect.Slice && t.Elem().Kind() == reflect.Uint8
	})
	List  = newClass(FormBuiltin, "list", shape.Sequence, kinds(reflect.Slice))
	Dict  = newClass(FormBuiltin, "dict", shape.Mapping, kinds(reflect.Map))
	Tuple = newClass(FormBuiltin, "tuple", shape.Sequence, func(t reflect.Type) bool {
		return t.Kind() == reflect.Array || uref.Family(t) == tupleFamily
	})
	Set = newClass(FormBuiltin, "set", shape.Set, func(t reflect.Type) bool {
		if t.Kind() == reflect.Map {
			return shape.IsSetMap(t)
		}
		s, ok := shape.Declared(t)
		return ok && s == shape.Set && !shape.IsImmutable(t)
	})
	FrozenSet = newClass(FormBuiltin, "frozenset", shape.Set, func(t reflect.Type) bool {
		return uref.Family(t) == setFamily
	})
	FrozenDict = newClass(FormBuiltin, "frozendict", shape.Mapping, func(t reflect.Type) bool {
		return uref.Family(t) == mapFamily
	})
	// Never has no instances.
	Never = newClass(FormBuiltin, "Never", shape.None, func(reflect.Type) bool { return false })
)

// Abstract structural classes.
var (
	Mapping     = newClass(FormStructural, "Mapping", shape.Mapping, nil)
	AbstractSet = newClass(FormStructural, "AbstractSet", shape.Set, nil)
	Sequence    = newClass(FormStructural, "Sequence", shape.Sequence, nil)
	Collection  = newClass(FormStructural, "Collection", shape.Collection, nil)
	Iterable    = newClass(FormStructural, "Iterable", shape.Iterable, nil)
	Callable    = newClass(FormStructural, "Callable", shape.Callable, nil)
)

// Structured-dict markers. They are only meaningful as the origin of a field
// hint inside a Struct; anywhere else they are a usage error.
var (
	MarkerRequired    = newClass(FormMarker, "Required", shape.None, nil)
	MarkerNotRequired = newClass(FormMarker, "NotRequired", shape.None, nil)
	MarkerReadOnly    = newClass(FormMarker, "ReadOnly", shape.None, nil)
)

var typeClasses sync.Map // reflect.Type -> *Class

// Type returns the class of the exact Go type t. For interface types the
// class matches every implementer. Classes are interned per type.
func Type(t reflect.Type) *Class {
	if t == nil {
		return None
	}
	if c, ok := typeClasses.Load(t); ok {
		return c.(*Class)
	}
	c := &Class{
		form: FormType,
		name: t.String(),
		typ:  t,
		key:  unique.Make(fmt.Sprintf("t#%d:%s", nextID(), t.String())),
	}
	actual, _ := typeClasses.LoadOrStore(t, c)
	return actual.(*Class)
}

// TypeOf is Type(reflect.TypeFor[T]()).
func TypeOf[T any]() *Class { return Type(reflect.TypeFor[T]()) }

// Family returns the class matching every instantiation of the generic type
// sample belongs to. Non-generic named types produce a class matching that
// type and pointers to it.
func Family(sample reflect.Type) *Class {
	fam := uref.Family(sample)
	if fam == "" {
		panic(fmt.Sprintf("hint: Family of unnamed type %v", sample))
	}
	name := fam
	if i := strings.LastIndexByte(name, '.'); i >= 0 {
		name = name[i+1:]
	}
	return &Class{
		form:   FormFamily,
		name:   name,
		typ:    sample,
		family: fam,
		key:    unique.Make("f:" + fam),
	}
}

// FamilyOf is Family(reflect.TypeFor[T]()).
func FamilyOf[T any]() *Class { return Family(reflect.TypeFor[T]()) }

// Protocol declares a method-set protocol. Protocols that are not runtime
// checkable are rejected by the checker.
func Protocol(name string, runtimeCheckable bool, methods ...string) *Class {
	return &Class{
		form:    FormProtocol,
		name:    name,
		methods: slices.Clone(methods),
		runtime: runtimeCheckable,
		key:     unique.Make(fmt.Sprintf("p#%d:%s", nextID(), name)),
	}
}

// ProtocolOf declares a protocol backed by the interface type I.
func ProtocolOf[I any](runtimeCheckable bool) *Class {
	t := reflect.TypeFor[I]()
	if t.Kind() != reflect.Interface {
		panic(fmt.Sprintf("hint: ProtocolOf non-interface type %v", t))
	}
	methods := make([]string, t.NumMethod())
	for i := range methods {
		methods[i] = t.Method(i).Name
	}
	c := Protocol(t.Name(), runtimeCheckable, methods...)
	c.typ = t
	return c
}
