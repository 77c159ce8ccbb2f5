package tibasic

import (
	"fmt"
	"sort"
	"unicode/utf8"
)

const (
	// Theta is the 27th numeric variable.
	Theta = 'θ'
	// ListMarker introduces a list variable name in program text.
	ListMarker = '∟'
	// MaxListNameLength is the longest user-defined list name.
	MaxListNameLength = 5
)

// NumberVariable identifies one of the 27 numeric variables A-Z and θ.
type NumberVariable rune

func (v NumberVariable) String() string {
	return string(rune(v))
}

// NumberVariableOf returns the numeric variable named by r.
func NumberVariableOf(r rune) (NumberVariable, bool) {
	if (r >= 'A' && r <= 'Z') || r == Theta {
		return NumberVariable(r), true
	}
	return 0, false
}

// NumberVariables lists every numeric variable in display order.
func NumberVariables() []NumberVariable {
	vars := make([]NumberVariable, 0, 27)
	for r := 'A'; r <= 'Z'; r++ {
		vars = append(vars, NumberVariable(r))
	}
	return append(vars, NumberVariable(Theta))
}

func isDefaultListName(r rune) bool {
	return r >= '₁' && r <= '₆'
}

func isListNameStart(r rune) bool {
	return (r >= 'A' && r <= 'Z') || r == Theta
}

func isListNameChar(r rune) bool {
	return isListNameStart(r) || (r >= '0' && r <= '9')
}

// ValidateListName checks a list variable name. The six built-in lists are
// named by a single subscript digit ₁-₆; user lists have 1-5 characters
// drawn from A-Z, θ and 0-9 and never start with a digit.
func ValidateListName(name string) error {
	count := utf8.RuneCountInString(name)
	if count == 0 {
		return fmt.Errorf("list name is empty")
	}

	first, _ := utf8.DecodeRuneInString(name)
	if isDefaultListName(first) {
		if count != 1 {
			return fmt.Errorf("invalid list name %s: built-in list names are a single subscript digit", name)
		}
		return nil
	}
	if count > MaxListNameLength {
		return fmt.Errorf("invalid list name %s: at most %d characters allowed", name, MaxListNameLength)
	}
	if !isListNameStart(first) {
		return fmt.Errorf("invalid list name %s: must start with a letter or θ", name)
	}
	for _, r := range name {
		if !isListNameChar(r) {
			return fmt.Errorf("invalid list name %s: illegal character %q", name, r)
		}
	}
	return nil
}

// ReadOnlyMemory gives access to stored values without the ability to
// change them.
type ReadOnlyMemory interface {
	NumberVariable(v NumberVariable) NumberValue
	ListVariable(name string) (ListValue, error)
	ListNames() []string
	LastResult() Value
}

// Memory is the complete, writable variable store of a session.
type Memory interface {
	ReadOnlyMemory
	SetNumberVariable(v NumberVariable, value Value) error
	SetListVariable(name string, value Value) error
	SetLastResult(value Value)
}

// DefaultMemory is a map-backed Memory. Numeric variables start at 0,
// list variables start undefined and Ans starts at 0.
type DefaultMemory struct {
	numbers    map[NumberVariable]NumberValue
	lists      map[string]ListValue
	lastResult Value
}

// NewMemory creates an empty DefaultMemory.
func NewMemory() *DefaultMemory {
	return &DefaultMemory{
		numbers:    make(map[NumberVariable]NumberValue),
		lists:      make(map[string]ListValue),
		lastResult: NumberValue(0),
	}
}

func (m *DefaultMemory) NumberVariable(v NumberVariable) NumberValue {
	return m.numbers[v]
}

func (m *DefaultMemory) ListVariable(name string) (ListValue, error) {
	list, ok := m.lists[name]
	if !ok {
		return nil, Err{ErrUndefined, fmt.Sprintf("list %s%s is not defined", string(ListMarker), name)}
	}
	return append(ListValue(nil), list...), nil
}

// ListNames returns the names of all defined lists, sorted.
func (m *DefaultMemory) ListNames() []string {
	names := make([]string, 0, len(m.lists))
	for name := range m.lists {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func (m *DefaultMemory) LastResult() Value {
	return m.lastResult
}

func (m *DefaultMemory) SetNumberVariable(v NumberVariable, value Value) error {
	if _, ok := NumberVariableOf(rune(v)); !ok {
		return Err{ErrUndefined, fmt.Sprintf("%q is not a numeric variable", rune(v))}
	}
	n, ok := value.(NumberValue)
	if !ok {
		return Err{
			ErrType,
			fmt.Sprintf("cannot store %s %s in numeric variable %s", value.Type(), value, v),
		}
	}
	m.numbers[v] = n
	return nil
}

func (m *DefaultMemory) SetListVariable(name string, value Value) error {
	if err := ValidateListName(name); err != nil {
		return Err{ErrArgument, err.Error()}
	}
	list, ok := value.(ListValue)
	if !ok {
		return Err{
			ErrType,
			fmt.Sprintf("cannot store %s %s in list %s%s", value.Type(), value, string(ListMarker), name),
		}
	}
	if err := checkListLength(len(list)); err != nil {
		return err
	}
	m.lists[name] = append(ListValue(nil), list...)
	return nil
}

func (m *DefaultMemory) SetLastResult(value Value) {
	if list, ok := value.(ListValue); ok {
		value = append(ListValue(nil), list...)
	}
	m.lastResult = value
}
