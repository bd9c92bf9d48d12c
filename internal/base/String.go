package base

import (
	"bytes"
	"fmt"
	"sort"
	"strings"
	"unsafe"
)

/***************************************
 * Avoid allocation for string/[]byte conversions
 ***************************************/

func UnsafeBytesFromString(in string) []byte {
	return unsafe.Slice(unsafe.StringData(in), len(in))
}
func UnsafeStringFromBytes(raw []byte) string {
	// from func (strings.Builder) String() string
	return unsafe.String(unsafe.SliceData(raw), len(raw))
}
func UnsafeStringFromBuffer(buf *bytes.Buffer) string {
	return UnsafeStringFromBytes(buf.Bytes())
}

/***************************************
 * Create fmt.Stringer from a func
 ***************************************/

type lambdaStringer func() string

func (x lambdaStringer) String() string {
	return x()
}
func MakeStringer(fn func() string) fmt.Stringer {
	return lambdaStringer(fn)
}

func JoinString[T fmt.Stringer](delim string, it ...T) string {
	sb := strings.Builder{}
	for i, x := range it {
		if i > 0 {
			sb.WriteString(delim)
		}
		sb.WriteString(x.String())
	}
	return sb.String()
}

// TrimQuotes removes every surrounding double quote, batch files are quite liberal with them.
func TrimQuotes(in string) string {
	return strings.Trim(strings.TrimSpace(in), `"`)
}

/***************************************
 * String set
 ***************************************/

// StringSet keeps insertion order, duplicates are only filtered by the *Uniq variants.
type StringSet []string

func NewStringSet(x ...string) (result StringSet) {
	result = make(StringSet, len(x))
	copy(result, x)
	return
}
func MakeStringerSet[T fmt.Stringer](it ...T) (result StringSet) {
	result = make(StringSet, len(it))
	for i, x := range it {
		result[i] = x.String()
	}
	return result
}

func (set StringSet) Len() int             { return len(set) }
func (set StringSet) At(i int) string      { return set[i] }
func (set StringSet) Slice() []string      { return set }
func (set StringSet) Empty() bool          { return len(set) == 0 }
func (set StringSet) StringSet() StringSet { return set }

func (set StringSet) IndexOf(it string) (int, bool) {
	for i, x := range set {
		if x == it {
			return i, true
		}
	}
	return len(set), false
}
func (set StringSet) Any(it ...string) bool {
	for _, x := range it {
		if _, ok := set.IndexOf(x); ok {
			return true
		}
	}
	return false
}
func (set StringSet) Contains(it ...string) bool {
	for _, x := range it {
		if _, ok := set.IndexOf(x); !ok {
			return false
		}
	}
	return true
}
func (set *StringSet) Append(it ...string) *StringSet {
	*set = append(*set, it...)
	return set
}
func (set *StringSet) AppendUniq(it ...string) *StringSet {
	for _, x := range it {
		if !set.Contains(x) {
			*set = append(*set, x)
		}
	}
	return set
}
func (set *StringSet) Clear() *StringSet {
	*set = []string{}
	return set
}
func (set StringSet) Clone() StringSet {
	return NewStringSet(set...)
}
func (set StringSet) Equals(other StringSet) bool {
	if len(set) != len(other) {
		return false
	}
	for i, x := range set {
		if other[i] != x {
			return false
		}
	}
	return true
}
func (set StringSet) Sort() {
	sort.Strings(set)
}
func (set StringSet) Join(sep string) string {
	return strings.Join(set.Slice(), sep)
}
func (set StringSet) String() string {
	return set.Join(",")
}
func (set *StringSet) Set(in string) error {
	set.Clear()
	for _, x := range strings.Split(in, ",") {
		if x = strings.TrimSpace(x); len(x) > 0 {
			set.Append(x)
		}
	}
	return nil
}
