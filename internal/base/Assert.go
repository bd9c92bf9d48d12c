package base

import (
	"fmt"
	"reflect"
)

var LogAssert = NewLogCategory("Assert")

/***************************************
 * Assertions
 ***************************************/

// Assertions are always evaluated: they guard static tables which are edited by hand.

func AssertErr(pred func() error) {
	if err := pred(); err != nil {
		Panic(err)
	}
}

func Assert(pred func() bool) {
	if success := pred(); !success {
		Panicf("failed assertion")
	}
}

func AssertMessage(pred func() bool, msg string, args ...interface{}) {
	if success := pred(); !success {
		Panicf("failed assertion: "+msg, args...)
	}
}

func AssertIn[T comparable](elt T, values ...T) {
	for _, x := range values {
		if x == elt {
			return
		}
	}
	Panicf("element <%v> is not in the slice", elt)
}
func AssertNotIn[T comparable](elt T, values ...T) {
	for _, x := range values {
		if x == elt {
			Panicf("element <%v> is already in the slice", elt)
		}
	}
}

func UnreachableCode() {
	Panicf("unreachable code")
}
func UnexpectedValue(x interface{}) {
	Panicf("unexpected value: <%T> %#v", x, x)
}
func UnexpectedType(expected reflect.Type, given interface{}) {
	if reflect.TypeOf(given) != expected {
		Panicf("expected <%#v>, given %#v <%T>", expected, given, given)
	}
}

/***************************************
 * Errors
 ***************************************/

func MakeError(msg string, args ...interface{}) error {
	return fmt.Errorf(msg, args...)
}

func MakeUnexpectedValueError(dst interface{}, any interface{}) error {
	return MakeError("unexpected <%T> value: %#v", dst, any)
}
