package base

import "fmt"

type PanicResult int32

const (
	PANIC_ABORT PanicResult = iota
	PANIC_HANDLED
)

var OnPanic func(error) PanicResult

func Panicf(msg string, args ...interface{}) {
	Panic(fmt.Errorf(msg, args...))
}

func Panic(err error) {
	result := PANIC_ABORT
	if OnPanic != nil {
		result = OnPanic(err)
	}

	switch result {
	case PANIC_ABORT:
		panic(fmt.Errorf("[PANIC] %w", err))
	case PANIC_HANDLED:
		LogError(LogGlobal, "handled panic: %v", err)
	}
}
