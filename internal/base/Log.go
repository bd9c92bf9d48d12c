package base

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/log"
)

/***************************************
 * Logger API
 ***************************************/

var LogGlobal = NewLogCategory("Global")

var gLogger Logger = NewLogger(os.Stderr)

func GetLogger() Logger { return gLogger }
func SetLogger(logger Logger) (previous Logger) {
	previous = gLogger
	gLogger = logger
	return
}

func LogDebug(category *LogCategory, msg string, args ...interface{}) {
	gLogger.Log(category, LOG_DEBUG, msg, args...)
}
func LogTrace(category *LogCategory, msg string, args ...interface{}) {
	gLogger.Log(category, LOG_TRACE, msg, args...)
}
func LogVeryVerbose(category *LogCategory, msg string, args ...interface{}) {
	gLogger.Log(category, LOG_VERYVERBOSE, msg, args...)
}
func LogVerbose(category *LogCategory, msg string, args ...interface{}) {
	gLogger.Log(category, LOG_VERBOSE, msg, args...)
}
func LogInfo(category *LogCategory, msg string, args ...interface{}) {
	gLogger.Log(category, LOG_INFO, msg, args...)
}
func LogClaim(category *LogCategory, msg string, args ...interface{}) {
	gLogger.Log(category, LOG_CLAIM, msg, args...)
}
func LogWarning(category *LogCategory, msg string, args ...interface{}) {
	gLogger.Log(category, LOG_WARNING, msg, args...)
}
func LogError(category *LogCategory, msg string, args ...interface{}) {
	gLogger.Log(category, LOG_ERROR, msg, args...)
}

func LogPanic(category *LogCategory, msg string, args ...interface{}) {
	LogPanicErr(category, fmt.Errorf(msg, args...))
}
func LogPanicErr(category *LogCategory, err error) {
	LogError(category, "💀 panic: caught error %v", err)
	Panic(err)
}
func LogPanicIfFailed(category *LogCategory, err error) {
	if err != nil {
		LogPanicErr(category, err)
	}
}

func IsLogLevelActive(level LogLevel) bool {
	return gLogger.IsVisible(level)
}
func SetLogVisibleLevel(level LogLevel) LogLevel {
	return gLogger.SetLevel(level)
}

/***************************************
 * Log Level
 ***************************************/

type LogLevel int32

const (
	LOG_ALL LogLevel = iota
	LOG_DEBUG
	LOG_TRACE
	LOG_VERYVERBOSE
	LOG_VERBOSE
	LOG_INFO
	LOG_CLAIM
	LOG_WARNING
	LOG_ERROR
	LOG_FATAL
)

func GetLogLevels() []LogLevel {
	return []LogLevel{
		LOG_ALL,
		LOG_DEBUG,
		LOG_TRACE,
		LOG_VERYVERBOSE,
		LOG_VERBOSE,
		LOG_INFO,
		LOG_CLAIM,
		LOG_WARNING,
		LOG_ERROR,
		LOG_FATAL,
	}
}

func (x LogLevel) IsVisible(level LogLevel) bool {
	return (int32(level) >= int32(x))
}
func (x LogLevel) String() string {
	switch x {
	case LOG_ALL:
		return "ALL"
	case LOG_DEBUG:
		return "DEBUG"
	case LOG_TRACE:
		return "TRACE"
	case LOG_VERYVERBOSE:
		return "VERYVERBOSE"
	case LOG_VERBOSE:
		return "VERBOSE"
	case LOG_INFO:
		return "INFO"
	case LOG_CLAIM:
		return "CLAIM"
	case LOG_WARNING:
		return "WARNING"
	case LOG_ERROR:
		return "ERROR"
	case LOG_FATAL:
		return "FATAL"
	default:
		UnexpectedValue(x)
		return ""
	}
}
func (x *LogLevel) Set(in string) error {
	for _, it := range GetLogLevels() {
		if strings.EqualFold(it.String(), in) {
			*x = it
			return nil
		}
	}
	return MakeUnexpectedValueError(x, in)
}
func (x LogLevel) MarshalText() ([]byte, error) {
	return []byte(x.String()), nil
}
func (x *LogLevel) UnmarshalText(data []byte) error {
	return x.Set(string(data))
}

// charm only knows 4 levels below fatal, verbose levels are folded into debug/info
func (x LogLevel) charmLevel() log.Level {
	switch x {
	case LOG_ALL, LOG_DEBUG, LOG_TRACE, LOG_VERYVERBOSE:
		return log.DebugLevel
	case LOG_VERBOSE, LOG_INFO, LOG_CLAIM:
		return log.InfoLevel
	case LOG_WARNING:
		return log.WarnLevel
	case LOG_ERROR:
		return log.ErrorLevel
	case LOG_FATAL:
		return log.FatalLevel
	default:
		UnexpectedValue(x)
		return log.InfoLevel
	}
}

/***************************************
 * Log Category
 ***************************************/

type LogCategory struct {
	Name  string
	Level LogLevel // LOG_ALL inherits the logger level
}

var gLogCategories = struct {
	barrier sync.Mutex
	byName  map[string]*LogCategory
}{byName: make(map[string]*LogCategory, 16)}

func NewLogCategory(name string) *LogCategory {
	gLogCategories.barrier.Lock()
	defer gLogCategories.barrier.Unlock()
	if category, ok := gLogCategories.byName[name]; ok {
		return category
	}
	category := &LogCategory{Name: name}
	gLogCategories.byName[name] = category
	return category
}
func FindLogCategory(name string) (*LogCategory, bool) {
	gLogCategories.barrier.Lock()
	defer gLogCategories.barrier.Unlock()
	category, ok := gLogCategories.byName[name]
	return category, ok
}
func (x *LogCategory) String() string { return x.Name }

/***************************************
 * Logger interface
 ***************************************/

type Logger interface {
	IsVisible(LogLevel) bool

	SetLevel(LogLevel) LogLevel
	SetShowTimestamp(bool)
	SetWriter(io.Writer)

	Log(category *LogCategory, level LogLevel, msg string, args ...interface{})
}

type charmLogger struct {
	barrier sync.Mutex
	level   LogLevel
	backend *log.Logger
}

func NewLogger(dst io.Writer) Logger {
	logger := &charmLogger{level: LOG_INFO}
	logger.backend = log.NewWithOptions(dst, log.Options{
		Level:           log.DebugLevel,
		ReportTimestamp: false,
	})
	return logger
}

func (x *charmLogger) IsVisible(level LogLevel) bool {
	x.barrier.Lock()
	defer x.barrier.Unlock()
	return x.level.IsVisible(level)
}
func (x *charmLogger) SetLevel(level LogLevel) (previous LogLevel) {
	x.barrier.Lock()
	defer x.barrier.Unlock()
	previous = x.level
	if level < LOG_FATAL {
		x.level = level
	} else {
		x.level = LOG_FATAL
	}
	return
}
func (x *charmLogger) SetShowTimestamp(enabled bool) {
	x.barrier.Lock()
	defer x.barrier.Unlock()
	x.backend.SetReportTimestamp(enabled)
}
func (x *charmLogger) SetWriter(dst io.Writer) {
	x.barrier.Lock()
	defer x.barrier.Unlock()
	x.backend.SetOutput(dst)
}
func (x *charmLogger) Log(category *LogCategory, level LogLevel, msg string, args ...interface{}) {
	x.barrier.Lock()
	defer x.barrier.Unlock()

	minimum := x.level
	if category != nil && category.Level != LOG_ALL {
		minimum = category.Level
	}
	if !minimum.IsVisible(level) {
		return
	}

	backend := x.backend
	if category != nil {
		backend = backend.WithPrefix(category.Name)
	}
	backend.Log(level.charmLevel(), fmt.Sprintf(msg, args...))
}

/***************************************
 * Benchmark
 ***************************************/

type BenchmarkLog struct {
	category  *LogCategory
	message   string
	startedAt time.Time
}

func (x BenchmarkLog) Close() time.Duration {
	duration := time.Since(x.startedAt)
	LogVeryVerbose(x.category, "benchmark: %10v   %s", duration, x.message)
	return duration
}
func LogBenchmark(category *LogCategory, msg string, args ...interface{}) BenchmarkLog {
	formatted := fmt.Sprintf(msg, args...) // before measured scope
	return BenchmarkLog{
		category:  category,
		message:   formatted,
		startedAt: time.Now(),
	}
}
