package base

import (
	"fmt"
	"os"
	"runtime"
	"strings"

	"github.com/Showmax/go-fqdn"
	"github.com/shirou/gopsutil/host"
)

var LogHAL = NewLogCategory("HAL")

/***************************************
 * Host Id
 ***************************************/

type HostId string

const (
	HOST_WINDOWS HostId = "WINDOWS"
	HOST_LINUX   HostId = "LINUX"
	HOST_DARWIN  HostId = "DARWIN"
)

func GetHostIds() []HostId {
	return []HostId{
		HOST_WINDOWS,
		HOST_LINUX,
		HOST_DARWIN,
	}
}

func (id HostId) String() string {
	return (string)(id)
}
func (x *HostId) Set(in string) (err error) {
	switch strings.ToUpper(in) {
	case HOST_WINDOWS.String():
		*x = HOST_WINDOWS
	case HOST_LINUX.String():
		*x = HOST_LINUX
	case HOST_DARWIN.String():
		*x = HOST_DARWIN
	default:
		err = MakeUnexpectedValueError(x, in)
	}
	return err
}

/***************************************
 * Host Platform
 ***************************************/

type HostPlatform struct {
	Id       HostId
	Name     string
	Hostname string
	Kernel   string
}

func (x HostPlatform) String() string {
	return fmt.Sprint(x.Id, " ", x.Name, " (", x.Hostname, ")")
}

var gCurrentHost *HostPlatform

// GetCurrentHost describes the machine running the discovery, it is only used for reports.
func GetCurrentHost() *HostPlatform {
	if gCurrentHost == nil {
		gCurrentHost = probeCurrentHost()
	}
	return gCurrentHost
}
func SetCurrentHost(host *HostPlatform) {
	gCurrentHost = host
}

func probeCurrentHost() *HostPlatform {
	result := &HostPlatform{
		Name:   runtime.GOOS,
		Kernel: runtime.GOARCH,
	}
	if err := result.Id.Set(runtime.GOOS); err != nil {
		LogVerbose(LogHAL, "unknown host os %q: %v", runtime.GOOS, err)
	}

	if hostname, err := fqdn.FqdnHostname(); err == nil {
		result.Hostname = hostname
	} else if hostname, err = os.Hostname(); err == nil {
		LogVeryVerbose(LogHAL, "fqdn lookup failed, fallback on os hostname %q", hostname)
		result.Hostname = hostname
	}

	if info, err := host.Info(); err == nil {
		result.Name = fmt.Sprintf("%s %s", info.Platform, info.PlatformVersion)
		result.Kernel = fmt.Sprintf("%s %s", info.KernelVersion, info.KernelArch)
	} else {
		LogVerbose(LogHAL, "failed to query host info: %v", err)
	}
	return result
}

func IfWindows(block func()) {
	if GetCurrentHost().Id == HOST_WINDOWS {
		block()
	}
}
