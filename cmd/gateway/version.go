// In file: cmd/gateway/version.go
package main

import (
	"fmt"
	"runtime"

	cacheversion "github.com/Kedhareswer/platform-prompt-alchemy-lab-sub000/internal/version"
)

// Set with -ldflags "-X main.version=..." at build time.
var (
	version   = "dev"
	buildDate = "unknown"
	gitCommit = "unknown"
)

type BuildInfo struct {
	Version   string `json:"version"`
	BuildDate string `json:"buildDate"`
	GitCommit string `json:"gitCommit"`
	GoVersion string `json:"goVersion"`
	Platform  string `json:"platform"`
	// Components are the versions that feed the result cache keys.
	Components map[string]string `json:"components"`
}

func GetBuildInfo() BuildInfo {
	return BuildInfo{
		Version:    version,
		BuildDate:  buildDate,
		GitCommit:  gitCommit,
		GoVersion:  runtime.Version(),
		Platform:   fmt.Sprintf("%s/%s", runtime.GOOS, runtime.GOARCH),
		Components: cacheversion.Components(),
	}
}
