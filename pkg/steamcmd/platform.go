package steamcmd

import (
	"fmt"
	"runtime"
	"slices"
	"strings"
)

// platformInfo describes where steamcmd is downloaded from and what it is called on a given platform
type platformInfo struct {
	ArchiveExtension string
	Extension        string
	Url              string
}

// platforms maps a GOOS value to its steamcmd installer metadata
var platforms = map[string]platformInfo{
	"linux": {
		ArchiveExtension: ".tar.gz",
		Extension:        ".sh",
		Url:              "https://steamcdn-a.akamaihd.net/client/installer/steamcmd_linux.tar.gz",
	},
	"windows": {
		ArchiveExtension: ".zip",
		Extension:        ".exe",
		Url:              "https://steamcdn-a.akamaihd.net/client/installer/steamcmd.zip",
	},
}

// Returns the sorted list of supported platforms
func SupportedPlatforms() []string {
	list := []string{}
	for platform := range platforms {
		list = append(list, platform)
	}
	slices.Sort(list)
	return list
}

// Looks up installer metadata for a platform.  An empty platform resolves to the current GOOS.
// Returns an error if the platform is not supported.
func lookupPlatform(platform string) (string, platformInfo, error) {
	if platform == "" {
		platform = runtime.GOOS
	}
	info, ok := platforms[platform]
	if !ok {
		return "", platformInfo{}, fmt.Errorf("%w: unsupported operating system %s (expected one of %s)", ErrInstall, platform, strings.Join(SupportedPlatforms(), ", "))
	}
	return platform, info, nil
}
