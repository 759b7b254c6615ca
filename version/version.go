package version

import "runtime/debug"

// Version can be set at build time:
// go build -ldflags "-X github.com/vsariola/chime/version.Version=$(git describe --dirty)"
var Version string

// Hash is the short VCS revision of the build, suffixed with -dirty for
// modified trees, or empty when the binary was built without VCS info.
var Hash = func() string {
	info, ok := debug.ReadBuildInfo()
	if !ok {
		return ""
	}
	return hashFromSettings(info.Settings)
}()

var VersionOrHash = func() string {
	if Version != "" {
		return Version
	}
	if Hash != "" {
		return Hash
	}
	return "devel"
}()

func hashFromSettings(settings []debug.BuildSetting) string {
	var revision string
	modified := false
	for _, s := range settings {
		switch s.Key {
		case "vcs.revision":
			revision = s.Value
		case "vcs.modified":
			modified = s.Value == "true"
		}
	}
	if len(revision) > 7 {
		revision = revision[:7]
	}
	if revision != "" && modified {
		return revision + "-dirty"
	}
	return revision
}
