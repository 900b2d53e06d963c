package version

import "runtime/debug"

// Set at build time via ldflags.
var (
	Version = "dev"
	Commit  = "none"
	Date    = "unknown"
)

func Full() string {
	return Version + " (" + Commit + ") " + Date
}

func Short() string {
	return Version
}

// init backfills from runtime/debug build info so `go install` builds show
// real version info without ldflags. ldflags values take precedence.
func init() {
	info, ok := debug.ReadBuildInfo()
	if !ok {
		return
	}
	backfill(info)
}

func backfill(info *debug.BuildInfo) {
	if info == nil {
		return
	}

	// A build from an untagged HEAD reports "(devel)" — keep "dev" then.
	if Version == "dev" && info.Main.Version != "" && info.Main.Version != "(devel)" {
		Version = info.Main.Version
	}

	for _, s := range info.Settings {
		switch s.Key {
		case "vcs.revision":
			if Commit == "none" && s.Value != "" {
				rev := s.Value
				if len(rev) > 7 {
					rev = rev[:7]
				}
				Commit = rev
			}
		case "vcs.time":
			if Date == "unknown" && s.Value != "" {
				Date = s.Value
			}
		}
	}
}
