package version

// Version and Commit are set at build time via:
//
//	go build -ldflags "-X ...version.Version=0.2.0 -X ...version.Commit=abc123"
var (
	Version = "dev"
	Commit  = "dev"
)

// String returns "clip <version> (<commit>)".
func String() string {
	return "clip " + Version + " (" + Commit + ")"
}
