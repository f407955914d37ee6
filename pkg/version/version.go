package version

// Version is the current application version.
// Override at build time via:
//
//	go build -ldflags "-X github.com/vanderheijden86/treepick/pkg/version.Version=v0.2.0"
var Version = "v0.1.0"
