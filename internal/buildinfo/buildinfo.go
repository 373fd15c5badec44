package buildinfo

import "runtime/debug"

// Version returns the module version recorded at build time, or "dev"
// for local builds.
func Version() string {
	info, ok := debug.ReadBuildInfo()
	if !ok || info == nil {
		return "dev"
	}
	version := info.Main.Version
	if version == "" || version == "(devel)" {
		return "dev"
	}
	return version
}
