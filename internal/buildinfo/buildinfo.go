// Package buildinfo supplies the program identity string that er prefixes
// onto captured error traces, the way pktd/pktconfig/version does for the
// rest of that codebase.
package buildinfo

var userAgentName = "miniscript"

// SetUserAgentName overrides the program name reported in error traces.
// Binaries under cmd/ call this from main() before doing anything else.
func SetUserAgentName(name string) {
	userAgentName = name
}

// Version returns the short identity string stamped on error traces.
func Version() string {
	return userAgentName
}
