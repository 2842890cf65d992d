package ledger

import "fmt"

// Release version of the ledger. Bump Major on state breaking changes.
const (
	Major  = 0
	Minor  = 1
	Patch  = 0
	Suffix = ""
)

// GitCommit is set at build time with
//
//	-ldflags "-X github.com/iov-one/ledger.GitCommit=<hash>"
var GitCommit = ""

// Version returns the release version, followed by the commit when known.
func Version() string {
	v := fmt.Sprintf("v%d.%d.%d%s", Major, Minor, Patch, Suffix)
	if GitCommit != "" {
		v += " " + GitCommit
	}
	return v
}
