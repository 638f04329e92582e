package versioning

// Filled in by --ldflags at build time, e.g.
// -X github.com/0xPolygon/polygon-devpool/versioning.Version=v0.1.0
var (
	Version   = "dev"
	Branch    string
	Commit    string
	BuildTime string
)
