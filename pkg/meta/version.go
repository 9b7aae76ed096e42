package meta

// ProtocolVersion is the VXI-11 core program version the bridge answers for.
const (
	ProtocolVersion = 1
)

// Following variables are filled in by the linker
var (
	Version   string
	GitCommit string
	BuildDate string
)

type VersionOutput struct {
	Version   string `json:"version"`
	GitCommit string `json:"gitCommit"`
	BuildDate string `json:"buildDate"`

	ProtocolVersion int    `json:"protocolVersion"`
	Identification  string `json:"identification"`
}

func GetVersion(identification string) VersionOutput {
	version := Version
	if version == "" {
		version = "dev"
	}
	return VersionOutput{
		Version:   version,
		GitCommit: GitCommit,
		BuildDate: BuildDate,

		ProtocolVersion: ProtocolVersion,
		Identification:  identification,
	}
}
