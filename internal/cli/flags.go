package cli

// Flags contains all global flags for the CLI
type Flags struct {
	ConfigFile string // Empty loads the embedded defaults
	LogLevel   string
	LogFormat  string
	Verbose    int
	NoColor    bool

	DebugPipeline   bool
	DebugValidation bool
	DebugEstimator  bool
	DebugConfig     bool
}

// newFlags returns flags with their default values
func newFlags() *Flags {
	return &Flags{
		LogLevel:  "info",
		LogFormat: "text",
	}
}
