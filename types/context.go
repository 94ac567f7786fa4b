package types

// DefaultVersion is the fallback version when AppContext is nil
const DefaultVersion = "dev"

// AppContext holds application-wide context information passed to commands
type AppContext struct {
	Version     string
	ConfigPath  string
	HistoryPath string
}

// VersionOrDefault returns the version, tolerating a nil context
func (c *AppContext) VersionOrDefault() string {
	if c == nil || c.Version == "" {
		return DefaultVersion
	}
	return c.Version
}
