// Package setup registers the catalog MCP server with desktop MCP clients by
// editing the client's JSON configuration file.
package setup

import (
	"encoding/json"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"sort"
)

// ServerName is the key the catalog server is registered under.
const ServerName = "corticogenesis-catalog"

// BinaryName is the MCP server executable looked up when no path is given.
const BinaryName = "mcp-server"

// Environment variables passed to the registered server.
const (
	EnvCatalogFile  = "CORTEX_CATALOG_FILE"
	EnvLoggingLevel = "CORTEX_LOGGING_LEVEL"
)

// ClientConfig is the part of a desktop client's configuration file that
// lists MCP servers. Other top-level keys are preserved on save.
type ClientConfig struct {
	MCPServers map[string]ServerEntry `json:"mcpServers"`

	extra map[string]json.RawMessage
}

// ServerEntry describes how the client launches one MCP server.
type ServerEntry struct {
	Command string            `json:"command"`
	Args    []string          `json:"args,omitempty"`
	Env     map[string]string `json:"env,omitempty"`
}

// Options controls Register.
type Options struct {
	ConfigPath  string // client config file; empty means DefaultConfigPath
	BinaryPath  string // server executable; empty means FindBinary
	CatalogFile string // optional YAML catalog for the server
	LogLevel    string // optional server log level
}

// Status reports whether the server is registered and usable.
type Status struct {
	ConfigPath  string   `json:"config_path"`
	Registered  bool     `json:"registered"`
	ServerPath  string   `json:"server_path,omitempty"`
	CatalogFile string   `json:"catalog_file,omitempty"`
	Servers     []string `json:"servers"`
	Issues      []string `json:"issues"`
}

// DefaultConfigPath returns the desktop client's config file for this OS.
func DefaultConfigPath() (string, error) {
	var configDir string

	switch runtime.GOOS {
	case "darwin":
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("failed to get home directory: %w", err)
		}
		configDir = filepath.Join(home, "Library", "Application Support", "Claude")
	case "linux":
		if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
			configDir = filepath.Join(xdg, "Claude")
			break
		}
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("failed to get home directory: %w", err)
		}
		configDir = filepath.Join(home, ".config", "Claude")
	case "windows":
		appData := os.Getenv("APPDATA")
		if appData == "" {
			return "", fmt.Errorf("APPDATA environment variable not set")
		}
		configDir = filepath.Join(appData, "Claude")
	default:
		return "", fmt.Errorf("unsupported operating system: %s", runtime.GOOS)
	}

	return filepath.Join(configDir, "claude_desktop_config.json"), nil
}

// LoadClientConfig reads the client configuration. A missing file yields an
// empty configuration.
func LoadClientConfig(path string) (*ClientConfig, error) {
	config := &ClientConfig{MCPServers: make(map[string]ServerEntry)}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return config, nil
		}
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	if err := json.Unmarshal(data, &config.extra); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}
	if raw, ok := config.extra["mcpServers"]; ok {
		if err := json.Unmarshal(raw, &config.MCPServers); err != nil {
			return nil, fmt.Errorf("failed to parse mcpServers: %w", err)
		}
		delete(config.extra, "mcpServers")
	}
	if config.MCPServers == nil {
		config.MCPServers = make(map[string]ServerEntry)
	}

	return config, nil
}

// SaveClientConfig writes config to path, creating the directory if needed.
func SaveClientConfig(path string, config *ClientConfig) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	out := make(map[string]interface{}, len(config.extra)+1)
	for k, v := range config.extra {
		out[k] = v
	}
	out["mcpServers"] = config.MCPServers

	data, err := json.MarshalIndent(out, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}
	if err := os.WriteFile(path, append(data, '\n'), 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}

// Register adds or replaces the catalog server entry in the client
// configuration and returns the entry written.
func Register(opts Options) (ServerEntry, error) {
	configPath, err := resolveConfigPath(opts.ConfigPath)
	if err != nil {
		return ServerEntry{}, err
	}

	binaryPath := opts.BinaryPath
	if binaryPath == "" {
		if binaryPath, err = FindBinary(BinaryName); err != nil {
			return ServerEntry{}, fmt.Errorf("could not find server binary: %w", err)
		}
	}
	if abs, err := filepath.Abs(binaryPath); err == nil {
		binaryPath = abs
	}

	entry := ServerEntry{Command: binaryPath}
	env := make(map[string]string)
	if opts.CatalogFile != "" {
		abs, err := filepath.Abs(opts.CatalogFile)
		if err != nil {
			return ServerEntry{}, fmt.Errorf("failed to resolve catalog file: %w", err)
		}
		env[EnvCatalogFile] = abs
	}
	if opts.LogLevel != "" {
		env[EnvLoggingLevel] = opts.LogLevel
	}
	if len(env) > 0 {
		entry.Env = env
	}

	config, err := LoadClientConfig(configPath)
	if err != nil {
		return ServerEntry{}, err
	}
	config.MCPServers[ServerName] = entry

	if err := SaveClientConfig(configPath, config); err != nil {
		return ServerEntry{}, err
	}
	return entry, nil
}

// Unregister removes the catalog server entry. It reports whether an entry
// was present.
func Unregister(configPath string) (bool, error) {
	configPath, err := resolveConfigPath(configPath)
	if err != nil {
		return false, err
	}

	config, err := LoadClientConfig(configPath)
	if err != nil {
		return false, err
	}
	if _, ok := config.MCPServers[ServerName]; !ok {
		return false, nil
	}
	delete(config.MCPServers, ServerName)
	return true, SaveClientConfig(configPath, config)
}

// GetStatus inspects the client configuration at configPath.
func GetStatus(configPath string) (*Status, error) {
	configPath, err := resolveConfigPath(configPath)
	if err != nil {
		return nil, err
	}

	config, err := LoadClientConfig(configPath)
	if err != nil {
		return nil, err
	}

	status := &Status{
		ConfigPath: configPath,
		Servers:    make([]string, 0, len(config.MCPServers)),
		Issues:     []string{},
	}
	for name := range config.MCPServers {
		status.Servers = append(status.Servers, name)
	}
	sort.Strings(status.Servers)

	entry, ok := config.MCPServers[ServerName]
	if !ok {
		status.Issues = append(status.Issues, fmt.Sprintf("%s is not registered", ServerName))
		return status, nil
	}

	status.Registered = true
	status.ServerPath = entry.Command
	status.CatalogFile = entry.Env[EnvCatalogFile]

	if info, err := os.Stat(entry.Command); err != nil {
		status.Issues = append(status.Issues, fmt.Sprintf("Server binary not found: %s", entry.Command))
	} else if runtime.GOOS != "windows" && info.Mode()&0111 == 0 {
		status.Issues = append(status.Issues, fmt.Sprintf("Server binary is not executable: %s", entry.Command))
	}
	if status.CatalogFile != "" {
		if _, err := os.Stat(status.CatalogFile); err != nil {
			status.Issues = append(status.Issues, fmt.Sprintf("Catalog file not found: %s", status.CatalogFile))
		}
	}

	return status, nil
}

// FindBinary looks for name on PATH and then in common install locations.
func FindBinary(name string) (string, error) {
	if path, err := exec.LookPath(name); err == nil {
		return path, nil
	}

	locations := []string{
		"./" + name,
		"./build/" + name,
		"/usr/local/bin/" + name,
	}
	if home, err := os.UserHomeDir(); err == nil {
		locations = append(locations, filepath.Join(home, ".local", "bin", name))
	}

	for _, loc := range locations {
		if _, err := os.Stat(loc); err == nil {
			if abs, err := filepath.Abs(loc); err == nil {
				return abs, nil
			}
			return loc, nil
		}
	}

	return "", fmt.Errorf("binary '%s' not found in common locations", name)
}

func resolveConfigPath(path string) (string, error) {
	if path != "" {
		return path, nil
	}
	return DefaultConfigPath()
}
