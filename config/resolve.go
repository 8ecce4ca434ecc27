package config

import (
	"os"
	"strings"

	"github.com/joho/godotenv"
)

// FileSystem abstracts the file operations the loader needs so tests can
// resolve paths without touching disk.
type FileSystem interface {
	Exists(path string) bool
	LoadEnv(path string) error
	Getwd() (string, error)
}

// RealFileSystem implements FileSystem on the OS.
type RealFileSystem struct{}

func (RealFileSystem) Exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// LoadEnv loads a .env file into the process environment. Variables that
// are already set win.
func (RealFileSystem) LoadEnv(path string) error {
	return godotenv.Load(path)
}

func (RealFileSystem) Getwd() (string, error) {
	return os.Getwd()
}

// Resolver locates the config and .env files of a service.
type Resolver struct {
	FileSystem FileSystem
}

// ResolvedFiles are the files the loader will read. Empty means none.
type ResolvedFiles struct {
	ConfigFile string
	EnvFile    string
}

// ResolveFiles returns the explicit paths from opts, searching for the
// ones left empty.
func (r *Resolver) ResolveFiles(serviceName string, opts LoaderConfig) ResolvedFiles {
	files := ResolvedFiles{ConfigFile: opts.ConfigFile, EnvFile: opts.EnvFile}
	if files.ConfigFile == "" {
		files.ConfigFile = r.first(configDirs(serviceName), "config.yml", "config.yaml")
	}
	if files.EnvFile == "" {
		files.EnvFile = r.first(envDirs(serviceName), ".env."+serviceName, ".env")
	}
	return files
}

// first returns the first existing dir/name. Names are tried in order
// across every directory before the next name is considered.
func (r *Resolver) first(dirs []string, names ...string) string {
	for _, name := range names {
		for _, dir := range dirs {
			path := dir + "/" + name
			if r.FileSystem.Exists(path) {
				return path
			}
		}
	}
	return ""
}

// configDirs lists config.yml locations, service directories first. The
// parent hops let tests in nested packages find the service config.
func configDirs(serviceName string) []string {
	return []string{
		"./cmd/" + serviceName,
		"../cmd/" + serviceName,
		"../../cmd/" + serviceName,
		"./config",
		"../config",
		".",
	}
}

// envDirs lists .env locations. A dashed service name ("billing-api") also
// searches the directories of its last segment ("api").
func envDirs(serviceName string) []string {
	names := []string{serviceName}
	if i := strings.LastIndex(serviceName, "-"); i != -1 {
		names = append(names, serviceName[i+1:])
	}

	var dirs []string
	for _, n := range names {
		for _, up := range []string{".", "..", "../.."} {
			dirs = append(dirs, up+"/cmd/"+n, up+"/config/"+n)
		}
	}
	return append(dirs, "./config", "../config", "../../config", ".", "..", "../..")
}
