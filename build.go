//go:build ignore

// build.go - migviz build helper
// Usage: go run build.go [-target=TARGET] [-v]
// Targets: build, test, dashboard, clean, release

package main

import (
	"flag"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"strings"
	"time"
)

const (
	module     = "migviz"
	contracts  = module + "/pkg/contracts"
	distDir    = "dist"
	mainSource = "./cmd/migviz"
)

var (
	colorReset  = "\033[0m"
	colorRed    = "\033[31m"
	colorGreen  = "\033[32m"
	colorBlue   = "\033[34m"
	colorYellow = "\033[33m"
)

// releaseTargets are the platforms a release is cross-compiled for
var releaseTargets = []struct{ goos, goarch string }{
	{"linux", "amd64"},
	{"darwin", "arm64"},
	{"windows", "amd64"},
}

func main() {
	target := flag.String("target", "build", "Build target")
	verbose := flag.Bool("v", false, "Verbose output")
	flag.Parse()

	start := time.Now()
	var err error
	switch *target {
	case "build":
		err = buildBinary(runtime.GOOS, runtime.GOARCH, *verbose)
	case "test":
		err = run(*verbose, "go", "test", "-race", "./...")
	case "dashboard":
		if err = buildBinary(runtime.GOOS, runtime.GOARCH, *verbose); err == nil {
			err = run(true, binaryPath(runtime.GOOS, runtime.GOARCH), "build")
		}
	case "clean":
		err = clean()
	case "release":
		err = release(*verbose)
	default:
		printError("unknown target " + *target)
		flag.Usage()
		os.Exit(1)
	}

	if err != nil {
		printError(err.Error())
		os.Exit(1)
	}
	printSuccess(fmt.Sprintf("%s completed in %s", *target, time.Since(start).Round(time.Millisecond)))
}

func printInfo(msg string)    { fmt.Printf("%s[INFO]%s %s\n", colorBlue, colorReset, msg) }
func printSuccess(msg string) { fmt.Printf("%s[SUCCESS]%s %s\n", colorGreen, colorReset, msg) }
func printError(msg string)   { fmt.Printf("%s[ERROR]%s %s\n", colorRed, colorReset, msg) }
func printWarning(msg string) { fmt.Printf("%s[WARNING]%s %s\n", colorYellow, colorReset, msg) }

func binaryPath(goos, goarch string) string {
	name := fmt.Sprintf("%s-%s-%s", module, goos, goarch)
	if goos == "windows" {
		name += ".exe"
	}
	return filepath.Join(distDir, name)
}

// ldflags stamps the build time and commit into pkg/contracts
func ldflags() string {
	flags := []string{"-s", "-w", fmt.Sprintf("-X %s.BuildTime=%s", contracts, time.Now().UTC().Format(time.RFC3339))}
	if out, err := exec.Command("git", "rev-parse", "--short", "HEAD").Output(); err == nil {
		flags = append(flags, fmt.Sprintf("-X %s.GitCommit=%s", contracts, strings.TrimSpace(string(out))))
	} else {
		printWarning("git commit unavailable; GitCommit stays unknown")
	}
	return strings.Join(flags, " ")
}

func buildBinary(goos, goarch string, verbose bool) error {
	out := binaryPath(goos, goarch)
	printInfo(fmt.Sprintf("Building %s", out))
	if err := os.MkdirAll(distDir, 0755); err != nil {
		return err
	}

	cmd := exec.Command("go", "build", "-trimpath", "-ldflags", ldflags(), "-o", out, mainSource)
	cmd.Env = append(os.Environ(), "CGO_ENABLED=0", "GOOS="+goos, "GOARCH="+goarch)
	if verbose {
		cmd.Stdout, cmd.Stderr = os.Stdout, os.Stderr
	}
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("build %s/%s: %w", goos, goarch, err)
	}

	if info, err := os.Stat(out); err == nil {
		printSuccess(fmt.Sprintf("Built %s (%.1f MB)", out, float64(info.Size())/1024/1024))
	}
	return nil
}

func release(verbose bool) error {
	if err := clean(); err != nil {
		return err
	}
	for _, t := range releaseTargets {
		if err := buildBinary(t.goos, t.goarch, verbose); err != nil {
			return err
		}
	}
	content := fmt.Sprintf("%s\nBuilt: %s\n", module, time.Now().Format("2006-01-02 15:04:05"))
	return os.WriteFile(filepath.Join(distDir, "VERSION.txt"), []byte(content), 0644)
}

func clean() error {
	printInfo("Cleaning build artifacts")
	for _, dir := range []string{distDir, filepath.Join("data", "clean"), "www", "logs"} {
		if err := os.RemoveAll(dir); err != nil {
			return fmt.Errorf("remove %s: %w", dir, err)
		}
	}
	return nil
}

func run(verbose bool, name string, args ...string) error {
	cmd := exec.Command(name, args...)
	if verbose {
		fmt.Printf("Running: %s %s\n", name, strings.Join(args, " "))
	}
	cmd.Stdout, cmd.Stderr = os.Stdout, os.Stderr
	return cmd.Run()
}
