package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os/exec"
	"runtime"
	"slices"
	"strings"

	"github.com/brainrot-publishing/bookconv"
	"github.com/brainrot-publishing/bookconv/internal/config"
	"github.com/brainrot-publishing/bookconv/internal/fileutil"
	"github.com/brainrot-publishing/bookconv/internal/hints"
)

// doctorResult holds all diagnostic information.
type doctorResult struct {
	Status   string     `json:"status"` // "ready", "warnings", "errors"
	Tools    []toolInfo `json:"tools"`
	Env      envInfo    `json:"environment"`
	System   systemInfo `json:"system"`
	Warnings []string   `json:"warnings,omitempty"`
	Errors   []string   `json:"errors,omitempty"`
}

// toolInfo holds the detection result for one external tool.
type toolInfo struct {
	Name     string `json:"name"`
	Found    bool   `json:"found"`
	Path     string `json:"path,omitempty"`
	Version  string `json:"version,omitempty"`
	Required string `json:"required_for"`
}

// envInfo holds environment detection results.
type envInfo struct {
	OS        string `json:"os"`
	Arch      string `json:"arch"`
	Container bool   `json:"container"`
	CI        bool   `json:"ci"`
}

// systemInfo holds system check results.
type systemInfo struct {
	TempDir      string `json:"temp_dir"`
	TempWritable bool   `json:"temp_writable"`
}

// doctorProbe abstracts tool lookup so tests do not depend on the host.
type doctorProbe struct {
	lookPath func(string) (string, error)
	version  func(path string) string
	getenv   func(string) string
}

func defaultProbe(getenv func(string) string) doctorProbe {
	return doctorProbe{lookPath: exec.LookPath, version: toolVersion, getenv: getenv}
}

// toolVersion returns the first line of "<tool> --version", or "".
func toolVersion(path string) string {
	out, err := exec.Command(path, "--version").Output() // #nosec G204 -- path from LookPath
	if err != nil {
		return ""
	}
	first, _, _ := strings.Cut(string(out), "\n")
	return strings.TrimSpace(first)
}

// runDoctorCmd checks that the configured tools are installed and returns
// an exit code: 0 = ready (possibly with warnings), 1 = errors found.
func runDoctorCmd(args []string, env *Environment, probe doctorProbe) int {
	jsonOutput := false
	for _, arg := range args {
		if arg == "--json" {
			jsonOutput = true
		}
	}

	cfg := config.DefaultConfig()
	applyEnvConfig(loadEnvConfig(probe.getenv), cfg)

	result := runDoctor(cfg, probe)

	if jsonOutput {
		enc := json.NewEncoder(env.Stdout)
		enc.SetIndent("", "  ")
		_ = enc.Encode(result)
	} else {
		printDoctorResult(env.Stdout, result)
	}

	if result.Status == "errors" {
		return ExitGeneral
	}
	return ExitSuccess
}

// runDoctor performs all diagnostic checks.
// pandoc is required for every non-text format; a missing ebook-convert or
// PDF engine only disables kindle or pdf and is reported as a warning.
func runDoctor(cfg *config.Config, probe doctorProbe) *doctorResult {
	result := &doctorResult{
		Status: "ready",
		Env:    envInfo{OS: runtime.GOOS, Arch: runtime.GOARCH},
	}

	checkTool(result, probe, cfg.Tools.Pandoc, "epub, pdf, kindle", true)
	checkTool(result, probe, cfg.Tools.EbookConvert, "kindle", false)
	if slices.Contains(bookconv.PDFEngines(), cfg.Tools.PDFEngine) {
		checkTool(result, probe, cfg.Tools.PDFEngine, "pdf", false)
	} else {
		result.Errors = append(result.Errors, fmt.Sprintf("unsupported PDF engine %q", cfg.Tools.PDFEngine))
	}
	checkEnvironment(result, probe.getenv)
	checkSystem(result, cfg.TempDir)

	if len(result.Errors) > 0 {
		result.Status = "errors"
	} else if len(result.Warnings) > 0 {
		result.Status = "warnings"
	}

	return result
}

func checkTool(result *doctorResult, probe doctorProbe, name, requiredFor string, required bool) {
	info := toolInfo{Name: name, Required: requiredFor}

	path, err := probe.lookPath(name)
	if err != nil {
		msg := fmt.Sprintf("%s not found (needed for %s)", name, requiredFor)
		if required {
			result.Errors = append(result.Errors, msg)
		} else {
			result.Warnings = append(result.Warnings, msg)
		}
		result.Tools = append(result.Tools, info)
		return
	}

	info.Found = true
	info.Path = path
	info.Version = probe.version(path)
	result.Tools = append(result.Tools, info)
}

// checkEnvironment detects container and CI environments.
func checkEnvironment(result *doctorResult, getenv func(string) string) {
	result.Env.Container = hints.IsInContainer() || getenv("container") != "" || getenv("KUBERNETES_SERVICE_HOST") != ""

	for _, v := range []string{"CI", "GITHUB_ACTIONS", "GITLAB_CI", "JENKINS_URL", "CIRCLECI"} {
		if getenv(v) != "" {
			result.Env.CI = true
			break
		}
	}
}

// checkSystem verifies the scratch directory accepts files.
func checkSystem(result *doctorResult, tempDir string) {
	result.System.TempDir = tempDir
	_, cleanup, err := fileutil.WriteTempFile(tempDir, "doctor", "tmp", "test")
	if err != nil {
		result.Errors = append(result.Errors, fmt.Sprintf("temp directory not writable: %v", err))
		return
	}
	cleanup()
	result.System.TempWritable = true
}

// printDoctorResult outputs human-readable diagnostic results.
func printDoctorResult(w io.Writer, r *doctorResult) {
	fmt.Fprintln(w, "bookconv doctor")
	fmt.Fprintln(w)

	fmt.Fprintln(w, "Tools")
	for _, t := range r.Tools {
		if !t.Found {
			fmt.Fprintf(w, "  [MISSING] %s (%s)\n", t.Name, t.Required)
			continue
		}
		fmt.Fprintf(w, "  [OK] %s at %s", t.Name, t.Path)
		if t.Version != "" {
			fmt.Fprintf(w, " (%s)", t.Version)
		}
		fmt.Fprintln(w)
	}
	fmt.Fprintln(w)

	fmt.Fprintln(w, "Environment")
	fmt.Fprintf(w, "  [OK] Platform: %s/%s\n", r.Env.OS, r.Env.Arch)
	if r.Env.Container {
		fmt.Fprintln(w, "  [OK] Container: detected")
	}
	if r.Env.CI {
		fmt.Fprintln(w, "  [OK] CI: detected")
	}
	fmt.Fprintln(w)

	fmt.Fprintln(w, "System")
	if r.System.TempWritable {
		fmt.Fprintln(w, "  [OK] Temp directory: writable")
	} else {
		fmt.Fprintln(w, "  [ERROR] Temp directory: not writable")
	}
	fmt.Fprintln(w)

	if len(r.Warnings) > 0 {
		fmt.Fprintln(w, "Warnings:")
		for _, warn := range r.Warnings {
			fmt.Fprintf(w, "  [WARN] %s\n", warn)
		}
		fmt.Fprintln(w)
	}

	if len(r.Errors) > 0 {
		fmt.Fprintln(w, "Errors:")
		for _, err := range r.Errors {
			fmt.Fprintf(w, "  [ERROR] %s\n", err)
		}
		fmt.Fprintln(w)
	}

	switch r.Status {
	case "ready":
		fmt.Fprintln(w, "Status: Ready to convert")
	case "warnings":
		fmt.Fprintln(w, "Status: Ready with warnings")
	case "errors":
		fmt.Fprintln(w, "Status: Not ready (see errors above)")
	}
}
