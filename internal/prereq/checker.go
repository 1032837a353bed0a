// Copyright © 2026 ソニーレベル <C7kali3@gmail.com>
// Prerequisite checker for tool existence and versions

package prereq

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"strings"
)

// checkOrder is the order tools are reported in
var checkOrder = []string{ToolCargo, ToolRustc, ToolRustup, ToolLLVMProfdata}

// Checker verifies tool existence
type Checker struct {
	tools map[string]*Tool
	run   func(name string, args ...string) ([]byte, error)
}

// NewChecker creates a checker using the given cargo and rustc binaries
func NewChecker(cargo, rustc string) *Checker {
	tools := DefaultTools()
	if cargo != "" {
		tools[ToolCargo].Command = cargo
	}
	if rustc != "" {
		tools[ToolRustc].Command = rustc
	}
	return NewCheckerWithTools(tools)
}

// NewCheckerWithTools creates a checker with custom tools
func NewCheckerWithTools(tools map[string]*Tool) *Checker {
	return &Checker{
		tools: tools,
		run: func(name string, args ...string) ([]byte, error) {
			return exec.Command(name, args...).Output()
		},
	}
}

// CheckAll checks every known tool
func (c *Checker) CheckAll() *CheckSummary {
	names := make([]string, 0, len(c.tools))
	for _, name := range checkOrder {
		if _, ok := c.tools[name]; ok {
			names = append(names, name)
		}
	}
	return c.CheckMultiple(names)
}

// CheckMultiple checks multiple tools and returns a summary
func (c *Checker) CheckMultiple(names []string) *CheckSummary {
	summary := NewCheckSummary()

	for _, name := range names {
		result := c.CheckTool(name)
		summary.AddResult(result)
	}

	return summary
}

// CheckTool checks if a specific tool exists
func (c *Checker) CheckTool(name string) CheckResult {
	result := CheckResult{Name: name}

	tool, ok := c.tools[strings.ToLower(name)]
	if !ok {
		// Unknown tool - try direct command check
		result.Path = c.whichCommand(name)
		result.Found = result.Path != ""
		return result
	}
	result.Required = tool.Required

	candidates := []string{tool.Command}
	if tool.Name == ToolLLVMProfdata {
		// rustup's llvm-tools component is preferred, it matches rustc's LLVM
		if path := c.sysrootTool(tool.Command); path != "" {
			candidates = append([]string{path}, candidates...)
		}
	}
	candidates = append(candidates, tool.Alternatives...)

	for _, candidate := range candidates {
		if path := c.whichCommand(candidate); path != "" {
			result.Found = true
			result.Path = path
			result.Version, result.Error = c.getVersion(path, tool.VersionArgs)
			return result
		}
	}

	return result
}

// GetTool returns a tool definition by name
func (c *Checker) GetTool(name string) *Tool {
	return c.tools[strings.ToLower(name)]
}

// GetInstallGuide returns installation instructions for a tool
func (c *Checker) GetInstallGuide(name string) string {
	tool := c.GetTool(name)
	if tool == nil {
		return "No installation guide available for " + name
	}
	return tool.InstallGuide
}

// RustcInfo queries `rustc -vV`
func (c *Checker) RustcInfo() (*RustcInfo, error) {
	rustc := c.tools[ToolRustc]
	if rustc == nil {
		return nil, fmt.Errorf("rustc is not a known tool")
	}
	out, err := c.run(rustc.Command, "-vV")
	if err != nil {
		return nil, fmt.Errorf("failed to run %s -vV: %w", rustc.Command, err)
	}
	return ParseRustcVerbose(string(out))
}

// Sysroot returns the rustc sysroot
func (c *Checker) Sysroot() (string, error) {
	rustc := c.tools[ToolRustc]
	if rustc == nil {
		return "", fmt.Errorf("rustc is not a known tool")
	}
	out, err := c.run(rustc.Command, "--print", "sysroot")
	if err != nil {
		return "", fmt.Errorf("failed to query sysroot: %w", err)
	}
	return strings.TrimSpace(string(out)), nil
}

// sysrootTool returns the path of an llvm-tools binary shipped by rustup, if present
func (c *Checker) sysrootTool(command string) string {
	info, err := c.RustcInfo()
	if err != nil || info.Host == "" {
		return ""
	}
	sysroot, err := c.Sysroot()
	if err != nil || sysroot == "" {
		return ""
	}
	if runtime.GOOS == "windows" {
		command += ".exe"
	}
	path := filepath.Join(sysroot, "lib", "rustlib", info.Host, "bin", command)
	if _, err := os.Stat(path); err != nil {
		return ""
	}
	return path
}

// whichCommand returns the full path to a command
func (c *Checker) whichCommand(cmd string) string {
	path, err := exec.LookPath(cmd)
	if err != nil {
		return ""
	}
	return path
}

// getVersion executes a version command and returns the first line of output
func (c *Checker) getVersion(command string, args []string) (string, error) {
	if len(args) == 0 {
		return "", nil
	}

	out, err := c.run(command, args...)
	if err != nil {
		return "", fmt.Errorf("%s %s failed: %w", command, strings.Join(args, " "), err)
	}

	output := strings.TrimSpace(string(out))
	if idx := strings.Index(output, "\n"); idx > 0 {
		output = output[:idx]
	}

	return output, nil
}

// FormatMissing returns a formatted string of missing tools with install guides
func (c *Checker) FormatMissing(summary *CheckSummary) string {
	if summary.AllFound {
		return ""
	}

	var sb strings.Builder
	sb.WriteString("Missing prerequisites:\n\n")

	for _, name := range summary.MissingTools {
		sb.WriteString("─────────────────────────────────\n")
		sb.WriteString(name + "\n")
		sb.WriteString("─────────────────────────────────\n")
		sb.WriteString(c.GetInstallGuide(name))
		sb.WriteString("\n\n")
	}

	return sb.String()
}
