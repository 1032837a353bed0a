// Copyright © 2026 ソニーレベル <C7kali3@gmail.com>
// Prerequisite types and tool definitions

package prereq

// Tool represents a prerequisite tool
type Tool struct {
	Name         string   // Tool name
	Command      string   // Command to check existence
	VersionArgs  []string // Arguments printing the version
	Alternatives []string // Alternative command names
	InstallGuide string   // Installation instructions
	Required     bool     // Instrumentation cannot run without it
}

// Tool names known to the checker
const (
	ToolCargo        = "cargo"
	ToolRustc        = "rustc"
	ToolRustup       = "rustup"
	ToolLLVMProfdata = "llvm-profdata"
)

// DefaultTools returns the list of supported tools
func DefaultTools() map[string]*Tool {
	return map[string]*Tool{
		ToolCargo: {
			Name:        ToolCargo,
			Command:     "cargo",
			VersionArgs: []string{"--version"},
			Required:    true,
			InstallGuide: `Install the Rust toolchain:
  All:     curl --proto '=https' --tlsv1.2 -sSf https://sh.rustup.rs | sh
  Docs:    https://www.rust-lang.org/tools/install`,
		},
		ToolRustc: {
			Name:        ToolRustc,
			Command:     "rustc",
			VersionArgs: []string{"--version"},
			Required:    true,
			InstallGuide: `rustc is installed together with cargo by rustup.
  All:     https://www.rust-lang.org/tools/install`,
		},
		ToolRustup: {
			Name:        ToolRustup,
			Command:     "rustup",
			VersionArgs: []string{"--version"},
			InstallGuide: `Install rustup:
  All:     curl --proto '=https' --tlsv1.2 -sSf https://sh.rustup.rs | sh`,
		},
		ToolLLVMProfdata: {
			Name:         ToolLLVMProfdata,
			Command:      "llvm-profdata",
			VersionArgs:  []string{"--version"},
			Alternatives: []string{"llvm-profdata-19", "llvm-profdata-18", "llvm-profdata-17"},
			InstallGuide: `llvm-profdata is needed to merge the gathered profiles:
  rustup:  rustup component add llvm-tools-preview
  Ubuntu:  sudo apt install llvm
  macOS:   brew install llvm`,
		},
	}
}

// CheckResult contains the result of checking a tool
type CheckResult struct {
	Name     string // Tool name
	Found    bool   // Whether tool was found
	Required bool   // Whether the tool is mandatory
	Version  string // Detected version (if found)
	Path     string // Path to tool (if found)
	Error    error  // Error during check (if any)
}

// CheckSummary contains results for all checks
type CheckSummary struct {
	Results         []CheckResult // Individual results
	AllFound        bool          // Whether all tools were found
	RequiredMissing bool          // Whether a mandatory tool is missing
	MissingTools    []string      // List of missing tool names
}

// NewCheckSummary creates a new check summary
func NewCheckSummary() *CheckSummary {
	return &CheckSummary{
		Results:      []CheckResult{},
		AllFound:     true,
		MissingTools: []string{},
	}
}

// AddResult adds a check result to the summary
func (s *CheckSummary) AddResult(result CheckResult) {
	s.Results = append(s.Results, result)
	if !result.Found {
		s.AllFound = false
		s.MissingTools = append(s.MissingTools, result.Name)
		if result.Required {
			s.RequiredMissing = true
		}
	}
}
