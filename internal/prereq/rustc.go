// Copyright © 2026 ソニーレベル <C7kali3@gmail.com>
// rustc version info parsing

package prereq

import (
	"bufio"
	"fmt"
	"strings"
)

// RustcInfo is the subset of `rustc -vV` output the runner needs
type RustcInfo struct {
	Release     string
	Host        string
	CommitHash  string
	LLVMVersion string
}

// ParseRustcVerbose parses the key/value lines printed by `rustc -vV`
func ParseRustcVerbose(out string) (*RustcInfo, error) {
	info := &RustcInfo{}

	scanner := bufio.NewScanner(strings.NewReader(out))
	for scanner.Scan() {
		key, value, ok := strings.Cut(scanner.Text(), ":")
		if !ok {
			continue
		}
		value = strings.TrimSpace(value)
		switch strings.TrimSpace(key) {
		case "release":
			info.Release = value
		case "host":
			info.Host = value
		case "commit-hash":
			info.CommitHash = value
		case "LLVM version":
			info.LLVMVersion = value
		}
	}

	if info.Host == "" {
		return nil, fmt.Errorf("rustc output has no host triple")
	}
	return info, nil
}
