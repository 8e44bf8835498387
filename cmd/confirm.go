package cmd

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"
)

var confirmInput io.Reader = os.Stdin

// storeName names the store a command acts on in prompts.
func storeName(webkit bool) string {
	if webkit {
		return "per-webview"
	}
	return "shared"
}

// confirm asks question on stdout and reports whether the answer read from
// confirmInput was affirmative. force skips the prompt.
func confirm(question string, force bool) bool {
	if force {
		return true
	}
	fmt.Printf("%s (yes/no): ", question)
	answer, _ := bufio.NewReader(confirmInput).ReadString('\n')
	switch strings.ToLower(strings.TrimSpace(answer)) {
	case "yes", "y", "true", "1":
		return true
	default:
		fmt.Println("Cancelled, no cookies were removed.")
		return false
	}
}
