package main

import (
	"fmt"
	"syscall"

	"github.com/scholarspoint/sphub-backend/internal/config"
	"golang.org/x/crypto/bcrypt"
	"golang.org/x/term"
)

// Generates a bcrypt hash for GATE_PASSCODE_HASH so the plaintext passcode
// never has to live in the environment.
func main() {
	cfg := config.Load()

	fmt.Println("=== Gate Passcode Hash ===")
	fmt.Print("Enter passcode: ")
	bytePasscode, err := term.ReadPassword(int(syscall.Stdin))
	if err != nil {
		fmt.Println("\nError reading passcode")
		return
	}
	fmt.Println()

	if len(bytePasscode) < 4 {
		fmt.Println("Error: Passcode must be at least 4 characters")
		return
	}

	hash, err := bcrypt.GenerateFromPassword(bytePasscode, cfg.BcryptCost)
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		return
	}

	fmt.Println("Set this in your environment:")
	fmt.Printf("GATE_PASSCODE_HASH=%s\n", hash)
}
