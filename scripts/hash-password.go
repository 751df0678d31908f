// Package main is a development utility for generating a bcrypt password hash
// for a local admin account. It prints the raw password, its hash, and a
// ready-to-run SQL UPDATE statement so developers can quickly reset a usable
// login in a local database without running the full server flow. Do not use
// generated passwords in production — use the user management API instead.
package main

import (
	"crypto/rand"
	"encoding/base64"
	"fmt"
	"log"
	"os"

	"golang.org/x/crypto/bcrypt"
)

func main() {
	var password string
	if len(os.Args) > 1 {
		password = os.Args[1]
	} else {
		randomBytes := make([]byte, 18)
		if _, err := rand.Read(randomBytes); err != nil {
			log.Fatal(err)
		}
		password = base64.RawURLEncoding.EncodeToString(randomBytes)
	}

	hashBytes, err := bcrypt.GenerateFromPassword([]byte(password), 10)
	if err != nil {
		log.Fatal(err)
	}

	fmt.Println("==========================================================")
	fmt.Println("Password Hash Generated")
	fmt.Println("==========================================================")
	fmt.Printf("\nPassword: %s\n", password)
	fmt.Printf("\nHash: %s\n", string(hashBytes))
	fmt.Println("\n==========================================================")
	fmt.Println("SQL Update:")
	fmt.Println("==========================================================")
	fmt.Printf(`
UPDATE users
SET password_hash = '%s'
WHERE email = 'admin@dev.local';
`, string(hashBytes))
	fmt.Println("\n==========================================================")
}
