// Command ragchat is a chat client for a retrieval-augmented
// question-answering service, and that service.
package main

import (
	"github.com/joho/godotenv"

	"github.com/diogo/ragchat/internal/commands"
)

func main() {
	// A missing .env is normal; the environment is used as is.
	_ = godotenv.Load()

	commands.Execute()
}
