package main

import (
	"os"
)

// @title Weather Bot API
// @version 1.0.0
// @description Conversation endpoint of the weather bot.
// @description Send chat lines, receive prompts or rendered forecast tables.

// @license.name MIT
// @license.url https://opensource.org/licenses/MIT

// @host localhost:8080
// @BasePath /
// @schemes http https

// @tag.name Conversations
// @tag.description Conversation state machine
func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
