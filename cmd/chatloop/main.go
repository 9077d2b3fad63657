// Command chatloop is an interactive terminal chat client.
package main

import "github.com/diogo/chatloop/internal/commands"

func main() {
	commands.Execute()
}
