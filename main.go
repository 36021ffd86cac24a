package main

import "github.com/wafy80/whatsapp-chat-transcriber/internal/cmd"

func main() {
	cmd.Execute()
}
