package main

import "github.com/JoyRichB/vlc/cmd"

func main() {
	cmd.Execute()
}
