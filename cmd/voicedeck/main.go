package main

import "github.com/nikhilbhutani/voicedeck/internal/cli"

func main() {
	cli.Execute()
}
