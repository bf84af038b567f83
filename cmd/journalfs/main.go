// Copyright © 2018 One Concern

package main

import "github.com/fairjournal/journalfs/cmd/journalfs/cmd"

func main() {
	cmd.Execute()
}
