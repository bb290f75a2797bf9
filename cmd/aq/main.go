package main

import "avatarquest/cmd/aq/root"

func main() {
	root.Execute()
}
