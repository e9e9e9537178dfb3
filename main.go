package main

import "task-manager.com/task-manager/cmd"

func main() {
	cmd.Execute()
}
