package main

import "course-portal/cmd"

func main() {
	cmd.Execute()
}
