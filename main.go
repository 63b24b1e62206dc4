package main

import "github.com/thenoobmlengineer/personal-portfolio/cmd"

func main() {
	cmd.Execute()
}
