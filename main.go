package main

import "github.com/edusoft-mn/ms-go-course-payments/cmd"

func main() {
	cmd.Execute()
}
