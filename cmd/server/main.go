package main

import "github.com/yukikurage/event-dashboard-api/cmd/server/cmd"

func main() {
	cmd.Execute()
}
