// Command feedbackctl inspects and exports the feedback database.
package main

import "skinsense-backend/internal/cli"

func main() {
	cli.Main()
}
