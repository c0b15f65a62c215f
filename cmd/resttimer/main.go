// Command resttimer runs rest countdowns from the terminal.
package main

func main() {
	Execute()
}
