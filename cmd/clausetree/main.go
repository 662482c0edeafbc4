// Command clausetree rebuilds the clause outline of a regulatory document
// from the command line.
package main

func main() {
	Execute()
}
