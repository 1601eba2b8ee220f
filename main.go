/*
Copyright © 2025 Logicos Software

nibblemerge - hex nibble text to binary byte literal converter

This is the main entry point for the nibblemerge command-line tool.
nibblemerge reads a text file of hexadecimal digits, merges every pair of
digits into one byte and writes the bytes as 0bNNNNNNNN literals, ready
to be pasted into a C array initializer.
*/
package main

import "nibblemerge/cmd"

// main is the entry point for the nibblemerge application.
// It delegates all command handling to the cmd package which uses
// the Cobra library for CLI argument parsing and command execution.
func main() {
	cmd.Execute()
}
