//go:build windows

package main

import (
	"os"

	"golang.org/x/sys/windows"
)

// enableVT turns on virtual terminal sequences for the console behind in and
// out so the line editor's escape codes are interpreted.
func enableVT(in, out *os.File) {
	setMode := func(f *os.File, flag uint32) {
		h := windows.Handle(f.Fd())
		var mode uint32
		if windows.GetConsoleMode(h, &mode) == nil {
			windows.SetConsoleMode(h, mode|flag)
		}
	}
	setMode(in, windows.ENABLE_VIRTUAL_TERMINAL_INPUT)
	setMode(out, windows.ENABLE_VIRTUAL_TERMINAL_PROCESSING)
}
