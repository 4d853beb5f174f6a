package client

import "github.com/atotto/clipboard"

type systemClipboard struct{}

// SystemClipboard returns the desktop clipboard.
func SystemClipboard() Clipboard {
	return systemClipboard{}
}

func (systemClipboard) WriteAll(text string) error {
	return clipboard.WriteAll(text)
}
