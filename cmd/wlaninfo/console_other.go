//go:build !windows

package main

func hideConsole() {}
