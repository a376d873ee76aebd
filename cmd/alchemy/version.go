package main

// Set with -ldflags "-X main.version=..." at build time.
var version = "dev"
