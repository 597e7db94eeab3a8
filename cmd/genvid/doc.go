// Package main hosts the Genvid CLI entrypoint and command graph.
//
// The Cobra-based command tree translates terminal invocations into calls
// against the Genvid backend: account and session management, the guided
// video creation wizard, project listing and polling, avatar browsing,
// script generation, and plan checkout. It centralizes configuration
// resolution, session hydration, and structured logging setup so subcommands
// can focus on user experience instead of wiring.
//
// Keep this package lean: add new functionality by extending the internal
// packages first, then surface it through dedicated commands or flags here.
package main
