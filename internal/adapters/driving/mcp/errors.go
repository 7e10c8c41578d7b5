// Package mcp provides an MCP (Model Context Protocol) server adapter for medexpert.
// It lets AI assistants run symptom interviews and browse the rule catalog.
package mcp

import "errors"

// ErrMissingInterviewService is returned when the interview service is not provided.
var ErrMissingInterviewService = errors.New("mcp: interview service is required")

// ErrUnknownSession is returned when a session ID does not name a running interview.
var ErrUnknownSession = errors.New("mcp: unknown interview session")

// ErrNoQuestion is returned when a session has no question awaiting an answer.
var ErrNoQuestion = errors.New("mcp: no question is awaiting an answer")
