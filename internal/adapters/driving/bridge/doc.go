// Package bridge connects an interview running on a worker goroutine to a
// user-facing surface (TUI, console, MCP).
//
// The worker sees a driven.InteractionPort. Every Ask publishes a *Question
// on the event stream and blocks until the surface answers it, the context
// is cancelled, or the bridge is closed. Only one question can be open at a
// time, and the reply path exists only on the published Question, so a
// surface can never answer a question that was not asked.
//
// The stream carries *Question, Notice, FollowUp and finally exactly one
// Finished, after which it is closed.
package bridge
