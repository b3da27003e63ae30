// internal/ui/messages.go
package ui

// pageReadyMsg is emitted once by Init, the terminal counterpart of the
// document's load event
type pageReadyMsg struct{}

// postedMsg carries a callback scheduled with Loop.Post
type postedMsg struct {
	fn func()
}
