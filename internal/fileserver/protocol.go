// Package fileserver hosts and consumes the shared append-only chat log. It
// is an external collaborator of the DME core: nodes call it, but it never
// participates in the Ricart-Agrawala protocol itself.
package fileserver

const (
	emptyLogSentinel = "[Chat room is empty]"
	noMessagesYet    = "[No messages yet]"

	okPosted        = "OK: Message posted"
	errNoPayload    = "ERROR: No message provided"
	errUnknownVerb  = "ERROR: Unknown command"
	requestTimeout  = "ERROR: Server timed out"
	connRefusedText = "ERROR: Server connection refused"
)
