package domain

// Thread is a reconstructed reply tree rooted at a message whose reply
// target is absent from the reconstruction scope. Threads are built per
// (group, day) request and never persisted.
type Thread struct {
	Msg     *Message
	Replies []*Thread
}
